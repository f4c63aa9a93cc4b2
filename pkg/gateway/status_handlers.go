package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/mackerelio/go-osstat/cpu"
	"github.com/mackerelio/go-osstat/memory"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/httputil"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// cpuSampleInterval is the window over which /v1/status measures CPU usage.
const cpuSampleInterval = 200 * time.Millisecond

// healthResponse is the JSON structure used by healthHandler
type healthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

type hostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryTotal   uint64  `json:"memory_total"`
	MemoryUsed    uint64  `json:"memory_used"`
	MemoryPercent float64 `json:"memory_percent"`
}

func (g *Gateway) healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		StartedAt: g.startedAt,
		Uptime:    time.Since(g.startedAt).String(),
	})
}

// statusHandler aggregates server uptime, database reachability and host load.
// It answers 503 when the database cannot be reached.
func (g *Gateway) statusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	db := map[string]any{"driver": g.deps.DB.Driver(), "ok": true}
	status, code := "ok", http.StatusOK
	if err := g.deps.DB.Ping(ctx); err != nil {
		g.logger.ComponentWarn(logging.ComponentDatabase, "Status ping failed", zap.Error(err))
		db["ok"] = false
		db["error"] = "unreachable"
		status, code = "degraded", http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status": status,
		"server": healthResponse{
			Status:    status,
			StartedAt: g.startedAt,
			Uptime:    time.Since(g.startedAt).String(),
		},
		"database": db,
	}
	if host, err := sampleHost(ctx, cpuSampleInterval); err == nil {
		resp["host"] = host
	} else {
		g.logger.ComponentDebug(logging.ComponentGateway, "Host stats unavailable", zap.Error(err))
	}
	httputil.WriteJSON(w, code, resp)
}

func sampleHost(ctx context.Context, interval time.Duration) (*hostStats, error) {
	mem, err := memory.Get()
	if err != nil {
		return nil, err
	}
	stats := &hostStats{MemoryTotal: mem.Total, MemoryUsed: mem.Used}
	if mem.Total > 0 {
		stats.MemoryPercent = float64(mem.Used) / float64(mem.Total) * 100
	}

	before, err := cpu.Get()
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return stats, nil
	case <-time.After(interval):
	}
	after, err := cpu.Get()
	if err != nil {
		return nil, err
	}
	if total := float64(after.Total - before.Total); total > 0 {
		stats.CPUPercent = (1 - float64(after.Idle-before.Idle)/total) * 100
	}
	return stats, nil
}
