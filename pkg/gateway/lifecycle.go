package gateway

import (
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/logging"
)

// Close releases the database pool. Call after Serve returns.
func (g *Gateway) Close() {
	if g.deps.DB != nil {
		if err := g.deps.DB.Close(); err != nil {
			g.logger.ComponentWarn(logging.ComponentDatabase, "error during database close", zap.Error(err))
		}
	}
}
