package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidationError("caption", ReasonMediaURLRequired, "media_url is required"), http.StatusBadRequest},
		{"not found", NewNotFoundError("post", "7"), http.StatusNotFound},
		{"unauthorized", NewUnauthorizedError(""), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("post", "delete"), http.StatusForbidden},
		{"database", NewDatabaseError("insert post", errors.New("disk full")), http.StatusInternalServerError},
		{"sentinel not found", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped validation", Wrap(NewValidationError("", ReasonSelfFollow, "cannot follow yourself"), "follow"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	nf := fmt.Errorf("ctx: %w", NewNotFoundError("post", "1"))
	if !IsNotFound(nf) || !errors.Is(nf, ErrNotFound) {
		t.Fatal("expected wrapped NotFoundError to match")
	}
	if IsNotFound(nil) {
		t.Fatal("nil is not a not-found error")
	}
	if !IsForbidden(NewForbiddenError("post", "delete")) {
		t.Fatal("expected forbidden")
	}
	if !IsUnauthorized(NewUnauthorizedError("bad token")) {
		t.Fatal("expected unauthorized")
	}
	if got := ReasonOf(NewValidationError("address", ReasonSelfFollow, "x")); got != ReasonSelfFollow {
		t.Fatalf("ReasonOf = %q", got)
	}
	if got := GetErrorCode(errors.New("x")); got != CodeInternal {
		t.Fatalf("GetErrorCode = %q", got)
	}
}

func TestWriteHTTPError(t *testing.T) {
	t.Run("validation carries reason", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteHTTPError(rec, NewValidationError("content", ReasonContentRequired, "content is required"), "req-1")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		var body HTTPError
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != CodeValidation || body.Reason != ReasonContentRequired || body.TraceID != "req-1" {
			t.Fatalf("unexpected body: %+v", body)
		}
		if body.Details["field"] != "content" {
			t.Fatalf("missing field detail: %+v", body.Details)
		}
	})

	t.Run("unauthorized sets challenge header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteHTTPError(rec, NewUnauthorizedError("missing token"), "")
		if got := rec.Header().Get("WWW-Authenticate"); got != `Bearer realm="social"` {
			t.Fatalf("WWW-Authenticate = %q", got)
		}
	})

	t.Run("internal hides cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteHTTPError(rec, NewDatabaseError("select", errors.New("no such table: posts")), "")
		var body HTTPError
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Message != "database error" || body.Code != CodeDatabaseError {
			t.Fatalf("unexpected body: %+v", body)
		}
	})
}
