package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKindOfUnwraps(t *testing.T) {
	err := fmt.Errorf("create: %w", ConflictErr("time_conflict", nil))
	if KindOf(err) != KindConflict {
		t.Fatalf("KindOf=%q, want conflict", KindOf(err))
	}
	if !IsBusiness(err, "time_conflict") {
		t.Fatalf("IsBusiness should match wrapped code")
	}
	if KindOf(errors.New("boom")) != "" {
		t.Fatalf("plain errors have no kind")
	}
}

func TestFromErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{NotFoundErr("appointment_not_found"), http.StatusNotFound, "appointment_not_found"},
		{ConflictErr("time_conflict", map[string]any{"appointment_id": 7}), http.StatusConflict, "time_conflict"},
		{InvalidInputErr("invalid_time", nil), http.StatusBadRequest, "invalid_time"},
		{PreconditionErr("service_not_offered"), http.StatusPreconditionFailed, "service_not_offered"},
		{errors.New("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		FromError(c, logger, tt.err)

		if rec.Code != tt.status {
			t.Fatalf("%v: status=%d, want %d", tt.err, rec.Code, tt.status)
		}
		var body HTTPError
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != tt.code {
			t.Fatalf("code=%q, want %q", body.Code, tt.code)
		}
	}
}
