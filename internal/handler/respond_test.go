package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: "text",
		Output: os.DevNull,
	})
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("order x: %w", models.ErrNotFound), http.StatusNotFound},
		{"insufficient stock", fmt.Errorf("short on sulfur: %w", models.ErrInsufficientStock), http.StatusConflict},
		{"conflict", fmt.Errorf("lost the race: %w", models.ErrConflict), http.StatusConflict},
		{"validation", fmt.Errorf("name required: %w", models.ErrValidation), http.StatusBadRequest},
		{"invalid formula", fmt.Errorf("empty recipe: %w", models.ErrInvalidFormula), http.StatusBadRequest},
		{"invalid progress", fmt.Errorf("too many units: %w", models.ErrInvalidProgress), http.StatusBadRequest},
		{"unclassified", fmt.Errorf("driver exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusForError(tc.err); got != tc.want {
				t.Errorf("statusForError() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWriteJSONResponse_EncodeFailureKeepsCommittedStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	// Channels are not JSON-serializable, so encoding fails after the
	// header has gone out.
	writeJSONResponse(testLogger(), rec, http.StatusOK, map[string]interface{}{"ch": make(chan int)})

	if rec.Code != http.StatusOK {
		t.Errorf("committed status was overwritten: got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "failed to encode response") {
		t.Errorf("second error payload written after committed header: %s", rec.Body.String())
	}
}

func TestWriteDomainError_MasksInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(testLogger(), rec, fmt.Errorf("pq: connection refused to 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal detail leaked to client: %q", body["error"])
	}
}

func TestWriteDomainError_EchoesDomainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(testLogger(), rec, fmt.Errorf("order missing: %w", models.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "order missing") {
		t.Errorf("domain error message lost: %s", rec.Body.String())
	}
}

func TestParseRequestBody_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"delta": 2, "surprise": true}`))

	var target struct {
		Delta float64 `json:"delta"`
	}
	if err := parseRequestBody(req, &target); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}
