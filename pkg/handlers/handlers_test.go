package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/stepwise/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusOK, map[string]string{"message": "ok"})

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s", ct)
	}

	var parsed map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if parsed["message"] != "ok" {
		t.Errorf("message: got %s, want ok", parsed["message"])
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		rec := httptest.NewRecorder()
		handlers.RespondError(rec, logger, status, errors.New("invalid input"))

		if rec.Code != status {
			t.Errorf("status: got %d, want %d", rec.Code, status)
		}

		var parsed handlers.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if parsed.Error != "invalid input" {
			t.Errorf("error: got %s, want invalid input", parsed.Error)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		ID int64 `json:"id"`
	}

	tests := []struct {
		name       string
		payload    string
		maxBytes   int64
		wantID     int64
		wantStatus int
	}{
		{"valid", `{"id":5}`, 64, 5, 0},
		{"unbounded", `{"id":6}`, 0, 6, 0},
		{"malformed", `{"id":`, 64, 0, http.StatusBadRequest},
		{"wrong type", `{"id":"x"}`, 64, 0, http.StatusBadRequest},
		{"too large", `{"id":1,"pad":"` + strings.Repeat("a", 128) + `"}`, 16, 0, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.payload))

			var got body
			err := handlers.DecodeJSON(rec, req, tt.maxBytes, &got)

			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("decode failed: %v", err)
				}
				if got.ID != tt.wantID {
					t.Errorf("id: got %d, want %d", got.ID, tt.wantID)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error")
			}
			if status := handlers.DecodeStatus(err); status != tt.wantStatus {
				t.Errorf("status: got %d, want %d", status, tt.wantStatus)
			}
		})
	}
}
