// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/recommend"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestResponseWriter_Success(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logging.WithRequestIDs(req.Context(), logging.RequestIDs{Request: "req-123"}))
	rec := httptest.NewRecorder()

	NewResponseWriter(rec, req).Success(map[string]string{"message": "hello"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Error != nil {
		t.Errorf("Error = %+v, want nil", resp.Error)
	}
	if resp.Meta == nil || resp.Meta.RequestID != "req-123" {
		t.Errorf("Meta = %+v, want request_id req-123", resp.Meta)
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("Meta.Timestamp not set")
	}
}

func TestResponseWriter_SuccessList(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewResponseWriter(rec, httptest.NewRequest(http.MethodGet, "/", nil)).SuccessList([]string{"a", "b"}, 2)

	resp := decodeResponse(t, rec)
	if resp.Meta == nil || resp.Meta.Count == nil || *resp.Meta.Count != 2 {
		t.Errorf("Meta.Count = %+v, want 2", resp.Meta)
	}
}

func TestResponseWriter_SuccessWithStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewResponseWriter(rec, httptest.NewRequest(http.MethodGet, "/", nil)).
		SuccessWithStatus(http.StatusServiceUnavailable, map[string]bool{"ready": false}, nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Success {
		t.Error("Success = true for a 503, want false")
	}
}

func TestResponseWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		write    func(rw *ResponseWriter)
		wantCode int
		wantErr  string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("bad") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("gone") }, http.StatusNotFound, ErrCodeNotFound},
		{"too many", func(rw *ResponseWriter) { rw.TooManyRequests("slow") }, http.StatusTooManyRequests, ErrCodeTooManyRequests},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("boom") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("wait") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"validation", func(rw *ResponseWriter) { rw.ValidationError("k invalid", map[string]any{"field": "k"}) }, http.StatusBadRequest, ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.write(NewResponseWriter(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			resp := decodeResponse(t, rec)
			if resp.Success {
				t.Error("Success = true, want false")
			}
			if resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Errorf("Error = %+v, want code %s", resp.Error, tt.wantErr)
			}
			if resp.Data != nil {
				t.Errorf("Data = %v, want nil", resp.Data)
			}
		})
	}
}

func TestResponseWriter_RecommendError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "not found",
			err:         fmt.Errorf("recommend: %q: %w", "Nope", recommend.ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrCodeNotFound,
			wantMessage: `recommend: "Nope": book not found`,
		},
		{
			name:       "not ready",
			err:        recommend.ErrNotReady,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrCodeServiceUnavailable,
		},
		{
			name:       "invalid k",
			err:        fmt.Errorf("recommend: k=0: %w", recommend.ErrInvalidK),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:        "internal errors are not echoed",
			err:         errors.New("matrix exploded"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrCodeInternalError,
			wantMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			NewResponseWriter(rec, httptest.NewRequest(http.MethodGet, "/", nil)).RecommendError(tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeResponse(t, rec)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("Error = %+v, want code %s", resp.Error, tt.wantCode)
			}
			if tt.wantMessage != "" && resp.Error.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", resp.Error.Message, tt.wantMessage)
			}
		})
	}
}

func TestWriteHelpers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, httptest.NewRequest(http.MethodGet, "/", nil), 42)
	if rec.Code != http.StatusOK {
		t.Errorf("WriteSuccess status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusTeapot, "TEAPOT", "short and stout")
	if rec.Code != http.StatusTeapot {
		t.Errorf("WriteError status = %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Error == nil || resp.Error.Message != "short and stout" {
		t.Errorf("WriteError body = %+v", resp.Error)
	}
}
