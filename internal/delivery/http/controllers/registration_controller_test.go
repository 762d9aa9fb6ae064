package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventsquare/internal/delivery/http/helpers"
	"eventsquare/internal/domain"
)

type mockRegistrationService struct {
	result *domain.RegistrationResult
	err    error
	gotIn  *domain.RegistrationInput
}

func (m *mockRegistrationService) RegisterForEvent(ctx context.Context, in *domain.RegistrationInput) (*domain.RegistrationResult, error) {
	m.gotIn = in
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRegistrationController_Register_Success(t *testing.T) {
	svc := &mockRegistrationService{
		result: &domain.RegistrationResult{
			Type:        domain.RegistrationTypeParticipating,
			User:        &domain.EventUser{ID: "u1", Name: "Taro"},
			Event:       &domain.EventSummary{ID: "e1", Name: "Open Campus"},
			CancelToken: "tok-1",
		},
	}
	ctrl := NewRegistrationController(discardLogger(), svc)

	body := `{"name":"Taro","email":"taro@kurekosen-ac.jp","department":"M","grade":"THIRD"}`
	req := httptest.NewRequest(http.MethodPost, "/events/e1/registrations", strings.NewReader(body))
	req.SetPathValue("eventID", "e1")
	w := httptest.NewRecorder()

	ctrl.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if svc.gotIn == nil || svc.gotIn.EventID != "e1" || svc.gotIn.Department != domain.DepartmentMechanical {
		t.Fatalf("service received wrong input: %+v", svc.gotIn)
	}

	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}

func TestRegistrationController_Register_MissingFields(t *testing.T) {
	ctrl := NewRegistrationController(discardLogger(), &mockRegistrationService{})

	req := httptest.NewRequest(http.MethodPost, "/events/e1/registrations", strings.NewReader(`{"name":""}`))
	req.SetPathValue("eventID", "e1")
	w := httptest.NewRecorder()

	ctrl.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRegistrationController_Register_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown event",
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "validation failure",
			err:        fmt.Errorf("%w: bad affiliation", domain.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "store failure",
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewRegistrationController(discardLogger(), &mockRegistrationService{err: tt.err})

			body := `{"name":"Taro","email":"taro@example.com","department":"OTHER","grade":"OTHER"}`
			req := httptest.NewRequest(http.MethodPost, "/events/e1/registrations", strings.NewReader(body))
			req.SetPathValue("eventID", "e1")
			w := httptest.NewRecorder()

			ctrl.Register(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp helpers.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("expected error code %q, got %+v", tt.wantCode, resp.Error)
			}
		})
	}
}
