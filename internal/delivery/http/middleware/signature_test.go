package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventsquare/internal/delivery/http/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(key, body string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRequireSignature(t *testing.T) {
	const key = "batch-signing-key"
	const body = `{"event_ids":["ev-1"]}`

	tests := []struct {
		name         string
		signature    string
		wantStatus   int
		nextCalled   bool
		wantBodyCode string
	}{
		{
			name:       "valid signature calls next",
			signature:  signBody(key, body),
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:         "missing signature",
			signature:    "",
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "wrong signature",
			signature:    signBody("other-key", body),
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var seenBody string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				b, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				seenBody = string(b)
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireSignature(key)(next)

			req := httptest.NewRequest(http.MethodPost, "http://test/batch/applicants-to-participants", strings.NewReader(body))
			if tt.signature != "" {
				req.Header.Set(SignatureHeader, tt.signature)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, body, seenBody, "body restored for next handler")
			}
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}
