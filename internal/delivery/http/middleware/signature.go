package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	h "eventsquare/internal/delivery/http/helpers"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body, computed
// with the shared batch signing key. The scheduler that triggers the batch
// endpoints signs each request; nothing else may invoke them.
const SignatureHeader = "X-Batch-Signature"

// RequireSignature returns a wrapper that verifies the batch request
// signature. The body is restored for the next handler.
func RequireSignature(signingKey string) func(http.HandlerFunc) http.HandlerFunc {
	key := []byte(signingKey)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(SignatureHeader)
			if signature == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing signature")
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "unreadable body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			mac := hmac.New(sha256.New, key)
			mac.Write(body)
			expected := hex.EncodeToString(mac.Sum(nil))
			if !hmac.Equal([]byte(expected), []byte(signature)) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid signature")
				return
			}
			next(w, r)
		}
	}
}
