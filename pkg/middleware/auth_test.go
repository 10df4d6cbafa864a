package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantID      int64
		wantPresent bool
	}{
		{"valid user id", "42", 42, true},
		{"missing header", "", 0, false},
		{"non-numeric header", "abc", 0, false},
		{"zero is not a user", "0", 0, false},
		{"negative is not a user", "-7", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			var gotPresent bool
			handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, gotPresent = GetUserID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-User-ID", tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantPresent, gotPresent)
			assert.Equal(t, tt.wantID, gotID)
		})
	}
}
