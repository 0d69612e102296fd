package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/factura/internal/http/auth"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return s
}

func TestMiddleware(t *testing.T) {
	const secret = "s3cret"

	exp := time.Now().Add(time.Hour).Unix()

	type testCase struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantUser   string
	}

	tests := []testCase{
		{
			name:       "ValidToken",
			secret:     secret,
			header:     "Bearer " + sign(t, secret, jwt.MapClaims{"sub": "user-42", "exp": exp}),
			wantStatus: http.StatusOK,
			wantUser:   "user-42",
		},
		{
			name:       "MissingHeader",
			secret:     secret,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "WrongSecret",
			secret:     secret,
			header:     "Bearer " + sign(t, "other", jwt.MapClaims{"sub": "user-42", "exp": exp}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Expired",
			secret:     secret,
			header:     "Bearer " + sign(t, secret, jwt.MapClaims{"sub": "user-42", "exp": time.Now().Add(-time.Hour).Unix()}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "NoSubject",
			secret:     secret,
			header:     "Bearer " + sign(t, secret, jwt.MapClaims{"exp": exp}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "DevModeWithoutSecret",
			wantStatus: http.StatusOK,
			wantUser:   auth.DevUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string

			h := auth.Middleware(tt.secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = auth.UserID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, got)
		})
	}
}
