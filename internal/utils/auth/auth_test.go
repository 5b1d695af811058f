package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

var testSecret = []byte("super-secret-key")

func signed(t *testing.T, claims Claims, secret []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestCheckToken(t *testing.T) {
	valid, err := BuildJWTString(42, testSecret)
	require.NoError(t, err)

	expired := signed(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: 42,
	}, testSecret)
	noExpiry := signed(t, Claims{UserID: 42}, testSecret)
	noUser := signed(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, testSecret)

	tests := []struct {
		name        string
		token       string
		secret      []byte
		wantUserID  int64
		wantErr     bool
		wantExpired bool
	}{
		{"valid", valid, testSecret, 42, false, false},
		{"wrong secret", valid, []byte("other"), 0, true, false},
		{"expired", expired, testSecret, 0, true, true},
		{"no expiry", noExpiry, testSecret, 0, true, false},
		{"no user", noUser, testSecret, 0, true, false},
		{"garbage", "not-a-token", testSecret, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := CheckToken(tt.token, tt.secret)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUserID, claims.UserID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantExpired, err == serviceerrs.ErrTokenExpired) //nolint: errorlint // exact sentinel
		})
	}
}
