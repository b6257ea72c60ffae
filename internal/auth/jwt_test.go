package auth

import (
	"testing"
	"time"

	"sectors-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func withConfig(t *testing.T, auth config.AuthConfig) {
	t.Helper()
	previous := config.GlobalConfig
	config.GlobalConfig = &config.Config{Auth: auth}
	t.Cleanup(func() { config.GlobalConfig = previous })
}

func TestGenerateAndValidateJWT(t *testing.T) {
	withConfig(t, config.AuthConfig{JWTSecret: testSecret, TokenExpiration: time.Hour})

	token, err := GenerateJWT(7, "sam", "sam@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	if claims.UserID != 7 || claims.Username != "sam" || claims.Subject != "user_7" {
		t.Errorf("claims = %+v", claims)
	}
	if lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time); lifetime != time.Hour {
		t.Errorf("token lifetime = %v, want 1h", lifetime)
	}
}

func TestValidateJWT_Rejects(t *testing.T) {
	withConfig(t, config.AuthConfig{JWTSecret: testSecret})

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, _ := expired.SignedString([]byte(testSecret))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1})
	foreignToken, _ := foreign.SignedString([]byte("another-secret-another-secret-xx"))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	unsignedToken, _ := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"garbage":   "not-a-token",
		"expired":   expiredToken,
		"wrong key": foreignToken,
		"alg none":  unsignedToken,
		"empty":     "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ValidateJWT(token); err == nil {
				t.Error("ValidateJWT() accepted an invalid token")
			}
		})
	}
}

func TestGenerateJWT_RequiresSecret(t *testing.T) {
	withConfig(t, config.AuthConfig{JWTSecret: "short"})

	if _, err := GenerateJWT(1, "sam", "sam@example.com"); err == nil {
		t.Error("GenerateJWT() accepted a short secret")
	}
}
