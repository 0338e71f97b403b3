package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const continuationIssuer = "lguportal/registration"

// ContinuationClaims name the pending registration a browser may complete.
type ContinuationClaims struct {
	PendingID string `json:"pid"`
	jwt.RegisteredClaims
}

func GenerateContinuationToken(secret string, pendingID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ContinuationClaims{
		PendingID: pendingID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    continuationIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        pendingID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func ParseContinuationToken(tokenStr string, secret string) (*ContinuationClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ContinuationClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(continuationIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*ContinuationClaims); ok && token.Valid && claims.PendingID != "" {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GenerateSessionToken returns the opaque cookie value for a login session
// and the hash under which the session row is stored.
func GenerateSessionToken(length int) (string, []byte, error) {
	if length <= 0 {
		length = 32
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, HashSessionToken(token), nil
}

func HashSessionToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
