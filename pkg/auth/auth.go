// Package auth provides password hashing and the service tokens used by the
// fulfillment integration. End users authenticate with cookie sessions; the
// JWTs here are only issued to backend services.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/boofino/boofino/config"
)

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ServiceClaims is the payload of a service token.
type ServiceClaims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.ServiceJWTSecret())
}

// GenerateServiceToken creates a signed token for a named backend service
// (e.g. "fulfillment"). Issued out-of-band by an operator.
func GenerateServiceToken(service string, ttl time.Duration) (string, error) {
	claims := ServiceClaims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateServiceToken parses and validates a service token string.
func ValidateServiceToken(t string) (*ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(t, &ServiceClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ServiceClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
