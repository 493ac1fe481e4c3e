package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aanand-mishra/classroom-api/internal/types"
)

// JWT issues and verifies HS256 tokens for the teacher.
type JWT struct {
	Secret []byte
	Issuer string
	TTL    time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Claims carried by teacher tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWT returns a JWT scheme signing with secret.
func NewJWT(secret, issuer string, ttl time.Duration) *JWT {
	return &JWT{Secret: []byte(secret), Issuer: issuer, TTL: ttl, Now: time.Now}
}

func (j *JWT) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Issue signs a token for teacher that expires after TTL.
func (j *JWT) Issue(teacher types.Teacher) (string, error) {
	now := j.now()
	claims := Claims{
		Email: teacher.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   teacher.ID,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
	if err != nil {
		return "", fmt.Errorf("auth.JWT.Issue: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry.
func (j *JWT) Verify(token string) error {
	_, err := jwt.ParseWithClaims(token, &Claims{},
		func(*jwt.Token) (any, error) { return j.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return fmt.Errorf("auth.JWT.Verify: %w", err)
	}
	return nil
}
