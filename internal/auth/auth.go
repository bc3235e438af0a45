package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionDuration is how long a token stays valid after login.
const SessionDuration = 3600 * time.Second

// Claims is the token payload: sub, email, iat, exp and a unique jti.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim as a user id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenGenerator signs and verifies session tokens.
type TokenGenerator interface {
	GenerateToken(userID int64, email string, issuedAt time.Time) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = SessionDuration
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
	}
}

// GenerateToken signs an HS256 token. issuedAt is truncated to the second
// so the expiry is exactly TTL after the iat claim.
func (j *JWTTokenGenerator) GenerateToken(userID int64, email string, issuedAt time.Time) (string, time.Time, error) {
	issuedAt = issuedAt.Truncate(time.Second)
	expiresAt := issuedAt.Add(j.TTL)

	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies the signature and the exp claim. Every failure
// is reported as ErrInvalidToken.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrInvalidToken.WithCause(err)
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// LoginResult is returned by login and registration.
type LoginResult struct {
	Token   string     `json:"token"`
	Expires int64      `json:"expires"`
	User    *user.User `json:"user"`
}

var ErrCredentialsRequired = internal.NewValidationError("Username and password required", internal.ErrCodeRequiredField)
