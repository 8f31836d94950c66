package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"school_service/internal/models"
)

var (
	ErrEmptySigningKey = errors.New("empty signing key")
	ErrInvalidToken    = errors.New("invalid token")
)

type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and parses HS256 session tokens with a key fixed at construction.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec copies key. A nil now uses time.Now.
func NewCodec(key []byte, ttl time.Duration, now func() time.Time) (*Codec, error) {
	const op = "auth.NewCodec"

	if len(key) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySigningKey)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%s: non-positive ttl %s", op, ttl)
	}
	if now == nil {
		now = time.Now
	}

	return &Codec{
		key: append([]byte(nil), key...),
		ttl: ttl,
		now: now,
	}, nil
}

func (c *Codec) Issue(username string, role models.Role) (string, error) {
	const op = "auth.Issue"

	issuedAt := c.now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// Parse checks the signature and the claim shape. Time-based claims are not
// validated here; callers compare ExpiresAt themselves.
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	const op = "auth.Parse"

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w: unexpected claims", op, ErrInvalidToken)
	}

	if claims.Username == "" || claims.Role == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%s: %w: missing claims", op, ErrInvalidToken)
	}

	return claims, nil
}

// IsWellFormed is a structural pre-filter only; it does not check the signature.
func IsWellFormed(token string) bool {
	if token == "" {
		return false
	}
	return len(strings.Split(token, ".")) == 3
}
