package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"school_service/internal/models"
	"school_service/internal/storage"
)

type Reason string

const (
	ReasonMissingToken     Reason = "missing_token"
	ReasonMalformedToken   Reason = "malformed_token"
	ReasonRevoked          Reason = "revoked"
	ReasonInvalidSignature Reason = "invalid_signature"
	ReasonExpired          Reason = "expired"
	ReasonUnknownUser      Reason = "unknown_user"
	ReasonInactiveSession  Reason = "inactive_session"
)

// ErrRejected matches every RejectedError via errors.Is.
var ErrRejected = errors.New("session rejected")

type RejectedError struct {
	Reason Reason
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("session rejected: %s", e.Reason)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

func reject(reason Reason) error {
	return &RejectedError{Reason: reason}
}

// RejectionReason extracts the reason from err, if it is a rejection.
func RejectionReason(err error) (Reason, bool) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

// Identity is what an admitted request carries into authorization checks.
type Identity struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

type UserGetter interface {
	GetUser(ctx context.Context, username string) (models.User, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Verifier struct {
	codec  *Codec
	ledger RevocationChecker
	users  UserGetter
	now    func() time.Time
}

func NewVerifier(codec *Codec, ledger RevocationChecker, users UserGetter) *Verifier {
	return &Verifier{
		codec:  codec,
		ledger: ledger,
		users:  users,
		now:    time.Now,
	}
}

// Verify admits token or returns a *RejectedError. The checks run in a fixed
// order and stop at the first failure: shape, blacklist, signature, expiry,
// owner lookup, active-token membership. Any other error is a store failure.
func (v *Verifier) Verify(ctx context.Context, token string) (Identity, error) {
	const op = "auth.Verify"

	if token == "" {
		return Identity{}, reject(ReasonMissingToken)
	}
	if !IsWellFormed(token) {
		return Identity{}, reject(ReasonMalformedToken)
	}

	revoked, err := v.ledger.IsRevoked(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return Identity{}, reject(ReasonRevoked)
	}

	claims, err := v.codec.Parse(token)
	if err != nil {
		return Identity{}, reject(ReasonInvalidSignature)
	}

	if !claims.ExpiresAt.Time.After(v.now()) {
		return Identity{}, reject(ReasonExpired)
	}

	user, err := v.users.GetUser(ctx, claims.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return Identity{}, reject(ReasonUnknownUser)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	if !user.HasToken(token) {
		return Identity{}, reject(ReasonInactiveSession)
	}

	return Identity{Username: claims.Username, Role: claims.Role}, nil
}
