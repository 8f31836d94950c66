package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"school_service/internal/storage"
)

type revocation struct {
	RevokedAt time.Time `json:"revokedAt"`
}

// Ledger is the permanent blacklist of revoked tokens, keyed by the raw token
// under ["blacklisted_tokens", token]. There is no un-revoke.
type Ledger struct {
	kv  storage.Store
	now func() time.Time
}

func NewLedger(kv storage.Store) *Ledger {
	return &Ledger{kv: kv, now: time.Now}
}

// Revoke is idempotent; revoking twice keeps the token revoked.
func (l *Ledger) Revoke(ctx context.Context, token string) error {
	const op = "auth.Revoke"

	raw, err := json.Marshal(revocation{RevokedAt: l.now().UTC()})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := l.kv.Set(ctx, storage.BlacklistedTokenKey(token), raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (l *Ledger) IsRevoked(ctx context.Context, token string) (bool, error) {
	const op = "auth.IsRevoked"

	_, err := l.kv.Get(ctx, storage.BlacklistedTokenKey(token))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}
