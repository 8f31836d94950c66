package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"school_service/internal/auth"
	"school_service/internal/storage"
)

type fixture struct {
	mr        *miniredis.Miniredis
	kv        *storage.RedisStore
	users     *storage.UserStore
	codec     *auth.Codec
	ledger    *auth.Ledger
	verifier  *auth.Verifier
	auth      *AuthService
	messages  *MessageService
	schedules *ScheduleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	kv := storage.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = kv.Close()
		mr.Close()
	})

	codec, err := auth.NewCodec([]byte("service-test-signing-key"), 365*24*time.Hour, nil)
	require.NoError(t, err)

	users := storage.NewUserStore(kv)
	ledger := auth.NewLedger(kv)
	verifier := auth.NewVerifier(codec, ledger, users)

	return &fixture{
		mr:        mr,
		kv:        kv,
		users:     users,
		codec:     codec,
		ledger:    ledger,
		verifier:  verifier,
		auth:      NewAuthService(users, auth.NewBcryptHasher(bcrypt.MinCost), codec, ledger, verifier),
		messages:  NewMessageService(storage.NewMessageStore(kv)),
		schedules: NewScheduleService(storage.NewScheduleStore(kv), users),
	}
}
