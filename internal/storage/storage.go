package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

const (
	usersPrefix      = "users"
	blacklistPrefix  = "blacklisted_tokens"
	messagesPrefix   = "messages"
	schedulesPrefix  = "schedule"
	keySeparator     = ":"
	keySeparatorGlob = ":*"
)

var ErrNotFound = errors.New("key not found")

// Key is an ordered tuple of segments, e.g. ["users", "alice"].
type Key []string

// Encode joins query-escaped segments with ':'. Escaped segments never
// contain ':' or glob metacharacters.
func (k Key) Encode() string {
	parts := make([]string, len(k))
	for i, seg := range k {
		parts[i] = url.QueryEscape(seg)
	}
	return strings.Join(parts, keySeparator)
}

func DecodeKey(s string) (Key, error) {
	if s == "" {
		return Key{}, nil
	}

	parts := strings.Split(s, keySeparator)
	key := make(Key, len(parts))
	for i, p := range parts {
		seg, err := url.QueryUnescape(p)
		if err != nil {
			return nil, err
		}
		key[i] = seg
	}

	return key, nil
}

// HasPrefix reports whether every segment of prefix matches k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

type Entry struct {
	Key   Key
	Value []byte
}

// Store is the key-value capability the rest of the service is built on.
// Single-key operations are atomic; nothing spans keys.
type Store interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	// Delete of an absent key is a no-op.
	Delete(ctx context.Context, key Key) error
	// List returns entries under prefix ordered by encoded key.
	List(ctx context.Context, prefix Key) ([]Entry, error)

	Close() error
}

func UserKey(username string) Key { return Key{usersPrefix, username} }

func BlacklistedTokenKey(token string) Key { return Key{blacklistPrefix, token} }

func MessageKey(id string) Key { return Key{messagesPrefix, id} }

func ScheduleKey(day, id string) Key { return Key{schedulesPrefix, day, id} }

func listPrefix(prefix Key) string {
	if len(prefix) == 0 {
		return ""
	}
	return prefix.Encode() + keySeparator
}
