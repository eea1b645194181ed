package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// Storage keys.
const (
	KeyAuthToken        = "auth_token"
	KeyUserData         = "user_data"
	KeyRememberMe       = "remember_me"
	KeySavedCredentials = "saved_credentials"
)

const nonceSize = 24

var errSealed = errors.New("store: cannot open sealed value")

// Credentials are the login details remembered for the next sign-in.
type Credentials struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	LoginType string `json:"loginType,omitempty"`
}

// Store is the session store. Every value is sealed with secretbox before it
// reaches the KV backend.
//
// Reads never fail: a missing, undecryptable or unparseable value is logged
// and reported as absent. Writes return the backend error.
type Store struct {
	kv  KV
	key *[KeySize]byte
	log zerolog.Logger
}

// New returns a Store over kv sealed with key.
func New(kv KV, key *[KeySize]byte, log zerolog.Logger) *Store {
	return &Store{kv: kv, key: key, log: log}
}

func (s *Store) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, s.key), nil
}

func (s *Store) open(box []byte) ([]byte, error) {
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, errSealed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, errSealed
	}
	return plain, nil
}

func (s *Store) put(ctx context.Context, key string, plain []byte) error {
	box, err := s.seal(plain)
	if err != nil {
		return fmt.Errorf("store.put %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, box); err != nil {
		return fmt.Errorf("store.put %s: %w", key, err)
	}
	return nil
}

// read returns the plaintext for key, or nil if it is absent or unreadable.
func (s *Store) read(ctx context.Context, key string) []byte {
	box, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("session store read failed")
		return nil
	}
	plain, err := s.open(box)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("session store value unreadable")
		return nil
	}
	return plain
}

func (s *Store) remove(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("store.remove %s: %w", key, err)
	}
	return nil
}

// SetAuthToken saves the bearer token.
func (s *Store) SetAuthToken(ctx context.Context, token string) error {
	return s.put(ctx, KeyAuthToken, []byte(token))
}

// AuthToken returns the saved token, or "" if there is none.
func (s *Store) AuthToken(ctx context.Context) string {
	return string(s.read(ctx, KeyAuthToken))
}

// RemoveAuthToken deletes the saved token.
func (s *Store) RemoveAuthToken(ctx context.Context) error {
	return s.remove(ctx, KeyAuthToken)
}

// SetUserData saves the signed-in user.
func (s *Store) SetUserData(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("store.SetUserData: %w", err)
	}
	return s.put(ctx, KeyUserData, data)
}

// UserData returns the saved user, or nil if absent or unparseable.
func (s *Store) UserData(ctx context.Context) *domain.User {
	data := s.read(ctx, KeyUserData)
	if data == nil {
		return nil
	}
	var u *domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		s.log.Warn().Err(err).Str("key", KeyUserData).Msg("session store value unparseable")
		return nil
	}
	return u
}

// RemoveUserData deletes the saved user.
func (s *Store) RemoveUserData(ctx context.Context) error {
	return s.remove(ctx, KeyUserData)
}

// SetRememberMe saves the remember-me preference.
func (s *Store) SetRememberMe(ctx context.Context, on bool) error {
	return s.put(ctx, KeyRememberMe, []byte(strconv.FormatBool(on)))
}

// RememberMe reports the saved preference. Anything but "true" is false.
func (s *Store) RememberMe(ctx context.Context) bool {
	return string(s.read(ctx, KeyRememberMe)) == "true"
}

// SetSavedCredentials saves login details for prefilling the login form.
func (s *Store) SetSavedCredentials(ctx context.Context, c Credentials) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("store.SetSavedCredentials: %w", err)
	}
	return s.put(ctx, KeySavedCredentials, data)
}

// SavedCredentials returns the saved login details, or nil.
func (s *Store) SavedCredentials(ctx context.Context) *Credentials {
	data := s.read(ctx, KeySavedCredentials)
	if data == nil {
		return nil
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		s.log.Warn().Err(err).Str("key", KeySavedCredentials).Msg("session store value unparseable")
		return nil
	}
	return &c
}

// RemoveSavedCredentials deletes the saved login details.
func (s *Store) RemoveSavedCredentials(ctx context.Context) error {
	return s.remove(ctx, KeySavedCredentials)
}

// ClearAll deletes every session key.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("store.ClearAll: %w", err)
	}
	return nil
}
