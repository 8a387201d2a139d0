// Package session keeps the "current user" marker for each logged-in client.
// The client holds a signed token naming a session id; the serialized user lives
// in the key-value store under rni_session:<sid>. No record means logged out.
// Records expire together with their token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"rnimart-be/internal/kvstore"
	"rnimart-be/internal/logger"
	"rnimart-be/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	recordPrefix = "rni_session:"
	indexPrefix  = "rni_session_index:"

	DefaultTTL = 24 * time.Hour
)

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid session token")
)

type Claims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type Session struct {
	ID   string
	User user.User
}

// indexEntry lists one live session of a user in rni_session_index:<username>.
type indexEntry struct {
	SID       string    `json:"sid"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Manager struct {
	kv     kvstore.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	// guards the per-user session index
	mu sync.Mutex
}

func NewManager(kv kvstore.Store, secret string) *Manager {
	return &Manager{
		kv:     kv,
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
}

// Start records u as the current user of a new session and returns the signed token.
func (m *Manager) Start(ctx context.Context, u user.User) (string, error) {
	sid := uuid.NewString()
	u = u.Sanitized()
	now := m.now()
	expiresAt := now.Add(m.ttl)

	if err := m.writeRecord(ctx, sid, u, m.ttl); err != nil {
		return "", err
	}
	if err := m.updateIndex(ctx, u.Username, func(entries []indexEntry) []indexEntry {
		return append(entries, indexEntry{SID: sid, ExpiresAt: expiresAt})
	}); err != nil {
		return "", err
	}

	claims := Claims{
		SessionID: sid,
		Username:  u.Username,
		Role:      string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}

	logger.FromCtx(ctx).Info("session started",
		zap.String("username", u.Username),
		zap.String("session_id", sid),
	)
	return token, nil
}

// Current resolves a token to its session. A valid token whose record was
// removed (logout) yields ErrNoSession.
func (m *Manager) Current(ctx context.Context, token string) (Session, error) {
	claims, err := m.parse(token)
	if err != nil {
		return Session{}, err
	}

	raw, err := m.kv.Get(ctx, recordPrefix+claims.SessionID)
	if errors.Is(err, kvstore.ErrNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}

	var u user.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return Session{}, fmt.Errorf("session: decode record: %w", err)
	}
	return Session{ID: claims.SessionID, User: u}, nil
}

// End removes the session record. Ending an unknown session is not an error.
func (m *Manager) End(ctx context.Context, s Session) error {
	if err := m.kv.Delete(ctx, recordPrefix+s.ID); err != nil {
		return err
	}
	return m.updateIndex(ctx, s.User.Username, func(entries []indexEntry) []indexEntry {
		return slices.DeleteFunc(entries, func(e indexEntry) bool { return e.SID == s.ID })
	})
}

// Refresh rewrites every live session of u.Username so edits made by an admin
// show up for a user who is already logged in. Each record keeps its original expiry.
func (m *Manager) Refresh(ctx context.Context, u user.User) error {
	u = u.Sanitized()
	return m.updateIndex(ctx, u.Username, func(entries []indexEntry) []indexEntry {
		now := m.now()
		live := entries[:0]
		for _, e := range entries {
			if _, err := m.kv.Get(ctx, recordPrefix+e.SID); err != nil {
				continue
			}
			if err := m.writeRecord(ctx, e.SID, u, e.ExpiresAt.Sub(now)); err != nil {
				logger.FromCtx(ctx).Warn("failed to refresh session",
					zap.String("session_id", e.SID),
					zap.Error(err),
				)
			}
			live = append(live, e)
		}
		return live
	})
}

func (m *Manager) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) writeRecord(ctx context.Context, sid string, u user.User, ttl time.Duration) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return m.kv.SetTTL(ctx, recordPrefix+sid, raw, ttl)
}

// updateIndex drops expired entries before fn runs. The index itself expires
// with its longest-lived session.
func (m *Manager) updateIndex(ctx context.Context, username string, fn func([]indexEntry) []indexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := indexPrefix + username
	var entries []indexEntry

	raw, err := m.kv.Get(ctx, key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
	case err != nil:
		return err
	default:
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("session: decode index: %w", err)
		}
	}

	now := m.now()
	entries = slices.DeleteFunc(entries, func(e indexEntry) bool { return !e.ExpiresAt.After(now) })
	entries = fn(entries)
	if len(entries) == 0 {
		return m.kv.Delete(ctx, key)
	}

	var last time.Time
	for _, e := range entries {
		if e.ExpiresAt.After(last) {
			last = e.ExpiresAt
		}
	}

	raw, err = json.Marshal(entries)
	if err != nil {
		return err
	}
	return m.kv.SetTTL(ctx, key, raw, last.Sub(now))
}
