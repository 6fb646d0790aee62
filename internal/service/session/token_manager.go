package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

type tokenMeta struct {
	SessionID string
	ExpiresAt time.Time
}

type tokenManager struct {
	repo tokenrepo.Repository
	now  func() time.Time
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{
		repo: repo,
		now:  time.Now,
	}
}

func (m *tokenManager) Issue(ctx context.Context, sessionID string, ttl time.Duration) (string, error) {
	now := m.now()
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			SessionID: sessionID,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

// Validate resolves token, deleting it once expired. Lookup failures other
// than a missing token are returned as errors.
func (m *tokenManager) Validate(ctx context.Context, token string) (tokenMeta, bool, error) {
	meta, err := m.repo.Get(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return tokenMeta{}, false, nil
	}
	if err != nil {
		return tokenMeta{}, false, err
	}
	if m.now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return tokenMeta{}, false, nil
	}
	return tokenMeta{SessionID: meta.SessionID, ExpiresAt: meta.ExpiresAt}, true, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
