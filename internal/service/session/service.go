package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	tokenrepo "storefront/internal/repository/token"
)

// DefaultID names the session used by requests that carry no token.
const DefaultID = ""

var ErrInvalidToken = errors.New("invalid token")

// Service issues anonymous sessions. Each session owns its own cart and
// product feed; see Registry.
type Service struct {
	tokens *tokenManager
	ttl    time.Duration
}

func New(tokens tokenrepo.Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{
		tokens: newTokenManager(tokens),
		ttl:    ttl,
	}
}

func (s *Service) Issue(ctx context.Context) (token, sessionID string, err error) {
	sessionID = uuid.NewString()
	token, err = s.tokens.Issue(ctx, sessionID, s.ttl)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}
	return token, sessionID, nil
}

func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, ok, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return "", fmt.Errorf("lookup token: %w", err)
	}
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.SessionID, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
