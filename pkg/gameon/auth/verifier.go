package auth

import (
	"context"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
)

// Identity is who a verified bearer token says the caller is.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Identity, error)
}

// Chain tries each verifier in turn and returns the first identity accepted.
// An expired-token error takes precedence over a generic invalid-token error.
type Chain []TokenVerifier

// Verify implements TokenVerifier.
func (c Chain) Verify(ctx context.Context, raw string) (*Identity, error) {
	var result error = ErrInvalidToken
	for _, v := range c {
		id, err := v.Verify(ctx, raw)
		if err == nil {
			return id, nil
		}
		if err == ErrExpiredToken || !errors.Is(err, errors.ErrUnauthorized) {
			result = err
		}
	}
	return nil, result
}
