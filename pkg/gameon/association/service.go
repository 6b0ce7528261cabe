// Package association manages the links between games and their tags and dates.
//
// Linking is idempotent: asking for a link that already exists returns the
// existing row with created=false. Concurrent requests for the same link are
// settled by the unique indexes on the relation tables; the loser of the race
// reads back the winner's row instead of failing.
package association

import (
	"context"
	"log/slog"

	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
	"github.com/gargrave/gameon-server/pkg/gameon/validation"
)

// Service links tags and dates to games on behalf of an owner.
type Service struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewService creates an association service.
func NewService(st *store.Store, v *validation.Validator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, validator: v, logger: logger}
}

// ownedGame loads the game or reports NotFound.
func (s *Service) ownedGame(ctx context.Context, owner, gameID uint) (*models.Game, error) {
	var game models.Game
	if err := s.store.FindByID(ctx, owner, gameID, &game); err != nil {
		return nil, err
	}
	return &game, nil
}
