package association

import (
	"context"

	"gorm.io/gorm"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/validation"
)

// SyncDatesInput lists dates to attach and detach in one call.
type SyncDatesInput struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// ListDates returns the game's dates, newest first.
func (s *Service) ListDates(ctx context.Context, owner, gameID uint) ([]models.GameDateRelation, error) {
	if _, err := s.ownedGame(ctx, owner, gameID); err != nil {
		return nil, err
	}
	dates := []models.GameDateRelation{}
	err := s.store.FindAll(ctx, owner, &dates, func(db *gorm.DB) *gorm.DB {
		return db.Where("game_id = ?", gameID).Order(models.DefaultDateOrder)
	})
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// AttachDate records date against the game. Attaching a date twice returns
// the existing row with created=false.
func (s *Service) AttachDate(ctx context.Context, owner, gameID uint, date string) (*models.GameDateRelation, bool, error) {
	if err := validation.Date(date); err != nil {
		return nil, false, err
	}
	game, err := s.ownedGame(ctx, owner, gameID)
	if err != nil {
		return nil, false, err
	}

	rel := models.GameDateRelation{OwnerID: owner, GameID: game.ID, Date: date}
	created, err := s.store.GetOrInsert(ctx, owner, &rel, map[string]any{"game_id": game.ID, "date": date})
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("date attached", "owner_id", owner, "game_id", game.ID, "date", date)
	}
	return &rel, created, nil
}

// DetachDate removes date from the game. Unlike UnlinkTag, a date that is not
// attached is reported as NotFound.
func (s *Service) DetachDate(ctx context.Context, owner, gameID uint, date string) error {
	if err := validation.Date(date); err != nil {
		return err
	}
	game, err := s.ownedGame(ctx, owner, gameID)
	if err != nil {
		return err
	}

	n, err := s.store.DeleteWhere(ctx, owner, &models.GameDateRelation{},
		map[string]any{"game_id": game.ID, "date": date})
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFoundf("date %s is not recorded for this game", date)
	}
	s.logger.Info("date detached", "owner_id", owner, "game_id", game.ID, "date", date)
	return nil
}

// SyncDates attaches every date in Add, then detaches every date in Remove,
// in order. It stops at the first failure; changes already applied are kept.
func (s *Service) SyncDates(ctx context.Context, owner, gameID uint, in SyncDatesInput) error {
	for _, d := range in.Add {
		if _, _, err := s.AttachDate(ctx, owner, gameID, d); err != nil {
			return err
		}
	}
	for _, d := range in.Remove {
		if err := s.DetachDate(ctx, owner, gameID, d); err != nil {
			return err
		}
	}
	return nil
}
