package store

import (
	"context"

	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/ownership"
)

// DeleteTag removes an owned tag together with all of its TagGameRelations.
func (s *Store) DeleteTag(ctx context.Context, owner, id uint) error {
	return s.WithTx(ctx, func(tx *Store) error {
		var tag models.Tag
		if err := tx.FindByID(ctx, owner, id, &tag); err != nil {
			return err
		}
		if _, err := tx.DeleteWhere(ctx, owner, &models.TagGameRelation{}, map[string]any{"tag_id": tag.ID}); err != nil {
			return err
		}
		return tx.Delete(ctx, &tag)
	})
}

// DeleteGame removes an owned game together with its tag links and dates.
func (s *Store) DeleteGame(ctx context.Context, owner, id uint) error {
	return s.WithTx(ctx, func(tx *Store) error {
		var game models.Game
		if err := tx.FindByID(ctx, owner, id, &game); err != nil {
			return err
		}
		byGame := map[string]any{"game_id": game.ID}
		if _, err := tx.DeleteWhere(ctx, owner, &models.TagGameRelation{}, byGame); err != nil {
			return err
		}
		if _, err := tx.DeleteWhere(ctx, owner, &models.GameDateRelation{}, byGame); err != nil {
			return err
		}
		return tx.Delete(ctx, &game)
	})
}

// DeletePlatform removes an owned platform after detaching it from the owner's games.
func (s *Store) DeletePlatform(ctx context.Context, owner, id uint) error {
	return s.WithTx(ctx, func(tx *Store) error {
		var platform models.Platform
		if err := tx.FindByID(ctx, owner, id, &platform); err != nil {
			return err
		}
		err := tx.conn(ctx).Model(&models.Game{}).
			Scopes(ownership.Scope(owner)).
			Where("platform_id = ?", platform.ID).
			Update("platform_id", nil).Error
		if err != nil {
			return translate(err, &models.Game{})
		}
		return tx.Delete(ctx, &platform)
	})
}

// CountGamesPerTag returns how many games each of the owner's tags is linked to.
// Tags with no links are absent from the map.
func (s *Store) CountGamesPerTag(ctx context.Context, owner uint) (map[uint]int64, error) {
	var rows []struct {
		TagID uint
		Games int64
	}
	err := s.conn(ctx).Model(&models.TagGameRelation{}).
		Scopes(ownership.Scope(owner)).
		Select("tag_id, COUNT(*) AS games").
		Group("tag_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, &models.TagGameRelation{})
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.TagID] = r.Games
	}
	return counts, nil
}
