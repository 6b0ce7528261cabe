package association

import (
	"context"
	"strings"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/ownership"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
)

// LinkTagInput names the tag either by id or by title. A title wins when both
// are given and is created if the owner has no tag with that title yet.
type LinkTagInput struct {
	TagID    uint   `json:"tag_id"`
	TagTitle string `json:"tag_title" validate:"max=100"`
	GameID   uint   `json:"game_id" validate:"required"`
}

// UnlinkTagInput identifies the link to remove.
type UnlinkTagInput struct {
	TagID  uint `json:"tag_id"`
	GameID uint `json:"game_id"`
}

// LinkTag ensures a TagGameRelation exists between the resolved tag and the game.
// The returned relation has its Tag loaded; created reports whether a new link was made.
func (s *Service) LinkTag(ctx context.Context, owner uint, in LinkTagInput) (*models.TagGameRelation, bool, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, false, err
	}
	in.TagTitle = strings.TrimSpace(in.TagTitle)
	if err := s.validator.Struct(in); err != nil {
		return nil, false, err
	}

	game, err := s.ownedGame(ctx, owner, in.GameID)
	if err != nil {
		return nil, false, err
	}

	if in.TagID != 0 {
		var existing models.TagGameRelation
		err := s.store.FindOne(ctx, owner, &existing,
			map[string]any{"tag_id": in.TagID, "game_id": game.ID},
			store.Preload("Tag"))
		if err == nil {
			return &existing, false, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, false, err
		}
	}

	tag, err := s.resolveTag(ctx, owner, in)
	if err != nil {
		return nil, false, err
	}
	if err := ownership.Check(owner, game, tag); err != nil {
		return nil, false, err
	}

	rel := models.TagGameRelation{OwnerID: owner, TagID: tag.ID, GameID: game.ID}
	created, err := s.store.GetOrInsert(ctx, owner, &rel, map[string]any{"tag_id": tag.ID, "game_id": game.ID})
	if err != nil {
		return nil, false, err
	}
	rel.Tag = *tag

	if created {
		s.logger.Info("tag linked", "owner_id", owner, "tag_id", tag.ID, "game_id", game.ID)
	}
	return &rel, created, nil
}

// resolveTag finds or creates the tag named by title, or loads the tag named by id.
func (s *Service) resolveTag(ctx context.Context, owner uint, in LinkTagInput) (*models.Tag, error) {
	switch {
	case in.TagTitle != "":
		tag := models.Tag{OwnerID: owner, Title: in.TagTitle}
		created, err := s.store.GetOrInsert(ctx, owner, &tag, map[string]any{"title": in.TagTitle})
		if err != nil {
			return nil, err
		}
		if created {
			s.logger.Info("tag created", "owner_id", owner, "tag_id", tag.ID)
		}
		return &tag, nil
	case in.TagID != 0:
		var tag models.Tag
		if err := s.store.FindByID(ctx, owner, in.TagID, &tag); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return nil, errors.InvalidReference("tag does not exist")
			}
			return nil, err
		}
		return &tag, nil
	default:
		return nil, errors.InvalidReference("either tag_id or tag_title is required")
	}
}

// UnlinkTag removes the link between a tag and a game. Removing a link that
// does not exist is not an error.
func (s *Service) UnlinkTag(ctx context.Context, owner uint, in UnlinkTagInput) error {
	n, err := s.store.DeleteWhere(ctx, owner, &models.TagGameRelation{},
		map[string]any{"tag_id": in.TagID, "game_id": in.GameID})
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("tag unlinked", "owner_id", owner, "tag_id", in.TagID, "game_id", in.GameID)
	}
	return nil
}
