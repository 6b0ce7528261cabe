package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/ownership"
)

// TagInput is the payload for CreateTag.
type TagInput struct {
	Title string `json:"title" validate:"required,max=100"`
}

// ListTags returns the owner's tags ordered by title.
func (s *Service) ListTags(ctx context.Context, owner uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := s.store.FindAll(ctx, owner, &tags, func(db *gorm.DB) *gorm.DB {
		return db.Order("title ASC").Order("id ASC")
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// TagUsage maps tag id to the number of games carrying that tag.
func (s *Service) TagUsage(ctx context.Context, owner uint) (map[uint]int64, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	return s.store.CountGamesPerTag(ctx, owner)
}

// GetTag returns one owned tag.
func (s *Service) GetTag(ctx context.Context, owner, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.store.FindByID(ctx, owner, id, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag creates a tag. A title already used by the owner is a ConstraintViolation.
func (s *Service) CreateTag(ctx context.Context, owner uint, in TagInput) (*models.Tag, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	tag := models.Tag{OwnerID: owner, Title: in.Title}
	if err := s.store.Insert(ctx, &tag); err != nil {
		if errors.Is(err, errors.ErrConstraintViolation) {
			return nil, errors.ConstraintViolation("a tag with this title already exists").WithCause(err)
		}
		return nil, err
	}
	s.logger.Info("tag created", "owner_id", owner, "tag_id", tag.ID)
	return &tag, nil
}

// DeleteTag removes a tag and every link from it to a game.
func (s *Service) DeleteTag(ctx context.Context, owner, id uint) error {
	if err := s.store.DeleteTag(ctx, owner, id); err != nil {
		return err
	}
	s.logger.Info("tag deleted", "owner_id", owner, "tag_id", id)
	return nil
}
