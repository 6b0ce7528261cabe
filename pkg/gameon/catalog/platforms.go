package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/ownership"
)

// PlatformInput is the payload for creating or renaming a platform.
type PlatformInput struct {
	Title string `json:"title" validate:"required,max=255"`
}

// ListPlatforms returns the owner's platforms in creation order.
func (s *Service) ListPlatforms(ctx context.Context, owner uint) ([]models.Platform, error) {
	platforms := []models.Platform{}
	err := s.store.FindAll(ctx, owner, &platforms, func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
	if err != nil {
		return nil, err
	}
	return platforms, nil
}

// GetPlatform returns one owned platform.
func (s *Service) GetPlatform(ctx context.Context, owner, id uint) (*models.Platform, error) {
	var platform models.Platform
	if err := s.store.FindByID(ctx, owner, id, &platform); err != nil {
		return nil, err
	}
	return &platform, nil
}

// CreatePlatform creates a platform for owner.
func (s *Service) CreatePlatform(ctx context.Context, owner uint, in PlatformInput) (*models.Platform, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	platform := models.Platform{OwnerID: owner, Title: in.Title}
	if err := s.store.Insert(ctx, &platform); err != nil {
		return nil, err
	}
	s.logger.Info("platform created", "owner_id", owner, "platform_id", platform.ID)
	return &platform, nil
}

// UpdatePlatform renames an owned platform.
func (s *Service) UpdatePlatform(ctx context.Context, owner, id uint, in PlatformInput) (*models.Platform, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	platform, err := s.GetPlatform(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	platform.Title = in.Title
	if err := s.store.Update(ctx, platform); err != nil {
		return nil, err
	}
	s.logger.Info("platform updated", "owner_id", owner, "platform_id", id)
	return platform, nil
}

// DeletePlatform removes a platform; games that used it keep existing without one.
func (s *Service) DeletePlatform(ctx context.Context, owner, id uint) error {
	if err := s.store.DeletePlatform(ctx, owner, id); err != nil {
		return err
	}
	s.logger.Info("platform deleted", "owner_id", owner, "platform_id", id)
	return nil
}
