package catalog

import (
	"context"
	"slices"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/ownership"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
)

// GameQuery filters ListGames.
type GameQuery struct {
	// Search matches titles case-insensitively. When set, archived games are included.
	Search string
	// IncludeArchived returns archived games in unfiltered listings.
	IncludeArchived bool
}

// CreateGameInput is the payload for CreateGame.
type CreateGameInput struct {
	Title      string   `json:"title" validate:"required,max=255"`
	PlatformID *uint    `json:"platform_id"`
	Finished   bool     `json:"finished"`
	Archived   bool     `json:"archived"`
	Dates      []string `json:"dates" validate:"dive,datetime=2006-01-02"`
}

// UpdateGameInput is a partial update; nil fields are left unchanged.
// A PlatformID of 0 clears the platform.
type UpdateGameInput struct {
	Title      *string `json:"title" validate:"omitnil,min=1,max=255"`
	PlatformID *uint   `json:"platform_id"`
	Finished   *bool   `json:"finished"`
	Archived   *bool   `json:"archived"`
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// withGameDetail preloads everything a game view shows.
func withGameDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Platform").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Tags.Tag").
		Preload("Dates", func(db *gorm.DB) *gorm.DB { return db.Order(models.DefaultDateOrder) })
}

// ListGames returns the owner's games ordered by id.
//
// SQLite's LOWER only folds ASCII, so a search containing other letters is
// matched in Go after loading the owner's games.
func (s *Service) ListGames(ctx context.Context, owner uint, q GameQuery) ([]models.Game, error) {
	games := []models.Game{}
	search := strings.TrimSpace(q.Search)
	foldInGo := strings.IndexFunc(search, func(r rune) bool { return r > unicode.MaxASCII }) >= 0
	err := s.store.FindAll(ctx, owner, &games, withGameDetail, func(db *gorm.DB) *gorm.DB {
		switch {
		case foldInGo:
		case search != "":
			pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
			db = db.Where("LOWER(title) LIKE ? ESCAPE '!'", pattern)
		case !q.IncludeArchived:
			db = db.Where("archived = ?", false)
		}
		return db.Order("id ASC")
	})
	if err != nil {
		return nil, err
	}
	if foldInGo {
		needle := strings.ToLower(search)
		games = slices.DeleteFunc(games, func(g models.Game) bool {
			return !strings.Contains(strings.ToLower(g.Title), needle)
		})
	}
	return games, nil
}

// GetGame returns one owned game with its platform, tags and dates.
func (s *Service) GetGame(ctx context.Context, owner, id uint) (*models.Game, error) {
	var game models.Game
	if err := s.store.FindByID(ctx, owner, id, &game, withGameDetail); err != nil {
		return nil, err
	}
	return &game, nil
}

// CreateGame inserts a game and attaches any initial dates.
func (s *Service) CreateGame(ctx context.Context, owner uint, in CreateGameInput) (*models.Game, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	game := models.Game{
		OwnerID:  owner,
		Title:    in.Title,
		Finished: in.Finished,
		Archived: in.Archived,
	}
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		platformID, err := resolvePlatform(ctx, tx, owner, in.PlatformID)
		if err != nil {
			return err
		}
		game.PlatformID = platformID
		if err := tx.Insert(ctx, &game); err != nil {
			return err
		}

		dates := slices.Clone(in.Dates)
		slices.Sort(dates)
		for _, d := range slices.Compact(dates) {
			rel := models.GameDateRelation{OwnerID: owner, GameID: game.ID, Date: d}
			if err := tx.Insert(ctx, &rel); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game created", "owner_id", owner, "game_id", game.ID, "dates", len(in.Dates))
	return s.GetGame(ctx, owner, game.ID)
}

// UpdateGame applies a partial update to an owned game.
func (s *Service) UpdateGame(ctx context.Context, owner, id uint, in UpdateGameInput) (*models.Game, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		var game models.Game
		if err := tx.FindByID(ctx, owner, id, &game); err != nil {
			return err
		}
		if in.Title != nil {
			game.Title = *in.Title
		}
		if in.Finished != nil {
			game.Finished = *in.Finished
		}
		if in.Archived != nil {
			game.Archived = *in.Archived
		}
		if in.PlatformID != nil {
			platformID, err := resolvePlatform(ctx, tx, owner, in.PlatformID)
			if err != nil {
				return err
			}
			game.PlatformID = platformID
		}
		return tx.Update(ctx, &game)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game updated", "owner_id", owner, "game_id", id)
	return s.GetGame(ctx, owner, id)
}

// DeleteGame removes an owned game along with its tag links and dates.
func (s *Service) DeleteGame(ctx context.Context, owner, id uint) error {
	if err := s.store.DeleteGame(ctx, owner, id); err != nil {
		return err
	}
	s.logger.Info("game deleted", "owner_id", owner, "game_id", id)
	return nil
}

// resolvePlatform maps a requested platform id onto an owned platform.
// nil and 0 both mean no platform.
func resolvePlatform(ctx context.Context, st *store.Store, owner uint, id *uint) (*uint, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	var platform models.Platform
	if err := st.FindByID(ctx, owner, *id, &platform); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.InvalidReference("platform does not exist")
		}
		return nil, err
	}
	return &platform.ID, nil
}
