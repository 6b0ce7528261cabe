// Package catalog implements the owner-scoped Game, Platform and Tag operations,
// including the filtered game listing.
package catalog

import (
	"log/slog"

	"github.com/gargrave/gameon-server/pkg/gameon/store"
	"github.com/gargrave/gameon-server/pkg/gameon/validation"
)

// Service is stateless apart from its store and is safe for concurrent use.
type Service struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewService creates a catalog service.
func NewService(st *store.Store, v *validation.Validator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, validator: v, logger: logger}
}
