// Package store is the persistence layer for the catalog.
//
// Every owned lookup goes through ownership.Scope, GORM errors are translated
// into domain errors, and dependent rows are removed explicitly before their
// parent instead of relying on database cascades.
package store

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/ownership"
)

// Store wraps a GORM handle. The zero value is not usable; call New.
type Store struct {
	db *gorm.DB
}

// New creates a store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// WithTx runs fn inside a single transaction. fn must only use the store it is given.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Insert creates row. Associations are never written implicitly.
func (s *Store) Insert(ctx context.Context, row any) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(row).Error, row)
}

// Update saves all columns of row and refreshes its modified timestamp.
func (s *Store) Update(ctx context.Context, row any) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Save(row).Error, row)
}

// Delete removes row by primary key. Deleting nothing is NotFound.
func (s *Store) Delete(ctx context.Context, row any) error {
	result := s.conn(ctx).Delete(row)
	if result.Error != nil {
		return translate(result.Error, row)
	}
	if result.RowsAffected == 0 {
		return errors.NotFoundf("%s not found", entityName(row))
	}
	return nil
}

// DeleteWhere removes every owned row of model's table matching conds and
// reports how many were deleted.
func (s *Store) DeleteWhere(ctx context.Context, owner uint, model any, conds map[string]any) (int64, error) {
	if err := ownership.Require(owner); err != nil {
		return 0, err
	}
	result := s.conn(ctx).Scopes(ownership.Scope(owner)).Where(conds).Delete(model)
	if result.Error != nil {
		return 0, translate(result.Error, model)
	}
	return result.RowsAffected, nil
}

// FindByID loads the row with the given id into dest, provided owner owns it.
func (s *Store) FindByID(ctx context.Context, owner, id uint, dest any, scopes ...func(*gorm.DB) *gorm.DB) error {
	if err := ownership.Require(owner); err != nil {
		return err
	}
	q := s.conn(ctx).Scopes(ownership.Scope(owner)).Scopes(scopes...)
	return translate(q.First(dest, id).Error, dest)
}

// FindOne loads the first owned row matching conds into dest.
// conds is a column map so zero values (false, 0) still take part in the match.
func (s *Store) FindOne(ctx context.Context, owner uint, dest any, conds map[string]any, scopes ...func(*gorm.DB) *gorm.DB) error {
	if err := ownership.Require(owner); err != nil {
		return err
	}
	q := s.conn(ctx).Scopes(ownership.Scope(owner)).Where(conds).Scopes(scopes...)
	return translate(q.First(dest).Error, dest)
}

// FindAll loads every owned row into dest (a pointer to a slice), after applying scopes.
func (s *Store) FindAll(ctx context.Context, owner uint, dest any, scopes ...func(*gorm.DB) *gorm.DB) error {
	if err := ownership.Require(owner); err != nil {
		return err
	}
	q := s.conn(ctx).Scopes(ownership.Scope(owner)).Scopes(scopes...)
	return translate(q.Find(dest).Error, dest)
}

// Preload is a scope that eagerly loads an association.
//
//	st.FindByID(ctx, owner, id, &game, store.Preload("Tags.Tag"))
func Preload(association string, args ...any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(association, args...)
	}
}

// GetOrInsert returns the owned row matching conds, inserting row when there is none.
// If the insert loses a race on a unique index, the winning row is fetched instead.
// row must be a pointer to a model; on return it holds the stored row.
func (s *Store) GetOrInsert(ctx context.Context, owner uint, row any, conds map[string]any) (bool, error) {
	found, err := s.findFresh(ctx, owner, row, conds)
	if err == nil {
		reflect.ValueOf(row).Elem().Set(reflect.ValueOf(found).Elem())
		return false, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return false, err
	}

	err = s.Insert(ctx, row)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, errors.ErrConstraintViolation) {
		return false, err
	}

	found, err = s.findFresh(ctx, owner, row, conds)
	if err != nil {
		return false, err
	}
	reflect.ValueOf(row).Elem().Set(reflect.ValueOf(found).Elem())
	return false, nil
}

// findFresh looks up conds into a new value of row's type so row itself is untouched.
func (s *Store) findFresh(ctx context.Context, owner uint, row any, conds map[string]any) (any, error) {
	fresh := reflect.New(reflect.TypeOf(row).Elem()).Interface()
	if err := s.FindOne(ctx, owner, fresh, conds); err != nil {
		return nil, err
	}
	return fresh, nil
}

// translate maps GORM errors onto the domain taxonomy.
func translate(err error, row any) error {
	if err == nil {
		return nil
	}
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	name := entityName(row)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFoundf("%s not found", name)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.ConstraintViolation(name + " already exists").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.InvalidReference(name + " references a missing row").WithCause(err)
	default:
		return errors.Internal(fmt.Sprintf("%s query failed", name), err)
	}
}

func entityName(row any) string {
	switch row.(type) {
	case *models.Game, *[]models.Game:
		return "game"
	case *models.Platform, *[]models.Platform:
		return "platform"
	case *models.Tag, *[]models.Tag:
		return "tag"
	case *models.TagGameRelation, *[]models.TagGameRelation:
		return "tag relation"
	case *models.GameDateRelation, *[]models.GameDateRelation:
		return "game date"
	case *models.User, *[]models.User:
		return "user"
	default:
		return "record"
	}
}
