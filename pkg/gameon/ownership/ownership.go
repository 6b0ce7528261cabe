// Package ownership restricts every read and write to the requesting user's own rows.
//
// A row owned by someone else is reported exactly like a row that does not
// exist, so callers can never probe for other users' ids.
package ownership

import (
	"gorm.io/gorm"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
)

// Owned is implemented by every model that carries an owner.
type Owned interface {
	OwnerKey() uint
}

// Column is the owner column shared by all owned tables.
const Column = "owner_id"

// Scope limits a query to rows owned by owner.
//
//	db.Scopes(ownership.Scope(userID)).Find(&games)
func Scope(owner uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(Column+" = ?", owner)
	}
}

// Require rejects the anonymous owner.
func Require(owner uint) error {
	if owner == 0 {
		return errors.Unauthorized("owner identity required")
	}
	return nil
}

// Check verifies that every row belongs to owner.
// A foreign row yields NotFound, never a permission error.
func Check(owner uint, rows ...Owned) error {
	if err := Require(owner); err != nil {
		return err
	}
	for _, row := range rows {
		if row == nil || row.OwnerKey() != owner {
			return errors.ErrNotFound
		}
	}
	return nil
}
