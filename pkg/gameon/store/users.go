package store

import (
	"context"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
)

// EnsureUser returns the local user for an external subject, creating it on first sight.
// Email and name are refreshed when the identity provider reports new values.
func (s *Store) EnsureUser(ctx context.Context, subject, email, name string) (*models.User, error) {
	if subject == "" {
		return nil, errors.Unauthorized("token has no subject")
	}

	var user models.User
	err := translate(s.conn(ctx).Where("subject = ?", subject).First(&user).Error, &user)
	if err == nil {
		if refreshProfile(&user, email, name) {
			if err := s.Update(ctx, &user); err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	user = models.User{Subject: subject, Email: email, Name: name}
	if err := s.Insert(ctx, &user); err != nil {
		if !errors.Is(err, errors.ErrConstraintViolation) {
			return nil, err
		}
		// Another request provisioned the same subject first
		if err := s.conn(ctx).Where("subject = ?", subject).First(&user).Error; err != nil {
			return nil, translate(err, &user)
		}
	}
	return &user, nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, &user)
	}
	return &user, nil
}

func refreshProfile(user *models.User, email, name string) bool {
	changed := false
	if email != "" && email != user.Email {
		user.Email = email
		changed = true
	}
	if name != "" && name != user.Name {
		user.Name = name
		changed = true
	}
	return changed
}
