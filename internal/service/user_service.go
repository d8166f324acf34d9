package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/events"
	"github.com/spec-kit/dine-service/internal/repository"
	apperrors "github.com/spec-kit/dine-service/pkg/util"
)

// UserService manages diner records and role elevation.
type UserService struct {
	users      repository.Collection[domain.User]
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService builds the service. A nil dispatcher disables events.
func NewUserService(users repository.Collection[domain.User], dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, logger: logger}
}

// List returns every user record.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.Find(ctx, nil)
}

// GetByEmail loads the user record for an email. It returns
// repository.ErrNotFound when there is none.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindOne(ctx, repository.Filter{"email": email})
}

// IsAdmin reports whether email belongs to an admin record. A missing record
// is simply not an admin.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// Register inserts a new user unless the email is already taken, in which
// case existed is true and nothing is written. The check and the insert are
// separate store calls, so concurrent registrations may both insert.
func (s *UserService) Register(ctx context.Context, user domain.User) (res *repository.InsertResult, existed bool, err error) {
	if _, err := s.GetByEmail(ctx, user.Email); err == nil {
		return nil, true, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	user.ID = nil
	user.Role = ""
	res, err = s.users.InsertOne(ctx, &user)
	if err != nil {
		return nil, false, err
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventUserRegistered, repository.UsersCollection,
		res.InsertedID, user.Email, events.UserPayload{Email: user.Email}))
	return res, false, nil
}

// Promote sets the admin role on the user with the given id.
func (s *UserService) Promote(ctx context.Context, actor, rawID string) (*repository.UpdateResult, error) {
	id, err := parseID(s.users, rawID)
	if err != nil {
		return nil, err
	}
	res, err := s.users.UpdateOne(ctx, repository.ByID(id), repository.Document{"role": domain.RoleAdmin})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventUserPromoted, repository.UsersCollection,
		id, actor, events.CountPayload{Affected: res.ModifiedCount}))
	return res, nil
}

// Delete removes the user with the given id. A missing id deletes nothing.
func (s *UserService) Delete(ctx context.Context, actor, rawID string) (*repository.DeleteResult, error) {
	id, err := parseID(s.users, rawID)
	if err != nil {
		return nil, err
	}
	res, err := s.users.DeleteOne(ctx, repository.ByID(id))
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventUserDeleted, repository.UsersCollection,
		id, actor, events.CountPayload{Affected: res.DeletedCount}))
	return res, nil
}

type idParser interface {
	ParseID(raw string) (any, error)
}

func parseID(p idParser, raw string) (any, error) {
	id, err := p.ParseID(raw)
	if err != nil {
		return nil, apperrors.NewBadIdentifier(raw, err)
	}
	return id, nil
}

// publish never fails the calling operation.
func publish(ctx context.Context, d events.Dispatcher, logger *zap.Logger, event events.Event) {
	if d == nil {
		return
	}
	if err := d.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
