package services

import (
	"context"
	"errors"
	"strings"

	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var ErrWrongCurrentPassword = errors.New("current password is incorrect")

// ProfileUpdate carries the editable profile fields. Nil pointers leave the
// stored value alone.
type ProfileUpdate struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// AccountService covers self-service profile management: profile edits,
// password changes verified against the current password, and the admin
// reset path that skips verification.
type AccountService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	AdminResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

type accountService struct {
	userRepo repositories.UserRepository
}

func NewAccountService(userRepo repositories.UserRepository) AccountService {
	return &accountService{userRepo: userRepo}
}

func (a *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email != user.Email {
			taken, err := a.userRepo.EmailTaken(ctx, email, userID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}

	if err := a.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logrus.WithField("user_id", userID).Info("profile updated")
	return user, nil
}

func (a *accountService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongCurrentPassword
	}
	return a.setPassword(ctx, userID, newPassword)
}

// AdminResetPassword sets a new password without checking the old one.
// Handlers gate this behind the admin role.
func (a *accountService) AdminResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if _, err := a.GetProfile(ctx, userID); err != nil {
		return err
	}
	return a.setPassword(ctx, userID, newPassword)
}

func (a *accountService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return a.userRepo.List(ctx, limit, offset)
}

func (a *accountService) setPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := a.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	logrus.WithField("user_id", userID).Info("password changed")
	return nil
}
