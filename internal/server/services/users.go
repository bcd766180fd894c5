package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gopherchat/internal/common"
	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/dmitrijs2005/gopherchat/internal/server/auth"
	"github.com/dmitrijs2005/gopherchat/internal/server/images"
	"github.com/dmitrijs2005/gopherchat/internal/server/models"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/users"
	"github.com/go-playground/validator/v10"
)

const (
	msgAllFieldsRequired = "All fields are required"
	msgPasswordTooShort  = "Password must be at least 6 characters"
	msgEmailTaken        = "Email already exist"
	msgProfilePicMissing = "Profile pic is required"
)

type SignupInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserService handles accounts: signup, login, profile lookups and profile
// picture updates. Session cookies are issued by the HTTP layer.
type UserService struct {
	users             users.Repository
	images            images.Host
	validate          *validator.Validate
	defaultProfilePic string
	logger            logging.Logger
}

func NewUserService(repo users.Repository, host images.Host, defaultProfilePic string, logger logging.Logger) *UserService {
	return &UserService{
		users:             repo,
		images:            host,
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		defaultProfilePic: defaultProfilePic,
		logger:            logger.With("module", "users"),
	}
}

// Signup creates an account. Emails are compared as given.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.NewValidationError(msgEmailTaken)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		ProfilePic:   s.defaultProfilePic,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, common.NewValidationError(msgEmailTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info(ctx, "user signed up", "id", user.ID)
	return user, nil
}

// Login returns the user owning email when password matches its hash.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	ok, err := auth.ComparePassword(user.PasswordHash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListPeers returns every user except id, for the contact sidebar.
func (s *UserService) ListPeers(ctx context.Context, id string) ([]*models.User, error) {
	peers, err := s.users.ListExcept(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return peers, nil
}

// UpdateProfilePic uploads pic, stores it on the user and then removes the
// image it replaced. Removal failures are only logged.
func (s *UserService) UpdateProfilePic(ctx context.Context, id, pic string) (*models.User, error) {
	if pic == "" {
		return nil, common.NewValidationError(msgProfilePicMissing)
	}

	url, key, err := s.images.Upload(ctx, pic)
	if err != nil {
		return nil, uploadError(err)
	}

	user, prevKey, err := s.users.UpdateProfilePic(ctx, id, url, key)
	if err != nil {
		s.deleteImage(ctx, key)
		return nil, fmt.Errorf("update profile pic: %w", err)
	}

	if prevKey != "" {
		s.deleteImage(ctx, prevKey)
	}
	return user, nil
}

func (s *UserService) deleteImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "image cleanup failed", "key", key, "error", err)
	}
}

// check runs struct validation and turns failures into the user-facing
// reasons. Missing fields win over a short password.
func (s *UserService) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return common.NewValidationError(msgAllFieldsRequired)
		}
	}
	for _, fe := range fieldErrs {
		if fe.Field() == "Password" && fe.Tag() == "min" {
			return common.NewValidationError(msgPasswordTooShort)
		}
	}
	return common.NewValidationError(fieldErrs[0].Error())
}
