//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../../mocks/mock_users_repository.go -package=mocks -mock_names=Repository=MockUsersRepository

package users

import (
	"context"

	"github.com/dmitrijs2005/gopherchat/internal/server/models"
)

// Repository is the user-profile store.
type Repository interface {
	// Create inserts a user and fills its ID and timestamps. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// ListExcept returns every user but the one with the given id.
	ListExcept(ctx context.Context, id string) ([]*models.User, error)
	// UpdateProfilePic stores a new hosted image and returns the updated user
	// along with the storage key of the image it replaced ("" if none).
	UpdateProfilePic(ctx context.Context, id, url, key string) (*models.User, string, error)
}
