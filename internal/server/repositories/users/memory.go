package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gopherchat/internal/common"
	"github.com/dmitrijs2005/gopherchat/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps users in process memory. It backs the "memory"
// storage driver used for local development and API tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = user.ID

	return user, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.copyOf(id), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.byID[id]; !ok {
		return nil, common.ErrorNotFound
	}
	return r.copyOf(id), nil
}

func (r *InMemoryRepository) ListExcept(ctx context.Context, id string) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.byID))
	for uid := range r.byID {
		if uid != id {
			result = append(result, r.copyOf(uid))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FullName != result[j].FullName {
			return result[i].FullName < result[j].FullName
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *InMemoryRepository) UpdateProfilePic(ctx context.Context, id, url, key string) (*models.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	prev := u.ImageKey
	u.ProfilePic = url
	u.ImageKey = key
	u.UpdatedAt = time.Now().UTC()

	return r.copyOf(id), prev, nil
}

// copyOf must be called with the lock held.
func (r *InMemoryRepository) copyOf(id string) *models.User {
	u := *r.byID[id]
	return &u
}
