package memory

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository implements repository.UserRepository in memory.
type UserRepository struct {
	faults
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if err := r.fault(); err != nil {
		return primitive.NilObjectID, err
	}
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if err := r.fault(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	if err := r.fault(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = user.Name
	existing.Phone = user.Phone
	existing.Country = user.Country
	existing.Gender = user.Gender
	existing.PictureURL = user.PictureURL
	existing.UpdatedAt = time.Now().UTC()
	user.UpdatedAt = existing.UpdatedAt
	r.users[user.ID] = existing
	return nil
}
