package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	authdomain "receipt-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository stores the Google identities that have signed in.
type UserRepository interface {
	// Upsert inserts the identity or refreshes name, email and avatar of the existing one.
	Upsert(ctx context.Context, user *authdomain.User) (*authdomain.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*authdomain.User, error)
}

// userRepository implements UserRepository on gorm
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Upsert(ctx context.Context, user *authdomain.User) (*authdomain.User, error) {
	now := time.Now()
	record := *user
	record.ID = uuid.New().String()
	record.Provider = "google"
	record.CreatedAt = now
	record.UpdatedAt = now

	// Atomic upsert: INSERT ... ON CONFLICT (external_id) DO UPDATE
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "avatar_url", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}
	return r.FindByExternalID(ctx, user.ExternalID)
}

func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// memoryUserRepository keeps identities in process memory for development without a database.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]authdomain.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]authdomain.User)}
}

func (r *memoryUserRepository) Upsert(_ context.Context, user *authdomain.User) (*authdomain.User, error) {
	if user.ExternalID == "" {
		return nil, errors.New("external id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	existing, ok := r.users[user.ExternalID]
	if !ok {
		existing = authdomain.User{
			ID:         uuid.New().String(),
			ExternalID: user.ExternalID,
			Provider:   "google",
			CreatedAt:  now,
		}
	}
	existing.Email = user.Email
	existing.Name = user.Name
	existing.AvatarURL = user.AvatarURL
	existing.UpdatedAt = now
	r.users[user.ExternalID] = existing

	out := existing
	return &out, nil
}

func (r *memoryUserRepository) FindByExternalID(_ context.Context, externalID string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[externalID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}
