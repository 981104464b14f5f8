package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"gorm.io/gorm"
)

// PublicProfileFields is the subset of user columns exposed to other
// users (author population, notification actors, search results).
var PublicProfileFields = []string{"id", "username", "fullname", "profile_img"}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]model.User, error)
	IncTotalReads(ctx context.Context, id uuid.UUID, delta int) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SearchByUsername(ctx context.Context, query string, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Select(PublicProfileFields).
		Where("username ILIKE ?", "%"+query+"%").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// IncTotalReads bumps the author's lifetime read counter. The
// total_posts counter has no such helper: it only moves inside the
// blog repository's create/delete transactions.
func (r *userRepository) IncTotalReads(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("total_reads", gorm.Expr("total_reads + ?", delta)).Error
}
