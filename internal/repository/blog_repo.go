package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"gorm.io/gorm"
)

// BlogSearchFilter mirrors the /search-blogs request: exactly one of
// Tag, Query or AuthorID is expected to be set.
type BlogSearchFilter struct {
	Tag           string
	Query         string
	AuthorID      *uuid.UUID
	EliminateBlog string
}

type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	UpdateByBlogID(ctx context.Context, blogID string, updates map[string]any) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	FindByBlogID(ctx context.Context, blogID string, withAuthor bool) (*model.Blog, error)
	Latest(ctx context.Context, skip, limit int) ([]model.Blog, error)
	CountLatest(ctx context.Context) (int64, error)
	Trending(ctx context.Context, limit int) ([]model.Blog, error)
	Search(ctx context.Context, filter BlogSearchFilter, skip, limit int) ([]model.Blog, error)
	CountSearch(ctx context.Context, filter BlogSearchFilter) (int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Blog, error)
	ByAuthor(ctx context.Context, authorID uuid.UUID, draft bool, query string, skip, limit int) ([]model.Blog, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID, draft bool, query string) (int64, error)
	IncReads(ctx context.Context, id uuid.UUID, delta int) error
	IncLikes(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, blog *model.Blog) error
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(blog).Error; err != nil {
			return err
		}
		if blog.Draft {
			return nil
		}
		return tx.Model(&model.User{}).Where("id = ?", blog.AuthorID).
			UpdateColumn("total_posts", gorm.Expr("total_posts + ?", 1)).Error
	})
}

func (r *blogRepository) UpdateByBlogID(ctx context.Context, blogID string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Blog{}).Where("blog_id = ?", blogID).Updates(updates).Error
}

func (r *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.WithContext(ctx).First(&blog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) FindByBlogID(ctx context.Context, blogID string, withAuthor bool) (*model.Blog, error) {
	query := r.db.WithContext(ctx)
	if withAuthor {
		query = query.Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select(PublicProfileFields)
		})
	}

	var blog model.Blog
	if err := query.First(&blog, "blog_id = ?", blogID).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) published(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select(PublicProfileFields)
		}).
		Where("draft = ?", false)
}

func (r *blogRepository) Latest(ctx context.Context, skip, limit int) ([]model.Blog, error) {
	var blogs []model.Blog
	err := r.published(ctx).
		Order("published_at desc").
		Offset(skip).
		Limit(limit).
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) CountLatest(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Blog{}).Where("draft = ?", false).Count(&count).Error
	return count, err
}

func (r *blogRepository) Trending(ctx context.Context, limit int) ([]model.Blog, error) {
	var blogs []model.Blog
	err := r.published(ctx).
		Order("total_reads desc").
		Order("total_likes desc").
		Order("published_at desc").
		Limit(limit).
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) applySearch(query *gorm.DB, filter BlogSearchFilter) *gorm.DB {
	switch {
	case filter.Tag != "":
		// Tags live in a JSON array column; match whole-element.
		query = query.Where("tags::jsonb @> ?", `["`+filter.Tag+`"]`)
	case filter.Query != "":
		query = query.Where("title ILIKE ?", "%"+filter.Query+"%")
	case filter.AuthorID != nil:
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.EliminateBlog != "" {
		query = query.Where("blog_id <> ?", filter.EliminateBlog)
	}
	return query
}

func (r *blogRepository) Search(ctx context.Context, filter BlogSearchFilter, skip, limit int) ([]model.Blog, error) {
	var blogs []model.Blog
	err := r.applySearch(r.published(ctx), filter).
		Order("published_at desc").
		Offset(skip).
		Limit(limit).
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) CountSearch(ctx context.Context, filter BlogSearchFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Blog{}).Where("draft = ?", false)
	err := r.applySearch(query, filter).Count(&count).Error
	return count, err
}

func (r *blogRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Blog, error) {
	var blogs []model.Blog
	err := r.published(ctx).Where("id IN ?", ids).Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) ByAuthor(ctx context.Context, authorID uuid.UUID, draft bool, query string, skip, limit int) ([]model.Blog, error) {
	var blogs []model.Blog
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND draft = ?", authorID, draft).
		Where("title ILIKE ?", "%"+query+"%").
		Order("published_at desc").
		Offset(skip).
		Limit(limit).
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID, draft bool, query string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Blog{}).
		Where("author_id = ? AND draft = ?", authorID, draft).
		Where("title ILIKE ?", "%"+query+"%").
		Count(&count).Error
	return count, err
}

func (r *blogRepository) IncReads(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Blog{}).Where("id = ?", id).
		UpdateColumn("total_reads", gorm.Expr("total_reads + ?", delta)).Error
}

func (r *blogRepository) IncLikes(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Blog{}).Where("id = ?", id).
		UpdateColumn("total_likes", gorm.Expr("total_likes + ?", delta)).Error
}

// Delete removes a blog together with its comment tree and every
// notification that points at it, and releases the author's post
// counter. One transaction so a failure leaves nothing orphaned.
func (r *blogRepository) Delete(ctx context.Context, blog *model.Blog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", blog.ID).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", blog.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Blog{}, "id = ?", blog.ID).Error; err != nil {
			return err
		}
		if blog.Draft {
			return nil
		}
		return tx.Model(&model.User{}).Where("id = ?", blog.AuthorID).
			UpdateColumn("total_posts", gorm.Expr("total_posts - ?", 1)).Error
	})
}
