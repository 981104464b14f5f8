package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	TopLevel(ctx context.Context, blogID uuid.UUID, skip, limit int) ([]model.Comment, error)
	Replies(ctx context.Context, parentID uuid.UUID, skip, limit int) ([]model.Comment, error)
	AttachChildren(ctx context.Context, comments []model.Comment) error
	DeleteTree(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create persists the comment and bumps the owning blog's counters in
// the same transaction: total_comments always, total_parent_comments
// only for top-level comments.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		parentInc := 1
		if comment.ParentID != nil {
			parentInc = 0
		}
		return tx.Model(&model.Blog{}).Where("id = ?", comment.BlogID).
			UpdateColumns(map[string]any{
				"total_comments":        gorm.Expr("total_comments + ?", 1),
				"total_parent_comments": gorm.Expr("total_parent_comments + ?", parentInc),
			}).Error
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("CommentedBy", func(db *gorm.DB) *gorm.DB {
		return db.Select(PublicProfileFields)
	})
}

func (r *commentRepository) TopLevel(ctx context.Context, blogID uuid.UUID, skip, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.withAuthor(ctx).
		Where("blog_id = ? AND is_reply = ?", blogID, false).
		Order("commented_at desc").
		Offset(skip).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// Replies returns a batch of the comment's immediate children only,
// never deeper descendants.
func (r *commentRepository) Replies(ctx context.Context, parentID uuid.UUID, skip, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.withAuthor(ctx).
		Where("parent_id = ?", parentID).
		Order("commented_at desc").
		Offset(skip).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// AttachChildren fills the derived Children id list of each comment,
// ordered by recency like the reply batches themselves.
func (r *commentRepository) AttachChildren(ctx context.Context, comments []model.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for i := range comments {
		ids = append(ids, comments[i].ID)
	}

	var rows []struct {
		ID       uuid.UUID
		ParentID uuid.UUID
	}
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("id", "parent_id").
		Where("parent_id IN ?", ids).
		Order("commented_at desc").
		Find(&rows).Error
	if err != nil {
		return err
	}

	byParent := make(map[uuid.UUID][]uuid.UUID, len(comments))
	for _, row := range rows {
		byParent[row.ParentID] = append(byParent[row.ParentID], row.ID)
	}
	for i := range comments {
		comments[i].Children = byParent[comments[i].ID]
		if comments[i].Children == nil {
			comments[i].Children = []uuid.UUID{}
		}
	}
	return nil
}

// DeleteTree removes the comment and every descendant in one
// transaction. Each node's notifications are cleaned up individually:
// notifications about the node are deleted, notifications holding the
// node as an attached reply have that field unset, and the blog's
// counters are released per node.
func (r *commentRepository) DeleteTree(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteSubtree(tx, id)
	})
}

func deleteSubtree(tx *gorm.DB, id uuid.UUID) error {
	var node model.Comment
	if err := tx.Select("id", "blog_id", "parent_id").First(&node, "id = ?", id).Error; err != nil {
		return err
	}

	// Children go first so their notification cleanup runs before the
	// parent row disappears.
	var childIDs []uuid.UUID
	if err := tx.Model(&model.Comment{}).Where("parent_id = ?", id).Pluck("id", &childIDs).Error; err != nil {
		return err
	}
	for _, childID := range childIDs {
		if err := deleteSubtree(tx, childID); err != nil {
			return err
		}
	}

	if err := tx.Where("comment_id = ?", id).Delete(&model.Notification{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Notification{}).Where("reply_id = ?", id).
		Update("reply_id", nil).Error; err != nil {
		return err
	}

	parentDec := 1
	if node.ParentID != nil {
		parentDec = 0
	}
	if err := tx.Model(&model.Blog{}).Where("id = ?", node.BlogID).
		UpdateColumns(map[string]any{
			"total_comments":        gorm.Expr("total_comments - ?", 1),
			"total_parent_comments": gorm.Expr("total_parent_comments - ?", parentDec),
		}).Error; err != nil {
		return err
	}

	return tx.Delete(&model.Comment{}, "id = ?", id).Error
}
