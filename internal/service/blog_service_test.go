package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/inkwell-labs/inkwell/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBlogService(db *gorm.DB) BlogService {
	return NewBlogService(
		repository.NewBlogRepository(db),
		repository.NewUserRepository(db),
		NewSearchService(nil),
	)
}

var testContent = json.RawMessage(`{"blocks":[{"type":"paragraph","data":{"text":"hello"}}]}`)

func TestPublishBlogValidation(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	svc := newBlogService(db)

	cases := []struct {
		name string
		in   BlogInput
	}{
		{"missing title", BlogInput{}},
		{"missing description", BlogInput{Title: "t", Banner: "b", Content: testContent, Tags: []string{"go"}}},
		{"missing banner", BlogInput{Title: "t", Des: "d", Content: testContent, Tags: []string{"go"}}},
		{"empty content", BlogInput{Title: "t", Des: "d", Banner: "b", Content: json.RawMessage(`{"blocks":[]}`), Tags: []string{"go"}}},
		{"no tags", BlogInput{Title: "t", Des: "d", Banner: "b", Content: testContent}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PublishBlog(context.Background(), author.ID, tc.in)
			require.Error(t, err)
			assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))
		})
	}

	// Drafts only need a title.
	blogID, err := svc.PublishBlog(context.Background(), author.ID, BlogInput{Title: "just a draft", Draft: true})
	require.NoError(t, err)
	assert.NotEmpty(t, blogID)
}

func TestPublishBlogCreatesAndCounts(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	svc := newBlogService(db)

	blogID, err := svc.PublishBlog(context.Background(), author.ID, BlogInput{
		Title:   "My First Post!",
		Des:     "a description",
		Banner:  "https://img.example.com/b.png",
		Content: testContent,
		Tags:    []string{"Go", "Web"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(blogID, "my-first-post-"), "slug is derived from the title, got %q", blogID)

	var blog model.Blog
	require.NoError(t, db.First(&blog, "blog_id = ?", blogID).Error)
	assert.Equal(t, []string{"go", "web"}, blog.Tags, "tags are lowercased")
	assert.False(t, blog.Draft)

	assert.Equal(t, int64(1), reloadUser(t, db, author.ID).TotalPosts)

	// Drafts do not count towards published posts.
	_, err = svc.PublishBlog(context.Background(), author.ID, BlogInput{Title: "wip", Draft: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloadUser(t, db, author.ID).TotalPosts)
}

func TestPublishBlogUpdateRequiresOwnership(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	other := createUser(t, db, "other")
	svc := newBlogService(db)

	blogID, err := svc.PublishBlog(context.Background(), author.ID, BlogInput{
		Title: "original", Des: "d", Banner: "b", Content: testContent, Tags: []string{"go"},
	})
	require.NoError(t, err)

	_, err = svc.PublishBlog(context.Background(), other.ID, BlogInput{
		Title: "hijacked", Des: "d", Banner: "b", Content: testContent, Tags: []string{"go"}, BlogID: blogID,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))

	updated, err := svc.PublishBlog(context.Background(), author.ID, BlogInput{
		Title: "revised", Des: "d", Banner: "b", Content: testContent, Tags: []string{"go"}, BlogID: blogID,
	})
	require.NoError(t, err)
	assert.Equal(t, blogID, updated, "editing keeps the public id stable")

	var blog model.Blog
	require.NoError(t, db.First(&blog, "blog_id = ?", blogID).Error)
	assert.Equal(t, "revised", blog.Title)
}

func TestGetBlogReadTracking(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	blog := createBlog(t, db, author, "first-post", false)
	svc := newBlogService(db)

	got, err := svc.GetBlog(context.Background(), blog.BlogID, false, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalReads)
	assert.Equal(t, author.Username, got.Author.Username)
	assert.Equal(t, int64(1), reloadUser(t, db, author.ID).TotalReads)

	// Opening the editor is not a read.
	_, err = svc.GetBlog(context.Background(), blog.BlogID, true, "edit")
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloadBlog(t, db, blog.ID).TotalReads)
	assert.Equal(t, int64(1), reloadUser(t, db, author.ID).TotalReads)
}

func TestGetBlogDraftAccess(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	draft := createBlog(t, db, author, "hidden-draft", true)
	svc := newBlogService(db)

	_, err := svc.GetBlog(context.Background(), draft.BlogID, false, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))

	_, err = svc.GetBlog(context.Background(), draft.BlogID, true, "edit")
	assert.NoError(t, err)

	_, err = svc.GetBlog(context.Background(), "no-such-blog", false, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestLatestAndTrendingExcludeDrafts(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	createBlog(t, db, author, "one", false)
	createBlog(t, db, author, "two", false)
	createBlog(t, db, author, "three", false)
	createBlog(t, db, author, "draft", true)
	svc := newBlogService(db)

	latest, err := svc.LatestBlogs(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, latest, 3)
	for _, b := range latest {
		assert.False(t, b.Draft)
		assert.Equal(t, author.Username, b.Author.Username)
	}

	count, err := svc.CountLatestBlogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	trending, err := svc.TrendingBlogs(context.Background())
	require.NoError(t, err)
	assert.Len(t, trending, 3)
}

func TestDeleteBlogCleansUp(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	blog := createBlog(t, db, author, "first-post", false)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", author.ID).
		Update("total_posts", 1).Error)

	commentSvc := newCommentService(db, nil)
	_, err := commentSvc.AddComment(context.Background(), reader.ID, AddCommentInput{
		BlogID: blog.ID, BlogAuthorID: author.ID, Comment: "will vanish",
	})
	require.NoError(t, err)

	svc := newBlogService(db)

	err = svc.DeleteBlog(context.Background(), reader.ID, blog.BlogID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))

	require.NoError(t, svc.DeleteBlog(context.Background(), author.ID, blog.BlogID))

	var blogs, comments, notifications int64
	require.NoError(t, db.Model(&model.Blog{}).Count(&blogs).Error)
	require.NoError(t, db.Model(&model.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&model.Notification{}).Count(&notifications).Error)
	assert.Zero(t, blogs)
	assert.Zero(t, comments)
	assert.Zero(t, notifications)
	assert.Zero(t, reloadUser(t, db, author.ID).TotalPosts)
}

func TestMakeBlogID(t *testing.T) {
	id := makeBlogID("Hello, World! 2024")
	assert.True(t, strings.HasPrefix(id, "hello-world-2024-"), "got %q", id)
	assert.NotContains(t, id, "--")

	other := makeBlogID("Hello, World! 2024")
	assert.NotEqual(t, id, other, "identical titles get distinct ids")

	bare := makeBlogID("!!!")
	assert.Len(t, bare, 12, "punctuation-only titles fall back to the random suffix")
}
