package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Blog{},
		&model.Comment{},
		&model.Notification{},
	))
	return db
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Fullname: username + " surname",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createBlog(t *testing.T, db *gorm.DB, author *model.User, title string, draft bool) *model.Blog {
	t.Helper()
	blog := &model.Blog{
		BlogID:   fmt.Sprintf("%s-%s", title, uuid.NewString()[:8]),
		Title:    title,
		Des:      "about " + title,
		Banner:   "https://img.example.com/banner.png",
		Content:  json.RawMessage(`{"blocks":[{"type":"paragraph","data":{"text":"hello"}}]}`),
		Tags:     []string{"testing"},
		AuthorID: author.ID,
		Draft:    draft,
	}
	require.NoError(t, db.Create(blog).Error)
	return blog
}

func reloadBlog(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Blog {
	t.Helper()
	var blog model.Blog
	require.NoError(t, db.First(&blog, "id = ?", id).Error)
	return &blog
}

func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *model.User {
	t.Helper()
	var user model.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}
