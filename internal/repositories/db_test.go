package repositories

import (
	"testing"
	"time"

	"github.com/conduit-go/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Follow{},
		&models.Favourite{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Password: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedArticle creates an article with an explicit creation time so ordering
// assertions are deterministic.
func seedArticle(t *testing.T, db *gorm.DB, author *models.User, slug, title string, tags models.TagList, createdAt time.Time) *models.Article {
	t.Helper()
	article := &models.Article{
		Slug:      slug,
		Title:     title,
		Body:      "body",
		TagList:   tags,
		AuthorID:  author.ID,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(article).Error)
	return article
}
