package repositories

import (
	"testing"
	"time"

	"github.com/conduit-go/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListArticlesNoFiltersOrderedAscending(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	author := seedUser(t, db, "jake", "jake@jake.jake")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, author, "third-x", "Third", nil, base.Add(2*time.Hour))
	seedArticle(t, db, author, "first-x", "First", nil, base)
	seedArticle(t, db, author, "second-x", "Second", nil, base.Add(time.Hour))

	articles, count, err := repo.ListArticles(ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.Len(t, articles, 3)
	assert.Equal(t, "first-x", articles[0].Slug)
	assert.Equal(t, "second-x", articles[1].Slug)
	assert.Equal(t, "third-x", articles[2].Slug)
	assert.Equal(t, "jake", articles[0].Author.Username, "author must be preloaded")
}

func TestListArticlesCountIgnoresPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	author := seedUser(t, db, "jake", "jake@jake.jake")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"a-1", "a-2", "a-3", "a-4", "a-5"} {
		seedArticle(t, db, author, slug, "Title", nil, base.Add(time.Duration(i)*time.Minute))
	}

	articles, count, err := repo.ListArticles(ListFilters{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count, "articlesCount must reflect the full filtered set")
	require.Len(t, articles, 2)
	assert.Equal(t, "a-2", articles[0].Slug)
	assert.Equal(t, "a-3", articles[1].Slug)
}

func TestListArticlesTagFilterSubstringMatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	author := seedUser(t, db, "jake", "jake@jake.jake")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, author, "go-x", "Go", models.TagList{"golang", "backend"}, base)
	seedArticle(t, db, author, "js-x", "JS", models.TagList{"javascript"}, base.Add(time.Minute))
	seedArticle(t, db, author, "none-x", "None", nil, base.Add(2*time.Minute))

	articles, count, err := repo.ListArticles(ListFilters{Tag: "lang"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, articles, 1)
	assert.Equal(t, "go-x", articles[0].Slug)

	// "a" appears in both "golang"/"backend" and "javascript"
	_, count, err = repo.ListArticles(ListFilters{Tag: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListArticlesAuthorFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	jake := seedUser(t, db, "jake", "jake@jake.jake")
	anah := seedUser(t, db, "anah", "anah@anah.anah")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, jake, "by-jake-x", "T", nil, base)
	seedArticle(t, db, anah, "by-anah-x", "T", nil, base.Add(time.Minute))

	articles, count, err := repo.ListArticles(ListFilters{Author: "jake"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, articles, 1)
	assert.Equal(t, "by-jake-x", articles[0].Slug)

	articles, count, err = repo.ListArticles(ListFilters{Author: "nobody"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, articles, "unknown author username must match nothing")
}

func TestListArticlesFavouritedFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	favourites := NewPostgresFavouriteRepository(db)
	jake := seedUser(t, db, "jake", "jake@jake.jake")
	anah := seedUser(t, db, "anah", "anah@anah.anah")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	liked := seedArticle(t, db, jake, "liked-x", "T", nil, base)
	seedArticle(t, db, jake, "other-x", "T", nil, base.Add(time.Minute))

	require.NoError(t, favourites.AddFavourite(anah.ID, liked.ID))

	articles, count, err := repo.ListArticles(ListFilters{Favourited: "anah"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, articles, 1)
	assert.Equal(t, "liked-x", articles[0].Slug)

	// jake has favourited nothing
	articles, count, err = repo.ListArticles(ListFilters{Favourited: "jake"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, articles)

	articles, count, err = repo.ListArticles(ListFilters{Favourited: "nonexistent-user"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, articles)
}

func TestListArticlesByAuthorsOrderedDescending(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	jake := seedUser(t, db, "jake", "jake@jake.jake")
	rick := seedUser(t, db, "rick", "rick@rick.rick")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, jake, "old-x", "T", nil, base)
	seedArticle(t, db, jake, "new-x", "T", nil, base.Add(time.Hour))
	seedArticle(t, db, rick, "excluded-x", "T", nil, base.Add(2*time.Hour))

	articles, count, err := repo.ListArticlesByAuthors([]uint{jake.ID}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, articles, 2)
	assert.Equal(t, "new-x", articles[0].Slug, "feed must be ordered by creation time descending")
	assert.Equal(t, "old-x", articles[1].Slug)
}

func TestGetArticleBySlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	author := seedUser(t, db, "jake", "jake@jake.jake")
	seedArticle(t, db, author, "hello-world-abc123", "Hello World", models.TagList{"greetings"}, time.Now())

	article, err := repo.GetArticleBySlug("hello-world-abc123")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", article.Title)
	assert.Equal(t, models.TagList{"greetings"}, article.TagList)
	assert.Equal(t, "jake", article.Author.Username)

	_, err = repo.GetArticleBySlug("no-such-slug")
	assert.Error(t, err)
}

func TestDeleteArticleBySlugRemovesFavourites(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	favourites := NewPostgresFavouriteRepository(db)
	author := seedUser(t, db, "jake", "jake@jake.jake")
	reader := seedUser(t, db, "anah", "anah@anah.anah")
	article := seedArticle(t, db, author, "doomed-x", "T", nil, time.Now())

	require.NoError(t, favourites.AddFavourite(reader.ID, article.ID))
	require.NoError(t, repo.DeleteArticleBySlug("doomed-x"))

	_, err := repo.GetArticleBySlug("doomed-x")
	assert.Error(t, err)

	var orphaned int64
	require.NoError(t, db.Model(&models.Favourite{}).Where("article_id = ?", article.ID).Count(&orphaned).Error)
	assert.Equal(t, int64(0), orphaned)
}

func TestGetTagsDistinct(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresArticleRepository(db)
	author := seedUser(t, db, "jake", "jake@jake.jake")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedArticle(t, db, author, "a-x", "T", models.TagList{"golang", "backend"}, base)
	seedArticle(t, db, author, "b-x", "T", models.TagList{"golang", "testing"}, base.Add(time.Minute))
	seedArticle(t, db, author, "c-x", "T", nil, base.Add(2*time.Minute))

	tags, err := repo.GetTags()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"golang", "backend", "testing"}, tags)
}
