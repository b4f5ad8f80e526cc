package repositories

import (
	"github.com/conduit-go/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilters are the conjunctive predicates of the article listing.
type ListFilters struct {
	Tag        string // substring match against the tag list
	Author     string // author username; unknown usernames match nothing
	Favourited string // username whose favourites the articles must belong to
	Limit      int
	Offset     int
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	CreateArticle(article *models.Article) error
	GetArticleBySlug(slug string) (*models.Article, error)
	UpdateArticle(article *models.Article) error
	DeleteArticleBySlug(slug string) error
	ListArticles(filters ListFilters) ([]models.Article, int64, error)
	ListArticlesByAuthors(authorIDs []uint, limit, offset int) ([]models.Article, int64, error)
	GetTags() ([]string, error)
}

// PostgresArticleRepository implements ArticleRepository for PostgreSQL
type PostgresArticleRepository struct {
	db *gorm.DB
}

// NewPostgresArticleRepository creates a new PostgresArticleRepository
func NewPostgresArticleRepository(db *gorm.DB) *PostgresArticleRepository {
	return &PostgresArticleRepository{db: db}
}

// CreateArticle persists a new article with its author bound. The preset
// Author value is response-only; only author_id is written.
func (r *PostgresArticleRepository) CreateArticle(article *models.Article) error {
	return r.db.Omit(clause.Associations).Create(article).Error
}

// GetArticleBySlug retrieves an article by slug with its author preloaded
func (r *PostgresArticleRepository) GetArticleBySlug(slug string) (*models.Article, error) {
	var article models.Article
	if err := r.db.Preload("Author").Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle persists changes to an existing article without touching
// the preloaded author row
func (r *PostgresArticleRepository) UpdateArticle(article *models.Article) error {
	return r.db.Omit(clause.Associations).Save(article).Error
}

// DeleteArticleBySlug deletes an article and its favourite rows
func (r *PostgresArticleRepository) DeleteArticleBySlug(slug string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := tx.Where("slug = ?", slug).First(&article).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Favourite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
}

// applyFilters composes the listing predicates onto a fresh query. Author
// and favourited filters resolve usernames through subqueries, so unknown
// usernames (or an empty favourites set) simply match zero rows.
func (r *PostgresArticleRepository) applyFilters(q *gorm.DB, f ListFilters) *gorm.DB {
	if f.Tag != "" {
		q = q.Where("tag_list LIKE ?", "%"+f.Tag+"%")
	}
	if f.Author != "" {
		q = q.Where("author_id IN (?)",
			r.db.Table("users").Select("id").Where("username = ?", f.Author),
		)
	}
	if f.Favourited != "" {
		q = q.Where("id IN (?)",
			r.db.Table("favourites").Select("favourites.article_id").
				Joins("JOIN users ON users.id = favourites.user_id").
				Where("users.username = ?", f.Favourited),
		)
	}
	return q
}

// ListArticles returns the filtered page ordered by creation time ascending,
// plus the count of the full filtered set taken before pagination.
func (r *PostgresArticleRepository) ListArticles(filters ListFilters) ([]models.Article, int64, error) {
	var count int64
	if err := r.applyFilters(r.db.Model(&models.Article{}), filters).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q := r.applyFilters(r.db.Model(&models.Article{}), filters).
		Preload("Author").
		Order("created_at ASC")
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		q = q.Offset(filters.Offset)
	}

	var articles []models.Article
	if err := q.Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, count, nil
}

// ListArticlesByAuthors returns the feed page for the given author set,
// ordered by creation time descending. Callers short-circuit on an empty
// author set before reaching this query.
func (r *PostgresArticleRepository) ListArticlesByAuthors(authorIDs []uint, limit, offset int) ([]models.Article, int64, error) {
	var count int64
	if err := r.db.Model(&models.Article{}).Where("author_id IN ?", authorIDs).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.Model(&models.Article{}).
		Where("author_id IN ?", authorIDs).
		Preload("Author").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var articles []models.Article
	if err := q.Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, count, nil
}

// GetTags returns every distinct tag across all articles
func (r *PostgresArticleRepository) GetTags() ([]string, error) {
	var tagLists []models.TagList
	if err := r.db.Model(&models.Article{}).Where("tag_list <> ''").Pluck("tag_list", &tagLists).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, list := range tagLists {
		for _, tag := range list {
			if tag != "" && !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}
