package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TagList is an ordered list of tags stored as a single comma-joined text
// column, so the tag filter can run as a LIKE match against it.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

func (t *TagList) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TagList", value)
	}
	if s == "" {
		*t = TagList{}
		return nil
	}
	*t = TagList(strings.Split(s, ","))
	return nil
}

// Article represents a published article owned by exactly one author.
// The slug is assigned at creation and never regenerated, even when the
// title changes. FavouritesCount is denormalized and must stay equal to
// the number of Favourite rows for this article.
type Article struct {
	ID              uint      `json:"-" gorm:"primaryKey"`
	Slug            string    `json:"slug" gorm:"uniqueIndex;not null"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description"`
	Body            string    `json:"body" gorm:"type:text"`
	TagList         TagList   `json:"tagList" gorm:"type:text"`
	FavouritesCount int       `json:"favouritesCount" gorm:"default:0"`
	AuthorID        uint      `json:"-" gorm:"index;not null"`
	Author          User      `json:"-" gorm:"foreignKey:AuthorID"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateArticleRequest defines the request body for creating an article
type CreateArticleRequest struct {
	Article CreateArticle `json:"article" validate:"required"`
}

type CreateArticle struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Body        string   `json:"body" validate:"required"`
	TagList     []string `json:"tagList,omitempty"`
}

// UpdateArticleRequest defines the request body for updating an article.
// Empty fields are left unchanged; the slug is never regenerated.
type UpdateArticleRequest struct {
	Article UpdateArticle `json:"article" validate:"required"`
}

type UpdateArticle struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=500"`
	Body        string   `json:"body,omitempty"`
	TagList     []string `json:"tagList,omitempty"`
}

// ArticleData is an article with author profile and the requesting user's
// favourited flag overlaid.
type ArticleData struct {
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Body            string    `json:"body"`
	TagList         []string  `json:"tagList"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Favourited      bool      `json:"favourited"`
	FavouritesCount int       `json:"favouritesCount"`
	Author          Profile   `json:"author"`
}

// ArticleResponse is the single-article envelope
type ArticleResponse struct {
	Article ArticleData `json:"article"`
}

// ArticlesResponse is the listing envelope; ArticlesCount reflects the full
// filtered set, not just the returned page.
type ArticlesResponse struct {
	Articles      []ArticleData `json:"articles"`
	ArticlesCount int64         `json:"articlesCount"`
}

func (a *Article) ToArticleData(favourited, followingAuthor bool) ArticleData {
	tags := []string(a.TagList)
	if tags == nil {
		tags = []string{}
	}
	return ArticleData{
		Slug:            a.Slug,
		Title:           a.Title,
		Description:     a.Description,
		Body:            a.Body,
		TagList:         tags,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Favourited:      favourited,
		FavouritesCount: a.FavouritesCount,
		Author:          a.Author.ToProfile(followingAuthor),
	}
}

// TagsResponse is the envelope for the distinct-tag listing
type TagsResponse struct {
	Tags []string `json:"tags"`
}
