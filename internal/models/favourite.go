package models

import "time"

// Favourite is a user-to-article bookmark. The composite unique index makes
// double-favouriting a conflict no-op; Article.FavouritesCount mutates in
// the same transaction as rows of this table.
type Favourite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_article_favourite"`
	ArticleID uint      `json:"article_id" gorm:"index;uniqueIndex:idx_user_article_favourite"`
	CreatedAt time.Time `json:"created_at"`
}
