package repositories

import (
	"github.com/conduit-go/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavouriteRepository defines the interface for favourite data operations.
// AddFavourite and RemoveFavourite keep the denormalized counter on the
// article row equal to the number of favourite rows: the membership write
// and the counter write happen in one transaction, and the counter only
// moves when the membership actually changed.
type FavouriteRepository interface {
	AddFavourite(userID, articleID uint) error
	RemoveFavourite(userID, articleID uint) error
	IsFavourited(userID, articleID uint) (bool, error)
	GetFavouritedArticleIDSet(userID uint, articleIDs []uint) (map[uint]bool, error)
}

// PostgresFavouriteRepository implements FavouriteRepository for PostgreSQL
type PostgresFavouriteRepository struct {
	db *gorm.DB
}

// NewPostgresFavouriteRepository creates a new PostgresFavouriteRepository
func NewPostgresFavouriteRepository(db *gorm.DB) *PostgresFavouriteRepository {
	return &PostgresFavouriteRepository{db: db}
}

// AddFavourite records the favourite and increments the article counter.
// Already-favourited is a no-op: the conflict on the composite unique index
// leaves RowsAffected at zero and the counter untouched, so concurrent
// duplicate favourites cannot over-count.
func (r *PostgresFavouriteRepository) AddFavourite(userID, articleID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		favourite := models.Favourite{UserID: userID, ArticleID: articleID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&favourite)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Article{}).Where("id = ?", articleID).
			UpdateColumn("favourites_count", gorm.Expr("favourites_count + 1")).Error
	})
}

// RemoveFavourite deletes the favourite and decrements the article counter.
// Not-currently-favourited is a no-op.
func (r *PostgresFavouriteRepository) RemoveFavourite(userID, articleID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).
			Delete(&models.Favourite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Article{}).Where("id = ?", articleID).
			UpdateColumn("favourites_count", gorm.Expr("favourites_count - 1")).Error
	})
}

// IsFavourited reports whether the user has favourited the article
func (r *PostgresFavouriteRepository) IsFavourited(userID, articleID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Favourite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFavouritedArticleIDSet reports which of the given articles the user has
// favourited. Used to overlay the favourited flag on listing pages without
// touching the stored counters.
func (r *PostgresFavouriteRepository) GetFavouritedArticleIDSet(userID uint, articleIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if len(articleIDs) == 0 {
		return set, nil
	}
	var ids []uint
	err := r.db.Model(&models.Favourite{}).
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Pluck("article_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
