package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/conduit-go/backend/internal/middleware"
	"github.com/conduit-go/backend/internal/models"
	"github.com/conduit-go/backend/internal/repositories"
	"github.com/conduit-go/backend/internal/utils"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ArticleHandler handles article listing, feed, CRUD and favourite requests
type ArticleHandler struct {
	articleRepository   repositories.ArticleRepository
	favouriteRepository repositories.FavouriteRepository
	followRepository    repositories.FollowRepository
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(
	articleRepo repositories.ArticleRepository,
	favouriteRepo repositories.FavouriteRepository,
	followRepo repositories.FollowRepository,
) *ArticleHandler {
	return &ArticleHandler{
		articleRepository:   articleRepo,
		favouriteRepository: favouriteRepo,
		followRepository:    followRepo,
	}
}

// RegisterRoutes registers article routes on the public and guarded groups.
// The static /articles/feed route must register before /articles/:slug.
func (h *ArticleHandler) RegisterRoutes(public, authed *echo.Group) {
	public.GET("/articles", h.ListArticles)
	authed.GET("/articles/feed", h.GetFeed)
	public.GET("/articles/:slug", h.GetArticle)
	public.GET("/tags", h.GetTags)
	authed.POST("/articles", h.CreateArticle)
	authed.PUT("/articles/:slug", h.UpdateArticle)
	authed.DELETE("/articles/:slug", h.DeleteArticle)
	authed.POST("/articles/:slug/favourite", h.FavouriteArticle)
	authed.DELETE("/articles/:slug/favourite", h.UnfavouriteArticle)
}

// ListArticles returns the global listing, filtered by tag, author and
// favourited-by, ordered by creation time ascending. articlesCount covers
// the whole filtered set regardless of pagination.
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	filters := repositories.ListFilters{
		Tag:        c.QueryParam("tag"),
		Author:     c.QueryParam("author"),
		Favourited: c.QueryParam("favourited"),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	}

	articles, count, err := h.articleRepository.ListArticles(filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	data, err := h.enrichArticles(middleware.CurrentUserID(c), articles)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.ArticlesResponse{Articles: data, ArticlesCount: count})
}

// GetFeed returns articles authored by users the current user follows,
// ordered by creation time descending. A user following nobody gets an
// empty result without touching the article store.
func (h *ArticleHandler) GetFeed(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(followingIDs) == 0 {
		return c.JSON(http.StatusOK, models.ArticlesResponse{Articles: []models.ArticleData{}, ArticlesCount: 0})
	}

	articles, count, err := h.articleRepository.ListArticlesByAuthors(
		followingIDs, queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	data, err := h.enrichArticles(currentUserID, articles)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.ArticlesResponse{Articles: data, ArticlesCount: count})
}

// GetArticle returns a single article by slug
func (h *ArticleHandler) GetArticle(c echo.Context) error {
	article, err := h.lookupArticle(c)
	if err != nil {
		return err
	}
	return h.respondWithArticle(c, http.StatusOK, article)
}

// CreateArticle persists a new article authored by the current user. The
// slug derives from the title plus a random base-36 suffix and is assigned
// exactly once.
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	var req models.CreateArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	slug, err := utils.NewSlug(req.Article.Title)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate slug")
	}

	tagList := models.TagList(req.Article.TagList)
	if tagList == nil {
		tagList = models.TagList{}
	}

	currentUser := middleware.CurrentUser(c)
	article := &models.Article{
		Slug:        slug,
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     tagList,
		AuthorID:    currentUser.ID,
		Author:      *currentUser,
	}

	if err := h.articleRepository.CreateArticle(article); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.respondWithArticle(c, http.StatusCreated, article)
}

// UpdateArticle merges the supplied fields onto an article owned by the
// current user. The slug stays unchanged even when the title changes.
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	var req models.UpdateArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	article, err := h.lookupOwnedArticle(c)
	if err != nil {
		return err
	}

	if req.Article.Title != "" {
		article.Title = req.Article.Title
	}
	if req.Article.Description != "" {
		article.Description = req.Article.Description
	}
	if req.Article.Body != "" {
		article.Body = req.Article.Body
	}
	if req.Article.TagList != nil {
		article.TagList = models.TagList(req.Article.TagList)
	}

	if err := h.articleRepository.UpdateArticle(article); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.respondWithArticle(c, http.StatusOK, article)
}

// DeleteArticle deletes an article owned by the current user
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	article, err := h.lookupOwnedArticle(c)
	if err != nil {
		return err
	}

	if err := h.articleRepository.DeleteArticleBySlug(article.Slug); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// FavouriteArticle adds the article to the current user's favourites.
// Favouriting twice is idempotent and moves the counter by exactly one.
func (h *ArticleHandler) FavouriteArticle(c echo.Context) error {
	article, err := h.lookupArticle(c)
	if err != nil {
		return err
	}

	if err := h.favouriteRepository.AddFavourite(middleware.CurrentUserID(c), article.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.respondWithFreshArticle(c, article.Slug)
}

// UnfavouriteArticle removes the article from the current user's favourites.
// Unfavouriting an article never favourited leaves the counter unchanged.
func (h *ArticleHandler) UnfavouriteArticle(c echo.Context) error {
	article, err := h.lookupArticle(c)
	if err != nil {
		return err
	}

	if err := h.favouriteRepository.RemoveFavourite(middleware.CurrentUserID(c), article.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.respondWithFreshArticle(c, article.Slug)
}

// GetTags returns every distinct tag across all articles
func (h *ArticleHandler) GetTags(c echo.Context) error {
	tags, err := h.articleRepository.GetTags()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, models.TagsResponse{Tags: tags})
}

func (h *ArticleHandler) lookupArticle(c echo.Context) (*models.Article, error) {
	article, err := h.articleRepository.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Article not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return article, nil
}

// lookupOwnedArticle resolves the slug and enforces that the current user is
// the author. Not-found wins over forbidden.
func (h *ArticleHandler) lookupOwnedArticle(c echo.Context) (*models.Article, error) {
	article, err := h.lookupArticle(c)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != middleware.CurrentUserID(c) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not the author")
	}
	return article, nil
}

// respondWithFreshArticle reloads the article so the response carries the
// post-toggle favourites counter.
func (h *ArticleHandler) respondWithFreshArticle(c echo.Context, slug string) error {
	article, err := h.articleRepository.GetArticleBySlug(slug)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.respondWithArticle(c, http.StatusOK, article)
}

func (h *ArticleHandler) respondWithArticle(c echo.Context, status int, article *models.Article) error {
	currentUserID := middleware.CurrentUserID(c)

	favourited := false
	following := false
	if currentUserID != 0 {
		var err error
		favourited, err = h.favouriteRepository.IsFavourited(currentUserID, article.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if article.AuthorID != currentUserID {
			following, err = h.followRepository.IsFollowing(currentUserID, article.AuthorID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
	}

	return c.JSON(status, models.ArticleResponse{Article: article.ToArticleData(favourited, following)})
}

// enrichArticles overlays the favourited flag and the author following flag
// for the current user onto a listing page. The overlay reads membership
// sets only; stored counters are never touched.
func (h *ArticleHandler) enrichArticles(currentUserID uint, articles []models.Article) ([]models.ArticleData, error) {
	favouritedSet := map[uint]bool{}
	followingSet := map[uint]bool{}

	if currentUserID != 0 && len(articles) > 0 {
		articleIDs := make([]uint, len(articles))
		authorIDs := make([]uint, 0, len(articles))
		seenAuthors := map[uint]bool{}
		for i, a := range articles {
			articleIDs[i] = a.ID
			if !seenAuthors[a.AuthorID] {
				seenAuthors[a.AuthorID] = true
				authorIDs = append(authorIDs, a.AuthorID)
			}
		}

		var err error
		favouritedSet, err = h.favouriteRepository.GetFavouritedArticleIDSet(currentUserID, articleIDs)
		if err != nil {
			return nil, err
		}
		followingSet, err = h.followRepository.GetFollowingIDSet(currentUserID, authorIDs)
		if err != nil {
			return nil, err
		}
	}

	data := make([]models.ArticleData, len(articles))
	for i, a := range articles {
		data[i] = a.ToArticleData(favouritedSet[a.ID], followingSet[a.AuthorID])
	}
	return data, nil
}

func queryInt(c echo.Context, name string) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
