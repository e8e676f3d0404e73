package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsgram/internal/domain"
)

// defaultPostListLimit caps how many posts a dashboard listing returns
// when no limit is requested.
const defaultPostListLimit = 20

// ArticleCounter reports how many articles sit in a pipeline status.
type ArticleCounter interface {
	CountByStatus(ctx context.Context, status domain.ArticleStatus) (int64, error)
}

// PostLister lists generated Instagram posts by publication status.
type PostLister interface {
	ListByStatus(ctx context.Context, status domain.PostStatus, limit int) ([]domain.InstagramPost, error)
}

// DashboardHandler serves the read-only endpoints the dashboard polls.
type DashboardHandler struct {
	articles ArticleCounter
	posts    PostLister
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(articles ArticleCounter, posts PostLister) *DashboardHandler {
	return &DashboardHandler{articles: articles, posts: posts}
}

// Stats handles GET /api/stats. It returns the article count in every
// pipeline status.
func (h *DashboardHandler) Stats(c *gin.Context) {
	counts := gin.H{}
	for _, status := range domain.ArticleStatuses() {
		count, countErr := h.articles.CountByStatus(c.Request.Context(), status)
		if countErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch stats"})
			return
		}
		counts[string(status)] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"articles": counts,
	})
}

// ListPosts handles GET /api/instagram-posts. Without parameters it
// returns the newest drafts awaiting review.
func (h *DashboardHandler) ListPosts(c *gin.Context) {
	status := domain.PostStatus(c.DefaultQuery("status", string(domain.PostStatusDraft)))
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown post status"})
		return
	}

	limit, parseErr := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPostListLimit)))
	if parseErr != nil || limit <= 0 {
		limit = defaultPostListLimit
	}

	posts, listErr := h.posts.ListByStatus(c.Request.Context(), status, limit)
	if listErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"posts":   posts,
		"count":   len(posts),
	})
}
