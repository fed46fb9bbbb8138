// Subscription HTTP handlers.
//
// This file exposes the author-following endpoints:
//   - POST   /users/{id}/subscribe
//   - DELETE /users/{id}/subscribe
//   - GET    /users/subscriptions   (paginated)
//
// Each followed author is returned with a recipe preview truncated to the
// recipes_limit query parameter; recipes_count always reflects the author's
// full catalogue.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-recipe-backend/internal/services"
	"github.com/tbourn/go-recipe-backend/internal/utils"
)

// ListSubscriptionsResponse wraps a page of followed authors.
type ListSubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	Pagination    Pagination             `json:"pagination"`
}

// recipesLimit parses the recipes_limit query param; 0 means no truncation.
func recipesLimit(c *gin.Context) int {
	n := utils.AtoiDefault(c.Query("recipes_limit"), 0)
	if n < 0 {
		n = 0
	}
	return n
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Follow an author
// @Description Creates a follow record from the current user to the author and returns the author with a recipe preview. Self-subscription and duplicates are rejected.
// @Tags        Subscriptions
// @Produce     json
//
// @Param       X-User-ID      header  string  true  "User ID"          example(user123)
// @Param       id             path    string  true  "Author ID (UUID)"  format(uuid)
// @Param       recipes_limit  query   int     false "Max recipes in the preview (0 = all)" minimum(0)
//
// @Success     201  {object} handlers.SubscriptionResponse
// @Failure     400  {object} handlers.ErrorResponse "Self-subscription or already subscribed"
// @Failure     404  {object} handlers.ErrorResponse "Author not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/{id}/subscribe [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	authorID := c.Param("id")
	if _, err := uuid.Parse(authorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "author id must be a UUID")
		return
	}

	view, err := h.subSvc.Subscribe(c.Request.Context(), viewerID(c), authorID, recipesLimit(c))
	switch {
	case err == nil:
		ok(c, http.StatusCreated, presentSubscription(*view))
	case errors.Is(err, services.ErrSelfSubscription):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot subscribe to yourself")
	case errors.Is(err, services.ErrAlreadySubscribed):
		fail(c, http.StatusBadRequest, ErrCodeConflict, "already subscribed to this author")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "author not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// Unsubscribe godoc
// @ID          unsubscribe
// @Summary     Unfollow an author
// @Tags        Subscriptions
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"          example(user123)
// @Param       id         path    string  true  "Author ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Not subscribed"
// @Failure     404  {object} handlers.ErrorResponse "Author not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/{id}/subscribe [delete]
func (h *Handlers) Unsubscribe(c *gin.Context) {
	authorID := c.Param("id")
	if _, err := uuid.Parse(authorID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "author id must be a UUID")
		return
	}

	err := h.subSvc.Unsubscribe(c.Request.Context(), viewerID(c), authorID)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrNotSubscribed):
		fail(c, http.StatusBadRequest, ErrCodeConflict, "not subscribed to this author")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "author not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// ListSubscriptions godoc
// @ID          listSubscriptions
// @Summary     List followed authors (paginated)
// @Description Returns the current user's followed authors, oldest follow first, each with a recipe preview.
// @Tags        Subscriptions
// @Produce     json
//
// @Param       X-User-ID      header  string  true  "User ID"  example(user123)
// @Param       recipes_limit  query   int     false "Max recipes per preview (0 = all)" minimum(0)
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListSubscriptionsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/subscriptions [get]
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	page, pageSize := clampPagination(c)

	views, total, err := h.subSvc.List(c.Request.Context(), viewerID(c), recipesLimit(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	subs := make([]SubscriptionResponse, 0, len(views))
	for _, v := range views {
		subs = append(subs, presentSubscription(v))
	}
	ok(c, http.StatusOK, ListSubscriptionsResponse{
		Subscriptions: subs,
		Pagination:    newPagination(page, pageSize, total),
	})
}
