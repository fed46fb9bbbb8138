// User HTTP handlers.
//
// This file exposes the read-only user directory:
//   - GET /users        (paginated)
//   - GET /users/{id}
//   - GET /users/me
//
// Accounts are created and managed by the external identity provider; this
// API only projects them, annotated with the viewer-relative is_subscribed
// flag.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// ListUsersResponse wraps a page of users and pagination information.
type ListUsersResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users (paginated)
// @Description Returns users ordered by username, each annotated with is_subscribed relative to the current viewer.
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID"         example(user123)
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListUsersResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)
	offset := (page - 1) * pageSize

	total, err := repo.CountUsers(ctx, h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	users, err := repo.ListUsersPage(ctx, h.db, offset, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ids := make([]string, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	followed, err := h.viewSvc.SubscribedAuthors(ctx, viewerID(c), ids)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, presentUser(users[i], followed[users[i].ID]))
	}
	ok(c, http.StatusOK, ListUsersResponse{
		Users:      out,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetUser godoc
// @ID          getUser
// @Summary     Get one user
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID"        example(user123)
// @Param       id         path    string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.UserResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a UUID")
		return
	}
	h.getUserByID(c, id)
}

// GetMe godoc
// @ID          getMe
// @Summary     Get the current user's profile
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
//
// @Success     200  {object} handlers.UserResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/me [get]
func (h *Handlers) GetMe(c *gin.Context) {
	h.getUserByID(c, viewerID(c))
}

// getUserByID fetches and projects one user for the current viewer.
func (h *Handlers) getUserByID(c *gin.Context, id string) {
	ctx := c.Request.Context()

	u, err := repo.GetUser(ctx, h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	sub, err := h.viewSvc.IsSubscribed(ctx, viewerID(c), u.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, presentUser(*u, sub))
}
