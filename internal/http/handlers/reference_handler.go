// Reference-data HTTP handlers.
//
// This file exposes the shared catalogues consumed by recipe composition:
//   - GET /tags               (full list, ETag support)
//   - GET /tags/{id}
//   - GET /ingredients        (prefix search, ETag support)
//   - GET /ingredients/{id}
//
// Both catalogues change rarely (tags are admin-managed, ingredients are
// immutable), so list responses carry a weak ETag derived from row count
// and latest update time, letting clients revalidate cheaply with
// If-None-Match.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// referenceMaxAge is the Cache-Control lifetime of catalogue responses.
const referenceMaxAge = "public, max-age=300"

// referenceETag builds a weak ETag from a catalogue's stats plus a variant
// discriminator (e.g., the search prefix).
func referenceETag(kind, variant string, count int64, maxTS *time.Time) string {
	var ts int64
	if maxTS != nil {
		ts = maxTS.Unix()
	}
	return fmt.Sprintf(`W/"%s:%s:%d:%d"`, kind, variant, count, ts)
}

// conditionalReference runs the shared ETag pre-check. It returns true when
// a 304 was written and the handler should stop. Stats failures are treated
// as a cache miss, never as a request failure.
func conditionalReference(c *gin.Context, kind, variant string,
	stats func(context.Context) (int64, *time.Time, error)) bool {
	count, maxTS, err := stats(c.Request.Context())
	if err != nil {
		return false
	}
	etag := referenceETag(kind, variant, count, maxTS)
	c.Header("ETag", etag)
	c.Header("Cache-Control", referenceMaxAge)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// ListTags godoc
// @ID          listTags
// @Summary     List all tags
// @Description Returns the full tag catalogue ordered by name. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Reference
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}  domain.Tag
// @Header      200  {string} ETag "Weak ETag for current catalogue"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tags [get]
func (h *Handlers) ListTags(c *gin.Context) {
	if conditionalReference(c, "tags", "", func(ctx context.Context) (int64, *time.Time, error) {
		return repo.TagsStats(ctx, h.db)
	}) {
		return
	}

	tags, err := repo.ListTags(c.Request.Context(), h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, tags)
}

// GetTag godoc
// @ID          getTag
// @Summary     Get one tag
// @Tags        Reference
// @Produce     json
//
// @Param       id  path  string  true  "Tag ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Tag
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Tag not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tags/{id} [get]
func (h *Handlers) GetTag(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tag id must be a UUID")
		return
	}

	t, err := repo.GetTag(c.Request.Context(), h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "tag not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, t)
}

// ListIngredients godoc
// @ID          listIngredients
// @Summary     Search ingredients
// @Description Returns ingredients whose name starts with the given prefix, case-insensitively, ordered by name. An empty prefix returns the full catalogue.
// @Tags        Reference
// @Produce     json
//
// @Param       name           query   string  false "Name prefix"  example(flo)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}  domain.Ingredient
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	prefix := c.Query("name")
	if conditionalReference(c, "ingredients", prefix, func(ctx context.Context) (int64, *time.Time, error) {
		return repo.IngredientsStats(ctx, h.db)
	}) {
		return
	}

	items, err := repo.SearchIngredients(c.Request.Context(), h.db, prefix)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetIngredient godoc
// @ID          getIngredient
// @Summary     Get one ingredient
// @Tags        Reference
// @Produce     json
//
// @Param       id  path  string  true  "Ingredient ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Ingredient
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Ingredient not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ingredients/{id} [get]
func (h *Handlers) GetIngredient(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ingredient id must be a UUID")
		return
	}

	ing, err := repo.GetIngredient(c.Request.Context(), h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "ingredient not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ing)
}
