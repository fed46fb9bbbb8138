// Favorite and shopping-cart HTTP handlers.
//
// This file exposes the per-recipe membership toggles and the shopping list
// download:
//   - POST   /recipes/{id}/favorite
//   - DELETE /recipes/{id}/favorite
//   - POST   /recipes/{id}/shopping_cart
//   - DELETE /recipes/{id}/shopping_cart
//   - GET    /recipes/download_shopping_cart
//
// Toggle conflicts (already present, not present) are reported as HTTP 400
// with code "conflict", matching the upstream API contract.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

// shoppingListFilename is the attachment name of the downloadable list.
const shoppingListFilename = "shopping_list.txt"

// AddFavorite godoc
// @ID          addFavorite
// @Summary     Favorite a recipe
// @Description Bookmarks the recipe for the current user and returns the short recipe payload.
// @Tags        Favorites
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"          example(user123)
// @Param       id         path    string  true  "Recipe ID (UUID)"  format(uuid)
//
// @Success     201  {object} handlers.ShortRecipeResponse
// @Failure     400  {object} handlers.ErrorResponse "Already favorited"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id}/favorite [post]
func (h *Handlers) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.memberSvc.AddFavorite, services.ErrAlreadyFavorited, "recipe already favorited")
}

// RemoveFavorite godoc
// @ID          removeFavorite
// @Summary     Unfavorite a recipe
// @Tags        Favorites
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"          example(user123)
// @Param       id         path    string  true  "Recipe ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Not favorited"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id}/favorite [delete]
func (h *Handlers) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.memberSvc.RemoveFavorite, services.ErrNotFavorited, "recipe is not favorited")
}

// AddToCart godoc
// @ID          addToCart
// @Summary     Add a recipe to the shopping cart
// @Description Marks the recipe's ingredients for inclusion in the downloadable shopping list.
// @Tags        ShoppingCart
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"          example(user123)
// @Param       id         path    string  true  "Recipe ID (UUID)"  format(uuid)
//
// @Success     201  {object} handlers.ShortRecipeResponse
// @Failure     400  {object} handlers.ErrorResponse "Already in cart"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id}/shopping_cart [post]
func (h *Handlers) AddToCart(c *gin.Context) {
	h.addMembership(c, h.memberSvc.AddToCart, services.ErrAlreadyInCart, "recipe already in shopping cart")
}

// RemoveFromCart godoc
// @ID          removeFromCart
// @Summary     Remove a recipe from the shopping cart
// @Tags        ShoppingCart
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"          example(user123)
// @Param       id         path    string  true  "Recipe ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Not in cart"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id}/shopping_cart [delete]
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.memberSvc.RemoveFromCart, services.ErrNotInCart, "recipe is not in the shopping cart")
}

// DownloadShoppingCart godoc
// @ID          downloadShoppingCart
// @Summary     Download the aggregated shopping list
// @Description Sums ingredient amounts across all cart recipes, grouped by (name, unit), and returns a plain-text attachment. An empty cart is rejected.
// @Tags        ShoppingCart
// @Produce     plain
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
//
// @Success     200  {string} string "Shopping list attachment"
// @Failure     400  {object} handlers.ErrorResponse "Empty cart"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/download_shopping_cart [get]
func (h *Handlers) DownloadShoppingCart(c *gin.Context) {
	lines, err := h.shopSvc.Build(c.Request.Context(), viewerID(c))
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			fail(c, http.StatusBadRequest, ErrCodeEmptyCart, "shopping cart is empty")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", h.shopSvc.Render(lines))
}

// addMembership runs the shared POST toggle flow: validate the id, call the
// service, map the conflict sentinel, and confirm with the short payload.
func (h *Handlers) addMembership(
	c *gin.Context,
	add func(ctx context.Context, userID, recipeID string) (*domain.Recipe, error),
	conflict error,
	conflictMsg string,
) {
	recipeID := c.Param("id")
	if _, err := uuid.Parse(recipeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	r, err := add(c.Request.Context(), viewerID(c), recipeID)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, presentShortRecipe(r))
	case errors.Is(err, conflict):
		fail(c, http.StatusBadRequest, ErrCodeConflict, conflictMsg)
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// removeMembership runs the shared DELETE toggle flow.
func (h *Handlers) removeMembership(
	c *gin.Context,
	remove func(ctx context.Context, userID, recipeID string) error,
	missing error,
	missingMsg string,
) {
	recipeID := c.Param("id")
	if _, err := uuid.Parse(recipeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	err := remove(c.Request.Context(), viewerID(c), recipeID)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, missing):
		fail(c, http.StatusBadRequest, ErrCodeConflict, missingMsg)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
