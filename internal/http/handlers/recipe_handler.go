// Recipe HTTP handlers.
//
// This file exposes REST endpoints for recipe resources:
//   - POST   /recipes        (create)
//   - GET    /recipes        (list, paginated, filterable)
//   - GET    /recipes/{id}   (detail)
//   - PATCH  /recipes/{id}   (full-replacement update)
//   - DELETE /recipes/{id}   (delete)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Viewer-relative
// fields are resolved per request; anonymous viewers see them as false.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/services"
	"github.com/tbourn/go-recipe-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RecipeService defines the recipe lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context for cancellation and timeouts.
type RecipeService interface {
	// Create validates and persists a new recipe owned by authorID.
	Create(ctx context.Context, authorID string, in services.RecipeInput) (*domain.Recipe, error)
	// Update rewrites an existing recipe with full-replacement semantics.
	Update(ctx context.Context, recipeID, authorID string, in services.RecipeInput) (*domain.Recipe, error)
	// Delete removes a recipe owned by authorID.
	Delete(ctx context.Context, recipeID, authorID string) error
	// Get fetches one recipe with author, tags, and lines preloaded.
	Get(ctx context.Context, recipeID string) (*domain.Recipe, error)
	// List returns a page of recipes matching opts plus the total count.
	List(ctx context.Context, viewerID string, opts services.ListOptions) ([]domain.Recipe, int64, error)
}

// ViewService resolves viewer-relative derived fields.
type ViewService interface {
	// Resolve returns the favorite/cart flags of one recipe for viewerID.
	Resolve(ctx context.Context, viewerID, recipeID string) (services.RecipeFlags, error)
	// ResolveRecipes returns flags for many recipes with constant query cost.
	ResolveRecipes(ctx context.Context, viewerID string, recipeIDs []string) (map[string]services.RecipeFlags, error)
	// IsSubscribed reports whether viewerID follows authorID.
	IsSubscribed(ctx context.Context, viewerID, authorID string) (bool, error)
	// SubscribedAuthors returns which of authorIDs the viewer follows.
	SubscribedAuthors(ctx context.Context, viewerID string, authorIDs []string) (map[string]bool, error)
}

// MembershipService manages favorite and shopping-cart toggles.
type MembershipService interface {
	AddFavorite(ctx context.Context, userID, recipeID string) (*domain.Recipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID string) error
	AddToCart(ctx context.Context, userID, recipeID string) (*domain.Recipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID string) error
}

// ShoppingListService builds and renders the aggregated shopping list.
type ShoppingListService interface {
	Build(ctx context.Context, userID string) ([]repo.ShoppingLine, error)
	Render(lines []repo.ShoppingLine) []byte
}

// SubscriptionService manages follow records between users.
type SubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, authorID string, recipeLimit int) (*services.SubscriptionView, error)
	Unsubscribe(ctx context.Context, subscriberID, authorID string) error
	List(ctx context.Context, subscriberID string, recipeLimit, page, pageSize int) ([]services.SubscriptionView, int64, error)
}

// ImageStore persists uploaded recipe images and returns their public URL.
type ImageStore interface {
	// Save decodes a base64 data URI and writes the image to durable
	// storage, returning the URL to serve it from.
	Save(ctx context.Context, dataURI string) (string, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the recipe API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic; the raw DB handle is used only for the read-only
// reference-data and user lookups that need no service layer.
type Handlers struct {
	recipeSvc RecipeService
	viewSvc   ViewService
	memberSvc MembershipService
	shopSvc   ShoppingListService
	subSvc    SubscriptionService
	images    ImageStore
	db        *gorm.DB
}

// New constructs a Handlers instance bound to the given services.
func New(
	recipeSvc RecipeService,
	viewSvc ViewService,
	memberSvc MembershipService,
	shopSvc ShoppingListService,
	subSvc SubscriptionService,
	images ImageStore,
	db *gorm.DB,
) *Handlers {
	return &Handlers{
		recipeSvc: recipeSvc,
		viewSvc:   viewSvc,
		memberSvc: memberSvc,
		shopSvc:   shopSvc,
		subSvc:    subSvc,
		images:    images,
		db:        db,
	}
}

// viewerID returns the viewer resolved by the identity middleware; "" means
// anonymous.
func viewerID(c *gin.Context) string { return middleware.Viewer(c) }

//
// DTOs
//

// IngredientLineRequest is one (ingredient, amount) entry of the write
// payload.
type IngredientLineRequest struct {
	// ID references an existing ingredient.
	ID string `json:"id" binding:"required" example:"4c3f1a6e-0f6d-4e3a-9d2b-88d1f8a4c001"`
	// Amount is a positive integer in the ingredient's measurement unit.
	Amount int `json:"amount" example:"200"`
}

// RecipeRequest is the JSON payload for creating or updating a recipe.
// Image carries a base64 data URI; it is required on create and optional on
// update (an empty value keeps the stored image).
type RecipeRequest struct {
	Ingredients []IngredientLineRequest `json:"ingredients"`
	Tags        []string                `json:"tags"`
	Image       string                  `json:"image"`
	Name        string                  `json:"name" example:"Ratatouille"`
	Text        string                  `json:"text" example:"Slice the vegetables thinly..."`
	CookingTime int                     `json:"cooking_time" example:"45"`
}

// ListRecipesResponse wraps a page of recipes and pagination information.
type ListRecipesResponse struct {
	Recipes    []RecipeResponse `json:"recipes"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// toInput converts the request payload into the service write model.
func (r RecipeRequest) toInput(imageURL string) services.RecipeInput {
	lines := make([]services.IngredientLineInput, 0, len(r.Ingredients))
	for _, l := range r.Ingredients {
		lines = append(lines, services.IngredientLineInput{
			IngredientID: l.ID,
			Amount:       l.Amount,
		})
	}
	return services.RecipeInput{
		Name:        strings.TrimSpace(r.Name),
		Text:        r.Text,
		Image:       imageURL,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: lines,
	}
}

// failRecipeWrite maps composition-engine errors to HTTP responses shared by
// Create and Update.
func failRecipeWrite(c *gin.Context, err error) {
	if ve, ok := services.AsValidation(err); ok {
		fail(c, http.StatusBadRequest, ErrCodeValidation, ve.Field+": "+ve.Message)
		return
	}
	switch {
	case errors.Is(err, services.ErrTagNotFound):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown tag id")
	case errors.Is(err, services.ErrIngredientNotFound):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown ingredient id")
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
	case errors.Is(err, services.ErrNotRecipeAuthor):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author may modify this recipe")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// presentFull resolves the viewer-relative fields of one recipe and builds
// the full projection.
func (h *Handlers) presentFull(c *gin.Context, r *domain.Recipe) (RecipeResponse, error) {
	ctx := c.Request.Context()
	viewer := viewerID(c)

	flags, err := h.viewSvc.Resolve(ctx, viewer, r.ID)
	if err != nil {
		return RecipeResponse{}, err
	}
	sub, err := h.viewSvc.IsSubscribed(ctx, viewer, r.AuthorID)
	if err != nil {
		return RecipeResponse{}, err
	}
	return presentRecipe(r, flags, sub), nil
}

//
// Handlers
//

// CreateRecipe godoc
// @ID          createRecipe
// @Summary     Publish a new recipe
// @Description Creates a recipe owned by the current user. The image is a base64 data URI; tags and ingredients reference existing catalogue entries.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       body       body    handlers.RecipeRequest  true  "Recipe payload"
//
// @Success     201  {object}  handlers.RecipeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /recipes [post]
func (h *Handlers) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "image: must not be empty")
		return
	}

	imageURL, err := h.images.Save(c.Request.Context(), req.Image)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "image: "+err.Error())
		return
	}

	r, err := h.recipeSvc.Create(c.Request.Context(), viewerID(c), req.toInput(imageURL))
	if err != nil {
		failRecipeWrite(c, err)
		return
	}

	resp, err := h.presentFull(c, r)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, resp)
}

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List recipes (paginated)
// @Description Returns recipes newest first. Filters: author, tags (repeatable slug), is_favorited, is_in_shopping_cart. Viewer-relative filters yield an empty page for anonymous requests.
// @Tags        Recipes
// @Produce     json
//
// @Param       X-User-ID            header  string  false "User ID"                 example(user123)
// @Param       author               query   string  false "Filter by author ID"
// @Param       tags                 query   []string false "Filter by tag slug (repeatable, OR semantics)" collectionFormat(multi)
// @Param       is_favorited         query   string  false "Only viewer's favorites (1/true)"
// @Param       is_in_shopping_cart  query   string  false "Only viewer's cart (1/true)"
// @Param       page                 query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size            query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListRecipesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := viewerID(c)
	page, pageSize := clampPagination(c)

	opts := services.ListOptions{
		AuthorID:      c.Query("author"),
		TagSlugs:      c.QueryArray("tags"),
		FavoritedOnly: utils.BoolDefault(c.Query("is_favorited"), false),
		InCartOnly:    utils.BoolDefault(c.Query("is_in_shopping_cart"), false),
		Page:          page,
		PageSize:      pageSize,
	}

	items, total, err := h.recipeSvc.List(ctx, viewer, opts)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	// Batch-resolve viewer flags and followed authors for the page.
	recipeIDs := make([]string, 0, len(items))
	authorIDs := make([]string, 0, len(items))
	for i := range items {
		recipeIDs = append(recipeIDs, items[i].ID)
		authorIDs = append(authorIDs, items[i].AuthorID)
	}
	flags, err := h.viewSvc.ResolveRecipes(ctx, viewer, recipeIDs)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	followed, err := h.viewSvc.SubscribedAuthors(ctx, viewer, authorIDs)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	recipes := make([]RecipeResponse, 0, len(items))
	for i := range items {
		r := &items[i]
		recipes = append(recipes, presentRecipe(r, flags[r.ID], followed[r.AuthorID]))
	}

	ok(c, http.StatusOK, ListRecipesResponse{
		Recipes:    recipes,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get one recipe
// @Description Returns the full recipe projection, including viewer-relative flags.
// @Tags        Recipes
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID"        example(user123)
// @Param       id         path    string  true  "Recipe ID (UUID)" format(uuid)
//
// @Success     200  {object} handlers.RecipeResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	recipeID := c.Param("id")
	if _, err := uuid.Parse(recipeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	r, err := h.recipeSvc.Get(c.Request.Context(), recipeID)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	resp, err := h.presentFull(c, r)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, resp)
}

// UpdateRecipe godoc
// @ID          updateRecipe
// @Summary     Update a recipe
// @Description Rewrites a recipe owned by the current user. Tags and ingredient lines are fully replaced, never merged. Omitting the image keeps the stored one.
// @Tags        Recipes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"          example(user123)
// @Param       id         path    string  true  "Recipe ID (UUID)"  format(uuid)
// @Param       body       body    handlers.RecipeRequest  true  "Recipe payload"
//
// @Success     200  {object} handlers.RecipeResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id} [patch]
func (h *Handlers) UpdateRecipe(c *gin.Context) {
	recipeID := c.Param("id")
	if _, err := uuid.Parse(recipeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	imageURL := ""
	if strings.TrimSpace(req.Image) != "" {
		var err error
		imageURL, err = h.images.Save(c.Request.Context(), req.Image)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeValidation, "image: "+err.Error())
			return
		}
	}

	r, err := h.recipeSvc.Update(c.Request.Context(), recipeID, viewerID(c), req.toInput(imageURL))
	if err != nil {
		failRecipeWrite(c, err)
		return
	}

	resp, err := h.presentFull(c, r)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, resp)
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Removes a recipe owned by the current user. Favorites, cart entries, and ingredient lines referencing it are removed with it.
// @Tags        Recipes
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"          example(user123)
// @Param       id         path    string  true  "Recipe ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	recipeID := c.Param("id")
	if _, err := uuid.Parse(recipeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	if err := h.recipeSvc.Delete(c.Request.Context(), recipeID, viewerID(c)); err != nil {
		failRecipeWrite(c, err)
		return
	}
	noContent(c)
}
