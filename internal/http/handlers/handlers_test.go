package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/images"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// pngDataURI is a valid 1x1 transparent PNG.
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// newTestEnv wires real services over an in-memory store behind the same
// route layout the production router mounts, minus the outer middleware
// that individual middleware tests cover.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:hnd_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	store, err := images.NewStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("image store: %v", err)
	}

	h := New(
		services.NewRecipeService(db),
		services.NewViewService(db),
		services.NewMembershipService(db),
		services.NewShoppingListService(db),
		services.NewSubscriptionService(db),
		store,
		db,
	)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Identity())

	r.GET("/tags", h.ListTags)
	r.GET("/tags/:id", h.GetTag)
	r.GET("/ingredients", h.ListIngredients)
	r.GET("/ingredients/:id", h.GetIngredient)

	r.GET("/recipes", h.ListRecipes)
	r.GET("/recipes/:id", h.GetRecipe)

	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)

	auth := r.Group("", middleware.RequireViewer())
	{
		auth.POST("/recipes", h.CreateRecipe)
		auth.PATCH("/recipes/:id", h.UpdateRecipe)
		auth.DELETE("/recipes/:id", h.DeleteRecipe)

		auth.POST("/recipes/:id/favorite", h.AddFavorite)
		auth.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
		auth.POST("/recipes/:id/shopping_cart", h.AddToCart)
		auth.DELETE("/recipes/:id/shopping_cart", h.RemoveFromCart)
		auth.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)

		auth.GET("/users/me", h.GetMe)
		auth.GET("/users/subscriptions", h.ListSubscriptions)
		auth.POST("/users/:id/subscribe", h.Subscribe)
		auth.DELETE("/users/:id/subscribe", h.Unsubscribe)
	}

	return &testEnv{db: db, router: r}
}

// do performs a request as userID; an empty userID means anonymous.
func (e *testEnv) do(t *testing.T, method, target, userID string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedUser(t *testing.T, username string) domain.User {
	t.Helper()
	u := domain.User{ID: uuid.NewString(), Email: username + "@example.com", Username: username}
	if err := e.db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func (e *testEnv) seedTag(t *testing.T, name, slug string) domain.Tag {
	t.Helper()
	// Color and slug are unique columns; derive the color per call.
	tag := domain.Tag{ID: uuid.NewString(), Name: name, Color: "#" + uuid.NewString()[:6], Slug: slug}
	if err := e.db.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag %s: %v", slug, err)
	}
	return tag
}

func (e *testEnv) seedIngredient(t *testing.T, name, unit string) domain.Ingredient {
	t.Helper()
	ing := domain.Ingredient{ID: uuid.NewString(), Name: name, MeasurementUnit: unit}
	if err := e.db.Create(&ing).Error; err != nil {
		t.Fatalf("seed ingredient %s: %v", name, err)
	}
	return ing
}

// recipeBody renders a valid create/update payload.
func recipeBody(name, image string, tagIDs []string, lines map[string]int, cookingTime int) *strings.Reader {
	var b strings.Builder
	b.WriteString(`{"name":"` + name + `","text":"Step one.","cooking_time":`)
	fmt.Fprintf(&b, "%d", cookingTime)
	b.WriteString(`,"image":"` + image + `","tags":[`)
	for i, id := range tagIDs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"` + id + `"`)
	}
	b.WriteString(`],"ingredients":[`)
	first := true
	for id, amount := range lines {
		if !first {
			b.WriteString(",")
		}
		first = false
		fmt.Fprintf(&b, `{"id":%q,"amount":%d}`, id, amount)
	}
	b.WriteString(`]}`)
	return strings.NewReader(b.String())
}

// createRecipe seeds reference data and publishes one recipe via the API,
// returning its decoded response.
func (e *testEnv) createRecipe(t *testing.T, author domain.User, name string) RecipeResponse {
	t.Helper()
	tag := e.seedTag(t, "Tag-"+name, "slug-"+strings.ToLower(name))
	ing := e.seedIngredient(t, "ing-"+strings.ToLower(name), "g")

	w := e.do(t, http.MethodPost, "/recipes", author.ID,
		recipeBody(name, pngDataURI, []string{tag.ID}, map[string]int{ing.ID: 100}, 30))
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s: status %d body %s", name, w.Code, w.Body.String())
	}
	var resp RecipeResponse
	decodeJSON(t, w, &resp)
	return resp
}

// doRaw serves a fully prepared request, for cases needing custom headers.
func doRaw(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
}

func TestNewPagination(t *testing.T) {
	p := newPagination(2, 10, 25)
	if p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("pagination wrong: %+v", p)
	}
	last := newPagination(3, 10, 25)
	if last.HasNext {
		t.Fatalf("last page must not have next: %+v", last)
	}
	empty := newPagination(1, 10, 0)
	if empty.TotalPages != 0 || empty.HasNext {
		t.Fatalf("empty pagination wrong: %+v", empty)
	}
}
