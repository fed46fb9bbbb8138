package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

func TestListTags_ETagRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.seedTag(t, "Breakfast", "breakfast")
	env.seedTag(t, "Dinner", "dinner")

	w := env.do(t, http.MethodGet, "/tags", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list tags: status %d", w.Code)
	}
	var tags []domain.Tag
	decodeJSON(t, w, &tags)
	if len(tags) != 2 || tags[0].Name != "Breakfast" {
		t.Fatalf("tags wrong: %+v", tags)
	}

	etag := w.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"tags:`) {
		t.Fatalf("etag missing or wrong: %q", etag)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=300") {
		t.Fatalf("cache control wrong: %q", cc)
	}

	// Revalidation with the same ETag returns 304 and no body.
	req := func() *http.Request {
		r, _ := http.NewRequest(http.MethodGet, "/tags", nil)
		r.Header.Set("If-None-Match", etag)
		return r
	}
	w2 := doRaw(env, req())
	if w2.Code != http.StatusNotModified {
		t.Fatalf("revalidation: status %d", w2.Code)
	}
	if w2.Body.Len() != 0 {
		t.Fatalf("304 must carry no body: %q", w2.Body.String())
	}

	// A catalogue change invalidates the ETag.
	env.seedTag(t, "Zest", "zest")
	w3 := doRaw(env, req())
	if w3.Code != http.StatusOK {
		t.Fatalf("stale etag should miss: status %d", w3.Code)
	}
}

func TestGetTag(t *testing.T) {
	env := newTestEnv(t)
	tag := env.seedTag(t, "Dinner", "dinner")

	w := env.do(t, http.MethodGet, "/tags/"+tag.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get tag: status %d", w.Code)
	}
	var got domain.Tag
	decodeJSON(t, w, &got)
	if got.Slug != "dinner" {
		t.Fatalf("tag wrong: %+v", got)
	}

	if w := env.do(t, http.MethodGet, "/tags/nope", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/tags/"+uuid.NewString(), "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing tag: status %d", w.Code)
	}
}

func TestListIngredients_PrefixSearch(t *testing.T) {
	env := newTestEnv(t)
	env.seedIngredient(t, "Flour", "g")
	env.seedIngredient(t, "flaxseed", "g")
	env.seedIngredient(t, "sugar", "g")

	var items []domain.Ingredient
	w := env.do(t, http.MethodGet, "/ingredients?name=fl", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: status %d", w.Code)
	}
	decodeJSON(t, w, &items)
	if len(items) != 2 {
		t.Fatalf("prefix search wrong: %+v", items)
	}

	// The ETag embeds the prefix so differently filtered results never
	// collide in caches.
	etagFl := w.Header().Get("ETag")
	w2 := env.do(t, http.MethodGet, "/ingredients?name=su", "", nil)
	if etagSu := w2.Header().Get("ETag"); etagSu == etagFl {
		t.Fatalf("etags for different prefixes must differ: %q", etagFl)
	}

	w3 := env.do(t, http.MethodGet, "/ingredients", "", nil)
	decodeJSON(t, w3, &items)
	if len(items) != 3 {
		t.Fatalf("unfiltered search wrong: %d", len(items))
	}
}

func TestGetIngredient(t *testing.T) {
	env := newTestEnv(t)
	ing := env.seedIngredient(t, "salt", "g")

	w := env.do(t, http.MethodGet, "/ingredients/"+ing.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get ingredient: status %d", w.Code)
	}
	var got domain.Ingredient
	decodeJSON(t, w, &got)
	if got.Name != "salt" || got.MeasurementUnit != "g" {
		t.Fatalf("ingredient wrong: %+v", got)
	}

	if w := env.do(t, http.MethodGet, "/ingredients/"+uuid.NewString(), "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing ingredient: status %d", w.Code)
	}
}
