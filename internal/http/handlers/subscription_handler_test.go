package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestSubscribeFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	env.createRecipe(t, bob, "Soup")

	w := env.do(t, http.MethodPost, "/users/"+bob.ID+"/subscribe", alice.ID, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("subscribe: status %d body %s", w.Code, w.Body.String())
	}
	var sub SubscriptionResponse
	decodeJSON(t, w, &sub)
	if sub.ID != bob.ID || !sub.IsSubscribed || sub.RecipesCount != 1 {
		t.Fatalf("subscription payload wrong: %+v", sub)
	}
	if len(sub.Recipes) != 1 || sub.Recipes[0].Name != "Soup" {
		t.Fatalf("preview wrong: %+v", sub.Recipes)
	}

	// Duplicate follow.
	w = env.do(t, http.MethodPost, "/users/"+bob.ID+"/subscribe", alice.ID, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate subscribe: status %d", w.Code)
	}
	var body ErrorResponse
	decodeJSON(t, w, &body)
	if body.Code != ErrCodeConflict {
		t.Fatalf("duplicate code = %q", body.Code)
	}
}

func TestSubscribe_Guards(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")

	// Self-subscription.
	w := env.do(t, http.MethodPost, "/users/"+alice.ID+"/subscribe", alice.ID, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self subscribe: status %d", w.Code)
	}
	var body ErrorResponse
	decodeJSON(t, w, &body)
	if body.Code != ErrCodeBadRequest {
		t.Fatalf("self subscribe code = %q", body.Code)
	}

	if w := env.do(t, http.MethodPost, "/users/"+uuid.NewString()+"/subscribe", alice.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown author: status %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/users/nope/subscribe", alice.ID, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad author id: status %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/users/"+uuid.NewString()+"/subscribe", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous subscribe: status %d", w.Code)
	}
}

func TestUnsubscribeFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	if w := env.do(t, http.MethodDelete, "/users/"+bob.ID+"/subscribe", alice.ID, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unsubscribe without follow: status %d", w.Code)
	}

	if w := env.do(t, http.MethodPost, "/users/"+bob.ID+"/subscribe", alice.ID, nil); w.Code != http.StatusCreated {
		t.Fatalf("subscribe: status %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, "/users/"+bob.ID+"/subscribe", alice.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("unsubscribe: status %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, "/users/"+uuid.NewString()+"/subscribe", alice.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown author: status %d", w.Code)
	}
}

func TestListSubscriptions_RecipesLimit(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	for _, name := range []string{"One", "Two", "Three"} {
		env.createRecipe(t, bob, name)
	}
	if w := env.do(t, http.MethodPost, "/users/"+bob.ID+"/subscribe", alice.ID, nil); w.Code != http.StatusCreated {
		t.Fatalf("subscribe: status %d", w.Code)
	}

	var resp ListSubscriptionsResponse
	w := env.do(t, http.MethodGet, "/users/subscriptions?recipes_limit=2", alice.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list subscriptions: status %d", w.Code)
	}
	decodeJSON(t, w, &resp)
	if len(resp.Subscriptions) != 1 {
		t.Fatalf("expected one followed author: %+v", resp)
	}
	s := resp.Subscriptions[0]
	if len(s.Recipes) != 2 {
		t.Fatalf("preview should truncate to 2: %d", len(s.Recipes))
	}
	if s.RecipesCount != 3 {
		t.Fatalf("count must stay untruncated: %d", s.RecipesCount)
	}

	// Anonymous access is rejected by the auth group.
	if w := env.do(t, http.MethodGet, "/users/subscriptions", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: status %d", w.Code)
	}
}
