package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

func TestShoppingBuild_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingListService(db)
	seedUser(t, db, "u1", "alice")

	if _, err := svc.Build(context.Background(), "u1"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestShoppingBuild_AggregatesAndOrders(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingListService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "u1", "alice")
	flour := seedIngredient(t, db, "flour", "g")
	eggs := seedIngredient(t, db, "eggs", "pcs")
	apples := seedIngredient(t, db, "Äpfel", "pcs")

	pancakes, _ := repo.CreateRecipe(ctx, db, alice.ID, "Pancakes", "t", "", 20)
	if err := repo.ReplaceIngredientLines(ctx, db, pancakes.ID, []domain.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 200},
		{IngredientID: eggs.ID, Amount: 2},
	}); err != nil {
		t.Fatalf("lines pancakes: %v", err)
	}

	pie, _ := repo.CreateRecipe(ctx, db, alice.ID, "Pie", "t", "", 60)
	if err := repo.ReplaceIngredientLines(ctx, db, pie.ID, []domain.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 300},
		{IngredientID: apples.ID, Amount: 4},
	}); err != nil {
		t.Fatalf("lines pie: %v", err)
	}

	for _, rid := range []string{pancakes.ID, pie.ID} {
		if err := repo.CreateCartEntry(ctx, db, alice.ID, rid); err != nil {
			t.Fatalf("cart %s: %v", rid, err)
		}
	}

	lines, err := svc.Build(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %+v", lines)
	}

	// Collated order: the umlaut sorts with plain A, ahead of e and f.
	if lines[0].Name != "Äpfel" || lines[1].Name != "eggs" || lines[2].Name != "flour" {
		t.Fatalf("collation order wrong: %q %q %q", lines[0].Name, lines[1].Name, lines[2].Name)
	}
	if lines[2].TotalAmount != 500 {
		t.Fatalf("flour should sum to 500, got %d", lines[2].TotalAmount)
	}
}

func TestShoppingRender_ExactPayload(t *testing.T) {
	svc := NewShoppingListService(nil)
	out := svc.Render([]repo.ShoppingLine{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 3},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 500},
	})
	want := "Shopping list:\neggs (pcs) - 3\nflour (g) - 500\n"
	if string(out) != want {
		t.Fatalf("payload mismatch:\n got %q\nwant %q", out, want)
	}
}

func TestShoppingRender_HeaderOnly(t *testing.T) {
	svc := NewShoppingListService(nil)
	if got := string(svc.Render(nil)); got != "Shopping list:\n" {
		t.Fatalf("empty render = %q", got)
	}
}
