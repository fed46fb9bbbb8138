package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestFavorite_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "u1", "alice")
	r, _ := CreateRecipe(ctx, db, alice.ID, "Soup", "Boil.", "", 30)

	present, err := FavoriteExists(ctx, db, alice.ID, r.ID)
	if err != nil || present {
		t.Fatalf("expected absent favorite: %v %v", present, err)
	}

	if err := CreateFavorite(ctx, db, alice.ID, r.ID); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}
	present, err = FavoriteExists(ctx, db, alice.ID, r.ID)
	if err != nil || !present {
		t.Fatalf("expected present favorite: %v %v", present, err)
	}

	// Duplicate insert trips the composite unique index.
	if err := CreateFavorite(ctx, db, alice.ID, r.ID); err == nil {
		t.Fatalf("expected unique violation on duplicate favorite")
	}

	if err := DeleteFavorite(ctx, db, alice.ID, r.ID); err != nil {
		t.Fatalf("DeleteFavorite: %v", err)
	}
	if err := DeleteFavorite(ctx, db, alice.ID, r.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestFavoritedRecipeIDs_SubsetOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "u1", "alice")
	r1, _ := CreateRecipe(ctx, db, alice.ID, "A", "t", "", 10)
	r2, _ := CreateRecipe(ctx, db, alice.ID, "B", "t", "", 10)
	r3, _ := CreateRecipe(ctx, db, alice.ID, "C", "t", "", 10)

	if err := CreateFavorite(ctx, db, alice.ID, r1.ID); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}
	if err := CreateFavorite(ctx, db, alice.ID, r3.ID); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}

	ids, err := FavoritedRecipeIDs(ctx, db, alice.ID, []string{r1.ID, r2.ID})
	if err != nil {
		t.Fatalf("FavoritedRecipeIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != r1.ID {
		t.Fatalf("expected [r1] only, got %v", ids)
	}
}

func TestCartEntry_LifecycleAndCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "u1", "alice")
	r1, _ := CreateRecipe(ctx, db, alice.ID, "A", "t", "", 10)
	r2, _ := CreateRecipe(ctx, db, alice.ID, "B", "t", "", 10)

	if err := CreateCartEntry(ctx, db, alice.ID, r1.ID); err != nil {
		t.Fatalf("CreateCartEntry: %v", err)
	}
	if err := CreateCartEntry(ctx, db, alice.ID, r2.ID); err != nil {
		t.Fatalf("CreateCartEntry: %v", err)
	}

	n, err := CountCartEntries(ctx, db, alice.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountCartEntries = %d (%v), want 2", n, err)
	}

	if err := DeleteCartEntry(ctx, db, alice.ID, r1.ID); err != nil {
		t.Fatalf("DeleteCartEntry: %v", err)
	}
	if err := DeleteCartEntry(ctx, db, alice.ID, r1.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if n, _ = CountCartEntries(ctx, db, alice.ID); n != 1 {
		t.Fatalf("CountCartEntries after delete = %d, want 1", n)
	}
}

func TestSubscription_LifecycleAndPage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "u1", "alice")
	bob := seedUser(t, db, "u2", "bob")
	carol := seedUser(t, db, "u3", "carol")

	if _, err := CreateSubscription(ctx, db, alice.ID, bob.ID); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if _, err := CreateSubscription(ctx, db, alice.ID, carol.ID); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if _, err := CreateSubscription(ctx, db, alice.ID, bob.ID); err == nil {
		t.Fatalf("expected unique violation on duplicate subscription")
	}

	present, err := SubscriptionExists(ctx, db, alice.ID, bob.ID)
	if err != nil || !present {
		t.Fatalf("SubscriptionExists: %v %v", present, err)
	}

	n, err := CountSubscriptions(ctx, db, alice.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountSubscriptions = %d (%v), want 2", n, err)
	}

	page, err := ListSubscriptionsPage(ctx, db, alice.ID, 0, 10)
	if err != nil {
		t.Fatalf("ListSubscriptionsPage: %v", err)
	}
	if len(page) != 2 || page[0].Author.ID == "" {
		t.Fatalf("expected 2 rows with authors preloaded, got %+v", page)
	}

	ids, err := SubscribedAuthorIDs(ctx, db, alice.ID, []string{bob.ID, "missing"})
	if err != nil || len(ids) != 1 || ids[0] != bob.ID {
		t.Fatalf("SubscribedAuthorIDs: %v %v", ids, err)
	}

	if err := DeleteSubscription(ctx, db, alice.ID, bob.ID); err != nil {
		t.Fatalf("DeleteSubscription: %v", err)
	}
	if err := DeleteSubscription(ctx, db, alice.ID, bob.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
