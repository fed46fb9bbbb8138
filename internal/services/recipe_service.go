// Package services – RecipeService
//
// This file implements the RecipeService, the composition engine that owns
// the recipe aggregate. It validates write-model input (required fields,
// cooking time bounds, at least one tag, at least one ingredient line, no
// duplicate ingredients), enforces authorship on mutation, and persists the
// recipe row together with its tag associations and ingredient lines in a
// single transaction so readers never observe a half-written recipe.
//
// Update uses full replacement semantics: the existing tag and ingredient
// sets are cleared and rewritten from the input, never merged.
//
// Observability: the write paths are OpenTelemetry-instrumented; spans
// carry recipe/author identifiers.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// minCookingTime and maxCookingTime bound cooking_time in minutes.
	minCookingTime = 1
	maxCookingTime = 500
)

// IngredientLineInput is one (ingredient, amount) entry of the write model.
type IngredientLineInput struct {
	IngredientID string
	Amount       int
}

// RecipeInput is the validated write model consumed by Create and Update.
// Image carries a URL reference already produced by the image store; an
// empty Image on Update keeps the stored one.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []string
	Ingredients []IngredientLineInput
}

// ListOptions narrows the recipe listing. Viewer-relative criteria
// (FavoritedOnly, InCartOnly) are resolved against the explicit viewer id
// passed to List; they never read ambient request state.
type ListOptions struct {
	AuthorID      string
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
	Page          int
	PageSize      int
}

// RecipeService implements the recipe composition engine.
type RecipeService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewRecipeService constructs a RecipeService.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{DB: db}
}

// validate applies the write-model rules shared by Create and Update.
// It returns a *ValidationError naming the offending field, or the deduped
// tag id set on success (tags are a set; repeated ids collapse silently).
func (s *RecipeService) validate(in RecipeInput) ([]string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if in.CookingTime < minCookingTime || in.CookingTime > maxCookingTime {
		return nil, &ValidationError{Field: "cooking_time", Message: "must be between 1 and 500 minutes"}
	}
	if len(in.TagIDs) == 0 {
		return nil, &ValidationError{Field: "tags", Message: "at least one tag is required"}
	}
	if len(in.Ingredients) == 0 {
		return nil, &ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}

	// Duplicate detection: distinct ingredient ids must match line count.
	seen := make(map[string]struct{}, len(in.Ingredients))
	for _, line := range in.Ingredients {
		if line.Amount < 1 {
			return nil, &ValidationError{Field: "ingredients", Message: "amount must be a positive integer"}
		}
		seen[line.IngredientID] = struct{}{}
	}
	if len(seen) != len(in.Ingredients) {
		return nil, &ValidationError{Field: "ingredients", Message: "ingredients must not repeat"}
	}

	tagSet := make(map[string]struct{}, len(in.TagIDs))
	tagIDs := make([]string, 0, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if _, dup := tagSet[id]; dup {
			continue
		}
		tagSet[id] = struct{}{}
		tagIDs = append(tagIDs, id)
	}
	return tagIDs, nil
}

// Create validates the input and persists a new recipe owned by authorID.
// The recipe row, its tag associations, and its ingredient lines are
// written all-or-nothing in one transaction; any failure leaves no partial
// rows. Returns the persisted recipe fully preloaded.
func (s *RecipeService) Create(ctx context.Context, authorID string, in RecipeInput) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("author.id", authorID)),
	)
	defer span.End()

	tagIDs, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	var recipeID string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := s.resolveTags(ctx, tx, tagIDs)
		if err != nil {
			return err
		}
		if err := s.checkIngredients(ctx, tx, in.Ingredients); err != nil {
			return err
		}

		r, err := repo.CreateRecipe(ctx, tx, authorID, in.Name, in.Text, in.Image, in.CookingTime)
		if err != nil {
			return err
		}
		recipeID = r.ID

		if err := repo.ReplaceTags(ctx, tx, r.ID, tags); err != nil {
			return err
		}
		return repo.ReplaceIngredientLines(ctx, tx, r.ID, toLines(in.Ingredients))
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Update validates the input, verifies authorship, and rewrites the recipe
// in one transaction. Replacement semantics: the previous tag and
// ingredient sets are fully cleared and replaced with the new sets.
// Returns ErrRecipeNotFound or ErrNotRecipeAuthor for the predictable
// failure cases.
func (s *RecipeService) Update(ctx context.Context, recipeID, authorID string, in RecipeInput) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(
			attribute.String("recipe.id", recipeID),
			attribute.String("author.id", authorID),
		),
	)
	defer span.End()

	tagIDs, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireAuthor(ctx, tx, recipeID, authorID); err != nil {
			return err
		}
		tags, err := s.resolveTags(ctx, tx, tagIDs)
		if err != nil {
			return err
		}
		if err := s.checkIngredients(ctx, tx, in.Ingredients); err != nil {
			return err
		}

		if err := repo.UpdateRecipeFields(ctx, tx, recipeID, in.Name, in.Text, in.Image, in.CookingTime); err != nil {
			return err
		}
		if err := repo.ReplaceTags(ctx, tx, recipeID, tags); err != nil {
			return err
		}
		return repo.ReplaceIngredientLines(ctx, tx, recipeID, toLines(in.Ingredients))
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Delete removes a recipe owned by authorID. Ingredient lines, tag
// associations, favorites, and cart entries cascade at the store level.
func (s *RecipeService) Delete(ctx context.Context, recipeID, authorID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireAuthor(ctx, tx, recipeID, authorID); err != nil {
			return err
		}
		return repo.DeleteRecipe(ctx, tx, recipeID)
	})
}

// Get fetches one recipe with author, tags, and ingredient lines preloaded.
func (s *RecipeService) Get(ctx context.Context, recipeID string) (*domain.Recipe, error) {
	r, err := repo.GetRecipe(ctx, s.DB, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// List returns a page of recipes matching opts, newest first, plus the
// total count for pagination metadata.
//
// Anonymous short circuit: when FavoritedOnly or InCartOnly is requested
// and viewerID is empty, the criterion cannot match anything, so an empty
// page is returned without touching the store.
func (s *RecipeService) List(ctx context.Context, viewerID string, opts ListOptions) ([]domain.Recipe, int64, error) {
	if (opts.FavoritedOnly || opts.InCartOnly) && viewerID == "" {
		return []domain.Recipe{}, 0, nil
	}

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	offset := (opts.Page - 1) * opts.PageSize

	f := repo.RecipeFilter{
		AuthorID: opts.AuthorID,
		TagSlugs: opts.TagSlugs,
	}
	if opts.FavoritedOnly {
		f.FavoritedBy = viewerID
	}
	if opts.InCartOnly {
		f.InCartOf = viewerID
	}

	total, err := repo.CountRecipes(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Recipe{}, 0, nil
	}

	items, err := repo.ListRecipes(ctx, s.DB, f, offset, opts.PageSize)
	return items, total, err
}

// requireAuthor loads the recipe head row and verifies ownership.
func (s *RecipeService) requireAuthor(ctx context.Context, tx *gorm.DB, recipeID, authorID string) error {
	var r domain.Recipe
	if err := tx.WithContext(ctx).Select("id", "author_id").Where("id = ?", recipeID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if r.AuthorID != authorID {
		return ErrNotRecipeAuthor
	}
	return nil
}

// resolveTags loads the referenced tags and fails with ErrTagNotFound when
// any id is unknown.
func (s *RecipeService) resolveTags(ctx context.Context, tx *gorm.DB, tagIDs []string) ([]domain.Tag, error) {
	tags, err := repo.GetTagsByID(ctx, tx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

// checkIngredients verifies every referenced ingredient id exists without
// loading the rows.
func (s *RecipeService) checkIngredients(ctx context.Context, tx *gorm.DB, lines []IngredientLineInput) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.IngredientID)
	}
	n, err := repo.CountIngredientsByID(ctx, tx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrIngredientNotFound
	}
	return nil
}

// toLines converts validated input entries into junction rows; ids are
// assigned by the repository at insert time.
func toLines(in []IngredientLineInput) []domain.RecipeIngredient {
	out := make([]domain.RecipeIngredient, 0, len(in))
	for _, l := range in {
		out = append(out, domain.RecipeIngredient{
			IngredientID: l.IngredientID,
			Amount:       l.Amount,
		})
	}
	return out
}
