// Package services – ShoppingListService
//
// This file implements the shopping list aggregator: it collects every
// recipe in a user's cart, joins down to the ingredient lines, and sums
// amounts grouped by (ingredient name, measurement unit). The sum is exact
// integer arithmetic; an ingredient shared by several cart recipes yields
// one line.
//
// Ordering: lines are sorted by ingredient name ascending, then unit
// ascending, using a Unicode collator (und locale) so non-ASCII ingredient
// names order deterministically. Rendering to the downloadable text payload
// is kept separate from aggregation so the two can be tested independently.
package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// ShoppingListService builds the aggregated shopping list for a user.
type ShoppingListService struct {
	// DB is the GORM handle used for the read-only aggregation query.
	DB *gorm.DB
}

// NewShoppingListService constructs a ShoppingListService.
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{DB: db}
}

// Build aggregates userID's cart into ordered shopping lines. It fails
// with ErrEmptyCart when the user has zero cart entries; a cart whose
// recipes somehow have no lines still yields an empty (but non-error)
// list.
func (s *ShoppingListService) Build(ctx context.Context, userID string) ([]repo.ShoppingLine, error) {
	tr := otel.Tracer("services/ShoppingListService")
	ctx, span := tr.Start(ctx, "Build",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	n, err := repo.CountCartEntries(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrEmptyCart
	}

	lines, err := repo.AggregateShoppingList(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	// Collators are not safe for concurrent use; build one per call.
	col := collate.New(language.Und)
	sort.SliceStable(lines, func(i, j int) bool {
		if c := col.CompareString(lines[i].Name, lines[j].Name); c != 0 {
			return c < 0
		}
		return col.CompareString(lines[i].MeasurementUnit, lines[j].MeasurementUnit) < 0
	})
	return lines, nil
}

// Render produces the flat text payload offered as a download: a header
// followed by one "name (unit) - total" line per aggregated ingredient.
func (s *ShoppingListService) Render(lines []repo.ShoppingLine) []byte {
	var buf bytes.Buffer
	buf.WriteString("Shopping list:\n")
	for _, l := range lines {
		fmt.Fprintf(&buf, "%s (%s) - %d\n", l.Name, l.MeasurementUnit, l.TotalAmount)
	}
	return buf.Bytes()
}
