// Package services defines the business logic for recipes, favorites, the
// shopping cart, and author subscriptions. This file centralizes the
// service-level error values and the field-aware validation error type so
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

// ValidationError describes a user-correctable problem with a named input
// field. Handlers surface Field and Message verbatim so clients can attach
// the error to the offending form field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// AsValidation reports whether err is (or wraps) a *ValidationError and
// returns it when so.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Recipe-related errors.
var (
	// ErrRecipeNotFound indicates that the requested recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrNotRecipeAuthor is returned when a user attempts to modify or
	// delete a recipe they do not own.
	ErrNotRecipeAuthor = errors.New("only the author may modify this recipe")

	// ErrTagNotFound is returned when a recipe references a tag id that
	// does not exist.
	ErrTagNotFound = errors.New("tag not found")

	// ErrIngredientNotFound is returned when an ingredient line references
	// an ingredient id that does not exist.
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// Favorite and cart errors.
var (
	// ErrAlreadyFavorited is returned when a user favorites a recipe twice.
	ErrAlreadyFavorited = errors.New("recipe already in favorites")

	// ErrNotFavorited is returned when removing a favorite that was never
	// created.
	ErrNotFavorited = errors.New("recipe not in favorites")

	// ErrAlreadyInCart is returned when a user adds a recipe to the
	// shopping cart twice.
	ErrAlreadyInCart = errors.New("recipe already in shopping cart")

	// ErrNotInCart is returned when removing a cart entry that was never
	// created.
	ErrNotInCart = errors.New("recipe not in shopping cart")

	// ErrEmptyCart is returned by the shopping list export when the user
	// has no cart entries at all.
	ErrEmptyCart = errors.New("shopping cart is empty")
)

// Subscription errors.
var (
	// ErrSelfSubscription is returned when a user tries to subscribe to
	// themselves.
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")

	// ErrAlreadySubscribed is returned on a duplicate (subscriber, author)
	// pair.
	ErrAlreadySubscribed = errors.New("already subscribed to this author")

	// ErrNotSubscribed is returned when unsubscribing without a prior
	// subscription.
	ErrNotSubscribed = errors.New("not subscribed to this author")

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
