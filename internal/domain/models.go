// Package domain defines the persistence models for users, recipes,
// ingredients, tags, and the per-user relation rows (favorites, cart
// entries, subscriptions). These types are mapped with GORM and form the
// core data layer of the recipe-sharing application.
//
// All rows use UUID string primary keys (char(36)). Deletions are hard
// deletes: a recipe exclusively owns its ingredient lines (cascade), and
// removing a user cascades to their recipes, favorites, cart entries, and
// subscriptions.
package domain

import "time"

// User is a registered account, created and managed by the external
// identity provider. The core consumes users read-only.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: login key, unique.
//   - Username: public handle, unique.
//   - FirstName / LastName: display name parts.
type User struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Email     string    `json:"email"      gorm:"type:varchar(254);not null;uniqueIndex"`
	Username  string    `json:"username"   gorm:"type:varchar(150);not null;uniqueIndex"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName  string    `json:"last_name"  gorm:"type:varchar(150)"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Tag is admin-managed reference data used to categorize recipes.
// Identity is the slug; the hex color is unique across tags.
type Tag struct {
	ID        string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"  gorm:"type:varchar(200);not null"`
	Color     string    `json:"color" gorm:"type:char(7);not null;uniqueIndex;default:'#0055ff'"`
	Slug      string    `json:"slug"  gorm:"type:varchar(200);not null;uniqueIndex"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// Ingredient is immutable reference data. The (name, measurement_unit)
// pair is unique: "sugar, g" and "sugar, tbsp" are distinct ingredients.
type Ingredient struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	Name            string    `json:"name"             gorm:"type:varchar(200);not null;uniqueIndex:ux_ingredient_name_unit,priority:1;index"`
	MeasurementUnit string    `json:"measurement_unit" gorm:"type:varchar(200);not null;uniqueIndex:ux_ingredient_name_unit,priority:2"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// TableName returns the database table name for Ingredient.
func (Ingredient) TableName() string { return "ingredients" }

// Recipe is the central aggregate: a published dish owned by exactly one
// author, holding a set of tags (many-to-many, no duplicates) and a set of
// ingredient lines (one per distinct ingredient, with an amount).
//
// Fields:
//   - AuthorID: owning user; deleting the user cascades to their recipes.
//   - Name / Text: required, non-blank (enforced by the composition engine).
//   - Image: URL reference to the stored recipe image.
//   - CookingTime: minutes, 1..500 inclusive.
//   - CreatedAt: publication timestamp, set once on insert and never updated.
type Recipe struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	AuthorID    string    `json:"author_id"    gorm:"type:char(36);not null;index:idx_author_recipes"`
	Name        string    `json:"name"         gorm:"type:varchar(200);not null"`
	Image       string    `json:"image"        gorm:"type:varchar(255)"`
	Text        string    `json:"text"         gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:cooking_time BETWEEN 1 AND 500"`
	CreatedAt   time.Time `json:"pub_date"     gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `json:"-"`

	// Author is the owning user (non-owning back-reference).
	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// Tags are shared reference data attached via the recipe_tags join table.
	Tags []Tag `json:"-" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	// Ingredients are the recipe's owned (ingredient, amount) lines.
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// RecipeIngredient associates one recipe with one ingredient plus a positive
// integer amount. A recipe may reference a given ingredient at most once
// (enforced by the composite unique index).
type RecipeIngredient struct {
	ID           string `json:"id"            gorm:"type:char(36);primaryKey"`
	RecipeID     string `json:"recipe_id"     gorm:"type:char(36);not null;uniqueIndex:ux_recipe_ingredient,priority:1"`
	IngredientID string `json:"ingredient_id" gorm:"type:char(36);not null;uniqueIndex:ux_recipe_ingredient,priority:2;index"`
	Amount       int    `json:"amount"        gorm:"not null;check:amount >= 1"`

	// Recipe owns its lines; they are cascade-deleted with the recipe.
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// Ingredient is weakly referenced; deleting an ingredient cascades to
	// dependent lines rather than orphaning them.
	Ingredient Ingredient `json:"-" gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for RecipeIngredient.
func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// Subscription is a (subscriber, author) follow record, unique per pair.
// Self-subscription is rejected by the subscription engine at write time,
// not by a DB constraint.
type Subscription struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	SubscriberID string    `json:"subscriber_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_subscriber_author,priority:1"`
	AuthorID     string    `json:"author_id"     gorm:"type:char(36);not null;index;uniqueIndex:ux_subscriber_author,priority:2"`
	CreatedAt    time.Time `json:"-"`

	Subscriber User `json:"-" gorm:"foreignKey:SubscriberID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author     User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "subscriptions" }

// Favorite is a (user, recipe) bookmark record, unique per pair.
type Favorite struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"   gorm:"type:char(36);not null;index;uniqueIndex:ux_favorite_user_recipe,priority:1"`
	RecipeID  string    `json:"recipe_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_favorite_user_recipe,priority:2"`
	CreatedAt time.Time `json:"-"`

	User   User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Favorite.
func (Favorite) TableName() string { return "favorites" }

// CartEntry is a (user, recipe) record meaning "include this recipe's
// ingredients in my shopping list". Unique per pair.
type CartEntry struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"   gorm:"type:char(36);not null;index;uniqueIndex:ux_cart_user_recipe,priority:1"`
	RecipeID  string    `json:"recipe_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_cart_user_recipe,priority:2"`
	CreatedAt time.Time `json:"-"`

	User   User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CartEntry.
func (CartEntry) TableName() string { return "cart_entries" }
