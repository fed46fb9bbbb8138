// Package docs registers the OpenAPI document served by the Swagger UI
// route. Regenerate with `swag init -g cmd/server/main.go` after changing
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/recipes": {
            "get": {"tags": ["Recipes"], "summary": "List recipes (paginated)"},
            "post": {"tags": ["Recipes"], "summary": "Publish a new recipe"}
        },
        "/recipes/{id}": {
            "get": {"tags": ["Recipes"], "summary": "Get one recipe"},
            "patch": {"tags": ["Recipes"], "summary": "Update a recipe"},
            "delete": {"tags": ["Recipes"], "summary": "Delete a recipe"}
        },
        "/recipes/{id}/favorite": {
            "post": {"tags": ["Favorites"], "summary": "Favorite a recipe"},
            "delete": {"tags": ["Favorites"], "summary": "Unfavorite a recipe"}
        },
        "/recipes/{id}/shopping_cart": {
            "post": {"tags": ["ShoppingCart"], "summary": "Add a recipe to the shopping cart"},
            "delete": {"tags": ["ShoppingCart"], "summary": "Remove a recipe from the shopping cart"}
        },
        "/recipes/download_shopping_cart": {
            "get": {"tags": ["ShoppingCart"], "summary": "Download the aggregated shopping list"}
        },
        "/tags": {
            "get": {"tags": ["Reference"], "summary": "List all tags"}
        },
        "/tags/{id}": {
            "get": {"tags": ["Reference"], "summary": "Get one tag"}
        },
        "/ingredients": {
            "get": {"tags": ["Reference"], "summary": "Search ingredients"}
        },
        "/ingredients/{id}": {
            "get": {"tags": ["Reference"], "summary": "Get one ingredient"}
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List users (paginated)"}
        },
        "/users/{id}": {
            "get": {"tags": ["Users"], "summary": "Get one user"}
        },
        "/users/me": {
            "get": {"tags": ["Users"], "summary": "Get the current user's profile"}
        },
        "/users/subscriptions": {
            "get": {"tags": ["Subscriptions"], "summary": "List followed authors (paginated)"}
        },
        "/users/{id}/subscribe": {
            "post": {"tags": ["Subscriptions"], "summary": "Follow an author"},
            "delete": {"tags": ["Subscriptions"], "summary": "Unfollow an author"}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Recipe Backend API",
	Description:      "Recipe sharing backend: recipes, tags, ingredients, favorites, shopping carts, and author subscriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
