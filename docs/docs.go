// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/cart": {
            "get": {"tags": ["Cart"], "summary": "Get the session cart", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Cart"], "summary": "Clear the session cart", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/cart/count": {
            "get": {"tags": ["Cart"], "summary": "Count items in the cart", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/cart/items": {
            "post": {"tags": ["Cart"], "summary": "Add an item", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/cart/items/{productId}": {
            "patch": {"tags": ["Cart"], "summary": "Update an item quantity", "parameters": [{"name": "productId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Cart"], "summary": "Remove an item", "parameters": [{"name": "productId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/cart/events": {
            "get": {"tags": ["Cart"], "summary": "Stream cart changes", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/products": {
            "get": {"tags": ["Catalog"], "summary": "List products", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/products/{id}": {
            "get": {"tags": ["Catalog"], "summary": "Get a product", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/admin/products/{id}": {
            "put": {"tags": ["Admin"], "summary": "Create or replace a product", "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}},
            "delete": {"tags": ["Admin"], "summary": "Delete a product", "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/admin/audit": {
            "get": {"tags": ["Admin"], "summary": "List audit entries", "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/checkout": {
            "post": {"tags": ["Checkout"], "summary": "Place an order from the cart", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "422": {"description": "Unprocessable Entity"}, "503": {"description": "Service Unavailable"}}}
        },
        "/healthz": {
            "get": {"tags": ["Health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/readyz": {
            "get": {"tags": ["Health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cart Service API",
	Description:      "Session carts, product catalog and checkout.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
