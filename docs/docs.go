// Package docs holds the OpenAPI document served at /swagger. Regenerate with
// `swag init -g cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Health check", "description": "Reports whether drafts can be saved and wizards submitted", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}}, "503": {"description": "A configured dependency is down", "schema": {"$ref": "#/definitions/models.HealthResponse"}}}}
        },
        "/reference/{kind}": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["reference"],
                "summary": "List reference data",
                "parameters": [
                    {"type": "string", "description": "skill, industry, country or language", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Name filter", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/wizards": {
            "get": {"security": [{"Bearer": []}], "tags": ["wizards"], "summary": "List wizards", "responses": {"200": {"description": "OK"}}}
        },
        "/wizards/{wizard}/steps/{step}": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["wizards"],
                "summary": "Enter a wizard step",
                "parameters": [
                    {"type": "string", "name": "wizard", "in": "path", "required": true},
                    {"type": "string", "name": "step", "in": "path", "required": true},
                    {"type": "string", "name": "draft", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/wizards/{wizard}/steps/{step}/continue": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["wizards"],
                "summary": "Continue from a step",
                "parameters": [
                    {"type": "string", "name": "wizard", "in": "path", "required": true},
                    {"type": "string", "name": "step", "in": "path", "required": true},
                    {"type": "string", "name": "draft", "in": "query"},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/wizards/{wizard}/steps/{step}/back": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["wizards"],
                "summary": "Go back from a step",
                "parameters": [
                    {"type": "string", "name": "wizard", "in": "path", "required": true},
                    {"type": "string", "name": "step", "in": "path", "required": true},
                    {"type": "string", "name": "draft", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/wizards/{wizard}/steps/{step}/skip": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["wizards"],
                "summary": "Skip an optional step",
                "parameters": [
                    {"type": "string", "name": "wizard", "in": "path", "required": true},
                    {"type": "string", "name": "step", "in": "path", "required": true},
                    {"type": "string", "name": "draft", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/wizards/{wizard}/draft": {
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["wizards"],
                "summary": "Discard a draft",
                "parameters": [
                    {"type": "string", "name": "wizard", "in": "path", "required": true},
                    {"type": "string", "name": "draft", "in": "query"}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/wizards/{wizard}/submit": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["wizards"],
                "summary": "Submit a wizard",
                "parameters": [
                    {"type": "string", "name": "wizard", "in": "path", "required": true},
                    {"type": "string", "name": "draft", "in": "query"}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/wizards/professional_onboarding/cv-import": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["wizards"],
                "summary": "Import a CV into the onboarding draft",
                "parameters": [
                    {"type": "string", "name": "draft", "in": "query"},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"sourceFileId": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/projects": {
            "get": {"security": [{"Bearer": []}], "tags": ["projects"], "summary": "List projects", "responses": {"200": {"description": "OK"}}}
        },
        "/projects/{project_id}": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["projects"],
                "summary": "Get project",
                "parameters": [{"type": "string", "name": "project_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"Bearer": []}],
                "tags": ["projects"],
                "summary": "Update project",
                "parameters": [
                    {"type": "string", "name": "project_id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/projects/{project_id}/bids": {
            "get": {
                "security": [{"Bearer": []}],
                "tags": ["projects"],
                "summary": "List bids on a project",
                "parameters": [{"type": "string", "name": "project_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/projects/{project_id}/bids/{bid_id}/award": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["projects"],
                "summary": "Award a bid",
                "parameters": [
                    {"type": "string", "name": "project_id", "in": "path", "required": true},
                    {"type": "string", "name": "bid_id", "in": "path", "required": true}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/projects/{project_id}/complete": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["projects"],
                "summary": "Mark a project completed",
                "parameters": [{"type": "string", "name": "project_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/projects/{project_id}/cancel": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["projects"],
                "summary": "Cancel a project",
                "parameters": [{"type": "string", "name": "project_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/uploads/{kind}": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["uploads"],
                "summary": "Upload a file",
                "parameters": [
                    {"type": "string", "name": "kind", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/uploads": {
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["uploads"],
                "summary": "Delete an uploaded file",
                "parameters": [{"type": "string", "name": "url", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/external-gigs/{id}/click": {
            "post": {
                "security": [{"Bearer": []}],
                "tags": ["external-gigs"],
                "summary": "Record a click on an external gig",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"click_source": {"type": "string", "enum": ["listing", "detail"]}}}}
                ],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "draft_store": {"type": "string"},
                "drafts": {"type": "string"},
                "database": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "GigExecs Backend API",
	Description:      "Backend API for the GigExecs marketplace: multi-step wizards with server-side drafts for gig creation and onboarding, project lifecycle, uploads and reference data.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
