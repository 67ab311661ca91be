// Package docs registers the OpenAPI description of the overlay service
// with swag so the Swagger UI can serve it.
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
        "/v1/overlay": {
            "get": {
                "produces": ["application/json"],
                "tags": ["overlay"],
                "summary": "Build the event overlay of a viewport",
                "parameters": [
                    {"type": "number", "description": "Western longitude", "name": "west", "in": "query", "required": true},
                    {"type": "number", "description": "Eastern longitude", "name": "east", "in": "query", "required": true},
                    {"type": "number", "description": "Northern latitude", "name": "north", "in": "query", "required": true},
                    {"type": "number", "description": "Southern latitude", "name": "south", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum number of events (1-50)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "json (default) or geojson", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.overlayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/overlay/build": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["overlay"],
                "summary": "Build an overlay from event records",
                "parameters": [
                    {"type": "string", "description": "json (default) or geojson", "name": "format", "in": "query"},
                    {"description": "GriCal event records", "name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "object"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.overlayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/skips": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["audit"],
                "summary": "List skipped event records",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of entries (1-500, default 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.skipListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "domain.MarkerSet": {
            "type": "object",
            "properties": {"default": {"type": "string"}, "individual": {"type": "string"}}
        },
        "handler.markerItemResponse": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "label": {"type": "string"},
                "tags": {"type": "string"}
            }
        },
        "handler.skippedResponse": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "reason": {"type": "string", "enum": ["malformed_record", "missing_field", "invalid_coordinate_shape", "invalid_coordinate_value"]},
                "detail": {"type": "string"},
                "missing": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.overlayResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "markers": {"$ref": "#/definitions/domain.MarkerSet"},
                "created_at": {"type": "string"},
                "count": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/handler.markerItemResponse"}},
                "skipped": {"type": "array", "items": {"$ref": "#/definitions/handler.skippedResponse"}},
                "cached": {"type": "boolean"}
            }
        },
        "handler.skipAuditResponse": {
            "type": "object",
            "properties": {
                "overlay_id": {"type": "string"},
                "source": {"type": "string"},
                "index": {"type": "integer"},
                "reason": {"type": "string"},
                "detail": {"type": "string"},
                "missing": {"type": "array", "items": {"type": "string"}},
                "record": {"type": "string"},
                "recorded_at": {"type": "string"}
            }
        },
        "handler.skipListResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/handler.skipAuditResponse"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GriCal overlay service",
	Description:      "Turns GriCal event listings into map overlays.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
