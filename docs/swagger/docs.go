// Package swagger registers the OpenAPI document served at /swagger.
package swagger

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
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/compare": {
            "post": {
                "description": "Compares two CSV, TSV or XLSX uploads (optionally gz, bz2, xz or zst compressed) and classifies every record.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["compare"],
                "summary": "Compare Uploaded Files",
                "parameters": [
                    {"type": "file", "description": "Original dataset", "name": "original", "in": "formData", "required": true},
                    {"type": "file", "description": "Updated dataset", "name": "updated", "in": "formData", "required": true},
                    {"type": "string", "description": "Primary key columns, comma separated", "name": "keys", "in": "formData"},
                    {"type": "boolean", "description": "Detect the primary key when keys is empty", "name": "auto_key", "in": "formData"},
                    {"type": "boolean", "description": "Ignore case", "name": "ignore_case", "in": "formData"},
                    {"type": "boolean", "description": "Ignore surrounding whitespace", "name": "ignore_whitespace", "in": "formData"},
                    {"type": "boolean", "description": "Report reordered rows as moved", "name": "reorder_as_same", "in": "formData"},
                    {"type": "boolean", "description": "Compare numbers and dates by value", "name": "type_aware", "in": "formData"},
                    {"type": "boolean", "description": "Reject duplicate keys", "name": "strict_keys", "in": "formData"},
                    {"type": "string", "description": "Workbook sheet", "name": "sheet", "in": "formData"},
                    {"type": "string", "description": "Save the result as a snapshot with this name", "name": "save", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Comparison result", "schema": {"$ref": "#/definitions/compare.Response"}},
                    "400": {"description": "Invalid input", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/compare/json": {
            "post": {
                "description": "Compares two datasets given as ordered JSON records.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["compare"],
                "summary": "Compare JSON Datasets",
                "parameters": [
                    {"description": "Datasets and options", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/compare.JSONRequest"}}
                ],
                "responses": {
                    "200": {"description": "Comparison result", "schema": {"$ref": "#/definitions/compare.Response"}},
                    "400": {"description": "Invalid input", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/compare/snapshots": {
            "get": {
                "description": "Lists the comparison snapshots stored in the bucket.",
                "produces": ["application/json"],
                "tags": ["snapshots"],
                "summary": "List Snapshots",
                "responses": {
                    "200": {"description": "Snapshots", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/compare/snapshots/{name}": {
            "get": {
                "description": "Returns the stored snapshot bundle, including its viewer state.",
                "produces": ["application/json"],
                "tags": ["snapshots"],
                "summary": "Get Snapshot",
                "parameters": [
                    {"type": "string", "description": "Snapshot name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Snapshot document", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "tags": ["snapshots"],
                "summary": "Delete Snapshot",
                "parameters": [
                    {"type": "string", "description": "Snapshot name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "400": {"description": "Invalid name", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/compare/snapshots/{name}/export": {
            "get": {
                "description": "Renders the rows of a stored snapshot as a CSV or XLSX report.",
                "produces": ["application/octet-stream"],
                "tags": ["snapshots"],
                "summary": "Export Snapshot",
                "parameters": [
                    {"type": "string", "description": "Snapshot name", "name": "name", "in": "path", "required": true},
                    {"type": "string", "default": "csv", "description": "csv or xlsx", "name": "format", "in": "query"},
                    {"type": "string", "default": "changed", "description": "changed, all or unchanged", "name": "rows", "in": "query"},
                    {"type": "boolean", "description": "Override the saved show-moved preference", "name": "show_moved", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Report", "schema": {"type": "file"}},
                    "400": {"description": "Invalid input", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "compare.JSONRequest": {
            "type": "object",
            "properties": {
                "autoDetectKey": {"type": "boolean"},
                "options": {"$ref": "#/definitions/diff.Options"},
                "original": {"$ref": "#/definitions/diff.Dataset"},
                "primaryKeys": {"type": "array", "items": {"type": "string"}},
                "save": {"type": "string"},
                "updated": {"$ref": "#/definitions/diff.Dataset"}
            }
        },
        "compare.Response": {
            "type": "object",
            "properties": {
                "result": {"type": "object", "additionalProperties": true},
                "snapshot": {"type": "string"},
                "summary": {"$ref": "#/definitions/diff.Summary"}
            }
        },
        "diff.Dataset": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "records": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "diff.Options": {
            "type": "object",
            "properties": {
                "ignoreCase": {"type": "boolean"},
                "ignoreWhitespace": {"type": "boolean"},
                "strictKeys": {"type": "boolean"},
                "treatReorderAsSame": {"type": "boolean"},
                "typeAware": {"type": "boolean"}
            }
        },
        "diff.Summary": {
            "type": "object",
            "properties": {
                "added": {"type": "integer"},
                "modified": {"type": "integer"},
                "moved": {"type": "integer"},
                "removed": {"type": "integer"},
                "unchanged": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sheet Diff API",
	Description:      "Compare tabular datasets and manage comparison snapshots.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
