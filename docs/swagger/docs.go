// Package swagger holds the OpenAPI document of the HTTP API.
//
// Regenerate with: swag init -g cmd/start.go -o docs/swagger
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
    "paths": {
        "/api/railjets": {
            "get": {
                "description": "Full records of the trains positioned by the ÖBB feed only.",
                "produces": ["application/json"],
                "tags": ["roster"],
                "summary": "Railjet roster",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.FullDocument"}}
                }
            }
        },
        "/api/status": {
            "get": {
                "description": "Per-feed poll status, snapshot size and publish time.",
                "produces": ["application/json"],
                "tags": ["roster"],
                "summary": "Service status",
                "parameters": [
                    {"type": "string", "description": "API key", "name": "X-API-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/roster.Status"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/timetables": {
            "get": {
                "description": "Every tracked train with schedule, in the vehicle-position document shape.",
                "produces": ["application/json"],
                "tags": ["roster"],
                "summary": "Full roster",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.FullDocument"}}
                }
            },
            "post": {
                "description": "Full record of one train by trip short name.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["roster"],
                "summary": "Find train",
                "parameters": [
                    {"description": "Train selector", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/roster.FindRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.TripRecord"}},
                    "400": {"description": "Missing tripShortName", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Train not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/timetables/{tripShortName}": {
            "get": {
                "description": "Full record of one train by trip short name.",
                "produces": ["application/json"],
                "tags": ["roster"],
                "summary": "Get train",
                "parameters": [
                    {"type": "string", "description": "Trip short name (e.g. '63 railjet xpress')", "name": "tripShortName", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.TripRecord"}},
                    "404": {"description": "Train not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/trains": {
            "get": {
                "description": "Flattened positions for the live map.",
                "produces": ["application/json"],
                "tags": ["roster"],
                "summary": "Light roster",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reconcile.LightDocument"}}
                }
            }
        },
        "/integrity": {
            "get": {
                "description": "Runs the mirror, storage and archive checks.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Integrity report",
                "parameters": [
                    {"type": "string", "description": "API key", "name": "X-API-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/integrity.Report"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity/archive": {
            "get": {
                "description": "Compares the trip archive table with its model.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Archive check",
                "parameters": [
                    {"type": "string", "description": "API key", "name": "X-API-Key", "in": "header"},
                    {"type": "boolean", "description": "Migrate the table", "name": "fix", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checks.SchemaReport"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Check disabled", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Check failed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity/mirror": {
            "get": {
                "description": "Checks that the mirror files exist and are fresh.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Mirror check",
                "parameters": [
                    {"type": "string", "description": "API key", "name": "X-API-Key", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checks.MirrorReport"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Check disabled", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Check failed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity/storage": {
            "get": {
                "description": "Checks that the bucket holds both roster documents.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Storage check",
                "parameters": [
                    {"type": "string", "description": "API key", "name": "X-API-Key", "in": "header"},
                    {"type": "boolean", "description": "Create the bucket if missing", "name": "fix", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/checks.StorageReport"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Check disabled", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Check failed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "checks.FileReport": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "present": {"type": "boolean"},
                "modified_at": {"type": "string"},
                "stale": {"type": "boolean"}
            }
        },
        "checks.MirrorReport": {
            "type": "object",
            "properties": {
                "dir": {"type": "string"},
                "status": {"type": "string"},
                "files": {"type": "array", "items": {"$ref": "#/definitions/checks.FileReport"}}
            }
        },
        "checks.SchemaReport": {
            "type": "object",
            "properties": {
                "table": {"type": "string"},
                "status": {"type": "string"},
                "missing_columns": {"type": "array", "items": {"type": "string"}},
                "type_mismatches": {"type": "array", "items": {"type": "string"}},
                "error": {"type": "string"}
            }
        },
        "checks.StorageReport": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "status": {"type": "string"},
                "missing": {"type": "array", "items": {"type": "string"}}
            }
        },
        "integrity.Report": {
            "type": "object",
            "properties": {
                "healthy": {"type": "boolean"},
                "mirror": {"$ref": "#/definitions/checks.MirrorReport"},
                "storage": {"$ref": "#/definitions/checks.StorageReport"},
                "archive": {"$ref": "#/definitions/checks.SchemaReport"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "reconcile.NextStop": {
            "type": "object",
            "properties": {"arrivalDelay": {"type": "integer"}}
        },
        "reconcile.LightRecord": {
            "type": "object",
            "properties": {
                "vehicleId": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "heading": {"type": "number"},
                "speed": {"type": "number"},
                "lastUpdated": {"type": "integer"},
                "nextStop": {"$ref": "#/definitions/reconcile.NextStop"},
                "tripShortName": {"type": "string"},
                "tripHeadsign": {"type": "string"},
                "routeShortName": {"type": "string"}
            }
        },
        "reconcile.LightDocument": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/reconcile.LightRecord"}}
            }
        },
        "reconcile.TripRecord": {
            "type": "object",
            "properties": {
                "vehicleId": {"type": "string"},
                "source": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "heading": {"type": "number"},
                "speed": {"type": "number"},
                "lastUpdated": {"type": "integer"},
                "nextStop": {"$ref": "#/definitions/reconcile.NextStop"},
                "status": {"type": "string"},
                "trip": {"type": "object"}
            }
        },
        "reconcile.FullDocument": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {
                        "vehiclePositions": {"type": "array", "items": {"$ref": "#/definitions/reconcile.TripRecord"}}
                    }
                }
            }
        },
        "roster.FindRequest": {
            "type": "object",
            "properties": {"tripShortName": {"type": "string"}}
        },
        "roster.Status": {
            "type": "object",
            "properties": {
                "trips": {"type": "integer"},
                "seq": {"type": "integer"},
                "publishedAt": {"type": "string"},
                "feeds": {"type": "array", "items": {"type": "object"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vonatinfo API",
	Description:      "Reconciled live positions of trains in Hungary.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
