// Package docs holds the Swagger document served at /swagger/. Keep it in
// step with the swag annotations on the api handlers.
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
        "/generate": {
            "post": {
                "description": "Renders the examiner prompt for the question, calls the model and returns the extracted sections. Without a band, answers for bands 5 to 7 are returned together with the full reply.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Generation"],
                "summary": "Generate sample answers",
                "parameters": [
                    {
                        "description": "Question to answer",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.GenerateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GenerateResponse"}},
                    "400": {"description": "invalid part, band or question", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "429": {"description": "daily limit reached", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "504": {"description": "model did not answer in time", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/generate-embedding": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Generation"],
                "summary": "Embed text",
                "parameters": [
                    {
                        "description": "Text to embed",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.EmbeddingRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.EmbeddingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "501": {"description": "provider has no embeddings", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/ping": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StatusResponse"}}
                }
            }
        },
        "/questions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Questions"],
                "summary": "Sample practice questions",
                "parameters": [
                    {"type": "string", "description": "Speaking part (1, 2 or 3)", "name": "part", "in": "query", "required": true},
                    {"type": "integer", "description": "Sample size (default 8, max 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.QuestionListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Questions"],
                "summary": "Add a practice question",
                "parameters": [
                    {
                        "description": "Question to add",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.AddQuestionRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.QuestionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "question already exists", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/questions/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Questions"],
                "summary": "Question bank size",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.QuestionStatsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/questions/{questionID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Questions"],
                "summary": "Get a practice question",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "questionID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.QuestionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Questions"],
                "summary": "Delete a practice question",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "questionID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/usage": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Generation"],
                "summary": "Daily usage",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ratelimit.Usage"}}
                }
            }
        }
    },
    "definitions": {
        "api.AddQuestionRequest": {
            "type": "object",
            "properties": {
                "part": {"type": "string", "example": "1"},
                "text": {"type": "string", "example": "Where is your hometown?"},
                "topic": {"type": "string", "example": "Hometown"}
            }
        },
        "api.EmbeddingRequest": {
            "type": "object",
            "properties": {
                "input": {"type": "string", "example": "scenic"}
            }
        },
        "api.EmbeddingResponse": {
            "type": "object",
            "properties": {
                "embedding": {"type": "array", "items": {"type": "number"}}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "daily limit reached"}
            }
        },
        "api.GenerateRequest": {
            "type": "object",
            "properties": {
                "band": {"type": "string", "example": "6"},
                "part": {"type": "string", "example": "Part 2"},
                "question": {"type": "string", "example": "Describe a memorable trip."},
                "variant": {"type": "string", "example": "single_band"}
            }
        },
        "api.GenerateResponse": {
            "type": "object",
            "additionalProperties": {"type": "string"}
        },
        "api.QuestionListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/api.QuestionResponse"}},
                "part": {"type": "integer", "example": 1},
                "questions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "api.QuestionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "q_3k9x0a1b2c3d4e5f"},
                "part": {"type": "integer", "example": 1},
                "text": {"type": "string", "example": "Where is your hometown?"},
                "topic": {"type": "string", "example": "Hometown"}
            }
        },
        "api.QuestionStatsResponse": {
            "type": "object",
            "properties": {
                "by_part": {"type": "object", "additionalProperties": {"type": "integer"}},
                "total": {"type": "integer", "example": 30}
            }
        },
        "api.StatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "ratelimit.Usage": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "date": {"type": "string"},
                "limit": {"type": "integer"}
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
	Title:            "IELTS Speaking API",
	Description:      "Generates IELTS Speaking sample answers, examiner comments and vocabulary highlights with a language model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
