package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "KidFocus API",
        "description": "Learning session analytics for children",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Parent account management"},
        {"name": "Children", "description": "Child profiles"},
        {"name": "Sessions", "description": "Study session lifecycle"},
        {"name": "Statistics", "description": "Dashboard, analysis and calendar"},
        {"name": "Suggestions", "description": "Rule-based suggestions and AI advice"},
        {"name": "Reports", "description": "PDF learning reports"},
        {"name": "Videos", "description": "Learning video library"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a parent account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Username or email taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a parent account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/profile": {
            "put": {
                "tags": ["Authentication"],
                "summary": "Update account profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh the access token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/account": {
            "delete": {
                "tags": ["Authentication"],
                "summary": "Delete the account and all of its data",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/children": {
            "get": {
                "tags": ["Children"],
                "summary": "List child profiles",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Children"],
                "summary": "Add a child profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChildRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Profile limit reached", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/children/{childId}": {
            "get": {
                "tags": ["Children"],
                "summary": "Fetch one child profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Children"],
                "summary": "Edit a child profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChildRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Children"],
                "summary": "Remove a child profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Removed"}
                }
            }
        },
        "/children/{childId}/dashboard": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Child dashboard",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/children/{childId}/analysis": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Detailed analysis page",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/children/{childId}/calendar": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Study calendar month view",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "month", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/children/{childId}/suggestions": {
            "get": {
                "tags": ["Suggestions"],
                "summary": "Smart suggestions page",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/children/{childId}/suggestions/advice": {
            "post": {
                "tags": ["Suggestions"],
                "summary": "Generate fresh AI advice",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/children/{childId}/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the learning report",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/children/{childId}/sessions": {
            "delete": {
                "tags": ["Sessions"],
                "summary": "Remove the whole history of a child",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/children/{childId}/sessions/export": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Download session history as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "childId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List session history",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "child_id", "in": "query", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Start a study session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Session already in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/active": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Fetch the in-progress session of a child",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "childId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{id}/emotions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Record a detector sample",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmotionSampleRequest"}}
                ],
                "responses": {
                    "204": {"description": "Recorded"}
                }
            }
        },
        "/sessions/{id}/end": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Finish a study session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/videos/{subject}": {
            "get": {
                "tags": ["Videos"],
                "summary": "List videos for a subject",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subject", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/watches": {
            "get": {
                "tags": ["Videos"],
                "summary": "List playbacks recorded during a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sessionId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Videos"],
                "summary": "Record the start of a playback",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartWatchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "email", "password"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "ChildRequest": {
            "type": "object",
            "properties": {
                "nickname": {"type": "string"},
                "gender": {"type": "string", "enum": ["male", "female"]},
                "age": {"type": "integer", "minimum": 6, "maximum": 18},
                "education_stage": {"type": "string", "enum": ["elementary", "middle", "high"]}
            },
            "required": ["nickname", "gender", "age", "education_stage"]
        },
        "StartSessionRequest": {
            "type": "object",
            "properties": {
                "child_id": {"type": "string"},
                "subject": {"type": "string"}
            },
            "required": ["child_id", "subject"]
        },
        "EmotionSampleRequest": {
            "type": "object",
            "properties": {
                "emotion": {"type": "string"},
                "attention_level": {"type": "integer", "minimum": 0, "maximum": 3},
                "confidence": {"type": "number", "minimum": 0, "maximum": 1}
            },
            "required": ["emotion"]
        },
        "StartWatchRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "subject": {"type": "string"},
                "filename": {"type": "string"},
                "display_name": {"type": "string"}
            },
            "required": ["session_id", "subject", "filename"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
