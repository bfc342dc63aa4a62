package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Voice Feedback API",
        "description": "Department feedback portal with AI enrichment and coordinator analytics",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Signup, login and identity"},
        {"name": "Feedback", "description": "Student submissions and detail views"},
        {"name": "Coordinator", "description": "Registration review, department feed, exports"},
        {"name": "Summaries", "description": "AI summaries over selected feedback"},
        {"name": "Analytics", "description": "Department sentiment rollups"},
        {"name": "Reference", "description": "Departments, categories and rating questions"},
        {"name": "Profile", "description": "The caller's own profile"}
    ],
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Enrollment number taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by enrollment number",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Account pending approval"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Reference"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["Reference"],
                "summary": "List categories with rating questions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/profile": {
            "get": {
                "tags": ["Profile"],
                "summary": "Get own profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Profile"],
                "summary": "Update own profile",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "full_name", "in": "formData", "type": "string"},
                    {"name": "department_id", "in": "formData", "type": "integer"},
                    {"name": "batch_start_year", "in": "formData", "type": "integer"},
                    {"name": "photo", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feedback": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit feedback",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "category_id", "in": "formData", "required": true, "type": "integer"},
                    {"name": "input_method", "in": "formData", "required": true, "type": "string", "enum": ["TEXT", "AUDIO"]},
                    {"name": "text_feedback", "in": "formData", "type": "string"},
                    {"name": "is_anonymous", "in": "formData", "type": "boolean"},
                    {"name": "rating1", "in": "formData", "type": "integer"},
                    {"name": "rating2", "in": "formData", "type": "integer"},
                    {"name": "rating3", "in": "formData", "type": "integer"},
                    {"name": "rating4", "in": "formData", "type": "integer"},
                    {"name": "rating5", "in": "formData", "type": "integer"},
                    {"name": "audio", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid submission"}
                }
            },
            "get": {
                "tags": ["Feedback"],
                "summary": "List own feedback",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/feedback/{id}": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Feedback detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"}
                }
            },
            "delete": {
                "tags": ["Feedback"],
                "summary": "Delete own feedback",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/feedback/{id}/audio": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Download audio recording",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Audio stream"},
                    "404": {"description": "No audio on this submission"}
                }
            }
        },
        "/feedback/{id}/revoke-anonymity": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Reveal identity on an anonymous submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Not anonymous"}
                }
            }
        },
        "/coordinator/dashboard": {
            "get": {
                "tags": ["Coordinator"],
                "summary": "Dashboard counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/coordinator/registrations": {
            "get": {
                "tags": ["Coordinator"],
                "summary": "List pending registrations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/coordinator/registrations/{id}/approve": {
            "post": {
                "tags": ["Coordinator"],
                "summary": "Approve a registration",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/coordinator/registrations/{id}/reject": {
            "post": {
                "tags": ["Coordinator"],
                "summary": "Reject a registration",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Already approved"}
                }
            }
        },
        "/coordinator/feedback": {
            "get": {
                "tags": ["Coordinator"],
                "summary": "Department feedback feed",
                "parameters": [
                    {"name": "since", "in": "query", "type": "string"},
                    {"name": "category_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/coordinator/feedback/export": {
            "get": {
                "tags": ["Coordinator"],
                "summary": "Export department feedback",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "since", "in": "query", "type": "string"},
                    {"name": "category_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/coordinator/summaries": {
            "post": {
                "tags": ["Summaries"],
                "summary": "Summarize selected feedback",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SummarizeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Batch contains foreign feedback"},
                    "503": {"description": "AI service not configured"}
                }
            }
        },
        "/coordinator/analytics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Department sentiment analytics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "properties": {
                "enrollment_no": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "department_id": {"type": "integer"},
                "batch_start_year": {"type": "integer"}
            },
            "required": ["enrollment_no", "password", "full_name", "department_id", "batch_start_year"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "enrollment_no": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["enrollment_no", "password"]
        },
        "SummarizeRequest": {
            "type": "object",
            "properties": {
                "feedback_ids": {
                    "type": "array",
                    "items": {"type": "integer"}
                }
            },
            "required": ["feedback_ids"]
        },
        "Feedback": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "student_id": {"type": "string"},
                "category_id": {"type": "integer"},
                "category": {"type": "string"},
                "department_id": {"type": "integer"},
                "rating1": {"type": "integer"},
                "rating2": {"type": "integer"},
                "rating3": {"type": "integer"},
                "rating4": {"type": "integer"},
                "rating5": {"type": "integer"},
                "input_method": {"type": "string"},
                "text_feedback": {"type": "string"},
                "is_anonymous": {"type": "boolean"},
                "anonymity_revoked": {"type": "boolean"},
                "sentiment": {"type": "string"},
                "state": {"type": "string"},
                "created_at": {"type": "string"}
            }
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
