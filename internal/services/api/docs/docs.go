// Package docs holds the OpenAPI document served by swaggerkit
// regenerate with: swag init --v3.1 -g internal/services/api/api.go -o internal/services/api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/meta/health": {
            "get": {
                "tags": ["meta"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}}}
            }
        },
        "/meta/ready": {
            "get": {
                "tags": ["meta"],
                "summary": "Readiness probe over pg, ch and redis",
                "responses": {"200": {"description": "status is ok, degraded when a backend is not configured, fail when a ping fails"}}
            }
        },
        "/meta/version": {
            "get": {"tags": ["meta"], "summary": "Build version", "responses": {"200": {"description": "OK"}}}
        },
        "/meta/service": {
            "get": {"tags": ["meta"], "summary": "Service name and uptime", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Start a signup and send a verification code",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/SignupInput"}}}},
                "responses": {
                    "201": {"description": "verification pending", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/PendingSignup"}}}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/verify": {
            "post": {
                "tags": ["auth"],
                "summary": "Confirm a signup with its code",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/VerifyInput"}}}},
                "responses": {
                    "200": {"description": "user created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Registered"}}}},
                    "400": {"description": "no pending verification, invalid code or expired code"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for a bearer token",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LoginInput"}}}},
                "responses": {
                    "200": {"description": "session", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Session"}}}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/leads": {
            "post": {
                "tags": ["leads"],
                "summary": "Submit a lead",
                "security": [{"BearerAuth": []}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LeadInput"}}}},
                "responses": {"201": {"description": "scored", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LeadAck"}}}}}
            },
            "get": {
                "tags": ["leads"],
                "summary": "Most recent leads",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "limit", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 500}}],
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/Lead"}}}}}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Current view for the caller's filter",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/View"}}}}}
            },
            "delete": {
                "tags": ["dashboard"],
                "summary": "End the caller's dashboard session",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "ended"}}
            }
        },
        "/dashboard/filters": {
            "put": {
                "tags": ["dashboard"],
                "summary": "Replace the caller's filter",
                "security": [{"BearerAuth": []}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/FilterInput"}}}},
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/View"}}}}}
            },
            "delete": {
                "tags": ["dashboard"],
                "summary": "Reset the caller's filter",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/View"}}}}}
            }
        },
        "/dashboard/query": {
            "post": {
                "tags": ["dashboard"],
                "summary": "One shot view for a filter without touching the session",
                "security": [{"BearerAuth": []}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/FilterInput"}}}},
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/View"}}}}}
            }
        },
        "/dashboard/sources": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Source select options",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"type": "array", "items": {"type": "string"}}}}}}
            }
        }
    },
    "components": {
        "securitySchemes": {
            "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
        },
        "schemas": {
            "Envelope": {
                "type": "object",
                "properties": {
                    "status_code": {"type": "integer"},
                    "status": {"type": "string"},
                    "request_id": {"type": "string"},
                    "data": {}
                }
            },
            "SignupInput": {
                "type": "object",
                "required": ["name", "email", "password"],
                "properties": {
                    "name": {"type": "string", "minLength": 2},
                    "phone": {"type": "string"},
                    "userType": {"type": "string", "example": "Internal"},
                    "email": {"type": "string", "format": "email"},
                    "password": {"type": "string", "minLength": 6, "maxLength": 72}
                }
            },
            "PendingSignup": {
                "type": "object",
                "properties": {
                    "message": {"type": "string", "example": "Verification code sent"},
                    "email": {"type": "string"},
                    "expiresAt": {"type": "string", "format": "date-time"}
                }
            },
            "VerifyInput": {
                "type": "object",
                "required": ["email", "code"],
                "properties": {
                    "email": {"type": "string", "format": "email"},
                    "code": {"type": "string", "maxLength": 12, "example": "123456"}
                }
            },
            "LoginInput": {
                "type": "object",
                "required": ["email", "password"],
                "properties": {
                    "email": {"type": "string", "format": "email"},
                    "password": {"type": "string"}
                }
            },
            "User": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "name": {"type": "string"},
                    "email": {"type": "string"},
                    "phone": {"type": "string"},
                    "userType": {"type": "string"},
                    "createdAt": {"type": "string", "format": "date-time"}
                }
            },
            "Registered": {
                "type": "object",
                "properties": {
                    "message": {"type": "string", "example": "User registered"},
                    "user": {"$ref": "#/components/schemas/User"}
                }
            },
            "Session": {
                "type": "object",
                "properties": {
                    "token": {"type": "string"},
                    "expiresAt": {"type": "string", "format": "date-time"},
                    "user": {"$ref": "#/components/schemas/User"}
                }
            },
            "LeadInput": {
                "type": "object",
                "required": ["name", "email", "pitch"],
                "properties": {
                    "name": {"type": "string", "minLength": 2},
                    "email": {"type": "string", "format": "email"},
                    "company": {"type": "string"},
                    "pitch": {"type": "string", "minLength": 10},
                    "source": {"type": "string", "example": "Website"}
                }
            },
            "LeadAck": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "score": {"type": "integer", "minimum": 40, "maximum": 99},
                    "message": {"type": "string"}
                }
            },
            "Lead": {
                "type": "object",
                "properties": {
                    "id": {"type": "string"},
                    "name": {"type": "string"},
                    "email": {"type": "string"},
                    "company": {"type": "string"},
                    "pitch": {"type": "string"},
                    "source": {"type": "string"},
                    "score": {"type": "number"},
                    "createdAt": {"type": "string", "format": "date-time"}
                }
            },
            "FilterInput": {
                "type": "object",
                "properties": {
                    "from": {"type": "string", "format": "date"},
                    "to": {"type": "string", "format": "date"},
                    "source": {"type": "string", "example": "web"},
                    "minScore": {"type": "number", "minimum": 0, "maximum": 100},
                    "maxScore": {"type": "number", "minimum": 0, "maximum": 100},
                    "q": {"type": "string", "maxLength": 200}
                }
            },
            "FilterState": {
                "type": "object",
                "properties": {
                    "startDate": {"type": "string", "format": "date"},
                    "endDate": {"type": "string", "format": "date"},
                    "source": {"type": "string", "example": "all"},
                    "minScore": {"type": "number"},
                    "maxScore": {"type": "number"},
                    "query": {"type": "string"}
                }
            },
            "View": {
                "type": "object",
                "properties": {
                    "filter": {"$ref": "#/components/schemas/FilterState"},
                    "total": {"type": "integer"},
                    "filtered": {"type": "integer"},
                    "series": {"type": "array", "items": {"type": "object", "properties": {"date": {"type": "string"}, "leads": {"type": "integer"}}}},
                    "tiers": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}, "value": {"type": "integer"}}}},
                    "average": {"type": "integer"},
                    "buckets": {"type": "array", "items": {"type": "object", "properties": {"range": {"type": "string"}, "value": {"type": "integer"}}}},
                    "weekdays": {"type": "array", "items": {"type": "object", "properties": {"day": {"type": "string"}, "leads": {"type": "integer"}}}},
                    "topSources": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}, "value": {"type": "integer", "description": "percent of sourced leads"}}}},
                    "summary": {"type": "object", "properties": {"hotLeads": {"type": "integer"}, "recent": {"type": "integer"}, "average": {"type": "integer"}, "updated": {"type": "string", "example": "Oct 18, 2026"}, "cadence": {"type": "string", "example": "weekly"}}},
                    "sources": {"type": "array", "items": {"type": "string"}},
                    "generatedAt": {"type": "string", "format": "date-time"},
                    "error": {"type": "string"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Title:            "LeadScore API",
	Description:      "Lead capture, placeholder scoring and the lead analytics dashboard.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
