package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Planner API",
        "description": "Schedule conflict engine for school timetables",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Planner", "description": "Conflict detection, alternatives, analysis and expansion"},
        {"name": "Lessons", "description": "Placed lesson management"},
        {"name": "Bookings", "description": "One-off classroom reservations"},
        {"name": "Vacations", "description": "Teacher leave workflow"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/planner/validate-move": {
            "post": {
                "tags": ["Planner"],
                "summary": "Validate a hypothetical lesson move",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateMoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/alternatives": {
            "post": {
                "tags": ["Planner"],
                "summary": "Find ranked conflict-free alternative slots",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AlternativeSlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/analysis": {
            "get": {
                "tags": ["Planner"],
                "summary": "Schedule-wide conflict analysis",
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/expansion": {
            "post": {
                "tags": ["Planner"],
                "summary": "Expand recurring definitions into concrete dates",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExpansionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List lessons",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "groupId", "in": "query", "type": "string"},
                    {"name": "classroomId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Create lesson",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/{id}": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Get lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Lessons"],
                "summary": "Update lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Lessons"],
                "summary": "Delete lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/bookings": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List bookings for a classroom",
                "parameters": [
                    {"name": "classroomId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bookings"],
                "summary": "Book a classroom",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/{id}": {
            "delete": {
                "tags": ["Bookings"],
                "summary": "Cancel booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/vacations": {
            "get": {
                "tags": ["Vacations"],
                "summary": "List a teacher's leave requests",
                "parameters": [
                    {"name": "teacherId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Vacations"],
                "summary": "File a leave request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateVacationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/vacations/{id}/impact": {
            "get": {
                "tags": ["Vacations"],
                "summary": "Preview affected lessons",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/vacations/{id}/status": {
            "patch": {
                "tags": ["Vacations"],
                "summary": "Approve or reject a leave request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VacationDecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Already decided", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ValidateMoveRequest": {
            "type": "object",
            "properties": {
                "lessonId": {"type": "string"},
                "targetDate": {"type": "string"},
                "targetStart": {"type": "string"}
            },
            "required": ["lessonId", "targetDate", "targetStart"]
        },
        "AlternativeSlotsRequest": {
            "type": "object",
            "properties": {
                "lessonId": {"type": "string"},
                "fromDate": {"type": "string"},
                "limit": {"type": "integer"}
            },
            "required": ["lessonId"]
        },
        "ExpansionRequest": {
            "type": "object",
            "properties": {
                "definitions": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ExpansionDefinition"}
                },
                "startDate": {"type": "string"},
                "endDate": {"type": "string"}
            },
            "required": ["definitions", "startDate", "endDate"]
        },
        "ExpansionDefinition": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "dayOfWeek": {"type": "integer"},
                "repeat": {"type": "string", "enum": ["once", "weekly", "biweekly"]},
                "excludedDates": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["id", "dayOfWeek", "repeat"]
        },
        "ConflictItem": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "severity": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "resourceId": {"type": "string"},
                "date": {"type": "string"},
                "start": {"type": "string"},
                "lessonIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateLessonRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "teacherId": {"type": "string"},
                "groupId": {"type": "string"},
                "classroomId": {"type": "string"},
                "subject": {"type": "string"},
                "teacherName": {"type": "string"},
                "groupName": {"type": "string"},
                "classroomName": {"type": "string"}
            },
            "required": ["date", "startTime", "endTime", "teacherId", "groupId", "subject"]
        },
        "UpdateLessonRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "teacherId": {"type": "string"},
                "groupId": {"type": "string"},
                "classroomId": {"type": "string"},
                "subject": {"type": "string"}
            },
            "required": ["date", "startTime", "endTime", "teacherId", "groupId", "subject"]
        },
        "CreateBookingRequest": {
            "type": "object",
            "properties": {
                "classroomId": {"type": "string"},
                "date": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "purpose": {"type": "string"}
            },
            "required": ["classroomId", "date", "startTime", "endTime"]
        },
        "CreateVacationRequest": {
            "type": "object",
            "properties": {
                "teacherId": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "reason": {"type": "string"}
            },
            "required": ["teacherId", "startDate", "endDate"]
        },
        "VacationDecisionRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["APPROVED", "REJECTED"]}
            },
            "required": ["status"]
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
