package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Ders Dagitim API",
        "description": "Lesson distribution core: blocks, placements, validator and solvers",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Lessons, classes, teachers and rooms"},
        {"name": "Assignments", "description": "Class-lesson assignments and teacher rosters"},
        {"name": "Blocks", "description": "Distribution blocks"},
        {"name": "Placement", "description": "Manual placement sessions"},
        {"name": "Constraints", "description": "Availability constraints"},
        {"name": "Validator", "description": "Consistency validation and repair"},
        {"name": "Solver", "description": "Automated placement engines"},
        {"name": "Timetable", "description": "Rendered weekly views"}
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
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create assignment with teacher roster",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Assignments"],
                "summary": "Update assignment roster and hours",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAssignmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Delete assignment and its blocks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/assignments/{id}/blocks/regenerate": {
            "post": {
                "tags": ["Blocks"],
                "summary": "Rebuild blocks from the assignment pattern",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blocks": {
            "get": {
                "tags": ["Blocks"],
                "summary": "List blocks",
                "parameters": [
                    {"name": "unplaced", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blocks/{id}": {
            "get": {
                "tags": ["Blocks"],
                "summary": "Get block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blocks/{id}/room": {
            "put": {
                "tags": ["Blocks"],
                "summary": "Pair a room with one teacher slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PairRoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blocks/{id}/pick": {
            "post": {
                "tags": ["Placement"],
                "summary": "Open a placement session for a block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blocks/{id}/unplace": {
            "post": {
                "tags": ["Placement"],
                "summary": "Remove a block from the grid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/placements/{id}/preview": {
            "post": {
                "tags": ["Placement"],
                "summary": "Check one slot against the session snapshot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/placements/{id}/commit": {
            "post": {
                "tags": ["Placement"],
                "summary": "Commit the session to a slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/placements/{id}": {
            "delete": {
                "tags": ["Placement"],
                "summary": "Cancel a placement session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/constraints/{ownerType}/{id}": {
            "get": {
                "tags": ["Constraints"],
                "summary": "List constraint slots for one owner",
                "parameters": [
                    {"name": "ownerType", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Constraints"],
                "summary": "Set one constraint slot",
                "parameters": [
                    {"name": "ownerType", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetConstraintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/validator/run": {
            "post": {
                "tags": ["Validator"],
                "summary": "Run the validation pipeline",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/validator/reports": {
            "get": {
                "tags": ["Validator"],
                "summary": "List validation reports",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/validator/reports/{id}": {
            "get": {
                "tags": ["Validator"],
                "summary": "Get one validation report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solver/engines": {
            "get": {
                "tags": ["Solver"],
                "summary": "List registered placement engines",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solver/params": {
            "get": {
                "tags": ["Solver"],
                "summary": "Get solver parameters",
                "parameters": [
                    {"name": "engine", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Solver"],
                "summary": "Update solver parameters",
                "parameters": [
                    {"name": "engine", "in": "query", "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSolverParamsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solver/runs": {
            "post": {
                "tags": ["Solver"],
                "summary": "Enqueue an asynchronous placement run",
                "parameters": [
                    {"name": "engine", "in": "query", "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/solver/runs/{id}": {
            "get": {
                "tags": ["Solver"],
                "summary": "Get one solver run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/{ownerType}/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get the weekly grid for one owner",
                "parameters": [
                    {"name": "ownerType", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "DistributionBlock": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "class_lesson_id": {"type": "integer"},
                "duration": {"type": "integer"},
                "day": {"type": "integer"},
                "hour": {"type": "integer"},
                "teacher_ids": {"type": "array", "items": {"type": "integer"}},
                "room_ids": {"type": "array", "items": {"type": "integer"}},
                "locked": {"type": "boolean"},
                "manual": {"type": "boolean"},
                "placement_type": {"type": "string"},
                "gap_score": {"type": "number"},
                "adjacency_score": {"type": "number"},
                "total_score": {"type": "number"},
                "group_id": {"type": "integer"}
            }
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "class_id": {"type": "integer"},
                "lesson_id": {"type": "integer"},
                "total_hours": {"type": "integer"},
                "group_id": {"type": "integer"},
                "teachers": {"type": "array", "items": {"$ref": "#/definitions/TeacherShare"}}
            },
            "required": ["class_id", "lesson_id", "total_hours", "teachers"]
        },
        "UpdateAssignmentRequest": {
            "type": "object",
            "properties": {
                "total_hours": {"type": "integer"},
                "teachers": {"type": "array", "items": {"$ref": "#/definitions/TeacherShare"}}
            },
            "required": ["total_hours"]
        },
        "TeacherShare": {
            "type": "object",
            "properties": {
                "teacher_id": {"type": "integer"},
                "assigned_hours": {"type": "integer"}
            },
            "required": ["teacher_id"]
        },
        "PairRoomRequest": {
            "type": "object",
            "properties": {
                "position": {"type": "integer"},
                "room_id": {"type": "integer"}
            },
            "required": ["position"]
        },
        "SlotRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "hour": {"type": "integer"}
            },
            "required": ["day", "hour"]
        },
        "SetConstraintRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "hour": {"type": "integer"},
                "state": {"type": "string", "enum": ["OPEN", "CLOSED"]}
            },
            "required": ["day", "hour", "state"]
        },
        "UpdateSolverParamsRequest": {
            "type": "object",
            "properties": {
                "time_budget_ms": {"type": "integer"},
                "mode": {"type": "string", "enum": ["CLEAR_ALL", "KEEP_LOCKED", "KEEP_CURRENT"]},
                "gap_penalty": {"type": "integer"},
                "morning_weight": {"type": "integer"},
                "adjacency_reward": {"type": "integer"},
                "min_daily_lessons": {"type": "integer"},
                "balance_penalty": {"type": "integer"}
            },
            "required": ["mode", "gap_penalty"]
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
