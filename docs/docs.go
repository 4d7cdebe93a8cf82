// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/slots": {
            "get": {
                "summary": "List slots",
                "tags": ["slots"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/slotsResponse"}}}
            },
            "post": {
                "summary": "Create a slot (admin)",
                "tags": ["slots"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "slot", "required": true, "schema": {"$ref": "#/definitions/createSlotInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Slot"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Admin role required", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/slots/{id}": {
            "get": {
                "summary": "Get a slot",
                "tags": ["slots"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Slot"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "put": {
                "summary": "Update slot details or capacity (admin)",
                "tags": ["slots"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "slot", "required": true, "schema": {"$ref": "#/definitions/updateSlotInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Slot"}},
                    "409": {"description": "Capacity below booked seats", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "summary": "Delete a slot without booked seats (admin)",
                "tags": ["slots"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Slot has booked seats", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/slots/specialist/{specialistId}": {
            "get": {
                "summary": "List slots of a specialist",
                "tags": ["slots"],
                "parameters": [{"in": "path", "name": "specialistId", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/slotsResponse"}}}
            }
        },
        "/reservations/order": {
            "post": {
                "summary": "Create a payment order for one seat",
                "tags": ["reservations"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "order", "required": true, "schema": {"$ref": "#/definitions/createOrderRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Order"}},
                    "400": {"description": "Slot full or already booked", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Slot not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/reservations/verify": {
            "post": {
                "summary": "Verify a payment and confirm the booking",
                "tags": ["reservations"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payment", "required": true, "schema": {"$ref": "#/definitions/verifyPaymentRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/bookingResponse"}},
                    "400": {"description": "Signature mismatch, or slot full after payment (reconciliation_required)", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Already booked", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Seat could not be released after a failed booking", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/reservations": {
            "get": {
                "summary": "List active bookings of a caller",
                "tags": ["reservations"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "caller", "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/bookingsResponse"}},
                    "403": {"description": "Bookings of another caller", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/reservations/all": {
            "get": {
                "summary": "List all confirmed bookings with slot details (admin)",
                "tags": ["reservations"],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookingsResponse"}}}
            }
        },
        "/reservations/slot/{slotId}": {
            "get": {
                "summary": "List bookings of a slot (admin)",
                "tags": ["reservations"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "slotId", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookingsResponse"}}}
            }
        },
        "/reservations/payments/{paymentId}": {
            "get": {
                "summary": "Find the caller's booking for a payment",
                "tags": ["reservations"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "paymentId", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/bookingResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/reservations/{id}": {
            "delete": {
                "summary": "Cancel a booking",
                "tags": ["reservations"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cancelResponse"}},
                    "403": {"description": "Not the booking owner", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/reservations/{id}/invoice": {
            "get": {
                "summary": "Download the booking invoice",
                "tags": ["reservations"],
                "security": [{"BearerAuth": []}],
                "produces": ["text/plain"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Invoice document"}}
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "order_id": {"type": "string"},
                "payment_id": {"type": "string"},
                "slot_id": {"type": "string"}
            }
        },
        "Slot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "specialist_id": {"type": "string"},
                "specialist_name": {"type": "string"},
                "subject": {"type": "string"},
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "capacity": {"type": "integer"},
                "available_seats": {"type": "integer"},
                "booked_by": {"type": "array", "items": {"type": "string"}},
                "price_minor": {"type": "integer"},
                "description": {"type": "string"},
                "created_by": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "slotsResponse": {
            "type": "object",
            "properties": {"slots": {"type": "array", "items": {"$ref": "#/definitions/Slot"}}}
        },
        "createSlotInput": {
            "type": "object",
            "properties": {
                "specialist_id": {"type": "string"},
                "specialist_name": {"type": "string"},
                "subject": {"type": "string"},
                "date": {"type": "string", "example": "2026-03-10"},
                "start_time": {"type": "string", "example": "10:00"},
                "end_time": {"type": "string", "example": "11:00"},
                "capacity": {"type": "integer"},
                "price_minor": {"type": "integer"},
                "description": {"type": "string"}
            }
        },
        "updateSlotInput": {
            "type": "object",
            "properties": {
                "specialist_name": {"type": "string"},
                "subject": {"type": "string"},
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "description": {"type": "string"},
                "price_minor": {"type": "integer"},
                "capacity": {"type": "integer"}
            }
        },
        "Order": {
            "type": "object",
            "properties": {
                "order_id": {"type": "string"},
                "amount": {"type": "integer"},
                "currency": {"type": "string"},
                "key_id": {"type": "string"}
            }
        },
        "createOrderRequest": {
            "type": "object",
            "required": ["slot_id"],
            "properties": {"slot_id": {"type": "string"}}
        },
        "verifyPaymentRequest": {
            "type": "object",
            "required": ["slot_id", "order_id", "payment_id", "signature"],
            "properties": {
                "slot_id": {"type": "string"},
                "order_id": {"type": "string"},
                "payment_id": {"type": "string"},
                "signature": {"type": "string"}
            }
        },
        "Booking": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "caller_id": {"type": "string"},
                "caller_name": {"type": "string"},
                "caller_email": {"type": "string"},
                "slot_id": {"type": "string"},
                "specialist_id": {"type": "string"},
                "specialist_name": {"type": "string"},
                "subject": {"type": "string"},
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "status": {"type": "string", "enum": ["confirmed", "cancelled"]},
                "payment_id": {"type": "string"},
                "amount_paid": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"},
                "slot": {"$ref": "#/definitions/Slot"}
            }
        },
        "bookingResponse": {
            "type": "object",
            "properties": {
                "booking": {"$ref": "#/definitions/Booking"}
            }
        },
        "cancelResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "booking": {"$ref": "#/definitions/Booking"},
                "already_cancelled": {"type": "boolean"}
            }
        },
        "bookingsResponse": {
            "type": "object",
            "properties": {"bookings": {"type": "array", "items": {"$ref": "#/definitions/Booking"}}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Slot Booking API",
	Description:      "Paid seat reservations on specialist time slots.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
