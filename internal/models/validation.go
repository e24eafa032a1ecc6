package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateProductRequest is the body accepted by the product write handler
type CreateProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Count       int     `json:"count" validate:"gte=0"`
}

// FieldError reports the first offending field of a request
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindInteger
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	default:
		return "integer"
	}
}

// createProductFields lists the required fields in the order they are checked
var createProductFields = []struct {
	name string
	kind fieldKind
}{
	{"title", kindString},
	{"description", kindString},
	{"price", kindNumber},
	{"count", kindInteger},
}

var requestValidator = validator.New()

// ParseCreateProductRequest decodes and validates a product creation body.
// Any field problem is returned as a *FieldError naming the first offending field.
func ParseCreateProductRequest(body []byte) (*CreateProductRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FieldError{Field: "body", Message: "Invalid request body: " + err.Error()}
	}

	for _, field := range createProductFields {
		value, ok := raw[field.name]
		if !ok {
			return nil, &FieldError{Field: field.name, Message: "Missing required field: " + field.name}
		}
		if !matchesKind(value, field.kind) {
			return nil, &FieldError{
				Field:   field.name,
				Message: fmt.Sprintf("Field '%s' must be of type %s", field.name, field.kind),
			}
		}
	}

	var req CreateProductRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &FieldError{Field: "body", Message: "Invalid request body: " + err.Error()}
	}

	if err := requestValidator.Struct(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return nil, fieldErrorFor(validationErrors[0])
		}
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &req, nil
}

func matchesKind(value json.RawMessage, kind fieldKind) bool {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return false
	}

	switch kind {
	case kindString:
		return trimmed[0] == '"'
	case kindNumber, kindInteger:
		decoder := json.NewDecoder(bytes.NewReader(trimmed))
		decoder.UseNumber()
		var number json.Number
		if err := decoder.Decode(&number); err != nil {
			return false
		}
		if trimmed[0] == '"' {
			// json.Number accepts quoted numbers; the API does not
			return false
		}
		if kind == kindInteger {
			_, err := number.Int64()
			return err == nil
		}
		_, err := number.Float64()
		return err == nil
	}
	return false
}

func fieldErrorFor(fe validator.FieldError) *FieldError {
	field := strings.ToLower(fe.Field())
	switch field {
	case "price":
		return &FieldError{Field: field, Message: "Price must be a non-negative number"}
	case "count":
		return &FieldError{Field: field, Message: "Stock count cannot be negative"}
	default:
		return &FieldError{Field: field, Message: fmt.Sprintf("Field '%s' is invalid", field)}
	}
}
