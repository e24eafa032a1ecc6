package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ImportRow is one parsed CSV row: column name to raw string value
type ImportRow map[string]string

// Message serializes the row into the flat JSON object sent to the queue
func (r ImportRow) Message() (string, error) {
	body, err := json.Marshal(map[string]string(r))
	if err != nil {
		return "", fmt.Errorf("failed to encode import row: %w", err)
	}
	return string(body), nil
}

// RequiredCatalogFields are the keys every queued catalog message must carry
var RequiredCatalogFields = []string{"id", "title", "description", "price", "count"}

// CatalogMessage is a decoded queue message. Values keep their JSON shape:
// numbers arrive as json.Number and CSV-sourced values as strings.
type CatalogMessage map[string]interface{}

// DecodeCatalogMessage parses a queue message body
func DecodeCatalogMessage(body string) (CatalogMessage, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(body)))
	decoder.UseNumber()

	var message CatalogMessage
	if err := decoder.Decode(&message); err != nil {
		return nil, fmt.Errorf("invalid message body: %w", err)
	}
	if message == nil {
		return nil, fmt.Errorf("invalid message body: expected a JSON object")
	}
	return message, nil
}

// MissingField returns the first required field absent from the message, or ""
func (m CatalogMessage) MissingField() string {
	for _, field := range RequiredCatalogFields {
		if _, ok := m[field]; !ok {
			return field
		}
	}
	return ""
}

// ToProduct converts a complete message into the product+stock pair it describes
func (m CatalogMessage) ToProduct() (*ProductWithStock, error) {
	if field := m.MissingField(); field != "" {
		return nil, fmt.Errorf("%s is missing", field)
	}

	title, ok := m["title"].(string)
	if !ok {
		return nil, fmt.Errorf("title must be a string")
	}
	description, ok := m["description"].(string)
	if !ok {
		return nil, fmt.Errorf("description must be a string")
	}

	price, err := toFloat(m["price"])
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	count, err := toInt(m["count"])
	if err != nil {
		return nil, fmt.Errorf("invalid count: %w", err)
	}

	return &ProductWithStock{
		ID:          fmt.Sprint(m["id"]),
		Title:       title,
		Description: description,
		Price:       price,
		Count:       count,
	}, nil
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case json.Number:
		return v.Float64()
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		return int(n), err
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
