package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"plant-shop-api/internal/services"
	"plant-shop-api/pkg/lambda"
)

// ErrorResponse is the body of a failed product creation or import request
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of catalog reads, failed reads and batch results
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateProductResponse is the body of a successful product creation
type CreateProductResponse struct {
	Message string      `json:"message"`
	Product interface{} `json:"product"`
}

// MessageProductCreated is returned with a newly created product
const MessageProductCreated = "Product and stock created successfully"

// catalogHeaders are sent with every catalog response
func catalogHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":      "*",
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Allow-Methods":     "GET,POST,OPTIONS",
		"Content-Type":                     "application/json",
	}
}

// importHeaders are sent with every upload URL response
func importHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET,OPTIONS",
		"Access-Control-Allow-Headers": "Authorization,Content-Type",
	}
}

// statusFor maps a service error kind to an HTTP status code
func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindValidation, services.KindTransactionCanceled:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// result is a handler outcome shared by the gin and Lambda entry points
type result struct {
	status  int
	headers map[string]string
	body    interface{}
	// text is written as-is instead of JSON-encoding body
	text string
}

func jsonResult(status int, headers map[string]string, body interface{}) *result {
	headers["Content-Type"] = "application/json"
	return &result{status: status, headers: headers, body: body}
}

func textResult(status int, headers map[string]string, text string) *result {
	headers["Content-Type"] = "text/plain; charset=utf-8"
	return &result{status: status, headers: headers, text: text}
}

// toLambda renders the result as a Lambda response
func (r *result) toLambda() *lambda.Response {
	body := []byte(r.text)
	if r.body != nil {
		encoded, err := json.Marshal(r.body)
		if err != nil {
			return &lambda.Response{
				StatusCode: http.StatusInternalServerError,
				Headers:    r.headers,
				Body:       []byte(`{"message":"Internal server error"}`),
			}
		}
		body = encoded
	}
	return &lambda.Response{StatusCode: r.status, Headers: r.headers, Body: body}
}

// write renders the result on a gin context
func (r *result) write(c *gin.Context) {
	for key, value := range r.headers {
		if key == "Content-Type" {
			continue
		}
		c.Header(key, value)
	}
	if r.body != nil {
		c.JSON(r.status, r.body)
		return
	}
	c.String(r.status, r.text)
}
