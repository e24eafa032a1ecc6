package lambda

import (
	"github.com/aws/aws-lambda-go/events"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// FromProxyRequest converts an API Gateway proxy event into a Request.
// Nil maps are replaced with empty ones so handlers can index them freely.
func FromProxyRequest(event events.APIGatewayProxyRequest) *Request {
	req := &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        []byte(event.Body),
		PathParams:  event.PathParameters,
	}
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	if req.QueryParams == nil {
		req.QueryParams = map[string]string{}
	}
	if req.PathParams == nil {
		req.PathParams = map[string]string{}
	}
	return req
}

// ToProxyResponse converts a Response into an API Gateway proxy response
func (r *Response) ToProxyResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}
