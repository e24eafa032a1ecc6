package services

import (
	"context"

	"plant-shop-api/internal/models"
)

// Effect is the outcome of an authorization decision
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// AnonymousPrincipal is the principal of every denied request
const AnonymousPrincipal = "anonymous"

// Policy is the decision for a single invocation
type Policy struct {
	PrincipalID string
	Effect      Effect
	Resource    string
}

// Allowed reports whether the policy grants access
func (p *Policy) Allowed() bool {
	return p != nil && p.Effect == EffectAllow
}

// Authorizer checks Basic credentials against the configured users.
// It never fails: malformed or unknown credentials produce a Deny policy.
type Authorizer interface {
	Authorize(ctx context.Context, token, resource string) *Policy
}

// ImportService issues upload URLs and turns uploaded CSV files into queue messages
type ImportService interface {
	// CreateUploadURL returns a presigned PUT URL for uploaded/<fileName>
	CreateUploadURL(ctx context.Context, fileName string) (string, error)

	// ProcessUploadedObject forwards each row of the object to the queue and
	// relocates the object to the parsed prefix
	ProcessUploadedObject(ctx context.Context, key string) (*ImportResult, error)
}

// CatalogService serves catalog reads and single-product creation
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*models.ProductWithStock, error)
	GetProduct(ctx context.Context, id string) (*models.ProductWithStock, error)
	CreateProduct(ctx context.Context, body []byte) (*models.ProductWithStock, error)
}

// BatchProcessor persists queued catalog rows and announces accepted products
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, messages []QueuedMessage) *BatchResult
}

// ImportResult summarizes one processed upload
type ImportResult struct {
	Key         string `json:"key"`
	Destination string `json:"destination"`
	Rows        int    `json:"rows"`
	Deleted     bool   `json:"deleted"`
}

// QueuedMessage is one message of a queue batch
type QueuedMessage struct {
	ID   string
	Body string
}

// BatchResult is the outcome of one batch invocation
type BatchResult struct {
	StatusCode   int
	Message      string
	Accepted     []*models.ProductWithStock
	Skipped      int
	InvalidField string
}
