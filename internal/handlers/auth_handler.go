package handlers

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"plant-shop-api/internal/services"
)

// PolicyVersion is the IAM policy language version of authorizer responses
const PolicyVersion = "2012-10-17"

// AuthHandler turns authorizer decisions into API Gateway policies
type AuthHandler struct {
	authorizer services.Authorizer
}

// NewAuthHandler creates a new authorizer handler
func NewAuthHandler(authorizer services.Authorizer) *AuthHandler {
	return &AuthHandler{authorizer: authorizer}
}

// HandleAuthorize answers a TOKEN authorizer event. It never returns an error:
// unusable credentials produce a Deny policy.
func (h *AuthHandler) HandleAuthorize(ctx context.Context, event events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	policy := h.authorizer.Authorize(ctx, event.AuthorizationToken, event.MethodArn)
	return PolicyResponse(policy), nil
}

// PolicyResponse renders a policy as an authorizer response document
func PolicyResponse(policy *services.Policy) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: policy.PrincipalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: PolicyVersion,
			Statement: []events.IAMPolicyStatement{{
				Action:   []string{"execute-api:Invoke"},
				Effect:   string(policy.Effect),
				Resource: []string{policy.Resource},
			}},
		},
	}
}
