package services

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/sirupsen/logrus"
)

// authorizer implements the Authorizer interface
type authorizer struct {
	credentials map[string]string
	logger      *logrus.Logger
}

// NewAuthorizer creates an authorizer over a username -> password map.
// The map is copied; later changes to it have no effect.
func NewAuthorizer(credentials map[string]string, logger *logrus.Logger) Authorizer {
	if logger == nil {
		logger = logrus.New()
	}
	copied := make(map[string]string, len(credentials))
	for user, password := range credentials {
		copied[user] = password
	}
	return &authorizer{credentials: copied, logger: logger}
}

// Authorize decodes "Basic base64(user SEP password)" and checks it.
// SEP is "=" when the decoded text contains one, otherwise ":".
func (a *authorizer) Authorize(ctx context.Context, token, resource string) *Policy {
	if resource == "" {
		resource = "*"
	}
	log := a.logger.WithField("resource", resource)
	log.Info("Authorization requested")

	username, password, reason := decodeBasicToken(token)
	if reason != "" {
		log.WithField("reason", reason).Warn("Authorization denied")
		return deny(resource)
	}

	log = log.WithField("username", username)

	stored, ok := a.credentials[username]
	if !ok || stored == "" {
		log.WithField("reason", "unknown user").Warn("Authorization denied")
		return deny(resource)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		log.WithField("reason", "password mismatch").Warn("Authorization denied")
		return deny(resource)
	}

	log.Info("Authorization granted")
	return &Policy{PrincipalID: username, Effect: EffectAllow, Resource: resource}
}

func deny(resource string) *Policy {
	return &Policy{PrincipalID: AnonymousPrincipal, Effect: EffectDeny, Resource: resource}
}

// decodeBasicToken returns a non-empty reason when the token cannot be used
func decodeBasicToken(token string) (username, password, reason string) {
	if !strings.HasPrefix(token, "Basic ") {
		return "", "", "missing Basic prefix"
	}

	parts := strings.Split(token, " ")
	if len(parts) != 2 {
		return "", "", "malformed token"
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", "invalid base64"
	}
	text := string(decoded)

	separator := ":"
	if strings.Contains(text, "=") {
		separator = "="
	}

	username, password, found := strings.Cut(text, separator)
	if !found {
		return "", "", "missing separator"
	}
	return username, password, ""
}
