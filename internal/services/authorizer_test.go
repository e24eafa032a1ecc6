package services

import (
	"context"
	"encoding/base64"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func basic(text string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(text))
}

func TestAuthorizer_Authorize(t *testing.T) {
	credentials := map[string]string{
		"alice":   "TEST_PASSWORD",
		"bob":     "s3cr:et",
		"nopass":  "",
		"CaseKey": "pw",
	}
	auth := NewAuthorizer(credentials, quietLogger())
	const arn = "arn:aws:execute-api:us-east-1:123:api/dev/GET/import"

	tests := []struct {
		name      string
		token     string
		resource  string
		effect    Effect
		principal string
		wantRes   string
	}{
		{"colon separator", basic("alice:TEST_PASSWORD"), arn, EffectAllow, "alice", arn},
		{"equals separator", basic("alice=TEST_PASSWORD"), arn, EffectAllow, "alice", arn},
		{"colon inside password", basic("bob:s3cr:et"), arn, EffectAllow, "bob", arn},
		{"wrong password", basic("alice:nope"), arn, EffectDeny, AnonymousPrincipal, arn},
		{"unknown user", basic("mallory:TEST_PASSWORD"), arn, EffectDeny, AnonymousPrincipal, arn},
		{"usernames are case sensitive", basic("casekey:pw"), arn, EffectDeny, AnonymousPrincipal, arn},
		{"empty configured password", basic("nopass:"), arn, EffectDeny, AnonymousPrincipal, arn},
		{"bearer prefix", "Bearer " + base64.StdEncoding.EncodeToString([]byte("alice:TEST_PASSWORD")), arn, EffectDeny, AnonymousPrincipal, arn},
		{"three tokens", basic("alice:TEST_PASSWORD") + " extra", arn, EffectDeny, AnonymousPrincipal, arn},
		{"bad base64", "Basic !!!notbase64", arn, EffectDeny, AnonymousPrincipal, arn},
		{"no separator", basic("aliceTEST_PASSWORD"), arn, EffectDeny, AnonymousPrincipal, arn},
		{"empty token", "", arn, EffectDeny, AnonymousPrincipal, arn},
		{"missing resource", basic("alice:nope"), "", EffectDeny, AnonymousPrincipal, "*"},
		// "=" wins over ":" so this splits into "alice:x" / "TEST_PASSWORD"
		{"equals takes precedence", basic("alice:x=TEST_PASSWORD"), arn, EffectDeny, AnonymousPrincipal, arn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := auth.Authorize(context.Background(), tt.token, tt.resource)
			if policy.Effect != tt.effect {
				t.Errorf("Effect = %s, want %s", policy.Effect, tt.effect)
			}
			if policy.PrincipalID != tt.principal {
				t.Errorf("PrincipalID = %s, want %s", policy.PrincipalID, tt.principal)
			}
			if policy.Resource != tt.wantRes {
				t.Errorf("Resource = %s, want %s", policy.Resource, tt.wantRes)
			}
			if policy.Allowed() != (tt.effect == EffectAllow) {
				t.Errorf("Allowed() = %v", policy.Allowed())
			}
		})
	}
}

func TestAuthorizer_CopiesCredentials(t *testing.T) {
	credentials := map[string]string{"alice": "pw"}
	auth := NewAuthorizer(credentials, quietLogger())

	credentials["alice"] = "changed"
	if !auth.Authorize(context.Background(), basic("alice:pw"), "arn").Allowed() {
		t.Error("authorizer should keep the credentials it was built with")
	}
}
