package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/services"
)

// BasicAuth gates a route group with the credential authorizer.
// A missing Authorization header is answered with 401, a denied one with 403.
func BasicAuth(authorizer services.Authorizer, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Header("WWW-Authenticate", `Basic realm="import"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:     "Unauthorized",
				RequestID: c.GetString(RequestIDKey),
			})
			return
		}

		resource := c.Request.Method + " " + c.FullPath()
		policy := authorizer.Authorize(c.Request.Context(), token, resource)
		if !policy.Allowed() {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(RequestIDKey),
				"resource":   resource,
			}).Warn("Request denied by authorizer")

			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Error:     "Forbidden",
				RequestID: c.GetString(RequestIDKey),
			})
			return
		}

		c.Set(PrincipalKey, policy.PrincipalID)
		c.Next()
	}
}
