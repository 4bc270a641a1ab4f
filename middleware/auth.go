package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zukapustikova/ai-governance-transparency-ledger/auth"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
)

// APIKeyHeader carries the bearer key on authenticated requests.
const APIKeyHeader = "X-API-Key"

// Authenticate resolves the X-API-Key header to a registered party and
// stores it in the request context. Missing or unknown keys get 401.
func Authenticate(store *auth.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			c.Abort()
			return
		}
		party, err := store.VerifyKey(key)
		if err != nil {
			logger.Warn("API key rejected",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}
		c.Set("party", party)
		c.Next()
	}
}

// RequireRole rejects authenticated parties whose role is not in allowed.
// Must run after Authenticate.
func RequireRole(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		party, ok := util.PartyFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			c.Abort()
			return
		}
		for _, role := range allowed {
			if party.Role == role {
				c.Next()
				return
			}
		}
		logger.Warn("Role denied",
			zap.String("partyID", party.PartyID),
			zap.String("role", string(party.Role)),
			zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		c.Abort()
	}
}
