// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// RespondWithLedgerError maps a component error onto its HTTP status via
// the errors package and emits {"error": <message>}.
func RespondWithLedgerError(c *gin.Context, err error) {
	RespondWithError(c, ledger_errors.StatusCode(err), err.Error(), err)
}

// PartyFromContext returns the authenticated party set by the auth
// middleware, if any.
func PartyFromContext(c *gin.Context) (model.Party, bool) {
	v, exists := c.Get("party")
	if !exists {
		return model.Party{}, false
	}
	party, ok := v.(model.Party)
	return party, ok
}
