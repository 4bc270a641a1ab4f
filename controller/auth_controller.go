// controller/auth_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zukapustikova/ai-governance-transparency-ledger/auth"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
)

type AuthController struct {
	store   *auth.Store
	limiter *auth.RateLimiter
	bus     *util.EventBus
}

func NewAuthController(store *auth.Store, limiter *auth.RateLimiter, bus *util.EventBus) *AuthController {
	return &AuthController{store: store, limiter: limiter, bus: bus}
}

// RegisterRoutes registers the auth routes. registerLimit throttles
// registration per client IP; authn resolves API keys.
func (ac *AuthController) RegisterRoutes(r *gin.RouterGroup, registerLimit, authn gin.HandlerFunc) {
	group := r.Group("/auth")
	{
		group.POST("/register", registerLimit, ac.Register)
		group.GET("/parties", ac.ListParties)
		group.GET("/parties/:party_id", ac.GetParty)
		group.DELETE("/parties/:party_id", ac.RevokeParty)
		group.GET("/me", authn, ac.Me)
		group.POST("/rotate-key", authn, ac.RotateKey)
	}

	r.POST("/demo/auth-reset", ac.Reset)
}

// Register endpoint
func (ac *AuthController) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid registration data", err)
		return
	}

	registration, err := ac.store.Register(req.Name, req.Role)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}

	if info, err := ac.store.Get(registration.PartyID); err == nil {
		ac.bus.Publish(c.Request.Context(), util.TopicPartyRegistered, info)
	}
	c.JSON(http.StatusCreated, registration)
}

// ListParties endpoint
func (ac *AuthController) ListParties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parties": ac.store.List()})
}

// GetParty endpoint
func (ac *AuthController) GetParty(c *gin.Context) {
	info, err := ac.store.Get(c.Param("party_id"))
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// RevokeParty endpoint
func (ac *AuthController) RevokeParty(c *gin.Context) {
	if err := ac.store.Revoke(c.Param("party_id")); err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "party revoked"})
}

// Me endpoint (authenticated)
func (ac *AuthController) Me(c *gin.Context) {
	party, ok := util.PartyFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
		return
	}
	c.JSON(http.StatusOK, party.Info())
}

// RotateKey endpoint (authenticated)
func (ac *AuthController) RotateKey(c *gin.Context) {
	party, ok := util.PartyFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
		return
	}

	rotation, err := ac.store.Rotate(party.PartyID)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, rotation)
}

// Reset endpoint (demo)
func (ac *AuthController) Reset(c *gin.Context) {
	if err := ac.store.Reset(); err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	ac.limiter.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "auth store reset"})
}
