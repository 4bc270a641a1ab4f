// controller/transparency_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zukapustikova/ai-governance-transparency-ledger/crypto"
	"github.com/zukapustikova/ai-governance-transparency-ledger/middleware"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/transparency"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
)

type TransparencyController struct {
	service *transparency.Service
}

func NewTransparencyController(service *transparency.Service) *TransparencyController {
	return &TransparencyController{service: service}
}

// RegisterRoutes registers the transparency routes. authn resolves API
// keys; resolutions additionally require the auditor role.
func (tc *TransparencyController) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	t := r.Group("/transparency")
	{
		t.POST("/anonymous-id", tc.AnonymousID)
		t.POST("/concerns", tc.CreateConcern)
		t.GET("/concerns", tc.ListConcerns)
		t.GET("/concerns/:id", tc.GetConcern)
		t.GET("/concerns/:id/responses", tc.GetResponses)
		t.POST("/concerns/:id/dispute", tc.DisputeConcern)
		t.POST("/responses", tc.CreateResponse)
		t.POST("/resolutions", authn, middleware.RequireRole(model.RoleAuditor), tc.CreateResolution)
		t.GET("/stats", tc.Stats)
		t.GET("/clearance/:deployment_id", tc.Clearance)
	}

	demo := r.Group("/demo")
	{
		demo.POST("/transparency-reset", tc.Reset)
		demo.POST("/transparency-populate", tc.Populate)
	}
}

// AnonymousID endpoint. Deprecated: clients should derive the identifier
// locally so the identity never reaches the server.
func (tc *TransparencyController) AnonymousID(c *gin.Context) {
	var req model.AnonymousIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid anonymous-id data", err)
		return
	}
	c.JSON(http.StatusOK, model.AnonymousIDResponse{
		AnonID:  crypto.AnonymousID(req.Identity, req.Salt),
		Warning: "Deprecated: derive the anonymous id locally; sending your identity to the server defeats anonymity.",
	})
}

// CreateConcern endpoint
func (tc *TransparencyController) CreateConcern(c *gin.Context) {
	var req model.ConcernCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid concern data", err)
		return
	}

	concern, err := tc.service.RaiseConcern(req)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, concern)
}

// ListConcerns endpoint
func (tc *TransparencyController) ListConcerns(c *gin.Context) {
	status := model.ConcernStatus(c.Query("status"))
	anonID := c.Query("anon_id")
	c.JSON(http.StatusOK, gin.H{"concerns": tc.service.ListConcerns(status, anonID)})
}

// GetConcern endpoint
func (tc *TransparencyController) GetConcern(c *gin.Context) {
	concern, err := tc.service.GetConcern(c.Param("id"))
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, concern)
}

// GetResponses endpoint
func (tc *TransparencyController) GetResponses(c *gin.Context) {
	responses, err := tc.service.Responses(c.Param("id"))
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": responses})
}

// CreateResponse endpoint
func (tc *TransparencyController) CreateResponse(c *gin.Context) {
	var req model.ResponseCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid response data", err)
		return
	}

	response, err := tc.service.Respond(req)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// DisputeConcern endpoint
func (tc *TransparencyController) DisputeConcern(c *gin.Context) {
	concern, err := tc.service.Dispute(c.Param("id"))
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, concern)
}

// CreateResolution endpoint (auditor only)
func (tc *TransparencyController) CreateResolution(c *gin.Context) {
	var req model.ResolutionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid resolution data", err)
		return
	}

	party, _ := util.PartyFromContext(c)
	resolution, err := tc.service.Resolve(req, party.PartyID)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resolution)
}

// Stats endpoint
func (tc *TransparencyController) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, tc.service.Stats())
}

// Clearance endpoint
func (tc *TransparencyController) Clearance(c *gin.Context) {
	c.JSON(http.StatusOK, tc.service.Clearance(c.Param("deployment_id")))
}

// Reset endpoint (demo)
func (tc *TransparencyController) Reset(c *gin.Context) {
	if err := tc.service.Reset(); err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transparency store reset"})
}

// Populate endpoint (demo)
func (tc *TransparencyController) Populate(c *gin.Context) {
	concerns, submissions, err := tc.service.Populate()
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "demo transparency data created",
		"concerns":    concerns,
		"submissions": submissions,
	})
}
