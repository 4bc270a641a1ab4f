// controller/zk_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
	"github.com/zukapustikova/ai-governance-transparency-ledger/zk"
)

type ZKController struct {
	service *zk.Service
}

func NewZKController(service *zk.Service) *ZKController {
	return &ZKController{service: service}
}

// RegisterRoutes registers the threshold-commitment routes
func (zc *ZKController) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/zk")
	{
		group.POST("/commitment", zc.CreateCommitment)
		group.GET("/commitment/:id", zc.GetCommitment)
		group.GET("/commitments", zc.ListCommitments)
		group.POST("/prove", zc.Prove)
		group.POST("/verify", zc.Verify)
	}

	r.POST("/demo/zk-reset", zc.Reset)
}

// CreateCommitment endpoint
func (zc *ZKController) CreateCommitment(c *gin.Context) {
	var req model.ZKCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid commitment data", err)
		return
	}

	issued, err := zc.service.Commit(*req.Count, req.Metadata)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issued)
}

// GetCommitment endpoint
func (zc *ZKController) GetCommitment(c *gin.Context) {
	commitment, err := zc.service.Get(c.Param("id"))
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, commitment)
}

// ListCommitments endpoint
func (zc *ZKController) ListCommitments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commitments": zc.service.List()})
}

// Prove endpoint
func (zc *ZKController) Prove(c *gin.Context) {
	var req model.ZKProveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid prove data", err)
		return
	}

	proof, err := zc.service.Prove(req.CommitmentID, *req.Threshold)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, proof)
}

// Verify endpoint
func (zc *ZKController) Verify(c *gin.Context) {
	var req model.ZKVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid verify data", err)
		return
	}

	verdict, err := zc.service.Verify(req.CommitmentID, *req.Threshold, req.ProofValue)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// Reset endpoint (demo)
func (zc *ZKController) Reset(c *gin.Context) {
	if err := zc.service.Reset(); err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "commitment store reset"})
}
