// controller/mirror_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zukapustikova/ai-governance-transparency-ledger/mirror"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
)

type MirrorController struct {
	service *mirror.Service
}

func NewMirrorController(service *mirror.Service) *MirrorController {
	return &MirrorController{service: service}
}

// RegisterRoutes registers the mirror demo routes
func (mc *MirrorController) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/demo/mirror")
	{
		group.POST("/sync", mc.Sync)
		group.GET("/status", mc.Status)
		group.GET("/compare", mc.Compare)
		group.POST("/tamper", mc.Tamper)
		group.GET("/detect", mc.Detect)
		group.POST("/reset", mc.Reset)
	}
}

// Sync endpoint
func (mc *MirrorController) Sync(c *gin.Context) {
	result, err := mc.service.SyncAll()
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status endpoint
func (mc *MirrorController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mirrors": mc.service.Status()})
}

// Compare endpoint
func (mc *MirrorController) Compare(c *gin.Context) {
	c.JSON(http.StatusOK, mc.service.Compare())
}

// Tamper endpoint
func (mc *MirrorController) Tamper(c *gin.Context) {
	var req model.MirrorTamperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid tamper data", err)
		return
	}

	if err := mc.service.Tamper(req); err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "mirror record tampered"})
}

// Detect endpoint
func (mc *MirrorController) Detect(c *gin.Context) {
	c.JSON(http.StatusOK, mc.service.Detect())
}

// Reset endpoint
func (mc *MirrorController) Reset(c *gin.Context) {
	if err := mc.service.Reset(); err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "mirrors reset"})
}
