// controller/ledger_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zukapustikova/ai-governance-transparency-ledger/auditlog"
	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	"github.com/zukapustikova/ai-governance-transparency-ledger/merkle"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
)

type LedgerController struct {
	log    *auditlog.Service
	proofs *merkle.Service
	bus    *util.EventBus
}

func NewLedgerController(log *auditlog.Service, proofs *merkle.Service, bus *util.EventBus) *LedgerController {
	return &LedgerController{log: log, proofs: proofs, bus: bus}
}

// RegisterRoutes registers the ledger and proof routes
func (lc *LedgerController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", lc.Health)

	r.POST("/events", lc.CreateEvent)
	r.GET("/events", lc.ListEvents)
	r.GET("/events/:id", lc.GetEvent)
	r.GET("/status", lc.Status)
	r.GET("/verify", lc.Verify)

	r.GET("/proof/:id", lc.GetProof)
	r.POST("/proof/verify", lc.VerifyProof)

	demo := r.Group("/demo")
	{
		demo.POST("/reset", lc.Reset)
		demo.POST("/populate", lc.Populate)
		demo.POST("/tamper", lc.Tamper)
	}
}

// Health endpoint
func (lc *LedgerController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "ai-governance-transparency-ledger"})
}

// CreateEvent endpoint
func (lc *LedgerController) CreateEvent(c *gin.Context) {
	var req model.EventCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid event data", err)
		return
	}

	event, err := lc.log.Append(req.EventType, req.Description, req.Metadata)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}

	lc.bus.Publish(c.Request.Context(), util.TopicEventAppended, event)
	c.JSON(http.StatusCreated, event)
}

// ListEvents endpoint
func (lc *LedgerController) ListEvents(c *gin.Context) {
	eventType := model.EventType(c.Query("event_type"))
	if eventType != "" && !eventType.Valid() {
		util.RespondWithLedgerError(c, ledger_errors.Validationf("unknown event_type %q", eventType))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			util.RespondWithLedgerError(c, ledger_errors.Validationf("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	c.JSON(http.StatusOK, gin.H{"events": lc.log.List(eventType, limit)})
}

// GetEvent endpoint
func (lc *LedgerController) GetEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithLedgerError(c, ledger_errors.Validationf("event id must be an integer"))
		return
	}

	event, err := lc.log.Get(id)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Status endpoint
func (lc *LedgerController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, model.LedgerStatus{
		EventCount: lc.log.Count(),
		LatestHash: lc.log.LatestHash(),
		MerkleRoot: lc.proofs.Root(),
		ChainValid: lc.log.VerifyChain().Valid,
	})
}

// Verify endpoint
func (lc *LedgerController) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, lc.log.VerifyChain())
}

// GetProof endpoint
func (lc *LedgerController) GetProof(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithLedgerError(c, ledger_errors.Validationf("event id must be an integer"))
		return
	}

	proof, err := lc.proofs.Prove(id)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, proof)
}

// VerifyProof endpoint
func (lc *LedgerController) VerifyProof(c *gin.Context) {
	var req model.ProofVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid proof data", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": merkle.Verify(req.LeafHash, req.Proof, req.Root)})
}

// Reset endpoint (demo)
func (lc *LedgerController) Reset(c *gin.Context) {
	if err := lc.log.Reset(); err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "audit log reset"})
}

var demoEvents = []model.EventCreate{
	{EventType: model.EventTrainingStarted, Description: "Training run started for gpt-safe-v2.1", Metadata: map[string]any{"model_id": "gpt-safe-v2.1", "compute_budget_flops": "1e24"}},
	{EventType: model.EventTrainingCompleted, Description: "Training run completed for gpt-safe-v2.1", Metadata: map[string]any{"model_id": "gpt-safe-v2.1", "final_loss": 1.73}},
	{EventType: model.EventSafetyEvalRun, Description: "Safety evaluation suite v9 executed", Metadata: map[string]any{"model_id": "gpt-safe-v2.1", "suite": "v9"}},
	{EventType: model.EventSafetyEvalPassed, Description: "Safety evaluation suite v9 passed", Metadata: map[string]any{"model_id": "gpt-safe-v2.1", "score": 0.97}},
	{EventType: model.EventSafetyEvalRun, Description: "Red-team evaluation round 1 executed", Metadata: map[string]any{"model_id": "gpt-safe-v2.1", "round": 1}},
	{EventType: model.EventSafetyEvalFailed, Description: "Red-team round 1 found a jailbreak class", Metadata: map[string]any{"model_id": "gpt-safe-v2.1", "severity": "medium"}},
	{EventType: model.EventModelDeployed, Description: "gpt-safe-v2.1 deployed to production", Metadata: map[string]any{"model_id": "gpt-safe-v2.1", "deployment_id": "gpt-safe-v2.1-prod"}},
	{EventType: model.EventIncidentReported, Description: "Post-deployment incident reported", Metadata: map[string]any{"deployment_id": "gpt-safe-v2.1-prod", "severity": "low"}},
}

// Populate endpoint (demo)
func (lc *LedgerController) Populate(c *gin.Context) {
	created := make([]model.Event, 0, len(demoEvents))
	for _, seed := range demoEvents {
		event, err := lc.log.Append(seed.EventType, seed.Description, seed.Metadata)
		if err != nil {
			util.RespondWithLedgerError(c, err)
			return
		}
		created = append(created, event)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "demo events created", "count": len(created), "events": created})
}

// Tamper endpoint (demo)
func (lc *LedgerController) Tamper(c *gin.Context) {
	var req model.TamperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid tamper data", err)
		return
	}

	event, err := lc.log.Tamper(*req.EventID, req.Field, req.NewValue)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event tampered", "event": event})
}
