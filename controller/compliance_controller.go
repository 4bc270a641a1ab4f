// controller/compliance_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zukapustikova/ai-governance-transparency-ledger/middleware"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/transparency"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
)

type ComplianceController struct {
	service *transparency.Service
}

func NewComplianceController(service *transparency.Service) *ComplianceController {
	return &ComplianceController{service: service}
}

// RegisterRoutes registers the compliance routes. Filing requires the lab
// role, reviewing the auditor role.
func (cc *ComplianceController) RegisterRoutes(r *gin.RouterGroup, authn gin.HandlerFunc) {
	compliance := r.Group("/compliance")
	{
		compliance.POST("/submissions", authn, middleware.RequireRole(model.RoleLab), cc.CreateSubmission)
		compliance.GET("/submissions", cc.ListSubmissions)
		compliance.GET("/submissions/:id", cc.GetSubmission)
		compliance.POST("/review", authn, middleware.RequireRole(model.RoleAuditor), cc.Review)
		compliance.GET("/status/:deployment_id", cc.DeploymentStatus)
		compliance.GET("/templates", cc.Templates)
	}

	r.POST("/demo/compliance-populate", cc.Populate)
}

// CreateSubmission endpoint (lab only)
func (cc *ComplianceController) CreateSubmission(c *gin.Context) {
	var req model.ComplianceSubmissionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid submission data", err)
		return
	}

	party, _ := util.PartyFromContext(c)
	submission, err := cc.service.SubmitCompliance(party.PartyID, req)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

// ListSubmissions endpoint
func (cc *ComplianceController) ListSubmissions(c *gin.Context) {
	filter := transparency.SubmissionFilter{
		Status:       model.ComplianceStatus(c.Query("status")),
		TemplateType: model.TemplateType(c.Query("template_type")),
		DeploymentID: c.Query("deployment_id"),
		LabID:        c.Query("lab_id"),
	}
	c.JSON(http.StatusOK, gin.H{"submissions": cc.service.ListSubmissions(filter)})
}

// GetSubmission endpoint
func (cc *ComplianceController) GetSubmission(c *gin.Context) {
	submission, err := cc.service.GetSubmission(c.Param("id"))
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// Review endpoint (auditor only)
func (cc *ComplianceController) Review(c *gin.Context) {
	var req model.ComplianceReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid review data", err)
		return
	}

	party, _ := util.PartyFromContext(c)
	submission, err := cc.service.Review(req, party.PartyID)
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// DeploymentStatus endpoint: the deployment gate verdict.
func (cc *ComplianceController) DeploymentStatus(c *gin.Context) {
	deploymentID := c.Param("deployment_id")
	modelID := c.Query("model_id")
	c.JSON(http.StatusOK, cc.service.DeploymentStatus(deploymentID, modelID, nil))
}

// Templates endpoint
func (cc *ComplianceController) Templates(c *gin.Context) {
	required := map[model.TemplateType]bool{}
	for _, t := range model.DefaultRequiredTemplates {
		required[t] = true
	}

	templates := make([]gin.H, 0, len(model.TemplateTypes))
	for _, t := range model.TemplateTypes {
		templates = append(templates, gin.H{
			"template_type": t,
			"display_name":  t.DisplayName(),
			"required":      required[t],
		})
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// Populate endpoint (demo)
func (cc *ComplianceController) Populate(c *gin.Context) {
	submissions, err := cc.service.PopulateSubmissions()
	if err != nil {
		util.RespondWithLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "demo submissions created", "submissions": submissions})
}
