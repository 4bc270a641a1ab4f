// model/transparency.go
package model

import "time"

// ConcernStatus tracks a concern through its lifecycle.
type ConcernStatus string

const (
	ConcernOpen      ConcernStatus = "open"
	ConcernResponded ConcernStatus = "responded"
	ConcernDisputed  ConcernStatus = "disputed"
	ConcernResolved  ConcernStatus = "resolved"
)

// Concern is a publicly visible issue raised against a deployment or
// submission, attributed only to an anonymous identifier.
type Concern struct {
	ID           string        `json:"id"`
	AnonID       string        `json:"anon_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Target       string        `json:"target"`
	Status       ConcernStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	ResolutionID string        `json:"resolution_id,omitempty"`
}

// Unresolved reports whether the concern still blocks deployment.
func (c Concern) Unresolved() bool {
	return c.Status != ConcernResolved
}

// Response is a lab or auditor reply to a concern.
type Response struct {
	ID            string    `json:"id"`
	ConcernID     string    `json:"concern_id"`
	ResponderRole Role      `json:"responder_role"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// ResolutionOutcome enumerates how an auditor may close a concern.
type ResolutionOutcome string

const (
	OutcomeAccepted      ResolutionOutcome = "accepted"
	OutcomeRejected      ResolutionOutcome = "rejected"
	OutcomeNeedsMoreInfo ResolutionOutcome = "needs_more_info"
)

// Valid reports whether o is a known outcome.
func (o ResolutionOutcome) Valid() bool {
	return o == OutcomeAccepted || o == OutcomeRejected || o == OutcomeNeedsMoreInfo
}

// Resolution is an auditor's terminal ruling on a concern.
type Resolution struct {
	ID        string            `json:"id"`
	ConcernID string            `json:"concern_id"`
	AuditorID string            `json:"auditor_id"`
	Outcome   ResolutionOutcome `json:"outcome"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"created_at"`
}

// TemplateType enumerates the compliance templates a lab can file against.
type TemplateType string

const (
	TemplateSafetyEvaluation     TemplateType = "safety_evaluation"
	TemplateTrainingData         TemplateType = "training_data"
	TemplateCapabilityAssessment TemplateType = "capability_assessment"
	TemplateRedTeamReport        TemplateType = "red_team_report"
	TemplateHumanOversight       TemplateType = "human_oversight"
	TemplateIncidentReport       TemplateType = "incident_report"
)

// TemplateTypes lists every template in declaration order.
var TemplateTypes = []TemplateType{
	TemplateSafetyEvaluation,
	TemplateTrainingData,
	TemplateCapabilityAssessment,
	TemplateRedTeamReport,
	TemplateHumanOversight,
	TemplateIncidentReport,
}

// DefaultRequiredTemplates gate a deployment unless overridden per request.
var DefaultRequiredTemplates = []TemplateType{
	TemplateSafetyEvaluation,
	TemplateCapabilityAssessment,
	TemplateRedTeamReport,
}

// Valid reports whether t is a known template type.
func (t TemplateType) Valid() bool {
	for _, known := range TemplateTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable template title.
func (t TemplateType) DisplayName() string {
	switch t {
	case TemplateSafetyEvaluation:
		return "Safety Evaluation"
	case TemplateTrainingData:
		return "Training Data Disclosure"
	case TemplateCapabilityAssessment:
		return "Capability Assessment"
	case TemplateRedTeamReport:
		return "Red Team Report"
	case TemplateHumanOversight:
		return "Human Oversight Plan"
	case TemplateIncidentReport:
		return "Incident Report"
	default:
		return string(t)
	}
}

// ComplianceStatus tracks a submission through review.
type ComplianceStatus string

const (
	SubmissionSubmitted   ComplianceStatus = "submitted"
	SubmissionUnderReview ComplianceStatus = "under_review"
	SubmissionVerified    ComplianceStatus = "verified"
	SubmissionRejected    ComplianceStatus = "rejected"
)

// Terminal reports whether the status admits no further transitions.
func (s ComplianceStatus) Terminal() bool {
	return s == SubmissionVerified || s == SubmissionRejected
}

// ComplianceSubmission is a lab's filing against one template for a
// deployment. Only the evidence digest enters the ledger.
type ComplianceSubmission struct {
	ID            string           `json:"id"`
	LabID         string           `json:"lab_id"`
	DeploymentID  string           `json:"deployment_id"`
	ModelID       string           `json:"model_id"`
	TemplateType  TemplateType     `json:"template_type"`
	Title         string           `json:"title"`
	EvidenceHash  string           `json:"evidence_hash"`
	Status        ComplianceStatus `json:"status"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
	ReviewerNotes string           `json:"reviewer_notes,omitempty"`
}

// TemplateRequirement reports how one required template is satisfied.
type TemplateRequirement struct {
	TemplateType TemplateType     `json:"template_type"`
	Verified     bool             `json:"verified"`
	SubmissionID string           `json:"submission_id,omitempty"`
	Status       ComplianceStatus `json:"status,omitempty"`
}

// ConcernSummary is the concern view embedded in gate results.
type ConcernSummary struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Status ConcernStatus `json:"status"`
	Target string        `json:"target"`
}

// DeploymentComplianceStatus is the deployment gate verdict: cleared only
// when every required template is verified and no concern is unresolved.
type DeploymentComplianceStatus struct {
	DeploymentID       string                `json:"deployment_id"`
	ModelID            string                `json:"model_id"`
	RequiredTemplates  []TemplateType        `json:"required_templates"`
	Templates          []TemplateRequirement `json:"templates"`
	UnresolvedConcerns []ConcernSummary      `json:"unresolved_concerns"`
	Cleared            bool                  `json:"cleared"`
	Blocking           []string              `json:"blocking"`
}

// DeploymentClearance is the concern-only clearance summary.
type DeploymentClearance struct {
	DeploymentID      string `json:"deployment_id"`
	TotalConcerns     int    `json:"total_concerns"`
	OpenConcerns      int    `json:"open_concerns"`
	RespondedConcerns int    `json:"responded_concerns"`
	DisputedConcerns  int    `json:"disputed_concerns"`
	ResolvedConcerns  int    `json:"resolved_concerns"`
	Cleared           bool   `json:"cleared"`
	Message           string `json:"message"`
}

// TransparencyStats aggregates ledger counters for GET /transparency/stats.
type TransparencyStats struct {
	TotalConcerns         int                      `json:"total_concerns"`
	ConcernsByStatus      map[ConcernStatus]int    `json:"concerns_by_status"`
	TotalResponses        int                      `json:"total_responses"`
	TotalResolutions      int                      `json:"total_resolutions"`
	TotalSubmissions      int                      `json:"total_submissions"`
	SubmissionsByStatus   map[ComplianceStatus]int `json:"submissions_by_status"`
	SubmissionsByTemplate map[TemplateType]int     `json:"submissions_by_template"`
}
