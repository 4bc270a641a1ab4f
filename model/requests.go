// model/requests.go
package model

// Request bodies for the REST surface. Binding tags drive gin's validation;
// anything the tags cannot express is checked in the services.

type EventCreate struct {
	EventType   EventType      `json:"event_type" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Metadata    map[string]any `json:"metadata"`
}

type TamperRequest struct {
	EventID  *int   `json:"event_id" binding:"required"`
	Field    string `json:"field" binding:"required"`
	NewValue any    `json:"new_value" binding:"required"`
}

type ProofVerifyRequest struct {
	LeafHash string      `json:"leaf_hash" binding:"required"`
	Proof    []ProofStep `json:"proof"`
	Root     string      `json:"root" binding:"required"`
}

type AnonymousIDRequest struct {
	Identity string `json:"identity" binding:"required"`
	Salt     string `json:"salt" binding:"required"`
}

type AnonymousIDResponse struct {
	AnonID  string `json:"anon_id"`
	Warning string `json:"warning"`
}

type ConcernCreate struct {
	AnonID      string `json:"anon_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Target      string `json:"target" binding:"required"`
}

type ResponseCreate struct {
	ConcernID     string `json:"concern_id" binding:"required"`
	ResponderRole Role   `json:"responder_role" binding:"required"`
	Content       string `json:"content" binding:"required"`
}

type ResolutionCreate struct {
	ConcernID string            `json:"concern_id" binding:"required"`
	Outcome   ResolutionOutcome `json:"outcome" binding:"required"`
	Notes     string            `json:"notes"`
}

type ComplianceSubmissionCreate struct {
	DeploymentID string       `json:"deployment_id" binding:"required"`
	ModelID      string       `json:"model_id" binding:"required"`
	TemplateType TemplateType `json:"template_type" binding:"required"`
	Title        string       `json:"title" binding:"required"`
	EvidenceHash string       `json:"evidence_hash" binding:"required"`
}

type ComplianceReviewRequest struct {
	SubmissionID string `json:"submission_id" binding:"required"`
	Decision     string `json:"decision" binding:"required"`
	Notes        string `json:"notes"`
}

type ZKCommitmentRequest struct {
	Count    *int           `json:"count" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}

type ZKProveRequest struct {
	CommitmentID string `json:"commitment_id" binding:"required"`
	Threshold    *int   `json:"threshold" binding:"required"`
}

type ZKVerifyRequest struct {
	CommitmentID string `json:"commitment_id" binding:"required"`
	Threshold    *int   `json:"threshold" binding:"required"`
	ProofValue   string `json:"proof_value" binding:"required"`
}

type RegisterRequest struct {
	Name string `json:"name" binding:"required"`
	Role Role   `json:"role" binding:"required"`
}

type MirrorTamperRequest struct {
	Party      string `json:"party" binding:"required"`
	RecordType string `json:"record_type" binding:"required"`
	RecordID   string `json:"record_id" binding:"required"`
	Field      string `json:"field" binding:"required"`
	NewValue   any    `json:"new_value" binding:"required"`
}
