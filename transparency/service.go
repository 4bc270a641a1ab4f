// transparency/service.go
package transparency

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zukapustikova/ai-governance-transparency-ledger/crypto"
	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/storage"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
)

// StorageFile is the transparency store's document name.
const StorageFile = "transparency.json"

// AuditRecorder appends an event to the tamper-evident audit log. Every
// mutation here records one; if the append fails the mutation is rolled
// back and the caller sees a persistence error.
type AuditRecorder interface {
	Append(eventType model.EventType, description string, metadata map[string]any) (model.Event, error)
}

type state struct {
	Concerns    []model.Concern              `json:"concerns"`
	Responses   []model.Response             `json:"responses"`
	Resolutions []model.Resolution           `json:"resolutions"`
	Submissions []model.ComplianceSubmission `json:"compliance_submissions"`
}

// Service owns concerns, responses, resolutions, and compliance
// submissions, and evaluates the deployment gate over them.
type Service struct {
	mu    sync.RWMutex
	state state
	doc   *storage.Document
	audit AuditRecorder
	bus   *util.EventBus
}

// NewService loads the transparency store from dir on fs.
func NewService(fs afero.Fs, dir string, audit AuditRecorder, bus *util.EventBus) *Service {
	s := &Service{
		doc:   storage.NewDocument(fs, filepath.Join(dir, StorageFile)),
		audit: audit,
		bus:   bus,
	}
	if s.doc.Load(&s.state) {
		logger.Info("Transparency store loaded",
			zap.Int("concerns", len(s.state.Concerns)),
			zap.Int("submissions", len(s.state.Submissions)))
	}
	return s
}

// commit records the audit event for a completed mutation and persists the
// store. rollback undoes the in-memory mutation when either step fails.
func (s *Service) commit(eventType model.EventType, description string, metadata map[string]any, rollback func()) error {
	if _, err := s.audit.Append(eventType, description, metadata); err != nil {
		rollback()
		return ledger_errors.Persistencef("audit append", err)
	}
	if err := s.doc.Save(s.state); err != nil {
		rollback()
		logger.Warn("Transparency save failed after audit append; audit event is orphaned",
			zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) publish(topic string, payload any) {
	if s.bus != nil {
		s.bus.Publish(context.Background(), topic, payload)
	}
}

// RaiseConcern files a new concern in state open.
func (s *Service) RaiseConcern(req model.ConcernCreate) (model.Concern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	concern := model.Concern{
		ID:          crypto.NewRecordID(),
		AnonID:      req.AnonID,
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		Status:      model.ConcernOpen,
		CreatedAt:   crypto.Now(),
	}

	s.state.Concerns = append(s.state.Concerns, concern)
	rollback := func() { s.state.Concerns = s.state.Concerns[:len(s.state.Concerns)-1] }

	err := s.commit(model.EventIncidentReported, "Concern raised: "+concern.Title, map[string]any{
		"action":     "concern_raised",
		"concern_id": concern.ID,
		"target":     concern.Target,
	}, rollback)
	if err != nil {
		return model.Concern{}, err
	}

	s.publish(util.TopicConcernRaised, concern)
	return concern, nil
}

// GetConcern returns one concern by id.
func (s *Service) GetConcern(id string) (model.Concern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findConcern(id)
}

func (s *Service) findConcern(id string) (model.Concern, error) {
	for _, c := range s.state.Concerns {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Concern{}, ledger_errors.NotFoundf("concern %s", id)
}

func (s *Service) concernIndex(id string) int {
	for i := range s.state.Concerns {
		if s.state.Concerns[i].ID == id {
			return i
		}
	}
	return -1
}

// ListConcerns returns concerns newest first, optionally filtered by
// status and anonymous submitter.
func (s *Service) ListConcerns(status model.ConcernStatus, anonID string) []model.Concern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Concern, 0, len(s.state.Concerns))
	for i := len(s.state.Concerns) - 1; i >= 0; i-- {
		c := s.state.Concerns[i]
		if status != "" && c.Status != status {
			continue
		}
		if anonID != "" && c.AnonID != anonID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Respond records a lab or auditor reply and moves an open concern to
// responded. Disputed concerns keep their status; resolved ones refuse.
func (s *Service) Respond(req model.ResponseCreate) (model.Response, error) {
	if req.ResponderRole != model.RoleLab && req.ResponderRole != model.RoleAuditor {
		return model.Response{}, ledger_errors.Validationf("responder_role must be lab or auditor")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.concernIndex(req.ConcernID)
	if idx < 0 {
		return model.Response{}, ledger_errors.NotFoundf("concern %s", req.ConcernID)
	}
	if s.state.Concerns[idx].Status == model.ConcernResolved {
		return model.Response{}, ledger_errors.Statef("concern %s is resolved", req.ConcernID)
	}

	response := model.Response{
		ID:            crypto.NewRecordID(),
		ConcernID:     req.ConcernID,
		ResponderRole: req.ResponderRole,
		Content:       req.Content,
		CreatedAt:     crypto.Now(),
	}

	previousStatus := s.state.Concerns[idx].Status
	s.state.Responses = append(s.state.Responses, response)
	if previousStatus == model.ConcernOpen {
		s.state.Concerns[idx].Status = model.ConcernResponded
	}
	rollback := func() {
		s.state.Responses = s.state.Responses[:len(s.state.Responses)-1]
		s.state.Concerns[idx].Status = previousStatus
	}

	err := s.commit(model.EventIncidentReported, "Concern response recorded", map[string]any{
		"action":      "concern_responded",
		"concern_id":  req.ConcernID,
		"response_id": response.ID,
	}, rollback)
	if err != nil {
		return model.Response{}, err
	}
	return response, nil
}

// Responses returns all replies to one concern, oldest first.
func (s *Service) Responses(concernID string) ([]model.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.findConcern(concernID); err != nil {
		return nil, err
	}
	out := []model.Response{}
	for _, r := range s.state.Responses {
		if r.ConcernID == concernID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Dispute marks a concern as disputed. Legal from open or responded.
func (s *Service) Dispute(concernID string) (model.Concern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.concernIndex(concernID)
	if idx < 0 {
		return model.Concern{}, ledger_errors.NotFoundf("concern %s", concernID)
	}
	previousStatus := s.state.Concerns[idx].Status
	if previousStatus != model.ConcernOpen && previousStatus != model.ConcernResponded {
		return model.Concern{}, ledger_errors.Statef("concern %s is %s", concernID, previousStatus)
	}

	s.state.Concerns[idx].Status = model.ConcernDisputed
	rollback := func() { s.state.Concerns[idx].Status = previousStatus }

	err := s.commit(model.EventIncidentReported, "Concern disputed", map[string]any{
		"action":     "concern_disputed",
		"concern_id": concernID,
	}, rollback)
	if err != nil {
		return model.Concern{}, err
	}
	return s.state.Concerns[idx], nil
}

// Resolve records an auditor ruling and moves the concern to its terminal
// resolved state.
func (s *Service) Resolve(req model.ResolutionCreate, auditorID string) (model.Resolution, error) {
	if !req.Outcome.Valid() {
		return model.Resolution{}, ledger_errors.Validationf("unknown outcome %q", req.Outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.concernIndex(req.ConcernID)
	if idx < 0 {
		return model.Resolution{}, ledger_errors.NotFoundf("concern %s", req.ConcernID)
	}
	previous := s.state.Concerns[idx]
	if previous.Status == model.ConcernResolved {
		return model.Resolution{}, ledger_errors.Statef("concern %s is already resolved", req.ConcernID)
	}

	resolution := model.Resolution{
		ID:        crypto.NewRecordID(),
		ConcernID: req.ConcernID,
		AuditorID: auditorID,
		Outcome:   req.Outcome,
		Notes:     req.Notes,
		CreatedAt: crypto.Now(),
	}

	s.state.Resolutions = append(s.state.Resolutions, resolution)
	s.state.Concerns[idx].Status = model.ConcernResolved
	s.state.Concerns[idx].ResolutionID = resolution.ID
	rollback := func() {
		s.state.Resolutions = s.state.Resolutions[:len(s.state.Resolutions)-1]
		s.state.Concerns[idx] = previous
	}

	err := s.commit(model.EventIncidentReported, "Concern resolved", map[string]any{
		"action":        "concern_resolved",
		"concern_id":    req.ConcernID,
		"resolution_id": resolution.ID,
		"outcome":       string(req.Outcome),
	}, rollback)
	if err != nil {
		return model.Resolution{}, err
	}

	s.publish(util.TopicConcernResolved, resolution)
	return resolution, nil
}

// SubmitCompliance files a submission against a template for a deployment.
// The evidence digest is asserted by the client and must be 64 hex chars.
func (s *Service) SubmitCompliance(labID string, req model.ComplianceSubmissionCreate) (model.ComplianceSubmission, error) {
	if !req.TemplateType.Valid() {
		return model.ComplianceSubmission{}, ledger_errors.Validationf("unknown template_type %q", req.TemplateType)
	}
	if !crypto.IsHexHash(req.EvidenceHash) {
		return model.ComplianceSubmission{}, ledger_errors.Validationf("evidence_hash must be 64 lowercase hex chars")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	submission := model.ComplianceSubmission{
		ID:           crypto.NewRecordID(),
		LabID:        labID,
		DeploymentID: req.DeploymentID,
		ModelID:      req.ModelID,
		TemplateType: req.TemplateType,
		Title:        req.Title,
		EvidenceHash: req.EvidenceHash,
		Status:       model.SubmissionSubmitted,
		SubmittedAt:  crypto.Now(),
	}

	s.state.Submissions = append(s.state.Submissions, submission)
	rollback := func() { s.state.Submissions = s.state.Submissions[:len(s.state.Submissions)-1] }

	err := s.commit(model.EventSafetyEvalRun, "Compliance submission filed: "+submission.Title, map[string]any{
		"action":        "compliance_submitted",
		"submission_id": submission.ID,
		"deployment_id": submission.DeploymentID,
		"template_type": string(submission.TemplateType),
	}, rollback)
	if err != nil {
		return model.ComplianceSubmission{}, err
	}

	s.publish(util.TopicComplianceSubmitted, submission)
	return submission, nil
}

// GetSubmission returns one submission by id.
func (s *Service) GetSubmission(id string) (model.ComplianceSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.state.Submissions {
		if sub.ID == id {
			return sub, nil
		}
	}
	return model.ComplianceSubmission{}, ledger_errors.NotFoundf("submission %s", id)
}

// SubmissionFilter narrows ListSubmissions; empty fields match everything.
type SubmissionFilter struct {
	Status       model.ComplianceStatus
	TemplateType model.TemplateType
	DeploymentID string
	LabID        string
}

// ListSubmissions returns submissions newest first.
func (s *Service) ListSubmissions(f SubmissionFilter) []model.ComplianceSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ComplianceSubmission, 0, len(s.state.Submissions))
	for i := len(s.state.Submissions) - 1; i >= 0; i-- {
		sub := s.state.Submissions[i]
		if f.Status != "" && sub.Status != f.Status {
			continue
		}
		if f.TemplateType != "" && sub.TemplateType != f.TemplateType {
			continue
		}
		if f.DeploymentID != "" && sub.DeploymentID != f.DeploymentID {
			continue
		}
		if f.LabID != "" && sub.LabID != f.LabID {
			continue
		}
		out = append(out, sub)
	}
	return out
}

// Review verifies or rejects a submission. Terminal submissions refuse; a
// rejected one can only be superseded by filing anew.
func (s *Service) Review(req model.ComplianceReviewRequest, auditorID string) (model.ComplianceSubmission, error) {
	var decided model.ComplianceStatus
	switch req.Decision {
	case "verify":
		decided = model.SubmissionVerified
	case "reject":
		decided = model.SubmissionRejected
	default:
		return model.ComplianceSubmission{}, ledger_errors.Validationf("decision must be verify or reject")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Submissions {
		if s.state.Submissions[i].ID == req.SubmissionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ComplianceSubmission{}, ledger_errors.NotFoundf("submission %s", req.SubmissionID)
	}
	previous := s.state.Submissions[idx]
	if previous.Status.Terminal() {
		return model.ComplianceSubmission{}, ledger_errors.Statef("submission %s is already %s", previous.ID, previous.Status)
	}

	now := crypto.Now()
	s.state.Submissions[idx].Status = decided
	s.state.Submissions[idx].ReviewedAt = &now
	s.state.Submissions[idx].ReviewerNotes = req.Notes
	rollback := func() { s.state.Submissions[idx] = previous }

	eventType := model.EventSafetyEvalPassed
	if decided == model.SubmissionRejected {
		eventType = model.EventSafetyEvalFailed
	}
	err := s.commit(eventType, "Compliance submission reviewed", map[string]any{
		"action":        "compliance_reviewed",
		"submission_id": req.SubmissionID,
		"decision":      req.Decision,
		"auditor_id":    auditorID,
	}, rollback)
	if err != nil {
		return model.ComplianceSubmission{}, err
	}

	s.publish(util.TopicComplianceReviewed, s.state.Submissions[idx])
	return s.state.Submissions[idx], nil
}

// Stats aggregates the store's counters.
func (s *Service) Stats() model.TransparencyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.TransparencyStats{
		TotalConcerns:         len(s.state.Concerns),
		ConcernsByStatus:      map[model.ConcernStatus]int{},
		TotalResponses:        len(s.state.Responses),
		TotalResolutions:      len(s.state.Resolutions),
		TotalSubmissions:      len(s.state.Submissions),
		SubmissionsByStatus:   map[model.ComplianceStatus]int{},
		SubmissionsByTemplate: map[model.TemplateType]int{},
	}
	for _, c := range s.state.Concerns {
		stats.ConcernsByStatus[c.Status]++
	}
	for _, sub := range s.state.Submissions {
		stats.SubmissionsByStatus[sub.Status]++
		stats.SubmissionsByTemplate[sub.TemplateType]++
	}
	return stats
}

// Reset clears the store. Demo only.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.state
	s.state = state{}
	if err := s.doc.Save(s.state); err != nil {
		s.state = previous
		return err
	}
	return nil
}

// Populate seeds demo concerns and submissions. Demo only.
func (s *Service) Populate() (concerns, submissions int, err error) {
	if concerns, err = s.PopulateConcerns(); err != nil {
		return 0, 0, err
	}
	if submissions, err = s.PopulateSubmissions(); err != nil {
		return 0, 0, err
	}
	return concerns, submissions, nil
}

// PopulateConcerns seeds two demo concerns, one answered and resolved.
func (s *Service) PopulateConcerns() (int, error) {
	anonID := crypto.AnonymousID("demo-reporter@example.org", "demo-salt")

	concern1, err := s.RaiseConcern(model.ConcernCreate{
		AnonID:      anonID,
		Title:       "Undisclosed capability jump",
		Description: "Benchmark deltas between eval and release builds look inconsistent.",
		Target:      "gpt-safe-v2.1-prod",
	})
	if err != nil {
		return 0, err
	}
	if _, err = s.Respond(model.ResponseCreate{
		ConcernID:     concern1.ID,
		ResponderRole: model.RoleLab,
		Content:       "Release build matches the evaluated checkpoint; attaching eval manifest digest.",
	}); err != nil {
		return 0, err
	}
	if _, err = s.Resolve(model.ResolutionCreate{
		ConcernID: concern1.ID,
		Outcome:   model.OutcomeAccepted,
		Notes:     "Manifest digests match; no discrepancy found.",
	}, "auditor-demo"); err != nil {
		return 0, err
	}

	if _, err = s.RaiseConcern(model.ConcernCreate{
		AnonID:      anonID,
		Title:       "Red-team findings not filed",
		Description: "External red-team round two results are missing from the record.",
		Target:      "atlas-v3-prod",
	}); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Concerns), nil
}

// PopulateSubmissions seeds the three default-required templates for the
// demo deployment and verifies the first.
func (s *Service) PopulateSubmissions() (int, error) {
	seed := []model.ComplianceSubmissionCreate{
		{DeploymentID: "gpt-safe-v2.1-prod", ModelID: "gpt-safe-v2.1", TemplateType: model.TemplateSafetyEvaluation, Title: "Safety evaluation suite v9", EvidenceHash: crypto.HashString("demo-evidence-safety")},
		{DeploymentID: "gpt-safe-v2.1-prod", ModelID: "gpt-safe-v2.1", TemplateType: model.TemplateCapabilityAssessment, Title: "Capability assessment Q3", EvidenceHash: crypto.HashString("demo-evidence-capability")},
		{DeploymentID: "gpt-safe-v2.1-prod", ModelID: "gpt-safe-v2.1", TemplateType: model.TemplateRedTeamReport, Title: "Red team report round 1", EvidenceHash: crypto.HashString("demo-evidence-redteam")},
	}
	var first model.ComplianceSubmission
	for i, req := range seed {
		sub, err := s.SubmitCompliance("lab-demo", req)
		if err != nil {
			return 0, err
		}
		if i == 0 {
			first = sub
		}
	}
	if _, err := s.Review(model.ComplianceReviewRequest{
		SubmissionID: first.ID,
		Decision:     "verify",
		Notes:        "Evidence digest matches the filed eval manifest.",
	}, "auditor-demo"); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Submissions), nil
}

// SnapshotRecords returns the canonical record set the mirrors replicate:
// every submission and concern, sorted by record id.
func (s *Service) SnapshotRecords() []model.MirrorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.MirrorRecord, 0, len(s.state.Submissions)+len(s.state.Concerns))
	for _, sub := range s.state.Submissions {
		records = append(records, model.MirrorRecord{
			RecordType: "submission",
			ID:         sub.ID,
			Data:       recordData(sub),
		})
	}
	for _, c := range s.state.Concerns {
		records = append(records, model.MirrorRecord{
			RecordType: "concern",
			ID:         c.ID,
			Data:       recordData(c),
		})
	}
	sortRecords(records)
	return records
}

func recordData(v any) map[string]any {
	// Round-trip through canonical JSON so mirror copies hold plain maps
	// whose hashes are stable regardless of source type.
	b, err := crypto.CanonicalJSON(v)
	if err != nil {
		panic(fmt.Sprintf("unencodable record: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Sprintf("undecodable record: %v", err))
	}
	return out
}

func sortRecords(records []model.MirrorRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
}
