// transparency/gate.go
package transparency

import (
	"fmt"

	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
)

// DeploymentStatus evaluates the deployment gate for (deploymentID,
// modelID). A deployment is cleared only when every required template has
// a verified latest submission and no concern targeting the deployment or
// its submissions is unresolved. Rejected submissions never satisfy a
// requirement; the newest non-rejected filing per template decides.
func (s *Service) DeploymentStatus(deploymentID, modelID string, required []model.TemplateType) model.DeploymentComplianceStatus {
	if len(required) == 0 {
		required = model.DefaultRequiredTemplates
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := model.DeploymentComplianceStatus{
		DeploymentID:       deploymentID,
		ModelID:            modelID,
		RequiredTemplates:  required,
		Templates:          make([]model.TemplateRequirement, 0, len(required)),
		UnresolvedConcerns: []model.ConcernSummary{},
		Blocking:           []string{},
	}

	for _, template := range required {
		req := model.TemplateRequirement{TemplateType: template}
		// Later filings supersede earlier ones; the slice is append-only
		// so the last non-rejected match is the newest.
		for _, sub := range s.state.Submissions {
			if sub.DeploymentID != deploymentID || sub.ModelID != modelID || sub.TemplateType != template {
				continue
			}
			if sub.Status == model.SubmissionRejected {
				continue
			}
			req.SubmissionID = sub.ID
			req.Status = sub.Status
			req.Verified = sub.Status == model.SubmissionVerified
		}
		result.Templates = append(result.Templates, req)
		if !req.Verified {
			result.Blocking = append(result.Blocking,
				fmt.Sprintf("required template %s not verified", template))
		}
	}

	for _, c := range s.unresolvedConcernsFor(deploymentID) {
		result.UnresolvedConcerns = append(result.UnresolvedConcerns, model.ConcernSummary{
			ID:     c.ID,
			Title:  c.Title,
			Status: c.Status,
			Target: c.Target,
		})
	}
	if n := len(result.UnresolvedConcerns); n == 1 {
		result.Blocking = append(result.Blocking, "1 unresolved concern")
	} else if n > 1 {
		result.Blocking = append(result.Blocking, fmt.Sprintf("%d unresolved concerns", n))
	}

	result.Cleared = len(result.Blocking) == 0
	return result
}

// unresolvedConcernsFor returns concerns still blocking deploymentID. A
// concern counts when its target names the deployment itself or any of the
// deployment's submissions. Caller holds the lock.
func (s *Service) unresolvedConcernsFor(deploymentID string) []model.Concern {
	submissionIDs := map[string]bool{}
	for _, sub := range s.state.Submissions {
		if sub.DeploymentID == deploymentID {
			submissionIDs[sub.ID] = true
		}
	}

	var out []model.Concern
	for _, c := range s.state.Concerns {
		if !c.Unresolved() {
			continue
		}
		if c.Target == deploymentID || submissionIDs[c.Target] {
			out = append(out, c)
		}
	}
	return out
}

// Clearance summarizes the concern side of the gate for one deployment.
func (s *Service) Clearance(deploymentID string) model.DeploymentClearance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	submissionIDs := map[string]bool{}
	for _, sub := range s.state.Submissions {
		if sub.DeploymentID == deploymentID {
			submissionIDs[sub.ID] = true
		}
	}

	clearance := model.DeploymentClearance{DeploymentID: deploymentID}
	unresolved := 0
	for _, c := range s.state.Concerns {
		if c.Target != deploymentID && !submissionIDs[c.Target] {
			continue
		}
		clearance.TotalConcerns++
		switch c.Status {
		case model.ConcernOpen:
			clearance.OpenConcerns++
		case model.ConcernResponded:
			clearance.RespondedConcerns++
		case model.ConcernDisputed:
			clearance.DisputedConcerns++
		case model.ConcernResolved:
			clearance.ResolvedConcerns++
		}
		if c.Unresolved() {
			unresolved++
		}
	}

	clearance.Cleared = unresolved == 0
	if clearance.Cleared {
		clearance.Message = "no unresolved concerns"
	} else if unresolved == 1 {
		clearance.Message = "1 unresolved concern"
	} else {
		clearance.Message = fmt.Sprintf("%d unresolved concerns", unresolved)
	}
	return clearance
}
