// transparency/gate_test.go
package transparency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
)

const (
	gateDeployment = "gpt-safe-v2.1-prod"
	gateModel      = "gpt-safe-v2.1"
)

func verifyAll(t *testing.T, s *Service, templates ...model.TemplateType) []model.ComplianceSubmission {
	t.Helper()
	subs := make([]model.ComplianceSubmission, 0, len(templates))
	for _, template := range templates {
		sub := submit(t, s, template)
		reviewed, err := s.Review(model.ComplianceReviewRequest{
			SubmissionID: sub.ID, Decision: "verify",
		}, "party_aud1")
		require.NoError(t, err)
		subs = append(subs, reviewed)
	}
	return subs
}

func TestGateClearedWhenAllVerifiedAndNoConcerns(t *testing.T) {
	s, _ := newTestService(t)
	verifyAll(t, s, model.DefaultRequiredTemplates...)

	status := s.DeploymentStatus(gateDeployment, gateModel, nil)
	assert.True(t, status.Cleared)
	assert.Empty(t, status.Blocking)
	assert.Empty(t, status.UnresolvedConcerns)
	require.Len(t, status.Templates, 3)
	for _, req := range status.Templates {
		assert.True(t, req.Verified, string(req.TemplateType))
	}
}

func TestGateBlockedByMissingTemplates(t *testing.T) {
	s, _ := newTestService(t)
	verifyAll(t, s, model.TemplateSafetyEvaluation)

	status := s.DeploymentStatus(gateDeployment, gateModel, nil)
	assert.False(t, status.Cleared)
	assert.Contains(t, status.Blocking, "required template capability_assessment not verified")
	assert.Contains(t, status.Blocking, "required template red_team_report not verified")
	assert.NotContains(t, status.Blocking, "required template safety_evaluation not verified")
}

func TestGateBlockedBySingleUnresolvedConcern(t *testing.T) {
	s, _ := newTestService(t)
	verifyAll(t, s, model.DefaultRequiredTemplates...)
	raiseConcern(t, s, gateDeployment)

	status := s.DeploymentStatus(gateDeployment, gateModel, nil)
	assert.False(t, status.Cleared)
	assert.Equal(t, []string{"1 unresolved concern"}, status.Blocking)
	require.Len(t, status.UnresolvedConcerns, 1)
}

func TestGateBlockedByMultipleUnresolvedConcerns(t *testing.T) {
	s, _ := newTestService(t)
	verifyAll(t, s, model.DefaultRequiredTemplates...)
	raiseConcern(t, s, gateDeployment)
	raiseConcern(t, s, gateDeployment)

	status := s.DeploymentStatus(gateDeployment, gateModel, nil)
	assert.Contains(t, status.Blocking, "2 unresolved concerns")
}

func TestGateClearsAfterConcernResolved(t *testing.T) {
	s, _ := newTestService(t)
	verifyAll(t, s, model.DefaultRequiredTemplates...)
	concern := raiseConcern(t, s, gateDeployment)

	require.False(t, s.DeploymentStatus(gateDeployment, gateModel, nil).Cleared)

	_, err := s.Resolve(model.ResolutionCreate{ConcernID: concern.ID, Outcome: model.OutcomeAccepted}, "party_aud1")
	require.NoError(t, err)

	status := s.DeploymentStatus(gateDeployment, gateModel, nil)
	assert.True(t, status.Cleared)
	assert.Empty(t, status.UnresolvedConcerns)
}

func TestGateCountsConcernsTargetingSubmissions(t *testing.T) {
	s, _ := newTestService(t)
	subs := verifyAll(t, s, model.DefaultRequiredTemplates...)
	raiseConcern(t, s, subs[0].ID)

	status := s.DeploymentStatus(gateDeployment, gateModel, nil)
	assert.False(t, status.Cleared)
	assert.Equal(t, []string{"1 unresolved concern"}, status.Blocking)
}

func TestGateIgnoresConcernsForOtherDeployments(t *testing.T) {
	s, _ := newTestService(t)
	verifyAll(t, s, model.DefaultRequiredTemplates...)
	raiseConcern(t, s, "atlas-v3-prod")

	assert.True(t, s.DeploymentStatus(gateDeployment, gateModel, nil).Cleared)
}

func TestGateRejectedSubmissionDoesNotSatisfy(t *testing.T) {
	s, _ := newTestService(t)
	sub := submit(t, s, model.TemplateSafetyEvaluation)
	_, err := s.Review(model.ComplianceReviewRequest{SubmissionID: sub.ID, Decision: "reject"}, "party_aud1")
	require.NoError(t, err)

	status := s.DeploymentStatus(gateDeployment, gateModel, []model.TemplateType{model.TemplateSafetyEvaluation})
	assert.False(t, status.Cleared)
	require.Len(t, status.Templates, 1)
	assert.False(t, status.Templates[0].Verified)
	assert.Empty(t, status.Templates[0].SubmissionID)
}

func TestGateLatestNonRejectedSubmissionDecides(t *testing.T) {
	s, _ := newTestService(t)

	first := submit(t, s, model.TemplateSafetyEvaluation)
	_, err := s.Review(model.ComplianceReviewRequest{SubmissionID: first.ID, Decision: "verify"}, "party_aud1")
	require.NoError(t, err)

	// A newer filing supersedes the verified one until it is reviewed.
	second := submit(t, s, model.TemplateSafetyEvaluation)

	required := []model.TemplateType{model.TemplateSafetyEvaluation}
	status := s.DeploymentStatus(gateDeployment, gateModel, required)
	assert.False(t, status.Cleared)
	assert.Equal(t, second.ID, status.Templates[0].SubmissionID)
	assert.Equal(t, model.SubmissionSubmitted, status.Templates[0].Status)

	// Rejecting the newer filing falls back to the verified one.
	_, err = s.Review(model.ComplianceReviewRequest{SubmissionID: second.ID, Decision: "reject"}, "party_aud1")
	require.NoError(t, err)

	status = s.DeploymentStatus(gateDeployment, gateModel, required)
	assert.True(t, status.Cleared)
	assert.Equal(t, first.ID, status.Templates[0].SubmissionID)
}

func TestGateModelIDMustMatch(t *testing.T) {
	s, _ := newTestService(t)
	verifyAll(t, s, model.DefaultRequiredTemplates...)

	status := s.DeploymentStatus(gateDeployment, "gpt-safe-v3", nil)
	assert.False(t, status.Cleared)
}

func TestClearanceCountsByStatus(t *testing.T) {
	s, _ := newTestService(t)
	raiseConcern(t, s, gateDeployment)
	responded := raiseConcern(t, s, gateDeployment)
	resolved := raiseConcern(t, s, gateDeployment)

	_, err := s.Respond(model.ResponseCreate{ConcernID: responded.ID, ResponderRole: model.RoleLab, Content: "ack"})
	require.NoError(t, err)
	_, err = s.Resolve(model.ResolutionCreate{ConcernID: resolved.ID, Outcome: model.OutcomeAccepted}, "party_aud1")
	require.NoError(t, err)

	clearance := s.Clearance(gateDeployment)
	assert.Equal(t, 3, clearance.TotalConcerns)
	assert.Equal(t, 1, clearance.OpenConcerns)
	assert.Equal(t, 1, clearance.RespondedConcerns)
	assert.Equal(t, 1, clearance.ResolvedConcerns)
	assert.False(t, clearance.Cleared)
	assert.Equal(t, "2 unresolved concerns", clearance.Message)
}

func TestClearanceCleared(t *testing.T) {
	s, _ := newTestService(t)
	concern := raiseConcern(t, s, gateDeployment)
	_, err := s.Resolve(model.ResolutionCreate{ConcernID: concern.ID, Outcome: model.OutcomeAccepted}, "party_aud1")
	require.NoError(t, err)

	clearance := s.Clearance(gateDeployment)
	assert.True(t, clearance.Cleared)
	assert.Equal(t, "no unresolved concerns", clearance.Message)

	empty := s.Clearance("never-seen")
	assert.True(t, empty.Cleared)
	assert.Zero(t, empty.TotalConcerns)
}

func TestGateDefaultRequiredTemplates(t *testing.T) {
	s, _ := newTestService(t)

	status := s.DeploymentStatus(gateDeployment, gateModel, nil)
	assert.Equal(t, model.DefaultRequiredTemplates, status.RequiredTemplates)
	assert.Len(t, status.Blocking, 3)
}
