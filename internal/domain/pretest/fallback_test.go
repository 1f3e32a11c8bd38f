package pretest

import (
	"strings"
	"testing"
)

func TestFallbackResultShape(t *testing.T) {
	policy := PolicyFor(TierEnterprise)
	res := FallbackResult(policy, MarkerInvocationFailed, "upstream timeout")

	if res.Status != ResultFallback {
		t.Fatalf("status = %q, want %q", res.Status, ResultFallback)
	}
	if res.ErrorMarker != MarkerInvocationFailed {
		t.Fatalf("marker = %q, want %q", res.ErrorMarker, MarkerInvocationFailed)
	}
	if !strings.Contains(res.AudienceFeedback.SurveyResponses.Takeaway, "upstream timeout") {
		t.Fatalf("fallback takeaway should carry the failure reason, got %q", res.AudienceFeedback.SurveyResponses.Takeaway)
	}
	if res.Methodology.SampleSize != 200 {
		t.Fatalf("sample size = %d, want the enterprise 200", res.Methodology.SampleSize)
	}
	if res.CreativeDirectorAnalysis == nil {
		t.Fatalf("enterprise fallback must include the creative director section")
	}

	if got := res.DemographicBreakdown.AgeSum(); got != 100 {
		t.Fatalf("age percentages sum to %d, want 100", got)
	}
	if got := res.DemographicBreakdown.GenderSum(); got != 100 {
		t.Fatalf("gender percentages sum to %d, want 100", got)
	}

	if len(res.RespondentData) != policy.PanelSize {
		t.Fatalf("panel size = %d, want %d", len(res.RespondentData), policy.PanelSize)
	}
	for i, r := range res.RespondentData {
		if r.RespondentID != 1001+i {
			t.Fatalf("respondent %d has id %d, want %d", i, r.RespondentID, 1001+i)
		}
	}

	for _, v := range res.AudienceFeedback.SurveyResponses.Likert() {
		if v < 1 || v > 7 {
			t.Fatalf("fallback likert value %d outside 1-7", v)
		}
	}
}

func TestFallbackResultOmitsDirectorWhenForbidden(t *testing.T) {
	res := FallbackResult(PolicyFor(TierFree), MarkerValidationFailed, "")
	if res.CreativeDirectorAnalysis != nil {
		t.Fatalf("free tier fallback must not include the creative director section")
	}
	if len(res.SceneBySceneAnalysis) != 0 || len(res.EmotionalJourney) != 0 {
		t.Fatalf("fallback must not fabricate video timelines")
	}
}
