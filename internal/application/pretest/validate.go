package pretest

import (
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/adityasw/creative-pretest/internal/domain/pretest"
)

// ValidationError names the first contract violation found in a response.
// Any violation causes the whole result to be replaced by the fallback; a
// partially valid result is never delivered.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateResult parses the raw service output, normalizes its keys and
// checks every range, cardinality and tier-gating rule. videoDuration > 0
// means the duration-keyed video sections are expected.
func ValidateResult(raw []byte, policy domain.Policy, videoDuration float64) (*domain.AnalysisResult, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Field: "root", Reason: "response is not a JSON object"}
	}

	normalized, err := json.Marshal(normalizeKeys(doc))
	if err != nil {
		return nil, &ValidationError{Field: "root", Reason: err.Error()}
	}

	var res domain.AnalysisResult
	if err := json.Unmarshal(normalized, &res); err != nil {
		return nil, &ValidationError{Field: "root", Reason: fmt.Sprintf("schema mismatch: %v", err)}
	}

	if err := checkResult(&res, policy, videoDuration); err != nil {
		return nil, err
	}
	return &res, nil
}

// normalizeKeys lowercases object keys and maps spaces and dashes to
// underscores, recursively. Models drift on key casing; values pass through
// untouched.
func normalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			k = strings.ToLower(strings.TrimSpace(k))
			k = strings.ReplaceAll(k, " ", "_")
			k = strings.ReplaceAll(k, "-", "_")
			out[k] = normalizeKeys(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeKeys(t[i])
		}
		return t
	default:
		return v
	}
}

func checkResult(res *domain.AnalysisResult, policy domain.Policy, videoDuration float64) error {
	if err := checkPerformance(res.PerformanceInsights); err != nil {
		return err
	}
	if err := checkLikert("audience_feedback", res.AudienceFeedback.SurveyResponses.Likert()); err != nil {
		return err
	}
	if err := checkLikert("general_audience_response", res.GeneralAudienceResponse.SurveyResponses.Likert()); err != nil {
		return err
	}

	switch policy.CreativeDirector {
	case domain.Required:
		if res.CreativeDirectorAnalysis == nil {
			return &ValidationError{Field: "creative_director_analysis", Reason: "required for this tier but missing"}
		}
	case domain.Forbidden:
		if res.CreativeDirectorAnalysis != nil {
			return &ValidationError{Field: "creative_director_analysis", Reason: "not covered by this tier but present"}
		}
	}
	if res.CreativeDirectorAnalysis != nil {
		if err := checkLikert("creative_director_analysis", res.CreativeDirectorAnalysis.SurveyResponses.Likert()); err != nil {
			return err
		}
	}

	if err := checkDemographics(res.DemographicBreakdown); err != nil {
		return err
	}

	if err := checkPanel(res.RespondentData, policy.PanelSize); err != nil {
		return err
	}

	return checkVideoSections(res, videoDuration)
}

func checkPerformance(p domain.PerformanceInsights) error {
	scores := map[string]int{
		"overall_performance_score": p.OverallPerformanceScore,
		"engagement":                p.Engagement,
		"click_through_likelihood":  p.ClickThroughLikelihood,
		"relevance":                 p.Relevance,
		"conversion_potential":      p.ConversionPotential,
	}
	for name, v := range scores {
		if v < 0 || v > 100 {
			return &ValidationError{Field: "performance_insights." + name, Reason: fmt.Sprintf("%d outside 0-100", v)}
		}
	}
	return nil
}

func checkLikert(block string, scores []int) error {
	for i, v := range scores {
		if v < 1 || v > 7 {
			return &ValidationError{
				Field:  fmt.Sprintf("%s.survey_responses[%d]", block, i),
				Reason: fmt.Sprintf("%d outside Likert 1-7", v),
			}
		}
	}
	return nil
}

// checkDemographics requires every percentage in [0,100] before the sum
// checks, so buckets cannot cancel each other out.
func checkDemographics(d domain.DemographicBreakdown) error {
	fields := map[string]int{
		"age_18_24":    d.Age1824,
		"age_25_34":    d.Age2534,
		"age_35_44":    d.Age3544,
		"age_45_plus":  d.Age45Plus,
		"male":         d.Male,
		"female":       d.Female,
		"other_gender": d.OtherGender,
	}
	for name, v := range fields {
		if v < 0 || v > 100 {
			return &ValidationError{Field: "demographic_breakdown." + name, Reason: fmt.Sprintf("%d outside 0-100", v)}
		}
	}
	if sum := d.AgeSum(); sum != 100 {
		return &ValidationError{Field: "demographic_breakdown", Reason: fmt.Sprintf("age percentages sum to %d, want 100", sum)}
	}
	if sum := d.GenderSum(); sum != 100 {
		return &ValidationError{Field: "demographic_breakdown", Reason: fmt.Sprintf("gender percentages sum to %d, want 100", sum)}
	}
	return nil
}

func checkPanel(panel []domain.Respondent, size int) error {
	if len(panel) != size {
		return &ValidationError{Field: "respondent_data", Reason: fmt.Sprintf("%d records, want exactly %d", len(panel), size)}
	}
	for i, r := range panel {
		if r.RespondentID != 1001+i {
			return &ValidationError{Field: "respondent_data", Reason: fmt.Sprintf("record %d has id %d, want %d", i, r.RespondentID, 1001+i)}
		}
		if r.AppealScore < 1 || r.AppealScore > 10 {
			return &ValidationError{Field: "respondent_data.appeal_score", Reason: fmt.Sprintf("%d outside 1-10", r.AppealScore)}
		}
		if r.BrandRecallAided != 0 && r.BrandRecallAided != 1 {
			return &ValidationError{Field: "respondent_data.brand_recall_aided", Reason: fmt.Sprintf("%d is not 0 or 1", r.BrandRecallAided)}
		}
		if r.MessageClarity < 1 || r.MessageClarity > 10 {
			return &ValidationError{Field: "respondent_data.message_clarity", Reason: fmt.Sprintf("%d outside 1-10", r.MessageClarity)}
		}
		if r.PurchaseIntent < 0 || r.PurchaseIntent > 1 {
			return &ValidationError{Field: "respondent_data.purchase_intent", Reason: fmt.Sprintf("%v outside 0.0-1.0", r.PurchaseIntent)}
		}
	}
	return nil
}

func checkVideoSections(res *domain.AnalysisResult, videoDuration float64) error {
	if videoDuration <= 0 {
		if len(res.SceneBySceneAnalysis) > 0 || len(res.EmotionalJourney) > 0 || res.EmotionalEngagementSummary != nil {
			return &ValidationError{Field: "scene_by_scene_analysis", Reason: "video sections present but no video duration is known"}
		}
		return nil
	}

	wantScenes := domain.SceneCount(videoDuration)
	if len(res.SceneBySceneAnalysis) != wantScenes {
		return &ValidationError{Field: "scene_by_scene_analysis", Reason: fmt.Sprintf("%d scenes, want %d for a %.1fs video", len(res.SceneBySceneAnalysis), wantScenes, videoDuration)}
	}
	for i, s := range res.SceneBySceneAnalysis {
		if s.AttentionScore < 1 || s.AttentionScore > 10 {
			return &ValidationError{Field: fmt.Sprintf("scene_by_scene_analysis[%d].attention_score", i), Reason: fmt.Sprintf("%d outside 1-10", s.AttentionScore)}
		}
		if s.PositiveEmotion < 1 || s.PositiveEmotion > 10 {
			return &ValidationError{Field: fmt.Sprintf("scene_by_scene_analysis[%d].positive_emotion", i), Reason: fmt.Sprintf("%d outside 1-10", s.PositiveEmotion)}
		}
		if s.ConfusionLevel < 0 || s.ConfusionLevel > 100 {
			return &ValidationError{Field: fmt.Sprintf("scene_by_scene_analysis[%d].confusion_level", i), Reason: fmt.Sprintf("%d outside 0-100", s.ConfusionLevel)}
		}
		if s.BrandingVisibility < 0 || s.BrandingVisibility > 100 {
			return &ValidationError{Field: fmt.Sprintf("scene_by_scene_analysis[%d].branding_visibility", i), Reason: fmt.Sprintf("%d outside 0-100", s.BrandingVisibility)}
		}
	}

	wantPoints := domain.EmotionPointCount(videoDuration)
	if len(res.EmotionalJourney) != wantPoints {
		return &ValidationError{Field: "emotional_journey", Reason: fmt.Sprintf("%d points, want %d for a %.1fs video", len(res.EmotionalJourney), wantPoints, videoDuration)}
	}
	for i, p := range res.EmotionalJourney {
		if p.Intensity < 1 || p.Intensity > 10 {
			return &ValidationError{Field: fmt.Sprintf("emotional_journey[%d].intensity", i), Reason: fmt.Sprintf("%v outside 1.0-10.0", p.Intensity)}
		}
	}
	return nil
}
