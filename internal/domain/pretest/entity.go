package pretest

import (
	"time"

	"github.com/adityasw/creative-pretest/internal/domain/assets"
)

// ID tipe for a pretest run
type PretestID string

// State is the per-request lifecycle. States are never revisited.
type State string

const (
	StateBuilt               State = "built"
	StateInvoked             State = "invoked"
	StateSucceeded           State = "succeeded"
	StateRefused             State = "refused"
	StateFailed              State = "failed"
	StateValidated           State = "validated"
	StateFallbackSubstituted State = "fallback_substituted"
	StateDelivered           State = "delivered"
)

// CreativePreferences are the persona's seven 1-10 preference scores.
type CreativePreferences struct {
	Clarity         float64 `json:"clarity"`
	Relevance       float64 `json:"relevance"`
	Distinctiveness float64 `json:"distinctiveness"`
	BrandFit        float64 `json:"brand_fit"`
	Emotion         float64 `json:"emotion"`
	CTA             float64 `json:"cta"`
	Inclusivity     float64 `json:"inclusivity"`
}

// Persona is the synthetic target-audience profile. Read-only input.
type Persona struct {
	Name         string              `json:"name"`
	AudienceType string              `json:"audience_type"`
	Geography    string              `json:"geography,omitempty"`
	AgeMin       int                 `json:"age_min"`
	AgeMax       int                 `json:"age_max"`
	Gender       []string            `json:"gender"`
	IncomeMin    float64             `json:"income_min,omitempty"`
	IncomeMax    float64             `json:"income_max,omitempty"`
	Interests    []string            `json:"interests"`
	Platforms    []string            `json:"platforms"`
	LifeStage    string              `json:"life_stage,omitempty"`
	MinReach     int                 `json:"min_reach,omitempty"`
	MaxReach     int                 `json:"max_reach,omitempty"`
	Preferences  CreativePreferences `json:"preferences"`
}

// ProjectContext carries campaign/brand fields used purely as prompt context.
type ProjectContext struct {
	Name               string   `json:"name"`
	Brand              string   `json:"brand"`
	Product            string   `json:"product"`
	ProductServiceType string   `json:"product_service_type"`
	Category           string   `json:"category"`
	MarketMaturity     string   `json:"market_maturity"`
	CampaignObjective  string   `json:"campaign_objective"`
	ValuePropositions  []string `json:"value_propositions"`
	MediaChannels      []string `json:"media_channels"`
	KPIs               []string `json:"kpis"`
	KPITarget          string   `json:"kpi_target"`
}

// AnalysisRequest is the inbound unit of work.
type AnalysisRequest struct {
	Persona Persona                `json:"persona"`
	Project ProjectContext         `json:"project"`
	Assets  []assets.CreativeAsset `json:"assets"`
	Tier    Tier                   `json:"tier"`
	Title   string                 `json:"title,omitempty"`
}

// ResultStatus tells the caller whether the result came from a validated
// live analysis or a substituted fallback. Never inferred from missing fields.
type ResultStatus string

const (
	ResultAnalyzed ResultStatus = "analyzed"
	ResultFallback ResultStatus = "fallback"
)

// Error markers carried on fallback results.
const (
	MarkerInvocationRefused = "invocation_refused"
	MarkerInvocationFailed  = "invocation_failed"
	MarkerValidationFailed  = "validation_failed"
)

// PerformanceInsights holds the 0-100 integer scores.
type PerformanceInsights struct {
	OverallPerformanceScore int `json:"overall_performance_score"`
	Engagement              int `json:"engagement"`
	ClickThroughLikelihood  int `json:"click_through_likelihood"`
	Relevance               int `json:"relevance"`
	ConversionPotential     int `json:"conversion_potential"`
}

// SurveyResponses holds the nine survey metrics shared by the persona and
// general-audience blocks: one takeaway, seven 1-7 Likert integers, and the
// felt-emotions list.
type SurveyResponses struct {
	Takeaway         string   `json:"takeaway"`
	Clarity          int      `json:"clarity"`
	BrandLinkage     int      `json:"brand_linkage"`
	Relevance        int      `json:"relevance"`
	Distinctiveness  int      `json:"distinctiveness"`
	EmotionsFelt     []string `json:"emotions_felt"`
	PersuasionIntent int      `json:"persuasion_intent"`
	CTAClarity       int      `json:"cta_clarity"`
	CraftExecution   int      `json:"craft_execution"`
}

// Likert returns the seven numeric survey fields for range checking.
func (s SurveyResponses) Likert() []int {
	return []int{s.Clarity, s.BrandLinkage, s.Relevance, s.Distinctiveness, s.PersuasionIntent, s.CTAClarity, s.CraftExecution}
}

type AudienceFeedback struct {
	SurveyResponses     SurveyResponses `json:"survey_responses"`
	DetailedCritique    []string        `json:"detailed_critique"`
	StrengthsIdentified []string        `json:"strengths_identified"`
	ImprovementAreas    []string        `json:"improvement_areas"`
}

type GeneralAudienceResponse struct {
	SurveyResponses     SurveyResponses `json:"survey_responses"`
	OverallAssessment   string          `json:"overall_assessment"`
	EngagementPotential string          `json:"engagement_potential"`
	TrustFactors        string          `json:"trust_factors"`
	Recommendations     []string        `json:"recommendations"`
}

// DirectorSurveyResponses mirrors SurveyResponses with the professional
// metric names the creative-director block uses.
type DirectorSurveyResponses struct {
	TakeawayAccuracy        string   `json:"takeaway_accuracy"`
	ClarityProfessional     int      `json:"clarity_professional"`
	BrandLinkageStrength    int      `json:"brand_linkage_strength"`
	RelevanceDemographic    int      `json:"relevance_demographic"`
	DistinctivenessCategory int      `json:"distinctiveness_category"`
	EmotionsStrategic       []string `json:"emotions_strategic"`
	PersuasionEffectiveness int      `json:"persuasion_effectiveness"`
	CTAStrategy             int      `json:"cta_strategy"`
	CraftProfessional       int      `json:"craft_professional"`
}

func (s DirectorSurveyResponses) Likert() []int {
	return []int{s.ClarityProfessional, s.BrandLinkageStrength, s.RelevanceDemographic, s.DistinctivenessCategory, s.PersuasionEffectiveness, s.CTAStrategy, s.CraftProfessional}
}

type CreativeDirectorAnalysis struct {
	SurveyResponses   DirectorSurveyResponses `json:"survey_responses"`
	OverallAssessment string                  `json:"overall_assessment"`
	TechnicalCritique []string                `json:"technical_critique"`
	StrategicInsights []string                `json:"strategic_insights"`
	Recommendations   []string                `json:"recommendations"`
}

// Scene is one entry of the video-only scene timeline.
type Scene struct {
	SceneName          string `json:"scene_name"`
	TimestampRange     string `json:"timestamp_range"`
	AttentionScore     int    `json:"attention_score"`     // 1-10
	PositiveEmotion    int    `json:"positive_emotion"`    // 1-10
	ConfusionLevel     int    `json:"confusion_level"`     // 0-100
	BrandingVisibility int    `json:"branding_visibility"` // 0-100
}

// EmotionPoint is one sample of the video-only emotional-intensity timeline.
type EmotionPoint struct {
	Timestamp      string  `json:"timestamp"`
	PrimaryEmotion string  `json:"primary_emotion"`
	Intensity      float64 `json:"intensity"` // 1.0-10.0
}

// DemographicBreakdown holds two percentage groups; each must sum to 100.
type DemographicBreakdown struct {
	Age1824     int `json:"age_18_24"`
	Age2534     int `json:"age_25_34"`
	Age3544     int `json:"age_35_44"`
	Age45Plus   int `json:"age_45_plus"`
	Male        int `json:"male"`
	Female      int `json:"female"`
	OtherGender int `json:"other_gender"`
}

// AgeSum is the sum of the age-bucket percentages.
func (d DemographicBreakdown) AgeSum() int {
	return d.Age1824 + d.Age2534 + d.Age3544 + d.Age45Plus
}

// GenderSum is the sum of the gender percentages.
func (d DemographicBreakdown) GenderSum() int {
	return d.Male + d.Female + d.OtherGender
}

// Respondent is one synthetic panel record.
type Respondent struct {
	RespondentID     int     `json:"respondent_id"`
	Gender           string  `json:"gender"`
	Age              int     `json:"age"`
	AppealScore      int     `json:"appeal_score"`       // 1-10
	BrandRecallAided int     `json:"brand_recall_aided"` // 0 or 1
	MessageClarity   int     `json:"message_clarity"`    // 1-10
	PurchaseIntent   float64 `json:"purchase_intent"`    // 0.0-1.0
}

type Methodology struct {
	SampleSize      int      `json:"sample_size"`
	Audience        string   `json:"audience"`
	GenderSplit     string   `json:"gender_split"`
	Design          string   `json:"design"`
	Platform        string   `json:"platform"`
	ConfidenceLevel string   `json:"confidence_level"`
	MetricsMeasured []string `json:"metrics_measured"`
}

type NormativeComparison struct {
	TopPercentile         string `json:"top_percentile"`
	CategoryStanding      string `json:"category_standing"`
	MemorabilityRank      string `json:"memorability_rank"`
	BrandingEffectiveness string `json:"branding_effectiveness"`
}

type OptimizationRecommendations struct {
	Keep      []string `json:"keep"`
	Improve   []string `json:"improve"`
	Adjust    []string `json:"adjust"`
	NextSteps string   `json:"next_steps"`
}

type EmotionalEngagementSummary struct {
	PeakEmotion         string   `json:"peak_emotion"`
	PeakTimeSeconds     float64  `json:"peak_time_seconds"`
	LowEngagementScenes []string `json:"low_engagement_scenes"`
	Method              string   `json:"method"`
	Summary             string   `json:"summary"`
}

type TechnicalAppendix struct {
	MetricsScale          string   `json:"metrics_scale"`
	StatisticalConfidence string   `json:"statistical_confidence"`
	DataSource            string   `json:"data_source"`
	ExportFormats         []string `json:"export_formats"`
}

// AnalysisResult is the canonical output. It is created once per request and
// is either fully validated or a complete fallback, never a partial hybrid.
type AnalysisResult struct {
	PretestID   PretestID    `json:"pretest_id"`
	Status      ResultStatus `json:"status"`
	ErrorMarker string       `json:"error_marker,omitempty"`

	Objectives                  []string                    `json:"objectives"`
	Methodology                 Methodology                 `json:"methodology"`
	PerformanceInsights         PerformanceInsights         `json:"performance_insights"`
	AudienceFeedback            AudienceFeedback            `json:"audience_feedback"`
	GeneralAudienceResponse     GeneralAudienceResponse     `json:"general_audience_response"`
	CreativeDirectorAnalysis    *CreativeDirectorAnalysis   `json:"creative_director_analysis,omitempty"`
	NormativeComparison         NormativeComparison         `json:"normative_comparison"`
	SceneBySceneAnalysis        []Scene                     `json:"scene_by_scene_analysis,omitempty"`
	EmotionalJourney            []EmotionPoint              `json:"emotional_journey,omitempty"`
	EmotionalEngagementSummary  *EmotionalEngagementSummary `json:"emotional_engagement_summary,omitempty"`
	VerbatimHighlights          []string                    `json:"verbatim_highlights"`
	OptimizationRecommendations OptimizationRecommendations `json:"optimization_recommendations"`
	DemographicBreakdown        DemographicBreakdown        `json:"demographic_breakdown"`
	RespondentData              []Respondent                `json:"respondent_data"`
	TechnicalAppendix           TechnicalAppendix           `json:"technical_appendix"`

	CreatedAt         time.Time `json:"created_at"`
	ProcessingSeconds float64   `json:"processing_time"`
}

// Aggregate root: one pretest run as persisted.
type Pretest struct {
	ID           PretestID    `json:"id"`
	TenantID     string       `json:"tenant_id"`
	CreatedAt    time.Time    `json:"created_at"`
	Tier         Tier         `json:"tier"`
	State        State        `json:"state"`
	ResultStatus ResultStatus `json:"result_status,omitempty"`
	OverallScore int          `json:"overall_score"`
	AssetCount   int          `json:"asset_count"`
	ArtifactURL  string       `json:"artifact_url,omitempty"`
	DurationMS   int64        `json:"duration_ms"`
}
