package prompt

import (
	"fmt"
	"strings"

	"github.com/adityasw/creative-pretest/internal/domain/ai"
	"github.com/adityasw/creative-pretest/internal/domain/assets"
	"github.com/adityasw/creative-pretest/internal/domain/pretest"
)

// SchemaVersion tags the output contract requested from the reasoning
// service. Bump it whenever the JSON shape below changes.
const SchemaVersion = "pretest.v2"

const systemPrompt = `You are a senior market research analyst running a simulated creative pretest.
You simulate a panel of synthetic respondents drawn from the target persona, plus a general audience sample,
and produce a complete quantitative and qualitative pretest report for the supplied marketing assets.

Rules:
- Respond with a single JSON object and nothing else.
- Use every survey scale exactly as instructed: Likert items are integers 1-7, performance metrics are integers 0-100.
- Ground every judgement in the supplied assets; never invent asset content that was not provided.
- Keep respondent-level data internally consistent with the aggregate scores.`

// Build assembles the one multi-part request sent to the reasoning service.
// Part order is deterministic: briefing, then text, image, video and audio
// buckets in that order, then the output contract.
func Build(policy pretest.Policy, persona pretest.Persona, project pretest.ProjectContext, b *assets.Buckets) ai.Request {
	parts := []ai.Part{{Text: briefing(policy, persona, project)}}

	for i, t := range b.Text {
		parts = append(parts, ai.Part{Text: textSection(i+1, t)})
	}
	for i, img := range b.Image {
		parts = append(parts, ai.Part{Text: fmt.Sprintf("IMAGE ASSET %d (%s): evaluate the attached still.", i+1, img.AssetID)})
		parts = append(parts, ai.Part{Image: img.Image})
	}
	for i, v := range b.Video {
		parts = append(parts, ai.Part{Text: videoSection(i+1, v)})
		for _, frame := range v.Frames {
			parts = append(parts, ai.Part{Image: frame})
		}
	}
	for i, a := range b.Audio {
		parts = append(parts, ai.Part{Text: audioSection(i+1, a)})
	}

	parts = append(parts, ai.Part{Text: outputContract(policy, b.PrimaryVideoDuration())})

	return ai.Request{
		System:        systemPrompt,
		Parts:         parts,
		SchemaVersion: SchemaVersion,
	}
}

func briefing(policy pretest.Policy, persona pretest.Persona, project pretest.ProjectContext) string {
	var sb strings.Builder

	sb.WriteString("TARGET PERSONA\n")
	fmt.Fprintf(&sb, "- Name: %s (%s)\n", persona.Name, persona.AudienceType)
	fmt.Fprintf(&sb, "- Age range: %d-%d\n", persona.AgeMin, persona.AgeMax)
	if len(persona.Gender) > 0 {
		fmt.Fprintf(&sb, "- Gender: %s\n", strings.Join(persona.Gender, ", "))
	}
	if persona.Geography != "" {
		fmt.Fprintf(&sb, "- Geography: %s\n", persona.Geography)
	}
	if persona.IncomeMin > 0 || persona.IncomeMax > 0 {
		fmt.Fprintf(&sb, "- Income: %.0f-%.0f\n", persona.IncomeMin, persona.IncomeMax)
	}
	if len(persona.Interests) > 0 {
		fmt.Fprintf(&sb, "- Interests: %s\n", strings.Join(persona.Interests, ", "))
	}
	if len(persona.Platforms) > 0 {
		fmt.Fprintf(&sb, "- Platforms: %s\n", strings.Join(persona.Platforms, ", "))
	}
	if persona.LifeStage != "" {
		fmt.Fprintf(&sb, "- Life stage: %s\n", persona.LifeStage)
	}
	p := persona.Preferences
	fmt.Fprintf(&sb, "- Creative preferences (1-10): clarity %.1f, relevance %.1f, distinctiveness %.1f, brand fit %.1f, emotion %.1f, CTA %.1f, inclusivity %.1f\n",
		p.Clarity, p.Relevance, p.Distinctiveness, p.BrandFit, p.Emotion, p.CTA, p.Inclusivity)

	sb.WriteString("\nCAMPAIGN CONTEXT\n")
	fmt.Fprintf(&sb, "- Project: %s\n", project.Name)
	fmt.Fprintf(&sb, "- Brand / product: %s / %s (%s)\n", project.Brand, project.Product, project.ProductServiceType)
	fmt.Fprintf(&sb, "- Category: %s, market maturity: %s\n", project.Category, project.MarketMaturity)
	fmt.Fprintf(&sb, "- Objective: %s\n", project.CampaignObjective)
	if len(project.ValuePropositions) > 0 {
		fmt.Fprintf(&sb, "- Value propositions: %s\n", strings.Join(project.ValuePropositions, "; "))
	}
	if len(project.MediaChannels) > 0 {
		fmt.Fprintf(&sb, "- Media channels: %s\n", strings.Join(project.MediaChannels, ", "))
	}
	if len(project.KPIs) > 0 {
		fmt.Fprintf(&sb, "- KPIs: %s (target: %s)\n", strings.Join(project.KPIs, ", "), project.KPITarget)
	}

	sb.WriteString("\nMETHODOLOGY\n")
	fmt.Fprintf(&sb, "- Simulated sample size: %d respondents matching the persona\n", policy.SampleSize)
	fmt.Fprintf(&sb, "- Respondent-level panel: exactly %d records, respondent_id starting at 1001 and incrementing by 1\n", policy.PanelSize)
	sb.WriteString("- Survey items use a 1-7 Likert scale; performance metrics use 0-100 integers\n")
	sb.WriteString("- Demographic breakdown percentages must sum to exactly 100 for the age buckets and exactly 100 for the gender split\n")

	return sb.String()
}

func textSection(n int, t assets.ProcessedContent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TEXT ASSET %d (%s)\n", n, t.AssetID)
	if t.AdCopy != "" {
		fmt.Fprintf(&sb, "Ad copy:\n%s\n", t.AdCopy)
	}
	if t.VoiceScript != "" {
		fmt.Fprintf(&sb, "Voice-over script:\n%s\n", t.VoiceScript)
	}
	return sb.String()
}

func videoSection(n int, v assets.ProcessedContent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "VIDEO ASSET %d (%s)\n", n, v.AssetID)
	if v.Video.DurationSeconds > 0 {
		fmt.Fprintf(&sb, "Duration: %.1f seconds at %.2f fps (%d frames)\n",
			v.Video.DurationSeconds, v.Video.FPS, v.Video.TotalFrames)
	} else {
		sb.WriteString("Duration: unknown (container carried no usable timing metadata)\n")
	}
	if v.Transcript != "" {
		fmt.Fprintf(&sb, "Transcript:\n%s\n", v.Transcript)
	}
	fmt.Fprintf(&sb, "The next %d images are stills sampled evenly across the video, in playback order.\n", len(v.Frames))
	return sb.String()
}

func audioSection(n int, a assets.ProcessedContent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "AUDIO ASSET %d (%s)\n", n, a.AssetID)
	if a.Transcript != "" {
		fmt.Fprintf(&sb, "Transcript:\n%s\n", a.Transcript)
	}
	f := a.Acoustic
	fmt.Fprintf(&sb, "Acoustic profile: duration %.1fs, tempo %.0f BPM, avg energy %.4f (variance %.6f), spectral centroid %.0f Hz, zero-crossing rate %.4f, silence ratio %.2f, ~%d pauses\n",
		f.DurationSeconds, f.TempoBPM, f.AverageEnergy, f.EnergyVariance,
		f.SpectralCentroidMean, f.ZeroCrossingRate, f.SilenceRatio, f.EstimatedPauseCount)
	return sb.String()
}

// outputContract spells out the exact JSON shape, including the tier-gated
// creative-director section and the duration-keyed video timelines.
func outputContract(policy pretest.Policy, videoDuration float64) string {
	var sb strings.Builder

	sb.WriteString("OUTPUT CONTRACT\nRespond with exactly one JSON object containing these top-level keys:\n\n")
	sb.WriteString(`"objectives": array of 3-5 strings describing what this pretest measured
"methodology": {"sample_size": ` + fmt.Sprint(policy.SampleSize) + `, "audience": string, "gender_split": string, "design": string, "platform": string, "confidence_level": string, "metrics_measured": array of strings}
"performance_insights": {"overall_performance_score": 0-100, "engagement": 0-100, "click_through_likelihood": 0-100, "relevance": 0-100, "conversion_potential": 0-100}
"audience_feedback": {"survey_responses": {"takeaway": string, "clarity": 1-7, "brand_linkage": 1-7, "relevance": 1-7, "distinctiveness": 1-7, "emotions_felt": array of strings, "persuasion_intent": 1-7, "cta_clarity": 1-7, "craft_execution": 1-7}, "detailed_critique": array, "strengths_identified": array, "improvement_areas": array}
"general_audience_response": {"survey_responses": same shape as above, "overall_assessment": string, "engagement_potential": string, "trust_factors": string, "recommendations": array}
"normative_comparison": {"top_percentile": string, "category_standing": string, "memorability_rank": string, "branding_effectiveness": string}
"verbatim_highlights": array of 4-8 quoted respondent reactions
"optimization_recommendations": {"keep": array, "improve": array, "adjust": array, "next_steps": string}
"demographic_breakdown": {"age_18_24": int, "age_25_34": int, "age_35_44": int, "age_45_plus": int, "male": int, "female": int, "other_gender": int}
"respondent_data": array of exactly ` + fmt.Sprint(policy.PanelSize) + ` records {"respondent_id": 1001+, "gender": "M"|"F", "age": int, "appeal_score": 1-10, "brand_recall_aided": 0|1, "message_clarity": 1-10, "purchase_intent": 0.0-1.0}
"technical_appendix": {"metrics_scale": string, "statistical_confidence": string, "data_source": string, "export_formats": array}
`)

	switch policy.CreativeDirector {
	case pretest.Required:
		sb.WriteString("\n\"creative_director_analysis\" is REQUIRED: {\"survey_responses\": {\"takeaway_accuracy\": string, \"clarity_professional\": 1-7, \"brand_linkage_strength\": 1-7, \"relevance_demographic\": 1-7, \"distinctiveness_category\": 1-7, \"emotions_strategic\": array, \"persuasion_effectiveness\": 1-7, \"cta_strategy\": 1-7, \"craft_professional\": 1-7}, \"overall_assessment\": string, \"technical_critique\": array, \"strategic_insights\": array, \"recommendations\": array}\n")
	case pretest.Forbidden:
		sb.WriteString("\nDo NOT include a \"creative_director_analysis\" key. The subscription tier does not cover it.\n")
	case pretest.Optional:
		sb.WriteString("\n\"creative_director_analysis\" may be included using the professional survey shape, or omitted.\n")
	}

	if videoDuration > 0 {
		ranges := pretest.SceneRanges(videoDuration)
		stamps := pretest.EmotionTimestamps(videoDuration)
		formatted := make([]string, len(stamps))
		for i, s := range stamps {
			formatted[i] = pretest.FormatTimestamp(s)
		}
		fmt.Fprintf(&sb, "\nThe primary video runs %.1f seconds, so also include:\n", videoDuration)
		fmt.Fprintf(&sb, "\"scene_by_scene_analysis\": exactly %d scenes covering these timestamp ranges in order: %s. Each scene: {\"scene_name\": string, \"timestamp_range\": string, \"attention_score\": 1-10, \"positive_emotion\": 1-10, \"confusion_level\": 0-100, \"branding_visibility\": 0-100}\n",
			len(ranges), strings.Join(ranges, ", "))
		fmt.Fprintf(&sb, "\"emotional_journey\": exactly %d points at timestamps %s. Each point: {\"timestamp\": string, \"primary_emotion\": string, \"intensity\": 1.0-10.0}\n",
			len(stamps), strings.Join(formatted, ", "))
		sb.WriteString("\"emotional_engagement_summary\": {\"peak_emotion\": string, \"peak_time_seconds\": number, \"low_engagement_scenes\": array, \"method\": string, \"summary\": string}\n")
	} else {
		sb.WriteString("\nDo NOT include \"scene_by_scene_analysis\", \"emotional_journey\" or \"emotional_engagement_summary\": no video with known duration was supplied.\n")
	}

	return sb.String()
}
