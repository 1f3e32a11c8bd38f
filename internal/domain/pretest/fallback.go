package pretest

import "fmt"

// FallbackResult builds a complete, schema-valid result used whenever the
// live call or its validation fails. Every section the tier contract demands
// is present with low-confidence placeholder values, so downstream rendering
// never has to branch on missing fields.
func FallbackResult(policy Policy, marker, reason string) *AnalysisResult {
	note := "Analysis unavailable"
	if reason != "" {
		note = fmt.Sprintf("Analysis unavailable: %s", reason)
	}

	survey := SurveyResponses{
		Takeaway:         note,
		Clarity:          4,
		BrandLinkage:     4,
		Relevance:        4,
		Distinctiveness:  4,
		EmotionsFelt:     []string{"neutral"},
		PersuasionIntent: 4,
		CTAClarity:       4,
		CraftExecution:   4,
	}

	res := &AnalysisResult{
		Status:      ResultFallback,
		ErrorMarker: marker,
		Objectives:  []string{note, "Re-run the pretest", "Contact support if the problem persists"},
		Methodology: Methodology{
			SampleSize:      policy.SampleSize,
			Audience:        "unavailable",
			GenderSplit:     "unavailable",
			Design:          "creative pretest",
			Platform:        "unavailable",
			ConfidenceLevel: "n/a",
			MetricsMeasured: []string{"engagement", "clarity", "brand_linkage", "relevance", "conversion_potential"},
		},
		PerformanceInsights: PerformanceInsights{},
		AudienceFeedback: AudienceFeedback{
			SurveyResponses:     survey,
			DetailedCritique:    []string{note},
			StrengthsIdentified: []string{note},
			ImprovementAreas:    []string{note},
		},
		GeneralAudienceResponse: GeneralAudienceResponse{
			SurveyResponses:     survey,
			OverallAssessment:   note,
			EngagementPotential: note,
			TrustFactors:        note,
			Recommendations:     []string{note},
		},
		NormativeComparison: NormativeComparison{
			TopPercentile:         "n/a",
			CategoryStanding:      note,
			MemorabilityRank:      "at norm",
			BrandingEffectiveness: "at norm",
		},
		VerbatimHighlights: []string{note},
		OptimizationRecommendations: OptimizationRecommendations{
			Keep:      []string{note},
			Improve:   []string{note},
			Adjust:    []string{note},
			NextSteps: note,
		},
		DemographicBreakdown: DemographicBreakdown{
			Age1824: 25, Age2534: 35, Age3544: 25, Age45Plus: 15,
			Male: 50, Female: 48, OtherGender: 2,
		},
		RespondentData: fallbackPanel(policy.PanelSize),
		TechnicalAppendix: TechnicalAppendix{
			MetricsScale:          "1-7 Likert scale for survey responses; 0-100 for performance metrics",
			StatisticalConfidence: "n/a",
			DataSource:            "fallback (no live analysis)",
			ExportFormats:         []string{"JSON", "PDF", "CSV"},
		},
	}

	if policy.CreativeDirector == Required {
		res.CreativeDirectorAnalysis = &CreativeDirectorAnalysis{
			SurveyResponses: DirectorSurveyResponses{
				TakeawayAccuracy:        note,
				ClarityProfessional:     4,
				BrandLinkageStrength:    4,
				RelevanceDemographic:    4,
				DistinctivenessCategory: 4,
				EmotionsStrategic:       []string{"neutral"},
				PersuasionEffectiveness: 4,
				CTAStrategy:             4,
				CraftProfessional:       4,
			},
			OverallAssessment: note,
			TechnicalCritique: []string{note},
			StrategicInsights: []string{note},
			Recommendations:   []string{note},
		}
	}

	return res
}

func fallbackPanel(n int) []Respondent {
	panel := make([]Respondent, n)
	for i := range panel {
		gender := "F"
		if i%2 == 0 {
			gender = "M"
		}
		panel[i] = Respondent{
			RespondentID:     1001 + i,
			Gender:           gender,
			Age:              30,
			AppealScore:      5,
			BrandRecallAided: 0,
			MessageClarity:   5,
			PurchaseIntent:   0.0,
		}
	}
	return panel
}
