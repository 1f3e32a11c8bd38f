package pretest

import "strings"

// Tier enum
type Tier string

const (
	TierFree         Tier = "free"
	TierStarter      Tier = "starter"
	TierProfessional Tier = "professional"
	TierAgency       Tier = "agency"
	TierEnterprise   Tier = "enterprise"
)

// Requirement states whether a tier-gated section must be present, must be
// absent, or may be either.
type Requirement int

const (
	Forbidden Requirement = iota
	Required
	Optional
)

// Policy is the output-contract shape derived from the subscription tier.
type Policy struct {
	Tier             Tier
	PanelSize        int
	CreativeDirector Requirement
	SampleSize       int
}

// PolicyFor maps a tier name to its policy. Unknown names fall back to the
// free shape, except the creative-director section becomes Optional since we
// cannot know what the caller was sold.
func PolicyFor(t Tier) Policy {
	switch Tier(strings.ToLower(string(t))) {
	case TierFree:
		return Policy{Tier: TierFree, PanelSize: 20, CreativeDirector: Forbidden, SampleSize: 100}
	case TierStarter:
		return Policy{Tier: TierStarter, PanelSize: 20, CreativeDirector: Forbidden, SampleSize: 100}
	case TierProfessional:
		return Policy{Tier: TierProfessional, PanelSize: 20, CreativeDirector: Required, SampleSize: 150}
	case TierAgency:
		return Policy{Tier: TierAgency, PanelSize: 20, CreativeDirector: Required, SampleSize: 150}
	case TierEnterprise:
		return Policy{Tier: TierEnterprise, PanelSize: 20, CreativeDirector: Required, SampleSize: 200}
	default:
		return Policy{Tier: t, PanelSize: 20, CreativeDirector: Optional, SampleSize: 100}
	}
}

// IncludeCreativeDirector reports whether the prompt should request the
// creative-director section at all.
func (p Policy) IncludeCreativeDirector() bool {
	return p.CreativeDirector != Forbidden
}
