package pretest

import "testing"

func TestPolicyFor(t *testing.T) {
	cases := []struct {
		tier     Tier
		director Requirement
		sample   int
	}{
		{TierFree, Forbidden, 100},
		{TierStarter, Forbidden, 100},
		{TierProfessional, Required, 150},
		{TierAgency, Required, 150},
		{TierEnterprise, Required, 200},
		{Tier("ENTERPRISE"), Required, 200},
		{Tier("legacy-gold"), Optional, 100},
		{Tier(""), Optional, 100},
	}
	for _, c := range cases {
		p := PolicyFor(c.tier)
		if p.CreativeDirector != c.director {
			t.Fatalf("tier %q: director requirement = %v, want %v", c.tier, p.CreativeDirector, c.director)
		}
		if p.SampleSize != c.sample {
			t.Fatalf("tier %q: sample size = %d, want %d", c.tier, p.SampleSize, c.sample)
		}
		if p.PanelSize != 20 {
			t.Fatalf("tier %q: panel size = %d, want 20", c.tier, p.PanelSize)
		}
	}
}

func TestIncludeCreativeDirector(t *testing.T) {
	if PolicyFor(TierFree).IncludeCreativeDirector() {
		t.Fatalf("free tier must not request the creative director section")
	}
	if !PolicyFor(TierEnterprise).IncludeCreativeDirector() {
		t.Fatalf("enterprise tier must request the creative director section")
	}
	if !PolicyFor(Tier("unknown")).IncludeCreativeDirector() {
		t.Fatalf("unknown tier should still request the optional creative director section")
	}
}
