package pretest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	domai "github.com/adityasw/creative-pretest/internal/domain/ai"
	"github.com/adityasw/creative-pretest/internal/domain/assets"
	domain "github.com/adityasw/creative-pretest/internal/domain/pretest"
)

type stubAnalyzer struct {
	outcome domai.Outcome
	err     error
	calls   int
}

func (s *stubAnalyzer) Invoke(ctx context.Context, req domai.Request) (domai.Outcome, error) {
	s.calls++
	return s.outcome, s.err
}

type memRepo struct {
	saved []*domain.Pretest
}

func (r *memRepo) Save(ctx context.Context, p *domain.Pretest) error {
	r.saved = append(r.saved, p)
	return nil
}

func (r *memRepo) Get(ctx context.Context, tenant string, id domain.PretestID) (*domain.Pretest, error) {
	for _, p := range r.saved {
		if p.ID == id && p.TenantID == tenant {
			return p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (r *memRepo) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Pretest, error) {
	return r.saved, nil
}

type memArtifacts struct {
	keys []string
}

func (a *memArtifacts) UploadJSON(ctx context.Context, key string, data []byte) (string, error) {
	a.keys = append(a.keys, key)
	return "http://store/" + key, nil
}

type memCache struct {
	entries map[string]*domain.AnalysisResult
}

func (c *memCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool, error) {
	res, ok := c.entries[key]
	return res, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, res *domain.AnalysisResult) error {
	if c.entries == nil {
		c.entries = map[string]*domain.AnalysisResult{}
	}
	c.entries[key] = res
	return nil
}

func newTestService(analyzer *stubAnalyzer) (*Service, *memRepo, *memArtifacts) {
	repo := &memRepo{}
	artifacts := &memArtifacts{}
	svc := &Service{
		Repo:      repo,
		Artifacts: artifacts,
		Analyzer:  analyzer,
		Processor: newTestProcessor(&stubFetcher{}, &stubVideo{}, &stubAudio{}, &stubTranscriber{}),
		Log:       zerolog.Nop(),
	}
	return svc, repo, artifacts
}

func textRequest(tier domain.Tier) domain.AnalysisRequest {
	return domain.AnalysisRequest{
		Persona: domain.Persona{Name: "Persona", AudienceType: "primary", AgeMin: 25, AgeMax: 34},
		Project: domain.ProjectContext{Name: "Launch", Brand: "Acme", Product: "Widget"},
		Assets:  []assets.CreativeAsset{{ID: "t1", Kind: assets.KindText, AdCopy: "Buy it"}},
		Tier:    tier,
	}
}

func TestRunDeliversValidatedResult(t *testing.T) {
	policy := domain.PolicyFor(domain.TierFree)
	analyzer := &stubAnalyzer{outcome: domai.Outcome{Raw: validPayload(t, policy)}}
	svc, repo, artifacts := newTestService(analyzer)

	res, run, err := svc.Run(context.Background(), "acme", textRequest(domain.TierFree))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Status != domain.ResultAnalyzed {
		t.Fatalf("status = %q, want %q", res.Status, domain.ResultAnalyzed)
	}
	if res.PretestID == "" {
		t.Fatalf("result must carry the run id")
	}
	if analyzer.calls != 1 {
		t.Fatalf("analyzer called %d times, want exactly 1", analyzer.calls)
	}
	if run.State != domain.StateDelivered {
		t.Fatalf("run state = %q, want delivered", run.State)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("run not persisted")
	}
	if len(artifacts.keys) != 1 {
		t.Fatalf("result artifact not uploaded")
	}
	if run.ArtifactURL == "" {
		t.Fatalf("artifact url not recorded on the run")
	}
}

func TestRunSubstitutesFallbackOnInvocationError(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("connection reset")}
	svc, _, _ := newTestService(analyzer)

	res, run, err := svc.Run(context.Background(), "acme", textRequest(domain.TierFree))
	if err != nil {
		t.Fatalf("invocation failure must degrade, not error: %v", err)
	}
	if res.Status != domain.ResultFallback {
		t.Fatalf("status = %q, want fallback", res.Status)
	}
	if res.ErrorMarker != domain.MarkerInvocationFailed {
		t.Fatalf("marker = %q, want %q", res.ErrorMarker, domain.MarkerInvocationFailed)
	}
	if analyzer.calls != 1 {
		t.Fatalf("failed invocations must not be retried, got %d calls", analyzer.calls)
	}
	if run.ResultStatus != domain.ResultFallback {
		t.Fatalf("run result status = %q, want fallback", run.ResultStatus)
	}
}

func TestRunSubstitutesFallbackOnRefusal(t *testing.T) {
	analyzer := &stubAnalyzer{outcome: domai.Outcome{Refused: true, Refusal: "cannot analyze this content"}}
	svc, _, _ := newTestService(analyzer)

	res, _, err := svc.Run(context.Background(), "acme", textRequest(domain.TierFree))
	if err != nil {
		t.Fatalf("refusal must degrade, not error: %v", err)
	}
	if res.ErrorMarker != domain.MarkerInvocationRefused {
		t.Fatalf("marker = %q, want %q", res.ErrorMarker, domain.MarkerInvocationRefused)
	}
}

func TestRunSubstitutesFallbackOnInvalidPayload(t *testing.T) {
	analyzer := &stubAnalyzer{outcome: domai.Outcome{Raw: []byte(`{"performance_insights":{"engagement":500}}`)}}
	svc, _, _ := newTestService(analyzer)

	res, _, err := svc.Run(context.Background(), "acme", textRequest(domain.TierFree))
	if err != nil {
		t.Fatalf("validation failure must degrade, not error: %v", err)
	}
	if res.ErrorMarker != domain.MarkerValidationFailed {
		t.Fatalf("marker = %q, want %q", res.ErrorMarker, domain.MarkerValidationFailed)
	}
	// the fallback must still honor the tier contract
	if len(res.RespondentData) != 20 {
		t.Fatalf("fallback panel size = %d, want 20", len(res.RespondentData))
	}
}

func TestRunRejectsEmptyAndUnknownAssets(t *testing.T) {
	svc, _, _ := newTestService(&stubAnalyzer{})

	if _, _, err := svc.Run(context.Background(), "acme", domain.AnalysisRequest{Tier: domain.TierFree}); !errors.Is(err, domain.ErrNoAssets) {
		t.Fatalf("empty request: err = %v, want ErrNoAssets", err)
	}

	req := textRequest(domain.TierFree)
	req.Assets = append(req.Assets, assets.CreativeAsset{ID: "x", Kind: assets.Kind("hologram")})
	if _, _, err := svc.Run(context.Background(), "acme", req); !errors.Is(err, assets.ErrUnknownKind) {
		t.Fatalf("unknown kind: err = %v, want ErrUnknownKind", err)
	}
}

func TestRunFailsHardWhenAllAssetsFailExtraction(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc, _, _ := newTestService(analyzer)

	req := domain.AnalysisRequest{
		Assets: []assets.CreativeAsset{{ID: "i1", Kind: assets.KindImage, FileURL: "http://cdn/missing.jpg"}},
		Tier:   domain.TierFree,
	}
	_, _, err := svc.Run(context.Background(), "acme", req)
	if !errors.Is(err, domain.ErrNoValidAssets) {
		t.Fatalf("err = %v, want ErrNoValidAssets", err)
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer must not be invoked without valid assets")
	}
}

type timeoutAnalyzer struct{}

func (timeoutAnalyzer) Invoke(ctx context.Context, req domai.Request) (domai.Outcome, error) {
	<-ctx.Done()
	return domai.Outcome{}, ctx.Err()
}

func TestRunFailsHardOnRequestTimeout(t *testing.T) {
	repo := &memRepo{}
	svc := &Service{
		Repo:      repo,
		Analyzer:  timeoutAnalyzer{},
		Processor: newTestProcessor(&stubFetcher{}, &stubVideo{}, &stubAudio{}, &stubTranscriber{}),
		Log:       zerolog.Nop(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, _, err := svc.Run(ctx, "acme", textRequest(domain.TierFree))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded (timeouts fail the request, no fallback)", err)
	}
	if len(repo.saved) != 1 || repo.saved[0].State != domain.StateFailed {
		t.Fatalf("timed-out run should persist in the failed state, got %+v", repo.saved)
	}
}

func TestRunServesCachedResult(t *testing.T) {
	policy := domain.PolicyFor(domain.TierFree)
	analyzer := &stubAnalyzer{outcome: domai.Outcome{Raw: validPayload(t, policy)}}
	svc, _, _ := newTestService(analyzer)
	svc.Cache = &memCache{}

	req := textRequest(domain.TierFree)
	if _, _, err := svc.Run(context.Background(), "acme", req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, _, err := svc.Run(context.Background(), "acme", req); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if analyzer.calls != 1 {
		t.Fatalf("analyzer called %d times, want 1 (second run served from cache)", analyzer.calls)
	}
}

func TestRunDoesNotCacheFallbacks(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("boom")}
	svc, _, _ := newTestService(analyzer)
	cache := &memCache{}
	svc.Cache = cache

	if _, _, err := svc.Run(context.Background(), "acme", textRequest(domain.TierFree)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("fallback results must never be cached")
	}
}
