package pretest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domai "github.com/adityasw/creative-pretest/internal/domain/ai"
	"github.com/adityasw/creative-pretest/internal/domain/assets"
	domain "github.com/adityasw/creative-pretest/internal/domain/pretest"
	"github.com/adityasw/creative-pretest/internal/infra/ai/prompt"
)

// Service is the pretest use-case: process assets, invoke the reasoning
// service exactly once, validate or substitute, then persist and deliver.
type Service struct {
	Repo      domain.Repository
	Artifacts domain.ArtifactStore
	Cache     domain.ResultCache // nil disables caching
	Analyzer  domai.Analyzer
	Processor *Processor
	Log       zerolog.Logger
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run executes one analysis request end to end. The only hard failures are
// an empty or malformed request and a request whose assets all failed
// extraction; every downstream failure degrades to a fallback result.
func (s *Service) Run(ctx context.Context, tenant string, req domain.AnalysisRequest) (*domain.AnalysisResult, *domain.Pretest, error) {
	if len(req.Assets) == 0 {
		return nil, nil, domain.ErrNoAssets
	}
	for _, a := range req.Assets {
		if !a.Kind.Known() {
			return nil, nil, fmt.Errorf("%w: %q (asset %s)", assets.ErrUnknownKind, a.Kind, a.ID)
		}
	}

	start := s.now()
	policy := domain.PolicyFor(req.Tier)
	id := domain.PretestID(uuid.NewString())
	log := s.Log.With().Str("tenant", tenant).Str("pretest_id", string(id)).Logger()

	p := &domain.Pretest{
		ID:         id,
		TenantID:   tenant,
		CreatedAt:  start,
		Tier:       policy.Tier,
		State:      domain.StateBuilt,
		AssetCount: len(req.Assets),
	}

	cacheKey := requestDigest(tenant, req)
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(ctx, cacheKey); err != nil {
			log.Warn().Err(err).Msg("cache lookup failed")
		} else if ok {
			log.Info().Msg("serving cached analysis")
			p.State = domain.StateDelivered
			p.ResultStatus = cached.Status
			p.OverallScore = cached.PerformanceInsights.OverallPerformanceScore
			return cached, p, nil
		}
	}

	buckets, skipped := s.Processor.Process(ctx, req.Assets)
	for _, err := range skipped {
		log.Warn().Err(err).Msg("asset excluded from analysis")
	}
	if buckets.Total() == 0 {
		p.State = domain.StateFailed
		s.persist(ctx, log, p, nil)
		return nil, nil, domain.ErrNoValidAssets
	}

	videoDuration := buckets.PrimaryVideoDuration()
	aiReq := prompt.Build(policy, req.Persona, req.Project, buckets)

	p.State = domain.StateInvoked
	var res *domain.AnalysisResult
	outcome, err := s.Analyzer.Invoke(ctx, aiReq)
	switch {
	case err != nil && ctx.Err() != nil:
		// request-level timeout or cancellation fails the request outright
		p.State = domain.StateFailed
		s.persist(ctx, log, p, nil)
		return nil, nil, err
	case err != nil:
		log.Error().Err(err).Msg("invocation failed, substituting fallback")
		p.State = domain.StateFallbackSubstituted
		res = domain.FallbackResult(policy, domain.MarkerInvocationFailed, err.Error())
	case outcome.Refused:
		log.Warn().Str("refusal", outcome.Refusal).Msg("invocation refused, substituting fallback")
		p.State = domain.StateFallbackSubstituted
		res = domain.FallbackResult(policy, domain.MarkerInvocationRefused, outcome.Refusal)
	default:
		validated, verr := ValidateResult(outcome.Raw, policy, videoDuration)
		if verr != nil {
			log.Warn().Err(verr).Msg("validation failed, substituting fallback")
			p.State = domain.StateFallbackSubstituted
			res = domain.FallbackResult(policy, domain.MarkerValidationFailed, verr.Error())
		} else {
			p.State = domain.StateValidated
			res = validated
			res.Status = domain.ResultAnalyzed
		}
	}

	res.PretestID = id
	res.CreatedAt = start
	res.ProcessingSeconds = s.now().Sub(start).Seconds()

	p.ResultStatus = res.Status
	p.OverallScore = res.PerformanceInsights.OverallPerformanceScore
	p.DurationMS = s.now().Sub(start).Milliseconds()

	s.persist(ctx, log, p, res)

	if s.Cache != nil && res.Status == domain.ResultAnalyzed {
		if err := s.Cache.Set(ctx, cacheKey, res); err != nil {
			log.Warn().Err(err).Msg("cache store failed")
		}
	}

	p.State = domain.StateDelivered
	log.Info().
		Str("status", string(res.Status)).
		Int("overall_score", res.PerformanceInsights.OverallPerformanceScore).
		Int64("duration_ms", p.DurationMS).
		Msg("pretest delivered")
	return res, p, nil
}

// persist uploads the full result JSON and saves the pretest row. Neither
// failure withholds an already computed result from the caller, and a client
// disconnect must not lose the row.
func (s *Service) persist(ctx context.Context, log zerolog.Logger, p *domain.Pretest, res *domain.AnalysisResult) {
	ctx = context.WithoutCancel(ctx)
	if res != nil && s.Artifacts != nil {
		data, err := json.Marshal(res)
		if err == nil {
			key := fmt.Sprintf("%s/pretests/%s.json", p.TenantID, p.ID)
			url, uerr := s.Artifacts.UploadJSON(ctx, key, data)
			if uerr != nil {
				log.Warn().Err(uerr).Msg("artifact upload failed")
			} else {
				p.ArtifactURL = url
			}
		}
	}
	if s.Repo != nil {
		if err := s.Repo.Save(ctx, p); err != nil {
			log.Error().Err(err).Msg("pretest save failed")
		}
	}
}

// Get returns one persisted pretest row.
func (s *Service) Get(ctx context.Context, tenant string, id domain.PretestID) (*domain.Pretest, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Latest returns the most recent pretest rows for a tenant.
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Pretest, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// requestDigest keys the cache on the full request content, so any change to
// persona, project, assets or tier misses.
func requestDigest(tenant string, req domain.AnalysisRequest) string {
	h := sha256.New()
	h.Write([]byte(tenant))
	data, _ := json.Marshal(req)
	h.Write(data)
	return "pretest:" + hex.EncodeToString(h.Sum(nil))
}
