package pretest

import "context"

// Repository port (persistence of pretest rows)
type Repository interface {
	Save(ctx context.Context, p *Pretest) error
	Get(ctx context.Context, tenant string, id PretestID) (*Pretest, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Pretest, error)
}

// ArtifactStore port (full result JSON goes to object storage)
type ArtifactStore interface {
	UploadJSON(ctx context.Context, key string, data []byte) (string, error)
}

// ResultCache is an explicit, injected cache keyed by request digest. A nil
// implementation disables caching; there is no process-global fallback.
type ResultCache interface {
	Get(ctx context.Context, key string) (*AnalysisResult, bool, error)
	Set(ctx context.Context, key string, res *AnalysisResult) error
}
