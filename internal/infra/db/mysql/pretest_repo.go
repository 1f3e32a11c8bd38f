package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/adityasw/creative-pretest/internal/domain/pretest"
)

type PretestRepository struct {
	db *sql.DB
}

func NewPretestRepository(db *sql.DB) *PretestRepository {
	return &PretestRepository{db: db}
}

// Save insert/update pretest record
func (r *PretestRepository) Save(ctx context.Context, p *domain.Pretest) error {
	const q = `
INSERT INTO creative_pretests
(id, tenant_id, created_at, tier, state, result_status,
 overall_score, asset_count, artifact_url, duration_ms)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 state=VALUES(state), result_status=VALUES(result_status),
 overall_score=VALUES(overall_score),
 artifact_url=VALUES(artifact_url), duration_ms=VALUES(duration_ms);
`
	tenant := stringOrDash(p.TenantID)
	tier := stringOrDash(string(p.Tier))
	state := stringOrDash(string(p.State))
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		p.ID, tenant, created, tier, state, string(p.ResultStatus),
		p.OverallScore, p.AssetCount, p.ArtifactURL, p.DurationMS,
	)
	return err
}

// Get by ID + Tenant
func (r *PretestRepository) Get(ctx context.Context, tenant string, id domain.PretestID) (*domain.Pretest, error) {
	const q = `
SELECT id, tenant_id, created_at, tier, state, result_status,
       overall_score, asset_count, artifact_url, duration_ms
FROM creative_pretests
WHERE tenant_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, tenant, id)

	var p domain.Pretest
	if err := row.Scan(
		&p.ID, &p.TenantID, &p.CreatedAt, &p.Tier, &p.State, &p.ResultStatus,
		&p.OverallScore, &p.AssetCount, &p.ArtifactURL, &p.DurationMS,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Latest pretests per tenant
func (r *PretestRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Pretest, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, created_at, tier, state, result_status,
       overall_score, asset_count, artifact_url, duration_ms
FROM creative_pretests
WHERE tenant_id=? ORDER BY created_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Pretest
	for rows.Next() {
		var p domain.Pretest
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.CreatedAt, &p.Tier, &p.State, &p.ResultStatus,
			&p.OverallScore, &p.AssetCount, &p.ArtifactURL, &p.DurationMS,
		); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
