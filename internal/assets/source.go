package assets

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"reclaim/internal/config"
)

// candidateQuery selects video assets whose recorded dimensions both exceed
// the threshold, joined against their EXIF rows. The data source's natural
// order is kept; callers do not rely on ordering.
const candidateQuery = `
SELECT
    assets.id,
    assets."encodedVideoPath",
    assets."originalPath",
    exif."exifImageWidth",
    exif."exifImageHeight",
    exif."fileSizeInByte"
FROM assets
INNER JOIN exif ON exif."assetId" = assets.id
WHERE
    assets.type = 'VIDEO'
    AND exif."exifImageWidth" > $1
    AND exif."exifImageHeight" > $1
`

// Source fetches candidate assets from the Postgres asset database.
type Source struct {
	pool         *pgxpool.Pool
	resolver     Resolver
	minDimension int
}

// NewSource connects to the asset database described by cfg and verifies the
// connection with a ping.
func NewSource(ctx context.Context, cfg *config.Config) (*Source, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect asset database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping asset database: %w", err)
	}
	return &Source{
		pool: pool,
		resolver: Resolver{
			Root:   cfg.Paths.LibraryDir,
			Prefix: cfg.Reconcile.UploadPrefix,
		},
		minDimension: cfg.Reconcile.MinDimension,
	}, nil
}

// Close releases the database pool.
func (s *Source) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// FetchCandidates runs the candidate query and returns typed records with
// both paths resolved against the library convention. A query failure is
// fatal for the run and surfaced to the caller.
func (s *Source) FetchCandidates(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx, candidateQuery, s.minDimension)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id            string
			encodedStored *string
			storedPath    *string
			width, height int32
			sizeBytes     int64
		)
		if err := rows.Scan(&id, &encodedStored, &storedPath, &width, &height, &sizeBytes); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}

		record := Record{
			ID:        id,
			Width:     int(width),
			Height:    int(height),
			SizeBytes: sizeBytes,
		}
		if encodedStored != nil {
			if resolved, ok := s.resolver.Resolve(*encodedStored); ok {
				record.EncodedPath = resolved
			}
		}
		if storedPath != nil {
			if resolved, ok := s.resolver.Resolve(*storedPath); ok {
				record.OriginalPath = resolved
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read candidate rows: %w", err)
	}
	return records, nil
}
