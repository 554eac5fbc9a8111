package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/models"
)

// Category kinds stored in snapshot_categories.
const (
	kindSource    = "source"
	kindQueryType = "querytype"
)

// Window is how much over-time history is served from the cache.
const Window = 24 * time.Hour

// ErrNoSnapshot is returned when the cache is empty.
var ErrNoSnapshot = errors.New("no cached snapshot")

// SaveSnapshot stores the buckets and category data of snap.
func (db *DB) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveBuckets(ctx, tx, snap.Series, fetchedAt); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (fetched_at, blocked_percentage, has_sources, has_query_types)
		VALUES (?, ?, ?, ?)`,
		fetchedAt.Unix(), snap.BlockedPercentageToday,
		boolToInt(snap.HasTopSources()), boolToInt(snap.HasQueryTypes()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read snapshot id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO snapshot_categories (snapshot_id, kind, name, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare category insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for name, v := range snap.TopSources {
		if _, err := stmt.ExecContext(ctx, id, kindSource, name, v); err != nil {
			return fmt.Errorf("failed to insert source %q: %w", name, err)
		}
	}
	for name, v := range snap.QueryTypes {
		if _, err := stmt.ExecContext(ctx, id, kindQueryType, name, v); err != nil {
			return fmt.Errorf("failed to insert query type %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func saveBuckets(ctx context.Context, tx *sql.Tx, series models.RawSeries, at time.Time) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO over_time (bucket, domains, ads, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(bucket) DO UPDATE SET
			domains = excluded.domains,
			ads = excluded.ads,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare bucket upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for bucket, domains := range series.DomainsOverTime {
		if _, err := stmt.ExecContext(ctx, bucket, domains, series.AdsOverTime[bucket], at.Unix()); err != nil {
			return fmt.Errorf("failed to upsert bucket %d: %w", bucket, err)
		}
	}
	return nil
}

// LatestSnapshot rebuilds the most recent snapshot. Its series covers the
// Window that ends at the newest cached bucket. The result is marked Cached.
func (db *DB) LatestSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var (
		id            int64
		fetchedAt     int64
		hasSources    bool
		hasQueryTypes bool
	)
	snap := &models.Snapshot{Cached: true}

	err := db.QueryRowContext(ctx, `
		SELECT id, fetched_at, blocked_percentage, has_sources, has_query_types
		FROM snapshots ORDER BY fetched_at DESC, id DESC LIMIT 1`,
	).Scan(&id, &fetchedAt, &snap.BlockedPercentageToday, &hasSources, &hasQueryTypes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	snap.FetchedAt = time.Unix(fetchedAt, 0)

	if snap.Series, err = db.series(ctx); err != nil {
		return nil, err
	}
	if hasSources {
		snap.TopSources = map[string]int{}
	}
	if hasQueryTypes {
		snap.QueryTypes = map[string]float64{}
	}

	rows, err := db.QueryContext(ctx,
		"SELECT kind, name, value FROM snapshot_categories WHERE snapshot_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind, name string
		var value float64
		if err := rows.Scan(&kind, &name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		switch kind {
		case kindSource:
			if snap.TopSources != nil {
				snap.TopSources[name] = int(value)
			}
		case kindQueryType:
			if snap.QueryTypes != nil {
				snap.QueryTypes[name] = value
			}
		default:
			logger.Warn("unknown cached category", "kind", kind, "name", name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return snap, nil
}

func (db *DB) series(ctx context.Context) (models.RawSeries, error) {
	series := models.RawSeries{
		DomainsOverTime: map[int64]int{},
		AdsOverTime:     map[int64]int{},
	}

	rows, err := db.QueryContext(ctx, `
		SELECT bucket, domains, ads FROM over_time
		WHERE bucket > (SELECT COALESCE(MAX(bucket), 0) FROM over_time) - ?
		ORDER BY bucket`, int64(Window/time.Second))
	if err != nil {
		return series, fmt.Errorf("failed to query buckets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var bucket int64
		var domains, ads int
		if err := rows.Scan(&bucket, &domains, &ads); err != nil {
			return series, fmt.Errorf("failed to scan bucket: %w", err)
		}
		series.DomainsOverTime[bucket] = domains
		series.AdsOverTime[bucket] = ads
	}
	return series, rows.Err()
}

// Prune deletes buckets older than the window before now and every snapshot
// except the newest keep. It returns the number of deleted rows.
func (db *DB) Prune(ctx context.Context, now time.Time, keep int) (int64, error) {
	cutoff := now.Add(-Window).Unix()

	res, err := db.ExecContext(ctx, "DELETE FROM over_time WHERE bucket < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune buckets: %w", err)
	}
	buckets, _ := res.RowsAffected()

	res, err = db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY fetched_at DESC, id DESC LIMIT ?
		)`, max(keep, 1))
	if err != nil {
		return buckets, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	snaps, _ := res.RowsAffected()

	return buckets + snaps, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
