package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"world-travel-router/internal/models"
)

type neighborCacheRepository struct {
	store *Store
}

func (r *neighborCacheRepository) Get(ctx context.Context, fingerprint string) ([][]models.Neighbor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int
	err := r.store.db.QueryRowContext(ctx,
		`SELECT city_count FROM neighbor_indexes WHERE fingerprint = ?`, fingerprint,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get neighbor index: %w", err)
	}

	query := `SELECT city_index, neighbor_index, distance_km
	          FROM neighbor_cache
	          WHERE fingerprint = ?
	          ORDER BY city_index, rank`

	rows, err := r.store.db.QueryContext(ctx, query, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbor cache: %w", err)
	}
	defer rows.Close()

	lists := make([][]models.Neighbor, count)
	for i := range lists {
		lists[i] = []models.Neighbor{}
	}

	for rows.Next() {
		var city int
		var n models.Neighbor
		if err := rows.Scan(&city, &n.Index, &n.DistanceKm); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		if city < 0 || city >= count {
			return nil, fmt.Errorf("neighbor cache row for city %d outside table of %d", city, count)
		}
		lists[city] = append(lists[city], n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating neighbor cache: %w", err)
	}

	return lists, nil
}

func (r *neighborCacheRepository) Set(ctx context.Context, fingerprint string, lists [][]models.Neighbor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, query := range []string{
		`DELETE FROM neighbor_cache WHERE fingerprint = ?`,
		`DELETE FROM neighbor_indexes WHERE fingerprint = ?`,
	} {
		if _, err := tx.ExecContext(ctx, query, fingerprint); err != nil {
			return fmt.Errorf("failed to clear neighbor index: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO neighbor_indexes (fingerprint, city_count) VALUES (?, ?)`, fingerprint, len(lists),
	); err != nil {
		return fmt.Errorf("failed to create neighbor index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO neighbor_cache
	          (fingerprint, city_index, rank, neighbor_index, distance_km)
	          VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for city, list := range lists {
		for rank, n := range list {
			if _, err := stmt.ExecContext(ctx, fingerprint, city, rank, n.Index, n.DistanceKm); err != nil {
				return fmt.Errorf("failed to insert neighbor entry: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *neighborCacheRepository) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, query := range []string{"DELETE FROM neighbor_cache", "DELETE FROM neighbor_indexes"} {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to clear neighbor cache: %w", err)
		}
	}

	return tx.Commit()
}
