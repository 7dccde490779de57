package sqlite

import (
	"context"
	"fmt"
	"strings"

	"world-travel-router/internal/database"
	"world-travel-router/internal/models"
)

type cityRepository struct {
	store *Store
}

const cityColumns = `name, lookup_key, country, population, lat, lng`

func (r *cityRepository) All(ctx context.Context) ([]models.City, error) {
	return r.List(ctx, database.CityFilter{})
}

func (r *cityRepository) List(ctx context.Context, filter database.CityFilter) ([]models.City, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT ` + cityColumns + ` FROM cities`
	var conditions []string
	var args []interface{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		conditions = append(conditions, `(name LIKE ? ESCAPE '\' OR lookup_key LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if country := strings.TrimSpace(filter.Country); country != "" {
		conditions = append(conditions, `country = ? COLLATE NOCASE`)
		args = append(args, country)
	}
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY position`

	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities := []models.City{}
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.Name, &c.Key, &c.Country, &c.Population, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cities: %w", err)
	}

	return cities, nil
}

func (r *cityRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cities: %w", err)
	}
	return count, nil
}

// ReplaceAll swaps the city table in one transaction, keeping slice order as
// the stored position.
func (r *cityRepository) ReplaceAll(ctx context.Context, cities []models.City) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cities`); err != nil {
		return fmt.Errorf("failed to clear cities: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cities (position, `+cityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range cities {
		if _, err := stmt.ExecContext(ctx, i, c.Name, c.Key, c.Country, c.Population, c.Latitude, c.Longitude); err != nil {
			return fmt.Errorf("failed to insert city %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
