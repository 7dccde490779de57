package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"world-travel-router/internal/database"
	"world-travel-router/internal/models"
)

type journeyRepository struct {
	store *Store
}

func (r *journeyRepository) List(ctx context.Context, limit, offset int) ([]models.JourneySummary, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total int
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journeys`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journeys: %w", err)
	}

	query := `SELECT id, strategy, start_city, start_country, max_days, cities_count,
	                 total_days, complete, reason, created_at
	          FROM journeys
	          ORDER BY created_at DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.store.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query journeys: %w", err)
	}
	defer rows.Close()

	summaries := []models.JourneySummary{}
	for rows.Next() {
		var s models.JourneySummary
		var reason string
		if err := rows.Scan(&s.ID, &s.Strategy, &s.StartCity, &s.StartCountry, &s.MaxDays, &s.CitiesCount,
			&s.TotalDays, &s.Complete, &reason, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan journey: %w", err)
		}
		s.Reason = models.FailureReason(reason)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating journeys: %w", err)
	}

	return summaries, total, nil
}

func (r *journeyRepository) GetByID(ctx context.Context, id string) (*models.Journey, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := `SELECT id, strategy, start_city, start_country, max_days, total_hours,
	                 total_days, complete, reason, created_at
	          FROM journeys WHERE id = ?`

	var j models.Journey
	var reason string
	err := r.store.db.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.Strategy, &j.StartCity, &j.StartCountry, &j.MaxDays, &j.TotalHours,
		&j.TotalDays, &j.Complete, &reason, &j.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("journey %s: %w", id, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}
	j.Reason = models.FailureReason(reason)

	hopQuery := `SELECT from_city, to_city, from_lat, from_lng, to_lat, to_lng, rank, hours, distance_km
	             FROM journey_hops
	             WHERE journey_id = ?
	             ORDER BY seq`

	rows, err := r.store.db.QueryContext(ctx, hopQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query journey hops: %w", err)
	}
	defer rows.Close()

	j.Hops = []models.Hop{}
	for rows.Next() {
		var h models.Hop
		if err := rows.Scan(&h.From, &h.To, &h.FromCoords.Lat, &h.FromCoords.Lng,
			&h.ToCoords.Lat, &h.ToCoords.Lng, &h.Rank, &h.Hours, &h.DistanceKm); err != nil {
			return nil, fmt.Errorf("failed to scan journey hop: %w", err)
		}
		j.Hops = append(j.Hops, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journey hops: %w", err)
	}

	// The route is the start city followed by every hop destination
	j.Route = []string{}
	if len(j.Hops) > 0 {
		j.Route = append(j.Route, j.StartCity)
		for _, h := range j.Hops {
			j.Route = append(j.Route, h.To)
		}
	}

	return &j, nil
}

func (r *journeyRepository) Create(ctx context.Context, journey *models.Journey) (*models.Journey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if journey.ID == "" {
		journey.ID = uuid.New().String()
	}
	if journey.CreatedAt.IsZero() {
		journey.CreatedAt = time.Now()
	}

	journeyQuery := `INSERT INTO journeys
	                 (id, strategy, start_city, start_country, max_days, cities_count,
	                  total_hours, total_days, complete, reason, created_at)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, journeyQuery,
		journey.ID, journey.Strategy, journey.StartCity, journey.StartCountry, journey.MaxDays,
		len(journey.Route), journey.TotalHours, journey.TotalDays, journey.Complete,
		string(journey.Reason), journey.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create journey: %w", err)
	}

	hopQuery := `INSERT INTO journey_hops
	             (journey_id, seq, from_city, to_city, from_lat, from_lng, to_lat, to_lng,
	              rank, hours, distance_km)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for seq, h := range journey.Hops {
		_, err := tx.ExecContext(ctx, hopQuery,
			journey.ID, seq, h.From, h.To, h.FromCoords.Lat, h.FromCoords.Lng,
			h.ToCoords.Lat, h.ToCoords.Lng, h.Rank, h.Hours, h.DistanceKm,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create journey hop: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return journey, nil
}

func (r *journeyRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM journey_hops WHERE journey_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete journey hops: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM journeys WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete journey: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrNotFound
	}

	return tx.Commit()
}
