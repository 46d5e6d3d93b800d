package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresAlertStore persists geofence alerts directly into PostgreSQL
// for deployments that own the alerts table instead of going through the
// vacation store API
type PostgresAlertStore struct {
	db *sql.DB
}

// NewPostgresAlertStore opens a pooled connection and verifies it
func NewPostgresAlertStore(dsn string) (*PostgresAlertStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (also failed to close: %w)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresAlertStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresAlertStore) Close() error {
	return s.db.Close()
}

// CreateAlert inserts one alert row
func (s *PostgresAlertStore) CreateAlert(ctx context.Context, alert Alert) error {
	metadata, err := json.Marshal(alert.Metadata)
	if err != nil {
		return fmt.Errorf("marshal alert metadata: %w", err)
	}

	query := `
		INSERT INTO geofence_alerts (
			id, geofence_id, user_id, vacation_id, alert_type,
			latitude, longitude, distance_meters, message, metadata, triggered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.db.ExecContext(ctx, query,
		alert.ID,
		alert.GeofenceID,
		alert.UserID,
		alert.VacationID,
		alert.AlertType,
		alert.Latitude,
		alert.Longitude,
		alert.DistanceMeters,
		alert.Message,
		metadata,
		alert.TriggeredAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert failed: %w", err)
	}

	return nil
}

// RecentAlerts returns the most recent alerts for a vacation, newest first
func (s *PostgresAlertStore) RecentAlerts(ctx context.Context, vacationID string, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, geofence_id, user_id, vacation_id, alert_type,
			latitude, longitude, distance_meters, message, metadata, triggered_at
		FROM geofence_alerts
		WHERE vacation_id = $1
		ORDER BY triggered_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, vacationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }() // nolint:errcheck // Close in defer, error not actionable

	var alerts []Alert
	for rows.Next() {
		var a Alert
		var metadata []byte
		var message sql.NullString

		err := rows.Scan(
			&a.ID,
			&a.GeofenceID,
			&a.UserID,
			&a.VacationID,
			&a.AlertType,
			&a.Latitude,
			&a.Longitude,
			&a.DistanceMeters,
			&message,
			&metadata,
			&a.TriggeredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		if message.Valid {
			a.Message = message.String
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
				return nil, fmt.Errorf("decode alert metadata: %w", err)
			}
		}

		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return alerts, nil
}

// HealthCheck verifies database connectivity
func (s *PostgresAlertStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
