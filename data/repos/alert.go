package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type AlertRepo struct {
	db *sqlx.DB
}

func NewAlertRepo(db *sqlx.DB) *AlertRepo {
	return &AlertRepo{db}
}

// GetAllAlerts loads every alert config in one query. Cardinality is
// hundreds to low thousands, so no pagination.
func (r *AlertRepo) GetAllAlerts() ([]data.AlertConfig, error) {
	var alerts []data.AlertConfig
	query := `
		SELECT id, user_id, category_id, product_name_pattern, target_price, target_discount, created_at, last_matched_at
		FROM alert_configs
		ORDER BY created_at ASC`

	err := r.db.Select(&alerts, query)
	if err != nil {
		return nil, fmt.Errorf("get all alerts: %w", err)
	}

	return alerts, nil
}

func (r *AlertRepo) GetAlertsByUserID(userID uuid.UUID) ([]data.AlertConfig, error) {
	var alerts []data.AlertConfig
	query := `
		SELECT id, user_id, category_id, product_name_pattern, target_price, target_discount, created_at, last_matched_at
		FROM alert_configs
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := r.db.Select(&alerts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get alerts by user id: %w", err)
	}

	return alerts, nil
}

func (r *AlertRepo) CreateAlert(alert data.AlertConfig) (uuid.UUID, error) {
	query := `
		INSERT INTO alert_configs (id, user_id, category_id, product_name_pattern, target_price, target_discount)
		VALUES (:id, :user_id, :category_id, :product_name_pattern, :target_price, :target_discount)
		RETURNING id`

	rows, err := r.db.NamedQuery(query, alert)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create alert: %w", err)
	}
	defer rows.Close()

	var id uuid.UUID
	if rows.Next() {
		if err = rows.Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("scan returned id: %w", err)
		}
	}

	return id, nil
}

func (r *AlertRepo) DeleteAlert(id, userID uuid.UUID) error {
	query := "DELETE FROM alert_configs WHERE id = $1 AND user_id = $2"
	_, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}

	return nil
}

// SetLastMatched records the timestamp of the latest matcher pass that
// produced at least one match for this alert. Idempotent and commutative
// across reruns, so no locking is needed.
func (r *AlertRepo) SetLastMatched(id uuid.UUID, matchedAt time.Time) error {
	query := "UPDATE alert_configs SET last_matched_at = $1 WHERE id = $2"
	_, err := r.db.Exec(query, matchedAt, id)
	if err != nil {
		return fmt.Errorf("set last matched: %w", err)
	}

	return nil
}
