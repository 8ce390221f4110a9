package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) InsertUser(user data.User) (uuid.UUID, error) {
	query := `
		INSERT INTO users (id, name, email, password_hash, is_admin)
		VALUES (:id, :name, :email, :password_hash, :is_admin)
		RETURNING id`

	rows, err := r.db.NamedQuery(query, user)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert user: %w", err)
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

func (r *UserRepo) GetUserByID(id uuid.UUID) (*data.User, error) {
	var user data.User
	query := "SELECT * FROM users WHERE id = $1"
	err := r.db.Get(&user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

func (r *UserRepo) GetUserByEmail(email string) (*data.User, error) {
	var user data.User
	query := "SELECT * FROM users WHERE email = $1"
	err := r.db.Get(&user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// GetSettings returns the user's channel preferences, falling back to
// all-enabled defaults when no row exists.
func (r *UserRepo) GetSettings(userID uuid.UUID) (data.NotificationSettings, error) {
	var settings data.NotificationSettings
	query := "SELECT user_id, notify_internal, notify_email, notify_push FROM notification_settings WHERE user_id = $1"
	err := r.db.Get(&settings, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return data.DefaultNotificationSettings(userID), nil
		}
		return data.NotificationSettings{}, fmt.Errorf("get notification settings: %w", err)
	}

	return settings, nil
}

func (r *UserRepo) UpsertSettings(settings data.NotificationSettings) error {
	query := `
		INSERT INTO notification_settings (user_id, notify_internal, notify_email, notify_push)
		VALUES (:user_id, :notify_internal, :notify_email, :notify_push)
		ON CONFLICT (user_id)
		DO UPDATE SET notify_internal = :notify_internal, notify_email = :notify_email, notify_push = :notify_push`

	_, err := r.db.NamedExec(query, settings)
	if err != nil {
		return fmt.Errorf("upsert notification settings: %w", err)
	}

	return nil
}
