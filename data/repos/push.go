package repos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type PushRepo struct {
	db *sqlx.DB
}

func NewPushRepo(db *sqlx.DB) *PushRepo {
	return &PushRepo{db}
}

// UpsertSubscription registers a device token, re-binding it to the user on
// conflict since tokens migrate between accounts on shared devices.
func (r *PushRepo) UpsertSubscription(sub data.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (user_id, token, platform)
		VALUES (:user_id, :token, :platform)
		ON CONFLICT (token)
		DO UPDATE SET user_id = :user_id, platform = :platform`

	_, err := r.db.NamedExec(query, sub)
	if err != nil {
		return fmt.Errorf("upsert push subscription: %w", err)
	}

	return nil
}

func (r *PushRepo) GetTokensByUserID(userID uuid.UUID) ([]string, error) {
	var tokens []string
	query := "SELECT token FROM push_subscriptions WHERE user_id = $1"
	if err := r.db.Select(&tokens, query, userID); err != nil {
		return nil, fmt.Errorf("get push tokens by user id: %w", err)
	}

	return tokens, nil
}

// DeleteTokens prunes subscriptions the push provider reported as gone.
func (r *PushRepo) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	query, args, err := sqlx.In("DELETE FROM push_subscriptions WHERE token IN (?)", tokens)
	if err != nil {
		return fmt.Errorf("build delete push tokens: %w", err)
	}
	query = r.db.Rebind(query)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("delete push tokens: %w", err)
	}

	return nil
}

func (r *PushRepo) DeleteUserToken(userID uuid.UUID, token string) error {
	query := "DELETE FROM push_subscriptions WHERE user_id = $1 AND token = $2"
	if _, err := r.db.Exec(query, userID, token); err != nil {
		return fmt.Errorf("delete user push token: %w", err)
	}

	return nil
}
