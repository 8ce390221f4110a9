package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type VoteRepo struct {
	db *sqlx.DB
}

func NewVoteRepo(db *sqlx.DB) *VoteRepo {
	return &VoteRepo{db}
}

// UpsertVote records or overwrites the user's vote for a promotion.
func (r *VoteRepo) UpsertVote(vote data.Vote) error {
	query := `
		INSERT INTO votes (user_id, promotion_id, value)
		VALUES (:user_id, :promotion_id, :value)
		ON CONFLICT (user_id, promotion_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	_, err := r.db.NamedExec(query, vote)
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}

	return nil
}

func (r *VoteRepo) GetRating(promotionID uuid.UUID) (data.Rating, error) {
	var rating data.Rating
	query := `
		SELECT COALESCE(AVG(value), 0) AS average, COUNT(*) AS count
		FROM votes
		WHERE promotion_id = $1`

	err := r.db.Get(&rating, query, promotionID)
	if err != nil {
		return data.Rating{}, fmt.Errorf("get rating: %w", err)
	}

	return rating, nil
}

// GetUserVote returns the caller's vote value, or nil when they never voted.
func (r *VoteRepo) GetUserVote(userID, promotionID uuid.UUID) (*int, error) {
	var value int
	query := "SELECT value FROM votes WHERE user_id = $1 AND promotion_id = $2"

	err := r.db.Get(&value, query, userID, promotionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user vote: %w", err)
	}

	return &value, nil
}
