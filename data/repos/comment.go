package repos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type CommentRepo struct {
	db *sqlx.DB
}

func NewCommentRepo(db *sqlx.DB) *CommentRepo {
	return &CommentRepo{db}
}

func (r *CommentRepo) CreateComment(comment data.Comment) (uuid.UUID, error) {
	query := `
		INSERT INTO comments (id, user_id, promotion_id, text)
		VALUES (:id, :user_id, :promotion_id, :text)
		RETURNING id`

	rows, err := r.db.NamedQuery(query, comment)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create comment: %w", err)
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

func (r *CommentRepo) GetCommentsByPromotion(promotionID uuid.UUID) ([]data.CommentWithUser, error) {
	var comments []data.CommentWithUser
	query := `
		SELECT c.id, c.user_id, c.promotion_id, c.text, c.created_at, u.name AS user_name
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.promotion_id = $1
		ORDER BY c.created_at DESC`

	err := r.db.Select(&comments, query, promotionID)
	if err != nil {
		return nil, fmt.Errorf("get comments by promotion: %w", err)
	}

	return comments, nil
}
