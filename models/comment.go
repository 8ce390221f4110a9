package models

import (
	"time"

	"github.com/google/uuid"
)

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
}
