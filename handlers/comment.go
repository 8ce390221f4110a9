package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/models"
)

// Moderation rules for offer comments: no links, no profanity.
var (
	linkPattern   = regexp.MustCompile(`(?i)(https?://|www\.)[^\s/$.?#][^\s]*`)
	domainPattern = regexp.MustCompile(`[a-zA-Z0-9][a-zA-Z0-9-]{1,61}[a-zA-Z0-9]\.[a-zA-Z]{2,}`)

	bannedWords = []string{
		"ofensivo", "burro", "idiota", "lixo", "bosta", "droga",
	}
)

type CommentHandler struct {
	commentRepo *repos.CommentRepo
	promoRepo   *repos.PromotionRepo
}

func NewCommentHandler(commentRepo *repos.CommentRepo, promoRepo *repos.PromotionRepo) *CommentHandler {
	return &CommentHandler{commentRepo, promoRepo}
}

// validateCommentText applies the moderation rules and returns the trimmed
// text, or a PT-BR rejection message.
func validateCommentText(text string) (string, string) {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		return "", "O comentário não pode estar vazio."
	}
	if len([]rune(trimmed)) < 3 {
		return "", "O comentário é muito curto."
	}
	if len([]rune(trimmed)) > 500 {
		return "", "O comentário deve ter no máximo 500 caracteres."
	}
	if linkPattern.MatchString(trimmed) || domainPattern.MatchString(trimmed) {
		return "", "Não é permitido postar links nos comentários."
	}

	lower := strings.ToLower(trimmed)
	for _, word := range bannedWords {
		if strings.Contains(lower, word) {
			return "", "Seu comentário contém palavras não permitidas."
		}
	}

	return trimmed, ""
}

func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid offer ID.")
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	text, rejection := validateCommentText(req.Text)
	if rejection != "" {
		return BadRequest(rejection)
	}

	offer, err := h.promoRepo.GetOfferByID(id)
	if err != nil {
		return InternalError(err, "add comment: get offer: ")
	}
	if offer == nil {
		return NotFound("Offer not found.")
	}

	commentID, err := h.commentRepo.CreateComment(data.Comment{
		ID:          uuid.New(),
		UserID:      user.ID,
		PromotionID: id,
		Text:        text,
	})
	if err != nil {
		return InternalError(err, "add comment: ")
	}

	return Created(commentID)
}

func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) Result {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid offer ID.")
	}

	comments, err := h.commentRepo.GetCommentsByPromotion(id)
	if err != nil {
		return InternalError(err, "get comments: ")
	}

	res := models.GetCommentsResponse{Comments: make([]models.Comment, 0, len(comments))}
	for _, c := range comments {
		res.Comments = append(res.Comments, models.Comment{
			ID:        c.ID,
			Text:      c.Text,
			UserName:  c.UserName,
			CreatedAt: c.CreatedAt,
		})
	}

	return Ok(res)
}
