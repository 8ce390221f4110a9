package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/models"
)

type VoteHandler struct {
	voteRepo  *repos.VoteRepo
	promoRepo *repos.PromotionRepo
}

func NewVoteHandler(voteRepo *repos.VoteRepo, promoRepo *repos.PromotionRepo) *VoteHandler {
	return &VoteHandler{voteRepo, promoRepo}
}

// ratingLevel buckets the vote average into the deal thermometer label.
// An unvoted offer starts at "OK".
func ratingLevel(average float64) string {
	switch {
	case average >= 4.5:
		return "TOP"
	case average >= 3.5:
		return "Muito Bom"
	case average >= 2.5:
		return "Bom"
	case average >= 1.5:
		return "OK"
	case average >= 0.5:
		return "Nheee"
	default:
		return "Ruim"
	}
}

func (h *VoteHandler) VoteOffer(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid offer ID.")
	}

	var req models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if req.Value < 0 || req.Value > 5 {
		return BadRequest("Valor de voto inválido.")
	}

	offer, err := h.promoRepo.GetOfferByID(id)
	if err != nil {
		return InternalError(err, "vote offer: get offer: ")
	}
	if offer == nil {
		return NotFound("Offer not found.")
	}

	if err := h.voteRepo.UpsertVote(data.Vote{
		UserID:      user.ID,
		PromotionID: id,
		Value:       req.Value,
	}); err != nil {
		return InternalError(err, "vote offer: ")
	}

	return Ok(nil)
}

func (h *VoteHandler) GetRating(w http.ResponseWriter, r *http.Request) Result {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid offer ID.")
	}

	rating, err := h.voteRepo.GetRating(id)
	if err != nil {
		return InternalError(err, "get rating: ")
	}

	if rating.Count == 0 {
		// Unvoted offers read as a neutral "OK" until someone weighs in.
		return Ok(models.RatingResponse{Average: 2.0, Count: 0, Level: ratingLevel(2.0)})
	}

	return Ok(models.RatingResponse{
		Average: rating.Average,
		Count:   rating.Count,
		Level:   ratingLevel(rating.Average),
	})
}

func (h *VoteHandler) GetUserVote(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid offer ID.")
	}

	value, err := h.voteRepo.GetUserVote(user.ID, id)
	if err != nil {
		return InternalError(err, "get user vote: ")
	}

	return Ok(models.UserVoteResponse{Value: value})
}
