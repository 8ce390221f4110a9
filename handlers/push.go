package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/models"
)

type PushHandler struct {
	pushRepo *repos.PushRepo
}

func NewPushHandler(pushRepo *repos.PushRepo) *PushHandler {
	return &PushHandler{pushRepo}
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	var req models.SubscribePushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	platform := req.Platform
	if platform == "" {
		platform = "web"
	}

	err := h.pushRepo.UpsertSubscription(data.PushSubscription{
		UserID:   user.ID,
		Token:    req.Token,
		Platform: platform,
	})
	if err != nil {
		return InternalError(err, "subscribe push: ")
	}

	return Ok(nil)
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	token := r.PathValue("token")
	if token == "" {
		return BadRequest("Token is required.")
	}

	if err := h.pushRepo.DeleteUserToken(user.ID, token); err != nil {
		return InternalError(err, "unsubscribe push: ")
	}

	return Ok(nil)
}
