package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/barganito/barganito.api/auth"
	"github.com/barganito/barganito.api/config"
	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/models"
)

type AuthHandler struct {
	userRepo *repos.UserRepo
}

func NewAuthHandler(userRepo *repos.UserRepo) *AuthHandler {
	return &AuthHandler{userRepo}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) Result {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := h.userRepo.GetUserByEmail(email)
	if err != nil {
		return InternalError(err, "register: get user by email: ")
	}
	if existing != nil {
		return Conflict("Email already registered.")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return InternalError(err, "register: hash password: ")
	}

	user := data.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
	}
	id, err := h.userRepo.InsertUser(user)
	if err != nil {
		return InternalError(err, "register: insert user: ")
	}

	token, err := auth.GenerateToken(id, config.Config.JWTSecret)
	if err != nil {
		return InternalError(err, "register: generate token: ")
	}

	return Result{
		Code: http.StatusCreated,
		Body: models.AuthResponse{
			Token: token,
			User:  models.User{ID: id, Name: user.Name, Email: user.Email},
		},
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) Result {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	user, err := h.userRepo.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return InternalError(err, "login: get user by email: ")
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return Unauthorized("Invalid email or password.")
	}

	token, err := auth.GenerateToken(user.ID, config.Config.JWTSecret)
	if err != nil {
		return InternalError(err, "login: generate token: ")
	}

	return Ok(models.AuthResponse{
		Token: token,
		User:  models.User{ID: user.ID, Name: user.Name, Email: user.Email, IsAdmin: user.IsAdmin},
	})
}

// GetUser resolves the bearer token to a full user row, used by the private
// route wrapper.
func (h *AuthHandler) GetUser(authHeader string) Result {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Unauthorized("Missing authorization header")
	}

	userID, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), config.Config.JWTSecret)
	if err != nil {
		return Unauthorized("Invalid token")
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		return InternalError(err, "get user: ")
	}
	if user == nil {
		return Unauthorized("User not found")
	}

	return Ok(*user)
}
