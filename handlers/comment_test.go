package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/barganito/barganito.api/data"
)

func TestValidateCommentText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		rejection string
	}{
		{"valid", "Ótima oferta, comprei na hora", ""},
		{"trims surrounding space", "  boa promoção  ", ""},
		{"empty", "", "O comentário não pode estar vazio."},
		{"only whitespace", "   ", "O comentário não pode estar vazio."},
		{"too short", "ok", "O comentário é muito curto."},
		{"too long", strings.Repeat("a", 501), "O comentário deve ter no máximo 500 caracteres."},
		{"http link", "veja http://spam.example/promo", "Não é permitido postar links nos comentários."},
		{"www link", "acesse www.spam.example agora", "Não é permitido postar links nos comentários."},
		{"bare domain", "melhor preço em loja.com", "Não é permitido postar links nos comentários."},
		{"profanity", "que oferta LIXO", "Seu comentário contém palavras não permitidas."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trimmed, rejection := validateCommentText(tt.text)
			assert.Equal(t, tt.rejection, rejection)
			if tt.rejection == "" {
				assert.Equal(t, strings.TrimSpace(tt.text), trimmed)
			}
		})
	}
}

func TestAddComment_RejectsBeforeTouchingStore(t *testing.T) {
	h := NewCommentHandler(nil, nil)
	user := data.User{ID: uuid.New()}
	offerID := uuid.NewString()

	r := authedRequest(http.MethodPost, "/offers/"+offerID+"/comments",
		`{"text": "confira www.golpe.example"}`, user)
	r.SetPathValue("id", offerID)

	res := h.AddComment(httptest.NewRecorder(), r)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, ErrorResponse{"Não é permitido postar links nos comentários."}, res.Body)
}

func TestAddComment_RejectsMalformedID(t *testing.T) {
	h := NewCommentHandler(nil, nil)

	r := authedRequest(http.MethodPost, "/offers/nope/comments", `{"text": "boa oferta"}`, data.User{ID: uuid.New()})
	r.SetPathValue("id", "nope")

	res := h.AddComment(httptest.NewRecorder(), r)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}
