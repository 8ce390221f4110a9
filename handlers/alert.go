package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/matchers"
	"github.com/barganito/barganito.api/models"
)

type AlertHandler struct {
	alertRepo *repos.AlertRepo
	promoRepo *repos.PromotionRepo
}

func NewAlertHandler(alertRepo *repos.AlertRepo, promoRepo *repos.PromotionRepo) *AlertHandler {
	return &AlertHandler{alertRepo, promoRepo}
}

func (h *AlertHandler) CreateAlert(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	var req models.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	if req.CategoryID == nil && req.ProductNamePattern == nil && req.TargetPrice == nil && req.TargetDiscount == nil {
		return BadRequest("At least one alert criterion is required.")
	}

	alert := data.AlertConfig{
		ID:                 uuid.New(),
		UserID:             user.ID,
		CategoryID:         req.CategoryID,
		ProductNamePattern: req.ProductNamePattern,
		TargetPrice:        req.TargetPrice,
		TargetDiscount:     req.TargetDiscount,
	}

	id, err := h.alertRepo.CreateAlert(alert)
	if err != nil {
		return InternalError(err, "create alert: ")
	}

	return Created(id)
}

func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	alerts, err := h.alertRepo.GetAlertsByUserID(user.ID)
	if err != nil {
		return InternalError(err, "get alerts: ")
	}

	res := models.GetAlertsResponse{Alerts: make([]models.Alert, 0, len(alerts))}
	for _, a := range alerts {
		res.Alerts = append(res.Alerts, models.Alert{
			ID:                 a.ID,
			CategoryID:         a.CategoryID,
			ProductNamePattern: a.ProductNamePattern,
			TargetPrice:        a.TargetPrice,
			TargetDiscount:     a.TargetDiscount,
			CreatedAt:          a.CreatedAt,
			LastMatchedAt:      a.LastMatchedAt,
		})
	}

	return Ok(res)
}

func (h *AlertHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid alert ID.")
	}

	if err := h.alertRepo.DeleteAlert(id, user.ID); err != nil {
		return InternalError(err, "delete alert: ")
	}

	return Ok(nil)
}

// GetAlertMatches previews the offers currently matching any of the caller's
// alerts, reusing the same predicate logic as the matcher job.
func (h *AlertHandler) GetAlertMatches(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := 8

	alerts, err := h.alertRepo.GetAlertsByUserID(user.ID)
	if err != nil {
		return InternalError(err, "get alert matches: get alerts: ")
	}

	res := models.AlertMatchesResponse{Offers: make([]models.Offer, 0), Page: page, PerPage: perPage}
	if len(alerts) == 0 {
		return Ok(res)
	}

	now := time.Now()
	offers, err := h.promoRepo.GetEligibleOffers(now)
	if err != nil {
		return InternalError(err, "get alert matches: get offers: ")
	}

	matched := make([]data.OfferRow, 0, len(offers))
	for _, offer := range offers {
		promo := offer.ForMatching()
		if !matchers.Eligible(promo, now) {
			continue
		}
		for _, alert := range alerts {
			if matchers.Matches(alert, promo) {
				matched = append(matched, offer)
				break
			}
		}
	}

	res.Total = len(matched)
	start := (page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}

	for _, offer := range matched[start:end] {
		res.Offers = append(res.Offers, toOfferModel(offer))
	}

	return Ok(res)
}
