package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/models"
)

// reportThreshold is the number of distinct user reports after which a
// promotion is pulled for review.
const reportThreshold = 4

type PromotionHandler struct {
	promoRepo        *repos.PromotionRepo
	productRepo      *repos.ProductRepo
	reportRepo       *repos.ReportRepo
	notificationRepo *repos.NotificationRepo
}

func NewPromotionHandler(promoRepo *repos.PromotionRepo, productRepo *repos.ProductRepo, reportRepo *repos.ReportRepo, notificationRepo *repos.NotificationRepo) *PromotionHandler {
	return &PromotionHandler{promoRepo, productRepo, reportRepo, notificationRepo}
}

func toOfferModel(o data.OfferRow) models.Offer {
	return models.Offer{
		ID:                 o.ID,
		ProductID:          o.ProductID,
		ProductName:        o.ProductName,
		ProductPrice:       o.ProductPrice,
		ProductImage:       o.ProductImage,
		CategoryName:       o.CategoryName,
		DiscountPercentage: o.DiscountPercentage,
		Description:        o.Description,
		IsActive:           o.IsActive,
		StartsAt:           o.StartsAt,
		ExpiresAt:          o.ExpiresAt,
		CreatedAt:          o.CreatedAt,
	}
}

// deactivationNotice tells the submitter their offer was pulled for review.
// No link is set so the row stays out of the alert dedup ledger.
func deactivationNotice(offer data.OfferRow) data.Notification {
	return data.Notification{
		ID:      uuid.New(),
		UserID:  *offer.SubmittedBy,
		Title:   "Oferta removida: " + offer.ProductName,
		Message: "Sua oferta recebeu muitas denúncias e foi removida automaticamente para revisão.",
		Type:    data.NotificationTypeSystem,
	}
}

func (h *PromotionHandler) GetOffers(w http.ResponseWriter, r *http.Request) Result {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	offers, total, err := h.promoRepo.GetOffers(time.Now(), perPage, offset)
	if err != nil {
		return InternalError(err, "get offers: ")
	}

	res := models.GetOffersResponse{
		Offers:  make([]models.Offer, 0, len(offers)),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	for _, o := range offers {
		res.Offers = append(res.Offers, toOfferModel(o))
	}

	return Ok(res)
}

func (h *PromotionHandler) GetOffer(w http.ResponseWriter, r *http.Request) Result {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid offer ID.")
	}

	offer, err := h.promoRepo.GetOfferByID(id)
	if err != nil {
		return InternalError(err, "get offer: ")
	}
	if offer == nil {
		return NotFound("Offer not found.")
	}

	return Ok(toOfferModel(*offer))
}

// SubmitOffer takes a user promotion suggestion. The product is upserted by
// store URL and the promotion is created inactive for admin review.
func (h *PromotionHandler) SubmitOffer(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	var req models.SubmitOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	url := req.URL
	productID, err := h.productRepo.UpsertProductByURL(data.Product{
		ID:           uuid.New(),
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		CurrentPrice: req.CurrentPrice,
		URL:          &url,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return InternalError(err, "submit offer: upsert product: ")
	}

	userID := user.ID
	id, err := h.promoRepo.CreatePromotion(data.Promotion{
		ID:                 uuid.New(),
		ProductID:          productID,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           false,
		StartsAt:           time.Now(),
		ExpiresAt:          req.ExpiresAt,
		Description:        req.PromoDescription,
		SubmittedBy:        &userID,
	})
	if err != nil {
		return InternalError(err, "submit offer: create promotion: ")
	}

	return Created(id)
}

func (h *PromotionHandler) CreateOffer(w http.ResponseWriter, r *http.Request) Result {
	var req models.CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	product, err := h.productRepo.GetProductByID(req.ProductID)
	if err != nil {
		return InternalError(err, "create offer: get product: ")
	}
	if product == nil {
		return NotFound("Product not found.")
	}

	startsAt := req.StartsAt
	if startsAt.IsZero() {
		startsAt = time.Now()
	}
	if !req.ExpiresAt.After(startsAt) {
		return BadRequest("Offer must expire after it starts.")
	}

	id, err := h.promoRepo.CreatePromotion(data.Promotion{
		ID:                 uuid.New(),
		ProductID:          req.ProductID,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           true,
		StartsAt:           startsAt,
		ExpiresAt:          req.ExpiresAt,
		Description:        req.Description,
	})
	if err != nil {
		return InternalError(err, "create offer: ")
	}

	return Created(id)
}

func (h *PromotionHandler) SetOfferActive(w http.ResponseWriter, r *http.Request) Result {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid offer ID.")
	}

	var req models.SetOfferActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	offer, err := h.promoRepo.GetOfferByID(id)
	if err != nil {
		return InternalError(err, "set offer active: get offer: ")
	}
	if offer == nil {
		return NotFound("Offer not found.")
	}

	if err := h.promoRepo.SetActive(id, req.Active); err != nil {
		return InternalError(err, "set offer active: ")
	}

	return Ok(nil)
}

// ReportOffer records an abuse report. Repeated reports from one user are
// ignored; at the threshold the promotion is deactivated for review.
func (h *PromotionHandler) ReportOffer(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid offer ID.")
	}

	offer, err := h.promoRepo.GetOfferByID(id)
	if err != nil {
		return InternalError(err, "report offer: get offer: ")
	}
	if offer == nil {
		return NotFound("Offer not found.")
	}

	if err := h.reportRepo.CreateReport(data.Report{UserID: user.ID, PromotionID: id}); err != nil {
		return InternalError(err, "report offer: create report: ")
	}

	count, err := h.reportRepo.CountByPromotion(id)
	if err != nil {
		return InternalError(err, "report offer: count reports: ")
	}

	if count >= reportThreshold && offer.IsActive {
		if err := h.promoRepo.SetActive(id, false); err != nil {
			return InternalError(err, "report offer: deactivate: ")
		}
		slog.Info("promotion deactivated after reports", "promotion_id", id, "reports", count)

		if offer.SubmittedBy != nil {
			if _, err := h.notificationRepo.CreateNotification(deactivationNotice(*offer)); err != nil {
				slog.Error("notify submitter of deactivation", "promotion_id", id, "error", err)
			}
		}

		return Ok(MessageResponse{"Esta oferta recebeu muitas denúncias e foi removida automaticamente para revisão."})
	}

	return Ok(MessageResponse{"Obrigado por sua denúncia. Nossa equipe irá analisar esta oferta."})
}
