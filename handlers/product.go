package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/models"
)

type ProductHandler struct {
	productRepo *repos.ProductRepo
}

func NewProductHandler(productRepo *repos.ProductRepo) *ProductHandler {
	return &ProductHandler{productRepo}
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) Result {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return BadRequest("Invalid category ID.")
		}
		categoryID = &id
	}

	products, total, err := h.productRepo.SearchProducts(r.URL.Query().Get("q"), categoryID, perPage, offset)
	if err != nil {
		return InternalError(err, "get products: ")
	}

	res := models.GetProductsResponse{
		Products: make([]models.Product, 0, len(products)),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}
	for _, p := range products {
		res.Products = append(res.Products, models.Product{
			ID:           p.ID,
			Name:         p.Name,
			CategoryID:   p.CategoryID,
			CurrentPrice: p.CurrentPrice,
			URL:          p.URL,
			Description:  p.Description,
			ImageURL:     p.ImageURL,
			UpdatedAt:    p.UpdatedAt,
		})
	}

	return Ok(res)
}

func (h *ProductHandler) GetCategories(w http.ResponseWriter, r *http.Request) Result {
	categories, err := h.productRepo.GetCategories()
	if err != nil {
		return InternalError(err, "get categories: ")
	}

	res := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		res = append(res, models.Category{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}

	return Ok(res)
}
