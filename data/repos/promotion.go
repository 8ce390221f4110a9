package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type PromotionRepo struct {
	db *sqlx.DB
}

func NewPromotionRepo(db *sqlx.DB) *PromotionRepo {
	return &PromotionRepo{db}
}

// GetEligiblePromotions loads every active, in-window promotion joined with
// its product in a single query. The window is half-open: starts_at <= now,
// expires_at > now. Batched once per matcher run to avoid N+1 queries.
func (r *PromotionRepo) GetEligiblePromotions(now time.Time) ([]data.PromotionWithProduct, error) {
	var promos []data.PromotionWithProduct
	query := `
		SELECT pr.id, pr.product_id, pr.discount_percentage, pr.is_active, pr.starts_at, pr.expires_at,
		       p.name AS product_name, p.category_id AS product_category_id, p.current_price AS product_price
		FROM promotions pr
		JOIN products p ON p.id = pr.product_id
		WHERE pr.is_active = true AND pr.starts_at <= $1 AND pr.expires_at > $1`

	err := r.db.Select(&promos, query, now)
	if err != nil {
		return nil, fmt.Errorf("get eligible promotions: %w", err)
	}

	return promos, nil
}

func (r *PromotionRepo) GetOffers(now time.Time, limit, offset int) ([]data.OfferRow, int, error) {
	var offers []data.OfferRow
	query := `
		SELECT pr.*, p.name AS product_name, p.category_id AS product_category_id,
		       p.current_price AS product_price, p.image_url AS product_image,
		       c.name AS category_name
		FROM promotions pr
		JOIN products p ON p.id = pr.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE pr.is_active = true AND pr.starts_at <= $1 AND pr.expires_at > $1
		ORDER BY pr.created_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.Select(&offers, query, now, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get offers: %w", err)
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM promotions
		WHERE is_active = true AND starts_at <= $1 AND expires_at > $1`
	if err := r.db.Get(&total, countQuery, now); err != nil {
		return nil, 0, fmt.Errorf("count offers: %w", err)
	}

	return offers, total, nil
}

// GetEligibleOffers is the unpaged variant used by the alert-matches
// preview; active promotions number in the hundreds at most.
func (r *PromotionRepo) GetEligibleOffers(now time.Time) ([]data.OfferRow, error) {
	var offers []data.OfferRow
	query := `
		SELECT pr.*, p.name AS product_name, p.category_id AS product_category_id,
		       p.current_price AS product_price, p.image_url AS product_image,
		       c.name AS category_name
		FROM promotions pr
		JOIN products p ON p.id = pr.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE pr.is_active = true AND pr.starts_at <= $1 AND pr.expires_at > $1
		ORDER BY pr.created_at DESC`

	err := r.db.Select(&offers, query, now)
	if err != nil {
		return nil, fmt.Errorf("get eligible offers: %w", err)
	}

	return offers, nil
}

func (r *PromotionRepo) GetOfferByID(id uuid.UUID) (*data.OfferRow, error) {
	var offer data.OfferRow
	query := `
		SELECT pr.*, p.name AS product_name, p.category_id AS product_category_id,
		       p.current_price AS product_price, p.image_url AS product_image,
		       c.name AS category_name
		FROM promotions pr
		JOIN products p ON p.id = pr.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE pr.id = $1`

	err := r.db.Get(&offer, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer by id: %w", err)
	}

	return &offer, nil
}

func (r *PromotionRepo) CreatePromotion(promo data.Promotion) (uuid.UUID, error) {
	query := `
		INSERT INTO promotions (id, product_id, discount_percentage, is_active, starts_at, expires_at, description, submitted_by)
		VALUES (:id, :product_id, :discount_percentage, :is_active, :starts_at, :expires_at, :description, :submitted_by)
		RETURNING id`

	rows, err := r.db.NamedQuery(query, promo)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create promotion: %w", err)
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

func (r *PromotionRepo) SetActive(id uuid.UUID, active bool) error {
	query := "UPDATE promotions SET is_active = $1 WHERE id = $2"
	_, err := r.db.Exec(query, active, id)
	if err != nil {
		return fmt.Errorf("set promotion active: %w", err)
	}

	return nil
}

// DeactivateExpired flips is_active off for every promotion whose window has
// closed, returning the number of rows swept.
func (r *PromotionRepo) DeactivateExpired(now time.Time) (int64, error) {
	query := "UPDATE promotions SET is_active = false WHERE is_active = true AND expires_at <= $1"
	res, err := r.db.Exec(query, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired promotions: %w", err)
	}

	swept, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate expired promotions: rows affected: %w", err)
	}

	return swept, nil
}
