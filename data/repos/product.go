package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db}
}

func (r *ProductRepo) SearchProducts(search string, categoryID *uuid.UUID, limit, offset int) ([]data.Product, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if categoryID != nil {
		args = append(args, *categoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM products "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT * FROM products %s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var products []data.Product
	if err := r.db.Select(&products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}

	return products, total, nil
}

func (r *ProductRepo) GetProductByID(id uuid.UUID) (*data.Product, error) {
	var product data.Product
	err := r.db.Get(&product, "SELECT * FROM products WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	return &product, nil
}

// UpsertProductByURL creates the product or refreshes an existing one keyed
// by its store URL, as user promotion submissions reference products by link.
func (r *ProductRepo) UpsertProductByURL(product data.Product) (uuid.UUID, error) {
	query := `
		INSERT INTO products (id, name, category_id, current_price, url, description, image_url)
		VALUES (:id, :name, :category_id, :current_price, :url, :description, :image_url)
		ON CONFLICT (url)
		DO UPDATE SET name = :name, category_id = :category_id, current_price = :current_price,
		              description = :description, image_url = :image_url, updated_at = now()
		RETURNING id`

	rows, err := r.db.NamedQuery(query, product)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert product by url: %w", err)
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

func (r *ProductRepo) GetCategories() ([]data.Category, error) {
	var categories []data.Category
	query := "SELECT id, name, slug FROM categories ORDER BY name ASC"
	if err := r.db.Select(&categories, query); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}

	return categories, nil
}
