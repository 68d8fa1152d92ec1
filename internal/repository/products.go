package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// PostgresProductRepository implements catalog persistence against a
// PostgreSQL database.
type PostgresProductRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProductRepository creates a new PostgresProductRepository
// using the provided *sql.DB.
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{DB: db}
}

const productColumns = `id, name, description, price, category, image_url, stock, created_at`

func scanProduct(row interface{ Scan(...any) error }, p *models.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.Stock, &p.CreatedAt)
}

// listClauses builds the WHERE clause and arguments for a filter.
func listClauses(filter models.ProductFilter) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.MinPrice > 0 {
		conds = append(conds, "price >= "+arg(filter.MinPrice))
	}
	if filter.MaxPrice > 0 {
		conds = append(conds, "price <= "+arg(filter.MaxPrice))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, "(name ILIKE "+arg(pattern)+" OR description ILIKE "+arg(pattern)+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(sort string) string {
	switch sort {
	case models.SortPriceAsc:
		return " ORDER BY price ASC"
	case models.SortPriceDesc:
		return " ORDER BY price DESC"
	case models.SortName:
		return " ORDER BY name ASC"
	default:
		return " ORDER BY created_at DESC"
	}
}

// List returns one page of products matching the filter plus the total
// match count. Page and Limit must already be normalized by the service.
func (r *PostgresProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	where, args := listClauses(filter)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + orderClause(filter.Sort)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// ByID fetches a single product. Returns sql.ErrNoRows when absent.
func (r *PostgresProductRepository) ByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := scanProduct(r.DB.QueryRowContext(
		ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`,
		id,
	), &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product row.
func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO products (id, name, description, price, category, image_url, stock, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Stock, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update replaces a product's fields and reports whether the row existed.
func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (bool, error) {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE products
		 SET name = $2, description = $3, price = $4, category = $5, image_url = $6, stock = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Stock,
	)
	if err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Delete removes a product and reports whether the row existed. Cart
// lines referencing it are removed by the schema's cascade.
func (r *PostgresProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Categories lists the distinct categories present in the catalog.
func (r *PostgresProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
