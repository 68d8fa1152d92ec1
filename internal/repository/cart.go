package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// PostgresCartRepository implements cart persistence against a PostgreSQL
// database. Rows are keyed (user, product); quantities below 1 are never
// stored.
type PostgresCartRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCartRepository creates a new PostgresCartRepository using
// the provided *sql.DB.
func NewPostgresCartRepository(db *sql.DB) *PostgresCartRepository {
	return &PostgresCartRepository{DB: db}
}

// Items returns the user's cart lines with embedded product details,
// oldest line first.
func (r *PostgresCartRepository) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY added_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("cart rows: %w", err)
	}
	defer rows.Close()

	var ids []string
	quantities := make(map[string]int)
	for rows.Next() {
		var id string
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
		quantities[id] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	prows, err := r.DB.QueryContext(
		ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("cart products: %w", err)
	}
	defer prows.Close()

	products := make(map[string]models.Product, len(ids))
	for prows.Next() {
		var p models.Product
		if err := scanProduct(prows, &p); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		products[p.ID] = p
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(ids))
	for _, id := range ids {
		p, found := products[id]
		if !found {
			// Product vanished between the two queries; skip the line.
			continue
		}
		items = append(items, models.CartItem{Item: p, Quantity: quantities[id]})
	}
	return items, nil
}

// AddItem adds quantity units to the user's cart, creating the line or
// incrementing an existing one.
func (r *PostgresCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity, added_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// SetQuantity sets an existing line's quantity and reports whether the
// line existed. Callers handle quantity 0 by removing the line instead.
func (r *PostgresCartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) (bool, error) {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE cart_items SET quantity = $3 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity,
	)
	if err != nil {
		return false, fmt.Errorf("set cart quantity: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RemoveItem deletes a line and reports whether it existed.
func (r *PostgresCartRepository) RemoveItem(ctx context.Context, userID, productID string) (bool, error) {
	res, err := r.DB.ExecContext(
		ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Clear removes every line of the user's cart.
func (r *PostgresCartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
