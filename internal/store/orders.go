package store

import (
	"context"
	"database/sql"
)

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var (
		o         Order
		deletedAt sql.NullTime
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.CreatedAt, &deletedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		o.DeletedAt = &deletedAt.Time
	}
	return &o, nil
}

func (s *Store) orderGifts(ctx context.Context, orderID int) ([]Gift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+giftColumns+`, c.name, c.created_at
		FROM gift_on_order goo
		JOIN gifts g ON g.id = goo.gift_id
		LEFT JOIN categories c ON c.id = g.category_id
		WHERE goo.order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gifts := []Gift{}
	for rows.Next() {
		g, err := scanGiftWithCategory(rows)
		if err != nil {
			return nil, err
		}
		gifts = append(gifts, *g)
	}
	return gifts, rows.Err()
}

// ListOrders returns live orders, or only the soft-deleted ones when deleted
// is true. Gifts on each order are loaded alongside.
func (s *Store) ListOrders(ctx context.Context, deleted bool) ([]Order, error) {
	clause := `deleted_at IS NULL`
	if deleted {
		clause = `deleted_at IS NOT NULL`
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, deleted_at
		FROM orders
		WHERE `+clause+`
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		gifts, err := s.orderGifts(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Gifts = gifts
	}

	return orders, nil
}

func (s *Store) OrderByID(ctx context.Context, id int) (*Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, deleted_at
		FROM orders
		WHERE id = $1
	`, id)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	gifts, err := s.orderGifts(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Gifts = gifts

	return o, nil
}

func (s *Store) OrdersByUser(ctx context.Context, userID int) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, deleted_at
		FROM orders
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		gifts, err := s.orderGifts(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Gifts = gifts
	}

	return orders, nil
}

// CreateOrder records a purchase: a new order for the user plus the link to
// the purchased gift.
func (s *Store) CreateOrder(ctx context.Context, giftID, userID int) (*Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var o Order
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id)
		VALUES ($1)
		RETURNING id, user_id, created_at
	`, userID).Scan(&o.ID, &o.UserID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO gift_on_order (gift_id, order_id)
		VALUES ($1, $2)
	`, giftID, o.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &o, nil
}

// SoftDeleteOrder stamps deleted_at and releases the order's gifts back to
// AVAILABLE.
func (s *Store) SoftDeleteOrder(ctx context.Context, id int) (*Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE orders
		SET deleted_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, created_at, deleted_at
	`, id)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE gifts
		SET status = $1, updated_at = NOW()
		WHERE id IN (SELECT gift_id FROM gift_on_order WHERE order_id = $2)
	`, GiftAvailable, o.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return o, nil
}
