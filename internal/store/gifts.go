package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const giftColumns = `g.id, g.name, g.price, g.description, g.purchase_link, g.image_url,
	g.status, g.category_id, g.created_at, g.updated_at`

func scanGiftWithCategory(row interface{ Scan(...any) error }) (*Gift, error) {
	var (
		g            Gift
		categoryID   sql.NullInt64
		categoryName sql.NullString
		categoryAt   sql.NullTime
	)
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Price,
		&g.Description,
		&g.PurchaseLink,
		&g.ImageURL,
		&g.Status,
		&categoryID,
		&g.CreatedAt,
		&g.UpdatedAt,
		&categoryName,
		&categoryAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := int(categoryID.Int64)
		g.CategoryID = &id
		g.Category = &Category{
			ID:        id,
			Name:      categoryName.String,
			CreatedAt: categoryAt.Time,
		}
	}

	return &g, nil
}

func (s *Store) ListGifts(ctx context.Context) ([]Gift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+giftColumns+`, c.name, c.created_at
		FROM gifts g
		LEFT JOIN categories c ON c.id = g.category_id
		ORDER BY g.created_at DESC
	`)
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

func (s *Store) GiftByID(ctx context.Context, id int) (*Gift, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+giftColumns+`, c.name, c.created_at
		FROM gifts g
		LEFT JOIN categories c ON c.id = g.category_id
		WHERE g.id = $1
	`, id)

	g, err := scanGiftWithCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Store) CreateGift(ctx context.Context, gift Gift) (*Gift, error) {
	status := gift.Status
	if status == "" {
		status = GiftAvailable
	}

	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO gifts (name, price, description, purchase_link, image_url, status, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		gift.Name,
		gift.Price,
		gift.Description,
		gift.PurchaseLink,
		gift.ImageURL,
		status,
		gift.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	return s.GiftByID(ctx, id)
}

// GiftUpdate carries the partial fields of a gift update; nil fields are
// left unchanged.
type GiftUpdate struct {
	Name         *string  `json:"name"`
	Price        *float64 `json:"price"`
	Description  *string  `json:"description"`
	PurchaseLink *string  `json:"purchaseLink"`
	ImageURL     *string  `json:"imageUrl"`
	CategoryID   *int     `json:"categoryId"`
}

func (s *Store) UpdateGift(ctx context.Context, id int, update GiftUpdate) (*Gift, error) {
	sets := []string{}
	args := []any{}

	add := func(column string, value any, set bool) {
		if set {
			args = append(args, value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("name", update.Name, update.Name != nil)
	add("price", update.Price, update.Price != nil)
	add("description", update.Description, update.Description != nil)
	add("purchase_link", update.PurchaseLink, update.PurchaseLink != nil)
	add("image_url", update.ImageURL, update.ImageURL != nil)
	add("category_id", update.CategoryID, update.CategoryID != nil)

	if len(sets) == 0 {
		return s.GiftByID(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE gifts
		SET %s, updated_at = NOW()
		WHERE id = $%d
	`, strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}

	return s.GiftByID(ctx, id)
}

func (s *Store) UpdateGiftStatus(ctx context.Context, id int, status string) (*Gift, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE gifts
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}

	return s.GiftByID(ctx, id)
}

func (s *Store) DeleteGift(ctx context.Context, id int) (*Gift, error) {
	g, err := s.GiftByID(ctx, id)
	if err != nil || g == nil {
		return g, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM gift_on_order WHERE gift_id = $1`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM gift_on_reservation WHERE gift_id = $1`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM gifts WHERE id = $1`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return g, nil
}
