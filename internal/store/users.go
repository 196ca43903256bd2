package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const userColumns = `id, name, birth_date, email, profile_image, is_admin, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.BirthDate,
		&u.Email,
		&u.ProfileImage,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByNameAndBirthDate is the sign-in lookup. Returns (nil, nil) when
// no user matches.
func (s *Store) FindUserByNameAndBirthDate(ctx context.Context, name, birthDate string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE name = $1 AND birth_date = $2
	`, name, birthDate)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id int) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserWithOrders loads a user together with their orders and the gifts on
// each order.
func (s *Store) UserWithOrders(ctx context.Context, id int) (*User, error) {
	u, err := s.UserByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}

	orders, err := s.OrdersByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Orders = orders

	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, payload UserPayload) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, birth_date, email, profile_image)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns+`
	`, payload.Name, payload.BirthDate, payload.Email, payload.ProfileImage)

	return scanUser(row)
}

// UserUpdate carries the partial fields of a profile update; nil fields are
// left unchanged.
type UserUpdate struct {
	Name         *string `json:"name"`
	BirthDate    *string `json:"birthDate"`
	Email        *string `json:"email"`
	ProfileImage *string `json:"profileImage"`
}

func (s *Store) UpdateUser(ctx context.Context, id int, update UserUpdate) (*User, error) {
	sets := []string{}
	args := []any{}

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("name", update.Name)
	add("birth_date", update.BirthDate)
	add("email", update.Email)
	add("profile_image", update.ProfileImage)

	if len(sets) == 0 {
		return s.UserByID(ctx, id)
	}

	args = append(args, id)
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		UPDATE users
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), userColumns), args...)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) SetProfileImage(ctx context.Context, id int, imageURL string) (*User, error) {
	return s.UpdateUser(ctx, id, UserUpdate{ProfileImage: &imageURL})
}

// DeleteUser removes a user and everything hanging off them in one
// transaction: gifts on their orders go back to AVAILABLE, the order links
// and orders are dropped, then the user row itself.
func (s *Store) DeleteUser(ctx context.Context, id int) (*User, error) {
	u, err := s.UserByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE gifts
		SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT goo.gift_id
			FROM gift_on_order goo
			JOIN orders o ON o.id = goo.order_id
			WHERE o.user_id = $2
		)
	`, GiftAvailable, id)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM gift_on_order
		WHERE order_id IN (SELECT id FROM orders WHERE user_id = $1)
	`, id)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE user_id = $1`, id); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return u, nil
}
