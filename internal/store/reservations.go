package store

import "context"

// CreateReservation records a reservation: a new reservation for the user
// plus the link to the reserved gift.
func (s *Store) CreateReservation(ctx context.Context, giftID, userID int) (*Reservation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var r Reservation
	err = tx.QueryRowContext(ctx, `
		INSERT INTO reservations (user_id)
		VALUES ($1)
		RETURNING id, user_id, created_at
	`, userID).Scan(&r.ID, &r.UserID, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO gift_on_reservation (gift_id, reservation_id)
		VALUES ($1, $2)
	`, giftID, r.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &r, nil
}
