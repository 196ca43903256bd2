package db

import (
	"context"
	"database/sql"
)

const bootstrapMigration = `
CREATE TABLE IF NOT EXISTS users (
    id serial PRIMARY KEY,
    name text NOT NULL,
    birth_date text NOT NULL,
    email text NOT NULL DEFAULT '',
    profile_image text NOT NULL DEFAULT '',
    is_admin boolean NOT NULL DEFAULT false,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_name_birth_date_unique
ON users (name, birth_date);

CREATE TABLE IF NOT EXISTS categories (
    id serial PRIMARY KEY,
    name text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS gifts (
    id serial PRIMARY KEY,
    name text NOT NULL,
    price numeric(12,2) NOT NULL DEFAULT 0,
    description text NOT NULL DEFAULT '',
    purchase_link text NOT NULL DEFAULT '',
    image_url text NOT NULL DEFAULT '',
    status text NOT NULL DEFAULT 'AVAILABLE',
    category_id integer REFERENCES categories(id),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
    id serial PRIMARY KEY,
    user_id integer NOT NULL REFERENCES users(id),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    deleted_at timestamptz
);

CREATE TABLE IF NOT EXISTS gift_on_order (
    gift_id integer NOT NULL REFERENCES gifts(id),
    order_id integer NOT NULL REFERENCES orders(id),
    PRIMARY KEY (gift_id, order_id)
);

CREATE TABLE IF NOT EXISTS reservations (
    id serial PRIMARY KEY,
    user_id integer NOT NULL REFERENCES users(id),
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS gift_on_reservation (
    gift_id integer NOT NULL REFERENCES gifts(id),
    reservation_id integer NOT NULL REFERENCES reservations(id),
    PRIMARY KEY (gift_id, reservation_id)
);
`

func RunBootstrapMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, bootstrapMigration)
	return err
}
