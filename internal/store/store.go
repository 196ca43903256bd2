package store

import (
	"time"

	"github.com/brgarcias/apartment-gift-list/internal/db"
)

// Gift status lifecycle. A reserved gift can still be released back to
// available; a purchased gift is terminal until its order is deleted.
const (
	GiftAvailable = "AVAILABLE"
	GiftReserved  = "RESERVED"
	GiftPurchased = "PURCHASED"
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	BirthDate    string    `json:"birthDate"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Orders       []Order   `json:"orders,omitempty"`
}

type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Gift struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	PurchaseLink string    `json:"purchaseLink"`
	ImageURL     string    `json:"imageUrl"`
	Status       string    `json:"status"`
	CategoryID   *int      `json:"categoryId,omitempty"`
	Category     *Category `json:"category,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Order struct {
	ID        int        `json:"id"`
	UserID    int        `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	Gifts     []Gift     `json:"gifts,omitempty"`
}

type Reservation struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserPayload is the sign-up/sign-in identity: a name plus birth date pair.
type UserPayload struct {
	Name         string `json:"name"`
	BirthDate    string `json:"birthDate"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

// Store is the postgres persistence layer. The BFF core never talks to it
// directly; it is reached only through the domain handlers.
type Store struct {
	db *db.DB
}

func New(db *db.DB) *Store {
	return &Store{db: db}
}
