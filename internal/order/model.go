package order

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	MethodStripe PaymentMethod = "stripe"
	MethodPayPal PaymentMethod = "paypal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Order is the durable record of a confirmed charge. Service and user fields
// are denormalized copies frozen at confirmation time: editing or deleting
// the gig later never changes what an order displays.
type Order struct {
	ID         uint      `json:"id"`
	ExternalID uuid.UUID `json:"externalId"`

	UserID    uint   `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone"`

	GigID    uint    `json:"gigId"`
	GigTitle string  `json:"gigTitle"`
	Tier     string  `json:"tier"`
	Price    float64 `json:"price"`

	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TransactionID string        `json:"transactionId"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	Status          Status `json:"orderStatus"`
	CancelRequested bool   `json:"cancelRequested"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConfirmationInput carries everything a payment confirmation needs to
// persist an order.
type ConfirmationInput struct {
	UserID    uint
	UserName  string
	UserEmail string
	UserPhone string

	GigID    uint
	GigTitle string
	Tier     string
	Price    float64

	Method        PaymentMethod
	TransactionID string
}

type SortField string

const (
	SortFieldCreatedAt SortField = "created_at"
	SortFieldPrice     SortField = "price"
)

type FilterInput struct {
	Search   *string
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}

type SortInput struct {
	Field     SortField
	Direction string
}
