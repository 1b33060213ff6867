package review

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Review is created pending and only becomes publicly visible once an admin
// approves it.
type Review struct {
	ID      uint   `json:"id"`
	GigID   uint   `json:"gigId"`
	UserID  uint   `json:"userId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Status  Status `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
}

type CreateInput struct {
	GigID   uint   `json:"gigId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
