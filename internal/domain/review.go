package domain

import "time"

type Review struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"bookId"`
	UserID    int64     `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	// ReviewerName is joined from users for display, not stored on the row.
	ReviewerName string `json:"reviewerName,omitempty"`
}
