package domain

import (
	"fmt"
	"strings"
)

// Owner identifies who an order belongs to: exactly one of a registered
// user id or a guest email. The zero Owner carries no identity.
type Owner struct {
	userID     int64
	guestEmail string
	registered bool
}

// RegisteredUser builds an Owner for an authenticated user.
func RegisteredUser(userID int64) Owner {
	return Owner{userID: userID, registered: true}
}

// Guest builds an Owner for a guest checkout identified by email.
func Guest(email string) Owner {
	return Owner{guestEmail: strings.TrimSpace(email)}
}

// UserID returns the user id when the owner is a registered user.
func (o Owner) UserID() (int64, bool) {
	return o.userID, o.registered
}

// GuestEmail returns the guest email when the owner is a guest.
func (o Owner) GuestEmail() (string, bool) {
	if o.registered || o.guestEmail == "" {
		return "", false
	}
	return o.guestEmail, true
}

// IsZero reports whether the owner carries no identity at all.
func (o Owner) IsZero() bool {
	return !o.registered && o.guestEmail == ""
}

// String renders a log-friendly identity, never used for authorization.
func (o Owner) String() string {
	if o.registered {
		return fmt.Sprintf("user %d", o.userID)
	}
	if o.guestEmail != "" {
		return fmt.Sprintf("guest %s", o.guestEmail)
	}
	return "anonymous"
}
