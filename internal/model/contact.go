package model

import (
	"database/sql"
	"time"
)

// Common contact types. ContactType is free-form; these are the values the
// site frontend knows how to render.
const (
	ContactTypeEmail    = "email"
	ContactTypePhone    = "phone"
	ContactTypeFacebook = "social_facebook"
	ContactTypeTwitter  = "social_twitter"
)

// ContactConfiguration is one publicly displayed contact channel.
type ContactConfiguration struct {
	ID          int64
	ContactType string
	ContactInfo string
	Position    int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ContactSubmission is a message received through the public contact form.
// The stored row is the durable record; the notification mail is best-effort.
type ContactSubmission struct {
	ID        int64
	Name      string
	Email     string
	Phone     sql.NullString
	Message   sql.NullString
	CreatedAt time.Time
}
