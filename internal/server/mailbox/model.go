package mailbox

import "time"

// User is a registered account. PasswordHash is set once at registration.
type User struct {
	DisplayName  string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}

// Stats is a point-in-time view of the store's size.
type Stats struct {
	Users           int
	Mailboxes       int
	PendingMessages int
}
