package protocol

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is a single piece of mail travelling from sender to recipient.
// It is immutable once constructed.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

// NewMessage builds a Message stamped with a fresh ID and the current time.
// The timestamp is assigned here, on the composing side, not by the server.
func NewMessage(sender, recipient, subject, body string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Recipient: recipient,
		Timestamp: time.Now().UTC(),
		Subject:   subject,
		Body:      body,
	}
}

// String renders the message as the block shown to users:
//
//	From: alice
//	To: bob
//	At: 2024-01-02 15:04:05
//	Subject: hi
//	Body: yo
func (m Message) String() string {
	return fmt.Sprintf("From: %s\nTo: %s\nAt: %s\nSubject: %s\nBody: %s",
		m.Sender, m.Recipient, m.Timestamp.Local().Format(time.DateTime), m.Subject, m.Body)
}
