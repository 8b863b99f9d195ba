// Package mailbox holds registered users and their pending message queues.
//
// All access to the shared maps goes through Store, whose four operations
// (Register, Authenticate, Deposit, Drain) are serialized by a single mutex.
package mailbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/postbox/internal/common"
	"github.com/dmitrijs2005/postbox/internal/protocol"
	"github.com/dmitrijs2005/postbox/internal/shared"
)

// PasswordHasher hashes and verifies passwords. See cryptox.PasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Store is the in-memory user registry and mailbox set. It is safe for
// concurrent use.
type Store struct {
	mu        sync.Mutex
	users     map[string]*User
	mailboxes map[string][]protocol.Message

	hasher PasswordHasher
	// decoy is verified against when the user is absent so that both
	// failure causes cost the same.
	decoy string
}

// NewStore returns an empty store that hashes passwords with hasher.
func NewStore(hasher PasswordHasher) (*Store, error) {
	secret, err := shared.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("error generating decoy password: %w", err)
	}
	decoy, err := hasher.Hash(secret)
	if err != nil {
		return nil, err
	}

	return &Store{
		users:     make(map[string]*User),
		mailboxes: make(map[string][]protocol.Message),
		hasher:    hasher,
		decoy:     decoy,
	}, nil
}

// Register creates a user. The password is hashed before the lock is taken;
// the uniqueness check and the insert happen atomically under it.
func (s *Store) Register(ctx context.Context, displayName, userName, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if userName == "" || password == "" {
		return common.ErrInvalidRegistration
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userName]; ok {
		return common.ErrUsernameTaken
	}
	s.users[userName] = &User{
		DisplayName:  displayName,
		UserName:     userName,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	return nil
}

// Authenticate returns the user's display name. Unknown user and wrong
// password both yield common.ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, userName, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	user, ok := s.users[userName]
	s.mu.Unlock()

	// users are never mutated after insert, so the hash can be read unlocked
	if !ok {
		s.hasher.Verify(password, s.decoy)
		return "", common.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}
	return user.DisplayName, nil
}

// Deposit appends msg to the recipient's mailbox, creating it on first use.
func (s *Store) Deposit(ctx context.Context, msg protocol.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[msg.Recipient]; !ok {
		return fmt.Errorf("%w %q", common.ErrUnknownRecipient, msg.Recipient)
	}
	if msg.Sender == msg.Recipient {
		return common.ErrSelfSend
	}
	s.mailboxes[msg.Recipient] = append(s.mailboxes[msg.Recipient], msg)
	return nil
}

// Drain removes and returns every pending message for userName in arrival
// order. An absent or empty mailbox yields common.ErrEmptyMailbox.
func (s *Store) Drain(ctx context.Context, userName string) ([]protocol.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.mailboxes[userName]
	if len(pending) == 0 {
		return nil, common.ErrEmptyMailbox
	}
	s.mailboxes[userName] = nil
	return pending, nil
}

// Stats reports current counts.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Users: len(s.users), Mailboxes: len(s.mailboxes)}
	for _, q := range s.mailboxes {
		st.PendingMessages += len(q)
	}
	return st
}
