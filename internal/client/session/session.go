// Package session holds who is signed in on this client. Flows receive an
// Accessor at construction instead of reaching for global state.
package session

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/smehub/internal/common"
)

// Session is the signed-in user. MasterKey unlocks the offline cache; it is
// derived from the password at sign-in and never persisted.
type Session struct {
	UserID      string
	Email       string
	AccountType string
	Offline     bool
	MasterKey   []byte
}

// SignInResult is what the auth collaborator reports for accepted
// credentials. Offline means the session was resolved locally and no
// passcode step follows.
type SignInResult struct {
	Offline bool
}

// Accessor reads the current session.
type Accessor interface {
	Current() (Session, bool)
}

// Store is the process-wide Accessor implementation. It is safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	current *Session
}

func NewStore() *Store {
	return &Store{}
}

// Current returns a snapshot of the session. MasterKey is a private copy
// that later Set or Clear calls do not touch; callers wipe it when done.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	sess := *s.current
	sess.MasterKey = slices.Clone(s.current.MasterKey)
	return sess, true
}

// Set replaces the session and takes ownership of sess.MasterKey, which is
// wiped when the session is replaced or cleared.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipe()
	s.current = &sess
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipe()
	s.current = nil
}

func (s *Store) wipe() {
	if s.current != nil {
		common.WipeByteArray(s.current.MasterKey)
	}
}
