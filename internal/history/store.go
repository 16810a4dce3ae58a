// Package history holds the in-memory chat transcript of a session.
package history

import (
	"sync"
	"time"

	"github.com/diogo/projassist/internal/models"
)

// Store is the append-only, ordered list of transcript messages.
// It lives for one session and is never persisted.
type Store struct {
	mu        sync.RWMutex
	messages  []models.Message
	nextSeq   uint64
	observers map[int]func(models.Message)
	nextObs   int
	now       func() time.Time
}

// NewStore creates a store whose first message is the given assistant greeting
func NewStore(greeting string) *Store {
	s := &Store{
		observers: make(map[int]func(models.Message)),
		now:       time.Now,
	}
	s.append(models.MessageAssistant, greeting)
	return s
}

// Append places a new message at the tail and returns it.
// Observers are notified after the store lock is released.
func (s *Store) Append(msgType models.MessageType, content string) models.Message {
	msg, observers := s.append(msgType, content)
	for _, fn := range observers {
		fn(msg)
	}
	return msg
}

func (s *Store) append(msgType models.MessageType, content string) (models.Message, []func(models.Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	msg := models.Message{
		ID:        models.MessageID(s.nextSeq),
		Seq:       s.nextSeq,
		Type:      msgType,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)

	observers := make([]func(models.Message), 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if fn, ok := s.observers[i]; ok {
			observers = append(observers, fn)
		}
	}
	return msg, observers
}

// Snapshot returns a copy of the messages in chronological order
func (s *Store) Snapshot() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the newest message
func (s *Store) Last() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return models.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastOfType returns the newest message of the given type
func (s *Store) LastOfType(msgType models.MessageType) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Type == msgType {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// Subscribe registers fn to be called after every Append.
// The returned cancel function is safe to call more than once.
func (s *Store) Subscribe(fn func(models.Message)) (cancel func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}
