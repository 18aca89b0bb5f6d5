package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/modelink/modelink/internal/chatlink/content"
)

// conversation is one in-memory transcript. The mutex enforces the
// single-writer-per-conversation discipline: two in-flight messages for the
// same conversation serialize here instead of losing updates.
type conversation struct {
	mu      sync.Mutex
	history content.History
}

// conversationStore holds transcripts for the process lifetime only;
// nothing is persisted across restarts.
type conversationStore struct {
	mu     sync.Mutex
	convos map[string]*conversation
}

func newConversationStore() *conversationStore {
	return &conversationStore{convos: map[string]*conversation{}}
}

// acquire returns the conversation for id, creating it (and an id) when
// absent.
func (s *conversationStore) acquire(id string) (string, *conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}
	convo, ok := s.convos[id]
	if !ok {
		convo = &conversation{}
		s.convos[id] = convo
	}
	return id, convo
}

// reset drops a conversation's history. Reports whether it existed.
func (s *conversationStore) reset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.convos[id]
	delete(s.convos, id)
	return ok
}
