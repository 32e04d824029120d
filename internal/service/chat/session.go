// Package chat owns per-user conversation state and the send pipeline: user
// message in, backend round-trip, envelope split, speech dispatch, bot
// message appended. The conversation log is the sole error-reporting surface;
// a failed turn becomes a bot-authored diagnostic entry, never a panic or an
// error returned to the caller.
package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kevintang/slate-gateway/internal/model/chat"
	"github.com/kevintang/slate-gateway/internal/service/envelope"
)

// Backend abstracts the downstream chat backend so sessions can be exercised
// without a live server.
type Backend interface {
	SendText(ctx context.Context, userID, text string) (string, error)
	SendImage(ctx context.Context, imagePath string) (string, error)
}

// Synthesizer abstracts speech dispatch. A nil Synthesizer disables audio
// without touching the text pipeline.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

const queueCapacity = 100

// Session is one user's conversation. The log is append-only; at most one
// backend call is in flight per session because a single worker goroutine
// drains the queue.
type Session struct {
	userID  string
	backend Backend
	speech  Synthesizer

	mu          sync.RWMutex
	messages    []chat.Message
	senderLabel string

	watcherMu   sync.Mutex
	watchers    map[int]chan chat.Message
	nextWatcher int

	queue chan chat.Message
}

func newSession(userID string, backend Backend, speech Synthesizer, senderLabel string) *Session {
	s := &Session{
		userID:      userID,
		backend:     backend,
		speech:      speech,
		senderLabel: senderLabel,
		messages:    make([]chat.Message, 0, 16),
		watchers:    make(map[int]chan chat.Message),
		queue:       make(chan chat.Message, queueCapacity),
	}

	go s.runWorker()
	return s
}

// UserID returns the stable external identifier this session is keyed by.
func (s *Session) UserID() string { return s.userID }

// Send records the outbound message immediately and queues the backend
// round-trip. It never blocks on the network and never returns an error; the
// eventual outcome lands in the log.
func (s *Session) Send(msg chat.Message) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Sender == "" {
		msg.Sender = chat.SenderUser
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	s.append(msg)
	s.queue <- msg
}

// Transcript returns a copy of the conversation log.
func (s *Session) Transcript() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// SenderLabel returns the label applied to subsequent bot messages.
func (s *Session) SenderLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.senderLabel
}

// SetSenderLabel rewrites the bot display label for subsequent messages.
// Already-appended messages keep the label they were created with.
func (s *Session) SetSenderLabel(label string) {
	if label == "" {
		return
	}
	s.mu.Lock()
	s.senderLabel = label
	s.mu.Unlock()
}

// Subscribe registers a watcher that receives every append in order. The
// returned cancel func must be called when the watcher goes away. Slow
// watchers miss messages rather than stalling the session.
func (s *Session) Subscribe() (<-chan chat.Message, func()) {
	ch := make(chan chat.Message, 16)

	s.watcherMu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch
	s.watcherMu.Unlock()

	cancel := func() {
		s.watcherMu.Lock()
		delete(s.watchers, id)
		s.watcherMu.Unlock()
	}
	return ch, cancel
}

// runWorker serializes backend round-trips for this session.
func (s *Session) runWorker() {
	for msg := range s.queue {
		s.process(msg)
	}
}

// process drives one queued turn through backend, parser and synthesis. The
// worker is detached from any request context; outbound calls are bounded by
// the HTTP client timeouts instead.
func (s *Session) process(msg chat.Message) {
	ctx := context.Background()

	switch {
	case msg.IsText():
		s.processText(ctx, msg.Text)
	case msg.IsImage():
		s.processImage(ctx, msg.ImagePath)
	default:
		// Nothing to dispatch; the empty message was already recorded.
	}
}

func (s *Session) processText(ctx context.Context, text string) {
	raw, err := s.backend.SendText(ctx, s.userID, text)
	if err != nil {
		s.appendFailure(err)
		return
	}

	env := envelope.Split(raw)

	// Only the primary segment is spoken; vector data stays out of audio.
	audioPath := ""
	if s.speech != nil {
		path, synthErr := s.speech.Synthesize(ctx, env.Primary)
		if synthErr != nil {
			log.Printf("[chat] synthesis unavailable for user=%s: %v", s.userID, synthErr)
		} else {
			audioPath = path
		}
	}

	s.appendBot(env.Display(), audioPath)
}

func (s *Session) processImage(ctx context.Context, imagePath string) {
	reply, err := s.backend.SendImage(ctx, imagePath)
	if err != nil {
		s.appendFailure(err)
		return
	}

	s.appendBot(reply, "")
}

// appendFailure records a failed turn as a bot-authored diagnostic message.
func (s *Session) appendFailure(err error) {
	log.Printf("[chat] turn failed for user=%s: %v", s.userID, err)
	s.appendBot(err.Error(), "")
}

func (s *Session) appendBot(text, audioPath string) {
	s.append(chat.Message{
		ID:        uuid.NewString(),
		Sender:    s.SenderLabel(),
		Text:      text,
		AudioPath: audioPath,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Session) append(msg chat.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.watcherMu.Lock()
	for _, ch := range s.watchers {
		select {
		case ch <- msg:
		default:
		}
	}
	s.watcherMu.Unlock()
}
