package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"glowfeed-api/models"
)

var (
	// ErrChatBusy means a send is already in flight for this user. Callers
	// treat it as a dropped call, not a failure: the message list is
	// untouched.
	ErrChatBusy = errors.New("a message is already being processed")

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyMessage     = errors.New("message content is empty")
)

// apologyMessage is appended as a local-only assistant turn when the
// completion transport fails. The user keeps a visible, recoverable state;
// retry is them sending again.
const apologyMessage = "I'm sorry, something went wrong while I was answering. Please try sending that again."

// MessageStore persists chat turns.
type MessageStore interface {
	InsertMessage(ctx context.Context, userID, role, content string) (*models.ChatMessage, error)
	FetchMessages(ctx context.Context, userID string) ([]models.ChatMessage, error)
}

// Completer produces streamed assistant replies.
type Completer interface {
	ChatStream(ctx context.Context, messages []GroqMessage, opts GroqOptions, onDelta func(delta string)) (string, error)
}

type sessionState int

const (
	stateIdle sessionState = iota
	stateSending
	stateStreaming
)

// chatSession is one user's in-memory ordered message list plus the
// send state machine: Idle -> Sending -> Streaming -> Idle.
type chatSession struct {
	mu         sync.Mutex
	state      sessionState
	loaded     bool
	messages   []models.ChatMessage
	lastActive time.Time

	// persistWG tracks the detached user-message persist so it is a known
	// background task rather than an unobserved goroutine.
	persistWG sync.WaitGroup
}

// ChatService coordinates optimistic sends and streamed assistant replies,
// one session per user. A single send is in flight per session at a time;
// concurrent sends are rejected, not queued.
type ChatService struct {
	store     MessageStore
	completer Completer
	timeout   time.Duration

	mu       sync.Mutex
	sessions map[string]*chatSession
}

func NewChatService(store MessageStore, completer Completer, timeout time.Duration) *ChatService {
	return &ChatService{
		store:     store,
		completer: completer,
		timeout:   timeout,
		sessions:  make(map[string]*chatSession),
	}
}

func (cs *ChatService) session(userID string) *chatSession {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	sess, ok := cs.sessions[userID]
	if !ok {
		sess = &chatSession{lastActive: time.Now()}
		cs.sessions[userID] = sess
	}
	return sess
}

// Messages returns a snapshot of the user's conversation, loading history
// from the store on first access.
func (cs *ChatService) Messages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	sess := cs.session(userID)

	if err := cs.ensureLoaded(ctx, userID, sess); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	snapshot := make([]models.ChatMessage, len(sess.messages))
	copy(snapshot, sess.messages)
	return snapshot, nil
}

func (cs *ChatService) ensureLoaded(ctx context.Context, userID string, sess *chatSession) error {
	sess.mu.Lock()
	loaded := sess.loaded
	sess.mu.Unlock()
	if loaded {
		return nil
	}

	history, err := cs.store.FetchMessages(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load chat history: %w", err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.loaded {
		sess.messages = history
		sess.loaded = true
	}
	return nil
}

// Send runs one optimistic chat turn:
//
//  1. Rejects the call while a prior send is still in flight (ErrChatBusy).
//  2. Appends a provisional user message immediately, before any network I/O.
//  3. Persists the user message in a tracked background task; on success the
//     provisional entry is replaced in place by the stored row, on failure it
//     stays as this session's representation and the error is logged.
//  4. Streams the assistant reply, forwarding deltas in arrival order.
//  5. Persists the full assistant text; if saving fails a local-only
//     assistant message is kept so a completed answer is never dropped.
//
// On transport failure a fixed apology message is appended and returned
// together with the error. The stream is bound to ctx plus the configured
// timeout; mid-stream cancellation beyond that is not supported.
func (cs *ChatService) Send(ctx context.Context, user *models.User, content string, onDelta func(delta string)) (*models.ChatMessage, error) {
	if user == nil || user.ID == "" {
		return nil, ErrNotAuthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	sess := cs.session(user.ID)
	if err := cs.ensureLoaded(ctx, user.ID, sess); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.state != stateIdle {
		sess.mu.Unlock()
		return nil, ErrChatBusy
	}
	sess.state = stateSending
	sess.lastActive = time.Now()

	provisional := models.ChatMessage{
		ID:        models.NewLocalMessageID(),
		UserID:    user.ID,
		Role:      models.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	sess.messages = append(sess.messages, provisional)

	payload := cs.buildPayload(user, sess.messages)
	sess.mu.Unlock()

	cs.persistUserMessage(sess, user.ID, provisional)

	sess.mu.Lock()
	sess.state = stateStreaming
	sess.mu.Unlock()

	streamCtx, cancel := context.WithTimeout(ctx, cs.timeout)
	defer cancel()

	fullText, err := cs.completer.ChatStream(streamCtx, payload, GroqOptions{}, onDelta)

	sess.mu.Lock()
	sess.state = stateIdle
	sess.lastActive = time.Now()
	sess.mu.Unlock()

	if err != nil {
		apology := cs.appendLocalAssistant(sess, user.ID, apologyMessage)
		return apology, err
	}

	saved, saveErr := cs.store.InsertMessage(ctx, user.ID, models.RoleAssistant, fullText)
	if saveErr != nil {
		log.Printf("Failed to save assistant message for user %s: %v", user.ID, saveErr)
		return cs.appendLocalAssistant(sess, user.ID, fullText), nil
	}

	sess.mu.Lock()
	sess.messages = append(sess.messages, *saved)
	sess.mu.Unlock()
	return saved, nil
}

// persistUserMessage saves the optimistic user message in the background and
// reconciles the in-memory list when the store answers. The session's wait
// group makes the task observable instead of fire-and-forget.
func (cs *ChatService) persistUserMessage(sess *chatSession, userID string, provisional models.ChatMessage) {
	sess.persistWG.Add(1)
	go func() {
		defer sess.persistWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), cs.timeout)
		defer cancel()

		saved, err := cs.store.InsertMessage(ctx, userID, provisional.Role, provisional.Content)
		if err != nil {
			// The provisional entry stays; durability is not guaranteed for
			// this turn but the visible history is intact.
			log.Printf("Failed to save user message for user %s: %v", userID, err)
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()
		for i := range sess.messages {
			if sess.messages[i].ID == provisional.ID {
				sess.messages[i] = *saved
				return
			}
		}
	}()
}

func (cs *ChatService) appendLocalAssistant(sess *chatSession, userID, content string) *models.ChatMessage {
	msg := models.ChatMessage{
		ID:        models.NewLocalMessageID(),
		UserID:    userID,
		Role:      models.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}

	sess.mu.Lock()
	sess.messages = append(sess.messages, msg)
	sess.mu.Unlock()
	return &msg
}

// buildPayload produces the completion request: one system turn derived from
// the taste profile, then the conversation in order ending with the new user
// message. Callers hold sess.mu.
func (cs *ChatService) buildPayload(user *models.User, messages []models.ChatMessage) []GroqMessage {
	payload := make([]GroqMessage, 0, len(messages)+1)
	payload = append(payload, GroqMessage{
		Role:    "system",
		Content: buildSystemPrompt(user.TasteProfile()),
	})

	for _, m := range messages {
		payload = append(payload, GroqMessage{Role: m.Role, Content: m.Content})
	}
	return payload
}

// buildSystemPrompt renders the taste profile for the assistant. Absent
// fields become an explicit "not specified" rather than being omitted.
func buildSystemPrompt(profile models.TasteProfile) string {
	orPlaceholder := func(s string) string {
		if s == "" {
			return "not specified"
		}
		return s
	}

	brands := "not specified"
	if len(profile.FavoriteBrands) > 0 {
		brands = strings.Join(profile.FavoriteBrands, ", ")
	}

	return fmt.Sprintf(
		"You are Glow, a friendly beauty and skincare assistant inside the GlowFeed app. "+
			"Give concise, practical advice tailored to this user. "+
			"User profile - favorite brands: %s; daily routine time (minutes): %s; beauty vibe: %s; experience points: %d.",
		brands,
		orPlaceholder(profile.RoutineTime),
		orPlaceholder(profile.BeautyVibe),
		profile.XPPoints,
	)
}

// EvictIdleSessions drops in-memory sessions that have been idle for longer
// than maxIdle. Sessions with a send in flight are kept.
func (cs *ChatService) EvictIdleSessions(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	evicted := 0
	for userID, sess := range cs.sessions {
		sess.mu.Lock()
		idle := sess.state == stateIdle && sess.lastActive.Before(cutoff)
		sess.mu.Unlock()

		if idle {
			delete(cs.sessions, userID)
			evicted++
		}
	}
	return evicted
}
