package jobs

import (
	"fmt"
	"time"

	"glowfeed-api/services"
)

// SessionCleanupJob periodically drops chat sessions that have been idle
// long enough that their in-memory history is just taking up space.
type SessionCleanupJob struct {
	chatService *services.ChatService
	maxIdle     time.Duration
	ticker      *time.Ticker
	done        chan bool
}

func NewSessionCleanupJob(chatService *services.ChatService, interval, maxIdle time.Duration) *SessionCleanupJob {
	return &SessionCleanupJob{
		chatService: chatService,
		maxIdle:     maxIdle,
		ticker:      time.NewTicker(interval),
		done:        make(chan bool),
	}
}

// Start begins the cleanup job
func (j *SessionCleanupJob) Start() {
	fmt.Println("Chat session cleanup job started")

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				fmt.Println("Chat session cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *SessionCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *SessionCleanupJob) cleanup() {
	if evicted := j.chatService.EvictIdleSessions(j.maxIdle); evicted > 0 {
		fmt.Printf("Evicted %d idle chat sessions\n", evicted)
	}
}
