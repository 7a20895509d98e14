package services

import (
	"fmt"
	"sync"
	"time"
)

// SMSRateLimiter caps outbound messages per recipient over a sliding
// window, so a misconfigured notifier cannot spam a phone number.
type SMSRateLimiter struct {
	mu          sync.Mutex
	sent        map[string][]time.Time
	maxMessages int
	window      time.Duration
}

// NewSMSRateLimiter creates a limiter allowing maxMessages per
// recipient within window.
func NewSMSRateLimiter(maxMessages int, window time.Duration) *SMSRateLimiter {
	return &SMSRateLimiter{
		sent:        make(map[string][]time.Time),
		maxMessages: maxMessages,
		window:      window,
	}
}

// Allow records one send attempt for the number, rejecting it when the
// window is already full.
func (rl *SMSRateLimiter) Allow(phoneNumber string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.expire(phoneNumber, now)

	if len(rl.sent[phoneNumber]) >= rl.maxMessages {
		return fmt.Errorf("rate limit exceeded: maximum %d SMS per %v", rl.maxMessages, rl.window)
	}
	rl.sent[phoneNumber] = append(rl.sent[phoneNumber], now)
	return nil
}

func (rl *SMSRateLimiter) expire(phoneNumber string, now time.Time) {
	timestamps, ok := rl.sent[phoneNumber]
	if !ok {
		return
	}
	cutoff := now.Add(-rl.window)
	kept := timestamps[:0]
	for _, t := range timestamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(rl.sent, phoneNumber)
	} else {
		rl.sent[phoneNumber] = kept
	}
}

// Reset clears all tracked recipients.
func (rl *SMSRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.sent = make(map[string][]time.Time)
}
