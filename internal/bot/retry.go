package bot

import (
	"errors"
	"log"
	"time"

	"github.com/scythe504/goroda-bot/internal"
)

const maxEditAttempts = 5

// RetryingNotifier wraps a Notifier and retries rate-limited message edits
// with exponential backoff (base, 2*base, 4*base, ...). Retrying lives here
// in the transport layer; the game core fires an edit once and moves on.
type RetryingNotifier struct {
	next    internal.Notifier
	backoff time.Duration
}

func NewRetryingNotifier(next internal.Notifier) *RetryingNotifier {
	return &RetryingNotifier{next: next, backoff: time.Second}
}

// WithBackoff overrides the base backoff delay (tests use a tiny one).
func (n *RetryingNotifier) WithBackoff(base time.Duration) *RetryingNotifier {
	n.backoff = base
	return n
}

func (n *RetryingNotifier) Notify(roomId, text string) {
	n.next.Notify(roomId, text)
}

func (n *RetryingNotifier) NotifyWithRef(roomId, text string) (internal.MessageRef, error) {
	return n.next.NotifyWithRef(roomId, text)
}

func (n *RetryingNotifier) Edit(ref internal.MessageRef, text string) error {
	delay := n.backoff
	var err error
	for attempt := 0; attempt < maxEditAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		err = n.next.Edit(ref, text)
		if err == nil {
			return nil
		}
		if !errors.Is(err, internal.ErrRateLimited) {
			return err
		}
	}
	log.Printf("[Edit] room=%s msg=%d: giving up after %d attempts: %v",
		ref.RoomId, ref.MessageId, maxEditAttempts, err)
	return err
}
