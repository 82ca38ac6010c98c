package libjitsi

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/go-logr/logr"
)

// ChangeHandler is notified whenever the conference's dominant speaker
// changes. ok is false when the conference no longer has a dominant speaker
// (for example, it became empty); otherwise ssrc names the new one.
type ChangeHandler func(ssrc SSRC, ok bool)

// Subscription represents one registered ChangeHandler. Unsubscribe is safe
// to call more than once and from any goroutine.
type Subscription struct {
	handler ChangeHandler
	parent  *notifier
}

// Unsubscribe removes the handler from the conference's observer list. It
// is a no-op if already unsubscribed.
func (sub *Subscription) Unsubscribe() {
	sub.parent.remove(sub)
}

// notifier holds the registered observers for dominant-speaker changes and
// dispatches them outside of any lock, matching the teacher's
// copy-under-lock/call-outside-lock convention for worker notifications.
type notifier struct {
	mu     sync.Mutex
	subs   []*Subscription
	logger logr.Logger
}

func newNotifier(logger logr.Logger) *notifier {
	return &notifier{logger: logger}
}

func (n *notifier) add(handler ChangeHandler) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	sub := &Subscription{handler: handler, parent: n}
	n.subs = append(n.subs, sub)
	return sub
}

func (n *notifier) remove(target *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, sub := range n.subs {
		if sub == target {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

// fire invokes every registered handler with the new dominant speaker. It
// must be called without holding the conference or speaker lock. Each
// handler is isolated: a panicking observer is recovered, logged, and does
// not prevent the remaining observers from running or corrupt engine state.
func (n *notifier) fire(ssrc SSRC, ok bool) {
	n.mu.Lock()
	handlers := make([]*Subscription, len(n.subs))
	copy(handlers, n.subs)
	n.mu.Unlock()

	for _, sub := range handlers {
		n.safeCall(sub.handler, ssrc, ok)
	}
}

func (n *notifier) safeCall(handler ChangeHandler, ssrc SSRC, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Info("observer panicked", "panic", fmt.Sprintf("%v", r), "stack", string(debug.Stack()))
		}
	}()
	handler(ssrc, ok)
}
