package generation

import (
	"strings"
	"sync"

	copilot "github.com/github/copilot-sdk/go"
)

const sessionFailedUnknown = "session failed with unknown error"

// SessionEventsCollector accumulates the assistant text of a Copilot session.
type SessionEventsCollector struct {
	mu          sync.Mutex
	outputParts []string
	errorMsg    string
	events      int
	done        chan struct{}
}

// NewSessionEventsCollector creates a new SessionEventsCollector.
func NewSessionEventsCollector() *SessionEventsCollector {
	return &SessionEventsCollector{
		done: make(chan struct{}),
	}
}

// Output returns the collected assistant text.
func (coll *SessionEventsCollector) Output() string {
	coll.mu.Lock()
	defer coll.mu.Unlock()
	return strings.Join(coll.outputParts, "")
}

// ErrorMessage returns the error message, if any.
func (coll *SessionEventsCollector) ErrorMessage() string {
	coll.mu.Lock()
	defer coll.mu.Unlock()
	return coll.errorMsg
}

// EventCount returns the number of events received.
func (coll *SessionEventsCollector) EventCount() int {
	coll.mu.Lock()
	defer coll.mu.Unlock()
	return coll.events
}

// Done returns the channel that is closed when the session completes.
func (coll *SessionEventsCollector) Done() <-chan struct{} {
	return coll.done
}

// On is a callback, intended to be passed to [copilot.Session.On] to receive
// events in real-time.
func (coll *SessionEventsCollector) On(event copilot.SessionEvent) {
	coll.mu.Lock()
	defer coll.mu.Unlock()

	coll.events++

	switch event.Type {
	case copilot.AssistantMessage:
		if event.Data.Content != nil {
			coll.outputParts = append(coll.outputParts, *event.Data.Content)
		}

	// these are both termination events
	case copilot.SessionIdle, copilot.SessionError:
		if event.Type == copilot.SessionError {
			if event.Data.Message == nil || *event.Data.Message == "" {
				coll.errorMsg = sessionFailedUnknown
			} else {
				coll.errorMsg = *event.Data.Message
			}
		}

		select {
		case <-coll.done:
		default:
			close(coll.done)
		}
	}
}
