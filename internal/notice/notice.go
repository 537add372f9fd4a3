// Package notice defines the transient messages shown to the user after an
// action succeeds or is refused.
package notice

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notice stays on screen unless configured.
const DefaultTTL = 2 * time.Second

// Notice is a short-lived, non-blocking message.
type Notice struct {
	ID      string        `json:"id"`
	Message string        `json:"message"`
	Error   bool          `json:"error"`
	TTL     time.Duration `json:"-"`
	TTLMS   int64         `json:"ttl_ms"`
}

// New creates a notice with a fresh ID.
func New(message string, isError bool, ttl time.Duration) Notice {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Notice{
		ID:      uuid.New().String(),
		Message: message,
		Error:   isError,
		TTL:     ttl,
		TTLMS:   ttl.Milliseconds(),
	}
}

// Notifier delivers notices to whatever is displaying the session.
type Notifier interface {
	Notify(n Notice)
}

// Discard drops every notice.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(Notice) {}

// Messages shown by the editor actions.
const (
	MsgCopyEmpty     = "Error: The code box is empty! Please enter some code."
	MsgExportEmpty   = "Error: All code boxes are empty! Please enter some code."
	MsgExportDone    = "Code downloaded successfully!"
	MsgDeleteEmpty   = "Nothing to delete!"
	MsgDetachedEmpty = "Error: Please fill out at least one editor (HTML, CSS, JavaScript) before previewing."

	fmtCopied     = "%s code copied!"
	fmtCopyFailed = "Error: failed to copy %s code."
	fmtDeleted    = "%s code deleted!"
)
