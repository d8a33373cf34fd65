// Package notify collects user-facing notices (the toasts of the app). Every
// error that reaches the user goes through here; none of them are fatal.
package notify

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/echovault/internal/common"
)

const (
	TitleError          = "Error"
	TitleDeleteFailed   = "Error Deleting Entry"
	TitleDeleted        = "Entry Deleted"
	TitleSaveFailed     = "Error Saving Memory"
	TitleSaved          = "Memory Saved!"
	TitleValidation     = "Uh oh!"
	TitleNotLoggedIn    = "Not Logged In"
	TitleLoginFailed    = "Login Failed"
	TitleLogoutFailed   = "Logout Failed"
	TitleLoggedOut      = "Logged Out"
	TitleRegisterFailed = "Registration Failed"
)

// MaxNotices bounds the backlog; the oldest notice is dropped first.
const MaxNotices = 50

type Kind int

const (
	KindInfo Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "info"
}

type Notice struct {
	ID      int
	Kind    Kind
	Title   string
	Message string
	At      time.Time
}

// Center is safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	notices []Notice
	nextID  int
	now     func() time.Time
	onPost  func(Notice)
}

func NewCenter() *Center {
	return &Center{nextID: 1, now: time.Now}
}

// OnPost registers a hook called after each new notice.
func (c *Center) OnPost(fn func(Notice)) {
	c.mu.Lock()
	c.onPost = fn
	c.mu.Unlock()
}

func (c *Center) Info(title, message string) Notice {
	return c.post(KindInfo, title, message)
}

// Error posts err under title. A nil err posts nothing.
func (c *Center) Error(title string, err error) (Notice, bool) {
	if err == nil {
		return Notice{}, false
	}
	return c.post(KindError, title, Describe(err)), true
}

func (c *Center) post(kind Kind, title, message string) Notice {
	c.mu.Lock()
	n := Notice{ID: c.nextID, Kind: kind, Title: title, Message: message, At: c.now()}
	c.nextID++
	c.notices = append(c.notices, n)
	if len(c.notices) > MaxNotices {
		c.notices = c.notices[len(c.notices)-MaxNotices:]
	}
	hook := c.onPost
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return n
}

// List returns the pending notices, oldest first.
func (c *Center) List() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Dismiss removes the notice with the given id.
func (c *Center) Dismiss(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("notice %d: %w", id, common.ErrNotFound)
}

func (c *Center) Clear() {
	c.mu.Lock()
	c.notices = nil
	c.mu.Unlock()
}

// Describe turns an error into the message shown to the user.
func Describe(err error) string {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Msg
	case errors.Is(err, common.ErrNotLoggedIn):
		return "You must be logged in to do that."
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, common.ErrUnknownProvider):
		return err.Error()
	case errors.Is(err, common.ErrNotFound):
		return "That entry no longer exists."
	case errors.Is(err, common.ErrDeleteInProgress):
		return "That entry is already being deleted."
	default:
		return err.Error()
	}
}

// TitleFor picks the notice title for an error returned by op, one of
// "fetch", "create", "delete", "sign in", "sign out", "register".
func TitleFor(op string, err error) string {
	switch {
	case common.IsValidation(err):
		return TitleValidation
	case errors.Is(err, common.ErrNotLoggedIn):
		return TitleNotLoggedIn
	}
	switch op {
	case "create":
		return TitleSaveFailed
	case "delete":
		return TitleDeleteFailed
	case "sign in":
		return TitleLoginFailed
	case "sign out":
		return TitleLogoutFailed
	case "register":
		return TitleRegisterFailed
	default:
		return TitleError
	}
}
