package session

import (
	"net/http"
)

const (
	// Default Flash Class
	FlashAlert   = "alert"
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	DefaultErrMsg = "Uh oh! We've run into an issue."
	NoAccessMsg   = "Please sign in to continue."
)

// The FlashSessionable wraps methods for one-time messages shown on the next rendered page.
type FlashSessionable interface {
	Flashes(w http.ResponseWriter, r *http.Request) []Flash
	SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error
}

// A Flash is a status message shown once.
//
// FlashAlert flashes are only raised as a blocking alert.
// Other flashes are shown inline; error flashes are raised as an alert too.
type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`

	// Alert, if set, is raised as a blocking alert instead of Msg.
	Alert string `json:"alert,omitempty"`
}

// IsError asserts whether the Flash reports an error.
func (f Flash) IsError() bool { return f.Class == FlashError }

// Inline asserts whether pages show the Flash in their status area.
func (f Flash) Inline() bool { return f.Class != FlashAlert }

// AlertMsg is what pages raise as a blocking alert, if anything.
func (f Flash) AlertMsg() string {
	switch {
	case f.Alert != "":
		return f.Alert
	case f.IsError(), f.Class == FlashAlert:
		return f.Msg
	default:
		return ""
	}
}
