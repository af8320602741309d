package domain

import "time"

// Session is server-side state referenced by the session cookie.
type Session struct {
	ID        string
	UserID    *int64
	Data      SessionData
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionData is the JSON payload stored with a session.
type SessionData struct {
	Flash    *Flash `json:"flash,omitempty"`
	Intended string `json:"intended,omitempty"`
}

// Flash carries values that survive exactly one redirect.
type Flash struct {
	Success string              `json:"success,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Old     map[string]any      `json:"old,omitempty"`
}

// Empty reports whether the flash holds nothing worth keeping.
func (f *Flash) Empty() bool {
	return f == nil || (f.Success == "" && len(f.Errors) == 0 && len(f.Old) == 0)
}
