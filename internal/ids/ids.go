package ids

import "github.com/segmentio/ksuid"

// New returns a sortable, URL-safe unique id.
func New() string {
	return ksuid.New().String()
}

// NewUser returns a user id with the legacy "user_" prefix kept for
// compatibility with existing records.
func NewUser() string {
	return "user_" + ksuid.New().String()
}
