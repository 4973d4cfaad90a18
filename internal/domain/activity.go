package domain

import "time"

const (
	ActionCreatedContact = "Created contact"
	ActionUpdatedContact = "Updated contact"
	ActionCreatedProject = "Created project"
	ActionUpdatedProject = "Updated project"
)

// ActivityEntry is one immutable line of a record's audit trail.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	UserName  string    `json:"userName"`
	Action    string    `json:"action"`
}

// AppendActivity adds an entry attributed to actor. System-initiated
// changes have no actor and leave the log untouched; an entry is never
// synthesized without a principal.
func AppendActivity(log *[]ActivityEntry, actor *Principal, action string, now time.Time) bool {
	if actor == nil {
		return false
	}
	*log = append(*log, ActivityEntry{
		Timestamp: now.UTC(),
		UserName:  actor.Name,
		Action:    action,
	})
	return true
}
