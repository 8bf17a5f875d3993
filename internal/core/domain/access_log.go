package domain

import "time"

const TableAccessLogs = "access_logs"

// AccessLogEntry records one authorization decision.
type AccessLogEntry struct {
	Timestamp  time.Time
	IdentityID string
	Role       string
	Action     string
	Resource   string
	IPAddress  string
	UserAgent  string
	Success    bool
	Error      string
}

// Record renders the entry as an access_logs row.
func (e AccessLogEntry) Record() Record {
	r := Record{
		"timestamp":  e.Timestamp.UTC(),
		"user_id":    e.IdentityID,
		"user_type":  e.Role,
		"action":     e.Action,
		"resource":   e.Resource,
		"ip_address": e.IPAddress,
		"user_agent": e.UserAgent,
		"success":    e.Success,
	}
	if e.Error != "" {
		r["error_message"] = e.Error
	}
	return r
}
