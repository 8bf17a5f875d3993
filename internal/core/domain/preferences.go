package domain

import "time"

const TablePreferences = "user_preferences"

const preferencesVersion = "1.0"

// Preferences holds per-identity UI and notification settings.
type Preferences struct {
	ID                   string         `json:"id,omitempty"`
	UserID               string         `json:"user_id"`
	UISettings           map[string]any `json:"ui_settings"`
	NotificationSettings map[string]any `json:"notification_settings"`
	DashboardVisited     bool           `json:"dashboard_visited"`
	LastViewedRequest    *int64         `json:"last_viewed_request,omitempty"`
	Version              string         `json:"version"`
	CreatedAt            time.Time      `json:"created_at,omitempty"`
	UpdatedAt            time.Time      `json:"updated_at,omitempty"`
}

// DefaultPreferences is what an identity sees before its first write.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:               userID,
		UISettings:           map[string]any{},
		NotificationSettings: map[string]any{},
		Version:              preferencesVersion,
	}
}

// PreferencesFromRecord maps a user_preferences row.
func PreferencesFromRecord(r Record) *Preferences {
	p := DefaultPreferences(r.String("user_id"))
	p.ID = r.ID()
	if m, ok := asMap(r["ui_settings"]); ok {
		p.UISettings = m
	}
	if m, ok := asMap(r["notification_settings"]); ok {
		p.NotificationSettings = m
	}
	p.DashboardVisited = r.Bool("dashboard_visited")
	if n, ok := asInt64(r["last_viewed_request"]); ok {
		p.LastViewedRequest = &n
	}
	if v := r.String("version"); v != "" {
		p.Version = v
	}
	p.CreatedAt = r.Time(FieldCreatedAt)
	p.UpdatedAt = r.Time(FieldUpdatedAt)
	return p
}

// PreferencesPatch is a partial update; nil fields are left untouched.
type PreferencesPatch struct {
	UISettings           map[string]any
	NotificationSettings map[string]any
	DashboardVisited     *bool
	LastViewedRequest    *int64
}

// Record renders the non-nil fields of the patch.
func (p PreferencesPatch) Record() Record {
	r := Record{}
	if p.UISettings != nil {
		r["ui_settings"] = p.UISettings
	}
	if p.NotificationSettings != nil {
		r["notification_settings"] = p.NotificationSettings
	}
	if p.DashboardVisited != nil {
		r["dashboard_visited"] = *p.DashboardVisited
	}
	if p.LastViewedRequest != nil {
		r["last_viewed_request"] = *p.LastViewedRequest
	}
	return r
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	default:
		return nil, false
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
