package digest

import (
	"strings"
	"time"
)

// ExpandVars substitutes placeholders in config-provided text fields.
//
// Supported variables:
//   - {.CurrentDate} => YYYY-MM-DD (UTC)
//   - {.CurrentYear} => YYYY (UTC)
func ExpandVars(s string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	now = now.UTC()
	r := strings.NewReplacer(
		"{.CurrentDate}", now.Format("2006-01-02"),
		"{.CurrentYear}", now.Format("2006"),
	)
	return r.Replace(s)
}
