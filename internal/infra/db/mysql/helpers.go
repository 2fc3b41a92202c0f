package mysql

import "strings"

// stringOrDash returns "-" when the input is empty/whitespace, so the
// NOT NULL patient column always has something to show.
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
