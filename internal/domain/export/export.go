// Package export renders history records as CSV.
package export

import (
	"strconv"
	"strings"

	"github.com/okian/mindcheck/internal/domain/types"
)

// Filename is the download name for the exported history.
const Filename = "mental_check_history.csv"

// header is the fixed first line of every export.
const header = `"timestamp","name","total","category","note"`

// Render serializes records into the CSV export format. The caller supplies
// records oldest first. Every field is double-quoted except total; embedded
// quotes are doubled and embedded newlines become a single space. Rows are
// newline-joined with no trailing newline. Pure function.
func Render(records []types.Record) []byte {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, header)
	for _, r := range records {
		fields := []string{
			quote(r.Timestamp.UTC().Format(types.TimestampLayout)),
			quote(r.Name),
			strconv.Itoa(r.TotalScore),
			quote(r.Category),
			quote(r.Note),
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}

// quote wraps s in double quotes, doubling embedded quotes and flattening
// newlines to spaces.
func quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return `"` + s + `"`
}
