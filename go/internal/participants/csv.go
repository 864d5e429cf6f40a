package participants

import (
	"strings"

	"github.com/mcdev12/raffle/go/internal/models"
)

// CSVHeader is the first row of every export
const CSVHeader = "Name,Email,Date Registered"

// BuildCSV renders participants as newline separated rows under CSVHeader.
// Fields are joined verbatim: embedded commas, quotes and newlines are not
// escaped, so such values break the column layout.
func BuildCSV(participants []models.Participant) string {
	rows := make([]string, 0, len(participants)+1)
	rows = append(rows, CSVHeader)
	for _, p := range participants {
		rows = append(rows, strings.Join([]string{p.Name, p.Email, p.RegisteredAtRaw}, ","))
	}
	return strings.Join(rows, "\n")
}
