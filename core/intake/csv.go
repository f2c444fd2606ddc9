package intake

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/siherrmann/matchmaker/model"
)

var (
	ErrMissingEmailColumn = errors.New("CSV must have an email column")
	ErrNoRows             = errors.New("CSV must have header and at least one row")
)

// phoneColumns are the accepted phone header names in order of preference.
var phoneColumns = []string{"phone", "phone_number", "mobile", "whatsapp", "tel", "telephone"}

// ParseCSV reads attendee rows from a CSV with a header line.
// The email column is required, name and phone are optional.
func ParseCSV(r io.Reader) ([]*model.AttendeeImport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	records = nonBlank(records)
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	header := make([]string, len(records[0]))
	for i, column := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(column))
	}

	emailIndex := indexOf(header, "email")
	if emailIndex == -1 {
		return nil, ErrMissingEmailColumn
	}
	nameIndex := indexOf(header, "name")
	phoneIndex := -1
	for _, column := range phoneColumns {
		if phoneIndex = indexOf(header, column); phoneIndex != -1 {
			break
		}
	}

	rows := make([]*model.AttendeeImport, 0, len(records)-1)
	for _, record := range records[1:] {
		row := &model.AttendeeImport{Email: field(record, emailIndex)}
		if name := field(record, nameIndex); name != "" {
			row.Name = &name
		}
		if phone := field(record, phoneIndex); phone != "" {
			row.Phone = &phone
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func nonBlank(records [][]string) [][]string {
	kept := records[:0]
	for _, record := range records {
		for _, value := range record {
			if strings.TrimSpace(value) != "" {
				kept = append(kept, record)
				break
			}
		}
	}
	return kept
}

func indexOf(header []string, column string) int {
	for i, name := range header {
		if name == column {
			return i
		}
	}
	return -1
}

func field(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}
