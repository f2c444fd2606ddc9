package intake

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/siherrmann/matchmaker/model"
)

// Prepare cleans import rows and drops the ones that cannot be imported.
// Rows without a valid email and rows repeating an earlier email
// (case-insensitive) are skipped with a reason. Phone numbers that are not
// in international format are dropped from the row.
func Prepare(rows []*model.AttendeeImport) ([]*model.AttendeeImport, []string) {
	seen := make(map[string]bool, len(rows))
	valid := make([]*model.AttendeeImport, 0, len(rows))
	var reasons []string

	for i, row := range rows {
		if row == nil {
			reasons = append(reasons, fmt.Sprintf("Row %d: missing email", i+1))
			continue
		}

		email := strings.TrimSpace(row.Email)
		if email == "" || !strings.Contains(email, "@") {
			reasons = append(reasons, fmt.Sprintf("Row %d: missing email", i+1))
			continue
		}

		key := strings.ToLower(email)
		if seen[key] {
			reasons = append(reasons, fmt.Sprintf("Row %d: duplicate email %s", i+1, email))
			continue
		}
		seen[key] = true

		cleaned := &model.AttendeeImport{Email: email}
		if row.Name != nil {
			if name := strings.TrimSpace(*row.Name); name != "" {
				cleaned.Name = &name
			}
		}
		if row.Phone != nil {
			cleaned.Phone = NormalizePhone(*row.Phone)
		}
		valid = append(valid, cleaned)
	}

	return valid, reasons
}

// NormalizePhone strips formatting from a phone number and returns it in
// E.164 style. A leading 00 is read as +. Numbers without a country code
// or with a digit count outside 8 to 15 return nil.
func NormalizePhone(phone string) *string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "00") {
		phone = "+" + phone[2:]
	}
	if !strings.HasPrefix(phone, "+") {
		return nil
	}

	var digits strings.Builder
	for _, r := range phone[1:] {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return nil
		}
	}

	if digits.Len() < 8 || digits.Len() > 15 {
		return nil
	}

	normalized := "+" + digits.String()
	return &normalized
}
