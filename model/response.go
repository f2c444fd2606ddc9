package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/helper"
)

// Answers maps a question field name to the free-text answer.
// It is stored as JSONB.
type Answers map[string]string

// Value implements the driver.Valuer interface for database storage
func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface for database retrieval
func (a *Answers) Scan(value interface{}) error {
	if value == nil {
		*a = Answers{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, a)
}

// Fields returns the question fields in sorted order.
func (a Answers) Fields() []string {
	fields := make([]string, 0, len(a))
	for field := range a {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Text joins all non-empty answers in field order with a space.
func (a Answers) Text() string {
	parts := make([]string, 0, len(a))
	for _, field := range a.Fields() {
		if answer := strings.TrimSpace(a[field]); answer != "" {
			parts = append(parts, answer)
		}
	}
	return strings.Join(parts, " ")
}

// Bullets renders the answers as "- field: answer" lines.
func (a Answers) Bullets() string {
	lines := make([]string, 0, len(a))
	for _, field := range a.Fields() {
		lines = append(lines, fmt.Sprintf("- %s: %s", field, a[field]))
	}
	return strings.Join(lines, "\n")
}

type ResponseMode string

const (
	ResponseModeVoice ResponseMode = "voice"
	ResponseModeChat  ResponseMode = "chat"
)

// Response holds the intake answers of one attendee.
type Response struct {
	ID         uuid.UUID    `json:"id"`
	AttendeeID uuid.UUID    `json:"attendee_id"`
	Answers    Answers      `json:"answers"`
	Embedding  []float32    `json:"embedding,omitempty"`
	Topics     []string     `json:"topics,omitempty"`
	Mode       ResponseMode `json:"mode,omitempty"`
	Transcript *string      `json:"transcript,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
