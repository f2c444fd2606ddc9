package model

import (
	"fmt"

	"github.com/google/uuid"
)

// SimilarityMethod names the path that produced a neighbour list.
type SimilarityMethod string

const (
	SimilarityMethodNative SimilarityMethod = "native"
	SimilarityMethodManual SimilarityMethod = "manual"
)

// SimilarAttendee is one row returned by the database similarity search.
type SimilarAttendee struct {
	ID       uuid.UUID `json:"id"`
	Name     *string   `json:"name,omitempty"`
	Email    string    `json:"email"`
	Distance float64   `json:"distance"`
}

// Neighbor is an attendee close to a query attendee.
type Neighbor struct {
	Attendee *AttendeeProfile `json:"attendee"`
	Distance float64          `json:"distance"`
}

// SkippedPair is a pair of attendees that could not be compared.
type SkippedPair struct {
	AttendeeAID uuid.UUID
	AttendeeBID uuid.UUID
	Err         error
}

func (p *SkippedPair) Error() string {
	return fmt.Sprintf("compare %s with %s: %v", p.AttendeeAID, p.AttendeeBID, p.Err)
}

func (p *SkippedPair) Unwrap() error {
	return p.Err
}

// Resolution is the outcome of one nearest neighbour lookup.
// Skipped holds pairs that could not be compared and were left out.
type Resolution struct {
	Neighbors []*Neighbor      `json:"neighbors"`
	Method    SimilarityMethod `json:"method"`
	Skipped   []*SkippedPair   `json:"-"`
}

// GenerateResult is the summary of one match generation run.
type GenerateResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message"`
}

// IntroductionResult is the summary of one introduction run.
type IntroductionResult struct {
	Success bool     `json:"success"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message"`
}

// ImportResult is the summary of one attendee import.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
	Message  string   `json:"message"`
}
