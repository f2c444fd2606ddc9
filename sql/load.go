package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed events.sql
var eventsSQL string

//go:embed attendees.sql
var attendeesSQL string

//go:embed responses.sql
var responsesSQL string

//go:embed matches.sql
var matchesSQL string

// Function lists for verification
var EventsFunctions = []string{
	"init_events",
	"insert_organization",
	"insert_event",
	"select_event",
}

var AttendeesFunctions = []string{
	"init_attendees",
	"insert_attendees",
	"select_attendee",
	"select_attendees_by_event",
	"update_attendee_status",
	"select_eligible_attendees",
}

var ResponsesFunctions = []string{
	"init_responses",
	"upsert_response",
	"select_response_by_attendee",
	"find_similar_attendees",
}

var MatchesFunctions = []string{
	"init_matches",
	"insert_matches",
	"select_matches_by_event",
	"select_pending_introductions",
	"mark_match_introduced",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadEventsSql loads organization and event SQL functions
func LoadEventsSql(db *sql.DB, force bool) error {
	return load(db, "events", eventsSQL, EventsFunctions, force)
}

// LoadAttendeesSql loads attendee-related SQL functions
func LoadAttendeesSql(db *sql.DB, force bool) error {
	return load(db, "attendees", attendeesSQL, AttendeesFunctions, force)
}

// LoadResponsesSql loads response-related SQL functions including the similarity search
func LoadResponsesSql(db *sql.DB, force bool) error {
	return load(db, "responses", responsesSQL, ResponsesFunctions, force)
}

// LoadMatchesSql loads match-related SQL functions
func LoadMatchesSql(db *sql.DB, force bool) error {
	return load(db, "matches", matchesSQL, MatchesFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadEventsSql(db, force); err != nil {
		return err
	}

	if err := LoadAttendeesSql(db, force); err != nil {
		return err
	}

	if err := LoadResponsesSql(db, force); err != nil {
		return err
	}

	if err := LoadMatchesSql(db, force); err != nil {
		return err
	}

	return nil
}

// load executes the given SQL unless force is false and all functions already exist.
func load(db *sql.DB, name string, script string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
