package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/matchmaker"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
)

var attendees = []struct {
	Email   string
	Name    string
	Answers model.Answers
}{
	{"ada@example.com", "Ada", model.Answers{
		"interests": "Machine learning for healthcare diagnostics",
		"goal":      "Find researchers working on medical imaging",
	}},
	{"grace@example.com", "Grace", model.Answers{
		"interests": "AI models that help doctors read scans",
		"goal":      "Meet people building clinical AI products",
	}},
	{"linus@example.com", "Linus", model.Answers{
		"interests": "Open source infrastructure and kernels",
		"goal":      "Talk to maintainers about funding",
	}},
	{"margaret@example.com", "Margaret", model.Answers{
		"interests": "Reliable systems software and operating systems",
		"goal":      "Find contributors for an open source project",
	}},
}

func main() {
	ctx := context.Background()

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(ctx)

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	m, err := matchmaker.NewMatchmaker(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create matchmaker: %v", err)
	}
	defer m.Close()

	// Set up the default pipeline (local all-MiniLM-L6-v2 embeddings)
	if err := m.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	organization := &model.Organization{Name: "Example Org", OwnerID: "example-owner"}
	if err := m.Events.InsertOrganization(ctx, organization); err != nil {
		log.Fatalf("Failed to insert organization: %v", err)
	}
	event := &model.Event{OrganizationID: organization.ID, Name: "Founders Night"}
	if err := m.Events.InsertEvent(ctx, event); err != nil {
		log.Fatalf("Failed to insert event: %v", err)
	}

	rows := make([]*model.AttendeeImport, len(attendees))
	for i := range attendees {
		rows[i] = &model.AttendeeImport{Email: attendees[i].Email, Name: &attendees[i].Name}
	}
	imported, err := m.ImportAttendees(ctx, event.ID, rows)
	if err != nil {
		log.Fatalf("Failed to import attendees: %v", err)
	}
	fmt.Println(imported.Message)

	stored, err := m.Attendees.SelectAttendeesByEvent(ctx, event.ID)
	if err != nil {
		log.Fatalf("Failed to select attendees: %v", err)
	}
	for _, attendee := range stored {
		for _, a := range attendees {
			if a.Email != attendee.Email {
				continue
			}
			if _, err := m.SubmitResponse(ctx, attendee.ID, a.Answers, model.ResponseModeChat, nil); err != nil {
				log.Fatalf("Failed to submit response: %v", err)
			}
		}
	}

	result, err := m.GenerateMatches(ctx, event.ID)
	if err != nil {
		log.Fatalf("Failed to generate matches: %v", err)
	}
	fmt.Printf("\n%s\n", result.Message)

	names := map[string]string{}
	for _, attendee := range stored {
		names[attendee.ID.String()] = attendee.DisplayName()
	}

	matches, err := m.Matches.SelectMatchesByEvent(ctx, event.ID)
	if err != nil {
		log.Fatalf("Failed to select matches: %v", err)
	}
	for i, match := range matches {
		fmt.Printf("\n--- Match %d ---\n", i+1)
		fmt.Printf("%s <> %s\n", names[match.AttendeeAID.String()], names[match.AttendeeBID.String()])
		fmt.Printf("Score: %.4f\n", match.SimilarityScore)
		fmt.Printf("Common interests: %s\n", match.CommonInterests)
	}

	fmt.Println("\nBasic example completed successfully!")
}
