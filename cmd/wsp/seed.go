package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/indipro/wsp/internal/calendar"
	"github.com/indipro/wsp/internal/company"
	"github.com/indipro/wsp/internal/config"
	"github.com/indipro/wsp/internal/profile"
	"github.com/indipro/wsp/internal/task"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo companies, users and tasks",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedUser struct {
	name    string
	email   string
	role    profile.Role
	company string // seed company name, empty for unaffiliated
}

var demoCompanies = []company.CreateCompanyInput{
	{Name: "Innovate Inc.", CalendarStartMonth: calendar.StartApril},
	{Name: "Synergy Solutions", CalendarStartMonth: calendar.StartJanuary},
}

var demoUsers = []seedUser{
	{name: "Super Admin", email: "super@wsp.local", role: profile.RoleSuperadmin},
	{name: "Alice Admin", email: "alice@innovate.example", role: profile.RoleAdmin, company: "Innovate Inc."},
	{name: "Bob Builder", email: "bob@innovate.example", role: profile.RoleUser, company: "Innovate Inc."},
	{name: "Charlie Crew", email: "charlie@innovate.example", role: profile.RoleUser, company: "Innovate Inc."},
	{name: "Diana Director", email: "diana@synergy.example", role: profile.RoleAdmin, company: "Synergy Solutions"},
	{name: "Eve Employee", email: "eve@synergy.example", role: profile.RoleUser, company: "Synergy Solutions"},
	{name: "Frank Field", email: "frank@wsp.local", role: profile.RoleUser},
}

var demoTasks = []struct {
	email string
	week  int
	day   task.Day
	text  string
}{
	{email: "bob@innovate.example", week: 1, day: task.Monday, text: "Review sprint backlog"},
	{email: "bob@innovate.example", week: 1, day: task.Wednesday, text: "Pair on deployment pipeline"},
	{email: "charlie@innovate.example", week: 1, day: task.Tuesday, text: "Draft Q1 onboarding plan"},
	{email: "eve@synergy.example", week: 2, day: task.Friday, text: "Prepare client status report"},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	profileStore := profile.NewStore(pool, cfg.Session.Duration)
	companyStore := company.NewStore(pool)
	taskStore := task.NewStore(pool)

	// Check if seed has already run.
	existing, err := profileStore.List(ctx)
	if err != nil {
		return fmt.Errorf("checking existing profiles: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	password, err := generatePassword()
	if err != nil {
		return fmt.Errorf("generating demo password: %w", err)
	}

	companyIDs := make(map[string]string, len(demoCompanies))
	for _, input := range demoCompanies {
		c, err := companyStore.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("creating company %q: %w", input.Name, err)
		}
		companyIDs[c.Name] = c.ID
		slog.Info("created company", "name", c.Name, "id", c.ID, "calendar", c.CalendarStartMonth)
	}

	userIDs := make(map[string]string, len(demoUsers))
	for _, u := range demoUsers {
		input := profile.CreateProfileInput{
			Name:     u.name,
			Email:    u.email,
			Password: password,
			Role:     u.role,
		}
		if u.company != "" {
			id := companyIDs[u.company]
			input.CompanyID = &id
		}
		p, err := profileStore.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("creating user %q: %w", u.email, err)
		}
		userIDs[u.email] = p.ID
		slog.Info("created user", "email", p.Email, "role", p.Role, "id", p.ID)
	}

	for _, dt := range demoTasks {
		if _, err := taskStore.Create(ctx, task.CreateTaskInput{
			UserID:     userIDs[dt.email],
			WeekNumber: dt.week,
			Day:        dt.day,
			Text:       dt.text,
			Status:     task.StatusIncomplete,
		}); err != nil {
			return fmt.Errorf("creating task for %q: %w", dt.email, err)
		}
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Companies: %d\n", len(demoCompanies))
	fmt.Printf("Users:     %d (shared password below)\n", len(demoUsers))
	fmt.Printf("Password:  %s\n", password)
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl -X POST http://localhost:8080/api/v1/auth/login -d '{\"email\":\"super@wsp.local\",\"password\":\"%s\"}'\n", password)

	return nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
