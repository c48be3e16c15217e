package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/indipro/wsp/internal/profile"
	"github.com/indipro/wsp/internal/task"
)

func exportLines(t *testing.T, user *profile.Profile, tasks []*task.Task, start, end int) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := WeekRangeCSV(&buf, user, tasks, start, end); err != nil {
		t.Fatalf("WeekRangeCSV: %v", err)
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		want       string
	}{
		{"Alice Admin", 3, 7, "wsp_table_Alice_Admin_W3-W7.csv"},
		{"Bob", 1, 1, "wsp_table_Bob_W1-W1.csv"},
		{"  Eve   Employee ", 10, 12, "wsp_table_Eve_Employee_W10-W12.csv"},
	}
	for _, tt := range tests {
		if got := Filename(tt.name, tt.start, tt.end); got != tt.want {
			t.Errorf("Filename(%q, %d, %d) = %q, want %q", tt.name, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestWeekRangeCSVHeader(t *testing.T) {
	user := &profile.Profile{Name: "Alice Admin"}
	lines := exportLines(t, user, nil, 2, 3)

	if lines[0] != "User Name:,Alice Admin" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "Week Range:,2 to 3" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "" {
		t.Errorf("line 2 should be blank, got %q", lines[2])
	}
}

func TestWeekRangeCSVEmptyWeeks(t *testing.T) {
	user := &profile.Profile{Name: "Bob"}
	lines := exportLines(t, user, nil, 5, 5)

	if lines[3] != "Week:,5" {
		t.Errorf("week line = %q", lines[3])
	}
	if !strings.HasPrefix(lines[4], ",Monday,Status,Time (m),Tuesday") {
		t.Errorf("day header = %q", lines[4])
	}
	if lines[5] != ",No tasks for this week." {
		t.Errorf("filler line = %q", lines[5])
	}
}

func TestWeekRangeCSVTaskGrid(t *testing.T) {
	user := &profile.Profile{Name: "Bob"}
	tasks := []*task.Task{
		{WeekNumber: 1, Day: task.Monday, Text: "Standup", Status: task.StatusComplete, TimeTaken: 15},
		{WeekNumber: 1, Day: task.Monday, Text: "Code review", Status: task.StatusInProgress, TimeTaken: 45},
		{WeekNumber: 1, Day: task.Friday, Text: "Retro", Status: task.StatusIncomplete, TimeTaken: 30},
		{WeekNumber: 2, Day: task.Tuesday, Text: "Out of range", Status: task.StatusComplete, TimeTaken: 5},
	}
	lines := exportLines(t, user, tasks, 1, 1)

	// Two Monday tasks force two Task rows.
	row1 := strings.Split(lines[5], ",")
	if row1[0] != "Task 1" || row1[1] != "Standup" || row1[2] != "Complete" || row1[3] != "15" {
		t.Errorf("task row 1 = %q", lines[5])
	}
	// Friday occupies columns 13-15 (1 label + 4 days * 3).
	if row1[13] != "Retro" || row1[14] != "Incomplete" || row1[15] != "30" {
		t.Errorf("friday cells = %v", row1[13:16])
	}

	row2 := strings.Split(lines[6], ",")
	if row2[0] != "Task 2" || row2[1] != "Code review" {
		t.Errorf("task row 2 = %q", lines[6])
	}
	if row2[13] != "" {
		t.Errorf("friday cell in row 2 should be empty, got %q", row2[13])
	}

	for _, line := range lines {
		if strings.Contains(line, "Out of range") {
			t.Error("task outside the requested range was exported")
		}
	}
}

func TestWeekRangeCSVEscapesText(t *testing.T) {
	user := &profile.Profile{Name: "Bob"}
	tasks := []*task.Task{
		{WeekNumber: 1, Day: task.Monday, Text: "call supplier, then\nfollow up", Status: task.StatusComplete, TimeTaken: 10},
	}
	lines := exportLines(t, user, tasks, 1, 1)

	if !strings.Contains(lines[5], `"call supplier, then follow up"`) {
		t.Errorf("task row = %q", lines[5])
	}
}

func TestWeekRangeCSVMultiWeekBlocks(t *testing.T) {
	user := &profile.Profile{Name: "Bob"}
	tasks := []*task.Task{
		{WeekNumber: 2, Day: task.Wednesday, Text: "Plan sprint", Status: task.StatusComplete, TimeTaken: 60},
	}
	lines := exportLines(t, user, tasks, 1, 2)

	var weekLines []string
	for _, line := range lines {
		if strings.HasPrefix(line, "Week:,") {
			weekLines = append(weekLines, line)
		}
	}
	if len(weekLines) != 2 || weekLines[0] != "Week:,1" || weekLines[1] != "Week:,2" {
		t.Errorf("week blocks = %v", weekLines)
	}
	if lines[5] != ",No tasks for this week." {
		t.Errorf("week 1 filler = %q", lines[5])
	}
}
