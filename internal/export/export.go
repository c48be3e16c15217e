// Package export renders a user's weekly task board as a CSV attachment.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/indipro/wsp/internal/profile"
	"github.com/indipro/wsp/internal/task"
)

// Filename returns the download filename for a user's week-range export,
// with whitespace in the name collapsed to underscores.
func Filename(userName string, startWeek, endWeek int) string {
	name := strings.Join(strings.Fields(userName), "_")
	return fmt.Sprintf("wsp_table_%s_W%d-W%d.csv", name, startWeek, endWeek)
}

// flatten keeps multi-line task text on a single row within its cell.
func flatten(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}

// WeekRangeCSV writes the user's tasks for [startWeek, endWeek] as a CSV
// grid: a header block naming the user and range, then one block per week
// with a column triple (text, status, minutes) for each weekday.
func WeekRangeCSV(w io.Writer, user *profile.Profile, tasks []*task.Task, startWeek, endWeek int) error {
	byWeekDay := make(map[int]map[task.Day][]*task.Task)
	for _, t := range tasks {
		if t.WeekNumber < startWeek || t.WeekNumber > endWeek {
			continue
		}
		if byWeekDay[t.WeekNumber] == nil {
			byWeekDay[t.WeekNumber] = make(map[task.Day][]*task.Task)
		}
		byWeekDay[t.WeekNumber][t.Day] = append(byWeekDay[t.WeekNumber][t.Day], t)
	}

	cw := csv.NewWriter(w)
	write := func(record ...string) {
		// Errors surface from cw.Error after Flush.
		_ = cw.Write(record)
	}

	write("User Name:", user.Name)
	write("Week Range:", fmt.Sprintf("%d to %d", startWeek, endWeek))
	write("")

	header := []string{""}
	for _, day := range task.Days {
		header = append(header, string(day), "Status", "Time (m)")
	}

	for week := startWeek; week <= endWeek; week++ {
		write("Week:", strconv.Itoa(week))
		write(header...)

		weekTasks := byWeekDay[week]
		maxPerDay := 0
		for _, day := range task.Days {
			if n := len(weekTasks[day]); n > maxPerDay {
				maxPerDay = n
			}
		}

		if maxPerDay == 0 {
			write("", "No tasks for this week.")
		}
		for i := 0; i < maxPerDay; i++ {
			row := []string{fmt.Sprintf("Task %d", i+1)}
			for _, day := range task.Days {
				if dayTasks := weekTasks[day]; i < len(dayTasks) {
					t := dayTasks[i]
					row = append(row, flatten(t.Text), string(t.Status), strconv.Itoa(t.TimeTaken))
				} else {
					row = append(row, "", "", "")
				}
			}
			write(row...)
		}
		write("")
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv export: %w", err)
	}
	return nil
}
