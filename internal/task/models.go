package task

import "time"

// Day is a weekday name as used on the task board.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists the board columns in display order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of the seven weekday names.
func (d Day) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Status is a task's completion state.
type Status string

const (
	StatusIncomplete Status = "Incomplete"
	StatusInProgress Status = "InProgress"
	StatusComplete   Status = "Complete"
	StatusAdditional Status = "Additional"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIncomplete, StatusInProgress, StatusComplete, StatusAdditional:
		return true
	}
	return false
}

// Task is a planned item on a user's weekly board. WeekNumber is interpreted
// against the owning profile's company fiscal calendar at render time; it has
// no global meaning.
type Task struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	WeekNumber int       `json:"week_number"`
	Day        Day       `json:"day"`
	Text       string    `json:"text"`
	Status     Status    `json:"status"`
	TimeTaken  int       `json:"time_taken"` // minutes
	IsPriority bool      `json:"is_priority"`
	CreatedAt  time.Time `json:"created_at"`
}

// UnplannedTask is a task captured without a week/day slot. Planning one
// converts it into a Task.
type UnplannedTask struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	Status     Status    `json:"status"`
	TimeTaken  int       `json:"time_taken"`
	IsPriority bool      `json:"is_priority"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateTaskInput holds the fields for creating a planned task.
type CreateTaskInput struct {
	UserID     string `json:"user_id"`
	WeekNumber int    `json:"week_number"`
	Day        Day    `json:"day"`
	Text       string `json:"text"`
	Status     Status `json:"status"`
	TimeTaken  int    `json:"time_taken"`
	IsPriority bool   `json:"is_priority"`
}

// UpdateTaskInput holds optional fields for a partial task update.
type UpdateTaskInput struct {
	WeekNumber *int    `json:"week_number,omitempty"`
	Day        *Day    `json:"day,omitempty"`
	Text       *string `json:"text,omitempty"`
	Status     *Status `json:"status,omitempty"`
	TimeTaken  *int    `json:"time_taken,omitempty"`
	IsPriority *bool   `json:"is_priority,omitempty"`
}

// CreateUnplannedInput holds the fields for creating an unplanned task.
type CreateUnplannedInput struct {
	UserID     string `json:"user_id"`
	Text       string `json:"text"`
	Status     Status `json:"status"`
	TimeTaken  int    `json:"time_taken"`
	IsPriority bool   `json:"is_priority"`
}

// UpdateUnplannedInput holds optional fields for a partial unplanned-task update.
type UpdateUnplannedInput struct {
	Text       *string `json:"text,omitempty"`
	Status     *Status `json:"status,omitempty"`
	TimeTaken  *int    `json:"time_taken,omitempty"`
	IsPriority *bool   `json:"is_priority,omitempty"`
}

// StatusBucket aggregates task counts and minutes for one status.
type StatusBucket struct {
	Count   int `json:"count"`
	Minutes int `json:"minutes"`
}

// Stats summarizes a user's tasks over a week range for the dashboard.
type Stats struct {
	TotalTasks   int          `json:"total_tasks"`
	TotalMinutes int          `json:"total_minutes"`
	Incomplete   StatusBucket `json:"incomplete"`
	InProgress   StatusBucket `json:"in_progress"`
	Complete     StatusBucket `json:"complete"`
	Additional   StatusBucket `json:"additional"`
}
