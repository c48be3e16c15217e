package company

import (
	"time"

	"github.com/indipro/wsp/internal/calendar"
)

// Company is a tenant. Its calendar start month is fixed at creation and
// determines how week numbers are interpreted for every affiliated profile.
type Company struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	CalendarStartMonth calendar.StartMonth `json:"calendar_start_month"`
	CreatedAt          time.Time           `json:"created_at"`
}

// CreateCompanyInput holds the fields required to create a new company.
type CreateCompanyInput struct {
	Name               string              `json:"name"`
	CalendarStartMonth calendar.StartMonth `json:"calendar_start_month"`
}
