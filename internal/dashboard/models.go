package dashboard

import (
	"schoolboard/internal/common/models"

	"github.com/shopspring/decimal"
)

// Period selects the window of the revenue chart
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// PeriodOption is one entry of the revenue period selector
type PeriodOption struct {
	Value Period
	Label string
}

var periodOptions = []PeriodOption{
	{PeriodWeek, "This Week"},
	{PeriodMonth, "This Month"},
	{PeriodQuarter, "This Quarter"},
	{PeriodYear, "This Year"},
}

func PeriodOptions() []PeriodOption {
	out := make([]PeriodOption, len(periodOptions))
	copy(out, periodOptions)
	return out
}

// ParsePeriod maps a selector value to a Period. Empty selects the week.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodWeek, nil
	}
	for _, opt := range periodOptions {
		if string(opt.Value) == s {
			return opt.Value, nil
		}
	}
	return "", ErrInvalidPeriod
}

// Stats is the /dashboard/stats payload. Every field may be absent.
type Stats struct {
	TotalStudents  *int64              `json:"total_students"`
	TotalRevenue   decimal.NullDecimal `json:"total_revenue"`
	OverdueAmount  decimal.NullDecimal `json:"overdue_amount"`
	CollectionRate *float64            `json:"collection_rate"`
}

// FinancialSummary is the /dashboard/financial-summary payload
type FinancialSummary struct {
	TotalRevenue   decimal.NullDecimal `json:"total_revenue"`
	Collected      decimal.NullDecimal `json:"collected"`
	Outstanding    decimal.NullDecimal `json:"outstanding"`
	CollectionRate *float64            `json:"collection_rate"`
	Trends         *FinancialTrends    `json:"trends"`
}

// FinancialTrends are percentage changes against the previous range
type FinancialTrends struct {
	Collections    *float64 `json:"collections"`
	Outstanding    *float64 `json:"outstanding"`
	CollectionRate *float64 `json:"collection_rate"`
}

type ActivityStatus string

const (
	StatusCompleted ActivityStatus = "completed"
	StatusPending   ActivityStatus = "pending"
	StatusFailed    ActivityStatus = "failed"
)

// Activity is one payment in the recent activity feed
type Activity struct {
	ID          models.ID        `json:"id"`
	Amount      decimal.Decimal  `json:"amount"`
	StudentName string           `json:"student_name"`
	Datetime    models.Timestamp `json:"datetime"`
	Status      ActivityStatus   `json:"status"`
	Initials    string           `json:"initials"`
}

type Dataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}

// ChartPayload is the shape shared by all chart endpoints
type ChartPayload struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}
