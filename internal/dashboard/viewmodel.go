package dashboard

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Tone selects a stat tile's color family
type Tone string

const (
	TonePrimary   Tone = "primary"
	ToneSuccess   Tone = "success"
	ToneWarning   Tone = "warning"
	ToneSecondary Tone = "secondary"
)

// Icon names a stat tile glyph
type Icon string

const (
	IconUsers          Icon = "users"
	IconCurrencyDollar Icon = "currency-dollar"
	IconClock          Icon = "clock"
	IconChartBar       Icon = "chart-bar"
)

type StatTile struct {
	Title string
	Value string
	Icon  Icon
	Tone  Tone
}

type StatTiles struct {
	Students    StatTile
	Collections StatTile
	Pending     StatTile
	Rate        StatTile
}

// All returns the tiles in display order
func (t StatTiles) All() []StatTile {
	return []StatTile{t.Students, t.Collections, t.Pending, t.Rate}
}

// NormalizeStats turns a possibly partial stats payload into four display tiles.
// Missing values render as zero.
func NormalizeStats(s *Stats) StatTiles {
	if s == nil {
		s = &Stats{}
	}

	var students int64
	if s.TotalStudents != nil {
		students = *s.TotalStudents
	}
	var rate float64
	if s.CollectionRate != nil && !math.IsNaN(*s.CollectionRate) && !math.IsInf(*s.CollectionRate, 0) {
		rate = *s.CollectionRate
	}

	return StatTiles{
		Students: StatTile{
			Title: "Total Students",
			Value: strconv.FormatInt(students, 10),
			Icon:  IconUsers,
			Tone:  TonePrimary,
		},
		Collections: StatTile{
			Title: "Total Collections",
			Value: FormatCurrency(nullToZero(s.TotalRevenue)),
			Icon:  IconCurrencyDollar,
			Tone:  ToneSuccess,
		},
		Pending: StatTile{
			Title: "Pending Payments",
			Value: FormatCurrency(nullToZero(s.OverdueAmount)),
			Icon:  IconClock,
			Tone:  ToneWarning,
		},
		Rate: StatTile{
			Title: "Collection Rate",
			Value: FormatPercent(rate),
			Icon:  IconChartBar,
			Tone:  ToneSecondary,
		},
	}
}

func nullToZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// FormatCurrency renders an amount in kwacha with two decimals, e.g. "K12.50"
func FormatCurrency(d decimal.Decimal) string {
	return "K" + d.StringFixed(2)
}

// FormatPercent renders a percentage with one decimal, e.g. "87.5%"
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Series is one plotted dataset
type Series struct {
	Values []float64
}

// ChartSeries is the render-safe form of a ChartPayload
type ChartSeries struct {
	Labels []string
	Series []Series
}

// NormalizeChart fills labels and the first n datasets with empty slices
// where the payload lacks them. A nil payload yields nil, the empty chart state.
func NormalizeChart(p *ChartPayload, n int) *ChartSeries {
	if p == nil {
		return nil
	}

	labels := make([]string, len(p.Labels))
	copy(labels, p.Labels)

	series := make([]Series, n)
	for i := range series {
		values := []float64{}
		if i < len(p.Datasets) && p.Datasets[i].Data != nil {
			values = make([]float64, len(p.Datasets[i].Data))
			copy(values, p.Datasets[i].Data)
		}
		series[i] = Series{Values: values}
	}

	return &ChartSeries{Labels: labels, Series: series}
}

// Values returns the values of dataset i, or an empty slice
func (c *ChartSeries) Values(i int) []float64 {
	if c == nil || i < 0 || i >= len(c.Series) {
		return []float64{}
	}
	return c.Series[i].Values
}

// Dataset counts per chart
const (
	RevenueDatasets        = 2 // revenue on the primary axis, transactions on the secondary
	PaymentMethodsDatasets = 1
	GradeDatasets          = 1
)

// Share is one payment method's slice of the total
type Share struct {
	Label   string
	Amount  decimal.Decimal
	Percent float64
}

// Display renders the percentage with one decimal
func (s Share) Display() string {
	return FormatPercent(s.Percent)
}

// PaymentShares computes round(v/T*100, 1) for every value of the first dataset.
// A zero total gives 0.0% for every entry.
func PaymentShares(c *ChartSeries) []Share {
	values := c.Values(0)
	var labels []string
	if c != nil {
		labels = c.Labels
	}

	var total float64
	for _, v := range values {
		total += v
	}

	shares := make([]Share, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		var pct float64
		if total != 0 {
			pct = math.Round(v/total*1000) / 10
		}
		shares[i] = Share{
			Label:   label,
			Amount:  decimal.NewFromFloat(v),
			Percent: pct,
		}
	}
	return shares
}

var statusStyles = map[ActivityStatus]string{
	StatusCompleted: "bg-success-100 text-success-800",
	StatusPending:   "bg-warning-100 text-warning-800",
	StatusFailed:    "bg-danger-100 text-danger-800",
}

// Style returns the badge classes for a status; unknown statuses get none
func (s ActivityStatus) Style() string {
	return statusStyles[s]
}

// ActivityItem is one render-ready row of the activity feed
type ActivityItem struct {
	ID          string
	Initials    string
	Amount      string
	StudentName string
	Status      string
	StatusStyle string
	When        string
	WhenISO     string
}

// activityTimeLayout renders like "Mar 5, 2:30 PM"
const activityTimeLayout = "Jan 2, 3:04 PM"

func NormalizeActivities(list []Activity) []ActivityItem {
	items := make([]ActivityItem, 0, len(list))
	for _, a := range list {
		item := ActivityItem{
			ID:          a.ID.String(),
			Initials:    a.Initials,
			Amount:      FormatCurrency(a.Amount),
			StudentName: a.StudentName,
			Status:      string(a.Status),
			StatusStyle: a.Status.Style(),
		}
		if !a.Datetime.IsZero() {
			item.When = a.Datetime.Local().Format(activityTimeLayout)
			item.WhenISO = a.Datetime.Format("2006-01-02T15:04:05Z07:00")
		}
		items = append(items, item)
	}
	return items
}

// SummaryItem is one figure of the financial summary card
type SummaryItem struct {
	Title string
	Value string
	Trend string
}

// NormalizeFinancialSummary renders the summary as four figures. Trends show
// as signed percentages and are left blank when absent.
func NormalizeFinancialSummary(s *FinancialSummary) []SummaryItem {
	if s == nil {
		s = &FinancialSummary{}
	}
	trends := s.Trends
	if trends == nil {
		trends = &FinancialTrends{}
	}

	var rate float64
	if s.CollectionRate != nil && !math.IsNaN(*s.CollectionRate) && !math.IsInf(*s.CollectionRate, 0) {
		rate = *s.CollectionRate
	}

	return []SummaryItem{
		{Title: "Total Revenue", Value: FormatCurrency(nullToZero(s.TotalRevenue))},
		{Title: "Collected", Value: FormatCurrency(nullToZero(s.Collected)), Trend: formatTrend(trends.Collections)},
		{Title: "Outstanding", Value: FormatCurrency(nullToZero(s.Outstanding)), Trend: formatTrend(trends.Outstanding)},
		{Title: "Collection Rate", Value: FormatPercent(rate), Trend: formatTrend(trends.CollectionRate)},
	}
}

func formatTrend(p *float64) string {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return ""
	}
	return fmt.Sprintf("%+.1f%%", *p)
}
