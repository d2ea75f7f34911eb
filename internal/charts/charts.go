// Package charts builds Chart.js configurations from normalized chart series.
// Tooltip callbacks cannot travel as JSON, so tooltip lines are precomputed
// per dataset and point and rendered next to the config.
package charts

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"schoolboard/internal/dashboard"
)

// Palette
const (
	primary       = "rgb(14, 165, 233)"
	primaryFaint  = "rgba(14, 165, 233, 0.1)"
	primaryStrong = "rgba(14, 165, 233, 0.8)"
	success       = "rgb(34, 197, 94)"
	successFaint  = "rgba(34, 197, 94, 0.1)"
	warning       = "rgb(245, 158, 11)"
	indigo        = "rgb(99, 102, 241)"
)

// Chart is one canvas worth of configuration
type Chart struct {
	ID     string
	Config Config
	// Tooltips[d][i] is the tooltip line of point i in dataset d
	Tooltips [][]string
	// TickPrefix is prepended to the primary y axis tick labels
	TickPrefix string
}

type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BorderColor     any       `json:"borderColor,omitempty"`
	BackgroundColor any       `json:"backgroundColor,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
	YAxisID         string    `json:"yAxisID,omitempty"`
}

type Options struct {
	Responsive          bool             `json:"responsive"`
	MaintainAspectRatio bool             `json:"maintainAspectRatio"`
	Interaction         *Interaction     `json:"interaction,omitempty"`
	Plugins             Plugins          `json:"plugins"`
	Scales              map[string]Scale `json:"scales,omitempty"`
}

type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type Plugins struct {
	Legend Legend `json:"legend"`
}

type Legend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

type Scale struct {
	Type        string     `json:"type,omitempty"`
	Display     bool       `json:"display"`
	Position    string     `json:"position,omitempty"`
	BeginAtZero bool       `json:"beginAtZero,omitempty"`
	Title       ScaleTitle `json:"title"`
	Grid        *Grid      `json:"grid,omitempty"`
}

type ScaleTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type Grid struct {
	DrawOnChartArea bool `json:"drawOnChartArea"`
}

// ConfigJSON is the config as embedded in the canvas data attribute
func (c *Chart) ConfigJSON() (string, error) {
	b, err := json.Marshal(c.Config)
	if err != nil {
		return "", fmt.Errorf("encoding %s chart config: %w", c.ID, err)
	}
	return string(b), nil
}

func (c *Chart) TooltipsJSON() (string, error) {
	b, err := json.Marshal(c.Tooltips)
	if err != nil {
		return "", fmt.Errorf("encoding %s chart tooltips: %w", c.ID, err)
	}
	return string(b), nil
}

// Revenue is a two-axis line chart: revenue on y, transactions on y1.
// A nil series yields nil, the empty chart state.
func Revenue(s *dashboard.ChartSeries) *Chart {
	if s == nil {
		return nil
	}
	revenue, transactions := s.Values(0), s.Values(1)

	return &Chart{
		ID: "revenue-chart",
		Config: Config{
			Type: "line",
			Data: Data{
				Labels: s.Labels,
				Datasets: []Dataset{
					{
						Label:           "Revenue",
						Data:            revenue,
						BorderColor:     primary,
						BackgroundColor: primaryFaint,
						Tension:         0.4,
						Fill:            true,
					},
					{
						Label:           "Transactions",
						Data:            transactions,
						BorderColor:     success,
						BackgroundColor: successFaint,
						Tension:         0.4,
						Fill:            true,
						YAxisID:         "y1",
					},
				},
			},
			Options: Options{
				Responsive:  true,
				Interaction: &Interaction{Mode: "index", Intersect: false},
				Plugins:     Plugins{Legend: Legend{Display: true, Position: "top"}},
				Scales: map[string]Scale{
					"y": {
						Type:     "linear",
						Display:  true,
						Position: "left",
						Title:    ScaleTitle{Display: true, Text: "Revenue (K)"},
					},
					"y1": {
						Type:     "linear",
						Display:  true,
						Position: "right",
						Title:    ScaleTitle{Display: true, Text: "Transactions"},
						Grid:     &Grid{DrawOnChartArea: false},
					},
				},
			},
		},
		Tooltips: [][]string{
			lines(revenue, func(v float64) string { return "Revenue: K" + strconv.FormatFloat(v, 'f', 2, 64) }),
			lines(transactions, func(v float64) string { return "Transactions: " + formatNumber(v) }),
		},
		TickPrefix: "K",
	}
}

// PaymentMethods is a doughnut of the first dataset with amount and share
// in every tooltip
func PaymentMethods(s *dashboard.ChartSeries) *Chart {
	if s == nil {
		return nil
	}
	shares := dashboard.PaymentShares(s)

	tips := make([]string, len(shares))
	for i, share := range shares {
		tips[i] = fmt.Sprintf("%s: %s (%s)", share.Label, dashboard.FormatCurrency(share.Amount), share.Display())
	}

	return &Chart{
		ID: "payment-methods-chart",
		Config: Config{
			Type: "doughnut",
			Data: Data{
				Labels: s.Labels,
				Datasets: []Dataset{
					{
						Data:            s.Values(0),
						BackgroundColor: []string{primary, success, warning, indigo},
						BorderWidth:     1,
					},
				},
			},
			Options: Options{
				Responsive: true,
				Plugins:    Plugins{Legend: Legend{Display: true, Position: "bottom"}},
			},
		},
		Tooltips: [][]string{tips},
	}
}

// GradeDistribution is a bar chart of student counts per grade
func GradeDistribution(s *dashboard.ChartSeries) *Chart {
	if s == nil {
		return nil
	}
	counts := s.Values(0)

	return &Chart{
		ID: "grade-distribution-chart",
		Config: Config{
			Type: "bar",
			Data: Data{
				Labels: s.Labels,
				Datasets: []Dataset{
					{
						Label:           "Students",
						Data:            counts,
						BackgroundColor: primaryStrong,
						BorderColor:     primary,
						BorderWidth:     1,
					},
				},
			},
			Options: Options{
				Responsive: true,
				Plugins:    Plugins{Legend: Legend{Display: false}},
				Scales: map[string]Scale{
					"y": {
						Display:     true,
						BeginAtZero: true,
						Title:       ScaleTitle{Display: true, Text: "Number of Students"},
					},
					"x": {
						Display: true,
						Title:   ScaleTitle{Display: true, Text: "Grade"},
					},
				},
			},
		},
		Tooltips: [][]string{
			lines(counts, func(v float64) string { return "Students: " + formatNumber(v) }),
		},
	}
}

func lines(values []float64, format func(float64) string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = format(v)
	}
	return out
}

// formatNumber prints integers without a fraction and anything else as is
func formatNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
