package dashboard

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"schoolboard/internal/common/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeStats(t *testing.T, raw string) *Stats {
	t.Helper()
	var s *Stats
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return s
}

func TestNormalizeStats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "only students",
			input: `{"total_students":42}`,
			want:  []string{"42", "K0.00", "K0.00", "0.0%"},
		},
		{
			name:  "empty object",
			input: `{}`,
			want:  []string{"0", "K0.00", "K0.00", "0.0%"},
		},
		{
			name:  "explicit nulls",
			input: `{"total_students":null,"total_revenue":null,"overdue_amount":null,"collection_rate":null}`,
			want:  []string{"0", "K0.00", "K0.00", "0.0%"},
		},
		{
			name:  "complete",
			input: `{"total_students":1250,"total_revenue":15300.5,"overdue_amount":2400,"collection_rate":86.44}`,
			want:  []string{"1250", "K15300.50", "K2400.00", "86.4%"},
		},
		{
			name:  "student count is not grouped",
			input: `{"total_students":1234}`,
			want:  []string{"1234", "K0.00", "K0.00", "0.0%"},
		},
		{
			name:  "null payload",
			input: `null`,
			want:  []string{"0", "K0.00", "K0.00", "0.0%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NormalizeStats(decodeStats(t, tt.input))

			var got []string
			for _, tile := range tiles.All() {
				got = append(got, tile.Value)
				assert.NotContains(t, tile.Value, "NaN")
				assert.NotContains(t, strings.ToLower(tile.Value), "undefined")
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeStats_TileOrder(t *testing.T) {
	tiles := NormalizeStats(nil).All()
	require.Len(t, tiles, 4)
	assert.Equal(t, "Total Students", tiles[0].Title)
	assert.Equal(t, IconUsers, tiles[0].Icon)
	assert.Equal(t, "Total Collections", tiles[1].Title)
	assert.Equal(t, ToneSuccess, tiles[1].Tone)
	assert.Equal(t, "Pending Payments", tiles[2].Title)
	assert.Equal(t, "Collection Rate", tiles[3].Title)
}

func TestNormalizeStats_NaNRate(t *testing.T) {
	nan := math.NaN()
	tiles := NormalizeStats(&Stats{CollectionRate: &nan})
	assert.Equal(t, "0.0%", tiles.Rate.Value)
}

func TestNormalizeChart(t *testing.T) {
	t.Run("nil payload is the empty chart state", func(t *testing.T) {
		assert.Nil(t, NormalizeChart(nil, RevenueDatasets))
	})

	t.Run("revenue without transactions", func(t *testing.T) {
		var p ChartPayload
		require.NoError(t, json.Unmarshal([]byte(`{"labels":["Mon","Tue"],"datasets":[{"data":[100,200]}]}`), &p))

		cs := NormalizeChart(&p, RevenueDatasets)
		require.NotNil(t, cs)
		assert.Equal(t, []string{"Mon", "Tue"}, cs.Labels)
		assert.Equal(t, []float64{100, 200}, cs.Values(0))
		assert.NotNil(t, cs.Values(1))
		assert.Empty(t, cs.Values(1))
	})

	t.Run("missing labels and datasets", func(t *testing.T) {
		cs := NormalizeChart(&ChartPayload{}, GradeDatasets)
		require.NotNil(t, cs)
		assert.NotNil(t, cs.Labels)
		assert.Empty(t, cs.Labels)
		assert.Equal(t, []float64{}, cs.Values(0))
	})

	t.Run("dataset with null data", func(t *testing.T) {
		var p ChartPayload
		require.NoError(t, json.Unmarshal([]byte(`{"labels":["A"],"datasets":[{"data":null}]}`), &p))
		cs := NormalizeChart(&p, 1)
		assert.Equal(t, []float64{}, cs.Values(0))
	})

	t.Run("out of range index", func(t *testing.T) {
		cs := NormalizeChart(&ChartPayload{}, 1)
		assert.Equal(t, []float64{}, cs.Values(5))
		var nilSeries *ChartSeries
		assert.Equal(t, []float64{}, nilSeries.Values(0))
	})

	t.Run("does not alias the payload", func(t *testing.T) {
		p := &ChartPayload{Labels: []string{"A"}, Datasets: []Dataset{{Data: []float64{1}}}}
		cs := NormalizeChart(p, 1)
		p.Labels[0] = "B"
		p.Datasets[0].Data[0] = 9
		assert.Equal(t, "A", cs.Labels[0])
		assert.Equal(t, 1.0, cs.Values(0)[0])
	})
}

func TestPaymentShares(t *testing.T) {
	t.Run("sums to one hundred", func(t *testing.T) {
		cs := &ChartSeries{
			Labels: []string{"Cash", "Mobile Money", "Bank", "Card"},
			Series: []Series{{Values: []float64{1200, 3400, 560.5, 99}}},
		}
		shares := PaymentShares(cs)
		require.Len(t, shares, 4)

		var sum float64
		for _, s := range shares {
			sum += s.Percent
		}
		assert.InDelta(t, 100.0, sum, 0.1*float64(len(shares)))
		assert.Equal(t, "Cash", shares[0].Label)
		assert.Equal(t, 22.8, shares[0].Percent)
		assert.Equal(t, "22.8%", shares[0].Display())
	})

	t.Run("all zero total", func(t *testing.T) {
		cs := &ChartSeries{
			Labels: []string{"Cash", "Bank"},
			Series: []Series{{Values: []float64{0, 0}}},
		}
		for _, s := range PaymentShares(cs) {
			assert.Equal(t, "0.0%", s.Display())
		}
	})

	t.Run("more values than labels", func(t *testing.T) {
		cs := &ChartSeries{Series: []Series{{Values: []float64{1, 1}}}}
		shares := PaymentShares(cs)
		require.Len(t, shares, 2)
		assert.Equal(t, "", shares[1].Label)
		assert.Equal(t, 50.0, shares[1].Percent)
	})

	t.Run("nil series", func(t *testing.T) {
		assert.Empty(t, PaymentShares(nil))
	})
}

func TestActivityStatus_Style(t *testing.T) {
	assert.Equal(t, "bg-success-100 text-success-800", StatusCompleted.Style())
	assert.Equal(t, "bg-warning-100 text-warning-800", StatusPending.Style())
	assert.Equal(t, "bg-danger-100 text-danger-800", StatusFailed.Style())
	assert.Equal(t, "", ActivityStatus("refunded").Style())
}

func TestNormalizeActivities(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)
	items := NormalizeActivities([]Activity{
		{
			ID:          models.ID("7"),
			Amount:      decimal.RequireFromString("1500"),
			StudentName: "Chanda Mwale",
			Datetime:    models.Timestamp{Time: at},
			Status:      StatusCompleted,
			Initials:    "CM",
		},
		{
			ID:     models.ID("8"),
			Amount: decimal.RequireFromString("12.5"),
			Status: ActivityStatus("reversed"),
		},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "K1500.00", items[0].Amount)
	assert.Equal(t, "Mar 5, 2:30 PM", items[0].When)
	assert.Equal(t, "bg-success-100 text-success-800", items[0].StatusStyle)
	assert.Equal(t, "K12.50", items[1].Amount)
	assert.Equal(t, "", items[1].StatusStyle)
	assert.Equal(t, "", items[1].When)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	p, err = ParsePeriod("quarter")
	require.NoError(t, err)
	assert.Equal(t, PeriodQuarter, p)

	_, err = ParsePeriod("decade")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	assert.Len(t, PeriodOptions(), 4)
}

func TestNormalizeFinancialSummary(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		var s *FinancialSummary
		require.NoError(t, json.Unmarshal([]byte(`{"total_revenue":5000,"collected":4000.5,"outstanding":999.5,"collection_rate":80.01,"trends":{"collections":12.5,"outstanding":-5.3}}`), &s))

		items := NormalizeFinancialSummary(s)
		require.Len(t, items, 4)
		assert.Equal(t, SummaryItem{Title: "Total Revenue", Value: "K5000.00"}, items[0])
		assert.Equal(t, SummaryItem{Title: "Collected", Value: "K4000.50", Trend: "+12.5%"}, items[1])
		assert.Equal(t, SummaryItem{Title: "Outstanding", Value: "K999.50", Trend: "-5.3%"}, items[2])
		assert.Equal(t, SummaryItem{Title: "Collection Rate", Value: "80.0%"}, items[3])
	})

	t.Run("nil", func(t *testing.T) {
		items := NormalizeFinancialSummary(nil)
		require.Len(t, items, 4)
		for _, item := range items {
			assert.Empty(t, item.Trend)
		}
		assert.Equal(t, "K0.00", items[0].Value)
		assert.Equal(t, "0.0%", items[3].Value)
	})
}
