package charts

import (
	"encoding/json"
	"testing"

	"schoolboard/internal/dashboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(labels []string, values ...[]float64) *dashboard.ChartSeries {
	cs := &dashboard.ChartSeries{Labels: labels}
	for _, v := range values {
		cs.Series = append(cs.Series, dashboard.Series{Values: v})
	}
	return cs
}

func TestNilSeriesIsEmptyState(t *testing.T) {
	assert.Nil(t, Revenue(nil))
	assert.Nil(t, PaymentMethods(nil))
	assert.Nil(t, GradeDistribution(nil))
}

func TestRevenue(t *testing.T) {
	c := Revenue(series([]string{"Mon", "Tue"}, []float64{100, 250.5}, []float64{3, 4}))
	require.NotNil(t, c)

	assert.Equal(t, "line", c.Config.Type)
	require.Len(t, c.Config.Data.Datasets, 2)
	assert.Equal(t, "", c.Config.Data.Datasets[0].YAxisID)
	assert.Equal(t, "y1", c.Config.Data.Datasets[1].YAxisID)
	assert.Equal(t, "Revenue (K)", c.Config.Options.Scales["y"].Title.Text)
	assert.Equal(t, "Transactions", c.Config.Options.Scales["y1"].Title.Text)
	assert.Equal(t, "right", c.Config.Options.Scales["y1"].Position)
	assert.Equal(t, "K", c.TickPrefix)

	assert.Equal(t, [][]string{
		{"Revenue: K100.00", "Revenue: K250.50"},
		{"Transactions: 3", "Transactions: 4"},
	}, c.Tooltips)
}

func TestRevenueWithoutTransactions(t *testing.T) {
	var p dashboard.ChartPayload
	require.NoError(t, json.Unmarshal([]byte(`{"labels":["Mon","Tue"],"datasets":[{"data":[100,200]}]}`), &p))

	c := Revenue(dashboard.NormalizeChart(&p, dashboard.RevenueDatasets))
	require.NotNil(t, c)
	assert.Equal(t, []float64{100, 200}, c.Config.Data.Datasets[0].Data)
	assert.Equal(t, []float64{}, c.Config.Data.Datasets[1].Data)

	raw, err := c.ConfigJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	datasets := decoded["data"].(map[string]any)["datasets"].([]any)
	assert.Equal(t, []any{}, datasets[1].(map[string]any)["data"], "empty series encodes as [] not null")
}

func TestPaymentMethods(t *testing.T) {
	c := PaymentMethods(series([]string{"Cash", "Mobile Money"}, []float64{250, 750}))
	require.NotNil(t, c)

	assert.Equal(t, "doughnut", c.Config.Type)
	assert.Equal(t, "bottom", c.Config.Options.Plugins.Legend.Position)
	assert.Len(t, c.Config.Data.Datasets[0].BackgroundColor, 4)
	assert.Equal(t, [][]string{{
		"Cash: K250.00 (25.0%)",
		"Mobile Money: K750.00 (75.0%)",
	}}, c.Tooltips)
}

func TestPaymentMethodsZeroTotal(t *testing.T) {
	c := PaymentMethods(series([]string{"Cash"}, []float64{0}))
	require.NotNil(t, c)
	assert.Equal(t, [][]string{{"Cash: K0.00 (0.0%)"}}, c.Tooltips)
}

func TestGradeDistribution(t *testing.T) {
	c := GradeDistribution(series([]string{"Grade 1", "Grade 2"}, []float64{30, 28}))
	require.NotNil(t, c)

	assert.Equal(t, "bar", c.Config.Type)
	assert.False(t, c.Config.Options.Plugins.Legend.Display)
	assert.True(t, c.Config.Options.Scales["y"].BeginAtZero)
	assert.Equal(t, "Grade", c.Config.Options.Scales["x"].Title.Text)
	assert.Equal(t, [][]string{{"Students: 30", "Students: 28"}}, c.Tooltips)

	tips, err := c.TooltipsJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[["Students: 30","Students: 28"]]`, tips)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "12", formatNumber(12))
	assert.Equal(t, "12.5", formatNumber(12.5))
	assert.Equal(t, "0", formatNumber(0))
}
