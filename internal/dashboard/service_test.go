package dashboard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"schoolboard/internal/apiclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService serves the given envelope bodies by path and records queries
func newTestService(t *testing.T, bodies map[string]string) (Service, func(path string) url.Values) {
	t.Helper()
	var mu sync.Mutex
	queries := make(map[string]url.Values)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries[r.URL.Path] = r.URL.Query()
		mu.Unlock()
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	query := func(path string) url.Values {
		mu.Lock()
		defer mu.Unlock()
		return queries[path]
	}
	return NewService(apiclient.New(srv.URL, time.Second)), query
}

func TestService_GetStats(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"/dashboard/stats": `{"success":true,"message":"ok","data":{"total_students":42,"total_revenue":1500.25}}`,
	})

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.NotNil(t, stats.TotalStudents)
	assert.Equal(t, int64(42), *stats.TotalStudents)
	assert.True(t, stats.TotalRevenue.Valid)
	assert.Equal(t, "1500.25", stats.TotalRevenue.Decimal.String())
	assert.False(t, stats.OverdueAmount.Valid)
	assert.Nil(t, stats.CollectionRate)
}

func TestService_GetRecentActivities(t *testing.T) {
	svc, query := newTestService(t, map[string]string{
		"/dashboard/recent-activities": `{"success":true,"data":[
			{"id":1,"amount":250,"student_name":"Mwila Banda","datetime":"2024-03-05T09:00:00","status":"pending","initials":"MB"}
		]}`,
	})

	activities, err := svc.GetRecentActivities(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "1", activities[0].ID.String())
	assert.Equal(t, StatusPending, activities[0].Status)
	assert.Equal(t, "250", activities[0].Amount.String())
	assert.Equal(t, 9, activities[0].Datetime.Hour())
	assert.Equal(t, "10", query("/dashboard/recent-activities").Get("limit"))

	_, err = svc.GetRecentActivities(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "3", query("/dashboard/recent-activities").Get("limit"))
}

func TestService_Charts(t *testing.T) {
	chart := `{"success":true,"data":{"labels":["Mon","Tue"],"datasets":[{"label":"Revenue","data":[100,200]},{"data":[3,4]}]}}`
	svc, query := newTestService(t, map[string]string{
		"/dashboard/revenue-chart":         chart,
		"/dashboard/payment-methods-chart": chart,
		"/dashboard/grade-distribution":    `{"success":true,"data":null}`,
	})
	ctx := context.Background()

	revenue, err := svc.GetRevenueChart(ctx, PeriodMonth)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mon", "Tue"}, revenue.Labels)
	assert.Equal(t, []float64{3, 4}, revenue.Datasets[1].Data)
	assert.Equal(t, "month", query("/dashboard/revenue-chart").Get("period"))

	_, err = svc.GetRevenueChart(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "week", query("/dashboard/revenue-chart").Get("period"))

	_, err = svc.GetPaymentMethodsChart(ctx, "", "")
	require.NoError(t, err)
	assert.NotContains(t, query("/dashboard/payment-methods-chart"), "date_from")
	assert.NotContains(t, query("/dashboard/payment-methods-chart"), "date_to")

	_, err = svc.GetPaymentMethodsChart(ctx, "2024-01-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", query("/dashboard/payment-methods-chart").Get("date_from"))
	assert.Equal(t, "2024-03-31", query("/dashboard/payment-methods-chart").Get("date_to"))

	grades, err := svc.GetGradeDistribution(ctx)
	require.NoError(t, err)
	assert.Nil(t, grades, "null data is the empty chart state")
}

func TestService_GetFinancialSummary(t *testing.T) {
	svc, query := newTestService(t, map[string]string{
		"/dashboard/financial-summary": `{"success":true,"message":"Financial summary retrieved successfully","data":{"total_revenue":5000,"collected":4000.5,"outstanding":999.5,"collection_rate":80.01,"trends":{"collections":12.5,"outstanding":5.3,"collection_rate":3.2}}}`,
	})
	ctx := context.Background()

	summary, err := svc.GetFinancialSummary(ctx, "", "")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "4000.5", summary.Collected.Decimal.String())
	assert.Equal(t, "999.5", summary.Outstanding.Decimal.String())
	require.NotNil(t, summary.CollectionRate)
	assert.Equal(t, 80.01, *summary.CollectionRate)
	require.NotNil(t, summary.Trends)
	require.NotNil(t, summary.Trends.Collections)
	assert.Equal(t, 12.5, *summary.Trends.Collections)
	assert.Empty(t, query("/dashboard/financial-summary"), "empty bounds are not sent")

	_, err = svc.GetFinancialSummary(ctx, "2024-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", query("/dashboard/financial-summary").Get("date_from"))
	assert.NotContains(t, query("/dashboard/financial-summary"), "date_to")

	_, err = svc.GetFinancialSummary(ctx, "2024-01-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", query("/dashboard/financial-summary").Get("date_to"))
}

func TestService_PropagatesErrors(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{})

	_, err := svc.GetStats(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))
}
