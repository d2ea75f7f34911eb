package dashboard

import (
	"context"
	"net/url"
	"strconv"
)

// DefaultActivityLimit is used when a non-positive limit is requested
const DefaultActivityLimit = 10

// Requester is the part of the API client the services need
type Requester interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
}

// Service maps each dashboard endpoint to one call. Errors are returned unchanged.
type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
	GetRecentActivities(ctx context.Context, limit int) ([]Activity, error)
	GetRevenueChart(ctx context.Context, period Period) (*ChartPayload, error)
	GetPaymentMethodsChart(ctx context.Context, dateFrom, dateTo string) (*ChartPayload, error)
	GetGradeDistribution(ctx context.Context) (*ChartPayload, error)
	GetFinancialSummary(ctx context.Context, dateFrom, dateTo string) (*FinancialSummary, error)
}

type service struct {
	client Requester
}

func NewService(client Requester) Service {
	return &service{
		client: client,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	var stats *Stats
	if err := s.client.Get(ctx, "/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *service) GetRecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	params := url.Values{"limit": {strconv.Itoa(limit)}}

	var activities []Activity
	if err := s.client.Get(ctx, "/dashboard/recent-activities", params, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *service) GetRevenueChart(ctx context.Context, period Period) (*ChartPayload, error) {
	if period == "" {
		period = PeriodWeek
	}
	params := url.Values{"period": {string(period)}}
	return s.chart(ctx, "/dashboard/revenue-chart", params)
}

func (s *service) GetPaymentMethodsChart(ctx context.Context, dateFrom, dateTo string) (*ChartPayload, error) {
	return s.chart(ctx, "/dashboard/payment-methods-chart", dateRange(dateFrom, dateTo))
}

func (s *service) GetFinancialSummary(ctx context.Context, dateFrom, dateTo string) (*FinancialSummary, error) {
	var summary *FinancialSummary
	if err := s.client.Get(ctx, "/dashboard/financial-summary", dateRange(dateFrom, dateTo), &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// dateRange builds date_from/date_to params, leaving out empty bounds
func dateRange(dateFrom, dateTo string) url.Values {
	params := url.Values{}
	if dateFrom != "" {
		params.Set("date_from", dateFrom)
	}
	if dateTo != "" {
		params.Set("date_to", dateTo)
	}
	return params
}

func (s *service) GetGradeDistribution(ctx context.Context) (*ChartPayload, error) {
	return s.chart(ctx, "/dashboard/grade-distribution", nil)
}

func (s *service) chart(ctx context.Context, path string, params url.Values) (*ChartPayload, error) {
	var payload *ChartPayload
	if err := s.client.Get(ctx, path, params, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
