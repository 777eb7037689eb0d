package mocks

import (
	"context"

	"github.com/threadnest-api/internal/models"
	"github.com/threadnest-api/internal/service"
)

// MockStatsService is a mock implementation of StatsService
type MockStatsService struct {
	Result models.StoreCounts
	Err    error
	Calls  int
}

// Verify interface compliance
var _ service.StatsService = (*MockStatsService)(nil)

func NewMockStatsService() *MockStatsService {
	return &MockStatsService{}
}

func (m *MockStatsService) Counts(ctx context.Context) (*models.StoreCounts, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	counts := m.Result
	return &counts, nil
}
