package student

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sumo-go/internal/student/ranking"
)

// MockSource is a mock implementation of Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Find(ctx context.Context, id string) (*Student, error) {
	args := m.Called(ctx, id)
	if st, ok := args.Get(0).(*Student); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Lookup(ctx context.Context, rawID string) (*Result, error) {
	args := m.Called(ctx, rawID)
	if res, ok := args.Get(0).(*Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Levels() []ranking.Tier {
	args := m.Called()
	return args.Get(0).([]ranking.Tier)
}
