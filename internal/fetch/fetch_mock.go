package fetch

import (
	"context"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockReportSource is a mock implementation of ReportSource for testing.
type MockReportSource struct {
	mock.Mock
}

var _ contract.ReportSource = &MockReportSource{} // Compile-time check

// ID implements the ReportSource interface.
func (m *MockReportSource) ID() string {
	return m.Called().String(0)
}

// Fingerprint implements the ReportSource interface.
func (m *MockReportSource) Fingerprint(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Fetch implements the ReportSource interface.
func (m *MockReportSource) Fetch(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
