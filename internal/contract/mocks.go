package contract

import (
	"context"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of Transport for testing.
type MockTransport struct {
	mock.Mock
}

var _ Transport = &MockTransport{} // Compile-time check

// Fetch implements the Transport interface.
func (m *MockTransport) Fetch(ctx context.Context, year int, codes []string, forClause string, inClauses map[string]string) ([]schema.Row, error) {
	args := m.Called(ctx, year, codes, forClause, inClauses)
	rows, _ := args.Get(0).([]schema.Row)
	return rows, args.Error(1)
}
