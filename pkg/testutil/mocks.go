package testutil

import (
	"github.com/stretchr/testify/mock"
)

// MockIndexer is a mock implementation of plugins.Indexer
type MockIndexer struct {
	mock.Mock
}

// WriteIndex records the plugin list
func (m *MockIndexer) WriteIndex(plugins []string) error {
	args := m.Called(plugins)
	return args.Error(0)
}

// ClearIndex records a clear
func (m *MockIndexer) ClearIndex() error {
	args := m.Called()
	return args.Error(0)
}
