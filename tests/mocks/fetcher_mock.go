package mocks

import (
	"context"
	"net/http"

	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockFetcher mocks the domain.Fetcher interface
type MockFetcher struct {
	mock.Mock
}

// Get mocks a plain GET
func (m *MockFetcher) Get(ctx context.Context, url string) (*domain.Response, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Response), args.Error(1)
}

// GetWithHeaders mocks a GET with extra headers
func (m *MockFetcher) GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*domain.Response, error) {
	args := m.Called(ctx, url, headers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Response), args.Error(1)
}

// Transport returns http.DefaultTransport unless a RoundTripper was stubbed
func (m *MockFetcher) Transport() http.RoundTripper {
	for _, call := range m.ExpectedCalls {
		if call.Method == "Transport" {
			return m.Called().Get(0).(http.RoundTripper)
		}
	}
	return http.DefaultTransport
}

// Close mocks releasing resources
func (m *MockFetcher) Close() error {
	args := m.Called()
	return args.Error(0)
}
