package mocks

import (
	"context"

	"inventory-sync/core/source"

	"github.com/stretchr/testify/mock"
)

// API is a mock implementation of source.API
type API struct {
	mock.Mock

	// EndpointName is returned by Name; defaults to "mock".
	EndpointName string
}

func (m *API) Name() string {
	if m.EndpointName != "" {
		return m.EndpointName
	}
	return "mock"
}

func (m *API) Search(ctx context.Context, q source.SearchQuery) ([]source.SummaryRecord, error) {
	args := m.Called(ctx, q)
	if recs, ok := args.Get(0).([]source.SummaryRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) Count(ctx context.Context, q source.SearchQuery) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *API) FetchDetail(ctx context.Context, externalID string) (map[string]any, error) {
	args := m.Called(ctx, externalID)
	if payload, ok := args.Get(0).(map[string]any); ok {
		return payload, args.Error(1)
	}
	return nil, args.Error(1)
}
