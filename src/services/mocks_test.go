package services

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/username/dartviewer/backend/src/models"
)

// MockDartClient is a mock implementation of DartClient
type MockDartClient struct {
	mock.Mock
}

func (m *MockDartClient) GetSingleCorpAccount(ctx context.Context, corpCode, businessYear, reportCode string) ([]models.LineItem, error) {
	args := m.Called(ctx, corpCode, businessYear, reportCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LineItem), args.Error(1)
}

func (m *MockDartClient) GetCompanyOverview(ctx context.Context, corpCode string) (*models.CompanyOverview, error) {
	args := m.Called(ctx, corpCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanyOverview), args.Error(1)
}

func (m *MockDartClient) GetDisclosureList(ctx context.Context, query models.DisclosureQuery) (*models.DisclosurePage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DisclosurePage), args.Error(1)
}

func (m *MockDartClient) DownloadCorpCodes(ctx context.Context, w io.Writer) (int64, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(int64), args.Error(1)
}

// MockTextGenerator is a mock implementation of TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
