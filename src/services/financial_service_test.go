package services

import (
	"context"
	"errors"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/username/dartviewer/backend/src/models"
	"github.com/username/dartviewer/backend/src/processors"
)

func setupFinancialServiceTest() (FinancialService, *MockDartClient) {
	mockClient := new(MockDartClient)
	service := NewFinancialService(
		mockClient,
		processors.NewStatementNormalizer(),
		processors.NewAccountSynthesizer(),
		processors.NewRatioCalculator(),
		cache.New(DefaultCacheExpiration, CacheCleanupInterval),
		DefaultCacheExpiration,
	)
	return service, mockClient
}

func sampleLineItems() []models.LineItem {
	return []models.LineItem{
		{CorpCode: "00126380", BusinessYear: "2023", ReportCode: "11011", Division: "OFS", StatementType: "BS", StatementName: "재무상태표", AccountName: "자산총계", CurrentAmount: "999", Order: "1", CurrentTermName: "제 55 기"},
		{CorpCode: "00126380", BusinessYear: "2023", ReportCode: "11011", Division: "CFS", StatementType: "BS", StatementName: "재무상태표", AccountName: "자산총계", CurrentAmount: "1,000", Order: "3", CurrentTermName: "제 55 기"},
		{CorpCode: "00126380", BusinessYear: "2023", ReportCode: "11011", Division: "CFS", StatementType: "BS", StatementName: "재무상태표", AccountName: "유동자산", CurrentAmount: "400", Order: "1"},
		{CorpCode: "00126380", BusinessYear: "2023", ReportCode: "11011", Division: "CFS", StatementType: "BS", StatementName: "재무상태표", AccountName: "부채총계", CurrentAmount: "300", Order: "5"},
		{CorpCode: "00126380", BusinessYear: "2023", ReportCode: "11011", Division: "CFS", StatementType: "BS", StatementName: "재무상태표", AccountName: "자본총계", CurrentAmount: "700", Order: "8"},
		{CorpCode: "00126380", BusinessYear: "2023", ReportCode: "11011", Division: "CFS", StatementType: "IS", StatementName: "손익계산서", AccountName: "매출액", CurrentAmount: "500", Order: "1"},
		{CorpCode: "00126380", BusinessYear: "2023", ReportCode: "11011", Division: "CFS", StatementType: "IS", StatementName: "손익계산서", AccountName: "당기순이익", CurrentAmount: "70", Order: "9"},
	}
}

func TestFinancialService_GetAnnualReport(t *testing.T) {
	service, mockClient := setupFinancialServiceTest()
	ctx := context.Background()

	mockClient.On("GetSingleCorpAccount", mock.Anything, "00126380", "2023", processors.ReportCodeAnnual).
		Return(sampleLineItems(), nil).Once()

	report, err := service.GetAnnualReport(ctx, "00126380", 2023)
	require.NoError(t, err)

	assert.Equal(t, processors.StatementTypeConsolidated, report.CompanyInfo.StatementType)
	assert.Equal(t, processors.StatementNameConsolidated, report.CompanyInfo.StatementName)

	bs := report.Statement(models.StatementBalanceSheet)
	require.NotNil(t, bs)
	total, ok := bs.Find("자산총계")
	require.True(t, ok)
	assert.Equal(t, 1000.0, *total.CurrentAmount)

	nonCurrent, ok := bs.Find("비유동자산")
	require.True(t, ok, "non-current assets are synthesized")
	assert.True(t, nonCurrent.Synthesized)
	assert.Equal(t, 600.0, *nonCurrent.CurrentAmount)

	require.NotNil(t, report.Ratios)
	require.NotNil(t, report.Ratios.ROE)
	assert.InDelta(t, 10.0, *report.Ratios.ROE, 1e-9)
	assert.InDelta(t, 30.0, *report.Ratios.DebtRatio, 1e-9)
	assert.Nil(t, report.Ratios.OperatingMargin)

	// Served from cache; the mock only allows one upstream call.
	cached, err := service.GetAnnualReport(ctx, "00126380", 2023)
	require.NoError(t, err)
	assert.Same(t, report, cached)
	mockClient.AssertExpectations(t)
}

func TestFinancialService_GetQuarterlyReport(t *testing.T) {
	service, mockClient := setupFinancialServiceTest()

	mockClient.On("GetSingleCorpAccount", mock.Anything, "00126380", "2024", processors.ReportCodeSemiannual).
		Return(sampleLineItems(), nil).Once()

	report, err := service.GetQuarterlyReport(context.Background(), "00126380", 2024, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, report.Statements)
	mockClient.AssertExpectations(t)
}

func TestFinancialService_InvalidQuarter(t *testing.T) {
	service, mockClient := setupFinancialServiceTest()

	_, err := service.GetQuarterlyReport(context.Background(), "00126380", 2024, 5)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	mockClient.AssertNotCalled(t, "GetSingleCorpAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinancialService_InvalidCorpCode(t *testing.T) {
	service, mockClient := setupFinancialServiceTest()

	_, err := service.GetAnnualReport(context.Background(), "126380", 2023)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	mockClient.AssertNotCalled(t, "GetSingleCorpAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinancialService_UpstreamError(t *testing.T) {
	service, mockClient := setupFinancialServiceTest()
	upstreamErr := &Error{Kind: KindUpstream, Op: "DartClient.GetSingleCorpAccount", Err: &UpstreamStatusError{Status: "020", Message: "요청 제한을 초과하였습니다."}}

	mockClient.On("GetSingleCorpAccount", mock.Anything, "00126380", "2023", processors.ReportCodeAnnual).
		Return(nil, upstreamErr).Twice()

	_, err := service.GetAnnualReport(context.Background(), "00126380", 2023)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUpstream))

	// Failures are not cached.
	_, err = service.GetAnnualReport(context.Background(), "00126380", 2023)
	require.Error(t, err)
	mockClient.AssertExpectations(t)
}

func TestFinancialService_TransportErrorIsUpstream(t *testing.T) {
	service, mockClient := setupFinancialServiceTest()

	mockClient.On("GetSingleCorpAccount", mock.Anything, "00126380", "2023", processors.ReportCodeAnnual).
		Return(nil, errors.New("connection reset"))

	_, err := service.GetAnnualReport(context.Background(), "00126380", 2023)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUpstream))
}

func TestFinancialService_EmptyUpstreamList(t *testing.T) {
	service, mockClient := setupFinancialServiceTest()

	mockClient.On("GetSingleCorpAccount", mock.Anything, "00126380", "2016", processors.ReportCodeAnnual).
		Return([]models.LineItem{}, nil)

	report, err := service.GetAnnualReport(context.Background(), "00126380", 2016)
	require.NoError(t, err)
	assert.True(t, report.IsEmpty())
	assert.Nil(t, report.Ratios)
	assert.Equal(t, models.CompanyInfo{}, report.CompanyInfo)
}
