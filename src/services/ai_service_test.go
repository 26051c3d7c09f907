package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/username/dartviewer/backend/src/models"
)

func ptrf(v float64) *float64 { return &v }

func sampleReport() *models.FinancialReport {
	report := models.NewFinancialReport()
	report.CompanyInfo = models.CompanyInfo{
		CorporationCode: "00126380",
		StockCode:       "005930",
		CurrentTermName: "제 55 기",
		CurrentTermDate: "2023.12.31 현재",
	}
	report.Statements[models.StatementBalanceSheet] = &models.Statement{
		Title: "재무상태표",
		Accounts: []models.Account{
			{Name: "유동자산", CurrentAmount: ptrf(195_936_557_000_000)},
			{Name: "자산총계", CurrentAmount: ptrf(455_905_980_000_000)},
			{Name: "기타포괄손익누계액", CurrentAmount: ptrf(1)},
			{Name: "자본총계", CurrentAmount: nil},
		},
	}
	report.Statements[models.StatementIncome] = &models.Statement{
		Title: "손익계산서",
		Accounts: []models.Account{
			{Name: "매출액", CurrentAmount: ptrf(258_935_494_000_000)},
			{Name: "법인세비용차감전순이익(손실)", CurrentAmount: ptrf(-350_000_000)},
		},
	}
	return report
}

func TestBuildExplanationPrompt(t *testing.T) {
	prompt := BuildExplanationPrompt(sampleReport(), "삼성전자")

	assert.True(t, strings.HasPrefix(prompt, "다음 회사의 재무제표를 분석하고 쉽게 설명해 주세요:\n\n회사명: 삼성전자\n"))
	assert.Contains(t, prompt, "기간: 제 55 기 (2023.12.31 현재)\n\n")
	assert.Contains(t, prompt, "재무상태표 주요 계정:\n- 유동자산: 195.94조원\n- 자산총계: 455.91조원\n- 자본총계: 정보 없음\n\n")
	assert.Contains(t, prompt, "손익계산서 주요 계정:\n- 매출액: 258.94조원\n- 법인세비용차감전순이익(손실): -3.50억원\n\n")
	assert.NotContains(t, prompt, "기타포괄손익누계액")
	assert.NotContains(t, prompt, "주요 재무비율")
	assert.True(t, strings.HasSuffix(prompt, "필요한 경우 비유를 사용하셔도 좋습니다."))
}

func TestBuildExplanationPrompt_Fallbacks(t *testing.T) {
	report := models.NewFinancialReport()
	report.CompanyInfo.StockCode = "005930"
	report.Statements[models.StatementComprehensiveIncome] = &models.Statement{
		Accounts: []models.Account{{Name: "당기순이익", CurrentAmount: ptrf(1234)}},
	}
	report.Ratios = &models.FinancialRatios{ROE: ptrf(10)}

	prompt := BuildExplanationPrompt(report, "")
	assert.Contains(t, prompt, "회사명: 005930\n")
	assert.Contains(t, prompt, "기간: 정보 없음 (정보 없음)\n")
	assert.NotContains(t, prompt, "재무상태표 주요 계정")
	assert.Contains(t, prompt, "손익계산서 주요 계정:\n- 당기순이익: 1,234원\n")
	assert.Contains(t, prompt, "- ROE: 10.00%\n- ROA: 정보 없음\n")

	assert.Contains(t, BuildExplanationPrompt(models.NewFinancialReport(), ""), "회사명: 정보 없음\n")
}

func TestFormatKoreanAmount(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "정보 없음"},
		{ptrf(1.5e12), "1.50조원"},
		{ptrf(-2e12), "-2.00조원"},
		{ptrf(123_456_789), "1.23억원"},
		{ptrf(50_000), "5.00만원"},
		{ptrf(9999), "9,999원"},
		{ptrf(0), "0원"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatKoreanAmount(tt.in))
	}
}

func TestAIService_Explain(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "회사명: 삼성전자")
	})).Return("**건전합니다**\n둘째 줄<script>alert(1)</script>", nil)

	service := NewAIService(gen, 0)
	exp := service.ExplainFinancialStatements(context.Background(), sampleReport(), "삼성전자")

	assert.False(t, exp.Failed)
	assert.Equal(t, "**건전합니다**\n둘째 줄<script>alert(1)</script>", exp.Text)
	assert.Contains(t, exp.HTML, "<strong>건전합니다</strong>")
	assert.Contains(t, exp.HTML, "<br")
	assert.NotContains(t, exp.HTML, "<script>")
	gen.AssertExpectations(t)
}

func TestAIService_GeneratorError(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	exp := NewAIService(gen, 0).ExplainFinancialStatements(context.Background(), sampleReport(), "삼성전자")
	assert.True(t, exp.Failed)
	assert.Equal(t, "재무제표 설명을 생성하는 중 오류가 발생했습니다: quota exceeded", exp.Text)
}

func TestAIService_MissingKey(t *testing.T) {
	exp := NewAIService(nil, 0).ExplainFinancialStatements(context.Background(), sampleReport(), "삼성전자")
	assert.True(t, exp.Failed)
	assert.Equal(t, MsgMissingAPIKey, exp.Text)
	require.NotEmpty(t, exp.HTML)
}

func TestAIService_InvalidReport(t *testing.T) {
	gen := new(MockTextGenerator)

	exp := NewAIService(gen, 0).ExplainFinancialStatements(context.Background(), nil, "")
	assert.True(t, exp.Failed)
	assert.Equal(t, "재무제표 설명을 생성하는 중 오류가 발생했습니다: 유효한 재무제표 데이터가 아닙니다.", exp.Text)
	gen.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
}
