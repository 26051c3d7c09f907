// backend/src/services/ai_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/models"
	"github.com/username/dartviewer/backend/src/security/validation"
)

const (
	MsgMissingAPIKey      = "설정된 API 키가 없습니다. .env 파일에 GEMINI_API_KEY를 설정해주세요."
	MsgInvalidReport      = "유효한 재무제표 데이터가 아닙니다."
	msgGenerationFailedFm = "재무제표 설명을 생성하는 중 오류가 발생했습니다: %s"
	msgNoInformation      = "정보 없음"

	DefaultAITimeout = 60 * time.Second
)

var errInvalidReport = errors.New(MsgInvalidReport)

// Account names are matched by substring, so 법인세비용차감전순이익(손실) still counts.
var keyAccountNames = []string{
	"자산총계", "부채총계", "자본총계", "유동자산", "비유동자산",
	"유동부채", "비유동부채", "자본금", "이익잉여금",
	"매출액", "영업이익", "법인세비용차감전순이익", "당기순이익",
	"매출총이익", "영업비용", "영업외수익", "영업외비용",
}

const promptInstructions = `다음 내용을 포함해 재무제표를 쉽게 설명해 주세요:
1. 회사의 전반적인 재무 건전성
2. 주요 재무 지표 분석 (수익성, 안정성, 성장성)
3. 투자자 입장에서 알아야 할 중요 포인트
4. 전기 대비 변화된 점
5. 향후 전망에 대한 의견

가능한 전문 용어를 피하고, 일반인도 이해하기 쉽게 설명해 주세요. 필요한 경우 비유를 사용하셔도 좋습니다.`

type aiServiceImpl struct {
	generator TextGenerator
	timeout   time.Duration
	markdown  goldmark.Markdown
}

// NewAIService wraps generator. A nil generator means no API key was
// configured; every explanation then reports that instead of failing.
func NewAIService(generator TextGenerator, timeout time.Duration) AIService {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	return &aiServiceImpl{
		generator: generator,
		timeout:   timeout,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// ExplainFinancialStatements never returns an error: failures become a
// displayable message with Failed set.
func (s *aiServiceImpl) ExplainFinancialStatements(ctx context.Context, report *models.FinancialReport, companyName string) Explanation {
	if s.generator == nil {
		return s.failed(ctx, MsgMissingAPIKey, nil)
	}
	if report == nil || report.Statements == nil {
		return s.failed(ctx, fmt.Sprintf(msgGenerationFailedFm, MsgInvalidReport), errInvalidReport)
	}

	prompt := BuildExplanationPrompt(report, companyName)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.GenerateText(genCtx, prompt)
	if err != nil {
		return s.failed(ctx, fmt.Sprintf(msgGenerationFailedFm, err.Error()), err)
	}
	logger.FromContext(ctx).Info("AI explanation generated",
		"corpCode", report.CompanyInfo.CorporationCode,
		"promptChars", len(prompt), "responseChars", len(text), "duration", time.Since(start))

	return Explanation{Text: text, HTML: s.render(ctx, text)}
}

func (s *aiServiceImpl) failed(ctx context.Context, msg string, err error) Explanation {
	if err != nil {
		logger.FromContext(ctx).Error("AI explanation failed", "error", err)
	} else {
		logger.FromContext(ctx).Warn("AI explanation skipped", "reason", msg)
	}
	return Explanation{Text: msg, HTML: s.render(ctx, msg), Failed: true}
}

// render converts the model's Markdown to sanitized HTML; single newlines
// become <br>.
func (s *aiServiceImpl) render(ctx context.Context, text string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		logger.FromContext(ctx).Warn("Failed to render explanation markdown", "error", err)
		return validation.SanitizeHTML(strings.ReplaceAll(validation.SanitizeText(text), "\n", "<br>\n"))
	}
	return validation.SanitizeHTML(buf.String())
}

// BuildExplanationPrompt assembles the Gemini prompt from the report's key accounts.
func BuildExplanationPrompt(report *models.FinancialReport, companyName string) string {
	info := report.CompanyInfo

	var b strings.Builder
	b.WriteString("다음 회사의 재무제표를 분석하고 쉽게 설명해 주세요:\n\n")
	fmt.Fprintf(&b, "회사명: %s\n", firstNonEmpty(companyName, info.StockCode, msgNoInformation))
	fmt.Fprintf(&b, "기간: %s (%s)\n\n",
		firstNonEmpty(info.CurrentTermName, msgNoInformation),
		firstNonEmpty(info.CurrentTermDate, msgNoInformation))

	writeKeyAccounts(&b, "재무상태표 주요 계정", report.Statement(models.StatementBalanceSheet))

	income := report.Statement(models.StatementIncome)
	if income == nil {
		income = report.Statement(models.StatementComprehensiveIncome)
	}
	writeKeyAccounts(&b, "손익계산서 주요 계정", income)

	if r := report.Ratios; r != nil {
		b.WriteString("주요 재무비율:\n")
		writeRatio(&b, "ROE", r.ROE)
		writeRatio(&b, "ROA", r.ROA)
		writeRatio(&b, "영업이익률", r.OperatingMargin)
		writeRatio(&b, "순이익률", r.NetMargin)
		writeRatio(&b, "부채비율(자산 대비)", r.DebtRatio)
		writeRatio(&b, "부채비율(자본 대비)", r.DebtToEquity)
		b.WriteString("\n")
	}

	b.WriteString(promptInstructions)
	return b.String()
}

func writeKeyAccounts(b *strings.Builder, heading string, stmt *models.Statement) {
	if stmt == nil {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, acc := range stmt.Accounts {
		if isKeyAccount(acc.Name) {
			fmt.Fprintf(b, "- %s: %s\n", acc.Name, FormatKoreanAmount(acc.CurrentAmount))
		}
	}
	b.WriteString("\n")
}

func writeRatio(b *strings.Builder, label string, v *float64) {
	if v == nil {
		fmt.Fprintf(b, "- %s: %s\n", label, msgNoInformation)
		return
	}
	fmt.Fprintf(b, "- %s: %.2f%%\n", label, *v)
}

func isKeyAccount(name string) bool {
	for _, key := range keyAccountNames {
		if strings.Contains(name, key) {
			return true
		}
	}
	return false
}

// FormatKoreanAmount renders won amounts in 조/억/만 units with two decimals.
// Amounts under 10,000 are printed in full with grouping commas.
func FormatKoreanAmount(amount *float64) string {
	if amount == nil {
		return msgNoInformation
	}
	v := *amount
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2f조원", v/1e12)
	case abs >= 1e8:
		return fmt.Sprintf("%.2f억원", v/1e8)
	case abs >= 1e4:
		return fmt.Sprintf("%.2f만원", v/1e4)
	default:
		return humanize.Commaf(v) + "원"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
