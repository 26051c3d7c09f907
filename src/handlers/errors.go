package handlers

import (
	"net/http"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/services"
	"github.com/username/dartviewer/backend/src/utils"
)

// User-facing messages. Internal error detail is logged, never sent.
const (
	msgSearchQueryTooShort = "검색어는 최소 2글자 이상 입력해주세요."
	msgInvalidYear         = "유효한 연도(2015년 이후)를 입력해주세요."
	msgInvalidQuarter      = "유효한 분기(1-4)를 입력해주세요."
	msgInvalidCorpCode     = "유효한 회사 고유번호(8자리 숫자)를 입력해주세요."
	msgInvalidDisclosure   = "유효한 공시 검색 조건을 입력해주세요."

	msgStockCodeNotFound = "해당 종목코드의 회사를 찾을 수 없습니다."
	msgCorpCodeNotFound  = "해당 고유번호의 회사를 찾을 수 없습니다."

	msgSearchFailed      = "회사 검색 중 오류가 발생했습니다."
	msgLookupFailed      = "회사 조회 중 오류가 발생했습니다."
	msgCompanyInfoFailed = "회사 정보 조회 중 오류가 발생했습니다."
	msgOverviewFailed    = "기업 개황 조회 중 오류가 발생했습니다."
	msgDisclosuresFailed = "공시 목록 조회 중 오류가 발생했습니다."
	msgFinancialFailed   = "재무제표 조회 중 오류가 발생했습니다."
	msgExplanationFailed = "재무제표 설명 생성 중 오류가 발생했습니다."
	msgHealthCheckFailed = "상태 확인 중 오류가 발생했습니다."
	msgRateLimitExceeded = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
)

// errorMessages picks the message sent for each error kind on one route.
type errorMessages struct {
	validation string
	notFound   string
	failure    string
}

// writeServiceError maps a service error to a status code. Not-found is an
// expected outcome and is not logged as an error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msgs errorMessages) {
	ctxLogger := logger.FromContext(r.Context())
	switch services.KindOf(err) {
	case services.KindValidation:
		ctxLogger.Debug("Request rejected by validation", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, msgs.validation, http.StatusBadRequest)
	case services.KindNotFound:
		ctxLogger.Debug("Resource not found", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, msgs.notFound, http.StatusNotFound)
	default:
		ctxLogger.Error("Request failed", "path", r.URL.Path, "kind", services.KindOf(err).String(), "error", err)
		utils.SendJSONError(w, msgs.failure, http.StatusInternalServerError)
	}
}
