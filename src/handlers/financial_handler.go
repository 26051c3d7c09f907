// backend/src/handlers/financial_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/models"
	"github.com/username/dartviewer/backend/src/security/validation"
	"github.com/username/dartviewer/backend/src/services"
	"github.com/username/dartviewer/backend/src/utils"
)

var financialErrors = errorMessages{
	validation: msgInvalidCorpCode,
	notFound:   msgCorpCodeNotFound,
	failure:    msgFinancialFailed,
}

type FinancialHandler struct {
	financialService services.FinancialService
	companyService   services.CompanyService
	aiService        services.AIService
	now              func() time.Time
}

func NewFinancialHandler(financialService services.FinancialService, companyService services.CompanyService, aiService services.AIService) *FinancialHandler {
	return &FinancialHandler{
		financialService: financialService,
		companyService:   companyService,
		aiService:        aiService,
		now:              time.Now,
	}
}

type explainResponse struct {
	Explanation       string                  `json:"explanation"`
	ExplanationHTML   string                  `json:"explanationHtml"`
	ExplanationFailed bool                    `json:"explanationFailed"`
	FinancialData     *models.FinancialReport `json:"financialData"`
}

// reportRequest holds the validated path parameters of a financial route.
type reportRequest struct {
	corpCode string
	year     int
	quarter  int // 0 means the annual report
}

// parseReportRequest validates corp code, year and the optional quarter
// before any upstream call and writes the 400 itself on failure.
func (h *FinancialHandler) parseReportRequest(w http.ResponseWriter, r *http.Request) (reportRequest, bool) {
	ctxLogger := logger.FromContext(r.Context())
	req := reportRequest{corpCode: chi.URLParam(r, "corpCode")}

	if err := validation.ValidateCorpCode(req.corpCode); err != nil {
		ctxLogger.Debug("Invalid corp code", "error", err)
		utils.SendJSONError(w, msgInvalidCorpCode, http.StatusBadRequest)
		return req, false
	}

	year, err := validation.ValidateYear(chi.URLParam(r, "year"), h.now())
	if err != nil {
		ctxLogger.Debug("Invalid year", "error", err)
		utils.SendJSONError(w, msgInvalidYear, http.StatusBadRequest)
		return req, false
	}
	req.year = year

	if raw := chi.URLParam(r, "quarter"); raw != "" {
		quarter, err := validation.ValidateQuarter(raw)
		if err != nil {
			ctxLogger.Debug("Invalid quarter", "error", err)
			utils.SendJSONError(w, msgInvalidQuarter, http.StatusBadRequest)
			return req, false
		}
		req.quarter = quarter
	}
	return req, true
}

func (h *FinancialHandler) loadReport(r *http.Request, req reportRequest) (*models.FinancialReport, error) {
	if req.quarter == 0 {
		return h.financialService.GetAnnualReport(r.Context(), req.corpCode, req.year)
	}
	return h.financialService.GetQuarterlyReport(r.Context(), req.corpCode, req.year, req.quarter)
}

// HandleGetAnnualReport serves GET /api/financial/{corpCode}/annual/{year}.
func (h *FinancialHandler) HandleGetAnnualReport(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r)
}

// HandleGetQuarterlyReport serves GET /api/financial/{corpCode}/quarterly/{year}/{quarter}.
func (h *FinancialHandler) HandleGetQuarterlyReport(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r)
}

func (h *FinancialHandler) serveReport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseReportRequest(w, r)
	if !ok {
		return
	}
	report, err := h.loadReport(r, req)
	if err != nil {
		writeServiceError(w, r, err, financialErrors)
		return
	}
	utils.WriteJSONWithETag(w, r, report)
}

// HandleExplain serves GET /api/financial/{corpCode}/explain/{year}[/{quarter}].
// AI failures still answer 200 with a displayable explanation.
func (h *FinancialHandler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseReportRequest(w, r)
	if !ok {
		return
	}
	report, err := h.loadReport(r, req)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			validation: msgInvalidCorpCode,
			notFound:   msgCorpCodeNotFound,
			failure:    msgExplanationFailed,
		})
		return
	}

	companyName := ""
	if company, err := h.companyService.GetByCorpCode(r.Context(), req.corpCode); err == nil {
		companyName = company.CorpName
	} else if !services.IsKind(err, services.KindNotFound) {
		logger.FromContext(r.Context()).Warn("Company name lookup failed, explaining without it", "corpCode", req.corpCode, "error", err)
	}

	explanation := h.aiService.ExplainFinancialStatements(r.Context(), report, companyName)
	utils.WriteJSON(w, r, explainResponse{
		Explanation:       explanation.Text,
		ExplanationHTML:   explanation.HTML,
		ExplanationFailed: explanation.Failed,
		FinancialData:     report,
	})
}
