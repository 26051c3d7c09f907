// backend/src/handlers/company_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/username/dartviewer/backend/src/models"
	"github.com/username/dartviewer/backend/src/services"
	"github.com/username/dartviewer/backend/src/utils"
)

type CompanyHandler struct {
	companyService services.CompanyService
}

func NewCompanyHandler(companyService services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// HandleSearch serves GET /api/companies/search?query=.
func (h *CompanyHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companyService.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			validation: msgSearchQueryTooShort,
			failure:    msgSearchFailed,
		})
		return
	}
	utils.WriteJSON(w, r, companies)
}

// HandleGetByStockCode serves GET /api/companies/stock/{stockCode}. A code
// that cannot exist is reported as not found.
func (h *CompanyHandler) HandleGetByStockCode(w http.ResponseWriter, r *http.Request) {
	company, err := h.companyService.GetByStockCode(r.Context(), chi.URLParam(r, "stockCode"))
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			validation: msgStockCodeNotFound,
			notFound:   msgStockCodeNotFound,
			failure:    msgLookupFailed,
		})
		return
	}
	utils.WriteJSON(w, r, company)
}

// HandleGetByCorpCode serves GET /api/companies/{corpCode}.
func (h *CompanyHandler) HandleGetByCorpCode(w http.ResponseWriter, r *http.Request) {
	company, err := h.companyService.GetByCorpCode(r.Context(), chi.URLParam(r, "corpCode"))
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			validation: msgCorpCodeNotFound,
			notFound:   msgCorpCodeNotFound,
			failure:    msgCompanyInfoFailed,
		})
		return
	}
	utils.WriteJSON(w, r, company)
}

// HandleGetOverview serves GET /api/companies/{corpCode}/overview from OpenDART company.json.
func (h *CompanyHandler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.companyService.GetOverview(r.Context(), chi.URLParam(r, "corpCode"))
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			validation: msgInvalidCorpCode,
			notFound:   msgCorpCodeNotFound,
			failure:    msgOverviewFailed,
		})
		return
	}
	utils.WriteJSONWithETag(w, r, overview)
}

// HandleListDisclosures serves GET /api/companies/{corpCode}/disclosures?from=&to=&type=&page=&size=.
func (h *CompanyHandler) HandleListDisclosures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.DisclosureQuery{
		CorpCode:  chi.URLParam(r, "corpCode"),
		BeginDate: q.Get("from"),
		EndDate:   q.Get("to"),
		Type:      q.Get("type"),
	}
	var err error
	if query.PageNo, err = optionalInt(q.Get("page")); err != nil {
		utils.SendJSONError(w, msgInvalidDisclosure, http.StatusBadRequest)
		return
	}
	if query.PageCount, err = optionalInt(q.Get("size")); err != nil {
		utils.SendJSONError(w, msgInvalidDisclosure, http.StatusBadRequest)
		return
	}

	page, err := h.companyService.ListDisclosures(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			validation: msgInvalidDisclosure,
			notFound:   msgCorpCodeNotFound,
			failure:    msgDisclosuresFailed,
		})
		return
	}
	utils.WriteJSON(w, r, page)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
