// backend/src/services/dart_client.go
package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/models"
	"github.com/username/dartviewer/backend/src/observability"
)

const (
	dartStatusOK        = "000"
	maxDartResponseSize = 16 << 20
)

// --- API Response Structs ---

type dartStatus struct {
	Status  string `json:"status" xml:"status"`
	Message string `json:"message" xml:"message"`
}

type singleAccountResponse struct {
	dartStatus
	List []models.LineItem `json:"list"`
}

type companyOverviewResponse struct {
	dartStatus
	models.CompanyOverview
}

type disclosureListResponse struct {
	dartStatus
	models.DisclosurePage
}

// --- Client Implementation ---

type dartClientImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	tracer     trace.Tracer
}

// NewDartClient builds a client for baseURL (for example https://opendart.fss.or.kr/api).
func NewDartClient(baseURL, apiKey string, timeout time.Duration) DartClient {
	return &dartClientImpl{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		tracer:     otel.Tracer("DartClient"),
	}
}

func (c *dartClientImpl) GetSingleCorpAccount(ctx context.Context, corpCode, businessYear, reportCode string) ([]models.LineItem, error) {
	const op = "DartClient.GetSingleCorpAccount"
	ctx, span := c.tracer.Start(ctx, "GetSingleCorpAccount", trace.WithAttributes(
		attribute.String("dart.corp_code", corpCode),
		attribute.String("dart.bsns_year", businessYear),
		attribute.String("dart.reprt_code", reportCode),
	))
	defer span.End()

	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", businessYear)
	params.Set("reprt_code", reportCode)

	var resp singleAccountResponse
	if err := c.getJSON(ctx, op, "fnlttSinglAcnt.json", params, &resp); err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("dart.items", len(resp.List)))
	return resp.List, nil
}

func (c *dartClientImpl) GetCompanyOverview(ctx context.Context, corpCode string) (*models.CompanyOverview, error) {
	const op = "DartClient.GetCompanyOverview"
	ctx, span := c.tracer.Start(ctx, "GetCompanyOverview", trace.WithAttributes(
		attribute.String("dart.corp_code", corpCode),
	))
	defer span.End()

	params := url.Values{}
	params.Set("corp_code", corpCode)

	var resp companyOverviewResponse
	if err := c.getJSON(ctx, op, "company.json", params, &resp); err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	overview := resp.CompanyOverview
	return &overview, nil
}

func (c *dartClientImpl) GetDisclosureList(ctx context.Context, query models.DisclosureQuery) (*models.DisclosurePage, error) {
	const op = "DartClient.GetDisclosureList"
	ctx, span := c.tracer.Start(ctx, "GetDisclosureList", trace.WithAttributes(
		attribute.String("dart.corp_code", query.CorpCode),
	))
	defer span.End()

	params := url.Values{}
	if query.CorpCode != "" {
		params.Set("corp_code", query.CorpCode)
	}
	if query.BeginDate != "" {
		params.Set("bgn_de", query.BeginDate)
	}
	if query.EndDate != "" {
		params.Set("end_de", query.EndDate)
	}
	if query.Type != "" {
		params.Set("pblntf_ty", query.Type)
	}
	if query.PageNo > 0 {
		params.Set("page_no", strconv.Itoa(query.PageNo))
	}
	if query.PageCount > 0 {
		params.Set("page_count", strconv.Itoa(query.PageCount))
	}

	var resp disclosureListResponse
	if err := c.getJSON(ctx, op, "list.json", params, &resp); err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	page := resp.DisclosurePage
	if page.List == nil {
		page.List = []models.Disclosure{}
	}
	return &page, nil
}

// DownloadCorpCodes copies the corpCode.xml archive into w. OpenDART answers
// failures with a small XML status document instead of a zip.
func (c *dartClientImpl) DownloadCorpCodes(ctx context.Context, w io.Writer) (int64, error) {
	const op = "DartClient.DownloadCorpCodes"
	ctx, span := c.tracer.Start(ctx, "DownloadCorpCodes")
	defer span.End()

	resp, err := c.do(ctx, op, "corpCode.xml", url.Values{})
	if err != nil {
		recordSpanError(span, err)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := newError(KindUpstream, op, nil, "unexpected HTTP status %s", resp.Status)
		recordSpanError(span, err)
		return 0, err
	}

	br := bufio.NewReader(resp.Body)
	head, _ := br.Peek(4)
	if !bytes.HasPrefix(head, []byte("PK")) {
		var st dartStatus
		body, _ := io.ReadAll(io.LimitReader(br, maxDartResponseSize))
		if xmlErr := xml.Unmarshal(body, &st); xmlErr != nil || st.Status == "" {
			err := newError(KindUpstream, op, xmlErr, "corp code download is neither a zip archive nor a status document")
			recordSpanError(span, err)
			return 0, err
		}
		if st.Status != dartStatusOK {
			err := &Error{Kind: KindUpstream, Op: op, Err: &UpstreamStatusError{Status: st.Status, Message: st.Message}}
			recordSpanError(span, err)
			return 0, err
		}
		return 0, newError(KindUpstream, op, nil, "status %s without archive payload", st.Status)
	}

	n, err := io.Copy(w, br)
	if err != nil {
		err = newError(KindUpstream, op, err, "failed to read corp code archive")
		recordSpanError(span, err)
		return n, err
	}
	span.SetAttributes(attribute.Int64("dart.bytes", n))
	return n, nil
}

// getJSON performs a GET and decodes the body into out after checking the
// OpenDART status field.
func (c *dartClientImpl) getJSON(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	resp, err := c.do(ctx, op, endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDartResponseSize))
	if err != nil {
		return newError(KindUpstream, op, err, "failed to read response body")
	}

	var st dartStatus
	if err := json.Unmarshal(body, &st); err != nil {
		if resp.StatusCode != http.StatusOK {
			return newError(KindUpstream, op, nil, "unexpected HTTP status %s", resp.Status)
		}
		return newError(KindUpstream, op, err, "failed to decode response")
	}
	if st.Status != dartStatusOK {
		logger.FromContext(ctx).Warn("OpenDART returned an error status",
			"endpoint", endpoint, "status", st.Status, "message", st.Message)
		return &Error{Kind: KindUpstream, Op: op, Err: &UpstreamStatusError{Status: st.Status, Message: st.Message}}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newError(KindUpstream, op, err, "failed to decode response")
	}
	return nil
}

func (c *dartClientImpl) do(ctx context.Context, op, endpoint string, params url.Values) (*http.Response, error) {
	params.Set("crtfc_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, newError(KindInternal, op, err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json, application/xml, application/zip")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observability.ObserveUpstream("opendart", endpoint, start, err)
	if err != nil {
		// *url.Error embeds the request URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, newError(KindUpstream, op, err, "request to %s failed", endpoint)
	}
	logger.FromContext(ctx).Debug("OpenDART request completed",
		"endpoint", endpoint, "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
