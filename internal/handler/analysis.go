package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"brokerledger/internal/service"
)

// Reconciler is the slice of the reconcile service the HTTP layer needs.
type Reconciler interface {
	Analyze(ctx context.Context, from, to time.Time, startingBalance decimal.Decimal) (*service.Report, error)
	AnalyzeWeekly(ctx context.Context, from, to time.Time, startingBalance decimal.Decimal) (*service.PeriodReport, error)
	AnalyzeMonthly(ctx context.Context, from, to time.Time, startingBalance decimal.Decimal) (*service.PeriodReport, error)
}

type AnalysisHandler struct {
	Service Reconciler
	// Loc is the exchange trading timezone; date params and relative
	// windows are interpreted in it.
	Loc *time.Location
}

func (h *AnalysisHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/analysis")
	group.GET("", h.analyze)
	group.GET("/weekly", h.weekly)
	group.GET("/monthly", h.monthly)
}

// @Summary Reconcile a date range into daily summaries, totals, and balances
// @Tags analysis
// @Param start query string false "start date YYYY-MM-DD"
// @Param end query string false "end date YYYY-MM-DD"
// @Param period query string false "relative window unit: week or month"
// @Param count query int false "relative window length, default 1"
// @Param starting_balance query string false "decimal starting balance"
// @Success 200 {object} service.Report
// @Router /api/v1/analysis [get]
func (h *AnalysisHandler) analyze(c *gin.Context) {
	from, to, balance, ok := h.parseQuery(c)
	if !ok {
		return
	}
	report, err := h.Service.Analyze(c.Request.Context(), from, to, balance)
	if err != nil {
		analysisError(c, err)
		return
	}
	Ok(c, report, nil)
}

// @Summary Week-bucketed reconciliation over the same daily summaries
// @Tags analysis
// @Success 200 {object} service.PeriodReport
// @Router /api/v1/analysis/weekly [get]
func (h *AnalysisHandler) weekly(c *gin.Context) {
	from, to, balance, ok := h.parseQuery(c)
	if !ok {
		return
	}
	report, err := h.Service.AnalyzeWeekly(c.Request.Context(), from, to, balance)
	if err != nil {
		analysisError(c, err)
		return
	}
	Ok(c, report, nil)
}

// @Summary Month-bucketed reconciliation over the same daily summaries
// @Tags analysis
// @Success 200 {object} service.PeriodReport
// @Router /api/v1/analysis/monthly [get]
func (h *AnalysisHandler) monthly(c *gin.Context) {
	from, to, balance, ok := h.parseQuery(c)
	if !ok {
		return
	}
	report, err := h.Service.AnalyzeMonthly(c.Request.Context(), from, to, balance)
	if err != nil {
		analysisError(c, err)
		return
	}
	Ok(c, report, nil)
}

// parseQuery resolves either an explicit start/end pair or a relative
// period+count window ending today, plus the starting balance. On a bad
// request it writes the error response itself and returns ok=false.
func (h *AnalysisHandler) parseQuery(c *gin.Context) (from, to time.Time, balance decimal.Decimal, ok bool) {
	balance = decimal.Zero
	if raw := strings.TrimSpace(c.Query("starting_balance")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			Error(c, http.StatusBadRequest, fmt.Sprintf("invalid starting_balance %q", raw), nil)
			return
		}
		balance = parsed
	}

	startRaw := strings.TrimSpace(c.Query("start"))
	endRaw := strings.TrimSpace(c.Query("end"))
	periodRaw := strings.TrimSpace(c.Query("period"))

	switch {
	case startRaw != "" || endRaw != "":
		if startRaw == "" || endRaw == "" {
			Error(c, http.StatusBadRequest, "start and end must be provided together", nil)
			return
		}
		var err error
		from, err = time.ParseInLocation("2006-01-02", startRaw, h.Loc)
		if err != nil {
			Error(c, http.StatusBadRequest, fmt.Sprintf("invalid start date %q", startRaw), nil)
			return
		}
		to, err = time.ParseInLocation("2006-01-02", endRaw, h.Loc)
		if err != nil {
			Error(c, http.StatusBadRequest, fmt.Sprintf("invalid end date %q", endRaw), nil)
			return
		}
	case periodRaw != "":
		count := 1
		if rawCount := strings.TrimSpace(c.Query("count")); rawCount != "" {
			parsed, err := strconv.Atoi(rawCount)
			if err != nil || parsed < 1 {
				Error(c, http.StatusBadRequest, fmt.Sprintf("invalid count %q", rawCount), nil)
				return
			}
			count = parsed
		}
		now := time.Now().In(h.Loc)
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.Loc)
		switch periodRaw {
		case "week":
			from = to.AddDate(0, 0, -7*count+1)
		case "month":
			from = to.AddDate(0, -count, 0).AddDate(0, 0, 1)
		default:
			Error(c, http.StatusBadRequest, fmt.Sprintf("invalid period %q, want week or month", periodRaw), nil)
			return
		}
	default:
		Error(c, http.StatusBadRequest, "either start/end or period must be provided", nil)
		return
	}

	return from, to, balance, true
}

func analysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRange):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrLedgerUnavailable):
		Error(c, http.StatusBadGateway, err.Error(), nil)
	default:
		Error(c, http.StatusInternalServerError, err.Error(), nil)
	}
}
