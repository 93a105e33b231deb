package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"brokerledger/internal/repository"
)

type OperationsHandler struct {
	Repo      repository.Repository
	AccountID string
	Loc       *time.Location
}

func (h *OperationsHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/operations", h.list)
}

// @Summary List raw ledger operations for a date range
// @Tags operations
// @Param start query string true "start date YYYY-MM-DD"
// @Param end query string true "end date YYYY-MM-DD"
// @Param kind query string false "comma-separated operation kinds"
// @Param limit query int false "page size, default 200"
// @Param offset query int false "page offset"
// @Success 200 {array} models.Operation
// @Router /api/v1/operations [get]
func (h *OperationsHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	from, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(c.Query("start")), h.Loc)
	if err != nil {
		Error(c, http.StatusBadRequest, fmt.Sprintf("invalid start date %q", c.Query("start")), nil)
		return
	}
	to, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(c.Query("end")), h.Loc)
	if err != nil {
		Error(c, http.StatusBadRequest, fmt.Sprintf("invalid end date %q", c.Query("end")), nil)
		return
	}

	params := repository.ListOperationsParams{
		AccountID: h.AccountID,
		From:      from,
		To:        to.AddDate(0, 0, 1),
		Limit:     200,
	}
	if raw := strings.TrimSpace(c.Query("kind")); raw != "" {
		params.Kinds = strings.Split(raw, ",")
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			params.Limit = n
		}
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			params.Offset = n
		}
	}

	items, err := h.Repo.ListOperations(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountOperations(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"total": total})
}
