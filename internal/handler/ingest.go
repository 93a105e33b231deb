package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brokerledger/internal/service"
)

type IngestHandler struct {
	Ingest *service.LedgerIngestService
}

func (h *IngestHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/ingest/run", h.run)
}

// @Summary Trigger one ledger ingest pass
// @Tags ingest
// @Success 200 {object} service.IngestResult
// @Router /api/v1/ingest/run [post]
func (h *IngestHandler) run(c *gin.Context) {
	if h.Ingest == nil {
		Error(c, http.StatusInternalServerError, "ingest unavailable", nil)
		return
	}
	result, err := h.Ingest.RunOnce(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}
