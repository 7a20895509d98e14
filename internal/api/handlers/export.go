package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/utils"
)

type ExportHandler struct {
	matches *services.MatchService
	export  *services.ExportService
}

func NewExportHandler(matches *services.MatchService, export *services.ExportService) *ExportHandler {
	return &ExportHandler{
		matches: matches,
		export:  export,
	}
}

// ExportMatch downloads a session in the requested format:
// json (full session payload), csv (event log) or stats-csv
// (side-by-side comparison table).
func (h *ExportHandler) ExportMatch(c *gin.Context) {
	state, err := h.matches.GetMatch(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	format := c.DefaultQuery("format", "json")

	var (
		body        []byte
		contentType string
		filename    string
	)
	switch format {
	case "json":
		body, err = h.export.SessionJSON(*state)
		contentType = "application/json"
		filename = h.export.Filename(*state, "json")
	case "csv":
		body, err = h.export.EventLogCSV(*state)
		contentType = "text/csv"
		filename = h.export.Filename(*state, "csv")
	case "stats-csv":
		body, err = h.export.ComparisonCSV(*state)
		contentType = "text/csv"
		filename = h.export.Filename(*state, "csv")
	default:
		utils.SendValidationError(c, "Unknown export format", format)
		return
	}
	if err != nil {
		utils.SendInternalError(c, "Failed to render export")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}
