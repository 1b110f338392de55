package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"pushup-tracker/internal/model"
	"pushup-tracker/internal/repository"
)

// ExportHandler serves a user's entry log as a downloadable file.
type ExportHandler struct {
	entries *repository.EntryRepository
}

func NewExportHandler(entries *repository.EntryRepository) *ExportHandler {
	return &ExportHandler{entries: entries}
}

// ExportCSV handles GET /api/export/csv?username=
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	username := model.NormalizeUsername(c.Query("username"))
	if username == "" {
		fail(c, http.StatusBadRequest, "username required")
		return
	}
	entries, err := h.entries.ListForUser(c.Request.Context(), username)
	if err != nil {
		failFromErr(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=pushups-%s.csv", username))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"logged_at", "count"})
	for _, entry := range entries {
		_ = w.Write([]string{
			time.UnixMilli(entry.Timestamp).Format("2006-01-02 15:04:05"),
			strconv.Itoa(entry.Count),
		})
	}
	w.Flush()
}

// ExportXLSX handles GET /api/export/xlsx?username=
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	username := model.NormalizeUsername(c.Query("username"))
	if username == "" {
		fail(c, http.StatusBadRequest, "username required")
		return
	}
	entries, err := h.entries.ListForUser(c.Request.Context(), username)
	if err != nil {
		failFromErr(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "logged_at")
	_ = f.SetCellValue(sheet, "B1", "count")
	for i, entry := range entries {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row),
			time.UnixMilli(entry.Timestamp).Format("2006-01-02 15:04:05"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.Count)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=pushups-%s.xlsx", username))
	if err := f.Write(c.Writer); err != nil {
		failFromErr(c, err)
	}
}
