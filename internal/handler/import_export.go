package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/importer"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ImportExportHandler struct {
	Importer *importer.Service
}

func NewImportExportHandler(db *gorm.DB) *ImportExportHandler {
	return &ImportExportHandler{Importer: importer.NewService(db)}
}

// ImportCSV ingests a transactions CSV uploaded as the "file" form
// field. Bad rows are reported, not fatal.
func (h *ImportExportHandler) ImportCSV(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing file upload")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read upload")
		return
	}
	defer f.Close()

	res, err := h.Importer.ImportCSV(user.ID, f)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	util.Success(c, util.Response{
		"imported": res.Imported,
		"skipped":  res.Skipped,
		"errors":   res.Errors,
	})
}

// ImportJSON restores a full-data snapshot.
func (h *ImportExportHandler) ImportJSON(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing file upload")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read upload")
		return
	}
	defer f.Close()

	res, err := h.Importer.ImportJSON(user.ID, f)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	util.Success(c, util.Response{"imported": res})
}

// ExportCSV streams the user's transactions as a CSV download.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	if err := h.Importer.ExportCSV(user.ID, c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}

// ExportJSON streams the user's full data set as a JSON download.
func (h *ImportExportHandler) ExportJSON(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"export_%s.json\"",
		time.Now().Format("20060102")))

	if err := h.Importer.ExportJSON(user.ID, c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}

// ExportXLSX streams the user's transactions as a spreadsheet.
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := h.Importer.ExportXLSX(user.ID, c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
