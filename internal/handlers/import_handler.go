package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"masterdata-service/internal/models"
	"masterdata-service/internal/services"
)

// ImportHandler serves the bulk file import endpoints and their template
// downloads.
type ImportHandler struct {
	importer *services.Importer
	targets  map[string]services.BulkTarget
	log      *logrus.Logger
}

func NewImportHandler(importer *services.Importer, targets map[string]services.BulkTarget, log *logrus.Logger) *ImportHandler {
	return &ImportHandler{importer: importer, targets: targets, log: log}
}

// Bulk save endpoints. Each binds a multipart "file" upload (CSV or XLSX)
// to one import target.

func (h *ImportHandler) SaveBulkCountries(c *gin.Context) { h.run(c, "countries") }
func (h *ImportHandler) SaveBulkStates(c *gin.Context)    { h.run(c, "states") }
func (h *ImportHandler) SaveBulkBaseCur(c *gin.Context)   { h.run(c, "basecurrencies") }
func (h *ImportHandler) SaveBulkHSNCode(c *gin.Context)   { h.run(c, "hsncodes") }
func (h *ImportHandler) SaveBulkBusType(c *gin.Context)   { h.run(c, "businesstypes") }
func (h *ImportHandler) SaveBulkIndType(c *gin.Context)   { h.run(c, "industrytypes") }
func (h *ImportHandler) SaveBulkLang(c *gin.Context)      { h.run(c, "languages") }
func (h *ImportHandler) SaveBulkGSTTreat(c *gin.Context)  { h.run(c, "gsttreatments") }

// run executes one import. On success it reports the row count; a row
// failure comes back as 400 with the failing row pinned. In per-row mode
// the reported processed count covers rows persisted before the failure.
func (h *ImportHandler) run(c *gin.Context, name string) {
	target, ok := h.targets[name]
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown import target"})
		return
	}

	// The invoicing front end uploads under "csvFile"; "file" is accepted
	// for newer clients.
	fileHeader, err := c.FormFile("csvFile")
	if err != nil {
		fileHeader, err = c.FormFile("file")
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "csvFile is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open upload"})
		return
	}
	defer file.Close()

	var rows []map[string]string
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		rows, err = services.ParseCSV(file)
	case ".xlsx":
		rows, err = services.ParseXLSX(file)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unsupported file type, use .csv or .xlsx"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	userID, _ := strconv.ParseInt(c.PostForm("userid"), 10, 64)
	isWeb, _ := strconv.ParseBool(c.PostForm("isweb"))
	actor := services.Actor{UserID: userID, IsWeb: isWeb}

	result, err := h.importer.Run(c.Request.Context(), target.Spec, rows, actor)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		h.log.WithError(err).WithField("target", name).Error("Bulk import failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
		return
	}

	if result.Failed != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     result.Failed.Error(),
			"row":       result.Failed.Row,
			"processed": result.Processed,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("imported %d rows", result.Processed),
		"processed": result.Processed,
	})
}

// Template streams an empty import template for one target as CSV or XLSX
// via ?format=.
func (h *ImportHandler) Template(c *gin.Context) {
	target, ok := h.targets[c.Param("entity")]
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown import target"})
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "csv":
		data, err := services.CSVTemplate(target.Columns)
		if err != nil {
			h.log.WithError(err).Error("Failed to build CSV template")
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_template.csv", target.Name))
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := services.XLSXTemplate(target.Spec.Desc.Entity, target.Columns)
		if err != nil {
			h.log.WithError(err).Error("Failed to build XLSX template")
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_template.xlsx", target.Name))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unsupported format, use csv or xlsx"})
	}
}
