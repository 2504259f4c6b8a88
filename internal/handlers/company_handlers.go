package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"masterdata-service/internal/middleware"
	"masterdata-service/internal/models"
	"masterdata-service/internal/repository"
	"masterdata-service/internal/services"
)

// CompanyHandler serves company profile and logo endpoints.
type CompanyHandler struct {
	svc *services.CompanyService
	log *logrus.Logger
}

func NewCompanyHandler(svc *services.CompanyService, log *logrus.Logger) *CompanyHandler {
	return &CompanyHandler{svc: svc, log: log}
}

// SaveCompany creates (compid 0) or updates a company profile.
func (h *CompanyHandler) SaveCompany(c *gin.Context) {
	var req models.SaveCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveCompany(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"compid": result.ID})
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	company, err := h.svc.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// SaveCompanyLogo accepts a multipart "logo" upload, stores it with a 90x90
// thumbnail, and returns the updated company.
func (h *CompanyHandler) SaveCompanyLogo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "logo file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open upload"})
		return
	}
	defer file.Close()

	userID, _ := strconv.ParseInt(c.PostForm("userid"), 10, 64)
	isWeb, _ := strconv.ParseBool(c.PostForm("isweb"))

	company, err := h.svc.SaveLogo(c.Request.Context(), id, file, fileHeader.Filename,
		services.Actor{UserID: userID, CompID: id, IsWeb: isWeb})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "record not found"})
	default:
		h.log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("Company request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}
