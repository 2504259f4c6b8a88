package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"masterdata-service/internal/middleware"
	"masterdata-service/internal/models"
	"masterdata-service/internal/repository"
	"masterdata-service/internal/services"
)

// UserHandler serves user profile, credential lookup, and OTP endpoints.
type UserHandler struct {
	svc *services.UserService
	log *logrus.Logger
}

func NewUserHandler(svc *services.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

func (h *UserHandler) SaveUser(c *gin.Context) {
	var req models.SaveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveUser(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"userid": result.ID})
}

// CheckCred resolves a user id from email or phone. A known credential
// returns 200 with the id; an unknown one returns 201 with a zero id, a
// convention the signup flow depends on.
func (h *UserHandler) CheckCred(c *gin.Context) {
	var req models.CheckCredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	userID, found, err := h.svc.CheckCred(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusCreated, gin.H{"userid": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userid": userID})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserList is the legacy path form of the company user listing.
func (h *UserHandler) GetUserList(c *gin.Context) {
	compID, err := strconv.ParseInt(c.Param("compid"), 10, 64)
	if err != nil || compID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid compid"})
		return
	}
	users, err := h.svc.ListUsers(c.Request.Context(), compID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUsers lists one company's users via ?compid=.
func (h *UserHandler) GetUsers(c *gin.Context) {
	compID, err := strconv.ParseInt(c.Query("compid"), 10, 64)
	if err != nil || compID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid compid"})
		return
	}
	users, err := h.svc.ListUsers(c.Request.Context(), compID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetRoles(c *gin.Context) {
	roles, err := h.svc.ListRoles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// CheckCredPath is the legacy GET form of CheckCred with the credential and
// password in the path.
func (h *UserHandler) CheckCredPath(c *gin.Context) {
	cred := c.Param("userind")
	req := models.CheckCredRequest{Password: c.Param("password")}
	if strings.Contains(cred, "@") {
		req.Email = cred
	} else {
		req.Phone = cred
	}
	userID, found, err := h.svc.CheckCred(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusCreated, gin.H{"userid": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userid": userID})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.UpdatePassword(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "password updated"})
}

func (h *UserHandler) SaveUserRole(c *gin.Context) {
	var req models.SaveUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	role, err := h.svc.SaveRole(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// SaveUserPicture accepts a multipart "picture" upload, stores it with a
// 90x90 thumbnail, and returns the updated user.
func (h *UserHandler) SaveUserPicture(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "picture file is required"})
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

	user, err := h.svc.SavePicture(c.Request.Context(), id, file, fileHeader.Filename,
		services.Actor{UserID: userID, IsWeb: isWeb})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserHeader returns the condensed profile for the app header bar.
func (h *UserHandler) GetUserHeader(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	header, err := h.svc.GetHeader(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, header)
}

func (h *UserHandler) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.SendOTP(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "OTP sent"})
}

// SendEmailOTP and SendMobileOTP are the channel-fixed legacy forms.
func (h *UserHandler) SendEmailOTP(c *gin.Context) { h.sendFixedChannel(c, services.ChannelEmail) }
func (h *UserHandler) SendMobileOTP(c *gin.Context) { h.sendFixedChannel(c, services.ChannelPhone) }

func (h *UserHandler) sendFixedChannel(c *gin.Context, channel string) {
	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	req.Channel = channel
	if err := h.svc.SendOTP(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "OTP sent"})
}

func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.VerifyOTP(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "verified"})
}

// VerifyOTPPath is the legacy path form: /VerifyOTP/:otpType/:userid/:otp.
func (h *UserHandler) VerifyOTPPath(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userid"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid userid"})
		return
	}
	channel := c.Param("otpType")
	// Older clients send "mob" or "mobile" for the phone channel.
	if channel == "mob" || channel == "mobile" {
		channel = services.ChannelPhone
	}
	req := models.VerifyOTPRequest{UserID: userID, Channel: channel, OTP: c.Param("otp")}
	if err := h.svc.VerifyOTP(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "verified"})
}

func (h *UserHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "record not found"})
	default:
		h.log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("User request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}
