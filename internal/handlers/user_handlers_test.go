package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"masterdata-service/internal/models"
	"masterdata-service/internal/repository"
	"masterdata-service/internal/services"
)

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByCred(ctx context.Context, email, phone string) (*models.User, error) {
	args := m.Called(ctx, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindAdminByCompany(ctx context.Context, compID int64) (*models.User, error) {
	args := m.Called(ctx, compID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListByCompany(ctx context.Context, compID int64) ([]models.User, error) {
	args := m.Called(ctx, compID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) ListRoles(ctx context.Context) ([]models.UserRole, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.UserRole), args.Error(1)
}

func (m *MockUserRepository) SaveRole(ctx context.Context, role *models.UserRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePicture(ctx context.Context, id int64, picPath, thumbPath string) error {
	args := m.Called(ctx, id, picPath, thumbPath)
	return args.Error(0)
}

func (m *MockUserRepository) GetHeader(ctx context.Context, id int64) (*models.UserHeader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserHeader), args.Error(1)
}

type stubNotifier struct{}

func (stubNotifier) SendEmailOTP(ctx context.Context, email, code string) error { return nil }
func (stubNotifier) SendSMSOTP(ctx context.Context, phone, code string) error   { return nil }

func newUserRouter(users *MockUserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	auditLog := new(MockAuditLogger)
	auditLog.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	svc := services.NewUserService(users, auditLog, stubNotifier{}, nil, log)
	handler := NewUserHandler(svc, log)

	router := gin.New()
	router.POST("/api/CheckCred", handler.CheckCred)
	router.POST("/api/VerifyOTP", handler.VerifyOTP)
	router.POST("/api/VerifyOTP/:otpType/:userid/:otp", handler.VerifyOTPPath)
	return router
}

func TestCheckCred_KnownCredentialReturns200(t *testing.T) {
	users := new(MockUserRepository)
	router := newUserRouter(users)

	users.On("FindByCred", mock.Anything, "a@b.com", "").
		Return(&models.User{UserID: 5}, nil)

	w := postJSON(router, "/api/CheckCred", models.CheckCredRequest{Email: "a@b.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]int64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body["userid"])
}

func TestCheckCred_UnknownCredentialReturns201WithZeroID(t *testing.T) {
	users := new(MockUserRepository)
	router := newUserRouter(users)

	users.On("FindByCred", mock.Anything, "x@y.com", "").
		Return(nil, repository.ErrNotFound)

	w := postJSON(router, "/api/CheckCred", models.CheckCredRequest{Email: "x@y.com"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]int64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body["userid"])
}

func TestVerifyOTP_BadCodeReturns400(t *testing.T) {
	users := new(MockUserRepository)
	router := newUserRouter(users)

	issued := time.Now()
	users.On("GetByID", mock.Anything, int64(9)).
		Return(&models.User{UserID: 9, EmailOTP: "123456", EmailOTPAt: &issued}, nil)

	w := postJSON(router, "/api/VerifyOTP", models.VerifyOTPRequest{
		UserID: 9, Channel: services.ChannelEmail, OTP: "999999",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyOTPPath_LegacyChannelNames(t *testing.T) {
	for _, otpType := range []string{"mob", "mobile"} {
		t.Run(otpType, func(t *testing.T) {
			users := new(MockUserRepository)
			router := newUserRouter(users)

			issued := time.Now()
			users.On("GetByID", mock.Anything, int64(9)).
				Return(&models.User{UserID: 9, Phone: "9999", PhoneOTP: "123456", PhoneOTPAt: &issued}, nil)
			users.On("Update", mock.Anything, mock.Anything).Return(nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/VerifyOTP/"+otpType+"/9/123456", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestVerifyOTP_GoodCodeReturns200(t *testing.T) {
	users := new(MockUserRepository)
	router := newUserRouter(users)

	issued := time.Now()
	users.On("GetByID", mock.Anything, int64(9)).
		Return(&models.User{UserID: 9, Email: "a@b.com", EmailOTP: "123456", EmailOTPAt: &issued}, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	w := postJSON(router, "/api/VerifyOTP", models.VerifyOTPRequest{
		UserID: 9, Channel: services.ChannelEmail, OTP: "123456",
	})

	assert.Equal(t, http.StatusOK, w.Code)
}
