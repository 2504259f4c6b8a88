package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"masterdata-service/internal/audit"
	"masterdata-service/internal/clients"
	"masterdata-service/internal/models"
	"masterdata-service/internal/pictures"
	"masterdata-service/internal/repository"
)

// ErrOTPInvalid is returned when a code is wrong, expired, or already used.
var ErrOTPInvalid = errors.New("invalid or expired OTP")

// UserService manages user profiles, credential lookup, and OTP flows.
type UserService struct {
	users    repository.UserRepository
	audit    audit.Logger
	notifier clients.Notifier
	pictures *pictures.Store
	log      *logrus.Logger
	now      func() time.Time
}

func NewUserService(users repository.UserRepository, auditLog audit.Logger, notifier clients.Notifier, pics *pictures.Store, log *logrus.Logger) *UserService {
	return &UserService{
		users:    users,
		audit:    auditLog,
		notifier: notifier,
		pictures: pics,
		log:      log,
		now:      time.Now,
	}
}

// SaveUser creates or updates a member profile. Member rows are saved with
// usertype "U" and inherit company, location, and country from the company's
// admin row; saving against a company without an admin fails. Changing a
// verified email or phone clears that channel's verified flag so the new
// value must re-verify.
func (s *UserService) SaveUser(ctx context.Context, req models.SaveUserRequest) (UpsertResult, error) {
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Phone) == "" {
		return UpsertResult{}, fmt.Errorf("%w: user requires an email or phone", ErrValidation)
	}

	var admin *models.User
	if req.CompID != 0 {
		found, err := s.users.FindAdminByCompany(ctx, req.CompID)
		if err != nil {
			return UpsertResult{}, err
		}
		admin = found
	}

	if req.UserID == 0 {
		user := models.User{
			SalID:     req.SalID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			CompID:    req.CompID,
			RoleID:    req.RoleID,
			UserType:  "U",
			IsActive:  true,
		}
		inheritFromAdmin(&user, admin)
		if err := s.users.Create(ctx, &user); err != nil {
			return UpsertResult{}, err
		}
		s.audit.Record(ctx, user.UserID, req.CompID, req.IsWeb,
			audit.Activity("Created", "User", userDetail(req.Email, req.Phone)))
		return UpsertResult{ID: user.UserID, Created: true}, nil
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return UpsertResult{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(user.Email), strings.TrimSpace(req.Email)) {
		user.IsEmailVer = false
	}
	if strings.TrimSpace(user.Phone) != strings.TrimSpace(req.Phone) {
		user.IsPhoneVer = false
	}
	user.SalID = req.SalID
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.Phone = req.Phone
	user.CompID = req.CompID
	user.RoleID = req.RoleID
	if user.UserType != "A" {
		inheritFromAdmin(user, admin)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return UpsertResult{}, err
	}
	s.audit.Record(ctx, user.UserID, req.CompID, req.IsWeb,
		audit.Activity("Updated", "User", userDetail(req.Email, req.Phone)))
	return UpsertResult{ID: user.UserID}, nil
}

func inheritFromAdmin(user *models.User, admin *models.User) {
	if admin == nil {
		return
	}
	user.Company = admin.Company
	user.Location = admin.Location
	user.CountryID = admin.CountryID
}

// CheckCred resolves a user id from email or phone. A miss is not an error;
// it returns (0, false, nil) so the handler can signal "no such user". When
// a password is supplied a hash mismatch counts as a miss too, so callers
// cannot learn which part of the credential was wrong.
func (s *UserService) CheckCred(ctx context.Context, req models.CheckCredRequest) (int64, bool, error) {
	user, err := s.users.FindByCred(ctx, req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if req.Password != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return 0, false, nil
		}
	}
	return user.UserID, true, nil
}

// UpdatePassword hashes and stores a new password.
func (s *UserService) UpdatePassword(ctx context.Context, req models.UpdatePasswordRequest) error {
	if strings.TrimSpace(req.Password) == "" {
		return fmt.Errorf("%w: password must not be empty", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, req.UserID, string(hash)); err != nil {
		return err
	}
	s.audit.Record(ctx, req.UserID, 0, req.IsWeb,
		audit.Activity("Updated", "User Password", strconv.FormatInt(req.UserID, 10)))
	return nil
}

// SaveRole upserts a role by name.
func (s *UserService) SaveRole(ctx context.Context, req models.SaveUserRoleRequest) (*models.UserRole, error) {
	if strings.TrimSpace(req.RoleName) == "" {
		return nil, fmt.Errorf("%w: role name must not be empty", ErrValidation)
	}
	role := models.UserRole{RoleID: req.RoleID, RoleName: req.RoleName}
	if err := s.users.SaveRole(ctx, &role); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, req.UserID, 0, req.IsWeb,
		audit.Activity("Updated", "User Role", req.RoleName))
	return &role, nil
}

// GetHeader returns the condensed profile shown in the app header.
func (s *UserService) GetHeader(ctx context.Context, id int64) (*models.UserHeader, error) {
	return s.users.GetHeader(ctx, id)
}

// SavePicture stores the uploaded avatar plus thumbnail and swaps the user's
// picture paths, removing the previous files on success.
func (s *UserService) SavePicture(ctx context.Context, userID int64, file io.Reader, filename string, actor Actor) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	picPath, thumbPath, err := s.pictures.Save(file, filename)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdatePicture(ctx, userID, picPath, thumbPath); err != nil {
		s.pictures.Remove(picPath, thumbPath)
		return nil, err
	}
	s.pictures.Remove(user.PicPath, user.ThumbPath)

	user.PicPath = picPath
	user.ThumbPath = thumbPath
	s.audit.Record(ctx, actor.UserID, user.CompID, actor.IsWeb,
		audit.Activity("Updated", "User Picture", userDetail(user.Email, user.Phone)))
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, compID int64) ([]models.User, error) {
	return s.users.ListByCompany(ctx, compID)
}

func (s *UserService) ListRoles(ctx context.Context) ([]models.UserRole, error) {
	return s.users.ListRoles(ctx)
}

// SendOTP issues a fresh code on the channel and delivers it through the
// notification gateway. Re-requesting replaces any live code.
func (s *UserService) SendOTP(ctx context.Context, req models.SendOTPRequest) error {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}
	issuedAt := s.now()

	switch req.Channel {
	case ChannelEmail:
		if strings.TrimSpace(user.Email) == "" {
			return fmt.Errorf("%w: user has no email address", ErrValidation)
		}
		if err := s.notifier.SendEmailOTP(ctx, user.Email, code); err != nil {
			return err
		}
		user.EmailOTP = code
		user.EmailOTPAt = &issuedAt
	case ChannelPhone:
		if strings.TrimSpace(user.Phone) == "" {
			return fmt.Errorf("%w: user has no phone number", ErrValidation)
		}
		if err := s.notifier.SendSMSOTP(ctx, user.Phone, code); err != nil {
			return err
		}
		user.PhoneOTP = code
		user.PhoneOTPAt = &issuedAt
	default:
		return fmt.Errorf("%w: unknown channel %q", ErrValidation, req.Channel)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"user_id": user.UserID,
		"channel": req.Channel,
	}).Info("OTP issued")
	return nil
}

// VerifyOTP consumes a code. A code verifies at most once and only within
// its validity window; success flips the channel's verified flag and pins
// the verified value.
func (s *UserService) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) error {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	now := s.now()
	switch req.Channel {
	case ChannelEmail:
		if user.EmailOTP == "" || user.EmailOTP != req.OTP || OTPExpired(user.EmailOTPAt, now) {
			return ErrOTPInvalid
		}
		user.EmailOTP = ""
		user.EmailOTPAt = nil
		user.IsEmailVer = true
		user.VerEmail = user.Email
	case ChannelPhone:
		if user.PhoneOTP == "" || user.PhoneOTP != req.OTP || OTPExpired(user.PhoneOTPAt, now) {
			return ErrOTPInvalid
		}
		user.PhoneOTP = ""
		user.PhoneOTPAt = nil
		user.IsPhoneVer = true
		user.VerPhone = user.Phone
	default:
		return fmt.Errorf("%w: unknown channel %q", ErrValidation, req.Channel)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.audit.Record(ctx, user.UserID, user.CompID, false,
		audit.Activity("Verified", "User "+req.Channel, strconv.FormatInt(user.UserID, 10)))
	return nil
}

func userDetail(email, phone string) string {
	if strings.TrimSpace(email) != "" {
		return email
	}
	return phone
}
