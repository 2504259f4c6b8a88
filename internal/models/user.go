package models

import "time"

// User carries the OTP and verification state for both channels. The OTP
// columns hold the most recently issued code; VerEmail/VerPhone record the
// last value that passed verification so a later edit re-triggers the flow.
// UserType is "A" for the company admin created at signup and "U" for the
// members the admin adds; Company/Location/CountryID on member rows are
// copied from the admin row.
type User struct {
	UserID       int64      `json:"userid" gorm:"column:userid;primaryKey;autoIncrement"`
	SalID        int64      `json:"salid" gorm:"column:salid"`
	FirstName    string     `json:"firstname" gorm:"column:firstname;size:100"`
	LastName     string     `json:"lastname" gorm:"column:lastname;size:100"`
	Email        string     `json:"email" gorm:"column:email;size:250;index"`
	Phone        string     `json:"phone" gorm:"column:phone;size:15;index"`
	CompID       int64      `json:"compid" gorm:"column:compid;index"`
	RoleID       int64      `json:"roleid" gorm:"column:roleid"`
	UserType     string     `json:"usertype" gorm:"column:usertype;size:1;default:'U'"`
	Company      string     `json:"company" gorm:"column:company;size:250"`
	Location     string     `json:"location" gorm:"column:location;size:250"`
	CountryID    int64      `json:"countryid" gorm:"column:countryid"`
	PicPath      string     `json:"picpath" gorm:"column:picpath;size:500"`
	ThumbPath    string     `json:"thumbpath" gorm:"column:thumbpath;size:500"`
	PasswordHash string     `json:"-" gorm:"column:passwordhash;size:100"`
	EmailOTP     string     `json:"-" gorm:"column:emailotp;size:6"`
	PhoneOTP     string     `json:"-" gorm:"column:phoneotp;size:6"`
	EmailOTPAt   *time.Time `json:"-" gorm:"column:emailotpat"`
	PhoneOTPAt   *time.Time `json:"-" gorm:"column:phoneotpat"`
	VerEmail     string     `json:"-" gorm:"column:veremail;size:250"`
	VerPhone     string     `json:"-" gorm:"column:verphone;size:15"`
	IsEmailVer   bool       `json:"isemailver" gorm:"column:isemailver"`
	IsPhoneVer   bool       `json:"isphonever" gorm:"column:isphonever"`
	IsActive     bool       `json:"isactive" gorm:"column:isactive;default:true"`
	CreatedAt    time.Time  `json:"createdat" gorm:"column:createdat"`
	UpdatedAt    time.Time  `json:"updatedat" gorm:"column:updatedat"`
}

func (User) TableName() string { return "users" }

type UserRole struct {
	RoleID   int64  `json:"roleid" gorm:"column:roleid;primaryKey;autoIncrement"`
	RoleName string `json:"rolename" gorm:"column:rolename;size:100;not null"`
}

func (UserRole) TableName() string { return "user_roles" }

// SaveUserRequest creates or updates a user profile.
type SaveUserRequest struct {
	UserID    int64  `json:"userid"`
	SalID     int64  `json:"salid"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CompID    int64  `json:"compid"`
	RoleID    int64  `json:"roleid"`
	IsWeb     bool   `json:"isweb"`
}

// CheckCredRequest looks a user up by email or phone. When a password is
// supplied it must also match the stored hash.
type CheckCredRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	IsWeb    bool   `json:"isweb"`
}

// UpdatePasswordRequest replaces a user's password.
type UpdatePasswordRequest struct {
	UserID   int64  `json:"userid" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsWeb    bool   `json:"isweb"`
}

// SaveUserRoleRequest upserts a role by name.
type SaveUserRoleRequest struct {
	RoleID   int64  `json:"roleid"`
	RoleName string `json:"rolename" binding:"required"`
	UserID   int64  `json:"userid"`
	IsWeb    bool   `json:"isweb"`
}

// UserHeader is the condensed profile the front end shows in its header bar.
type UserHeader struct {
	UserID    int64  `json:"userid"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	UserType  string `json:"usertype"`
	CompID    int64  `json:"compid"`
	CompName  string `json:"compname"`
	ThumbPath string `json:"thumbpath"`
}

// SendOTPRequest issues a fresh code on one channel.
type SendOTPRequest struct {
	UserID  int64  `json:"userid" binding:"required"`
	Channel string `json:"channel" binding:"required"`
}

// VerifyOTPRequest checks a code against the stored one.
type VerifyOTPRequest struct {
	UserID  int64  `json:"userid" binding:"required"`
	Channel string `json:"channel" binding:"required"`
	OTP     string `json:"otp" binding:"required"`
}
