package models

import "time"

// Company holds the invoicing entity's master profile. Address and tax fields
// mirror the columns the front end posts as a flat JSON object.
type Company struct {
	CompID       int64     `json:"compid" gorm:"column:compid;primaryKey;autoIncrement"`
	CompName     string    `json:"compname" gorm:"column:compname;size:250;not null"`
	Address1     string    `json:"address1" gorm:"column:address1;size:250"`
	Address2     string    `json:"address2" gorm:"column:address2;size:250"`
	City         string    `json:"city" gorm:"column:city;size:100"`
	StateID      int64     `json:"stateid" gorm:"column:stateid"`
	CountryID    int64     `json:"countryid" gorm:"column:countryid"`
	Pincode      string    `json:"pincode" gorm:"column:pincode;size:10"`
	GSTNo        string    `json:"gstno" gorm:"column:gstno;size:15"`
	PanNo        string    `json:"panno" gorm:"column:panno;size:10"`
	Phone        string    `json:"phone" gorm:"column:phone;size:15"`
	Email        string    `json:"email" gorm:"column:email;size:250"`
	Website      string    `json:"website" gorm:"column:website;size:250"`
	CurrencyID   int64     `json:"currencyid" gorm:"column:currencyid"`
	DateFormatID int64     `json:"dateformatid" gorm:"column:dateformatid"`
	FiscalID     int64     `json:"fiscalid" gorm:"column:fiscalid"`
	GSTTreatID   int64     `json:"gsttreatid" gorm:"column:gsttreatid"`
	BusTypeID    int64     `json:"bustypeid" gorm:"column:bustypeid"`
	IndTypeID    int64     `json:"indtypeid" gorm:"column:indtypeid"`
	LogoPath     string    `json:"logopath" gorm:"column:logopath;size:500"`
	ThumbPath    string    `json:"thumbpath" gorm:"column:thumbpath;size:500"`
	CreatedAt    time.Time `json:"createdat" gorm:"column:createdat"`
	UpdatedAt    time.Time `json:"updatedat" gorm:"column:updatedat"`
}

func (Company) TableName() string { return "companies" }

// SaveCompanyRequest uses compid=0 for create.
type SaveCompanyRequest struct {
	CompID       int64  `json:"compid"`
	CompName     string `json:"compname" binding:"required"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	StateID      int64  `json:"stateid"`
	CountryID    int64  `json:"countryid"`
	Pincode      string `json:"pincode"`
	GSTNo        string `json:"gstno"`
	PanNo        string `json:"panno"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
	CurrencyID   int64  `json:"currencyid"`
	DateFormatID int64  `json:"dateformatid"`
	FiscalID     int64  `json:"fiscalid"`
	GSTTreatID   int64  `json:"gsttreatid"`
	BusTypeID    int64  `json:"bustypeid"`
	IndTypeID    int64  `json:"indtypeid"`
	UserID       int64  `json:"userid"`
	IsWeb        bool   `json:"isweb"`
}
