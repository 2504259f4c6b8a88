package models

// Reference (lookup) tables share one shape: an auto-assigned surrogate id, a
// natural-key column that is unique under trimmed case-insensitive comparison,
// and a handful of attribute columns. Column names follow the wire format the
// invoicing clients already speak.

// Country is a reference record keyed by country name.
type Country struct {
	CountryID   int64  `json:"countryid" gorm:"column:countryid;primaryKey;autoIncrement"`
	CountryName string `json:"countryname" gorm:"column:countryname;size:250;not null"`
	DefCurCode  string `json:"defcurcode" gorm:"column:defcurcode;size:3"`
	ISDCode     int    `json:"isdcode" gorm:"column:isdcode"`
}

func (Country) TableName() string { return "countries" }

// State references its country by surrogate id.
type State struct {
	StateID   int64  `json:"stateid" gorm:"column:stateid;primaryKey;autoIncrement"`
	StateName string `json:"statename" gorm:"column:statename;size:200;not null"`
	CountryID int64  `json:"countryid" gorm:"column:countryid;index"`
}

func (State) TableName() string { return "states" }

// StateWithCountry is the list row for GetAllStates (left join on countries).
type StateWithCountry struct {
	StateID     int64  `json:"stateid"`
	StateName   string `json:"statename"`
	CountryID   int64  `json:"countryid"`
	CountryName string `json:"countryname"`
}

// BaseCurrency is the system-wide currency catalogue.
type BaseCurrency struct {
	CurrencyID   int64  `json:"currencyid" gorm:"column:currencyid;primaryKey;autoIncrement"`
	CurrencyCode string `json:"currencycode" gorm:"column:currencycode;size:3;not null"`
	Symbol       string `json:"symbol" gorm:"column:symbol;size:10"`
	CurrencyName string `json:"currencyname" gorm:"column:currencyname;size:100"`
	Decimals     int    `json:"dec" gorm:"column:dec"`
	Format       string `json:"format" gorm:"column:format;size:20"`
}

func (BaseCurrency) TableName() string { return "base_currencies" }

// Currency is a company-scoped currency derived from the base catalogue.
type Currency struct {
	CurrencyID   int64  `json:"currencyid" gorm:"column:currencyid;primaryKey;autoIncrement"`
	CurrencyCode string `json:"currencycode" gorm:"column:currencycode;size:3;not null"`
	Symbol       string `json:"symbol" gorm:"column:symbol;size:10"`
	CurrencyName string `json:"currencyname" gorm:"column:currencyname;size:100"`
	Decimals     int    `json:"dec" gorm:"column:dec"`
	Format       string `json:"format" gorm:"column:format;size:20"`
	CompID       int64  `json:"compid" gorm:"column:compid;index"`
	UserID       int64  `json:"userid" gorm:"column:userid"`
}

func (Currency) TableName() string { return "currencies" }

// HSNCode is an HSN/SAC tax classification code.
type HSNCode struct {
	HSNID        int64  `json:"hsnid" gorm:"column:hsnid;primaryKey;autoIncrement"`
	HSNCode      string `json:"hsncode" gorm:"column:hsncode;size:10;not null"`
	CodeDesc     string `json:"codedesc" gorm:"column:codedesc;size:500"`
	IsSelectable bool   `json:"isselectable" gorm:"column:isselectable"`
	IsService    bool   `json:"isservice" gorm:"column:isservice"`
}

func (HSNCode) TableName() string { return "hsn_codes" }

type BusinessType struct {
	BusTypeID int64  `json:"bustypeid" gorm:"column:bustypeid;primaryKey;autoIncrement"`
	BusType   string `json:"bustype" gorm:"column:bustype;size:100;not null"`
}

func (BusinessType) TableName() string { return "business_types" }

type IndustryType struct {
	IndTypeID int64  `json:"indtypeid" gorm:"column:indtypeid;primaryKey;autoIncrement"`
	IndType   string `json:"indtype" gorm:"column:indtype;size:100;not null"`
}

func (IndustryType) TableName() string { return "industry_types" }

type Language struct {
	LangID   int64  `json:"langid" gorm:"column:langid;primaryKey;autoIncrement"`
	LangCode string `json:"langcode" gorm:"column:langcode;size:2;not null"`
	Language string `json:"language" gorm:"column:language;size:100"`
}

func (Language) TableName() string { return "languages" }

type DateFormat struct {
	DateFormatID int64  `json:"dateformatid" gorm:"column:dateformatid;primaryKey;autoIncrement"`
	DateFormat   string `json:"dateformat" gorm:"column:dateformat;size:20;not null"`
	MonFmt       string `json:"monfmt" gorm:"column:monfmt;size:10"`
	DayPos       int    `json:"daypos" gorm:"column:daypos"`
	MonPos       int    `json:"monpos" gorm:"column:monpos"`
	YearPos      int    `json:"yearpos" gorm:"column:yearpos"`
	YearFmt      string `json:"yearfmt" gorm:"column:yearfmt;size:10"`
}

func (DateFormat) TableName() string { return "date_formats" }

type Salutation struct {
	SalID      int64  `json:"salid" gorm:"column:salid;primaryKey;autoIncrement"`
	Salutation string `json:"salutation" gorm:"column:salutation;size:20;not null"`
	Gender     string `json:"gender" gorm:"column:gender;size:1"`
}

func (Salutation) TableName() string { return "salutations" }

type GSTTreatment struct {
	GSTTreatID   int64  `json:"gsttreatid" gorm:"column:gsttreatid;primaryKey;autoIncrement"`
	GSTTreatment string `json:"gsttreatment" gorm:"column:gsttreatment;size:100;not null"`
	ReqGSTNo     bool   `json:"reqgstno" gorm:"column:reqgstno"`
	ReqSupPlace  bool   `json:"reqsupplace" gorm:"column:reqsupplace"`
}

func (GSTTreatment) TableName() string { return "gst_treatments" }

type FiscalYear struct {
	FiscalID   int64  `json:"fiscalid" gorm:"column:fiscalid;primaryKey;autoIncrement"`
	FiscalYear string `json:"fiscalyear" gorm:"column:fiscalyear;size:20;not null"`
	StartMonth int    `json:"startmonth" gorm:"column:startmonth"`
}

func (FiscalYear) TableName() string { return "fiscal_years" }

// --- Save requests ---
// Every Save endpoint carries the optional surrogate id, the natural key, the
// attribute columns, and the audit pair (userid, isweb).

type SaveCountryRequest struct {
	CountryID   int64  `json:"countryid"`
	CountryName string `json:"countryname" binding:"required"`
	DefCurCode  string `json:"defcurcode"`
	ISDCode     int    `json:"isdcode"`
	UserID      int64  `json:"userid"`
	IsWeb       bool   `json:"isweb"`
}

type SaveStateRequest struct {
	StateID   int64  `json:"stateid"`
	StateName string `json:"statename" binding:"required"`
	CountryID int64  `json:"countryid"`
	UserID    int64  `json:"userid"`
	IsWeb     bool   `json:"isweb"`
}

type SaveBaseCurrencyRequest struct {
	CurrencyID   int64  `json:"currencyid"`
	CurrencyCode string `json:"currencycode" binding:"required"`
	Symbol       string `json:"symbol"`
	CurrencyName string `json:"currencyname"`
	Decimals     int    `json:"dec"`
	Format       string `json:"format"`
	UserID       int64  `json:"userid"`
	IsWeb        bool   `json:"isweb"`
}

type SaveCurrencyRequest struct {
	CurrencyID   int64  `json:"currencyid"`
	CurrencyCode string `json:"currencycode" binding:"required"`
	Symbol       string `json:"symbol"`
	CurrencyName string `json:"currencyname"`
	Decimals     int    `json:"dec"`
	Format       string `json:"format"`
	CompID       int64  `json:"compid"`
	UserID       int64  `json:"userid"`
	IsWeb        bool   `json:"isweb"`
}

type SaveHSNCodeRequest struct {
	HSNID        int64  `json:"hsnid"`
	HSNCode      string `json:"hsncode" binding:"required"`
	CodeDesc     string `json:"codedesc"`
	IsSelectable bool   `json:"isselectable"`
	IsService    bool   `json:"isservice"`
	UserID       int64  `json:"userid"`
	IsWeb        bool   `json:"isweb"`
}

type SaveBusinessTypeRequest struct {
	BusTypeID int64  `json:"bustypeid"`
	BusType   string `json:"bustype" binding:"required"`
	UserID    int64  `json:"userid"`
	IsWeb     bool   `json:"isweb"`
}

type SaveIndustryTypeRequest struct {
	IndTypeID int64  `json:"indtypeid"`
	IndType   string `json:"indtype" binding:"required"`
	UserID    int64  `json:"userid"`
	IsWeb     bool   `json:"isweb"`
}

type SaveLanguageRequest struct {
	LangID   int64  `json:"langid"`
	LangCode string `json:"langcode" binding:"required"`
	Language string `json:"language"`
	UserID   int64  `json:"userid"`
	IsWeb    bool   `json:"isweb"`
}

type SaveDateFormatRequest struct {
	DateFormatID int64  `json:"dateformatid"`
	DateFormat   string `json:"dateformat" binding:"required"`
	MonFmt       string `json:"monfmt"`
	DayPos       int    `json:"daypos"`
	MonPos       int    `json:"monpos"`
	YearPos      int    `json:"yearpos"`
	YearFmt      string `json:"yearfmt"`
	UserID       int64  `json:"userid"`
	IsWeb        bool   `json:"isweb"`
}

type SaveSalutationRequest struct {
	SalID      int64  `json:"salid"`
	Salutation string `json:"salutation" binding:"required"`
	Gender     string `json:"gender"`
	UserID     int64  `json:"userid"`
	IsWeb      bool   `json:"isweb"`
}

type SaveGSTTreatmentRequest struct {
	GSTTreatID   int64  `json:"gsttreatid"`
	GSTTreatment string `json:"gsttreatment" binding:"required"`
	ReqGSTNo     bool   `json:"reqgstno"`
	ReqSupPlace  bool   `json:"reqsupplace"`
	UserID       int64  `json:"userid"`
	IsWeb        bool   `json:"isweb"`
}

type SaveFiscalYearRequest struct {
	FiscalID   int64  `json:"fiscalid"`
	FiscalYear string `json:"fiscalyear" binding:"required"`
	StartMonth int    `json:"startmonth"`
	UserID     int64  `json:"userid"`
	IsWeb      bool   `json:"isweb"`
}

// ErrorResponse is the uniform non-2xx body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the plain success body used by bulk and profile endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
