package services

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"masterdata-service/internal/audit"
	"masterdata-service/internal/models"
	"masterdata-service/internal/repository"
)

// Descriptors for every lookup table. Country is the only entity whose
// stored key is rewritten to the trimmed value on a key-match update; all
// others keep the caller's raw value, matching long-standing client
// expectations around padded state names.
var (
	Countries = repository.Descriptor{
		Entity: "Country", Table: "countries",
		IDColumn: "countryid", KeyColumn: "countryname",
		TrimKeyOnMatch: true,
	}
	States = repository.Descriptor{
		Entity: "State", Table: "states",
		IDColumn: "stateid", KeyColumn: "statename",
	}
	BaseCurrencies = repository.Descriptor{
		Entity: "Base Currency", Table: "base_currencies",
		IDColumn: "currencyid", KeyColumn: "currencycode",
		TrimKeyOnMatch: true,
	}
	Currencies = repository.Descriptor{
		Entity: "Currency", Table: "currencies",
		IDColumn: "currencyid", KeyColumn: "currencycode",
		TrimKeyOnMatch: true, ScopeColumn: "compid",
	}
	HSNCodes = repository.Descriptor{
		Entity: "HSN Code", Table: "hsn_codes",
		IDColumn: "hsnid", KeyColumn: "hsncode",
		TrimKeyOnMatch: true,
	}
	BusinessTypes = repository.Descriptor{
		Entity: "Business Type", Table: "business_types",
		IDColumn: "bustypeid", KeyColumn: "bustype",
		TrimKeyOnMatch: true,
	}
	IndustryTypes = repository.Descriptor{
		Entity: "Industry Type", Table: "industry_types",
		IDColumn: "indtypeid", KeyColumn: "indtype",
		TrimKeyOnMatch: true,
	}
	Languages = repository.Descriptor{
		Entity: "Language", Table: "languages",
		IDColumn: "langid", KeyColumn: "langcode",
		TrimKeyOnMatch: true,
	}
	DateFormats = repository.Descriptor{
		Entity: "Date Format", Table: "date_formats",
		IDColumn: "dateformatid", KeyColumn: "dateformat",
		TrimKeyOnMatch: true,
	}
	Salutations = repository.Descriptor{
		Entity: "Salutation", Table: "salutations",
		IDColumn: "salid", KeyColumn: "salutation",
		TrimKeyOnMatch: true,
	}
	GSTTreatments = repository.Descriptor{
		Entity: "GST Treatment", Table: "gst_treatments",
		IDColumn: "gsttreatid", KeyColumn: "gsttreatment",
		TrimKeyOnMatch: true,
	}
	FiscalYears = repository.Descriptor{
		Entity: "Fiscal Year", Table: "fiscal_years",
		IDColumn: "fiscalid", KeyColumn: "fiscalyear",
		TrimKeyOnMatch: true,
	}
	Items = repository.Descriptor{
		Entity: "Item", Table: "items",
		IDColumn: "itemid", KeyColumn: "itemname",
		TrimKeyOnMatch: true, ScopeColumn: "compid",
	}
)

// ReferenceService exposes the typed save/list/get/delete operations over
// the lookup tables, all funneling through the shared upsert engine.
type ReferenceService struct {
	engine *Engine
	store  repository.LookupStore
	states repository.StateQueries
	items  repository.ItemQueries
	audit  audit.Logger
	log    *logrus.Logger
}

func NewReferenceService(engine *Engine, store repository.LookupStore, states repository.StateQueries, items repository.ItemQueries, auditLog audit.Logger, log *logrus.Logger) *ReferenceService {
	return &ReferenceService{engine: engine, store: store, states: states, items: items, audit: auditLog, log: log}
}

func (s *ReferenceService) SaveCountry(ctx context.Context, req models.SaveCountryRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, Countries, UpsertRequest{
		ID:  req.CountryID,
		Key: req.CountryName,
		Attrs: map[string]interface{}{
			"defcurcode": req.DefCurCode,
			"isdcode":    req.ISDCode,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveState(ctx context.Context, req models.SaveStateRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, States, UpsertRequest{
		ID:  req.StateID,
		Key: req.StateName,
		Attrs: map[string]interface{}{
			"countryid": req.CountryID,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveBaseCurrency(ctx context.Context, req models.SaveBaseCurrencyRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, BaseCurrencies, UpsertRequest{
		ID:  req.CurrencyID,
		Key: req.CurrencyCode,
		Attrs: map[string]interface{}{
			"symbol":       req.Symbol,
			"currencyname": req.CurrencyName,
			"dec":          req.Decimals,
			"format":       req.Format,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveCurrency(ctx context.Context, req models.SaveCurrencyRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, Currencies.Scoped(req.CompID), UpsertRequest{
		ID:  req.CurrencyID,
		Key: req.CurrencyCode,
		Attrs: map[string]interface{}{
			"symbol":       req.Symbol,
			"currencyname": req.CurrencyName,
			"dec":          req.Decimals,
			"format":       req.Format,
			"compid":       req.CompID,
			"userid":       req.UserID,
		},
	}, Actor{UserID: req.UserID, CompID: req.CompID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveHSNCode(ctx context.Context, req models.SaveHSNCodeRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, HSNCodes, UpsertRequest{
		ID:  req.HSNID,
		Key: req.HSNCode,
		Attrs: map[string]interface{}{
			"codedesc":     req.CodeDesc,
			"isselectable": req.IsSelectable,
			"isservice":    req.IsService,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveBusinessType(ctx context.Context, req models.SaveBusinessTypeRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, BusinessTypes, UpsertRequest{
		ID:    req.BusTypeID,
		Key:   req.BusType,
		Attrs: map[string]interface{}{},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveIndustryType(ctx context.Context, req models.SaveIndustryTypeRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, IndustryTypes, UpsertRequest{
		ID:    req.IndTypeID,
		Key:   req.IndType,
		Attrs: map[string]interface{}{},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveLanguage(ctx context.Context, req models.SaveLanguageRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, Languages, UpsertRequest{
		ID:  req.LangID,
		Key: req.LangCode,
		Attrs: map[string]interface{}{
			"language": req.Language,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveDateFormat(ctx context.Context, req models.SaveDateFormatRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, DateFormats, UpsertRequest{
		ID:  req.DateFormatID,
		Key: req.DateFormat,
		Attrs: map[string]interface{}{
			"monfmt":  req.MonFmt,
			"daypos":  req.DayPos,
			"monpos":  req.MonPos,
			"yearpos": req.YearPos,
			"yearfmt": req.YearFmt,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveSalutation(ctx context.Context, req models.SaveSalutationRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, Salutations, UpsertRequest{
		ID:  req.SalID,
		Key: req.Salutation,
		Attrs: map[string]interface{}{
			"gender": req.Gender,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveGSTTreatment(ctx context.Context, req models.SaveGSTTreatmentRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, GSTTreatments, UpsertRequest{
		ID:  req.GSTTreatID,
		Key: req.GSTTreatment,
		Attrs: map[string]interface{}{
			"reqgstno":    req.ReqGSTNo,
			"reqsupplace": req.ReqSupPlace,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

func (s *ReferenceService) SaveFiscalYear(ctx context.Context, req models.SaveFiscalYearRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, FiscalYears, UpsertRequest{
		ID:  req.FiscalID,
		Key: req.FiscalYear,
		Attrs: map[string]interface{}{
			"startmonth": req.StartMonth,
		},
	}, Actor{UserID: req.UserID, IsWeb: req.IsWeb})
}

// SaveItem upserts by item name within the company, the same company-scoped
// resolution the currency table uses.
func (s *ReferenceService) SaveItem(ctx context.Context, req models.SaveItemRequest) (UpsertResult, error) {
	return s.engine.Upsert(ctx, Items.Scoped(req.CompID), UpsertRequest{
		ID:  req.ItemID,
		Key: req.ItemName,
		Attrs: map[string]interface{}{
			"itemtype":     req.ItemType,
			"sku":          req.SKU,
			"hsncode":      req.HSNCode,
			"unitid":       req.UnitID,
			"sellprice":    req.SellPrice,
			"currencycode": req.CurrencyCode,
			"taxprefid":    req.TaxPrefID,
			"taxrate":      req.TaxRate,
			"isactive":     req.IsActive,
			"compid":       req.CompID,
			"userid":       req.UserID,
		},
	}, Actor{UserID: req.UserID, CompID: req.CompID, IsWeb: req.IsWeb})
}

// ListItems returns one company's items in list form.
func (s *ReferenceService) ListItems(ctx context.Context, compID int64) ([]models.ItemListEntry, error) {
	return s.items.ListByCompany(ctx, compID)
}

// GetItemDetails returns one item with its HSN description.
func (s *ReferenceService) GetItemDetails(ctx context.Context, itemID int64) (*models.ItemDetails, error) {
	return s.items.GetDetails(ctx, itemID)
}

// List loads every row of one lookup table into dest.
func (s *ReferenceService) List(ctx context.Context, desc repository.Descriptor, dest interface{}) error {
	return s.store.List(ctx, desc, dest)
}

// Get loads a single row by surrogate id into dest.
func (s *ReferenceService) Get(ctx context.Context, desc repository.Descriptor, id int64, dest interface{}) error {
	return s.store.GetByID(ctx, desc, id, dest)
}

// Delete removes a row by surrogate id and records the deletion.
func (s *ReferenceService) Delete(ctx context.Context, desc repository.Descriptor, id int64, actor Actor) error {
	if err := s.store.DeleteByID(ctx, desc, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, actor.CompID, actor.IsWeb,
		audit.Activity("Deleted", desc.Entity, strconv.FormatInt(id, 10)))
	return nil
}

// ListStates returns states joined with their country name, optionally
// limited to one country when countryID is non-zero.
func (s *ReferenceService) ListStates(ctx context.Context, countryID int64) ([]models.StateWithCountry, error) {
	return s.states.ListWithCountry(ctx, countryID)
}
