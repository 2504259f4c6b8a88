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

// ReferenceHandler serves the lookup-table CRUD endpoints.
type ReferenceHandler struct {
	svc *services.ReferenceService
	log *logrus.Logger
}

func NewReferenceHandler(svc *services.ReferenceService, log *logrus.Logger) *ReferenceHandler {
	return &ReferenceHandler{svc: svc, log: log}
}

// respondSave maps an upsert outcome onto the wire convention: 201 with the
// id on create, 200 with the id on update, 400 for bad input, 409 when the
// natural key is ambiguous or collides.
func (h *ReferenceHandler) respondSave(c *gin.Context, idField string, result services.UpsertResult, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{idField: result.ID})
}

func (h *ReferenceHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrAmbiguousKey), errors.Is(err, repository.ErrDuplicateKey):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "record not found"})
	default:
		h.log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("Request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// --- Country ---

// SaveCountry creates or updates a country by name.
// @Summary Save a country
// @Tags reference
// @Accept json
// @Produce json
// @Param country body models.SaveCountryRequest true "Country"
// @Success 200 {object} map[string]int64
// @Success 201 {object} map[string]int64
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/SaveCountry [post]
func (h *ReferenceHandler) SaveCountry(c *gin.Context) {
	var req models.SaveCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveCountry(c.Request.Context(), req)
	h.respondSave(c, "countryid", result, err)
}

// GetCountries lists all countries.
// @Summary List countries
// @Tags reference
// @Produce json
// @Success 200 {array} models.Country
// @Router /api/GetCountries [get]
func (h *ReferenceHandler) GetCountries(c *gin.Context) {
	var countries []models.Country
	if err := h.svc.List(c.Request.Context(), services.Countries, &countries); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

func (h *ReferenceHandler) GetCountry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var country models.Country
	if err := h.svc.Get(c.Request.Context(), services.Countries, id, &country); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, country)
}

func (h *ReferenceHandler) DeleteCountry(c *gin.Context) {
	h.deleteByID(c, services.Countries)
}

// --- State ---

// SaveState creates or updates a state by name. The raw name is stored
// as-is, padding included.
func (h *ReferenceHandler) SaveState(c *gin.Context) {
	var req models.SaveStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveState(c.Request.Context(), req)
	h.respondSave(c, "stateid", result, err)
}

// GetStates lists states with country names, optionally filtered by
// ?countryid=.
func (h *ReferenceHandler) GetStates(c *gin.Context) {
	var countryID int64
	if raw := c.Query("countryid"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid countryid"})
			return
		}
		countryID = parsed
	}
	states, err := h.svc.ListStates(c.Request.Context(), countryID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, states)
}

func (h *ReferenceHandler) GetState(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var state models.State
	if err := h.svc.Get(c.Request.Context(), services.States, id, &state); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *ReferenceHandler) DeleteState(c *gin.Context) {
	h.deleteByID(c, services.States)
}

// --- Base currency ---

func (h *ReferenceHandler) SaveBaseCurrency(c *gin.Context) {
	var req models.SaveBaseCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveBaseCurrency(c.Request.Context(), req)
	h.respondSave(c, "currencyid", result, err)
}

func (h *ReferenceHandler) GetBaseCurrencies(c *gin.Context) {
	var currencies []models.BaseCurrency
	if err := h.svc.List(c.Request.Context(), services.BaseCurrencies, &currencies); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, currencies)
}

func (h *ReferenceHandler) DeleteBaseCurrency(c *gin.Context) {
	h.deleteByID(c, services.BaseCurrencies)
}

// --- Company currency ---

func (h *ReferenceHandler) SaveCurrency(c *gin.Context) {
	var req models.SaveCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveCurrency(c.Request.Context(), req)
	h.respondSave(c, "currencyid", result, err)
}

// GetCurrencies lists one company's currencies via ?compid=.
func (h *ReferenceHandler) GetCurrencies(c *gin.Context) {
	compID, err := strconv.ParseInt(c.Query("compid"), 10, 64)
	if err != nil || compID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid compid"})
		return
	}
	var currencies []models.Currency
	if err := h.svc.List(c.Request.Context(), services.Currencies.Scoped(compID), &currencies); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, currencies)
}

func (h *ReferenceHandler) DeleteCurrency(c *gin.Context) {
	h.deleteByID(c, services.Currencies)
}

// --- HSN code ---

func (h *ReferenceHandler) SaveHSNCode(c *gin.Context) {
	var req models.SaveHSNCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveHSNCode(c.Request.Context(), req)
	h.respondSave(c, "hsnid", result, err)
}

func (h *ReferenceHandler) GetHSNCodes(c *gin.Context) {
	var codes []models.HSNCode
	if err := h.svc.List(c.Request.Context(), services.HSNCodes, &codes); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (h *ReferenceHandler) DeleteHSNCode(c *gin.Context) {
	h.deleteByID(c, services.HSNCodes)
}

// --- Business type ---

func (h *ReferenceHandler) SaveBusinessType(c *gin.Context) {
	var req models.SaveBusinessTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveBusinessType(c.Request.Context(), req)
	h.respondSave(c, "bustypeid", result, err)
}

func (h *ReferenceHandler) GetBusinessTypes(c *gin.Context) {
	var types []models.BusinessType
	if err := h.svc.List(c.Request.Context(), services.BusinessTypes, &types); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *ReferenceHandler) DeleteBusinessType(c *gin.Context) {
	h.deleteByID(c, services.BusinessTypes)
}

// --- Industry type ---

func (h *ReferenceHandler) SaveIndustryType(c *gin.Context) {
	var req models.SaveIndustryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveIndustryType(c.Request.Context(), req)
	h.respondSave(c, "indtypeid", result, err)
}

func (h *ReferenceHandler) GetIndustryTypes(c *gin.Context) {
	var types []models.IndustryType
	if err := h.svc.List(c.Request.Context(), services.IndustryTypes, &types); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *ReferenceHandler) DeleteIndustryType(c *gin.Context) {
	h.deleteByID(c, services.IndustryTypes)
}

// --- Language ---

func (h *ReferenceHandler) SaveLanguage(c *gin.Context) {
	var req models.SaveLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveLanguage(c.Request.Context(), req)
	h.respondSave(c, "langid", result, err)
}

func (h *ReferenceHandler) GetLanguages(c *gin.Context) {
	var langs []models.Language
	if err := h.svc.List(c.Request.Context(), services.Languages, &langs); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, langs)
}

func (h *ReferenceHandler) DeleteLanguage(c *gin.Context) {
	h.deleteByID(c, services.Languages)
}

// --- Date format ---

func (h *ReferenceHandler) SaveDateFormat(c *gin.Context) {
	var req models.SaveDateFormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveDateFormat(c.Request.Context(), req)
	h.respondSave(c, "dateformatid", result, err)
}

func (h *ReferenceHandler) GetDateFormats(c *gin.Context) {
	var formats []models.DateFormat
	if err := h.svc.List(c.Request.Context(), services.DateFormats, &formats); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formats)
}

func (h *ReferenceHandler) DeleteDateFormat(c *gin.Context) {
	h.deleteByID(c, services.DateFormats)
}

// --- Salutation ---

func (h *ReferenceHandler) SaveSalutation(c *gin.Context) {
	var req models.SaveSalutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveSalutation(c.Request.Context(), req)
	h.respondSave(c, "salid", result, err)
}

func (h *ReferenceHandler) GetSalutations(c *gin.Context) {
	var sals []models.Salutation
	if err := h.svc.List(c.Request.Context(), services.Salutations, &sals); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sals)
}

func (h *ReferenceHandler) DeleteSalutation(c *gin.Context) {
	h.deleteByID(c, services.Salutations)
}

// --- GST treatment ---

func (h *ReferenceHandler) SaveGSTTreatment(c *gin.Context) {
	var req models.SaveGSTTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveGSTTreatment(c.Request.Context(), req)
	h.respondSave(c, "gsttreatid", result, err)
}

func (h *ReferenceHandler) GetGSTTreatments(c *gin.Context) {
	var treatments []models.GSTTreatment
	if err := h.svc.List(c.Request.Context(), services.GSTTreatments, &treatments); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, treatments)
}

func (h *ReferenceHandler) DeleteGSTTreatment(c *gin.Context) {
	h.deleteByID(c, services.GSTTreatments)
}

// --- Fiscal year ---

func (h *ReferenceHandler) SaveFiscalYear(c *gin.Context) {
	var req models.SaveFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveFiscalYear(c.Request.Context(), req)
	h.respondSave(c, "fiscalid", result, err)
}

func (h *ReferenceHandler) GetFiscalYears(c *gin.Context) {
	var years []models.FiscalYear
	if err := h.svc.List(c.Request.Context(), services.FiscalYears, &years); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, years)
}

func (h *ReferenceHandler) DeleteFiscalYear(c *gin.Context) {
	h.deleteByID(c, services.FiscalYears)
}

// --- Item ---

// SaveItem creates or updates an item by name within its company.
func (h *ReferenceHandler) SaveItem(c *gin.Context) {
	var req models.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := h.svc.SaveItem(c.Request.Context(), req)
	h.respondSave(c, "itemid", result, err)
}

// GetItemList lists one company's items via ?compid=.
func (h *ReferenceHandler) GetItemList(c *gin.Context) {
	compID, err := strconv.ParseInt(c.Query("compid"), 10, 64)
	if err != nil || compID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid compid"})
		return
	}
	items, err := h.svc.ListItems(c.Request.Context(), compID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItemDetails returns one item with its HSN description via ?itemid=.
func (h *ReferenceHandler) GetItemDetails(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Query("itemid"), 10, 64)
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid itemid"})
		return
	}
	details, err := h.svc.GetItemDetails(c.Request.Context(), itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *ReferenceHandler) DeleteItem(c *gin.Context) {
	h.deleteByID(c, services.Items)
}

// GetStatesByCountry is the legacy path form of the country filter.
func (h *ReferenceHandler) GetStatesByCountry(c *gin.Context) {
	countryID, err := strconv.ParseInt(c.Param("countryid"), 10, 64)
	if err != nil || countryID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid countryid"})
		return
	}
	states, err := h.svc.ListStates(c.Request.Context(), countryID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, states)
}

// GetCurrenciesByCompany is the legacy path form of the company filter.
func (h *ReferenceHandler) GetCurrenciesByCompany(c *gin.Context) {
	compID, err := strconv.ParseInt(c.Param("compid"), 10, 64)
	if err != nil || compID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid compid"})
		return
	}
	var currencies []models.Currency
	if err := h.svc.List(c.Request.Context(), services.Currencies.Scoped(compID), &currencies); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, currencies)
}

// Get-by-id endpoints for the remaining lookup tables.

func (h *ReferenceHandler) GetBaseCurrency(c *gin.Context) {
	h.getByID(c, services.BaseCurrencies, &models.BaseCurrency{})
}

func (h *ReferenceHandler) GetCurrency(c *gin.Context) {
	h.getByID(c, services.Currencies, &models.Currency{})
}

func (h *ReferenceHandler) GetHSNCode(c *gin.Context) {
	h.getByID(c, services.HSNCodes, &models.HSNCode{})
}

func (h *ReferenceHandler) GetBusinessType(c *gin.Context) {
	h.getByID(c, services.BusinessTypes, &models.BusinessType{})
}

func (h *ReferenceHandler) GetIndustryType(c *gin.Context) {
	h.getByID(c, services.IndustryTypes, &models.IndustryType{})
}

func (h *ReferenceHandler) GetLanguage(c *gin.Context) {
	h.getByID(c, services.Languages, &models.Language{})
}

func (h *ReferenceHandler) GetDateFormat(c *gin.Context) {
	h.getByID(c, services.DateFormats, &models.DateFormat{})
}

func (h *ReferenceHandler) GetSalutation(c *gin.Context) {
	h.getByID(c, services.Salutations, &models.Salutation{})
}

func (h *ReferenceHandler) GetGSTTreatment(c *gin.Context) {
	h.getByID(c, services.GSTTreatments, &models.GSTTreatment{})
}

func (h *ReferenceHandler) GetFiscalYear(c *gin.Context) {
	h.getByID(c, services.FiscalYears, &models.FiscalYear{})
}

func (h *ReferenceHandler) getByID(c *gin.Context, desc repository.Descriptor, dest interface{}) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Get(c.Request.Context(), desc, id, dest); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dest)
}

// deleteByID removes one row and returns 204. The actor comes from query
// params because DELETE carries no body.
func (h *ReferenceHandler) deleteByID(c *gin.Context, desc repository.Descriptor) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Query("userid"), 10, 64)
	isWeb, _ := strconv.ParseBool(c.Query("isweb"))
	err := h.svc.Delete(c.Request.Context(), desc, id, services.Actor{UserID: userID, IsWeb: isWeb})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
