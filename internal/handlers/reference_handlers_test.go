package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"masterdata-service/internal/models"
	"masterdata-service/internal/repository"
	"masterdata-service/internal/services"
)

// MockLookupStore mocks repository.LookupStore.
type MockLookupStore struct {
	mock.Mock
}

var _ repository.LookupStore = (*MockLookupStore)(nil)

func (m *MockLookupStore) Resolve(ctx context.Context, desc repository.Descriptor, key string) (int64, error) {
	args := m.Called(ctx, desc, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLookupStore) ExistsByID(ctx context.Context, desc repository.Descriptor, id int64) (bool, error) {
	args := m.Called(ctx, desc, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLookupStore) Insert(ctx context.Context, desc repository.Descriptor, values map[string]interface{}) (int64, error) {
	args := m.Called(ctx, desc, values)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLookupStore) UpdateByID(ctx context.Context, desc repository.Descriptor, id int64, values map[string]interface{}) error {
	args := m.Called(ctx, desc, id, values)
	return args.Error(0)
}

func (m *MockLookupStore) DeleteByID(ctx context.Context, desc repository.Descriptor, id int64) error {
	args := m.Called(ctx, desc, id)
	return args.Error(0)
}

func (m *MockLookupStore) List(ctx context.Context, desc repository.Descriptor, dest interface{}) error {
	args := m.Called(ctx, desc, dest)
	if countries, ok := dest.(*[]models.Country); ok && args.Get(1) != nil {
		*countries = args.Get(1).([]models.Country)
	}
	return args.Error(0)
}

func (m *MockLookupStore) GetByID(ctx context.Context, desc repository.Descriptor, id int64, dest interface{}) error {
	args := m.Called(ctx, desc, id, dest)
	return args.Error(0)
}

func (m *MockLookupStore) WithTransaction(ctx context.Context, fn func(repository.LookupStore) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

// MockStateQueries mocks repository.StateQueries.
type MockStateQueries struct {
	mock.Mock
}

func (m *MockStateQueries) ListWithCountry(ctx context.Context, countryID int64) ([]models.StateWithCountry, error) {
	args := m.Called(ctx, countryID)
	return args.Get(0).([]models.StateWithCountry), args.Error(1)
}

// MockItemQueries mocks repository.ItemQueries.
type MockItemQueries struct {
	mock.Mock
}

func (m *MockItemQueries) ListByCompany(ctx context.Context, compID int64) ([]models.ItemListEntry, error) {
	args := m.Called(ctx, compID)
	return args.Get(0).([]models.ItemListEntry), args.Error(1)
}

func (m *MockItemQueries) GetDetails(ctx context.Context, itemID int64) (*models.ItemDetails, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemDetails), args.Error(1)
}

// MockAuditLogger mocks audit.Logger.
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) Record(ctx context.Context, userID, compID int64, isWeb bool, activity string) {
	m.Called(ctx, userID, compID, isWeb, activity)
}

func newTestRouter(store *MockLookupStore, states *MockStateQueries, items *MockItemQueries) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	auditLog := new(MockAuditLogger)
	auditLog.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	engine := services.NewEngine(store, auditLog, log)
	svc := services.NewReferenceService(engine, store, states, items, auditLog, log)
	handler := NewReferenceHandler(svc, log)

	router := gin.New()
	router.POST("/api/SaveCountry", handler.SaveCountry)
	router.GET("/api/GetCountries", handler.GetCountries)
	router.GET("/api/GetStates", handler.GetStates)
	router.DELETE("/api/countries/:id", handler.DeleteCountry)
	router.POST("/api/SaveItem", handler.SaveItem)
	router.GET("/api/GetItemList", handler.GetItemList)
	router.GET("/api/GetItemDetails", handler.GetItemDetails)
	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSaveCountry_CreateReturns201(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	store.On("Resolve", mock.Anything, services.Countries, "India").Return(int64(0), nil)
	store.On("Insert", mock.Anything, services.Countries, mock.Anything).Return(int64(7), nil)

	w := postJSON(router, "/api/SaveCountry", models.SaveCountryRequest{
		CountryName: "India", DefCurCode: "INR", ISDCode: 91, UserID: 1,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]int64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body["countryid"])
}

func TestSaveCountry_UpdateReturns200(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	store.On("Resolve", mock.Anything, services.Countries, "India").Return(int64(7), nil)
	store.On("UpdateByID", mock.Anything, services.Countries, int64(7), mock.Anything).Return(nil)

	w := postJSON(router, "/api/SaveCountry", models.SaveCountryRequest{
		CountryName: "India", UserID: 1,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]int64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body["countryid"])
}

func TestSaveCountry_MissingNameReturns400(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	w := postJSON(router, "/api/SaveCountry", map[string]interface{}{"isdcode": 91})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveCountry_BlankNameReturns400(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	w := postJSON(router, "/api/SaveCountry", models.SaveCountryRequest{CountryName: "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveCountry_AmbiguousKeyReturns409(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	store.On("Resolve", mock.Anything, services.Countries, "India").
		Return(int64(0), repository.ErrAmbiguousKey)

	w := postJSON(router, "/api/SaveCountry", models.SaveCountryRequest{CountryName: "India"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCountries(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	store.On("List", mock.Anything, services.Countries, mock.Anything).
		Return(nil, []models.Country{{CountryID: 1, CountryName: "India"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/GetCountries", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var countries []models.Country
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &countries))
	assert.Len(t, countries, 1)
	assert.Equal(t, "India", countries[0].CountryName)
}

func TestGetStates_FiltersByCountry(t *testing.T) {
	store := new(MockLookupStore)
	states := new(MockStateQueries)
	router := newTestRouter(store, states, new(MockItemQueries))

	states.On("ListWithCountry", mock.Anything, int64(7)).
		Return([]models.StateWithCountry{{StateID: 1, StateName: "Karnataka", CountryID: 7, CountryName: "India"}}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/GetStates?countryid=7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var rows []models.StateWithCountry
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
	assert.Equal(t, "India", rows[0].CountryName)
}

func TestDeleteCountry(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	t.Run("existing row returns 204", func(t *testing.T) {
		store.On("DeleteByID", mock.Anything, services.Countries, int64(7)).Return(nil).Once()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/countries/7", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("second delete returns 404", func(t *testing.T) {
		store.On("DeleteByID", mock.Anything, services.Countries, int64(7)).
			Return(repository.ErrNotFound).Once()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/countries/7", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id returns 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/countries/abc", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSaveItem_ResolvesWithinCompany(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	scoped := services.Items.Scoped(int64(5))
	store.On("Resolve", mock.Anything, scoped, "Widget").Return(int64(0), nil)
	store.On("Insert", mock.Anything, scoped, mock.Anything).Return(int64(3), nil)

	w := postJSON(router, "/api/SaveItem", models.SaveItemRequest{
		CompID: 5, ItemName: "Widget", HSNCode: "8501", SellPrice: 12.5, UserID: 1,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]int64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body["itemid"])
	store.AssertExpectations(t)
}

func TestSaveItem_MissingCompanyReturns400(t *testing.T) {
	store := new(MockLookupStore)
	router := newTestRouter(store, new(MockStateQueries), new(MockItemQueries))

	w := postJSON(router, "/api/SaveItem", map[string]interface{}{"itemname": "Widget"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetItemList(t *testing.T) {
	items := new(MockItemQueries)
	router := newTestRouter(new(MockLookupStore), new(MockStateQueries), items)

	items.On("ListByCompany", mock.Anything, int64(5)).
		Return([]models.ItemListEntry{{ItemID: 3, ItemType: "Goods", ItemName: "Widget", HSNCode: "8501"}}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/GetItemList?compid=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var rows []models.ItemListEntry
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0].ItemName)
}

func TestGetItemDetails(t *testing.T) {
	items := new(MockItemQueries)
	router := newTestRouter(new(MockLookupStore), new(MockStateQueries), items)

	t.Run("existing item resolves its HSN description", func(t *testing.T) {
		items.On("GetDetails", mock.Anything, int64(3)).
			Return(&models.ItemDetails{ItemID: 3, ItemName: "Widget", HSNCode: "8501", CodeDesc: "Electric motors"}, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/GetItemDetails?itemid=3", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var details models.ItemDetails
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
		assert.Equal(t, "Electric motors", details.CodeDesc)
	})

	t.Run("missing item returns 404", func(t *testing.T) {
		items.On("GetDetails", mock.Anything, int64(99)).
			Return(nil, repository.ErrNotFound).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/GetItemDetails?itemid=99", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
