package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"masterdata-service/internal/repository"
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

// MockAuditLogger mocks audit.Logger.
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) Record(ctx context.Context, userID, compID int64, isWeb bool, activity string) {
	m.Called(ctx, userID, compID, isWeb, activity)
}

func newTestEngine(store *MockLookupStore, auditLog *MockAuditLogger) *Engine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewEngine(store, auditLog, log)
}

func TestUpsert_KeyMatchUpdates(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	engine := newTestEngine(store, auditLog)

	store.On("Resolve", mock.Anything, Countries, "  india ").Return(int64(7), nil)
	store.On("UpdateByID", mock.Anything, Countries, int64(7), mock.MatchedBy(func(values map[string]interface{}) bool {
		// Country rewrites the stored key to the trimmed value.
		return values["countryname"] == "india"
	})).Return(nil)
	auditLog.On("Record", mock.Anything, int64(3), int64(0), true, "Updated Country -   india ").Return()

	result, err := engine.Upsert(context.Background(), Countries, UpsertRequest{
		ID:    99, // stale id must lose to the key match
		Key:   "  india ",
		Attrs: map[string]interface{}{"isdcode": 91},
	}, Actor{UserID: 3, IsWeb: true})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), result.ID)
	assert.False(t, result.Created)
	store.AssertNotCalled(t, "ExistsByID", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsert_KeyMatchKeepsRawValueForStates(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	engine := newTestEngine(store, auditLog)

	store.On("Resolve", mock.Anything, States, " Karnataka ").Return(int64(4), nil)
	store.On("UpdateByID", mock.Anything, States, int64(4), mock.MatchedBy(func(values map[string]interface{}) bool {
		// State keeps the caller's raw value, padding included.
		return values["statename"] == " Karnataka "
	})).Return(nil)
	auditLog.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	result, err := engine.Upsert(context.Background(), States, UpsertRequest{
		Key:   " Karnataka ",
		Attrs: map[string]interface{}{"countryid": int64(7)},
	}, Actor{UserID: 1})

	assert.NoError(t, err)
	assert.Equal(t, int64(4), result.ID)
}

func TestUpsert_IDFallbackWhenKeyMisses(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	engine := newTestEngine(store, auditLog)

	store.On("Resolve", mock.Anything, Countries, "Bharat").Return(int64(0), nil)
	store.On("ExistsByID", mock.Anything, Countries, int64(7)).Return(true, nil)
	store.On("UpdateByID", mock.Anything, Countries, int64(7), mock.MatchedBy(func(values map[string]interface{}) bool {
		// Rename path writes the new key as given.
		return values["countryname"] == "Bharat"
	})).Return(nil)
	auditLog.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	result, err := engine.Upsert(context.Background(), Countries, UpsertRequest{
		ID:    7,
		Key:   "Bharat",
		Attrs: map[string]interface{}{"isdcode": 91},
	}, Actor{UserID: 1})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), result.ID)
	assert.False(t, result.Created)
}

func TestUpsert_CreatesWhenKeyAndIDMiss(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	engine := newTestEngine(store, auditLog)

	store.On("Resolve", mock.Anything, Countries, "Wakanda").Return(int64(0), nil)
	store.On("ExistsByID", mock.Anything, Countries, int64(42)).Return(false, nil)
	store.On("Insert", mock.Anything, Countries, mock.MatchedBy(func(values map[string]interface{}) bool {
		return values["countryname"] == "Wakanda"
	})).Return(int64(11), nil)
	auditLog.On("Record", mock.Anything, int64(1), int64(0), false, "Created Country - Wakanda").Return()

	result, err := engine.Upsert(context.Background(), Countries, UpsertRequest{
		ID:    42, // stale id that no longer exists
		Key:   "Wakanda",
		Attrs: map[string]interface{}{},
	}, Actor{UserID: 1})

	assert.NoError(t, err)
	assert.Equal(t, int64(11), result.ID)
	assert.True(t, result.Created)
}

func TestUpsert_EmptyKeyFailsBeforeAnyQuery(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	engine := newTestEngine(store, auditLog)

	_, err := engine.Upsert(context.Background(), Countries, UpsertRequest{
		Key:   "   ",
		Attrs: map[string]interface{}{},
	}, Actor{UserID: 1})

	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsert_AmbiguousKeyPropagates(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	engine := newTestEngine(store, auditLog)

	store.On("Resolve", mock.Anything, Countries, "India").
		Return(int64(0), repository.ErrAmbiguousKey)

	_, err := engine.Upsert(context.Background(), Countries, UpsertRequest{
		Key:   "India",
		Attrs: map[string]interface{}{},
	}, Actor{UserID: 1})

	assert.ErrorIs(t, err, repository.ErrAmbiguousKey)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsert_ConvergesOnRepeat(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	engine := newTestEngine(store, auditLog)
	auditLog.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	// First save misses and creates.
	store.On("Resolve", mock.Anything, Countries, "India").Return(int64(0), nil).Once()
	store.On("Insert", mock.Anything, Countries, mock.Anything).Return(int64(5), nil).Once()

	first, err := engine.Upsert(context.Background(), Countries, UpsertRequest{
		Key:   "India",
		Attrs: map[string]interface{}{"isdcode": 91},
	}, Actor{UserID: 1})
	assert.NoError(t, err)
	assert.True(t, first.Created)

	// Same payload again resolves to the created row and updates in place.
	store.On("Resolve", mock.Anything, Countries, "India").Return(int64(5), nil)
	store.On("UpdateByID", mock.Anything, Countries, int64(5), mock.Anything).Return(nil)

	second, err := engine.Upsert(context.Background(), Countries, UpsertRequest{
		Key:   "India",
		Attrs: map[string]interface{}{"isdcode": 91},
	}, Actor{UserID: 1})
	assert.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpsert_DuplicateKeyFromConcurrentCreate(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	engine := newTestEngine(store, auditLog)

	// Two callers race past Resolve; the slower insert hits the unique
	// index on LOWER(TRIM(key)) and surfaces as a conflict.
	store.On("Resolve", mock.Anything, Countries, "India").Return(int64(0), nil)
	store.On("Insert", mock.Anything, Countries, mock.Anything).
		Return(int64(0), repository.ErrDuplicateKey)

	_, err := engine.Upsert(context.Background(), Countries, UpsertRequest{
		Key:   "India",
		Attrs: map[string]interface{}{},
	}, Actor{UserID: 1})

	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}
