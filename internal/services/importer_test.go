package services

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestImporter(store *MockLookupStore, auditLog *MockAuditLogger) *Importer {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	engine := NewEngine(store, auditLog, log)
	return NewImporter(engine, store, auditLog, log)
}

func countryRows(names ...string) []map[string]string {
	rows := make([]map[string]string, len(names))
	for i, name := range names {
		rows[i] = map[string]string{
			"_row":        strconv.Itoa(i + 1),
			"countryname": name,
			"defcurcode":  "USD",
			"isdcode":     "1",
		}
	}
	return rows
}

func TestImport_TransactionalSuccess(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	importer := newTestImporter(store, auditLog)
	auditLog.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	store.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	store.On("Resolve", mock.Anything, Countries, mock.Anything).Return(int64(0), nil)
	store.On("Insert", mock.Anything, Countries, mock.Anything).Return(int64(1), nil)

	spec := ImportSpec{Desc: Countries, Mode: ModeTransactional, Mapper: mapCountryRow}
	result, err := importer.Run(context.Background(), spec, countryRows("India", "France", "Brazil"), Actor{UserID: 1})

	assert.NoError(t, err)
	assert.Nil(t, result.Failed)
	assert.Equal(t, 3, result.Processed)
	// Per-row trail entries flush once the transaction commits.
	auditLog.AssertCalled(t, "Record", mock.Anything, int64(1), mock.Anything, mock.Anything, "Created Country - India")
}

func TestImport_TransactionalRollsBackOnBadRow(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	importer := newTestImporter(store, auditLog)

	store.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	store.On("Resolve", mock.Anything, Countries, "India").Return(int64(0), nil)
	store.On("Insert", mock.Anything, Countries, mock.Anything).Return(int64(1), nil)
	// Row 2 has an empty key and fails validation inside the engine.

	spec := ImportSpec{Desc: Countries, Mode: ModeTransactional, Mapper: mapCountryRow}
	result, err := importer.Run(context.Background(), spec, countryRows("India", "   "), Actor{UserID: 1})

	assert.NoError(t, err)
	assert.NotNil(t, result.Failed)
	assert.Equal(t, 2, result.Failed.Row)
	// Transactional mode reports nothing persisted, and the trail carries
	// no entries for the rolled-back rows.
	assert.Equal(t, 0, result.Processed)
	auditLog.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImport_PerRowStopsAtFirstErrorKeepingEarlierRows(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	importer := newTestImporter(store, auditLog)
	auditLog.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	store.On("Resolve", mock.Anything, BusinessTypes, "LLP").Return(int64(0), nil)
	store.On("Insert", mock.Anything, BusinessTypes, mock.Anything).Return(int64(1), nil)

	rows := []map[string]string{
		{"_row": "1", "bustype": "LLP"},
		{"_row": "2", "bustype": "   "},
		{"_row": "3", "bustype": "Sole Proprietor"},
	}
	spec := ImportSpec{Desc: BusinessTypes, Mode: ModePerRow, Mapper: singleColumnMapper("bustype")}
	result, err := importer.Run(context.Background(), spec, rows, Actor{UserID: 1})

	assert.NoError(t, err)
	assert.NotNil(t, result.Failed)
	assert.Equal(t, 2, result.Failed.Row)
	// Row 1 stayed persisted; row 3 was never attempted.
	assert.Equal(t, 1, result.Processed)
	store.AssertNumberOfCalls(t, "Insert", 1)
}

func TestImport_StateRefPolicyFail(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	importer := newTestImporter(store, auditLog)

	store.On("Resolve", mock.Anything, Countries, "Atlantis").Return(int64(0), nil)

	rows := []map[string]string{
		{"_row": "1", "statename": "Poseidonia", "countryname": "Atlantis"},
	}
	spec := ImportSpec{Desc: States, Mode: ModePerRow, Mapper: stateRowMapper(RefPolicyFail)}
	result, err := importer.Run(context.Background(), spec, rows, Actor{UserID: 1})

	assert.NoError(t, err)
	assert.NotNil(t, result.Failed)
	assert.Equal(t, 1, result.Failed.Row)
	assert.Contains(t, result.Failed.Message, "Atlantis")
	assert.Equal(t, 0, result.Processed)
}

func TestImport_StateRefPolicySubstituteZero(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	importer := newTestImporter(store, auditLog)
	auditLog.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	store.On("Resolve", mock.Anything, Countries, "Atlantis").Return(int64(0), nil)
	store.On("Resolve", mock.Anything, States, "Poseidonia").Return(int64(0), nil)
	store.On("Insert", mock.Anything, States, mock.MatchedBy(func(values map[string]interface{}) bool {
		return values["countryid"] == int64(0)
	})).Return(int64(1), nil)

	rows := []map[string]string{
		{"_row": "1", "statename": "Poseidonia", "countryname": "Atlantis"},
	}
	spec := ImportSpec{Desc: States, Mode: ModePerRow, Mapper: stateRowMapper(RefPolicySubstituteZero)}
	result, err := importer.Run(context.Background(), spec, rows, Actor{UserID: 1})

	assert.NoError(t, err)
	assert.Nil(t, result.Failed)
	assert.Equal(t, 1, result.Processed)
}

func TestImport_RowCapRejectsOversizedFile(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	importer := newTestImporter(store, auditLog)

	rows := countryRows("A", "B", "C", "D")
	spec := ImportSpec{Desc: Countries, Mode: ModeTransactional, Mapper: mapCountryRow, MaxRows: 3}
	_, err := importer.Run(context.Background(), spec, rows, Actor{UserID: 1})

	assert.ErrorIs(t, err, ErrValidation)
	store.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
}

func TestImport_EmptyFileRejected(t *testing.T) {
	store := new(MockLookupStore)
	auditLog := new(MockAuditLogger)
	importer := newTestImporter(store, auditLog)

	spec := ImportSpec{Desc: Countries, Mode: ModeTransactional, Mapper: mapCountryRow}
	_, err := importer.Run(context.Background(), spec, nil, Actor{UserID: 1})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseCSV(t *testing.T) {
	input := "CountryName, DefCurCode ,ISDCode\nIndia,INR,91\n France ,EUR,33\n"
	rows, err := ParseCSV(strings.NewReader(input))

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["_row"])
	assert.Equal(t, "India", rows[0]["countryname"])
	assert.Equal(t, "INR", rows[0]["defcurcode"])
	assert.Equal(t, "2", rows[1]["_row"])
	assert.Equal(t, "France", rows[1]["countryname"])
}

func TestParseCSV_MissingHeaderFails(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}
