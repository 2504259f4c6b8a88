package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"masterdata-service/internal/repository"
)

// BulkTarget binds one import endpoint to its parsing spec and template.
type BulkTarget struct {
	// Name is the slug used in template download URLs.
	Name    string
	Spec    ImportSpec
	Columns []TemplateColumn
}

// BulkTargets builds the full set of import targets. Countries import
// all-or-nothing; every other table commits row by row and stops at the
// first bad row. refPolicy applies to state rows referencing countries by
// name.
func BulkTargets(refPolicy RefPolicy, maxRows int) map[string]BulkTarget {
	targets := []BulkTarget{
		{
			Name: "countries",
			Spec: ImportSpec{
				Desc:    Countries,
				Mode:    ModeTransactional,
				Mapper:  mapCountryRow,
				MaxRows: maxRows,
			},
			Columns: []TemplateColumn{
				{Header: "countryname", Example: "India"},
				{Header: "defcurcode", Example: "INR"},
				{Header: "isdcode", Example: "91"},
			},
		},
		{
			Name: "states",
			Spec: ImportSpec{
				Desc:    States,
				Mode:    ModePerRow,
				Mapper:  stateRowMapper(refPolicy),
				MaxRows: maxRows,
			},
			Columns: []TemplateColumn{
				{Header: "statename", Example: "Karnataka"},
				{Header: "countryname", Example: "India"},
			},
		},
		{
			Name: "basecurrencies",
			Spec: ImportSpec{
				Desc:    BaseCurrencies,
				Mode:    ModePerRow,
				Mapper:  mapBaseCurrencyRow,
				MaxRows: maxRows,
			},
			Columns: []TemplateColumn{
				{Header: "currencycode", Example: "INR"},
				{Header: "symbol", Example: "₹"},
				{Header: "currencyname", Example: "Indian Rupee"},
				{Header: "dec", Example: "2"},
				{Header: "format", Example: "##,##,###"},
			},
		},
		{
			Name: "hsncodes",
			Spec: ImportSpec{
				Desc:    HSNCodes,
				Mode:    ModePerRow,
				Mapper:  mapHSNCodeRow,
				MaxRows: maxRows,
			},
			Columns: []TemplateColumn{
				{Header: "hsncode", Example: "9983"},
				{Header: "codedesc", Example: "Professional services"},
				{Header: "isselectable", Example: "true"},
				{Header: "isservice", Example: "true"},
			},
		},
		{
			Name: "businesstypes",
			Spec: ImportSpec{
				Desc:    BusinessTypes,
				Mode:    ModePerRow,
				Mapper:  singleColumnMapper("bustype"),
				MaxRows: maxRows,
			},
			Columns: []TemplateColumn{
				{Header: "bustype", Example: "Private Limited"},
			},
		},
		{
			Name: "industrytypes",
			Spec: ImportSpec{
				Desc:    IndustryTypes,
				Mode:    ModePerRow,
				Mapper:  singleColumnMapper("indtype"),
				MaxRows: maxRows,
			},
			Columns: []TemplateColumn{
				{Header: "indtype", Example: "Information Technology"},
			},
		},
		{
			Name: "languages",
			Spec: ImportSpec{
				Desc:    Languages,
				Mode:    ModePerRow,
				Mapper:  mapLanguageRow,
				MaxRows: maxRows,
			},
			Columns: []TemplateColumn{
				{Header: "langcode", Example: "en"},
				{Header: "language", Example: "English"},
			},
		},
		{
			Name: "gsttreatments",
			Spec: ImportSpec{
				Desc:    GSTTreatments,
				Mode:    ModePerRow,
				Mapper:  mapGSTTreatmentRow,
				MaxRows: maxRows,
			},
			Columns: []TemplateColumn{
				{Header: "gsttreatment", Example: "Registered Business"},
				{Header: "reqgstno", Example: "true"},
				{Header: "reqsupplace", Example: "true"},
			},
		},
	}

	byName := make(map[string]BulkTarget, len(targets))
	for _, target := range targets {
		byName[target.Name] = target
	}
	return byName
}

func mapCountryRow(_ context.Context, _ repository.LookupStore, row map[string]string) (UpsertRequest, error) {
	isdCode, err := optionalInt(row, "isdcode")
	if err != nil {
		return UpsertRequest{}, err
	}
	return UpsertRequest{
		Key: row["countryname"],
		Attrs: map[string]interface{}{
			"defcurcode": row["defcurcode"],
			"isdcode":    isdCode,
		},
	}, nil
}

func stateRowMapper(policy RefPolicy) RowMapper {
	return func(ctx context.Context, store repository.LookupStore, row map[string]string) (UpsertRequest, error) {
		countryID, err := ResolveRef(ctx, store, Countries, row["countryname"], policy)
		if err != nil {
			return UpsertRequest{}, err
		}
		return UpsertRequest{
			Key: row["statename"],
			Attrs: map[string]interface{}{
				"countryid": countryID,
			},
		}, nil
	}
}

func mapBaseCurrencyRow(_ context.Context, _ repository.LookupStore, row map[string]string) (UpsertRequest, error) {
	decimals, err := optionalInt(row, "dec")
	if err != nil {
		return UpsertRequest{}, err
	}
	return UpsertRequest{
		Key: row["currencycode"],
		Attrs: map[string]interface{}{
			"symbol":       row["symbol"],
			"currencyname": row["currencyname"],
			"dec":          decimals,
			"format":       row["format"],
		},
	}, nil
}

func mapHSNCodeRow(_ context.Context, _ repository.LookupStore, row map[string]string) (UpsertRequest, error) {
	selectable, err := optionalBool(row, "isselectable")
	if err != nil {
		return UpsertRequest{}, err
	}
	service, err := optionalBool(row, "isservice")
	if err != nil {
		return UpsertRequest{}, err
	}
	return UpsertRequest{
		Key: row["hsncode"],
		Attrs: map[string]interface{}{
			"codedesc":     row["codedesc"],
			"isselectable": selectable,
			"isservice":    service,
		},
	}, nil
}

func mapLanguageRow(_ context.Context, _ repository.LookupStore, row map[string]string) (UpsertRequest, error) {
	return UpsertRequest{
		Key: row["langcode"],
		Attrs: map[string]interface{}{
			"language": row["language"],
		},
	}, nil
}

func mapGSTTreatmentRow(_ context.Context, _ repository.LookupStore, row map[string]string) (UpsertRequest, error) {
	reqGSTNo, err := optionalBool(row, "reqgstno")
	if err != nil {
		return UpsertRequest{}, err
	}
	reqSupPlace, err := optionalBool(row, "reqsupplace")
	if err != nil {
		return UpsertRequest{}, err
	}
	return UpsertRequest{
		Key: row["gsttreatment"],
		Attrs: map[string]interface{}{
			"reqgstno":    reqGSTNo,
			"reqsupplace": reqSupPlace,
		},
	}, nil
}

func singleColumnMapper(column string) RowMapper {
	return func(_ context.Context, _ repository.LookupStore, row map[string]string) (UpsertRequest, error) {
		return UpsertRequest{
			Key:   row[column],
			Attrs: map[string]interface{}{},
		}, nil
	}
}

func optionalInt(row map[string]string, column string) (int, error) {
	value := strings.TrimSpace(row[column])
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", column, value)
	}
	return n, nil
}

func optionalBool(row map[string]string, column string) (bool, error) {
	value := strings.ToLower(strings.TrimSpace(row[column]))
	switch value {
	case "", "false", "0", "no", "n":
		return false, nil
	case "true", "1", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("%s %q is not a boolean", column, value)
}
