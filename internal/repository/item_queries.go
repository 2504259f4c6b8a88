package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"masterdata-service/internal/models"
)

// ItemQueries covers the item reads that step outside the generic lookup
// store: the company listing and the HSN-joined detail view.
type ItemQueries interface {
	ListByCompany(ctx context.Context, compID int64) ([]models.ItemListEntry, error)
	// GetDetails returns one item with its HSN description resolved.
	// A miss returns ErrNotFound.
	GetDetails(ctx context.Context, itemID int64) (*models.ItemDetails, error)
}

type itemQueries struct {
	db *gorm.DB
}

func NewItemQueries(db *gorm.DB) ItemQueries {
	return &itemQueries{db: db}
}

func (q *itemQueries) ListByCompany(ctx context.Context, compID int64) ([]models.ItemListEntry, error) {
	var rows []models.ItemListEntry
	err := q.db.WithContext(ctx).Table("items").
		Select("itemid, itemtype, itemname, hsncode").
		Where("compid = ?", compID).
		Order("itemname").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return rows, nil
}

func (q *itemQueries) GetDetails(ctx context.Context, itemID int64) (*models.ItemDetails, error) {
	var details models.ItemDetails
	err := q.db.WithContext(ctx).Table("items i").
		Select("i.itemid, i.itemtype, i.itemname, i.sku, i.hsncode, COALESCE(h.codedesc, '') AS codedesc, i.unitid, i.sellprice, i.currencycode, i.taxprefid, i.taxrate, i.isactive").
		Joins("LEFT JOIN hsn_codes h ON h.hsncode = i.hsncode").
		Where("i.itemid = ?", itemID).
		Scan(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if details.ItemID == 0 {
		return nil, ErrNotFound
	}
	return &details, nil
}
