package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"masterdata-service/internal/models"
)

// StateQueries covers the state reads that need the country join.
type StateQueries interface {
	// ListWithCountry returns states with their country name resolved.
	// A non-zero countryID limits the result to that country.
	ListWithCountry(ctx context.Context, countryID int64) ([]models.StateWithCountry, error)
}

type stateQueries struct {
	db *gorm.DB
}

func NewStateQueries(db *gorm.DB) StateQueries {
	return &stateQueries{db: db}
}

func (q *stateQueries) ListWithCountry(ctx context.Context, countryID int64) ([]models.StateWithCountry, error) {
	var rows []models.StateWithCountry
	query := q.db.WithContext(ctx).Table("states s").
		Select("s.stateid, s.statename, s.countryid, COALESCE(c.countryname, '') AS countryname").
		Joins("LEFT JOIN countries c ON c.countryid = s.countryid")
	if countryID != 0 {
		query = query.Where("s.countryid = ?", countryID)
	}
	if err := query.Order("s.statename").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	return rows, nil
}
