package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"masterdata-service/internal/models"
)

// CompanyRepository persists company profiles.
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	Update(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	// UpdateLogo records the stored logo and thumbnail paths.
	UpdateLogo(ctx context.Context, id int64, logoPath, thumbPath string) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("compid = ?", company.CompID).
		Updates(companyColumns(company))
	if result.Error != nil {
		return fmt.Errorf("failed to update company: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// companyColumns builds the update map for every profile column, zero values
// included, so a blank field clears the stored value instead of keeping it.
// Logo paths are excluded; they change only through UpdateLogo.
func companyColumns(company *models.Company) map[string]interface{} {
	return map[string]interface{}{
		"compname":     company.CompName,
		"address1":     company.Address1,
		"address2":     company.Address2,
		"city":         company.City,
		"stateid":      company.StateID,
		"countryid":    company.CountryID,
		"pincode":      company.Pincode,
		"gstno":        company.GSTNo,
		"panno":        company.PanNo,
		"phone":        company.Phone,
		"email":        company.Email,
		"website":      company.Website,
		"currencyid":   company.CurrencyID,
		"dateformatid": company.DateFormatID,
		"fiscalid":     company.FiscalID,
		"gsttreatid":   company.GSTTreatID,
		"bustypeid":    company.BusTypeID,
		"indtypeid":    company.IndTypeID,
	}
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).First(&company, "compid = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &company, nil
}

func (r *companyRepository) UpdateLogo(ctx context.Context, id int64, logoPath, thumbPath string) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("compid = ?", id).
		Updates(map[string]interface{}{"logopath": logoPath, "thumbpath": thumbPath})
	if result.Error != nil {
		return fmt.Errorf("failed to update company logo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
