package services

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"masterdata-service/internal/audit"
	"masterdata-service/internal/models"
	"masterdata-service/internal/pictures"
	"masterdata-service/internal/repository"
)

// CompanyService manages company profiles and logo uploads.
type CompanyService struct {
	companies repository.CompanyRepository
	pictures  *pictures.Store
	audit     audit.Logger
	log       *logrus.Logger
}

func NewCompanyService(companies repository.CompanyRepository, pics *pictures.Store, auditLog audit.Logger, log *logrus.Logger) *CompanyService {
	return &CompanyService{companies: companies, pictures: pics, audit: auditLog, log: log}
}

// SaveCompany creates when compid is zero, updates otherwise.
func (s *CompanyService) SaveCompany(ctx context.Context, req models.SaveCompanyRequest) (UpsertResult, error) {
	if req.CompID == 0 {
		company := models.Company{
			CompName:     req.CompName,
			Address1:     req.Address1,
			Address2:     req.Address2,
			City:         req.City,
			StateID:      req.StateID,
			CountryID:    req.CountryID,
			Pincode:      req.Pincode,
			GSTNo:        req.GSTNo,
			PanNo:        req.PanNo,
			Phone:        req.Phone,
			Email:        req.Email,
			Website:      req.Website,
			CurrencyID:   req.CurrencyID,
			DateFormatID: req.DateFormatID,
			FiscalID:     req.FiscalID,
			GSTTreatID:   req.GSTTreatID,
			BusTypeID:    req.BusTypeID,
			IndTypeID:    req.IndTypeID,
		}
		if err := s.companies.Create(ctx, &company); err != nil {
			return UpsertResult{}, err
		}
		s.audit.Record(ctx, req.UserID, company.CompID, req.IsWeb,
			audit.Activity("Created", "Company", req.CompName))
		return UpsertResult{ID: company.CompID, Created: true}, nil
	}

	company := models.Company{
		CompID:       req.CompID,
		CompName:     req.CompName,
		Address1:     req.Address1,
		Address2:     req.Address2,
		City:         req.City,
		StateID:      req.StateID,
		CountryID:    req.CountryID,
		Pincode:      req.Pincode,
		GSTNo:        req.GSTNo,
		PanNo:        req.PanNo,
		Phone:        req.Phone,
		Email:        req.Email,
		Website:      req.Website,
		CurrencyID:   req.CurrencyID,
		DateFormatID: req.DateFormatID,
		FiscalID:     req.FiscalID,
		GSTTreatID:   req.GSTTreatID,
		BusTypeID:    req.BusTypeID,
		IndTypeID:    req.IndTypeID,
	}
	if err := s.companies.Update(ctx, &company); err != nil {
		return UpsertResult{}, err
	}
	s.audit.Record(ctx, req.UserID, req.CompID, req.IsWeb,
		audit.Activity("Updated", "Company", req.CompName))
	return UpsertResult{ID: req.CompID}, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// SaveLogo stores the uploaded image plus thumbnail and swaps the company's
// logo paths, removing the previous files on success.
func (s *CompanyService) SaveLogo(ctx context.Context, compID int64, file io.Reader, filename string, actor Actor) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, compID)
	if err != nil {
		return nil, err
	}

	logoPath, thumbPath, err := s.pictures.Save(file, filename)
	if err != nil {
		return nil, err
	}

	if err := s.companies.UpdateLogo(ctx, compID, logoPath, thumbPath); err != nil {
		s.pictures.Remove(logoPath, thumbPath)
		return nil, err
	}
	s.pictures.Remove(company.LogoPath, company.ThumbPath)

	company.LogoPath = logoPath
	company.ThumbPath = thumbPath
	s.audit.Record(ctx, actor.UserID, compID, actor.IsWeb,
		audit.Activity("Updated", "Company Logo", company.CompName))
	return company, nil
}
