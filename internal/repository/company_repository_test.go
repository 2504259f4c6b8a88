package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"masterdata-service/internal/models"
)

func TestCompanyColumns_IncludesZeroValues(t *testing.T) {
	company := &models.Company{
		CompID:   7,
		CompName: "Acme",
		Address2: "",
		Website:  "",
		StateID:  0,
	}

	columns := companyColumns(company)

	// Blank and zero fields must still be present so an update clears them.
	assert.Contains(t, columns, "address2")
	assert.Equal(t, "", columns["address2"])
	assert.Contains(t, columns, "website")
	assert.Equal(t, "", columns["website"])
	assert.Contains(t, columns, "stateid")
	assert.Equal(t, int64(0), columns["stateid"])
}

func TestCompanyColumns_ExcludesLogoAndID(t *testing.T) {
	company := &models.Company{CompID: 7, LogoPath: "/p/logo.png", ThumbPath: "/p/logo_thumb.png"}

	columns := companyColumns(company)

	assert.NotContains(t, columns, "compid")
	assert.NotContains(t, columns, "logopath")
	assert.NotContains(t, columns, "thumbpath")
}
