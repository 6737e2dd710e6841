package domain

import "slices"

// DocumentType identifies an identity document the customer may present.
type DocumentType string

const (
	DocumentPassport       DocumentType = "passport"
	DocumentNationalID     DocumentType = "national_id"
	DocumentDriversLicense DocumentType = "drivers_license"
	DocumentAadhaar        DocumentType = "aadhaar"
	DocumentUtilityBill    DocumentType = "utility_bill"
)

var catalog = []DocumentType{
	DocumentPassport,
	DocumentNationalID,
	DocumentDriversLicense,
	DocumentAadhaar,
	DocumentUtilityBill,
}

// DocumentCatalog returns every supported document type in display order.
func DocumentCatalog() []DocumentType {
	return slices.Clone(catalog)
}

func (d DocumentType) Valid() bool {
	return slices.Contains(catalog, d)
}
