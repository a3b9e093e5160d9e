package models

type BeneficiaryType string

var BeneficiaryTypes = []BeneficiaryType{
	"Individual",
	"Family",
	"Child",
	"Student",
	"NGO",
	"Patient",
	"Community",
	"Animal Shelter",
	"School",
	"Hospital",
	"Refugee",
	"Elderly",
	"Disabled Person",
	"Women Empowerment Group",
}

// Valid reports whether t is one of BeneficiaryTypes
func (t BeneficiaryType) Valid() bool {
	for _, known := range BeneficiaryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Beneficiary is deduplicated by (name, address) and shared across campaigns
type Beneficiary struct {
	BeneficiaryID string          `gorm:"primaryKey;size:20" json:"beneficiary_id"`
	Name          string          `gorm:"column:beneficiary_name;size:255;not null;uniqueIndex:idx_beneficiary_name_address" json:"beneficiary_name"`
	Type          BeneficiaryType `gorm:"column:beneficiary_type;size:50;not null" json:"beneficiary_type"`
	Description   string          `gorm:"type:text" json:"description"`
	Address       string          `gorm:"size:500;not null;uniqueIndex:idx_beneficiary_name_address" json:"address"`
}

func (Beneficiary) TableName() string {
	return "beneficiaries"
}
