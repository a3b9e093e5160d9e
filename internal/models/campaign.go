package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CampaignStatus string

const (
	CampaignStatusPending  CampaignStatus = "Pending"
	CampaignStatusApproved CampaignStatus = "Approved"
	CampaignStatusRejected CampaignStatus = "Rejected"
)

// Valid reports whether s is a known status
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusPending, CampaignStatusApproved, CampaignStatusRejected:
		return true
	}
	return false
}

type CampaignWarning string

const (
	CampaignWarningNone    CampaignWarning = "None"
	CampaignWarningWarning CampaignWarning = "Warning"
)

// Campaign is a fundraising request. RaisedAmount mirrors the donation sum
// and is only ever changed by the guarded increment in the donation ledger.
type Campaign struct {
	CampaignID    string          `gorm:"primaryKey;size:20" json:"campaign_id"`
	Title         string          `gorm:"size:255;not null;uniqueIndex:idx_campaign_title_beneficiary" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	GoalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"goal_amount"`
	RaisedAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"-"`
	Status        CampaignStatus  `gorm:"size:20;not null;default:Pending;index" json:"status"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Owner         *UserSummary    `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	BeneficiaryID string          `gorm:"size:20;not null;uniqueIndex:idx_campaign_title_beneficiary" json:"beneficiary_id"`
	CategoryID    string          `gorm:"size:20;not null;index" json:"category_id"`
	AdminID       string          `gorm:"size:20;index" json:"admin_id"`
	Warning       CampaignWarning `gorm:"size:10;not null;default:None" json:"warning"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignImage is an uploaded campaign picture
type CampaignImage struct {
	ImageID    string `gorm:"primaryKey;size:20" json:"image_id"`
	CampaignID string `gorm:"size:20;not null;index" json:"campaign_id"`
	ImagePath  string `gorm:"size:500;not null" json:"image_path"`
}

func (CampaignImage) TableName() string {
	return "campaign_images"
}

// CampaignFile is an uploaded supporting document
type CampaignFile struct {
	FileID     string `gorm:"primaryKey;size:20" json:"file_id"`
	CampaignID string `gorm:"size:20;not null;index" json:"campaign_id"`
	FilePath   string `gorm:"size:500;not null" json:"file_path"`
}

func (CampaignFile) TableName() string {
	return "campaign_files"
}

// CampaignView is a campaign decorated with computed and related data
type CampaignView struct {
	Campaign
	CategoryName  string          `json:"category_name"`
	RaisedAmount  decimal.Decimal `json:"raised_amount"`
	DonationCount int64           `json:"no_of_donations"`
	Images        []string        `json:"images"`
	Files         []string        `json:"files"`
}

// DashboardStats summarizes a campaign for its owner
type DashboardStats struct {
	CampaignID     string          `json:"campaign_id"`
	TotalDonated   decimal.Decimal `json:"total_donated"`
	GoalAmount     decimal.Decimal `json:"goal_amount"`
	LeftDonation   decimal.Decimal `json:"left_donation"`
	TotalDonors    int64           `json:"total_donors"`
	DonationsToday int64           `json:"donations_today"`
	AvgDonation    decimal.Decimal `json:"avg_donation"`
	TotalComments  int64           `json:"total_comments"`
	TotalShares    int64           `json:"total_shares"`
	DaysLeft       int             `json:"days_left"`
}
