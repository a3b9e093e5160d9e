package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeUPI        TransactionType = "upi"
	TransactionTypeCard       TransactionType = "card"
	TransactionTypeNetbanking TransactionType = "netbanking"
	TransactionTypeWallet     TransactionType = "wallet"
)

// Valid reports whether t is an accepted payment method
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeUPI, TransactionTypeCard, TransactionTypeNetbanking, TransactionTypeWallet:
		return true
	}
	return false
}

// Donation is an immutable ledger entry
type Donation struct {
	DonationID      string          `gorm:"primaryKey;size:20" json:"donation_id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Donor           *UserSummary    `gorm:"foreignKey:UserID" json:"donor,omitempty"`
	CampaignID      string          `gorm:"size:20;not null;index" json:"campaign_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	TransactionType TransactionType `gorm:"size:20;not null" json:"transaction_type"`
	DonationDate    time.Time       `gorm:"not null;index" json:"donation_date"`
}

func (Donation) TableName() string {
	return "donations"
}

// DonationEvent is published to live feed subscribers
type DonationEvent struct {
	Type         string          `json:"type"`
	CampaignID   string          `json:"campaign_id"`
	DonationID   string          `json:"donation_id"`
	DonorName    string          `json:"donor_name"`
	Amount       decimal.Decimal `json:"amount"`
	RaisedAmount decimal.Decimal `json:"raised_amount"`
	GoalAmount   decimal.Decimal `json:"goal_amount"`
	DonationDate time.Time       `json:"donation_date"`
}

// DonateRequest is the body of a donation submission
type DonateRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transaction_type" binding:"required"`
}
