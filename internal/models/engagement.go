package models

import "time"

// Update is a progress note posted by the campaign owner
type Update struct {
	UpdateID   string    `gorm:"primaryKey;size:20" json:"update_id"`
	UpdateText string    `gorm:"type:text;not null" json:"update_text"`
	CampaignID string    `gorm:"size:20;not null;index" json:"campaign_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Update) TableName() string {
	return "updates"
}

type CampaignComment struct {
	CommentID   string    `gorm:"primaryKey;size:20" json:"comment_id"`
	CampaignID  string    `gorm:"size:20;not null;index" json:"campaign_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Author      *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`
	CommentText string    `gorm:"type:text;not null" json:"comment_text"`
	CommentDate time.Time `gorm:"not null;index" json:"comment_date"`
}

func (CampaignComment) TableName() string {
	return "campaign_comments"
}

type CampaignShare struct {
	ShareID       string    `gorm:"primaryKey;size:20" json:"share_id"`
	CampaignID    string    `gorm:"size:20;not null;index" json:"campaign_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	SharePlatform string    `gorm:"size:50;not null" json:"share_platform"`
	ShareDate     time.Time `gorm:"not null;index" json:"share_date"`
}

func (CampaignShare) TableName() string {
	return "campaign_shares"
}

type CommentRequest struct {
	CommentText string `json:"comment_text" binding:"required"`
}

type ShareRequest struct {
	SharePlatform string `json:"share_platform" binding:"required"`
}

type UpdateRequest struct {
	UpdateText string `json:"update_text" binding:"required"`
}
