package models

// CategoryNames is the seeded catalog, in ID order
var CategoryNames = []string{
	"Education",
	"Health",
	"Environment",
	"Women Empowerment",
	"Animal Welfare",
	"Disaster Relief",
	"Child Welfare",
	"Elderly Support",
	"Mental Health",
	"Medical Emergency",
	"Rural Development",
	"Human Rights",
	"Clean Water & Sanitation",
	"Food & Nutrition",
	"Orphan Care",
	"Community Development",
	"Refugee Support",
	"Disability Support",
	"Sports for Good",
	"Arts & Culture",
}

type Category struct {
	CategoryID string `gorm:"primaryKey;size:20" json:"category_id"`
	Name       string `gorm:"column:category_name;size:100;uniqueIndex;not null" json:"category_name"`
}

func (Category) TableName() string {
	return "categories"
}
