package models

import "time"

// Inhibit is a tracked blocker record, filed against a year and month.
type Inhibit struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	InhibitTa     string    `json:"inhibit_ta" gorm:"type:text"`
	InhibitMrahs  string    `json:"inhibit_mrahs" gorm:"type:text"`
	ActivRequired string    `json:"activ_required" gorm:"type:text"`
	ImpactedTasks string    `json:"impacted_tasks" gorm:"type:text"`
	Comment       string    `json:"comment" gorm:"type:longtext"`
	ColorComment  int       `json:"color_comment"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	CreatedBy     uint      `json:"-"`
	UpdatedBy     uint      `json:"-"`
	IsDeleted     bool      `json:"-" gorm:"default:false;index"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`

	CreatedByUser *User `json:"created_by_user,omitempty" gorm:"foreignKey:CreatedBy"`
	UpdatedByUser *User `json:"updated_by_user,omitempty" gorm:"foreignKey:UpdatedBy"`
}

// TableName sets the table name
func (Inhibit) TableName() string {
	return "inhibits"
}
