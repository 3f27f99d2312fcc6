package models

import "time"

// Mission is a tracked mission record with per-month and per-year quota
// figures. The rekemadvanced endpoints expose the same rows with the
// per-month figures masked.
type Mission struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Platform           string    `json:"platform" gorm:"type:text"`
	Comment            string    `json:"comment" gorm:"type:longtext"`
	ColorComment       int       `json:"color_comment"`
	Month              int       `json:"month"`
	PlanWeekPerMonth   int       `json:"plan_week_per_month"`
	CumulativePerMonth int       `json:"cumulative_per_month"`
	Year               int       `json:"year"`
	PlanWeekPerYear    int       `json:"plan_week_per_year"`
	CumulativePerYear  int       `json:"cumulative_per_year"`
	CreatedBy          uint      `json:"-"`
	UpdatedBy          uint      `json:"-"`
	IsDeleted          bool      `json:"-" gorm:"default:false;index"`
	CreatedAt          time.Time `json:"-"`
	UpdatedAt          time.Time `json:"-"`

	CreatedByUser *User `json:"created_by_user,omitempty" gorm:"foreignKey:CreatedBy"`
	UpdatedByUser *User `json:"updated_by_user,omitempty" gorm:"foreignKey:UpdatedBy"`
}

// TableName sets the table name
func (Mission) TableName() string {
	return "missions"
}
