package models

import "time"

// Market is a tracked farm-market record with a monthly color state.
// Invariant: ExpiredAgreement must fall in a calendar year strictly after
// Year. Every market owns exactly one Month row.
type Market struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	IDNum            int       `json:"id_num" gorm:"column:id_num;index"`
	NameMeshek       string    `json:"name_meshek" gorm:"size:255"`
	Year             int       `json:"year"`
	ExpiredAgreement time.Time `json:"expired_agreement" gorm:"type:date"`
	Comment          string    `json:"comment" gorm:"type:longtext"`
	ColorComment     int       `json:"color_comment"`
	IsOpen           bool      `json:"is_open"`
	MonthID          *uint     `json:"-" gorm:"index"`
	CreatedBy        uint      `json:"-"`
	UpdatedBy        uint      `json:"-"`
	IsDeleted        bool      `json:"-" gorm:"default:false;index"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`

	Month         *Month `json:"month,omitempty" gorm:"foreignKey:MonthID"`
	CreatedByUser *User  `json:"created_by_user,omitempty" gorm:"foreignKey:CreatedBy"`
	UpdatedByUser *User  `json:"updated_by_user,omitempty" gorm:"foreignKey:UpdatedBy"`
}

// TableName sets the table name
func (Market) TableName() string {
	return "markets"
}
