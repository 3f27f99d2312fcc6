package models

import "time"

// Color codes stored on every record and on each month column.
const (
	ColorUnset  = 0
	ColorRed    = 1
	ColorYellow = 2
	ColorGreen  = 3
)

// ValidUpdateColor reports whether a color may be written by a month
// update. The unset code is only a creation default, never an update value.
func ValidUpdateColor(color int) bool {
	return color == ColorRed || color == ColorYellow || color == ColorGreen
}

// MonthColumns lists the twelve color columns in calendar order; index i
// holds the column for calendar month i+1. All code addresses the columns
// through this table so the per-month wire shape stays in one place.
var MonthColumns = [...]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// ColumnForMonth maps a calendar month number (1-12) to its column name.
func ColumnForMonth(month int) (string, bool) {
	if month < 1 || month > len(MonthColumns) {
		return "", false
	}
	return MonthColumns[month-1], true
}

// Month is the satellite row holding one color code per calendar month.
// Each row is owned by exactly one Market and is soft-deleted with it.
type Month struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Jan       int       `json:"JAN" gorm:"column:JAN"`
	Feb       int       `json:"FEB" gorm:"column:FEB"`
	Mar       int       `json:"MAR" gorm:"column:MAR"`
	Apr       int       `json:"APR" gorm:"column:APR"`
	May       int       `json:"MAY" gorm:"column:MAY"`
	Jun       int       `json:"JUN" gorm:"column:JUN"`
	Jul       int       `json:"JUL" gorm:"column:JUL"`
	Aug       int       `json:"AUG" gorm:"column:AUG"`
	Sep       int       `json:"SEP" gorm:"column:SEP"`
	Oct       int       `json:"OCT" gorm:"column:OCT"`
	Nov       int       `json:"NOV" gorm:"column:NOV"`
	Dec       int       `json:"DEC" gorm:"column:DEC"`
	IsDeleted bool      `json:"-" gorm:"default:false;index"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName sets the table name
func (Month) TableName() string {
	return "months"
}

// Colors returns the twelve color codes in calendar order.
func (m *Month) Colors() [12]int {
	return [12]int{m.Jan, m.Feb, m.Mar, m.Apr, m.May, m.Jun, m.Jul, m.Aug, m.Sep, m.Oct, m.Nov, m.Dec}
}

// AllGreen returns a Month with every calendar month set to the green code,
// the state a fresh market starts in.
func AllGreen() Month {
	return Month{
		Jan: ColorGreen, Feb: ColorGreen, Mar: ColorGreen, Apr: ColorGreen,
		May: ColorGreen, Jun: ColorGreen, Jul: ColorGreen, Aug: ColorGreen,
		Sep: ColorGreen, Oct: ColorGreen, Nov: ColorGreen, Dec: ColorGreen,
	}
}
