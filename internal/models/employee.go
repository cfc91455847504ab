package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Employee is the managed business record. AccountID links it to the
// EMPLOYEE account created with it and is never re-pointed.
type Employee struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	FirstName   string   `json:"firstName" gorm:"type:varchar(255);not null"`
	LastName    string   `json:"lastName" gorm:"type:varchar(255);not null"`
	Email       string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Salary      float64  `json:"salary"`
	Department  string   `json:"department" gorm:"type:varchar(255);not null"`
	JoiningDate Date     `json:"joiningDate"`
	AccountID   uint     `json:"-" gorm:"uniqueIndex;not null"`
	Account     *Account `json:"-" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

const DateLayout = "2006-01-02"

// Date is a calendar day without time of day, serialized as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate keeps the year, month and day of t as seen in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	return NewDate(time.Now())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must use the %s layout", DateLayout)
	}
	*d = parsed
	return nil
}

func (Date) GormDataType() string {
	return "date"
}

// Value implements the driver.Valuer interface
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

// Scan implements the sql.Scanner interface
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
