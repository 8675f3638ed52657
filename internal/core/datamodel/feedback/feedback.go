package feedback

import (
	"time"
)

// Feedback is one row of the append-only feedback table.
type Feedback struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"column:name;size:100;not null"`
	Department string    `json:"department" gorm:"column:department;size:50;not null"`
	Rating     int       `json:"rating" gorm:"column:rating;not null"`
	Comment    *string   `json:"comment,omitempty" gorm:"column:comment"`
	Category   string    `json:"category" gorm:"column:category;size:50"`
	Timestamp  time.Time `json:"timestamp" gorm:"column:timestamp"`
}

// TableName returns the table name for GORM
func (Feedback) TableName() string {
	return "feedback"
}
