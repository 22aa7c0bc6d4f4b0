package domain

import "time"

type Inquiry struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	HallID     int64     `json:"hall_id" gorm:"not null;index"`
	CustomerID *int64    `json:"customer_id,omitempty" gorm:"index"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Email      string    `json:"email" gorm:"size:120;not null"`
	Phone      string    `json:"phone" gorm:"size:20"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Inquiry) TableName() string { return "inquiries" }
