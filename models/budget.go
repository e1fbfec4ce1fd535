package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget 某类别在一段时间内的支出预算
type Budget struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      *uint           `json:"user_id" gorm:"index"`
	CategoryID  uint            `json:"category_id" gorm:"index;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	PeriodStart time.Time       `json:"period_start" gorm:"not null"`
	PeriodEnd   time.Time       `json:"period_end" gorm:"not null"`
	IsActive    bool            `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Budget) TableName() string {
	return "budgets"
}
