package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedExpense 计划支出
type PlannedExpense struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      *uint           `json:"user_id" gorm:"index"`
	Name        string          `json:"name" gorm:"size:128;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	PlannedDate time.Time       `json:"planned_date" gorm:"not null"`
	CategoryID  *uint           `json:"category_id"`
	AccountID   *uint           `json:"account_id"`
	Note        string          `json:"note" gorm:"size:256"`
	IsCompleted bool            `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (PlannedExpense) TableName() string {
	return "planned_expenses"
}
