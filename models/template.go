package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionTemplate 常用流水模板
type TransactionTemplate struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     *uint           `json:"user_id" gorm:"index"`
	Name       string          `json:"name" gorm:"size:128;not null"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Type       TransactionType `json:"type" gorm:"size:16;not null"`
	CategoryID *uint           `json:"category_id"`
	AccountID  *uint           `json:"account_id"`
	Note       string          `json:"note" gorm:"size:256"`
	UseCount   int             `json:"use_count" gorm:"not null;default:0"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (TransactionTemplate) TableName() string {
	return "transaction_templates"
}
