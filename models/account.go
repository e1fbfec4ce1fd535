package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account 资金账户，Balance 是所有关联流水影响之和的缓存
type Account struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    *uint           `json:"user_id" gorm:"index"`
	Name      string          `json:"name" gorm:"size:64;not null"`
	Balance   decimal.Decimal `json:"balance" gorm:"type:decimal(14,2);not null;default:0"`
	Currency  string          `json:"currency" gorm:"size:3;not null"`
	IsActive  bool            `json:"is_active" gorm:"not null;default:true"`
	Notes     string          `json:"notes" gorm:"size:256"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName 设置表名
func (Account) TableName() string {
	return "accounts"
}
