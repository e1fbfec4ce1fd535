package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal 储蓄目标
type Goal struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        *uint           `json:"user_id" gorm:"index"`
	Name          string          `json:"name" gorm:"size:128;not null"`
	TargetAmount  decimal.Decimal `json:"target_amount" gorm:"type:decimal(14,2);not null"`
	CurrentAmount decimal.Decimal `json:"current_amount" gorm:"type:decimal(14,2);not null;default:0"`
	CategoryID    *uint           `json:"category_id"`
	TargetDate    *time.Time      `json:"target_date"`
	Active        bool            `json:"active" gorm:"not null;default:true"`
	Notes         string          `json:"notes" gorm:"size:256"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Goal) TableName() string {
	return "goals"
}

// Progress 完成百分比，上限 100
func (g *Goal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	p, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if p > 100 {
		return 100
	}
	return p
}
