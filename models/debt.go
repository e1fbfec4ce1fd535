package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtType 债务类型
type DebtType string

const (
	DebtTypeDebt       DebtType = "debt"
	DebtTypeCredit     DebtType = "credit"
	DebtTypeCreditCard DebtType = "credit_card"
)

// Debt 借款、贷款或信用卡
type Debt struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	UserID         *uint            `json:"user_id" gorm:"index"`
	Name           string           `json:"name" gorm:"size:128;not null"`
	DebtType       DebtType         `json:"debt_type" gorm:"size:16;not null;default:debt"`
	Amount         decimal.Decimal  `json:"amount" gorm:"type:decimal(14,2);not null"`
	PaidAmount     decimal.Decimal  `json:"paid_amount" gorm:"type:decimal(14,2);not null;default:0"`
	CurrentBalance *decimal.Decimal `json:"current_balance" gorm:"type:decimal(14,2)"` // 仅信用卡
	CreditLimit    *decimal.Decimal `json:"credit_limit" gorm:"type:decimal(14,2)"`
	IsOwedToMe     bool             `json:"is_owed_to_me" gorm:"not null;default:false"`
	InterestRate   *decimal.Decimal `json:"interest_rate" gorm:"type:decimal(6,3)"`
	PaymentDate    *time.Time       `json:"payment_date"`
	PaymentAmount  *decimal.Decimal `json:"payment_amount" gorm:"type:decimal(14,2)"`
	MinPayment     *decimal.Decimal `json:"min_payment" gorm:"type:decimal(14,2)"`
	DueDate        *time.Time       `json:"due_date"`
	AccountID      *uint            `json:"account_id" gorm:"index"`
	Notes          string           `json:"notes" gorm:"size:512"`
	IsActive       bool             `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (Debt) TableName() string {
	return "debts"
}

// Remaining 剩余未还金额
func (d *Debt) Remaining() decimal.Decimal {
	if d.DebtType == DebtTypeCreditCard {
		if d.CurrentBalance == nil {
			return decimal.Zero
		}
		return *d.CurrentBalance
	}
	return d.Amount.Sub(d.PaidAmount)
}

// AvailableCredit 信用卡可用额度
func (d *Debt) AvailableCredit() decimal.Decimal {
	if d.DebtType != DebtTypeCreditCard || d.CreditLimit == nil {
		return decimal.Zero
	}
	available := d.CreditLimit.Sub(d.Remaining())
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}
