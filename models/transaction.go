package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType 收支类型
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid 是否为可识别的收支类型
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Signed 返回金额对账户余额的影响：收入为正，支出为负
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

// TransactionSource 流水来源，仅作标记，不与来源实体建立外键
type TransactionSource string

const (
	SourceManual    TransactionSource = "manual"
	SourceTransfer  TransactionSource = "transfer"
	SourceTemplate  TransactionSource = "template"
	SourceDebt      TransactionSource = "debt"
	SourceRecurring TransactionSource = "recurring"
)

// RecurringNoteSuffix 周期规则生成的流水在备注末尾追加的标记
const RecurringNoteSuffix = " (recurring)"

// Transaction 收支流水
type Transaction struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	UserID     *uint             `json:"user_id" gorm:"index"`
	Date       time.Time         `json:"date" gorm:"index;not null"`
	Amount     decimal.Decimal   `json:"amount" gorm:"type:decimal(14,2);not null"`
	Type       TransactionType   `json:"type" gorm:"size:16;index;not null"`
	CategoryID *uint             `json:"category_id" gorm:"index"`
	AccountID  *uint             `json:"account_id" gorm:"index"`
	Note       string            `json:"note" gorm:"size:256"`
	Source     TransactionSource `json:"source" gorm:"size:16;default:manual"`
	Tags       []Tag             `json:"tags,omitempty" gorm:"many2many:transaction_tags"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount 本条流水对账户余额的影响
func (t *Transaction) SignedAmount() decimal.Decimal {
	return t.Type.Signed(t.Amount)
}
