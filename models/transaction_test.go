package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_SignedAmount(t *testing.T) {
	income := &Transaction{Amount: decimal.NewFromInt(200), Type: TransactionTypeIncome}
	expense := &Transaction{Amount: decimal.NewFromInt(75), Type: TransactionTypeExpense}

	assert.True(t, income.SignedAmount().Equal(decimal.NewFromInt(200)))
	assert.True(t, expense.SignedAmount().Equal(decimal.NewFromInt(-75)))
}

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, TransactionTypeIncome.Valid())
	assert.True(t, TransactionTypeExpense.Valid())
	assert.False(t, TransactionType("refund").Valid())
}

func TestDebt_Remaining(t *testing.T) {
	loan := &Debt{DebtType: DebtTypeCredit, Amount: decimal.NewFromInt(1000), PaidAmount: decimal.NewFromInt(250)}
	assert.True(t, loan.Remaining().Equal(decimal.NewFromInt(750)))
	assert.True(t, loan.AvailableCredit().IsZero())

	balance := decimal.NewFromInt(300)
	limit := decimal.NewFromInt(1000)
	card := &Debt{DebtType: DebtTypeCreditCard, CurrentBalance: &balance, CreditLimit: &limit}
	assert.True(t, card.Remaining().Equal(decimal.NewFromInt(300)))
	assert.True(t, card.AvailableCredit().Equal(decimal.NewFromInt(700)))
}

func TestGoal_Progress(t *testing.T) {
	g := &Goal{TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(250)}
	assert.InDelta(t, 25.0, g.Progress(), 0.0001)

	g.CurrentAmount = decimal.NewFromInt(1500)
	assert.Equal(t, 100.0, g.Progress())

	g.TargetAmount = decimal.Zero
	assert.Equal(t, 0.0, g.Progress())
}
