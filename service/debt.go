package service

import (
	"context"
	"time"

	"moneybook/models"
	"moneybook/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Debts 债务还款
type Debts struct {
	store repository.Store
	log   logrus.FieldLogger
}

// NewDebts 创建债务服务
func NewDebts(store repository.Store, log logrus.FieldLogger) *Debts {
	return &Debts{store: store, log: log}
}

// PaymentInput 还款参数
type PaymentInput struct {
	Amount            decimal.Decimal
	Date              time.Time
	CreateTransaction bool
}

// PaymentResult 还款结果，未记流水时 Transaction 为空
type PaymentResult struct {
	Debt        *models.Debt        `json:"debt"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

const debtRepaymentColor = "#f85149"

// MakePayment 登记一次还款。
// 信用卡减少当前欠款（不低于0），其他类型增加已还金额（不超过总额）。
// 还款日恰为计划还款日时，计划还款日顺延一个月
func (s *Debts) MakePayment(ctx context.Context, userID, id uint, in PaymentInput) (*PaymentResult, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	res := &PaymentResult{}
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		d, err := tx.GetDebt(ctx, &userID, id)
		if err != nil {
			return err
		}

		applyPayment(d, in.Amount)

		if in.CreateTransaction {
			cat, err := tx.FindOrCreateCategory(ctx, &userID, models.CategoryDebtRepayment, debtRepaymentColor)
			if err != nil {
				return err
			}
			t := &models.Transaction{
				UserID:     &userID,
				Date:       in.Date,
				Amount:     in.Amount,
				Type:       models.TransactionTypeExpense,
				CategoryID: &cat.ID,
				AccountID:  d.AccountID,
				Note:       "Payment for " + d.Name,
				Source:     models.SourceDebt,
			}
			if err := post(ctx, tx, t); err != nil {
				return err
			}
			res.Transaction = t
		}

		if d.PaymentDate != nil && models.SameDay(*d.PaymentDate, in.Date) {
			next := models.AddMonthsClamped(*d.PaymentDate, 1)
			d.PaymentDate = &next
		}
		if err := tx.SaveDebt(ctx, d); err != nil {
			return err
		}
		res.Debt = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "debt_id": id, "amount": in.Amount.String()}).Info("登记还款")
	return res, nil
}

func applyPayment(d *models.Debt, amount decimal.Decimal) {
	if d.DebtType == models.DebtTypeCreditCard {
		balance := decimal.Zero
		if d.CurrentBalance != nil {
			balance = *d.CurrentBalance
		}
		balance = balance.Sub(amount)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		d.CurrentBalance = &balance
		return
	}
	paid := d.PaidAmount.Add(amount)
	if paid.GreaterThan(d.Amount) {
		paid = d.Amount
	}
	d.PaidAmount = paid
}
