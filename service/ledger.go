package service

import (
	"context"
	"fmt"
	"time"

	"moneybook/models"
	"moneybook/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger 流水记账。写入、修改、删除流水与对应账户余额的变更在同一个工作单元内完成
type Ledger struct {
	store repository.Store
	log   logrus.FieldLogger
}

// NewLedger 创建记账服务
func NewLedger(store repository.Store, log logrus.FieldLogger) *Ledger {
	return &Ledger{store: store, log: log}
}

// TransactionInput 新建或修改流水的参数
type TransactionInput struct {
	Date       time.Time
	Amount     decimal.Decimal
	Type       models.TransactionType
	CategoryID *uint
	AccountID  *uint
	Note       string
	// TagIDs 为 nil 时修改不动标签，非 nil 时整体替换
	TagIDs []uint
}

func (in *TransactionInput) validate() error {
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// BulkEditInput 批量修改，只替换非空字段
type BulkEditInput struct {
	CategoryID *uint
	AccountID  *uint
}

// TransferInput 账户间转账
type TransferInput struct {
	FromAccountID uint
	ToAccountID   uint
	Amount        decimal.Decimal
	Date          time.Time
	Note          string
}

// post 写入流水并把带符号金额计入关联账户
func post(ctx context.Context, tx repository.Tx, t *models.Transaction) error {
	if err := tx.CreateTransaction(ctx, t); err != nil {
		return err
	}
	if t.AccountID == nil {
		return nil
	}
	return tx.AdjustBalance(ctx, *t.AccountID, t.SignedAmount())
}

// unpost 撤销流水对账户的影响，不删除流水本身
func unpost(ctx context.Context, tx repository.Tx, t *models.Transaction) error {
	if t.AccountID == nil {
		return nil
	}
	return tx.AdjustBalance(ctx, *t.AccountID, t.SignedAmount().Neg())
}

// ownAccount 校验账户属于当前用户
func ownAccount(ctx context.Context, tx repository.Tx, userID uint, accountID *uint) error {
	if accountID == nil {
		return nil
	}
	_, err := tx.GetAccount(ctx, &userID, *accountID)
	return err
}

// Create 新建流水
func (l *Ledger) Create(ctx context.Context, userID uint, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	t := &models.Transaction{
		UserID:     &userID,
		Date:       in.Date,
		Amount:     in.Amount,
		Type:       in.Type,
		CategoryID: in.CategoryID,
		AccountID:  in.AccountID,
		Note:       in.Note,
		Source:     models.SourceManual,
	}
	err := l.store.Transaction(ctx, func(tx repository.Tx) error {
		if err := ownAccount(ctx, tx, userID, in.AccountID); err != nil {
			return err
		}
		if err := post(ctx, tx, t); err != nil {
			return err
		}
		if len(in.TagIDs) == 0 {
			return nil
		}
		return tx.SetTransactionTags(ctx, &userID, t, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Update 修改流水。先在旧账户上撤销旧金额，再在新账户上计入新金额
func (l *Ledger) Update(ctx context.Context, userID, id uint, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var t *models.Transaction
	err := l.store.Transaction(ctx, func(tx repository.Tx) error {
		var err error
		t, err = tx.GetTransaction(ctx, &userID, id)
		if err != nil {
			return err
		}
		if err := ownAccount(ctx, tx, userID, in.AccountID); err != nil {
			return err
		}
		if err := unpost(ctx, tx, t); err != nil {
			return err
		}

		if !in.Date.IsZero() {
			t.Date = in.Date
		}
		t.Amount = in.Amount
		t.Type = in.Type
		t.CategoryID = in.CategoryID
		t.AccountID = in.AccountID
		t.Note = in.Note
		if err := tx.UpdateTransaction(ctx, t); err != nil {
			return err
		}
		if in.TagIDs != nil {
			if err := tx.SetTransactionTags(ctx, &userID, t, in.TagIDs); err != nil {
				return err
			}
		}
		if t.AccountID == nil {
			return nil
		}
		return tx.AdjustBalance(ctx, *t.AccountID, t.SignedAmount())
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete 删除流水并回滚其对账户余额的影响
func (l *Ledger) Delete(ctx context.Context, userID, id uint) error {
	return l.store.Transaction(ctx, func(tx repository.Tx) error {
		t, err := tx.GetTransaction(ctx, &userID, id)
		if err != nil {
			return err
		}
		if err := unpost(ctx, tx, t); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, t.ID)
	})
}

// BulkDelete 批量删除，返回删除条数。不属于当前用户的 id 被忽略
func (l *Ledger) BulkDelete(ctx context.Context, userID uint, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, ErrEmptySelection
	}
	deleted := 0
	err := l.store.Transaction(ctx, func(tx repository.Tx) error {
		deleted = 0
		list, err := tx.FindTransactions(ctx, &userID, ids)
		if err != nil {
			return err
		}
		for i := range list {
			if err := unpost(ctx, tx, &list[i]); err != nil {
				return err
			}
			if err := tx.DeleteTransaction(ctx, list[i].ID); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	l.log.WithFields(logrus.Fields{"user_id": userID, "deleted": deleted}).Info("批量删除流水")
	return deleted, nil
}

// BulkEdit 批量修改类别或账户。换账户时余额随流水一起迁移
func (l *Ledger) BulkEdit(ctx context.Context, userID uint, ids []uint, in BulkEditInput) (int, error) {
	if len(ids) == 0 {
		return 0, ErrEmptySelection
	}
	updated := 0
	err := l.store.Transaction(ctx, func(tx repository.Tx) error {
		updated = 0
		if err := ownAccount(ctx, tx, userID, in.AccountID); err != nil {
			return err
		}
		list, err := tx.FindTransactions(ctx, &userID, ids)
		if err != nil {
			return err
		}
		for i := range list {
			t := &list[i]
			if in.AccountID != nil {
				if err := unpost(ctx, tx, t); err != nil {
					return err
				}
				id := *in.AccountID
				t.AccountID = &id
				if err := tx.AdjustBalance(ctx, id, t.SignedAmount()); err != nil {
					return err
				}
			}
			if in.CategoryID != nil {
				id := *in.CategoryID
				t.CategoryID = &id
			}
			if err := tx.UpdateTransaction(ctx, t); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// lockPair 按 id 升序锁定两个账户，余额检查与扣款之间不会被并发转账插入
func lockPair(ctx context.Context, tx repository.Tx, userID, fromID, toID uint) (from, to *models.Account, err error) {
	first, second := fromID, toID
	if first > second {
		first, second = second, first
	}
	a, err := tx.GetAccountForUpdate(ctx, &userID, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := tx.GetAccountForUpdate(ctx, &userID, second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == fromID {
		return a, b, nil
	}
	return b, a, nil
}

// Transfer 账户间转账：源账户记一笔支出，目标账户记一笔收入
func (l *Ledger) Transfer(ctx context.Context, userID uint, in TransferInput) ([]models.Transaction, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, ErrSameAccount
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.Date.IsZero() {
		in.Date = models.StartOfDay(time.Now())
	}

	var out []models.Transaction
	err := l.store.Transaction(ctx, func(tx repository.Tx) error {
		from, to, err := lockPair(ctx, tx, userID, in.FromAccountID, in.ToAccountID)
		if err != nil {
			return err
		}
		if !from.IsActive || !to.IsActive {
			return ErrInactiveAccount
		}
		if from.Balance.LessThan(in.Amount) {
			return fmt.Errorf("%s: %w", from.Name, ErrInsufficientFunds)
		}

		suffix := ""
		if in.Note != "" {
			suffix = ": " + in.Note
		}
		expense := models.Transaction{
			UserID:    &userID,
			Date:      in.Date,
			Amount:    in.Amount,
			Type:      models.TransactionTypeExpense,
			AccountID: &from.ID,
			Note:      "Transfer to " + to.Name + suffix,
			Source:    models.SourceTransfer,
		}
		income := models.Transaction{
			UserID:    &userID,
			Date:      in.Date,
			Amount:    in.Amount,
			Type:      models.TransactionTypeIncome,
			AccountID: &to.ID,
			Note:      "Transfer from " + from.Name + suffix,
			Source:    models.SourceTransfer,
		}
		if err := post(ctx, tx, &expense); err != nil {
			return err
		}
		if err := post(ctx, tx, &income); err != nil {
			return err
		}
		out = []models.Transaction{expense, income}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
