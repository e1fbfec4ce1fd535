// Package repository 持久化访问层。所有写操作都在 Store.Transaction 打开的工作单元内完成，
// 流水写入与账户余额变更因此总是一起提交或一起回滚。
package repository

import (
	"context"
	"errors"
	"time"

	"moneybook/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("记录不存在")
	// ErrCursorConflict 周期规则游标已被其他写入者推进
	ErrCursorConflict = errors.New("周期规则游标冲突")
)

// Store 工作单元入口
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx 单个工作单元内可用的操作。userID 为 nil 时不按用户过滤（系统任务）
type Tx interface {
	GetAccount(ctx context.Context, userID *uint, id uint) (*models.Account, error)
	// GetAccountForUpdate 读取并锁定账户行直到工作单元结束
	GetAccountForUpdate(ctx context.Context, userID *uint, id uint) (*models.Account, error)
	AdjustBalance(ctx context.Context, accountID uint, delta decimal.Decimal) error

	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, userID *uint, id uint) (*models.Transaction, error)
	FindTransactions(ctx context.Context, userID *uint, ids []uint) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id uint) error
	// SetTransactionTags 用 tagIDs 替换流水的标签，标签须为共享或属于 userID
	SetTransactionTags(ctx context.Context, userID *uint, t *models.Transaction, tagIDs []uint) error

	CreateRecurring(ctx context.Context, r *models.Recurring) error
	GetRecurring(ctx context.Context, userID *uint, id uint) (*models.Recurring, error)
	ListRecurrings(ctx context.Context, userID *uint) ([]models.Recurring, error)
	ActiveRecurrings(ctx context.Context, userID *uint) ([]models.Recurring, error)
	// AdvanceRecurring 写回游标与启用状态，仅当库中游标仍等于 prev 时生效，否则返回 ErrCursorConflict
	AdvanceRecurring(ctx context.Context, r *models.Recurring, prev *time.Time) error
	SetRecurringActive(ctx context.Context, id uint, active bool) error
	DeleteRecurring(ctx context.Context, id uint) error

	GetTemplate(ctx context.Context, userID *uint, id uint) (*models.TransactionTemplate, error)
	IncrementTemplateUse(ctx context.Context, id uint) error

	GetDebt(ctx context.Context, userID *uint, id uint) (*models.Debt, error)
	SaveDebt(ctx context.Context, d *models.Debt) error

	// FindOrCreateCategory 查找用户可见的同名类别，不存在时为该用户创建
	FindOrCreateCategory(ctx context.Context, userID *uint, name, color string) (*models.Category, error)
}
