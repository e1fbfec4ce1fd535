package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneybook/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 gorm 的 Store 实现
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction 在一个数据库事务中执行 fn，fn 返回错误时整体回滚
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

// owned 按用户过滤
func owned(db *gorm.DB, userID *uint) *gorm.DB {
	if userID == nil {
		return db
	}
	return db.Where("user_id = ?", *userID)
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("查询%s失败: %w", what, err)
}

func (t *gormTx) GetAccount(ctx context.Context, userID *uint, id uint) (*models.Account, error) {
	var acc models.Account
	if err := owned(t.db.WithContext(ctx), userID).First(&acc, id).Error; err != nil {
		return nil, notFound(err, "账户")
	}
	return &acc, nil
}

func (t *gormTx) GetAccountForUpdate(ctx context.Context, userID *uint, id uint) (*models.Account, error) {
	var acc models.Account
	err := owned(t.db.WithContext(ctx), userID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acc, id).Error
	if err != nil {
		return nil, notFound(err, "账户")
	}
	return &acc, nil
}

func (t *gormTx) AdjustBalance(ctx context.Context, accountID uint, delta decimal.Decimal) error {
	res := t.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("更新账户余额失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("账户 %d: %w", accountID, ErrNotFound)
	}
	return nil
}

func (t *gormTx) CreateTransaction(ctx context.Context, tr *models.Transaction) error {
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(tr).Error; err != nil {
		return fmt.Errorf("写入流水失败: %w", err)
	}
	return nil
}

func (t *gormTx) GetTransaction(ctx context.Context, userID *uint, id uint) (*models.Transaction, error) {
	var tr models.Transaction
	if err := owned(t.db.WithContext(ctx), userID).First(&tr, id).Error; err != nil {
		return nil, notFound(err, "流水")
	}
	return &tr, nil
}

func (t *gormTx) FindTransactions(ctx context.Context, userID *uint, ids []uint) ([]models.Transaction, error) {
	var list []models.Transaction
	if len(ids) == 0 {
		return list, nil
	}
	if err := owned(t.db.WithContext(ctx), userID).Where("id IN ?", ids).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询流水失败: %w", err)
	}
	return list, nil
}

func (t *gormTx) UpdateTransaction(ctx context.Context, tr *models.Transaction) error {
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Save(tr).Error; err != nil {
		return fmt.Errorf("更新流水失败: %w", err)
	}
	return nil
}

func (t *gormTx) DeleteTransaction(ctx context.Context, id uint) error {
	res := t.db.WithContext(ctx).Delete(&models.Transaction{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除流水失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("流水 %d: %w", id, ErrNotFound)
	}
	return nil
}

func (t *gormTx) SetTransactionTags(ctx context.Context, userID *uint, tr *models.Transaction, tagIDs []uint) error {
	tags := []models.Tag{}
	if ids := uniqueIDs(tagIDs); len(ids) > 0 {
		q := t.db.WithContext(ctx).Where("id IN ?", ids)
		if userID != nil {
			q = q.Where("user_id IS NULL OR user_id = ?", *userID)
		}
		if err := q.Find(&tags).Error; err != nil {
			return fmt.Errorf("查询标签失败: %w", err)
		}
		if len(tags) != len(ids) {
			return fmt.Errorf("标签: %w", ErrNotFound)
		}
	}
	if err := t.db.WithContext(ctx).Model(tr).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("更新流水标签失败: %w", err)
	}
	tr.Tags = tags
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (t *gormTx) CreateRecurring(ctx context.Context, r *models.Recurring) error {
	if err := t.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("创建周期规则失败: %w", err)
	}
	return nil
}

func (t *gormTx) GetRecurring(ctx context.Context, userID *uint, id uint) (*models.Recurring, error) {
	var r models.Recurring
	if err := owned(t.db.WithContext(ctx), userID).First(&r, id).Error; err != nil {
		return nil, notFound(err, "周期规则")
	}
	return &r, nil
}

func (t *gormTx) ListRecurrings(ctx context.Context, userID *uint) ([]models.Recurring, error) {
	var list []models.Recurring
	if err := owned(t.db.WithContext(ctx), userID).Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询周期规则失败: %w", err)
	}
	return list, nil
}

func (t *gormTx) ActiveRecurrings(ctx context.Context, userID *uint) ([]models.Recurring, error) {
	var list []models.Recurring
	if err := owned(t.db.WithContext(ctx), userID).Where("active = ?", true).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询启用的周期规则失败: %w", err)
	}
	return list, nil
}

func (t *gormTx) AdvanceRecurring(ctx context.Context, r *models.Recurring, prev *time.Time) error {
	q := t.db.WithContext(ctx).Model(&models.Recurring{}).Where("id = ?", r.ID)
	if prev == nil {
		q = q.Where("next_date IS NULL")
	} else {
		q = q.Where("next_date = ?", *prev)
	}
	res := q.Updates(map[string]interface{}{
		"next_date": r.NextDate,
		"active":    r.Active,
	})
	if res.Error != nil {
		return fmt.Errorf("更新周期规则游标失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("规则 %d: %w", r.ID, ErrCursorConflict)
	}
	return nil
}

func (t *gormTx) SetRecurringActive(ctx context.Context, id uint, active bool) error {
	res := t.db.WithContext(ctx).Model(&models.Recurring{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("更新周期规则失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("规则 %d: %w", id, ErrNotFound)
	}
	return nil
}

func (t *gormTx) DeleteRecurring(ctx context.Context, id uint) error {
	res := t.db.WithContext(ctx).Delete(&models.Recurring{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除周期规则失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("规则 %d: %w", id, ErrNotFound)
	}
	return nil
}

func (t *gormTx) GetTemplate(ctx context.Context, userID *uint, id uint) (*models.TransactionTemplate, error) {
	var tpl models.TransactionTemplate
	if err := owned(t.db.WithContext(ctx), userID).First(&tpl, id).Error; err != nil {
		return nil, notFound(err, "模板")
	}
	return &tpl, nil
}

func (t *gormTx) IncrementTemplateUse(ctx context.Context, id uint) error {
	err := t.db.WithContext(ctx).Model(&models.TransactionTemplate{}).
		Where("id = ?", id).
		Update("use_count", gorm.Expr("use_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("更新模板使用次数失败: %w", err)
	}
	return nil
}

func (t *gormTx) GetDebt(ctx context.Context, userID *uint, id uint) (*models.Debt, error) {
	var d models.Debt
	if err := owned(t.db.WithContext(ctx), userID).First(&d, id).Error; err != nil {
		return nil, notFound(err, "债务")
	}
	return &d, nil
}

func (t *gormTx) SaveDebt(ctx context.Context, d *models.Debt) error {
	if err := t.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("保存债务失败: %w", err)
	}
	return nil
}

func (t *gormTx) FindOrCreateCategory(ctx context.Context, userID *uint, name, color string) (*models.Category, error) {
	var cat models.Category
	q := t.db.WithContext(ctx).Where("name = ?", name)
	if userID != nil {
		q = q.Where("user_id IS NULL OR user_id = ?", *userID)
	}
	err := q.Order("user_id DESC").First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询类别失败: %w", err)
	}
	cat = models.Category{UserID: userID, Name: name, Color: color}
	if err := t.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("创建类别失败: %w", err)
	}
	return &cat, nil
}
