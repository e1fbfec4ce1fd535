package service

import (
	"context"
	"time"

	"moneybook/models"
	"moneybook/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Recurrings 周期记账规则管理
type Recurrings struct {
	store repository.Store
	log   logrus.FieldLogger
}

// NewRecurrings 创建周期规则服务
func NewRecurrings(store repository.Store, log logrus.FieldLogger) *Recurrings {
	return &Recurrings{store: store, log: log}
}

// RecurringInput 新建规则的参数
type RecurringInput struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Frequency  models.Frequency
	Amount     decimal.Decimal
	Type       models.TransactionType
	CategoryID *uint
	AccountID  *uint
	Note       string
}

func (in *RecurringInput) validate() error {
	if in.StartDate == nil || in.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !in.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	if in.EndDate != nil && models.DateAfter(*in.StartDate, *in.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Create 新建规则，游标从开始日期起算
func (s *Recurrings) Create(ctx context.Context, userID uint, in RecurringInput) (*models.Recurring, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	start := models.StartOfDay(*in.StartDate)
	next := start
	r := &models.Recurring{
		UserID:     &userID,
		StartDate:  start,
		Frequency:  in.Frequency,
		Amount:     in.Amount,
		Type:       in.Type,
		CategoryID: in.CategoryID,
		AccountID:  in.AccountID,
		Note:       in.Note,
		Active:     true,
		NextDate:   &next,
	}
	if in.EndDate != nil {
		end := models.StartOfDay(*in.EndDate)
		r.EndDate = &end
	}

	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		if err := ownAccount(ctx, tx, userID, in.AccountID); err != nil {
			return err
		}
		return tx.CreateRecurring(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "rule_id": r.ID, "frequency": r.Frequency}).Info("创建周期规则")
	return r, nil
}

// List 当前用户的全部规则
func (s *Recurrings) List(ctx context.Context, userID uint) ([]models.Recurring, error) {
	var list []models.Recurring
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		var err error
		list, err = tx.ListRecurrings(ctx, &userID)
		return err
	})
	return list, err
}

// Get 获取单条规则
func (s *Recurrings) Get(ctx context.Context, userID, id uint) (*models.Recurring, error) {
	var r *models.Recurring
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		var err error
		r, err = tx.GetRecurring(ctx, &userID, id)
		return err
	})
	return r, err
}

// SetActive 暂停或恢复规则。已结束的规则没有游标，不能恢复
func (s *Recurrings) SetActive(ctx context.Context, userID, id uint, active bool) (*models.Recurring, error) {
	var r *models.Recurring
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		var err error
		r, err = tx.GetRecurring(ctx, &userID, id)
		if err != nil {
			return err
		}
		if active && r.NextDate == nil {
			return ErrRuleExhausted
		}
		if r.Active == active {
			return nil
		}
		if err := tx.SetRecurringActive(ctx, r.ID, active); err != nil {
			return err
		}
		r.Active = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Delete 删除规则，已生成的流水保留
func (s *Recurrings) Delete(ctx context.Context, userID, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Tx) error {
		r, err := tx.GetRecurring(ctx, &userID, id)
		if err != nil {
			return err
		}
		return tx.DeleteRecurring(ctx, r.ID)
	})
}
