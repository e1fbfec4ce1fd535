package service

import (
	"context"
	"time"

	"moneybook/models"
	"moneybook/repository"
)

// Templates 按模板快速记账
type Templates struct {
	store repository.Store
}

// NewTemplates 创建模板服务
func NewTemplates(store repository.Store) *Templates {
	return &Templates{store: store}
}

// Use 按模板记一笔流水，日期为 at（零值取当前时间），同时累加模板使用次数
func (s *Templates) Use(ctx context.Context, userID, id uint, at time.Time) (*models.Transaction, error) {
	if at.IsZero() {
		at = time.Now()
	}

	var t *models.Transaction
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		tpl, err := tx.GetTemplate(ctx, &userID, id)
		if err != nil {
			return err
		}
		if !tpl.Amount.IsPositive() {
			return ErrInvalidAmount
		}
		if err := ownAccount(ctx, tx, userID, tpl.AccountID); err != nil {
			return err
		}
		note := tpl.Note
		if note == "" {
			note = tpl.Name
		}
		t = &models.Transaction{
			UserID:     &userID,
			Date:       at,
			Amount:     tpl.Amount,
			Type:       tpl.Type,
			CategoryID: tpl.CategoryID,
			AccountID:  tpl.AccountID,
			Note:       note,
			Source:     models.SourceTemplate,
		}
		if err := post(ctx, tx, t); err != nil {
			return err
		}
		return tx.IncrementTemplateUse(ctx, tpl.ID)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
