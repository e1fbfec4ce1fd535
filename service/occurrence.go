package service

import (
	"context"
	"errors"
	"time"

	"moneybook/config"
	"moneybook/models"
	"moneybook/repository"

	"github.com/sirupsen/logrus"
)

// Generator 把到期的周期规则展开成流水
type Generator struct {
	store repository.Store
	cfg   config.RecurringConfig
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewGenerator 创建生成器
func NewGenerator(store repository.Store, cfg config.RecurringConfig, log logrus.FieldLogger) *Generator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	return &Generator{store: store, cfg: cfg, log: log, now: time.Now}
}

// RunOptions 生成参数。Cutoff 为零值时取当前时间，UserID 为空时处理所有用户
type RunOptions struct {
	Cutoff time.Time
	UserID *uint
}

// RunResult 一次生成的结果。Err 非空时本次没有任何写入生效
type RunResult struct {
	Created     int   `json:"created"`
	Rules       int   `json:"rules"`
	Deactivated int   `json:"deactivated"`
	Attempts    int   `json:"attempts"`
	Err         error `json:"-"`
}

// Run 生成截止时间之前（含）所有到期的流水。整批在一个事务中提交，
// 游标冲突时整批回滚并从最新状态重试
func (g *Generator) Run(ctx context.Context, opts RunOptions) RunResult {
	cutoff := opts.Cutoff
	if cutoff.IsZero() {
		cutoff = g.now()
	}
	entry := g.log.WithField("cutoff", cutoff.Format(time.RFC3339))
	if opts.UserID != nil {
		entry = entry.WithField("user_id", *opts.UserID)
	}

	var res RunResult
	for attempt := 1; attempt <= g.cfg.MaxRetries; attempt++ {
		res = g.runOnce(ctx, cutoff, opts.UserID)
		res.Attempts = attempt
		if res.Err == nil {
			if res.Created > 0 || res.Deactivated > 0 {
				entry.WithFields(logrus.Fields{
					"created":     res.Created,
					"rules":       res.Rules,
					"deactivated": res.Deactivated,
				}).Info("周期流水已生成")
			}
			return res
		}
		if !errors.Is(res.Err, repository.ErrCursorConflict) || ctx.Err() != nil {
			break
		}
		entry.WithField("attempt", attempt).Warn("周期规则游标冲突，重试")
	}
	entry.WithError(res.Err).WithField("attempts", res.Attempts).Error("生成周期流水失败")
	return res
}

func (g *Generator) runOnce(ctx context.Context, cutoff time.Time, userID *uint) RunResult {
	var res RunResult
	err := g.store.Transaction(ctx, func(tx repository.Tx) error {
		res = RunResult{}
		rules, err := tx.ActiveRecurrings(ctx, userID)
		if err != nil {
			return err
		}
		for i := range rules {
			created, err := g.materialize(ctx, tx, &rules[i], cutoff)
			if err != nil {
				return err
			}
			res.Created += created
			res.Rules++
			if !rules[i].Active {
				res.Deactivated++
			}
		}
		return nil
	})
	if err != nil {
		return RunResult{Err: err}
	}
	return res
}

// materialize 展开单条规则并写回游标
func (g *Generator) materialize(ctx context.Context, tx repository.Tx, r *models.Recurring, cutoff time.Time) (int, error) {
	prev := r.NextDate
	cursor := r.Cursor()
	created := 0

	for !cursor.After(cutoff) {
		if r.PastEnd(cursor) {
			break
		}
		if g.cfg.MaxOccurrencesPerRule > 0 && created >= g.cfg.MaxOccurrencesPerRule {
			g.log.WithField("rule_id", r.ID).Warn("单次生成数量达到上限，剩余部分下次继续")
			break
		}
		t := &models.Transaction{
			UserID:     r.UserID,
			Date:       cursor,
			Amount:     r.Amount,
			Type:       r.Type,
			CategoryID: r.CategoryID,
			AccountID:  r.AccountID,
			Note:       r.GeneratedNote(),
			Source:     models.SourceRecurring,
		}
		if err := post(ctx, tx, t); err != nil {
			return 0, err
		}
		created++
		cursor = r.Frequency.Next(cursor)
	}

	if r.PastEnd(cursor) {
		r.Active = false
		r.NextDate = nil
	} else {
		next := cursor
		r.NextDate = &next
	}
	if err := tx.AdvanceRecurring(ctx, r, prev); err != nil {
		return 0, err
	}
	return created, nil
}
