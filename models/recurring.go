package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency 周期频率
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid 是否为可识别的频率
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Next 按频率推进一步。无法识别的频率按月处理
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	default:
		return AddMonthsClamped(t, 1)
	}
}

// AddMonthsClamped 按自然月推进，目标月份没有该日时取当月最后一天（1月31日 -> 2月28日）
func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// StartOfDay 截断到当天零点
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateAfter 按日历日期比较 a 是否晚于 b，忽略时分秒
func DateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

// SameDay 是否为同一日历日
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Recurring 周期记账规则。NextDate 是游标：下一次尚未生成的日期，规则结束后为空
type Recurring struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     *uint           `json:"user_id" gorm:"index"`
	StartDate  time.Time       `json:"start_date" gorm:"not null"`
	EndDate    *time.Time      `json:"end_date"`
	Frequency  Frequency       `json:"frequency" gorm:"size:16;not null"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Type       TransactionType `json:"type" gorm:"size:16;not null"`
	CategoryID *uint           `json:"category_id" gorm:"index"`
	AccountID  *uint           `json:"account_id" gorm:"index"`
	Note       string          `json:"note" gorm:"size:256"`
	Active     bool            `json:"active" gorm:"not null;default:true;index"`
	NextDate   *time.Time      `json:"next_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName 设置表名
func (Recurring) TableName() string {
	return "recurrings"
}

// Cursor 当前游标，未设置时从开始日期算起
func (r *Recurring) Cursor() time.Time {
	if r.NextDate != nil {
		return *r.NextDate
	}
	return r.StartDate
}

// PastEnd 游标日期是否已越过结束日期（结束日期当天仍会生成）
func (r *Recurring) PastEnd(cursor time.Time) bool {
	return r.EndDate != nil && DateAfter(cursor, *r.EndDate)
}

// GeneratedNote 生成流水使用的备注
func (r *Recurring) GeneratedNote() string {
	if r.Note == "" {
		return RecurringNoteSuffix[1:]
	}
	return r.Note + RecurringNoteSuffix
}
