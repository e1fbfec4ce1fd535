package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"moneybook/models"
	"moneybook/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// memState 内存中的数据，Transaction 失败时整体还原
type memState struct {
	nextID       uint
	accounts     map[uint]models.Account
	transactions map[uint]models.Transaction
	recurrings   map[uint]models.Recurring
	templates    map[uint]models.TransactionTemplate
	debts        map[uint]models.Debt
	categories   map[uint]models.Category
	tags         map[uint]models.Tag
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:       s.nextID,
		accounts:     make(map[uint]models.Account, len(s.accounts)),
		transactions: make(map[uint]models.Transaction, len(s.transactions)),
		recurrings:   make(map[uint]models.Recurring, len(s.recurrings)),
		templates:    make(map[uint]models.TransactionTemplate, len(s.templates)),
		debts:        make(map[uint]models.Debt, len(s.debts)),
		categories:   make(map[uint]models.Category, len(s.categories)),
		tags:         make(map[uint]models.Tag, len(s.tags)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.recurrings {
		c.recurrings[k] = v
	}
	for k, v := range s.templates {
		c.templates[k] = v
	}
	for k, v := range s.debts {
		c.debts[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	return c
}

// memStore 满足 repository.Store 的内存实现
type memStore struct {
	mu    sync.Mutex
	state *memState

	// failAdjustAt 第 n 次余额调整返回错误，0 表示不注入
	failAdjustAt int
	adjustCalls  int
	// conflicts 前 n 次游标写入模拟并发冲突
	conflicts int
	txCount   int
	// locked GetAccountForUpdate 依次锁定的账户
	locked []uint
}

func newMemStore() *memStore {
	return &memStore{state: (&memState{}).clone()}
}

func (m *memStore) id() uint {
	m.state.nextID++
	return m.state.nextID
}

func (m *memStore) Transaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCount++
	snapshot := m.state.clone()
	if err := fn(&memTx{m: m}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// 测试数据准备

func (m *memStore) addAccount(userID uint, name string, balance int64) uint {
	id := m.id()
	m.state.accounts[id] = models.Account{ID: id, UserID: &userID, Name: name, Balance: decimal.NewFromInt(balance), Currency: "RUB", IsActive: true}
	return id
}

func (m *memStore) addTag(userID *uint, name string) uint {
	id := m.id()
	m.state.tags[id] = models.Tag{ID: id, UserID: userID, Name: name, Color: models.DefaultTagColor}
	return id
}

func (m *memStore) addRecurring(r models.Recurring) uint {
	r.ID = m.id()
	if r.NextDate == nil && r.Active {
		start := r.StartDate
		r.NextDate = &start
	}
	m.state.recurrings[r.ID] = r
	return r.ID
}

func (m *memStore) balance(id uint) decimal.Decimal {
	return m.state.accounts[id].Balance
}

func (m *memStore) recurring(id uint) models.Recurring {
	return m.state.recurrings[id]
}

// list 按日期和 id 排序的全部流水
func (m *memStore) list() []models.Transaction {
	out := make([]models.Transaction, 0, len(m.state.transactions))
	for _, t := range m.state.transactions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type memTx struct {
	m *memStore
}

func visible(owner, userID *uint) bool {
	return userID == nil || (owner != nil && *owner == *userID)
}

func missing(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, repository.ErrNotFound)
}

func (t *memTx) GetAccount(ctx context.Context, userID *uint, id uint) (*models.Account, error) {
	a, ok := t.m.state.accounts[id]
	if !ok || !visible(a.UserID, userID) {
		return nil, missing("账户", id)
	}
	return &a, nil
}

func (t *memTx) GetAccountForUpdate(ctx context.Context, userID *uint, id uint) (*models.Account, error) {
	a, err := t.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.m.locked = append(t.m.locked, id)
	return a, nil
}

func (t *memTx) AdjustBalance(ctx context.Context, accountID uint, delta decimal.Decimal) error {
	t.m.adjustCalls++
	if t.m.failAdjustAt > 0 && t.m.adjustCalls == t.m.failAdjustAt {
		return errors.New("injected failure")
	}
	a, ok := t.m.state.accounts[accountID]
	if !ok {
		return missing("账户", accountID)
	}
	a.Balance = a.Balance.Add(delta)
	t.m.state.accounts[accountID] = a
	return nil
}

func (t *memTx) CreateTransaction(ctx context.Context, tr *models.Transaction) error {
	tr.ID = t.m.id()
	t.m.state.transactions[tr.ID] = *tr
	return nil
}

func (t *memTx) GetTransaction(ctx context.Context, userID *uint, id uint) (*models.Transaction, error) {
	tr, ok := t.m.state.transactions[id]
	if !ok || !visible(tr.UserID, userID) {
		return nil, missing("流水", id)
	}
	return &tr, nil
}

func (t *memTx) FindTransactions(ctx context.Context, userID *uint, ids []uint) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, id := range ids {
		if tr, ok := t.m.state.transactions[id]; ok && visible(tr.UserID, userID) {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (t *memTx) UpdateTransaction(ctx context.Context, tr *models.Transaction) error {
	if _, ok := t.m.state.transactions[tr.ID]; !ok {
		return missing("流水", tr.ID)
	}
	t.m.state.transactions[tr.ID] = *tr
	return nil
}

func (t *memTx) DeleteTransaction(ctx context.Context, id uint) error {
	if _, ok := t.m.state.transactions[id]; !ok {
		return missing("流水", id)
	}
	delete(t.m.state.transactions, id)
	return nil
}

func (t *memTx) SetTransactionTags(ctx context.Context, userID *uint, tr *models.Transaction, tagIDs []uint) error {
	stored, ok := t.m.state.transactions[tr.ID]
	if !ok {
		return missing("流水", tr.ID)
	}
	tags := []models.Tag{}
	seen := map[uint]bool{}
	for _, id := range tagIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		tag, ok := t.m.state.tags[id]
		if !ok || (tag.UserID != nil && !visible(tag.UserID, userID)) {
			return missing("标签", id)
		}
		tags = append(tags, tag)
	}
	stored.Tags = tags
	t.m.state.transactions[tr.ID] = stored
	tr.Tags = tags
	return nil
}

func (t *memTx) CreateRecurring(ctx context.Context, r *models.Recurring) error {
	r.ID = t.m.id()
	t.m.state.recurrings[r.ID] = *r
	return nil
}

func (t *memTx) GetRecurring(ctx context.Context, userID *uint, id uint) (*models.Recurring, error) {
	r, ok := t.m.state.recurrings[id]
	if !ok || !visible(r.UserID, userID) {
		return nil, missing("规则", id)
	}
	return &r, nil
}

func (t *memTx) ListRecurrings(ctx context.Context, userID *uint) ([]models.Recurring, error) {
	var out []models.Recurring
	for _, r := range t.m.state.recurrings {
		if visible(r.UserID, userID) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (t *memTx) ActiveRecurrings(ctx context.Context, userID *uint) ([]models.Recurring, error) {
	var out []models.Recurring
	for _, r := range t.m.state.recurrings {
		if r.Active && visible(r.UserID, userID) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func sameCursor(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (t *memTx) AdvanceRecurring(ctx context.Context, r *models.Recurring, prev *time.Time) error {
	if t.m.conflicts > 0 {
		t.m.conflicts--
		return fmt.Errorf("规则 %d: %w", r.ID, repository.ErrCursorConflict)
	}
	stored, ok := t.m.state.recurrings[r.ID]
	if !ok || !sameCursor(stored.NextDate, prev) {
		return fmt.Errorf("规则 %d: %w", r.ID, repository.ErrCursorConflict)
	}
	stored.NextDate = r.NextDate
	stored.Active = r.Active
	t.m.state.recurrings[r.ID] = stored
	return nil
}

func (t *memTx) SetRecurringActive(ctx context.Context, id uint, active bool) error {
	r, ok := t.m.state.recurrings[id]
	if !ok {
		return missing("规则", id)
	}
	r.Active = active
	t.m.state.recurrings[id] = r
	return nil
}

func (t *memTx) DeleteRecurring(ctx context.Context, id uint) error {
	if _, ok := t.m.state.recurrings[id]; !ok {
		return missing("规则", id)
	}
	delete(t.m.state.recurrings, id)
	return nil
}

func (t *memTx) GetTemplate(ctx context.Context, userID *uint, id uint) (*models.TransactionTemplate, error) {
	tpl, ok := t.m.state.templates[id]
	if !ok || !visible(tpl.UserID, userID) {
		return nil, missing("模板", id)
	}
	return &tpl, nil
}

func (t *memTx) IncrementTemplateUse(ctx context.Context, id uint) error {
	tpl := t.m.state.templates[id]
	tpl.UseCount++
	t.m.state.templates[id] = tpl
	return nil
}

func (t *memTx) GetDebt(ctx context.Context, userID *uint, id uint) (*models.Debt, error) {
	d, ok := t.m.state.debts[id]
	if !ok || !visible(d.UserID, userID) {
		return nil, missing("债务", id)
	}
	return &d, nil
}

func (t *memTx) SaveDebt(ctx context.Context, d *models.Debt) error {
	t.m.state.debts[d.ID] = *d
	return nil
}

func (t *memTx) FindOrCreateCategory(ctx context.Context, userID *uint, name, color string) (*models.Category, error) {
	for _, c := range t.m.state.categories {
		if c.Name == name && (c.UserID == nil || visible(c.UserID, userID)) {
			return &c, nil
		}
	}
	c := models.Category{ID: t.m.id(), UserID: userID, Name: name, Color: color}
	t.m.state.categories[c.ID] = c
	return &c, nil
}

func quietLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func uintp(v uint) *uint {
	return &v
}
