package service

import (
	"errors"

	"moneybook/repository"
)

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = repository.ErrNotFound

	ErrInvalidAmount     = errors.New("金额必须大于0")
	ErrInvalidFrequency  = errors.New("不支持的周期频率")
	ErrInvalidType       = errors.New("类型必须为 income 或 expense")
	ErrMissingStartDate  = errors.New("缺少开始日期")
	ErrInvalidDateRange  = errors.New("结束日期不能早于开始日期")
	ErrSameAccount       = errors.New("不能转账到同一账户")
	ErrInsufficientFunds = errors.New("账户余额不足")
	ErrInactiveAccount   = errors.New("账户已停用")
	ErrRuleExhausted     = errors.New("周期规则已结束，无法恢复")
	ErrEmptySelection    = errors.New("未选择任何流水")
)
