package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 收支类别。UserID 为空表示所有用户共享的默认类别
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    *uint          `json:"user_id" gorm:"index"`
	Name      string         `json:"name" gorm:"size:64;not null"`
	Color     string         `json:"color" gorm:"size:7;default:#6366f1"`
	Icon      string         `json:"icon" gorm:"size:32"`
	Sort      int            `json:"sort" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryDebtRepayment 还款流水使用的类别名
const CategoryDebtRepayment = "Debt repayment"

// DefaultCategories 初始化时写入的共享类别及颜色
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Color: "#10b981"},
		{Name: "Food", Color: "#ef4444"},
		{Name: "Transport", Color: "#3b82f6"},
		{Name: "Housing", Color: "#14b8a6"},
		{Name: "Shopping", Color: "#a855f7"},
		{Name: "Health", Color: "#22c55e"},
		{Name: "Entertainment", Color: "#ec4899"},
		{Name: CategoryDebtRepayment, Color: "#f85149"},
		{Name: "Other", Color: "#64748b"},
	}
}
