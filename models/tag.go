package models

import "time"

// DefaultTagColor 未指定颜色时的标签颜色
const DefaultTagColor = "#8b5cf6"

// Tag 流水标签。UserID 为空表示共享标签
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	Name      string    `json:"name" gorm:"size:64;not null"`
	Color     string    `json:"color" gorm:"size:7;default:#8b5cf6"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}
