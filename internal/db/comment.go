package db

import "gorm.io/gorm"

// Comment 定义了评论模型，每条评论归属一个用户和一篇文章
type Comment struct {
	gorm.Model
	Text   string `gorm:"type:text;not null"`
	UserID uint   `gorm:"not null"`
	User   User   `gorm:"constraint:OnDelete:CASCADE"`
	PostID uint   `gorm:"not null"`
	Post   Post   `gorm:"constraint:OnDelete:CASCADE"`
}
