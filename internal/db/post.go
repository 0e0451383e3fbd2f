package db

import "gorm.io/gorm"

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title    string `gorm:"size:250;unique;not null"`
	Subtitle string `gorm:"size:250;not null"`
	Date     string `gorm:"size:250;not null"`
	Body     string `gorm:"type:text;not null"`
	ImgURL   string `gorm:"size:250;not null"`
	UserID   uint   `gorm:"not null"`
	User     User   `gorm:"constraint:OnDelete:CASCADE"`
}
