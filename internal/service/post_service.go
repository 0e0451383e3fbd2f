package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrTitleTaken   = errors.New("post title already exists")
)

// 文章展示用的日期格式，与既有数据保持一致
const postDateLayout = "January 02, 2006"

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// ListAll returns every post in insertion order with the author preloaded.
func (s *PostService) ListAll() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("User").Order("id asc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Get fetches a post by id with the author preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a post dated today and authored by authorID.
// A duplicate title aborts the transaction without writing anything.
func (s *PostService) Create(input PostInput, authorID uint) (*db.Post, error) {
	post := db.Post{
		Title:    strings.TrimSpace(input.Title),
		Subtitle: strings.TrimSpace(input.Subtitle),
		Body:     input.Body,
		ImgURL:   strings.TrimSpace(input.ImgURL),
		Date:     time.Now().Format(postDateLayout),
		UserID:   authorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureTitleFree(tx, post.Title, 0); err != nil {
			return err
		}
		return tx.Create(&post).Error
	})
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// Update overwrites every editable field and reassigns the author to
// authorID. The original creation date is kept.
func (s *PostService) Update(id uint, input PostInput, authorID uint) (*db.Post, error) {
	var post db.Post

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		title := strings.TrimSpace(input.Title)
		if err := ensureTitleFree(tx, title, post.ID); err != nil {
			return err
		}

		post.Title = title
		post.Subtitle = strings.TrimSpace(input.Subtitle)
		post.Body = input.Body
		post.ImgURL = strings.TrimSpace(input.ImgURL)
		post.UserID = authorID

		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// Delete removes a post and its comments in one transaction.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if err := tx.Unscoped().Where("post_id = ?", post.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&post).Error
	})
}

// ensureTitleFree 校验标题唯一性，selfID 用于编辑时跳过文章自身。
func ensureTitleFree(tx *gorm.DB, title string, selfID uint) error {
	var existing db.Post
	err := tx.Where("title = ?", title).First(&existing).Error
	if err == nil {
		if existing.ID == selfID {
			return nil
		}
		return ErrTitleTaken
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
