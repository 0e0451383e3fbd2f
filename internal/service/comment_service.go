package service

import (
	"errors"
	"strings"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/db"
	"gorm.io/gorm"
)

var ErrCommentEmpty = errors.New("comment text is required")

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// ListByPost returns a post's comments in insertion order with the
// comment authors preloaded.
func (s *CommentService) ListByPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Preload("User").Where("post_id = ?", postID).Order("id asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores a comment authored by userID under postID. The parent
// post must exist; a vanished post aborts without writing.
func (s *CommentService) Create(text string, userID, postID uint) (*db.Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrCommentEmpty
	}

	comment := db.Comment{Text: trimmed, UserID: userID, PostID: postID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}
