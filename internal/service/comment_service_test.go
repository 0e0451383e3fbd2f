package service

import (
	"errors"
	"testing"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/db"
)

func TestCreateCommentRequiresExistingPost(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedTestUser(t, "Reader", "reader@example.com")
	svc := NewCommentService(db.DB)

	if _, err := svc.Create("hello", user.ID, 999); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	var count int64
	db.DB.Model(&db.Comment{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no comment rows, got %d", count)
	}
}

func TestCreateCommentRejectsEmptyText(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	user := seedTestUser(t, "Reader", "reader@example.com")
	post, err := NewPostService(db.DB).Create(PostInput{Title: "P", Subtitle: "s", Body: "b", ImgURL: "https://example.com/1.jpg"}, user.ID)
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	svc := NewCommentService(db.DB)
	if _, err := svc.Create("  \n\t ", user.ID, post.ID); !errors.Is(err, ErrCommentEmpty) {
		t.Fatalf("expected ErrCommentEmpty, got %v", err)
	}
}

func TestListByPostInsertionOrderWithAuthors(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	author := seedTestUser(t, "Author", "author@example.com")
	reader := seedTestUser(t, "Reader", "reader@example.com")

	posts := NewPostService(db.DB)
	post, err := posts.Create(PostInput{Title: "P", Subtitle: "s", Body: "b", ImgURL: "https://example.com/1.jpg"}, author.ID)
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	other, err := posts.Create(PostInput{Title: "Other", Subtitle: "s", Body: "b", ImgURL: "https://example.com/2.jpg"}, author.ID)
	if err != nil {
		t.Fatalf("failed to seed other post: %v", err)
	}

	svc := NewCommentService(db.DB)
	if _, err := svc.Create("first", reader.ID, post.ID); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	if _, err := svc.Create("elsewhere", reader.ID, other.ID); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	if _, err := svc.Create("second", author.ID, post.ID); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	comments, err := svc.ListByPost(post.ID)
	if err != nil {
		t.Fatalf("ListByPost returned error: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Text != "first" || comments[1].Text != "second" {
		t.Fatalf("unexpected order: %q, %q", comments[0].Text, comments[1].Text)
	}
	if comments[0].User.Name != "Reader" || comments[1].User.Name != "Author" {
		t.Fatalf("expected authors preloaded, got %q, %q", comments[0].User.Name, comments[1].User.Name)
	}
}
