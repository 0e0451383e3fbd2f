package handler

import (
	"time"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	adminID  uint
}

// NewAPI constructs a handler set with shared services. adminID is the
// single distinguished identity allowed to author posts.
func NewAPI(db *gorm.DB, adminID uint) *API {
	return &API{
		db:       db,
		users:    service.NewUserService(db),
		posts:    service.NewPostService(db),
		comments: service.NewCommentService(db),
		adminID:  adminID,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// renderHTML 在向模板渲染时自动附加会话身份与闪现消息。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["flashes"]; !exists {
		payload["flashes"] = consumeFlashes(c)
	}

	userID, authenticated := currentUserID(c)
	payload["isAuthenticated"] = authenticated
	payload["currentUserID"] = userID
	payload["isAdmin"] = authenticated && userID == a.adminID
	if _, exists := payload["userName"]; !exists {
		payload["userName"] = currentUserName(c)
	}
	payload["year"] = time.Now().Year()

	c.HTML(status, template, payload)
}
