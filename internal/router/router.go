package router

import (
	"os"
	"path/filepath"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/db"
	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// 会话有效期，登出或过期后回到匿名身份
const sessionMaxAge = 30 * 24 * 60 * 60

// SetupRouter 配置 Gin 引擎和路由。sessionSecret 用于签名会话 Cookie，
// adminID 是唯一拥有文章管理权限的用户 ID。
func SetupRouter(sessionSecret string, adminID uint) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("lightblog_session", store))

	// 加载模板
	r.LoadHTMLGlob(filepath.Join(templateRoot(), "*.html"))

	api := handler.NewAPI(db.DB, adminID)

	r.GET("/", api.ShowHome)

	r.GET("/register", api.ShowRegisterPage)
	r.POST("/register", api.Register)
	r.GET("/login", api.ShowLoginPage)
	r.POST("/login", api.Login)

	r.GET("/post/:id", api.ShowPost)
	r.POST("/post/:id", api.AddComment)

	r.GET("/about", api.ShowAbout)
	r.GET("/contact", api.ShowContact)

	// 需要登录的路由
	auth := r.Group("")
	auth.Use(api.AuthRequired())
	{
		auth.GET("/logout", api.Logout)
	}

	// 仅管理员可用的文章管理路由
	admin := r.Group("")
	admin.Use(api.AdminRequired())
	{
		admin.GET("/new-post", api.ShowNewPostPage)
		admin.POST("/new-post", api.CreatePost)
		admin.GET("/edit-post/:id", api.ShowEditPostPage)
		admin.POST("/edit-post/:id", api.UpdatePost)
		admin.GET("/delete/:id", api.DeletePost)
	}

	return r
}

// templateRoot 从当前目录向上查找模板目录，测试会在各自的包目录下运行
func templateRoot() string {
	for _, base := range []string{".", "..", "../..", "../../.."} {
		candidate := filepath.Join(base, "web", "template")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return filepath.Join("web", "template")
}
