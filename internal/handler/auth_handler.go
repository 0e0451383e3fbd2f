package handler

import (
	"errors"
	"net/http"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUserNameKey = "user_name"
)

// ShowRegisterPage 渲染注册页面
func (a *API) ShowRegisterPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title": "Register",
	})
}

// Register 处理注册请求。邮箱已存在时提示并跳转到登录页，
// 注册成功后不自动登录，跳回文章列表。
func (a *API) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderHTML(c, http.StatusBadRequest, "register.html", gin.H{
			"title":  "Register",
			"errors": fieldErrors(err),
			"name":   c.PostForm("name"),
			"email":  c.PostForm("email"),
		})
		return
	}

	if _, err := a.users.Register(form.Name, form.Email, form.Password); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			addFlash(c, "This email already exists. Please login.")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		a.renderHTML(c, http.StatusInternalServerError, "register.html", gin.H{
			"title": "Register",
			"error": "Registration failed, please try again.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Login",
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderHTML(c, http.StatusBadRequest, "login.html", gin.H{
			"title":  "Login",
			"errors": fieldErrors(err),
			"email":  c.PostForm("email"),
		})
		return
	}

	user, err := a.users.Authenticate(form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotFound):
			addFlash(c, "Email does not exist. Please try again.")
		case errors.Is(err, service.ErrPasswordIncorrect):
			addFlash(c, "Incorrect password. Please try again.")
		default:
			addFlash(c, "Login failed, please try again.")
		}
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
			"title": "Login",
			"email": form.Email,
		})
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUserNameKey, user.Name)
	if err := session.Save(); err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Login",
			"error": "Failed to save session.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

// AuthRequired 是一个简单的认证中间件，未登录时跳转到登录页
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired 保护仅管理员可用的操作：除非已登录且身份等于
// 配置的管理员 ID，一律返回 403。
func (a *API) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok || userID != a.adminID {
			a.renderForbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUserID 从会话解析当前身份，缺失或非法的会话视为匿名
func currentUserID(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	raw := session.Get(sessionUserIDKey)
	if raw == nil {
		return 0, false
	}
	id, ok := raw.(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

func currentUserName(c *gin.Context) string {
	session := sessions.Default(c)
	if name, ok := session.Get(sessionUserNameKey).(string); ok {
		return name
	}
	return ""
}
