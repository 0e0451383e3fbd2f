package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// addFlash 记录一条一次性提示消息，在下一次渲染时展示
func addFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
}

// consumeFlashes 读取并清空当前会话的闪现消息
func consumeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save()
	}

	messages := make([]string, 0, len(raw))
	for _, flash := range raw {
		if text, ok := flash.(string); ok {
			messages = append(messages, text)
		}
	}
	return messages
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "error.html", gin.H{
		"title":   "Not Found",
		"status":  http.StatusNotFound,
		"message": "The page you are looking for does not exist.",
	})
}

func (a *API) renderForbidden(c *gin.Context) {
	a.renderHTML(c, http.StatusForbidden, "error.html", gin.H{
		"title":   "Forbidden",
		"status":  http.StatusForbidden,
		"message": "You do not have access to this page.",
	})
}
