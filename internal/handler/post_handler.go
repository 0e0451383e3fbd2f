package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/db"
	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/service"
	"github.com/gin-gonic/gin"
)

// commentView 为模板准备的评论展示数据
type commentView struct {
	AuthorName string
	AvatarURL  string
	Body       template.HTML
}

// ShowHome 渲染文章列表首页，按写入顺序展示全部文章
func (a *API) ShowHome(c *gin.Context) {
	posts, err := a.posts.ListAll()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "index.html", gin.H{
			"title": "Blog",
			"error": "Failed to load posts.",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "index.html", gin.H{
		"title": "Blog",
		"posts": posts,
	})
}

// ShowPost 渲染单篇文章及其评论
func (a *API) ShowPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c)
			return
		}
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Error",
			"message": "Failed to load post.",
		})
		return
	}

	a.renderPostPage(c, http.StatusOK, post, nil)
}

// AddComment 处理文章页的评论提交。匿名访问者被引导到登录页，
// 不写入任何数据。
func (a *API) AddComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	userID, authenticated := currentUserID(c)
	if !authenticated {
		addFlash(c, "You need to login.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c)
			return
		}
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Error",
			"message": "Failed to load post.",
		})
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderPostPage(c, http.StatusBadRequest, post, fieldErrors(err))
		return
	}

	if _, err := a.comments.Create(form.Text, userID, post.ID); err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Error",
			"message": "Failed to save comment.",
		})
		return
	}

	// 重新渲染，评论列表包含刚写入的一条
	a.renderPostPage(c, http.StatusOK, post, nil)
}

// renderPostPage 加载评论并渲染文章详情页
func (a *API) renderPostPage(c *gin.Context, status int, post *db.Post, formErrors map[string]string) {
	comments, err := a.comments.ListByPost(post.ID)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Error",
			"message": "Failed to load comments.",
		})
		return
	}

	views := make([]commentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, commentView{
			AuthorName: comment.User.Name,
			AvatarURL:  avatarURL(comment.User.Email),
			Body:       renderMarkdown(comment.Text),
		})
	}

	a.renderHTML(c, status, "post.html", gin.H{
		"title":    post.Title,
		"post":     post,
		"bodyHTML": renderMarkdown(post.Body),
		"comments": views,
		"errors":   formErrors,
	})
}

// ShowNewPostPage 渲染新建文章页面
func (a *API) ShowNewPostPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "make-post.html", gin.H{
		"title": "New Post",
	})
}

// CreatePost 创建新文章，作者为当前登录的管理员，日期取当天
func (a *API) CreatePost(c *gin.Context) {
	userID, _ := currentUserID(c)

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderHTML(c, http.StatusBadRequest, "make-post.html", gin.H{
			"title":  "New Post",
			"errors": fieldErrors(err),
			"form":   postFormValues(c),
		})
		return
	}

	input := service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
	}

	if _, err := a.posts.Create(input, userID); err != nil {
		if errors.Is(err, service.ErrTitleTaken) {
			addFlash(c, "A post with this title already exists.")
			a.renderHTML(c, http.StatusConflict, "make-post.html", gin.H{
				"title": "New Post",
				"form":  postFormValues(c),
			})
			return
		}
		a.renderHTML(c, http.StatusInternalServerError, "make-post.html", gin.H{
			"title": "New Post",
			"error": "Failed to create post.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ShowEditPostPage 渲染文章编辑页面，表单预填现有字段
func (a *API) ShowEditPostPage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c)
			return
		}
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Error",
			"message": "Failed to load post.",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "make-post.html", gin.H{
		"title":  "Edit Post",
		"isEdit": true,
		"postID": post.ID,
		"form": gin.H{
			"title":    post.Title,
			"subtitle": post.Subtitle,
			"body":     post.Body,
			"img_url":  post.ImgURL,
		},
	})
}

// UpdatePost 覆盖文章全部字段，并把作者改为当前登录的管理员
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	userID, _ := currentUserID(c)

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderHTML(c, http.StatusBadRequest, "make-post.html", gin.H{
			"title":  "Edit Post",
			"isEdit": true,
			"postID": id,
			"errors": fieldErrors(err),
			"form":   postFormValues(c),
		})
		return
	}

	input := service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
	}

	post, err := a.posts.Update(id, input, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			a.renderNotFound(c)
		case errors.Is(err, service.ErrTitleTaken):
			addFlash(c, "A post with this title already exists.")
			a.renderHTML(c, http.StatusConflict, "make-post.html", gin.H{
				"title":  "Edit Post",
				"isEdit": true,
				"postID": id,
				"form":   postFormValues(c),
			})
		default:
			a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
				"title":   "Error",
				"message": "Failed to update post.",
			})
		}
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

// DeletePost 删除文章并级联删除其评论
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	if err := a.posts.Delete(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c)
			return
		}
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Error",
			"message": "Failed to delete post.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// postFormValues 回显提交的原始字段，校验失败时避免用户重填
func postFormValues(c *gin.Context) gin.H {
	return gin.H{
		"title":    c.PostForm("title"),
		"subtitle": c.PostForm("subtitle"),
		"body":     c.PostForm("body"),
		"img_url":  c.PostForm("img_url"),
	}
}
