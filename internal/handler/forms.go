package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 表单结构体：约束由 gin 绑定标签声明，校验引擎是 go-playground/validator

type registerForm struct {
	Name     string `form:"name" binding:"required,max=50"`
	Email    string `form:"email" binding:"required,email,max=100"`
	Password string `form:"password" binding:"required,max=72"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type postForm struct {
	Title    string `form:"title" binding:"required,max=250"`
	Subtitle string `form:"subtitle" binding:"required,max=250"`
	Body     string `form:"body" binding:"required"`
	ImgURL   string `form:"img_url" binding:"required,url,max=250"`
}

type commentForm struct {
	Text string `form:"comment" binding:"required"`
}

// fieldErrors 将绑定失败转换为按表单字段归类的提示文案，
// 供模板在对应输入框旁内联展示。
func fieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "The submitted form is invalid."
		return out
	}

	for _, fe := range verrs {
		out[formFieldName(fe.Field())] = fieldMessage(fe)
	}
	return out
}

func formFieldName(structField string) string {
	if structField == "ImgURL" {
		return "img_url"
	}
	return strings.ToLower(structField)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "max":
		return "This value is too long."
	default:
		return "This value is invalid."
	}
}
