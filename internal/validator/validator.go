package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// IsMobile 是一个自定义的校验函数，用于验证手机号格式
func IsMobile(fl validator.FieldLevel) bool {
	mobile := fl.Field().String()
	// 简单的手机号正则表达式
	re := regexp.MustCompile(`^1[3-9]\d{9}$`)
	return re.MatchString(mobile)
}

// IsMediaKind 校验附件类型字段，只允许 image / video
func IsMediaKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "image", "video":
		return true
	}
	return false
}
