// pkg/validator/validator.go
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// 使用 JSON 标签名作为字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// 注册自定义验证规则
	registerCustomValidators()
}

func registerCustomValidators() {
	// 验证颜色代码
	validate.RegisterValidation("hexcolor", func(fl validator.FieldLevel) bool {
		color := fl.Field().String()
		if len(color) != 7 {
			return false
		}
		if color[0] != '#' {
			return false
		}
		for _, char := range color[1:] {
			if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'f') || (char >= 'A' && char <= 'F')) {
				return false
			}
		}
		return true
	})
}

func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("%s", Message(errs))
		}
		return err
	}
	return nil
}

// 把校验错误转成可直接展示的提示
func Message(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s 不能为空", e.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s 格式不正确", e.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s 长度不能小于 %s", e.Field(), e.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s 长度不能超过 %s", e.Field(), e.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s 取值无效", e.Field()))
		case "hexcolor":
			parts = append(parts, fmt.Sprintf("%s 不是有效的颜色代码", e.Field()))
		case "eqfield":
			parts = append(parts, fmt.Sprintf("%s 两次输入不一致", e.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s 校验失败", e.Field()))
		}
	}
	return "验证失败: " + strings.Join(parts, "; ")
}

func GetValidator() *validator.Validate {
	return validate
}
