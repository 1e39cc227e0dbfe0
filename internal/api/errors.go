package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// 错误分类，界面层只依赖这里给出的 Message
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindExpired
	KindServer
)

type Error struct {
	Status  int
	Kind    Kind
	Message string
	Errors  json.RawMessage
}

func (e *Error) Error() string {
	return e.Message
}

func netError(err error) *Error {
	msg := "网络连接失败，请检查网络设置"
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		msg = "请求超时，请稍后重试"
	}
	return &Error{Status: 0, Kind: KindNetwork, Message: msg}
}

func parseError() *Error {
	return &Error{Status: 0, Kind: KindServer, Message: "数据解析失败"}
}

// 按状态码给默认提示，服务端带 message 时优先使用
func statusError(status int, message string, rawErrors json.RawMessage) *Error {
	e := &Error{Status: status, Errors: rawErrors}

	switch {
	case status == http.StatusBadRequest:
		e.Kind = KindValidation
		e.Message = "请求参数错误"
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
		e.Message = "未授权，请重新登录"
	case status == http.StatusForbidden:
		e.Kind = KindForbidden
		e.Message = "访问被拒绝，权限不足"
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = "请求的资源不存在"
	case status == http.StatusGone:
		e.Kind = KindExpired
		e.Message = "分享链接已过期"
	case status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
		e.Message = "数据验证失败"
	case status >= 500:
		e.Kind = KindServer
		e.Message = "服务器内部错误，请稍后重试"
	default:
		e.Kind = KindServer
		e.Message = fmt.Sprintf("请求失败 (%d)", status)
	}

	if message != "" {
		e.Message = message
	}
	return e
}

func IsAuthError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindUnauthorized
}

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

func IsExpired(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindExpired
}
