package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"notes-client/internal/config"
	"notes-client/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// TokenSource 提供当前会话令牌，为空表示未登录
type TokenSource interface {
	Token() string
}

type Client struct {
	http        *resty.Client
	tokens      TokenSource
	onAuthError func()
}

func New(cfg config.APIConfig, tokens TokenSource) *Client {
	c := &Client{tokens: tokens}

	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json")

	// 带上会话令牌
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token := c.tokens.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	return c
}

// 任何接口返回 401 时触发，用于强制登出
func (c *Client) SetOnAuthError(fn func()) {
	c.onAuthError = fn
}

func (c *Client) call(ctx context.Context, method, path string, body interface{}, query url.Values, out interface{}) error {
	return c.doCall(ctx, method, path, body, query, out, true)
}

// 公开分享接口的 401 是访问密码错误，不能当作会话失效
func (c *Client) callPublic(ctx context.Context, method, path string, query url.Values, out interface{}) error {
	return c.doCall(ctx, method, path, nil, query, out, false)
}

func (c *Client) doCall(ctx context.Context, method, path string, body interface{}, query url.Values, out interface{}, authed bool) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Warn("请求发送失败")
		return netError(err)
	}

	return c.decode(resp, out, authed)
}

func (c *Client) upload(ctx context.Context, path, filename string, r io.Reader, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, r).
		Post(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("文件上传失败")
		return netError(err)
	}

	return c.decode(resp, out, true)
}

func (c *Client) decode(resp *resty.Response, out interface{}, authed bool) error {
	var env models.Response
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			return c.fail(statusError(resp.StatusCode(), "", nil), authed)
		}
		return parseError()
	}

	if resp.IsError() || env.Code != http.StatusOK {
		status := resp.StatusCode()
		if resp.IsSuccess() {
			// 信封里的 code 才是权威结果
			status = env.Code
		}
		return c.fail(statusError(status, env.Message, env.Errors), authed)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return parseError()
		}
	}
	return nil
}

func (c *Client) fail(e *Error, authed bool) error {
	if authed && e.Kind == KindUnauthorized && c.onAuthError != nil {
		c.onAuthError()
	}
	return e
}
