// internal/data/data.go - 数据层入口，聚合会话、缓存、筛选与通知
package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"notes-client/internal/api"
	"notes-client/internal/cache"
	"notes-client/internal/config"
	"notes-client/internal/models"
	"notes-client/internal/session"
	"notes-client/internal/state"
)

// 标签类型，与变更的失效表对应
const (
	tagNote       = "Note"
	tagCategory   = "Category"
	tagTag        = "Tag"
	tagUser       = "User"
	tagAttachment = "Attachment"
	tagShareLink  = "ShareLink"
	tagStorage    = "UserStorage"
)

type Store struct {
	cfg     *config.Config
	session *session.Store
	api     *api.Client
	cache   *cache.Store

	Filters *state.Filters
	Notices *state.Notifications
}

func New(cfg *config.Config) *Store {
	sess := session.New(cfg.API.TokenFile)
	sess.Load()

	s := &Store{
		cfg:     cfg,
		session: sess,
		api:     api.New(cfg.API, sess),
		cache:   cache.New(time.Duration(cfg.Cache.KeepUnusedSeconds) * time.Second),
		Filters: state.NewFilters(),
		Notices: state.NewNotifications(time.Duration(cfg.Notify.TTLSeconds) * time.Second),
	}

	// 任意接口 401 即强制登出，缓存全部作废
	s.api.SetOnAuthError(func() {
		s.session.Logout()
		s.cache.Clear()
		s.Notices.Error("登录已过期，请重新登录")
	})

	return s
}

func (s *Store) Session() *session.Store {
	return s.session
}

func (s *Store) Subscribe(key string) {
	s.cache.Subscribe(key)
}

func (s *Store) Unsubscribe(key string) {
	s.cache.Unsubscribe(key)
}

// 缓存键，与查询参数一一对应

func NoteListKey(req *models.NoteListRequest) string {
	var b strings.Builder
	b.WriteString("notes?page=")
	b.WriteString(strconv.Itoa(req.Page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(req.Limit))
	if req.CategoryID != nil {
		b.WriteString("&category_id=")
		b.WriteString(strconv.FormatUint(uint64(*req.CategoryID), 10))
	}
	if req.TagID != nil {
		b.WriteString("&tag_id=")
		b.WriteString(strconv.FormatUint(uint64(*req.TagID), 10))
	}
	if req.Search != "" {
		b.WriteString("&search=")
		b.WriteString(req.Search)
	}
	b.WriteString("&sort=")
	b.WriteString(req.Sort)
	b.WriteString("&order=")
	b.WriteString(req.Order)
	return b.String()
}

func NoteKey(id uint) string {
	return fmt.Sprintf("notes/%d", id)
}

func AttachmentsKey(noteID uint) string {
	return fmt.Sprintf("notes/%d/attachments", noteID)
}

func ShareInfoKey(noteID uint) string {
	return fmt.Sprintf("notes/%d/share", noteID)
}

const (
	StatsKey      = "notes/stats"
	CategoriesKey = "categories"
	TagsKey       = "tags"
	MeKey         = "auth/me"
	StorageKey    = "user/storage"
)
