package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"notes-client/internal/config"
	"notes-client/internal/models"

	"github.com/stretchr/testify/require"
)

const testToken = "tok-test"

// 内存版 notes-backend，只实现测试用到的路由和信封格式
type fakeBackend struct {
	mu sync.Mutex

	notes        map[uint]*models.Note
	nextNoteID   uint
	attachments  map[uint]*models.Attachment
	nextAttachID uint
	shares       map[uint]*fakeShare
	shareSeq     int
	storage      models.UserStorage

	listCalls    int
	statsCalls   int
	noteCalls    map[uint]int
	storageCalls int
	shareCalls   int
}

type fakeShare struct {
	code     string
	password string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		notes:       map[uint]*models.Note{},
		attachments: map[uint]*models.Attachment{},
		shares:      map[uint]*fakeShare{},
		noteCalls:   map[uint]int{},
		storage:     models.UserStorage{MaxSpace: 524288000},
	}
}

func writeEnv(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	env := map[string]interface{}{"code": status, "message": message}
	if data != nil {
		env["data"] = data
	}
	_ = json.NewEncoder(w).Encode(env)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	// 公开访问和认证接口不要求令牌
	if parts[0] == "public" {
		f.handlePublic(w, r, parts)
		return
	}
	if parts[0] == "auth" && len(parts) == 2 && (parts[1] == "login" || parts[1] == "register") {
		f.handleAuth(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeEnv(w, http.StatusUnauthorized, "缺少访问令牌", nil)
		return
	}

	switch parts[0] {
	case "notes":
		f.handleNotes(w, r, parts)
	case "attachments":
		if r.Method == http.MethodDelete && len(parts) == 2 {
			f.deleteAttachment(w, parts[1])
			return
		}
		writeEnv(w, http.StatusNotFound, "资源不存在", nil)
	case "user":
		if len(parts) == 2 && parts[1] == "storage" {
			f.storageCalls++
			writeEnv(w, http.StatusOK, "成功", f.storage)
			return
		}
		writeEnv(w, http.StatusNotFound, "资源不存在", nil)
	default:
		writeEnv(w, http.StatusNotFound, "资源不存在", nil)
	}
}

func (f *fakeBackend) handleAuth(w http.ResponseWriter, r *http.Request) {
	user := &models.User{ID: 1, Username: "huage", Email: "huage@example.com", Role: "user"}
	writeEnv(w, http.StatusOK, "登录成功", models.UserResponse{User: user, Token: testToken})
}

func (f *fakeBackend) handleNotes(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			f.listCalls++
			notes := make([]models.Note, 0, len(f.notes))
			for _, n := range f.notes {
				notes = append(notes, *n)
			}
			writeEnv(w, http.StatusOK, "成功", models.NoteList{
				Notes:      notes,
				Pagination: models.Pagination{Page: 1, Limit: 20, Total: len(notes), Pages: 1},
			})
		case http.MethodPost:
			var req models.NoteCreateRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.nextNoteID++
			note := &models.Note{
				ID:          f.nextNoteID,
				UserID:      1,
				Title:       req.Title,
				Content:     req.Content,
				ContentType: req.ContentType,
				CategoryID:  req.CategoryID,
				IsPublic:    req.IsPublic,
			}
			f.notes[note.ID] = note
			writeEnv(w, http.StatusOK, "创建成功", note)
		}
		return
	}

	if parts[1] == "stats" {
		f.statsCalls++
		stats := models.UserStats{TotalNotes: len(f.notes)}
		for _, n := range f.notes {
			if n.IsPublic {
				stats.PublicNotes++
			} else {
				stats.PrivateNotes++
			}
			stats.TotalViews += n.ViewCount
		}
		writeEnv(w, http.StatusOK, "成功", stats)
		return
	}

	id64, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		writeEnv(w, http.StatusBadRequest, "无效的笔记ID", nil)
		return
	}
	noteID := uint(id64)

	if len(parts) == 3 && parts[2] == "share" {
		f.handleShare(w, r, noteID)
		return
	}
	if len(parts) == 3 && parts[2] == "attachments" {
		f.handleAttachments(w, r, noteID)
		return
	}

	note, ok := f.notes[noteID]
	switch r.Method {
	case http.MethodGet:
		f.noteCalls[noteID]++
		if !ok {
			writeEnv(w, http.StatusNotFound, "笔记不存在", nil)
			return
		}
		writeEnv(w, http.StatusOK, "成功", note)
	case http.MethodPut:
		if !ok {
			writeEnv(w, http.StatusNotFound, "笔记不存在", nil)
			return
		}
		var req models.NoteUpdateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		note.Title = req.Title
		note.Content = req.Content
		note.CategoryID = req.CategoryID
		note.IsPublic = req.IsPublic
		writeEnv(w, http.StatusOK, "更新成功", note)
	case http.MethodDelete:
		if !ok {
			writeEnv(w, http.StatusNotFound, "笔记不存在", nil)
			return
		}
		delete(f.notes, noteID)
		delete(f.shares, noteID)
		for id, a := range f.attachments {
			if a.NoteID == noteID {
				delete(f.attachments, id)
			}
		}
		writeEnv(w, http.StatusOK, "删除成功", nil)
	}
}

func (f *fakeBackend) handleShare(w http.ResponseWriter, r *http.Request, noteID uint) {
	if _, ok := f.notes[noteID]; !ok {
		writeEnv(w, http.StatusNotFound, "笔记不存在", nil)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req models.ShareLinkCreateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.shareSeq++
		share := &fakeShare{code: fmt.Sprintf("code-%d", f.shareSeq)}
		if req.Password != nil {
			share.password = *req.Password
		}
		// 同一笔记只保留一条分享，重复创建即覆盖
		f.shares[noteID] = share
		writeEnv(w, http.StatusOK, "分享链接创建成功", models.ShareLinkResponse{
			ShareCode: share.code,
			ShareURL:  "http://localhost:3000/shared/" + share.code,
			Password:  req.Password,
		})
	case http.MethodGet:
		f.shareCalls++
		share, ok := f.shares[noteID]
		if !ok {
			writeEnv(w, http.StatusNotFound, "分享链接不存在", nil)
			return
		}
		writeEnv(w, http.StatusOK, "成功", models.ShareLinkResponse{
			ShareCode: share.code,
			ShareURL:  "http://localhost:3000/shared/" + share.code,
		})
	case http.MethodDelete:
		if _, ok := f.shares[noteID]; !ok {
			writeEnv(w, http.StatusNotFound, "分享链接不存在", nil)
			return
		}
		delete(f.shares, noteID)
		writeEnv(w, http.StatusOK, "分享链接删除成功", nil)
	}
}

func (f *fakeBackend) handleAttachments(w http.ResponseWriter, r *http.Request, noteID uint) {
	if _, ok := f.notes[noteID]; !ok {
		writeEnv(w, http.StatusNotFound, "笔记不存在", nil)
		return
	}

	switch r.Method {
	case http.MethodPost:
		file, header, err := r.FormFile("file")
		if err != nil {
			writeEnv(w, http.StatusBadRequest, "请求参数错误", nil)
			return
		}
		defer file.Close()
		size, _ := io.Copy(io.Discard, file)

		f.nextAttachID++
		attachment := &models.Attachment{
			ID:               f.nextAttachID,
			NoteID:           noteID,
			Filename:         header.Filename,
			OriginalFilename: header.Filename,
			FileSize:         size,
			FileType:         strings.TrimPrefix(filepath.Ext(header.Filename), "."),
		}
		f.attachments[attachment.ID] = attachment
		f.storage.UsedSpace += size
		f.storage.FileCount++
		writeEnv(w, http.StatusOK, "上传成功", attachment)
	case http.MethodGet:
		var out []models.Attachment
		for _, a := range f.attachments {
			if a.NoteID == noteID {
				out = append(out, *a)
			}
		}
		writeEnv(w, http.StatusOK, "成功", out)
	}
}

func (f *fakeBackend) deleteAttachment(w http.ResponseWriter, idStr string) {
	id64, _ := strconv.ParseUint(idStr, 10, 32)
	attachment, ok := f.attachments[uint(id64)]
	if !ok {
		writeEnv(w, http.StatusNotFound, "附件不存在", nil)
		return
	}
	delete(f.attachments, attachment.ID)
	f.storage.UsedSpace -= attachment.FileSize
	f.storage.FileCount--
	writeEnv(w, http.StatusOK, "删除成功", nil)
}

func (f *fakeBackend) handlePublic(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) != 3 || parts[1] != "notes" {
		writeEnv(w, http.StatusNotFound, "资源不存在", nil)
		return
	}
	code := parts[2]

	for noteID, share := range f.shares {
		if share.code != code {
			continue
		}
		if share.password != "" && r.URL.Query().Get("password") != share.password {
			writeEnv(w, http.StatusUnauthorized, "访问密码错误", nil)
			return
		}
		note := f.notes[noteID]
		note.ViewCount++
		writeEnv(w, http.StatusOK, "成功", note)
		return
	}
	writeEnv(w, http.StatusNotFound, "分享链接不存在或已失效", nil)
}

func newTestStore(t *testing.T, baseURL string) *Store {
	t.Helper()
	cfg := &config.Config{
		API: config.APIConfig{
			BaseURL:        baseURL,
			TimeoutSeconds: 2,
			TokenFile:      filepath.Join(t.TempDir(), "token.json"),
		},
		Cache:  config.CacheConfig{KeepUnusedSeconds: 60},
		Notify: config.NotifyConfig{TTLSeconds: 5},
	}
	return New(cfg)
}

func setup(t *testing.T) (*Store, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	store := newTestStore(t, ts.URL)
	require.NoError(t, store.Login(context.Background(), &models.UserLoginRequest{
		Email:    "huage@example.com",
		Password: "secret1",
	}))
	return store, backend
}

func TestNoteListCacheKeyDeterminism(t *testing.T) {
	store, backend := setup(t)
	ctx := context.Background()

	req := &models.NoteListRequest{Page: 1, Limit: 20}
	_, err := store.Notes(ctx, req)
	require.NoError(t, err)
	_, err = store.Notes(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 1, backend.listCalls, "相同参数连续两次读取只发一次请求")

	_, err = store.Notes(ctx, &models.NoteListRequest{Page: 2, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 2, backend.listCalls, "参数不同就是不同缓存键")
}

func TestCreateNoteRefreshesStatsAndList(t *testing.T) {
	store, backend := setup(t)
	ctx := context.Background()

	listReq := &models.NoteListRequest{}
	normalizeListRequest(listReq)
	store.Subscribe(NoteListKey(listReq))
	store.Subscribe(StatsKey)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalNotes)
	_, err = store.Notes(ctx, &models.NoteListRequest{})
	require.NoError(t, err)

	note, err := store.CreateNote(ctx, &models.NoteCreateRequest{
		Title: "T", Content: "C", ContentType: "markdown",
	})
	require.NoError(t, err)
	require.NotZero(t, note.ID)

	// 订阅中的统计与列表应已自动重拉
	require.Equal(t, 2, backend.statsCalls)
	require.Equal(t, 2, backend.listCalls)

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalNotes, "total_notes 恰好加一")
	require.Equal(t, 2, backend.statsCalls, "统计直接命中重拉后的缓存")

	list, err := store.Notes(ctx, &models.NoteListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Notes, 1)
	require.Equal(t, note.ID, list.Notes[0].ID)
}

func TestDeleteNoteLeavesNoStaleEntry(t *testing.T) {
	store, backend := setup(t)
	ctx := context.Background()

	note, err := store.CreateNote(ctx, &models.NoteCreateRequest{Title: "T", ContentType: "markdown"})
	require.NoError(t, err)

	got, err := store.Note(ctx, note.ID)
	require.NoError(t, err)
	require.Equal(t, "T", got.Title)
	require.Equal(t, 1, backend.noteCalls[note.ID])

	require.NoError(t, store.DeleteNote(ctx, note.ID))

	_, err = store.Note(ctx, note.ID)
	require.Error(t, err, "删除后的按 ID 读取绝不能命中旧缓存")
	require.Equal(t, 2, backend.noteCalls[note.ID], "触发了真实重拉")
}

func TestShareReplaceSemantics(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	note, err := store.CreateNote(ctx, &models.NoteCreateRequest{Title: "T", ContentType: "markdown", IsPublic: true})
	require.NoError(t, err)

	first, err := store.CreateShareLink(ctx, note.ID, &models.ShareLinkCreateRequest{})
	require.NoError(t, err)
	second, err := store.CreateShareLink(ctx, note.ID, &models.ShareLinkCreateRequest{})
	require.NoError(t, err)
	require.NotEqual(t, first.ShareCode, second.ShareCode)

	info, err := store.ShareInfo(ctx, note.ID)
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, second.ShareCode, info.ShareCode, "重复创建后读到最新的分享码")
}

func TestDeleteShareReadsAsNoShare(t *testing.T) {
	store, backend := setup(t)
	ctx := context.Background()

	note, err := store.CreateNote(ctx, &models.NoteCreateRequest{Title: "T", ContentType: "markdown", IsPublic: true})
	require.NoError(t, err)
	_, err = store.CreateShareLink(ctx, note.ID, &models.ShareLinkCreateRequest{})
	require.NoError(t, err)

	info, err := store.ShareInfo(ctx, note.ID)
	require.NoError(t, err)
	require.NotNil(t, info)

	require.NoError(t, store.DeleteShareLink(ctx, note.ID))

	info, err = store.ShareInfo(ctx, note.ID)
	require.NoError(t, err)
	require.Nil(t, info, "删除后必须读到无分享而不是旧数据")
	require.GreaterOrEqual(t, backend.shareCalls, 2)
}

func TestAttachmentQuotaRoundTrip(t *testing.T) {
	store, backend := setup(t)
	ctx := context.Background()

	note, err := store.CreateNote(ctx, &models.NoteCreateRequest{Title: "T", ContentType: "markdown"})
	require.NoError(t, err)

	before, err := store.Storage(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, before.UsedSpace)

	payload := bytes.Repeat([]byte("x"), 2<<20)
	attachment, err := store.UploadAttachment(ctx, note.ID, "report.pdf", bytes.NewReader(payload))
	require.NoError(t, err)
	require.EqualValues(t, len(payload), attachment.FileSize)

	after, err := store.Storage(ctx)
	require.NoError(t, err)
	require.EqualValues(t, len(payload), after.UsedSpace)
	require.Equal(t, before.FileCount+1, after.FileCount)
	require.Equal(t, 2, backend.storageCalls, "上传后配额查询不能吃到旧缓存")

	require.NoError(t, store.DeleteAttachment(ctx, attachment.ID, note.ID))

	restored, err := store.Storage(ctx)
	require.NoError(t, err)
	require.EqualValues(t, before.UsedSpace, restored.UsedSpace)
	require.Equal(t, before.FileCount, restored.FileCount)
}

func TestPublicAccessPasswordAndViewCount(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	note, err := store.CreateNote(ctx, &models.NoteCreateRequest{Title: "T", Content: "C", ContentType: "markdown", IsPublic: true})
	require.NoError(t, err)

	password := "pw123"
	share, err := store.CreateShareLink(ctx, note.ID, &models.ShareLinkCreateRequest{Password: &password})
	require.NoError(t, err)

	_, err = store.PublicNote(ctx, share.ShareCode, "wrong")
	require.Error(t, err)
	require.Contains(t, err.Error(), "访问密码错误", "密码错误不能和不存在混淆")

	got, err := store.PublicNote(ctx, share.ShareCode, password)
	require.NoError(t, err)
	require.Equal(t, 1, got.ViewCount)

	again, err := store.PublicNote(ctx, share.ShareCode, password)
	require.NoError(t, err)
	require.Equal(t, 2, again.ViewCount, "公开读取逐次累加浏览数")

	_, err = store.PublicNote(ctx, "no-such-code", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "分享链接不存在")
}

func TestForcedLogoutOn401(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnv(w, http.StatusUnauthorized, "无效的访问令牌", nil)
	}))
	t.Cleanup(ts.Close)

	store := newTestStore(t, ts.URL)
	require.NoError(t, store.Session().SetCredentials(&models.User{ID: 1}, "stale"))
	require.True(t, store.Session().IsAuthenticated())

	_, err := store.Stats(context.Background())
	require.Error(t, err)
	require.False(t, store.Session().IsAuthenticated(), "401 必须强制登出")

	found := false
	for _, n := range store.Notices.List() {
		if strings.Contains(n.Message, "重新登录") {
			found = true
		}
	}
	require.True(t, found, "强制登出要给用户提示")
}

func TestLogoutDuringInflightListReturnsCleanly(t *testing.T) {
	backend := newFakeBackend()
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/notes" {
			once.Do(func() { close(started) })
			<-release
		}
		backend.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	store := newTestStore(t, ts.URL)
	require.NoError(t, store.Login(context.Background(), &models.UserLoginRequest{
		Email:    "huage@example.com",
		Password: "secret1",
	}))

	req := &models.NoteListRequest{}
	results := make(chan error, 1)
	go func() {
		_, err := store.Notes(context.Background(), req)
		results <- err
	}()

	// 列表请求在途时登出，缓存被整体作废
	<-started
	store.Logout(context.Background())
	close(release)

	require.NoError(t, <-results, "在途请求的结果照常返回，不允许崩溃")
	require.False(t, store.Session().IsAuthenticated())

	_, ok := store.cache.Peek(NoteListKey(req))
	require.False(t, ok, "登出后在途请求的结果不落缓存")
}

func TestLoginPersistsSession(t *testing.T) {
	store, _ := setup(t)

	require.True(t, store.Session().IsAuthenticated())
	require.Equal(t, testToken, store.Session().Token())
	require.Equal(t, "huage", store.Session().User().Username)
}

func TestLocalValidationSkipsNetwork(t *testing.T) {
	store, backend := setup(t)
	ctx := context.Background()

	_, err := store.CreateNote(ctx, &models.NoteCreateRequest{Title: ""})
	require.Error(t, err)
	require.Contains(t, err.Error(), "验证失败")
	require.Empty(t, backend.notes, "本地校验失败不应发请求")

	badStore := newTestStore(t, "http://127.0.0.1:1")
	err = badStore.Login(ctx, &models.UserLoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "验证失败")
}

func TestCategoryParentOptionsExcludeSubtree(t *testing.T) {
	backend := newFakeBackend()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/categories" {
			writeEnv(w, http.StatusOK, "成功", []models.Category{
				{ID: 1, Name: "工作", Children: []models.Category{
					{ID: 2, Name: "项目", ParentID: uintPtr(1), Children: []models.Category{
						{ID: 3, Name: "归档", ParentID: uintPtr(2)},
					}},
				}},
				{ID: 4, Name: "生活"},
			})
			return
		}
		backend.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	store := newTestStore(t, ts.URL)
	require.NoError(t, store.Session().SetCredentials(&models.User{ID: 1}, testToken))

	options, err := store.CategoryParentOptions(context.Background(), 2)
	require.NoError(t, err)

	ids := make([]uint, 0, len(options))
	for _, c := range options {
		ids = append(ids, c.ID)
	}
	require.ElementsMatch(t, []uint{1, 4}, ids, "候选父分类必须排除自身和全部子孙")
}

func uintPtr(v uint) *uint { return &v }
