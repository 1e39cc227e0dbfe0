// 命令行客户端，直接驱动数据层
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"notes-client/internal/config"
	"notes-client/internal/data"
	"notes-client/internal/models"
	"notes-client/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "加载配置失败:", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log)

	store := data.New(cfg)
	ctx := context.Background()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var runErr error
	switch args[0] {
	case "register":
		runErr = cmdRegister(ctx, store, args[1:])
	case "login":
		runErr = cmdLogin(ctx, store, args[1:])
	case "logout":
		store.Logout(ctx)
	case "me":
		runErr = print1(store.Me(ctx))
	case "storage":
		runErr = print1(store.Storage(ctx))
	case "stats":
		runErr = print1(store.Stats(ctx))
	case "notes":
		runErr = cmdNotes(ctx, store, args[1:])
	case "categories":
		runErr = cmdCategories(ctx, store, args[1:])
	case "tags":
		runErr = cmdTags(ctx, store, args[1:])
	case "attach":
		runErr = cmdAttach(ctx, store, args[1:])
	case "share":
		runErr = cmdShare(ctx, store, args[1:])
	case "public":
		runErr = cmdPublic(ctx, store, args[1:])
	default:
		usage()
		os.Exit(2)
	}

	flushNotices(store)
	if runErr != nil {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `用法: notes-client <命令> [参数]

  register | login | logout | me | storage | stats
  notes      list | get | create | update | delete
  categories list | create | update | delete
  tags       list | create | update | delete
  attach     upload | list | delete
  share      create | info | delete
  public     -code <分享码> [-password <密码>]`)
}

// 通知队列里积累的消息统一打到标准错误
func flushNotices(store *data.Store) {
	for _, n := range store.Notices.List() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Type, n.Message)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "序列化失败:", err)
		return
	}
	fmt.Println(string(data))
}

func print1[T any](v T, err error) error {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	printJSON(v)
	return nil
}

func cmdRegister(ctx context.Context, store *data.Store, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "用户名")
	email := fs.String("email", "", "邮箱")
	password := fs.String("password", "", "密码")
	_ = fs.Parse(args)

	return store.Register(ctx, &models.UserRegisterRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
}

func cmdLogin(ctx context.Context, store *data.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "邮箱")
	password := fs.String("password", "", "密码")
	_ = fs.Parse(args)

	return store.Login(ctx, &models.UserLoginRequest{
		Email:    *email,
		Password: *password,
	})
}

func cmdNotes(ctx context.Context, store *data.Store, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("缺少子命令")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("notes list", flag.ExitOnError)
		page := fs.Int("page", 1, "页码")
		limit := fs.Int("limit", 20, "每页数量")
		category := fs.Uint("category", 0, "分类 ID")
		tag := fs.Uint("tag", 0, "标签 ID")
		search := fs.String("search", "", "搜索关键词")
		sort := fs.String("sort", "", "排序字段")
		order := fs.String("order", "", "排序方向")
		_ = fs.Parse(args[1:])

		req := &models.NoteListRequest{
			Page:   *page,
			Limit:  *limit,
			Search: *search,
			Sort:   *sort,
			Order:  *order,
		}
		if *category != 0 {
			id := uint(*category)
			req.CategoryID = &id
		}
		if *tag != 0 {
			id := uint(*tag)
			req.TagID = &id
		}
		return print1(store.Notes(ctx, req))
	case "get":
		fs := flag.NewFlagSet("notes get", flag.ExitOnError)
		id := fs.Uint("id", 0, "笔记 ID")
		_ = fs.Parse(args[1:])
		return print1(store.Note(ctx, uint(*id)))
	case "create":
		fs := flag.NewFlagSet("notes create", flag.ExitOnError)
		title := fs.String("title", "", "标题")
		content := fs.String("content", "", "内容")
		contentType := fs.String("type", "markdown", "内容类型 markdown|html")
		category := fs.Uint("category", 0, "分类 ID")
		tagIDs := fs.String("tags", "", "标签 ID，逗号分隔")
		public := fs.Bool("public", false, "是否公开")
		_ = fs.Parse(args[1:])

		req := &models.NoteCreateRequest{
			Title:       *title,
			Content:     *content,
			ContentType: *contentType,
			TagIDs:      parseIDs(*tagIDs),
			IsPublic:    *public,
		}
		if *category != 0 {
			id := uint(*category)
			req.CategoryID = &id
		}
		return print1(store.CreateNote(ctx, req))
	case "update":
		fs := flag.NewFlagSet("notes update", flag.ExitOnError)
		id := fs.Uint("id", 0, "笔记 ID")
		title := fs.String("title", "", "标题")
		content := fs.String("content", "", "内容")
		category := fs.Uint("category", 0, "分类 ID")
		tagIDs := fs.String("tags", "", "标签 ID，逗号分隔")
		public := fs.Bool("public", false, "是否公开")
		_ = fs.Parse(args[1:])

		req := &models.NoteUpdateRequest{
			Title:    *title,
			Content:  *content,
			TagIDs:   parseIDs(*tagIDs),
			IsPublic: *public,
		}
		if *category != 0 {
			cid := uint(*category)
			req.CategoryID = &cid
		}
		return print1(store.UpdateNote(ctx, uint(*id), req))
	case "delete":
		fs := flag.NewFlagSet("notes delete", flag.ExitOnError)
		id := fs.Uint("id", 0, "笔记 ID")
		_ = fs.Parse(args[1:])
		return store.DeleteNote(ctx, uint(*id))
	}
	usage()
	return fmt.Errorf("未知子命令: %s", args[0])
}

func cmdCategories(ctx context.Context, store *data.Store, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("缺少子命令")
	}

	switch args[0] {
	case "list":
		return print1(store.Categories(ctx))
	case "create":
		fs := flag.NewFlagSet("categories create", flag.ExitOnError)
		name := fs.String("name", "", "名称")
		parent := fs.Uint("parent", 0, "父分类 ID")
		desc := fs.String("desc", "", "描述")
		_ = fs.Parse(args[1:])

		req := &models.CategoryCreateRequest{Name: *name}
		if *parent != 0 {
			id := uint(*parent)
			req.ParentID = &id
		}
		if *desc != "" {
			req.Description = desc
		}
		return print1(store.CreateCategory(ctx, req))
	case "update":
		fs := flag.NewFlagSet("categories update", flag.ExitOnError)
		id := fs.Uint("id", 0, "分类 ID")
		name := fs.String("name", "", "名称")
		parent := fs.Uint("parent", 0, "父分类 ID")
		desc := fs.String("desc", "", "描述")
		_ = fs.Parse(args[1:])

		req := &models.CategoryUpdateRequest{Name: *name}
		if *parent != 0 {
			pid := uint(*parent)
			req.ParentID = &pid
		}
		if *desc != "" {
			req.Description = desc
		}
		return print1(store.UpdateCategory(ctx, uint(*id), req))
	case "delete":
		fs := flag.NewFlagSet("categories delete", flag.ExitOnError)
		id := fs.Uint("id", 0, "分类 ID")
		_ = fs.Parse(args[1:])
		return store.DeleteCategory(ctx, uint(*id))
	}
	usage()
	return fmt.Errorf("未知子命令: %s", args[0])
}

func cmdTags(ctx context.Context, store *data.Store, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("缺少子命令")
	}

	switch args[0] {
	case "list":
		return print1(store.Tags(ctx))
	case "create":
		fs := flag.NewFlagSet("tags create", flag.ExitOnError)
		name := fs.String("name", "", "名称")
		color := fs.String("color", "#1976d2", "颜色")
		_ = fs.Parse(args[1:])
		return print1(store.CreateTag(ctx, &models.TagCreateRequest{Name: *name, Color: *color}))
	case "update":
		fs := flag.NewFlagSet("tags update", flag.ExitOnError)
		id := fs.Uint("id", 0, "标签 ID")
		name := fs.String("name", "", "名称")
		color := fs.String("color", "#1976d2", "颜色")
		_ = fs.Parse(args[1:])
		return print1(store.UpdateTag(ctx, uint(*id), &models.TagUpdateRequest{Name: *name, Color: *color}))
	case "delete":
		fs := flag.NewFlagSet("tags delete", flag.ExitOnError)
		id := fs.Uint("id", 0, "标签 ID")
		_ = fs.Parse(args[1:])
		return store.DeleteTag(ctx, uint(*id))
	}
	usage()
	return fmt.Errorf("未知子命令: %s", args[0])
}

func cmdAttach(ctx context.Context, store *data.Store, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("缺少子命令")
	}

	switch args[0] {
	case "upload":
		fs := flag.NewFlagSet("attach upload", flag.ExitOnError)
		note := fs.Uint("note", 0, "笔记 ID")
		file := fs.String("file", "", "文件路径")
		_ = fs.Parse(args[1:])

		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintln(os.Stderr, "打开文件失败:", err)
			return err
		}
		defer f.Close()
		return print1(store.UploadAttachment(ctx, uint(*note), filepath.Base(*file), f))
	case "list":
		fs := flag.NewFlagSet("attach list", flag.ExitOnError)
		note := fs.Uint("note", 0, "笔记 ID")
		_ = fs.Parse(args[1:])
		return print1(store.Attachments(ctx, uint(*note)))
	case "delete":
		fs := flag.NewFlagSet("attach delete", flag.ExitOnError)
		id := fs.Uint("id", 0, "附件 ID")
		note := fs.Uint("note", 0, "所属笔记 ID")
		_ = fs.Parse(args[1:])
		return store.DeleteAttachment(ctx, uint(*id), uint(*note))
	}
	usage()
	return fmt.Errorf("未知子命令: %s", args[0])
}

func cmdShare(ctx context.Context, store *data.Store, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("缺少子命令")
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("share create", flag.ExitOnError)
		note := fs.Uint("note", 0, "笔记 ID")
		password := fs.String("password", "", "访问密码")
		expire := fs.String("expire", "", "过期时间 2006-01-02 15:04")
		_ = fs.Parse(args[1:])

		req := &models.ShareLinkCreateRequest{}
		if *password != "" {
			req.Password = password
		}
		if *expire != "" {
			t, err := time.ParseInLocation("2006-01-02 15:04", *expire, time.Local)
			if err != nil {
				fmt.Fprintln(os.Stderr, "过期时间格式错误:", err)
				return err
			}
			req.ExpireTime = &t
		}
		return print1(store.CreateShareLink(ctx, uint(*note), req))
	case "info":
		fs := flag.NewFlagSet("share info", flag.ExitOnError)
		note := fs.Uint("note", 0, "笔记 ID")
		_ = fs.Parse(args[1:])

		info, err := store.ShareInfo(ctx, uint(*note))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		if info == nil {
			fmt.Println("该笔记尚未分享")
			return nil
		}
		printJSON(info)
		return nil
	case "delete":
		fs := flag.NewFlagSet("share delete", flag.ExitOnError)
		note := fs.Uint("note", 0, "笔记 ID")
		_ = fs.Parse(args[1:])
		return store.DeleteShareLink(ctx, uint(*note))
	}
	usage()
	return fmt.Errorf("未知子命令: %s", args[0])
}

func cmdPublic(ctx context.Context, store *data.Store, args []string) error {
	fs := flag.NewFlagSet("public", flag.ExitOnError)
	code := fs.String("code", "", "分享码")
	password := fs.String("password", "", "访问密码")
	_ = fs.Parse(args)

	return print1(store.PublicNote(ctx, *code, *password))
}

func parseIDs(s string) []uint {
	if s == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
