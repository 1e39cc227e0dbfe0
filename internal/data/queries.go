package data

import (
	"context"

	"notes-client/internal/api"
	"notes-client/internal/cache"
	"notes-client/internal/models"
)

// 补齐列表请求默认值，和服务端保持一致
func normalizeListRequest(req *models.NoteListRequest) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Sort == "" {
		req.Sort = "created_at"
	}
	if req.Order == "" {
		req.Order = "desc"
	}
}

// Notes 按当前筛选状态查询；req 为 nil 时直接取 Filters 的参数
func (s *Store) Notes(ctx context.Context, req *models.NoteListRequest) (*models.NoteList, error) {
	if req == nil {
		req = s.Filters.ListParams(0)
	}
	normalizeListRequest(req)

	res := s.cache.Get(ctx, cache.Query{
		Key:  NoteListKey(req),
		Tags: []cache.Tag{cache.ListTag(tagNote)},
		Fetch: func(ctx context.Context) (interface{}, error) {
			return s.api.GetNotes(ctx, req)
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}
	return res.Data.(*models.NoteList), nil
}

func (s *Store) Note(ctx context.Context, id uint) (*models.Note, error) {
	res := s.cache.Get(ctx, cache.Query{
		Key:  NoteKey(id),
		Tags: []cache.Tag{cache.ListTag(tagNote), cache.EntityTag(tagNote, id)},
		Skip: id == 0,
		Fetch: func(ctx context.Context) (interface{}, error) {
			return s.api.GetNote(ctx, id)
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}
	return res.Data.(*models.Note), nil
}

// Stats 订阅笔记、分类、标签三类标签，任何一类变更都会触发重拉
func (s *Store) Stats(ctx context.Context) (*models.UserStats, error) {
	res := s.cache.Get(ctx, cache.Query{
		Key:  StatsKey,
		Tags: []cache.Tag{cache.ListTag(tagNote), cache.ListTag(tagCategory), cache.ListTag(tagTag)},
		Fetch: func(ctx context.Context) (interface{}, error) {
			return s.api.GetUserStats(ctx)
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}
	return res.Data.(*models.UserStats), nil
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	res := s.cache.Get(ctx, cache.Query{
		Key:  CategoriesKey,
		Tags: []cache.Tag{cache.ListTag(tagCategory)},
		Fetch: func(ctx context.Context) (interface{}, error) {
			return s.api.GetCategories(ctx)
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}
	return res.Data.([]models.Category), nil
}

// CategoryParentOptions 给父分类选择器用：排除自身及其全部子孙，
// 避免把分类挂到自己的子树上
func (s *Store) CategoryParentOptions(ctx context.Context, id uint) ([]models.Category, error) {
	tree, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	excluded := map[uint]bool{}
	if id != 0 {
		markSubtree(tree, id, false, excluded)
	}

	var options []models.Category
	collectOptions(tree, excluded, &options)
	return options, nil
}

func markSubtree(nodes []models.Category, root uint, inside bool, excluded map[uint]bool) {
	for _, node := range nodes {
		in := inside || node.ID == root
		if in {
			excluded[node.ID] = true
		}
		markSubtree(node.Children, root, in, excluded)
	}
}

func collectOptions(nodes []models.Category, excluded map[uint]bool, out *[]models.Category) {
	for _, node := range nodes {
		if !excluded[node.ID] {
			flat := node
			flat.Children = nil
			*out = append(*out, flat)
		}
		collectOptions(node.Children, excluded, out)
	}
}

func (s *Store) Tags(ctx context.Context) ([]models.Tag, error) {
	res := s.cache.Get(ctx, cache.Query{
		Key:  TagsKey,
		Tags: []cache.Tag{cache.ListTag(tagTag)},
		Fetch: func(ctx context.Context) (interface{}, error) {
			return s.api.GetTags(ctx)
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}
	return res.Data.([]models.Tag), nil
}

// Me 刷新当前用户，同时把资料和配额回写进会话
func (s *Store) Me(ctx context.Context) (*models.MeResponse, error) {
	res := s.cache.Get(ctx, cache.Query{
		Key:  MeKey,
		Tags: []cache.Tag{cache.ListTag(tagUser)},
		Fetch: func(ctx context.Context) (interface{}, error) {
			return s.api.GetMe(ctx)
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}

	me := res.Data.(*models.MeResponse)
	s.session.SetUser(&models.User{
		ID:        me.ID,
		Username:  me.Username,
		Email:     me.Email,
		Avatar:    me.Avatar,
		Role:      me.Role,
		CreatedAt: me.CreatedAt,
		UpdatedAt: me.UpdatedAt,
	})
	storage := me.Storage
	s.session.SetStorage(&storage)
	return me, nil
}

func (s *Store) Storage(ctx context.Context) (*models.UserStorage, error) {
	res := s.cache.Get(ctx, cache.Query{
		Key:  StorageKey,
		Tags: []cache.Tag{cache.ListTag(tagStorage)},
		Fetch: func(ctx context.Context) (interface{}, error) {
			return s.api.GetUserStorage(ctx)
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}
	return res.Data.(*models.UserStorage), nil
}

func (s *Store) Attachments(ctx context.Context, noteID uint) ([]models.Attachment, error) {
	res := s.cache.Get(ctx, cache.Query{
		Key:  AttachmentsKey(noteID),
		Tags: []cache.Tag{cache.EntityTag(tagAttachment, noteID)},
		Skip: noteID == 0,
		Fetch: func(ctx context.Context) (interface{}, error) {
			return s.api.GetAttachments(ctx, noteID)
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}
	return res.Data.([]models.Attachment), nil
}

// ShareInfo 返回 nil 表示笔记当前没有分享链接。
// 条目标记为易失，分享对话框关闭后不跨会话缓存
func (s *Store) ShareInfo(ctx context.Context, noteID uint) (*models.ShareLinkResponse, error) {
	res := s.cache.Get(ctx, cache.Query{
		Key:      ShareInfoKey(noteID),
		Tags:     []cache.Tag{cache.EntityTag(tagShareLink, noteID)},
		Skip:     noteID == 0,
		Volatile: true,
		Fetch: func(ctx context.Context) (interface{}, error) {
			info, err := s.api.GetShareInfo(ctx, noteID)
			if api.IsNotFound(err) {
				return (*models.ShareLinkResponse)(nil), nil
			}
			if err != nil {
				return nil, err
			}
			return info, nil
		},
	})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Status != cache.Fulfilled {
		return nil, nil
	}
	return res.Data.(*models.ShareLinkResponse), nil
}

// PublicNote 是未登录访问，不进缓存：服务端每次读取都会累加浏览数
func (s *Store) PublicNote(ctx context.Context, code, password string) (*models.Note, error) {
	return s.api.GetPublicNote(ctx, code, password)
}
