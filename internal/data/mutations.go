package data

import (
	"context"
	"io"

	"notes-client/internal/cache"
	"notes-client/internal/models"
	"notes-client/pkg/validator"
)

// 变更统一走这里：本地校验 → 请求 → 按失效表作废缓存 → 通知。
// 失败时不碰缓存也不重试，服务端不保证写操作幂等

func (s *Store) fail(err error) error {
	s.Notices.Error(err.Error())
	return err
}

func (s *Store) Login(ctx context.Context, req *models.UserLoginRequest) error {
	if err := validator.ValidateStruct(req); err != nil {
		return s.fail(err)
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return s.fail(err)
	}

	if err := s.session.SetCredentials(resp.User, resp.Token); err != nil {
		return s.fail(err)
	}
	s.Notices.Success("登录成功")
	return nil
}

func (s *Store) Register(ctx context.Context, req *models.UserRegisterRequest) error {
	if err := validator.ValidateStruct(req); err != nil {
		return s.fail(err)
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return s.fail(err)
	}

	if err := s.session.SetCredentials(resp.User, resp.Token); err != nil {
		return s.fail(err)
	}
	s.Notices.Success("注册成功")
	return nil
}

func (s *Store) Logout(ctx context.Context) {
	if s.session.IsAuthenticated() {
		// 服务端无状态，通知失败不影响本地登出
		_ = s.api.Logout(ctx)
	}
	s.session.Logout()
	s.cache.Clear()
	s.Notices.Success("退出成功")
}

func (s *Store) CreateNote(ctx context.Context, req *models.NoteCreateRequest) (*models.Note, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, s.fail(err)
	}
	if req.ContentType == "" {
		req.ContentType = "markdown"
	}

	note, err := s.api.CreateNote(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.cache.Invalidate(ctx,
		cache.ListTag(tagNote),
		cache.ListTag(tagCategory),
		cache.ListTag(tagTag),
	)
	s.Notices.Success("创建成功")
	return note, nil
}

func (s *Store) UpdateNote(ctx context.Context, id uint, req *models.NoteUpdateRequest) (*models.Note, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, s.fail(err)
	}

	note, err := s.api.UpdateNote(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.cache.Invalidate(ctx,
		cache.ListTag(tagNote),
		cache.EntityTag(tagNote, id),
		cache.ListTag(tagCategory),
		cache.ListTag(tagTag),
	)
	s.Notices.Success("更新成功")
	return note, nil
}

func (s *Store) DeleteNote(ctx context.Context, id uint) error {
	if err := s.api.DeleteNote(ctx, id); err != nil {
		return s.fail(err)
	}

	// 附件和分享链接随笔记一起消失，直接清掉，重拉只会得到 404
	s.cache.Drop(
		cache.EntityTag(tagNote, id),
		cache.EntityTag(tagAttachment, id),
		cache.EntityTag(tagShareLink, id),
	)
	s.cache.Invalidate(ctx,
		cache.ListTag(tagNote),
		cache.ListTag(tagCategory),
		cache.ListTag(tagTag),
	)
	s.Notices.Success("删除成功")
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, req *models.CategoryCreateRequest) (*models.Category, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, s.fail(err)
	}

	category, err := s.api.CreateCategory(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.cache.Invalidate(ctx, cache.ListTag(tagCategory))
	s.Notices.Success("创建成功")
	return category, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id uint, req *models.CategoryUpdateRequest) (*models.Category, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, s.fail(err)
	}

	category, err := s.api.UpdateCategory(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.cache.Invalidate(ctx, cache.ListTag(tagCategory))
	s.Notices.Success("更新成功")
	return category, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		return s.fail(err)
	}

	s.cache.Invalidate(ctx, cache.ListTag(tagCategory))
	s.Notices.Success("删除成功")
	return nil
}

func (s *Store) CreateTag(ctx context.Context, req *models.TagCreateRequest) (*models.Tag, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, s.fail(err)
	}

	tag, err := s.api.CreateTag(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.cache.Invalidate(ctx, cache.ListTag(tagTag))
	s.Notices.Success("创建成功")
	return tag, nil
}

func (s *Store) UpdateTag(ctx context.Context, id uint, req *models.TagUpdateRequest) (*models.Tag, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, s.fail(err)
	}

	tag, err := s.api.UpdateTag(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.cache.Invalidate(ctx, cache.ListTag(tagTag))
	s.Notices.Success("更新成功")
	return tag, nil
}

func (s *Store) DeleteTag(ctx context.Context, id uint) error {
	if err := s.api.DeleteTag(ctx, id); err != nil {
		return s.fail(err)
	}

	s.cache.Invalidate(ctx, cache.ListTag(tagTag))
	s.Notices.Success("删除成功")
	return nil
}

func (s *Store) UploadAttachment(ctx context.Context, noteID uint, filename string, r io.Reader) (*models.Attachment, error) {
	attachment, err := s.api.UploadAttachment(ctx, noteID, filename, r)
	if err != nil {
		return nil, s.fail(err)
	}

	s.cache.Invalidate(ctx,
		cache.EntityTag(tagNote, noteID),
		cache.EntityTag(tagAttachment, noteID),
		cache.ListTag(tagStorage),
	)
	s.Notices.Success("上传成功")
	return attachment, nil
}

// 删除接口按附件 ID 走，失效范围却是所属笔记，调用方需要一并给出 noteID
func (s *Store) DeleteAttachment(ctx context.Context, id, noteID uint) error {
	if err := s.api.DeleteAttachment(ctx, id); err != nil {
		return s.fail(err)
	}

	s.cache.Invalidate(ctx,
		cache.EntityTag(tagNote, noteID),
		cache.EntityTag(tagAttachment, noteID),
		cache.ListTag(tagStorage),
	)
	s.Notices.Success("删除成功")
	return nil
}

func (s *Store) CreateShareLink(ctx context.Context, noteID uint, req *models.ShareLinkCreateRequest) (*models.ShareLinkResponse, error) {
	share, err := s.api.CreateShareLink(ctx, noteID, req)
	if err != nil {
		return nil, s.fail(err)
	}

	s.cache.Invalidate(ctx, cache.EntityTag(tagShareLink, noteID))
	s.Notices.Success("分享链接创建成功")
	return share, nil
}

func (s *Store) DeleteShareLink(ctx context.Context, noteID uint) error {
	if err := s.api.DeleteShareLink(ctx, noteID); err != nil {
		return s.fail(err)
	}

	// 先清成"无分享"，订阅中的对话框再自然重拉
	s.cache.Drop(cache.EntityTag(tagShareLink, noteID))
	s.cache.Invalidate(ctx, cache.EntityTag(tagShareLink, noteID))
	s.Notices.Success("分享链接删除成功")
	return nil
}
