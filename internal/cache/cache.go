// internal/cache/cache.go - 查询缓存与标签失效
package cache

import (
	"context"
	"sync"
	"time"
)

// Tag 同时挂在查询（提供）和变更（失效）两侧，ID 为 0 表示列表级标签
type Tag struct {
	Type string
	ID   uint
}

func ListTag(typ string) Tag {
	return Tag{Type: typ}
}

func EntityTag(typ string, id uint) Tag {
	return Tag{Type: typ, ID: id}
}

type Status int

const (
	Uninitialized Status = iota
	Pending
	Fulfilled
	Rejected
)

type Fetch func(ctx context.Context) (interface{}, error)

type Query struct {
	Key      string
	Tags     []Tag
	Fetch    Fetch
	Skip     bool
	Volatile bool // 无订阅者时立即淘汰，用于分享信息这类不可跨会话缓存的查询
}

type Result struct {
	Status Status
	Data   interface{}
	Err    error
}

type entry struct {
	key   string
	tags  []Tag
	fetch Fetch
	keep  time.Duration

	status Status
	data   interface{}
	err    error

	subs    int
	done    chan struct{} // 非 nil 表示请求在途
	evict   *time.Timer
	invalid bool // 在途期间被 Drop/Clear，结果只交给调用方，不落缓存
}

type Store struct {
	mu          sync.Mutex
	entries     map[string]*entry
	defaultKeep time.Duration
}

func New(keepUnused time.Duration) *Store {
	return &Store{
		entries:     make(map[string]*entry),
		defaultKeep: keepUnused,
	}
}

// Get 返回缓存结果，必要时发起请求；同一个键同时只有一个请求在途，
// 并发调用方挂到同一个在途请求上
func (s *Store) Get(ctx context.Context, q Query) Result {
	if q.Skip {
		return Result{Status: Uninitialized}
	}

	for {
		s.mu.Lock()
		e := s.ensure(q)

		switch e.status {
		case Fulfilled:
			r := Result{Status: Fulfilled, Data: e.data}
			s.mu.Unlock()
			return r
		case Rejected:
			// 上次失败的条目重新拉取
			return s.run(ctx, e)
		case Pending:
			done := e.done
			s.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return Result{Status: Pending, Err: ctx.Err()}
			}
			// 直接从共享请求落地的条目上取结果，条目可能已不在表里
			// （易失条目落地即淘汰）；在途期间被作废时重新来过
			s.mu.Lock()
			r := Result{Status: e.status, Data: e.data, Err: e.err}
			s.mu.Unlock()
			if r.Status == Fulfilled || r.Status == Rejected {
				return r
			}
		default:
			return s.run(ctx, e)
		}
	}
}

// 调用方必须持有锁
func (s *Store) ensure(q Query) *entry {
	e, ok := s.entries[q.Key]
	if !ok {
		e = &entry{key: q.Key, keep: s.defaultKeep}
		s.entries[q.Key] = e
	}
	if q.Volatile {
		e.keep = 0
	}
	if q.Tags != nil {
		e.tags = q.Tags
	}
	if q.Fetch != nil {
		e.fetch = q.Fetch
	}
	return e
}

// run 在持锁状态下进入，标记在途后放锁执行请求；
// 真实结果始终交还给调用方，条目在途期间被作废时只是不落缓存
func (s *Store) run(ctx context.Context, e *entry) Result {
	e.status = Pending
	e.done = make(chan struct{})
	done := e.done
	fetch := e.fetch
	s.mu.Unlock()

	data, err := fetch(ctx)

	s.mu.Lock()
	r := Result{Status: Fulfilled, Data: data}
	if err != nil {
		r = Result{Status: Rejected, Err: err}
	}
	if e.invalid {
		e.invalid = false
		e.status = Uninitialized
		e.data, e.err = nil, nil
	} else {
		e.status = r.Status
		e.data, e.err = r.Data, r.Err
	}
	e.done = nil
	close(done)

	if e.subs == 0 && (e.status == Uninitialized || e.keep <= 0) {
		delete(s.entries, e.key)
	}
	s.mu.Unlock()
	return r
}

func (s *Store) Subscribe(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{key: key, keep: s.defaultKeep}
		s.entries[key] = e
	}
	e.subs++
	if e.evict != nil {
		e.evict.Stop()
		e.evict = nil
	}
}

func (s *Store) Unsubscribe(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.subs == 0 {
		return
	}
	e.subs--
	if e.subs == 0 {
		s.scheduleEvict(e)
	}
}

// 调用方必须持有锁
func (s *Store) scheduleEvict(e *entry) {
	if e.done != nil {
		// 在途请求不中断，落地后由 run 处理淘汰
		return
	}
	if e.keep <= 0 {
		delete(s.entries, e.key)
		return
	}
	key := e.key
	e.evict = time.AfterFunc(e.keep, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.entries[key]; ok && cur.subs == 0 && cur.done == nil {
			delete(s.entries, key)
		}
	})
}

// Invalidate 让命中标签的条目失效：有订阅者的重新拉取，没有的直接删除
func (s *Store) Invalidate(ctx context.Context, tags ...Tag) {
	s.mu.Lock()
	var refetch []*entry
	for key, e := range s.entries {
		if !matches(e.tags, tags) {
			continue
		}
		if e.subs == 0 && e.done == nil {
			if e.evict != nil {
				e.evict.Stop()
			}
			delete(s.entries, key)
			continue
		}
		refetch = append(refetch, e)
	}
	s.mu.Unlock()

	for _, e := range refetch {
		s.refetch(ctx, e)
	}
}

func (s *Store) refetch(ctx context.Context, e *entry) {
	for {
		s.mu.Lock()
		if cur, ok := s.entries[e.key]; !ok || cur != e {
			s.mu.Unlock()
			return
		}
		if e.done != nil {
			// 等在途请求结束，保证失效后的重拉一定晚于写成功
			done := e.done
			s.mu.Unlock()
			<-done
			continue
		}
		if e.fetch == nil {
			// 只订阅过还没查询过
			e.status = Uninitialized
			e.data, e.err = nil, nil
			s.mu.Unlock()
			return
		}
		s.run(ctx, e)
		return
	}
}

// Drop 把命中标签的条目清成未初始化状态，不触发重拉；
// 删除分享链接后必须立刻读到"无分享"而不是旧数据
func (s *Store) Drop(tags ...Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if !matches(e.tags, tags) {
			continue
		}
		if e.done != nil {
			e.invalid = true
			continue
		}
		if e.subs > 0 {
			e.status = Uninitialized
			e.data, e.err = nil, nil
			continue
		}
		if e.evict != nil {
			e.evict.Stop()
		}
		delete(s.entries, key)
	}
}

// Clear 清空整个缓存，登出时使用
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if e.evict != nil {
			e.evict.Stop()
		}
		if e.done != nil {
			e.invalid = true
			continue
		}
		delete(s.entries, key)
	}
}

// Peek 返回条目当前状态，不触发任何请求
func (s *Store) Peek(key string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Result{Status: Uninitialized}, false
	}
	return Result{Status: e.status, Data: e.data, Err: e.err}, true
}

func matches(provided, invalidated []Tag) bool {
	for _, p := range provided {
		for _, i := range invalidated {
			if tagMatch(p, i) {
				return true
			}
		}
	}
	return false
}

// 列表级标签（ID 为 0）命中同类型的所有标签
func tagMatch(p, i Tag) bool {
	if p.Type != i.Type {
		return false
	}
	return p.ID == 0 || i.ID == 0 || p.ID == i.ID
}
