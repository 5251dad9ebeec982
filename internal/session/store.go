package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Joaotp75/dashboard-assessores/internal/consolidator"
	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

// Session 一次上传得到的合并数据，只保存在内存中
type Session struct {
	ID        string
	UploadID  string
	Table     model.ConsolidatedTable
	Report    *consolidator.Report
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store 带 TTL 的内存会话表；每次读取会顺延过期时间
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]*Session
}

// NewStore 创建会话表
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*Session),
	}
}

// Create 保存合并结果，返回新会话
func (s *Store) Create(uploadID string, result *consolidator.Result) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	sess := &Session{
		ID:        uuid.New().String(),
		UploadID:  uploadID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if result != nil {
		sess.Table = result.Table
		sess.Report = result.Report
	}
	s.items[sess.ID] = sess
	return sess
}

// Get 查找会话；过期或不存在时返回 false
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	sess.ExpiresAt = now.Add(s.ttl)
	return sess, true
}

// Delete 删除会话，返回是否存在
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

// Len 当前有效会话数
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(s.now())
	return len(s.items)
}

// TTL 会话有效期
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.ExpiresAt) {
			delete(s.items, k)
		}
	}
}
