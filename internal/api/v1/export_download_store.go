package v1

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// exportDownloadMaxBytes 待下载导出文件在内存中的总上限
const exportDownloadMaxBytes = 64 << 20

// pendingExport 等待一次性下载的导出文件
type pendingExport struct {
	token     string
	data      []byte
	filename  string
	expiresAt time.Time
}

// exportDownloadStore 按生成顺序保存导出文件；超出总字节上限时淘汰最早的
type exportDownloadStore struct {
	mu       sync.Mutex
	now      func() time.Time
	maxBytes int
	size     int
	pending  []*pendingExport
}

func newExportDownloadStore(maxBytes int) *exportDownloadStore {
	return &exportDownloadStore{
		now:      time.Now,
		maxBytes: maxBytes,
	}
}

// put 保存文件并返回下载 token
func (s *exportDownloadStore) put(data []byte, filename string, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.dropExpiredLocked(now)

	p := &pendingExport{
		token:     newRandomToken(24),
		data:      data,
		filename:  filename,
		expiresAt: now.Add(ttl),
	}
	s.pending = append(s.pending, p)
	s.size += len(data)

	// 保留刚生成的文件，即使它本身超过上限
	for s.maxBytes > 0 && s.size > s.maxBytes && len(s.pending) > 1 {
		s.removeLocked(0)
	}
	return p.token
}

// take 取出并删除；过期或不存在时返回 false
func (s *exportDownloadStore) take(token string) (*pendingExport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropExpiredLocked(s.now())
	for i, p := range s.pending {
		if p.token == token {
			s.removeLocked(i)
			return p, true
		}
	}
	return nil, false
}

func (s *exportDownloadStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *exportDownloadStore) dropExpiredLocked(now time.Time) {
	kept := s.pending[:0]
	for _, p := range s.pending {
		if now.After(p.expiresAt) {
			s.size -= len(p.data)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = kept
}

func (s *exportDownloadStore) removeLocked(i int) {
	s.size -= len(s.pending[i].data)
	copy(s.pending[i:], s.pending[i+1:])
	s.pending[len(s.pending)-1] = nil
	s.pending = s.pending[:len(s.pending)-1]
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
