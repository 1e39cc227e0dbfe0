package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"notes-client/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Store 是会话的唯一可信来源：isAuthenticated 恒等于 token != ""
type Store struct {
	mu      sync.RWMutex
	user    *models.User
	storage *models.UserStorage
	token   string
	path    string
}

type tokenFile struct {
	Token string `json:"token"`
}

func New(path string) *Store {
	return &Store{path: path}
}

// 启动时从令牌文件恢复会话，已过期的令牌直接丢弃
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil || tf.Token == "" {
		return
	}

	if expired(tf.Token) {
		logrus.Info("本地令牌已过期，需要重新登录")
		_ = os.Remove(s.path)
		return
	}

	s.mu.Lock()
	s.token = tf.Token
	s.mu.Unlock()
}

// 只看 exp 声明，签名校验是服务端的事
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}

func (s *Store) SetCredentials(user *models.User, token string) error {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenFile{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *Store) SetUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *Store) SetStorage(storage *models.UserStorage) {
	s.mu.Lock()
	s.storage = storage
	s.mu.Unlock()
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.storage = nil
	s.token = ""
	s.mu.Unlock()

	_ = os.Remove(s.path)
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Storage() *models.UserStorage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}
