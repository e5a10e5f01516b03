package memory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/opengestu/validele-sub000/internal/storage"
)

// Users keeps operator accounts in memory with bcrypt hashes, like the postgres
// users table.
type Users struct {
	mu     sync.RWMutex
	hashes map[string][]byte
}

func NewUsers() storage.UserRepository {
	return &Users{hashes: make(map[string][]byte)}
}

func (u *Users) CreateUser(_ context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.hashes[username]; ok {
		return fmt.Errorf("failed to create user %s: already exists", username)
	}
	u.hashes[username] = hash
	return nil
}

func (u *Users) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	u.mu.RLock()
	_, ok := u.hashes[username]
	u.mu.RUnlock()
	if ok {
		return false, nil
	}
	if err := u.CreateUser(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}

func (u *Users) ValidateUser(_ context.Context, username, password string) (bool, error) {
	u.mu.RLock()
	hash, ok := u.hashes[username]
	u.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil, nil
}
