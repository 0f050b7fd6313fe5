package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aryan595/Movie-Recommendation-System/internal/models"
)

// credentialsFile mirrors the on-disk layout:
//
//	credentials:
//	  usernames:
//	    alice: {email: ..., name: ..., password: <bcrypt>, user_id: 611, role: user}
//	cookie: {...}
//
// Sections other than credentials are kept as they were read.
type credentialsFile struct {
	Credentials struct {
		Usernames map[string]*models.UserDoc `yaml:"usernames"`
	} `yaml:"credentials"`
	Rest map[string]any `yaml:",inline"`
}

// UserRepository is the YAML credential store. The whole file is held in
// memory; every write rewrites it through a temp file and a rename.
type UserRepository struct {
	path string

	mu   sync.RWMutex
	file credentialsFile
}

// NewUserRepository loads path. A missing file is an empty store that is
// created on the first write.
func NewUserRepository(path string) (*UserRepository, error) {
	r := &UserRepository{path: path}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read credentials: %w", err)
	default:
		if err := yaml.Unmarshal(b, &r.file); err != nil {
			return nil, fmt.Errorf("decode credentials: %w", err)
		}
	}
	if r.file.Credentials.Usernames == nil {
		r.file.Credentials.Usernames = map[string]*models.UserDoc{}
	}
	for name, u := range r.file.Credentials.Usernames {
		if u == nil {
			delete(r.file.Credentials.Usernames, name)
			continue
		}
		u.Username = name
		if u.Role == "" {
			u.Role = models.RoleUser
		}
	}
	return r, nil
}

func clone(u *models.UserDoc) *models.UserDoc {
	c := *u
	return &c
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*models.UserDoc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.file.Credentials.Usernames[username]
	if !ok {
		return nil, nil
	}
	return clone(u), nil
}

func (r *UserRepository) FindByID(_ context.Context, userID int) (*models.UserDoc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.file.Credentials.Usernames {
		if u.UserID == userID {
			return clone(u), nil
		}
	}
	return nil, nil
}

// List returns every user ordered by username.
func (r *UserRepository) List(_ context.Context) ([]models.UserDoc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.UserDoc, 0, len(r.file.Credentials.Usernames))
	for _, u := range r.file.Credentials.Usernames {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.file.Credentials.Usernames), nil
}

// MaxUserID is the highest user_id in the file, 0 when empty.
func (r *UserRepository) MaxUserID(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxUserID(), nil
}

func (r *UserRepository) maxUserID() int {
	hi := 0
	for _, u := range r.file.Credentials.Usernames {
		if u.UserID > hi {
			hi = u.UserID
		}
	}
	return hi
}

// Insert adds u, failing with models.ErrUserExists on a taken username or
// user_id.
func (r *UserRepository) Insert(_ context.Context, u *models.UserDoc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(u)
}

// InsertNext assigns u the id after max(floor, highest id in the file), or
// first when both are zero, and inserts it under the same lock.
func (r *UserRepository) InsertNext(_ context.Context, u *models.UserDoc, floor, first int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	hi := max(floor, r.maxUserID())
	if hi == 0 {
		u.UserID = first
	} else {
		u.UserID = hi + 1
	}
	return r.insert(u)
}

// insert requires mu held for writing.
func (r *UserRepository) insert(u *models.UserDoc) error {
	if _, taken := r.file.Credentials.Usernames[u.Username]; taken {
		return models.ErrUserExists
	}
	for _, other := range r.file.Credentials.Usernames {
		if other.UserID == u.UserID {
			return models.ErrUserExists
		}
	}
	r.file.Credentials.Usernames[u.Username] = clone(u)
	if err := r.save(); err != nil {
		delete(r.file.Credentials.Usernames, u.Username)
		return err
	}
	return nil
}

func (r *UserRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.file.Credentials.Usernames[username]
	if !ok {
		return models.ErrUserNotFound
	}
	delete(r.file.Credentials.Usernames, username)
	if err := r.save(); err != nil {
		r.file.Credentials.Usernames[username] = u
		return err
	}
	return nil
}

// save writes the file atomically. Callers hold mu.
func (r *UserRepository) save() error {
	b, err := yaml.Marshal(&r.file)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".credentials-*.yaml")
	if err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return os.Rename(tmp.Name(), r.path)
}
