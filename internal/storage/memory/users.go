package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
)

type UserModel struct {
	db *db
}

func cloneUser(u models.User) *models.User {
	u.PasswordHash = slices.Clone(u.PasswordHash)
	return &u
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	user, ok := m.db.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(user), nil
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	for _, user := range m.db.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, storage.ErrNotFound
}

// Insert enforces the unique email constraint.
func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, existing := range m.db.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, storage.ErrConflict
		}
	}
	m.db.seq.users++
	stored := *cloneUser(*user)
	stored.ID = m.db.seq.users
	m.db.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (m *UserModel) List(ctx context.Context) ([]models.User, error) {
	m.db.mu.RLock()
	users := make([]models.User, 0, len(m.db.users))
	for _, u := range m.db.users {
		users = append(users, *cloneUser(u))
	}
	m.db.mu.RUnlock()
	slices.SortFunc(users, func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

func (m *UserModel) UpdateRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	user, ok := m.db.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user.Role = role
	m.db.users[id] = user
	return cloneUser(user), nil
}
