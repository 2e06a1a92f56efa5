package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/monther20/bassita/internal/domain"
	storage "github.com/monther20/bassita/internal/repository/mongo"
	"github.com/monther20/bassita/internal/repository/redis"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.OrganizationUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockOrganizationRepository) ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error {
	args := m.Called(ctx, id, members)
	return args.Error(0)
}

func (m *MockOrganizationRepository) IncrementWorkspaceCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListByOrganization(ctx context.Context, orgID, userID primitive.ObjectID) ([]domain.Workspace, error) {
	args := m.Called(ctx, orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.WorkspaceUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error {
	args := m.Called(ctx, id, members)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) CreateWithTasks(ctx context.Context, board *domain.Board, tasks []domain.Task) error {
	args := m.Called(ctx, board, tasks)
	return args.Error(0)
}

func (m *MockBoardRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Board, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Board), args.Error(1)
}

func (m *MockBoardRepository) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]domain.Board, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Board), args.Error(1)
}

func (m *MockBoardRepository) ListByWorkspaces(ctx context.Context, workspaceIDs []primitive.ObjectID) ([]domain.Board, error) {
	args := m.Called(ctx, workspaceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Board), args.Error(1)
}

func (m *MockBoardRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.BoardUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockBoardRepository) ReplaceColumns(ctx context.Context, id primitive.ObjectID, columns []domain.Column) error {
	args := m.Called(ctx, id, columns)
	return args.Error(0)
}

func (m *MockBoardRepository) ReplaceLabels(ctx context.Context, id primitive.ObjectID, labels []domain.Label) error {
	args := m.Called(ctx, id, labels)
	return args.Error(0)
}

func (m *MockBoardRepository) ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error {
	args := m.Called(ctx, id, members)
	return args.Error(0)
}

func (m *MockBoardRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByBoard(ctx context.Context, boardID primitive.ObjectID) ([]domain.Task, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) CountInColumn(ctx context.Context, boardID primitive.ObjectID, columnID string) (int, error) {
	args := m.Called(ctx, boardID, columnID)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id, boardID primitive.ObjectID, patch storage.TaskPatch) error {
	args := m.Called(ctx, id, boardID, patch)
	return args.Error(0)
}

func (m *MockTaskRepository) Move(ctx context.Context, id, boardID primitive.ObjectID, columnID string, position int) error {
	args := m.Called(ctx, id, boardID, columnID, position)
	return args.Error(0)
}

func (m *MockTaskRepository) Reorder(ctx context.Context, boardID primitive.ObjectID, updates []domain.TaskPositionUpdate) error {
	args := m.Called(ctx, boardID, updates)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id, boardID primitive.ObjectID) error {
	args := m.Called(ctx, id, boardID)
	return args.Error(0)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) List(ctx context.Context, activeOnly bool) ([]domain.Template, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Template), args.Error(1)
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

// memCache is an in-memory Cache used to observe read-through, optimistic
// patching and rollback without a Redis server.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key redis.Key, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key.String()]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memCache) Set(ctx context.Context, key redis.Key, val any, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = data
	return nil
}

func (c *memCache) GetRaw(ctx context.Context, key redis.Key) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key.String()]
	return data, ok, nil
}

func (c *memCache) SetRaw(ctx context.Context, key redis.Key, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = data
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...redis.Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key.String())
	}
	return nil
}

func (c *memCache) DeleteByPrefix(ctx context.Context, prefix redis.Key) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	p := prefix.String()
	for k := range c.entries {
		if len(k) >= len(p) && k[:len(p)] == p {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

func (c *memCache) Apply(ctx context.Context, plan redis.Plan) error {
	if err := c.Delete(ctx, plan.Keys...); err != nil {
		return err
	}
	for _, prefix := range plan.Prefixes {
		if _, err := c.DeleteByPrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

func (c *memCache) EntityTTL() time.Duration { return 5 * time.Minute }

func (c *memCache) ListTTL() time.Duration { return time.Minute }

func (c *memCache) has(key redis.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key.String()]
	return ok
}

// snapshot returns a copy of the current cache contents.
func (c *memCache) snapshot() map[string][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]byte, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
