package service

import (
	"context"
	"time"

	"github.com/monther20/bassita/internal/domain"
	storage "github.com/monther20/bassita/internal/repository/mongo"
	"github.com/monther20/bassita/internal/repository/redis"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository ports. The mongo package provides the production
// implementations; tests substitute mocks.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Organization, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Organization, error)
	Update(ctx context.Context, id primitive.ObjectID, update *domain.OrganizationUpdate) error
	ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error
	IncrementWorkspaceCount(ctx context.Context, id primitive.ObjectID, delta int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *domain.Workspace) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workspace, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workspace, error)
	ListByOrganization(ctx context.Context, orgID, userID primitive.ObjectID) ([]domain.Workspace, error)
	Update(ctx context.Context, id primitive.ObjectID, update *domain.WorkspaceUpdate) error
	ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	CreateWithTasks(ctx context.Context, board *domain.Board, tasks []domain.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Board, error)
	ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]domain.Board, error)
	ListByWorkspaces(ctx context.Context, workspaceIDs []primitive.ObjectID) ([]domain.Board, error)
	Update(ctx context.Context, id primitive.ObjectID, update *domain.BoardUpdate) error
	ReplaceColumns(ctx context.Context, id primitive.ObjectID, columns []domain.Column) error
	ReplaceLabels(ctx context.Context, id primitive.ObjectID, labels []domain.Label) error
	ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error)
	ListByBoard(ctx context.Context, boardID primitive.ObjectID) ([]domain.Task, error)
	CountInColumn(ctx context.Context, boardID primitive.ObjectID, columnID string) (int, error)
	Update(ctx context.Context, id, boardID primitive.ObjectID, patch storage.TaskPatch) error
	Move(ctx context.Context, id, boardID primitive.ObjectID, columnID string, position int) error
	Reorder(ctx context.Context, boardID primitive.ObjectID, updates []domain.TaskPositionUpdate) error
	Delete(ctx context.Context, id, boardID primitive.ObjectID) error
}

type TemplateRepository interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Template, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Template, error)
	Create(ctx context.Context, template *domain.Template) error
}

// Cache is the entity cache port, implemented by the redis package.
type Cache interface {
	Get(ctx context.Context, key redis.Key, dest any) (bool, error)
	Set(ctx context.Context, key redis.Key, val any, ttl time.Duration) error
	GetRaw(ctx context.Context, key redis.Key) ([]byte, bool, error)
	SetRaw(ctx context.Context, key redis.Key, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...redis.Key) error
	DeleteByPrefix(ctx context.Context, prefix redis.Key) (int64, error)
	Apply(ctx context.Context, plan redis.Plan) error
	EntityTTL() time.Duration
	ListTTL() time.Duration
}
