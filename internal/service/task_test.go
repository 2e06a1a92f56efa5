package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/repository/redis"
	"github.com/monther20/bassita/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testBoard(ownerID primitive.ObjectID) *domain.Board {
	return &domain.Board{
		ID:          primitive.NewObjectID(),
		Name:        "Sprint Board",
		WorkspaceID: primitive.NewObjectID(),
		OwnerID:     ownerID,
		Members:     []domain.Member{{UserID: ownerID, Role: domain.RoleOwner}},
		Columns: []domain.Column{
			{ID: uuid.NewString(), Title: "To Do", Order: 0},
			{ID: uuid.NewString(), Title: "In Progress", Order: 1},
			{ID: uuid.NewString(), Title: "Done", Order: 2},
		},
		Labels: []domain.Label{
			{ID: uuid.NewString(), Name: "Bug", Color: "#EF4444"},
			{ID: uuid.NewString(), Name: "Feature", Color: "#3B82F6"},
		},
	}
}

func newTaskServiceForTest(taskRepo *MockTaskRepository, boardRepo *MockBoardRepository, cache Cache) *TaskService {
	return NewTaskService(taskRepo, boardRepo, new(MockWorkspaceRepository), cache, watch.NewHub())
}

func TestTaskCreate_FirstTaskGetsPositionZero(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("CountInColumn", mock.Anything, board.ID, board.Columns[0].ID).Return(0, nil)
	taskRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Task).ID = primitive.NewObjectID()
	}).Return(nil)

	task, err := svc.Create(context.Background(), userID, domain.TaskCreate{
		Title:    "Set up CI",
		BoardID:  board.ID.Hex(),
		ColumnID: board.Columns[0].ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, task.Position)
	assert.Equal(t, board.Columns[0].ID, task.ColumnID)
	taskRepo.AssertExpectations(t)
}

func TestTaskCreate_AppendsAfterExistingTasks(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("CountInColumn", mock.Anything, board.ID, board.Columns[0].ID).Return(3, nil)
	taskRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)

	task, err := svc.Create(context.Background(), userID, domain.TaskCreate{
		Title:    "Write docs",
		BoardID:  board.ID.Hex(),
		ColumnID: board.Columns[0].ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, task.Position)
}

func TestTaskCreate_CopiesLabelsFromBoard(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("CountInColumn", mock.Anything, board.ID, board.Columns[0].ID).Return(0, nil)
	taskRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)

	task, err := svc.Create(context.Background(), userID, domain.TaskCreate{
		Title:    "Fix login crash",
		BoardID:  board.ID.Hex(),
		ColumnID: board.Columns[0].ID,
		LabelIDs: []string{board.Labels[0].ID, "nonexistent"},
	})

	require.NoError(t, err)
	require.Len(t, task.Labels, 1)
	assert.Equal(t, "Bug", task.Labels[0].Name)
}

func TestTaskCreate_UnknownColumnRejected(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)

	_, err := svc.Create(context.Background(), userID, domain.TaskCreate{
		Title:    "Orphan",
		BoardID:  board.ID.Hex(),
		ColumnID: "no-such-column",
	})

	assert.ErrorIs(t, err, domain.ErrColumnNotFound)
	taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskMove_NilPositionAppendsToDestination(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)
	task := &domain.Task{
		ID:       primitive.NewObjectID(),
		Title:    "Drag me",
		BoardID:  board.ID,
		ColumnID: board.Columns[0].ID,
		Position: 1,
	}

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("CountInColumn", mock.Anything, board.ID, board.Columns[1].ID).Return(2, nil)
	taskRepo.On("Move", mock.Anything, task.ID, board.ID, board.Columns[1].ID, 2).Return(nil)

	moved, err := svc.Move(context.Background(), userID, task.ID, domain.TaskMove{
		ColumnID: board.Columns[1].ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, moved.Position)
	assert.Equal(t, board.Columns[1].ID, moved.ColumnID)
	taskRepo.AssertExpectations(t)
}

func TestTaskMove_ExplicitPositionUsedVerbatim(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)
	task := &domain.Task{
		ID:       primitive.NewObjectID(),
		BoardID:  board.ID,
		ColumnID: board.Columns[0].ID,
		Position: 4,
	}

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, newMemCache())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Move", mock.Anything, task.ID, board.ID, board.Columns[1].ID, 0).Return(nil)

	pos := 0
	moved, err := svc.Move(context.Background(), userID, task.ID, domain.TaskMove{
		ColumnID: board.Columns[1].ID,
		Position: &pos,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, moved.Position)
	taskRepo.AssertNotCalled(t, "CountInColumn", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskMove_RollbackRestoresCachedList(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)
	task := &domain.Task{
		ID:       primitive.NewObjectID(),
		Title:    "Stubborn task",
		BoardID:  board.ID,
		ColumnID: board.Columns[0].ID,
		Position: 0,
	}

	cache := newMemCache()
	listKey := redis.BoardTasksKey(board.ID.Hex())
	require.NoError(t, cache.Set(context.Background(), listKey, []domain.Task{*task}, cache.ListTTL()))

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, cache)

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Move", mock.Anything, task.ID, board.ID, board.Columns[1].ID, 5).Return(errors.New("write conflict"))

	pos := 5
	_, err := svc.Move(context.Background(), userID, task.ID, domain.TaskMove{
		ColumnID: board.Columns[1].ID,
		Position: &pos,
	})
	require.Error(t, err)

	var cached []domain.Task
	hit, err := cache.Get(context.Background(), listKey, &cached)
	require.NoError(t, err)
	require.True(t, hit, "failed move must restore the cached list, not evict it")
	require.Len(t, cached, 1)
	assert.Equal(t, board.Columns[0].ID, cached[0].ColumnID)
	assert.Equal(t, 0, cached[0].Position)
}

func TestTaskMove_SuccessInvalidatesCachedList(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)
	task := &domain.Task{
		ID:       primitive.NewObjectID(),
		BoardID:  board.ID,
		ColumnID: board.Columns[0].ID,
	}

	cache := newMemCache()
	listKey := redis.BoardTasksKey(board.ID.Hex())
	require.NoError(t, cache.Set(context.Background(), listKey, []domain.Task{*task}, cache.ListTTL()))

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, cache)

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Move", mock.Anything, task.ID, board.ID, board.Columns[1].ID, 0).Return(nil)

	pos := 0
	_, err := svc.Move(context.Background(), userID, task.ID, domain.TaskMove{
		ColumnID: board.Columns[1].ID,
		Position: &pos,
	})
	require.NoError(t, err)

	assert.False(t, cache.has(listKey), "settled move must evict the cached list")
}

func TestTaskReorder_BatchAppliedAtomically(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	svc := newTaskServiceForTest(taskRepo, boardRepo, newMemCache())

	updates := []domain.TaskPositionUpdate{
		{ID: primitive.NewObjectID(), Position: 0, ColumnID: board.Columns[1].ID},
		{ID: primitive.NewObjectID(), Position: 1},
	}

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("Reorder", mock.Anything, board.ID, updates).Return(nil)

	require.NoError(t, svc.Reorder(context.Background(), userID, board.ID, updates))
	taskRepo.AssertExpectations(t)
}

func TestTaskListByBoard_ReadsThroughCache(t *testing.T) {
	userID := primitive.NewObjectID()
	board := testBoard(userID)
	tasks := []domain.Task{{ID: primitive.NewObjectID(), Title: "Cached", BoardID: board.ID}}

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	cache := newMemCache()
	svc := newTaskServiceForTest(taskRepo, boardRepo, cache)

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	taskRepo.On("ListByBoard", mock.Anything, board.ID).Return(tasks, nil).Once()

	first, err := svc.ListByBoard(context.Background(), userID, board.ID)
	require.NoError(t, err)
	second, err := svc.ListByBoard(context.Background(), userID, board.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	taskRepo.AssertNumberOfCalls(t, "ListByBoard", 1)
}

func TestTaskAccess_NonMemberDenied(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	board := testBoard(owner)

	taskRepo := new(MockTaskRepository)
	boardRepo := new(MockBoardRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	svc := NewTaskService(taskRepo, boardRepo, workspaceRepo, newMemCache(), watch.NewHub())

	boardRepo.On("GetByID", mock.Anything, board.ID).Return(board, nil)
	workspaceRepo.On("GetByID", mock.Anything, board.WorkspaceID).Return(&domain.Workspace{
		ID:      board.WorkspaceID,
		Members: []domain.Member{{UserID: owner, Role: domain.RoleOwner}},
	}, nil)

	_, err := svc.ListByBoard(context.Background(), stranger, board.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
