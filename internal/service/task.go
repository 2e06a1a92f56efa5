package service

import (
	"context"
	"fmt"

	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/metrics"
	storage "github.com/monther20/bassita/internal/repository/mongo"
	"github.com/monther20/bassita/internal/repository/redis"
	"github.com/monther20/bassita/internal/watch"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService handles task operations
type TaskService struct {
	taskRepo      TaskRepository
	boardRepo     BoardRepository
	workspaceRepo WorkspaceRepository
	cache         Cache
	hub           *watch.Hub
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo TaskRepository, boardRepo BoardRepository, workspaceRepo WorkspaceRepository, cache Cache, hub *watch.Hub) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		boardRepo:     boardRepo,
		workspaceRepo: workspaceRepo,
		cache:         cache,
		hub:           hub,
	}
}

// Create appends a task to the end of its target column: the new position
// is the current task count of that column. Label ids resolve against the
// board's palette; unknown ids are dropped.
func (s *TaskService) Create(ctx context.Context, userID primitive.ObjectID, input domain.TaskCreate) (*domain.Task, error) {
	boardID, err := parseID(input.BoardID)
	if err != nil {
		return nil, err
	}

	board, err := s.authorizedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if board.ColumnByID(input.ColumnID) == nil {
		return nil, domain.ErrColumnNotFound
	}

	position, err := s.taskRepo.CountInColumn(ctx, boardID, input.ColumnID)
	if err != nil {
		return nil, fmt.Errorf("failed to count column tasks: %w", err)
	}

	assigneeIDs, err := parseIDs(input.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		BoardID:     boardID,
		ColumnID:    input.ColumnID,
		Position:    position,
		AssigneeIDs: assigneeIDs,
		Labels:      resolveLabels(board, input.LabelIDs),
		Icon:        input.Icon,
		CreatorID:   userID,
	}

	restore := patchCached(ctx, s.cache, redis.BoardTasksKey(boardID.Hex()), func(tasks []domain.Task) []domain.Task {
		return append(tasks, *task)
	})

	m := &redis.Mutation{
		Kind:    redis.MutationTaskCreated,
		UserID:  userID.Hex(),
		BoardID: boardID.Hex(),
	}
	err = mutate(ctx, s.cache, m, func(cctx context.Context) error {
		return s.taskRepo.Create(cctx, task)
	}, restore)
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Get retrieves a single task with access check
func (s *TaskService) Get(ctx context.Context, userID, taskID primitive.ObjectID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := s.authorizedBoard(ctx, userID, task.BoardID); err != nil {
		return nil, err
	}
	return task, nil
}

// ListByBoard retrieves a board's tasks in display order, reading through
// the cache
func (s *TaskService) ListByBoard(ctx context.Context, userID, boardID primitive.ObjectID) ([]domain.Task, error) {
	if _, err := s.authorizedBoard(ctx, userID, boardID); err != nil {
		return nil, err
	}

	key := redis.BoardTasksKey(boardID.Hex())

	var cached []domain.Task
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("tasks").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("tasks").Inc()

	tasks, err := s.taskRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	_ = s.cache.Set(ctx, key, tasks, s.cache.ListTTL())
	return tasks, nil
}

// Update edits a task's fields (merge-patch). Label ids resolve against the
// board's palette.
func (s *TaskService) Update(ctx context.Context, userID, taskID primitive.ObjectID, input domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.getChecked(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := s.authorizedBoard(ctx, userID, task.BoardID)
	if err != nil {
		return nil, err
	}

	patch := storage.TaskPatch{
		Title:       input.Title,
		Description: input.Description,
		Icon:        input.Icon,
	}
	if input.LabelIDs != nil {
		labels := resolveLabels(board, *input.LabelIDs)
		patch.Labels = &labels
	}
	if input.AssigneeIDs != nil {
		assigneeIDs, err := parseIDs(*input.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		patch.AssigneeIDs = &assigneeIDs
	}

	restore := patchCached(ctx, s.cache, redis.BoardTasksKey(task.BoardID.Hex()), func(tasks []domain.Task) []domain.Task {
		for i := range tasks {
			if tasks[i].ID == taskID {
				applyTaskPatch(&tasks[i], patch)
			}
		}
		return tasks
	})

	err = mutate(ctx, s.cache, &redis.Mutation{
		Kind:    redis.MutationTaskUpdated,
		UserID:  userID.Hex(),
		BoardID: task.BoardID.Hex(),
	}, func(cctx context.Context) error {
		return s.taskRepo.Update(cctx, taskID, task.BoardID, patch)
	}, restore)
	if err != nil {
		return nil, err
	}

	return s.getChecked(ctx, taskID)
}

// Move relocates a task via drag-and-drop. A nil position appends to the
// destination column (position = current task count there); an explicit
// position is written verbatim, collisions resolved by the display
// tie-break. Only columnId and position change on the stored document.
func (s *TaskService) Move(ctx context.Context, userID, taskID primitive.ObjectID, input domain.TaskMove) (*domain.Task, error) {
	task, err := s.getChecked(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := s.authorizedBoard(ctx, userID, task.BoardID)
	if err != nil {
		return nil, err
	}
	if board.ColumnByID(input.ColumnID) == nil {
		return nil, domain.ErrColumnNotFound
	}

	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		count, err := s.taskRepo.CountInColumn(ctx, task.BoardID, input.ColumnID)
		if err != nil {
			return nil, fmt.Errorf("failed to count column tasks: %w", err)
		}
		position = count
	}

	restore := patchCached(ctx, s.cache, redis.BoardTasksKey(task.BoardID.Hex()), func(tasks []domain.Task) []domain.Task {
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i].ColumnID = input.ColumnID
				tasks[i].Position = position
			}
		}
		return tasks
	})

	err = mutate(ctx, s.cache, &redis.Mutation{
		Kind:    redis.MutationTaskMoved,
		UserID:  userID.Hex(),
		BoardID: task.BoardID.Hex(),
	}, func(cctx context.Context) error {
		return s.taskRepo.Move(cctx, taskID, task.BoardID, input.ColumnID, position)
	}, restore)
	if err != nil {
		return nil, err
	}

	task.ColumnID = input.ColumnID
	task.Position = position
	return task, nil
}

// Reorder applies a batch of position updates in one transaction, used when
// a drag displaces several tasks at once.
func (s *TaskService) Reorder(ctx context.Context, userID, boardID primitive.ObjectID, updates []domain.TaskPositionUpdate) error {
	board, err := s.authorizedBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if u.ColumnID != "" && board.ColumnByID(u.ColumnID) == nil {
			return domain.ErrColumnNotFound
		}
	}

	restore := patchCached(ctx, s.cache, redis.BoardTasksKey(boardID.Hex()), func(tasks []domain.Task) []domain.Task {
		byID := make(map[primitive.ObjectID]domain.TaskPositionUpdate, len(updates))
		for _, u := range updates {
			byID[u.ID] = u
		}
		for i := range tasks {
			if u, ok := byID[tasks[i].ID]; ok {
				tasks[i].Position = u.Position
				if u.ColumnID != "" {
					tasks[i].ColumnID = u.ColumnID
				}
			}
		}
		return tasks
	})

	return mutate(ctx, s.cache, &redis.Mutation{
		Kind:    redis.MutationTaskMoved,
		UserID:  userID.Hex(),
		BoardID: boardID.Hex(),
	}, func(cctx context.Context) error {
		return s.taskRepo.Reorder(cctx, boardID, updates)
	}, restore)
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, userID, taskID primitive.ObjectID) error {
	task, err := s.getChecked(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.authorizedBoard(ctx, userID, task.BoardID); err != nil {
		return err
	}

	restore := patchCached(ctx, s.cache, redis.BoardTasksKey(task.BoardID.Hex()), func(tasks []domain.Task) []domain.Task {
		out := tasks[:0]
		for _, t := range tasks {
			if t.ID != taskID {
				out = append(out, t)
			}
		}
		return out
	})

	return mutate(ctx, s.cache, &redis.Mutation{
		Kind:    redis.MutationTaskDeleted,
		UserID:  userID.Hex(),
		BoardID: task.BoardID.Hex(),
	}, func(cctx context.Context) error {
		return s.taskRepo.Delete(cctx, taskID, task.BoardID)
	}, restore)
}

// Subscribe registers a callback invoked with a fresh task list after every
// task-level change on the board. The returned function cancels the
// subscription.
func (s *TaskService) Subscribe(boardID primitive.ObjectID, cb func([]domain.Task)) func() {
	metrics.ActiveSubscriptions.Inc()
	unsub := s.hub.Subscribe(watch.BoardTasksTopic(boardID.Hex()), func() {
		tasks, err := s.taskRepo.ListByBoard(context.Background(), boardID)
		if err != nil {
			log.Warn().Err(err).Str("board", boardID.Hex()).Msg("task snapshot failed")
			return
		}
		cb(tasks)
	})
	return func() {
		unsub()
		metrics.ActiveSubscriptions.Dec()
	}
}

// resolveLabels maps label ids to full label copies from the board's
// palette. Unknown ids are dropped rather than rejected; a stale picker
// should not fail the whole write.
func resolveLabels(board *domain.Board, labelIDs []string) []domain.Label {
	labels := make([]domain.Label, 0, len(labelIDs))
	for _, id := range labelIDs {
		if label := board.LabelByID(id); label != nil {
			labels = append(labels, *label)
		}
	}
	return labels
}

// parseIDs converts hex ids from the transport layer, failing on the first
// malformed one.
func parseIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := parseID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

func applyTaskPatch(task *domain.Task, patch storage.TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Labels != nil {
		task.Labels = *patch.Labels
	}
	if patch.AssigneeIDs != nil {
		task.AssigneeIDs = *patch.AssigneeIDs
	}
	if patch.Icon != nil {
		task.Icon = *patch.Icon
	}
}

// authorizedBoard loads the board and grants access to board members and
// members of the board's workspace.
func (s *TaskService) authorizedBoard(ctx context.Context, userID, boardID primitive.ObjectID) (*domain.Board, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, domain.ErrNotFound
	}
	if roleOf(board.Members, userID) != "" {
		return board, nil
	}
	workspace, err := s.workspaceRepo.GetByID(ctx, board.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrAccessDenied
	}
	if err := requireMember(workspace.Members, userID); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *TaskService) getChecked(ctx context.Context, taskID primitive.ObjectID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	return task, nil
}
