package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/watch"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskPatch carries merge-patch fields for a task. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Labels      *[]domain.Label
	AssigneeIDs *[]primitive.ObjectID
	Icon        *string
}

// TaskRepository handles task data access. Every write publishes to the
// owning board's task watch topic.
type TaskRepository struct {
	db  *DB
	hub *watch.Hub
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB, hub *watch.Hub) *TaskRepository {
	return &TaskRepository{db: db, hub: hub}
}

// Create inserts a new task. The store assigns the id.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ts := now()
	task.CreatedAt = ts
	task.UpdatedAt = ts

	res, err := r.db.Collection(collTasks).InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = res.InsertedID.(primitive.ObjectID)

	r.hub.Publish(watch.BoardTasksTopic(task.BoardID.Hex()))
	return nil
}

// GetByID retrieves a task by id, or (nil, nil) when absent
func (r *TaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Collection(collTasks).FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// ListByBoard retrieves all tasks on a board in display order: position
// ascending, with createdAt then id breaking ties between colliding
// positions.
func (r *TaskRepository) ListByBoard(ctx context.Context, boardID primitive.ObjectID) ([]domain.Task, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "position", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := r.db.Collection(collTasks).Find(ctx, bson.M{"boardId": boardID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// CountInColumn returns the number of tasks currently in a column. New and
// appended tasks take this count as their position.
func (r *TaskRepository) CountInColumn(ctx context.Context, boardID primitive.ObjectID, columnID string) (int, error) {
	count, err := r.db.Collection(collTasks).CountDocuments(ctx, bson.M{
		"boardId":  boardID,
		"columnId": columnID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return int(count), nil
}

// Update applies a merge-patch and re-stamps updatedAt
func (r *TaskRepository) Update(ctx context.Context, id primitive.ObjectID, boardID primitive.ObjectID, patch TaskPatch) error {
	set := bson.M{"updatedAt": now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Labels != nil {
		set["labels"] = *patch.Labels
	}
	if patch.AssigneeIDs != nil {
		set["assigneeIds"] = *patch.AssigneeIDs
	}
	if patch.Icon != nil {
		set["icon"] = *patch.Icon
	}

	_, err := r.db.Collection(collTasks).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	r.hub.Publish(watch.BoardTasksTopic(boardID.Hex()))
	return nil
}

// Move patches exactly columnId and position (plus the timestamp) on a
// single document. Siblings in the destination column are never rewritten.
func (r *TaskRepository) Move(ctx context.Context, id primitive.ObjectID, boardID primitive.ObjectID, columnID string, position int) error {
	_, err := r.db.Collection(collTasks).UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"columnId":  columnID,
		"position":  position,
		"updatedAt": now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}

	r.hub.Publish(watch.BoardTasksTopic(boardID.Hex()))
	return nil
}

// Reorder applies a batch of position updates inside one transaction; the
// batch commits or none of it does.
func (r *TaskRepository) Reorder(ctx context.Context, boardID primitive.ObjectID, updates []domain.TaskPositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	ts := now()
	err := r.db.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		for _, u := range updates {
			set := bson.M{"position": u.Position, "updatedAt": ts}
			if u.ColumnID != "" {
				set["columnId"] = u.ColumnID
			}
			if _, err := r.db.Collection(collTasks).UpdateByID(sc, u.ID, bson.M{"$set": set}); err != nil {
				return fmt.Errorf("failed to reorder task %s: %w", u.ID.Hex(), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.hub.Publish(watch.BoardTasksTopic(boardID.Hex()))
	return nil
}

// Delete removes a task outright. Hard delete, no tombstone.
func (r *TaskRepository) Delete(ctx context.Context, id primitive.ObjectID, boardID primitive.ObjectID) error {
	_, err := r.db.Collection(collTasks).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	r.hub.Publish(watch.BoardTasksTopic(boardID.Hex()))
	return nil
}
