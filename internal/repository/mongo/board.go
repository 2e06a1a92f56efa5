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

// BoardRepository handles board data access. Every write publishes to the
// board's watch topic so subscribers can re-read the snapshot.
type BoardRepository struct {
	db  *DB
	hub *watch.Hub
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(db *DB, hub *watch.Hub) *BoardRepository {
	return &BoardRepository{db: db, hub: hub}
}

// Create inserts a new board. The store assigns the board id; column and
// label ids are client-constructed by the caller.
func (r *BoardRepository) Create(ctx context.Context, board *domain.Board) error {
	ts := now()
	board.CreatedAt = ts
	board.UpdatedAt = ts

	res, err := r.db.Collection(collBoards).InsertOne(ctx, board)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	board.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// CreateWithTasks inserts a board and its seed tasks in one transaction.
// Either the board and all tasks exist afterwards, or nothing does.
func (r *BoardRepository) CreateWithTasks(ctx context.Context, board *domain.Board, tasks []domain.Task) error {
	ts := now()
	board.CreatedAt = ts
	board.UpdatedAt = ts

	err := r.db.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.db.Collection(collBoards).InsertOne(sc, board)
		if err != nil {
			return fmt.Errorf("failed to create board: %w", err)
		}
		board.ID = res.InsertedID.(primitive.ObjectID)

		if len(tasks) == 0 {
			return nil
		}

		docs := make([]interface{}, len(tasks))
		for i := range tasks {
			tasks[i].BoardID = board.ID
			tasks[i].CreatedAt = ts
			tasks[i].UpdatedAt = ts
			docs[i] = tasks[i]
		}

		if _, err := r.db.Collection(collTasks).InsertMany(sc, docs); err != nil {
			return fmt.Errorf("failed to create seed tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a board by id, or (nil, nil) when absent
func (r *BoardRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Board, error) {
	var board domain.Board
	err := r.db.Collection(collBoards).FindOne(ctx, bson.M{"_id": id}).Decode(&board)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return &board, nil
}

// ListByWorkspace retrieves all boards in a workspace
func (r *BoardRepository) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]domain.Board, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.db.Collection(collBoards).Find(ctx, bson.M{"workspaceId": workspaceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer cursor.Close(ctx)

	var boards []domain.Board
	if err := cursor.All(ctx, &boards); err != nil {
		return nil, fmt.Errorf("failed to decode boards: %w", err)
	}
	return boards, nil
}

// ListByWorkspaces retrieves boards across several workspaces in one query
func (r *BoardRepository) ListByWorkspaces(ctx context.Context, workspaceIDs []primitive.ObjectID) ([]domain.Board, error) {
	if len(workspaceIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.db.Collection(collBoards).Find(ctx, bson.M{"workspaceId": bson.M{"$in": workspaceIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer cursor.Close(ctx)

	var boards []domain.Board
	if err := cursor.All(ctx, &boards); err != nil {
		return nil, fmt.Errorf("failed to decode boards: %w", err)
	}
	return boards, nil
}

// Update applies a merge-patch and re-stamps updatedAt
func (r *BoardRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.BoardUpdate) error {
	set := bson.M{"updatedAt": now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Icon != nil {
		set["icon"] = *update.Icon
	}

	_, err := r.db.Collection(collBoards).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}

	r.hub.Publish(watch.BoardTopic(id.Hex()))
	return nil
}

// ReplaceColumns writes the whole column array back. Column edits are
// whole-array replaces, not per-column patches; concurrent editors race at
// array granularity and the last write wins.
func (r *BoardRepository) ReplaceColumns(ctx context.Context, id primitive.ObjectID, columns []domain.Column) error {
	_, err := r.db.Collection(collBoards).UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"columns":   columns,
		"updatedAt": now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to replace columns: %w", err)
	}

	r.hub.Publish(watch.BoardTopic(id.Hex()))
	return nil
}

// ReplaceLabels writes the whole label array back
func (r *BoardRepository) ReplaceLabels(ctx context.Context, id primitive.ObjectID, labels []domain.Label) error {
	_, err := r.db.Collection(collBoards).UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"availableLabels": labels,
		"updatedAt":       now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to replace labels: %w", err)
	}

	r.hub.Publish(watch.BoardTopic(id.Hex()))
	return nil
}

// ReplaceMembers writes the board member list
func (r *BoardRepository) ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error {
	_, err := r.db.Collection(collBoards).UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"members":   members,
		"updatedAt": now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to replace members: %w", err)
	}

	r.hub.Publish(watch.BoardTopic(id.Hex()))
	return nil
}

// Delete removes a board and all of its tasks in one transaction
func (r *BoardRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := r.db.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.db.Collection(collBoards).DeleteOne(sc, bson.M{"_id": id}); err != nil {
			return fmt.Errorf("failed to delete board: %w", err)
		}
		if _, err := r.db.Collection(collTasks).DeleteMany(sc, bson.M{"boardId": id}); err != nil {
			return fmt.Errorf("failed to delete board tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.hub.Publish(watch.BoardTopic(id.Hex()))
	r.hub.Publish(watch.BoardTasksTopic(id.Hex()))
	return nil
}
