package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/monther20/bassita/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkspaceRepository handles workspace data access
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create inserts a new workspace. The store assigns the id.
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	ts := now()
	workspace.CreatedAt = ts
	workspace.UpdatedAt = ts
	workspace.SyncMemberIDs()

	res, err := r.db.Collection(collWorkspaces).InsertOne(ctx, workspace)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	workspace.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID retrieves a workspace by id, or (nil, nil) when absent
func (r *WorkspaceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workspace, error) {
	var workspace domain.Workspace
	err := r.db.Collection(collWorkspaces).FindOne(ctx, bson.M{"_id": id}).Decode(&workspace)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &workspace, nil
}

// ListByUserID retrieves every workspace the user belongs to
func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workspace, error) {
	return r.list(ctx, bson.M{"memberUserIds": userID})
}

// ListByOrganization retrieves the user's workspaces within one organization
func (r *WorkspaceRepository) ListByOrganization(ctx context.Context, orgID, userID primitive.ObjectID) ([]domain.Workspace, error) {
	return r.list(ctx, bson.M{
		"organizationId": orgID,
		"memberUserIds":  userID,
	})
}

func (r *WorkspaceRepository) list(ctx context.Context, filter bson.M) ([]domain.Workspace, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.db.Collection(collWorkspaces).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer cursor.Close(ctx)

	var workspaces []domain.Workspace
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to decode workspaces: %w", err)
	}
	return workspaces, nil
}

// Update applies a merge-patch and re-stamps updatedAt
func (r *WorkspaceRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.WorkspaceUpdate) error {
	set := bson.M{"updatedAt": now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}

	_, err := r.db.Collection(collWorkspaces).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

// ReplaceMembers writes the member list and its denormalized id set in one
// patch.
func (r *WorkspaceRepository) ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error {
	set := bson.M{
		"members":       members,
		"memberUserIds": domain.MemberUserIDs(members),
		"updatedAt":     now(),
	}

	_, err := r.db.Collection(collWorkspaces).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to replace members: %w", err)
	}
	return nil
}

// Delete removes a workspace outright
func (r *WorkspaceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.db.Collection(collWorkspaces).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}
