package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the query paths rely on. Safe to run
// repeatedly.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		collOrganizations: {
			{Keys: bson.D{{Key: "memberUserIds", Value: 1}}},
		},
		collWorkspaces: {
			{Keys: bson.D{{Key: "memberUserIds", Value: 1}}},
			{Keys: bson.D{{Key: "organizationId", Value: 1}, {Key: "memberUserIds", Value: 1}}},
		},
		collBoards: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}}},
		},
		collTasks: {
			{Keys: bson.D{{Key: "boardId", Value: 1}, {Key: "columnId", Value: 1}, {Key: "position", Value: 1}}},
		},
		collTemplates: {
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "category", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := d.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", coll, err)
		}
	}
	return nil
}
