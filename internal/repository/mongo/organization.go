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

// OrganizationRepository handles organization data access
type OrganizationRepository struct {
	db *DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create inserts a new organization. The store assigns the id; the member
// list is client-constructed by the caller.
func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	ts := now()
	org.CreatedAt = ts
	org.UpdatedAt = ts
	org.SyncMemberIDs()

	res, err := r.db.Collection(collOrganizations).InsertOne(ctx, org)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	org.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID retrieves an organization by id, or (nil, nil) when absent
func (r *OrganizationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.Collection(collOrganizations).FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// ListByUserID retrieves every organization the user belongs to, using the
// denormalized memberUserIds array-contains predicate.
func (r *OrganizationRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Organization, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.db.Collection(collOrganizations).Find(ctx, bson.M{"memberUserIds": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer cursor.Close(ctx)

	var orgs []domain.Organization
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, fmt.Errorf("failed to decode organizations: %w", err)
	}
	return orgs, nil
}

// Update applies a merge-patch; unspecified fields are untouched and
// updatedAt is always re-stamped.
func (r *OrganizationRepository) Update(ctx context.Context, id primitive.ObjectID, update *domain.OrganizationUpdate) error {
	set := bson.M{"updatedAt": now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}

	_, err := r.db.Collection(collOrganizations).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return nil
}

// ReplaceMembers writes a new member list and its denormalized id set in
// one patch, keeping the invariant that both always match.
func (r *OrganizationRepository) ReplaceMembers(ctx context.Context, id primitive.ObjectID, members []domain.Member) error {
	set := bson.M{
		"members":       members,
		"memberUserIds": domain.MemberUserIDs(members),
		"updatedAt":     now(),
	}

	_, err := r.db.Collection(collOrganizations).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to replace members: %w", err)
	}
	return nil
}

// IncrementWorkspaceCount adjusts the denormalized workspace counter.
func (r *OrganizationRepository) IncrementWorkspaceCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := r.db.Collection(collOrganizations).UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"workspaceCount": delta},
		"$set": bson.M{"updatedAt": now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update workspace count: %w", err)
	}
	return nil
}

// Delete removes an organization outright. Hard delete, no tombstone.
func (r *OrganizationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.db.Collection(collOrganizations).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}
