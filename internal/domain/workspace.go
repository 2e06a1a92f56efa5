package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace is a named collection of boards within one organization.
// Same member id invariant as Organization.
type Workspace struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	OwnerID        primitive.ObjectID   `json:"owner_id" bson:"ownerId"`
	OrganizationID primitive.ObjectID   `json:"organization_id" bson:"organizationId"`
	Members        []Member             `json:"members" bson:"members"`
	MemberUserIDs  []primitive.ObjectID `json:"member_user_ids" bson:"memberUserIds"`
	CreatedAt      time.Time            `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updatedAt"`
}

// SyncMemberIDs recomputes the denormalized member id set.
func (w *Workspace) SyncMemberIDs() {
	w.MemberUserIDs = MemberUserIDs(w.Members)
}

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Name           string `json:"name" validate:"required,max=255"`
	OrganizationID string `json:"organization_id" validate:"required"`
}

// WorkspaceUpdate represents workspace update data
type WorkspaceUpdate struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=255"`
}
