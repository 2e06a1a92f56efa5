package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the top-level tenant grouping workspaces and members.
// MemberUserIDs must always equal the set of Members[].UserID; the write
// path maintains the invariant via SyncMemberIDs.
type Organization struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	OwnerID        primitive.ObjectID   `json:"owner_id" bson:"ownerId"`
	Members        []Member             `json:"members" bson:"members"`
	MemberUserIDs  []primitive.ObjectID `json:"member_user_ids" bson:"memberUserIds"`
	WorkspaceCount int                  `json:"workspace_count" bson:"workspaceCount"`
	CreatedAt      time.Time            `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updatedAt"`
}

// SyncMemberIDs recomputes the denormalized member id set.
func (o *Organization) SyncMemberIDs() {
	o.MemberUserIDs = MemberUserIDs(o.Members)
}

// OrganizationCreate represents organization creation data
type OrganizationCreate struct {
	Name string `json:"name" validate:"required,max=255"`
}

// OrganizationUpdate represents organization update data
type OrganizationUpdate struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=255"`
}
