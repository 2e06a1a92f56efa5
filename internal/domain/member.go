package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Member represents a membership entry on an organization, workspace or board
type Member struct {
	UserID   primitive.ObjectID `json:"user_id" bson:"userId"`
	Role     string             `json:"role" bson:"role"`
	JoinedAt time.Time          `json:"joined_at" bson:"joinedAt"`
}

// MemberUserIDs returns the denormalized user id set for a member list.
// The write path keeps this in sync with members[].userId; the store does
// not enforce it.
func MemberUserIDs(members []Member) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(members))
	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		ids = append(ids, m.UserID)
	}
	return ids
}

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
