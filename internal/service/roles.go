package service

import (
	"fmt"
	"time"

	"github.com/monther20/bassita/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseID converts a hex id from the transport layer into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, domain.ErrNotFound)
	}
	return oid, nil
}

// roleOf returns the member's role, or "" when not a member.
func roleOf(members []domain.Member, userID primitive.ObjectID) string {
	for _, m := range members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return ""
}

// upsertMember adds a member or updates the role of an existing one.
func upsertMember(members []domain.Member, userID primitive.ObjectID, role string) []domain.Member {
	out := make([]domain.Member, len(members))
	copy(out, members)
	for i := range out {
		if out[i].UserID == userID {
			out[i].Role = role
			return out
		}
	}
	return append(out, domain.Member{UserID: userID, Role: role, JoinedAt: time.Now().UTC()})
}

// removeMember drops a member from the list.
func removeMember(members []domain.Member, userID primitive.ObjectID) []domain.Member {
	out := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.UserID != userID {
			out = append(out, m)
		}
	}
	return out
}

// requireMember fails with ErrAccessDenied unless the user is a member.
func requireMember(members []domain.Member, userID primitive.ObjectID) error {
	if roleOf(members, userID) == "" {
		return domain.ErrAccessDenied
	}
	return nil
}

// requireAdmin fails unless the user is an owner or admin.
func requireAdmin(members []domain.Member, userID primitive.ObjectID) error {
	switch roleOf(members, userID) {
	case domain.RoleOwner, domain.RoleAdmin:
		return nil
	case "":
		return domain.ErrAccessDenied
	default:
		return domain.ErrAdminRequired
	}
}

// requireOwner fails unless the user is the owner.
func requireOwner(members []domain.Member, userID primitive.ObjectID) error {
	switch roleOf(members, userID) {
	case domain.RoleOwner:
		return nil
	case "":
		return domain.ErrAccessDenied
	default:
		return domain.ErrOwnerRequired
	}
}
