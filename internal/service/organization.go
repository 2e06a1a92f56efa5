package service

import (
	"context"
	"fmt"
	"time"

	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/metrics"
	"github.com/monther20/bassita/internal/repository/redis"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrganizationService handles organization operations
type OrganizationService struct {
	orgRepo OrganizationRepository
	cache   Cache
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo OrganizationRepository, cache Cache) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo, cache: cache}
}

// Create creates a new organization and seeds the creator as first member
func (s *OrganizationService) Create(ctx context.Context, userID primitive.ObjectID, input domain.OrganizationCreate) (*domain.Organization, error) {
	org := &domain.Organization{
		Name:    input.Name,
		OwnerID: userID,
		Members: []domain.Member{{UserID: userID, Role: domain.RoleOwner, JoinedAt: time.Now().UTC()}},
	}
	org.SyncMemberIDs()

	m := &redis.Mutation{Kind: redis.MutationOrganizationCreated, UserID: userID.Hex()}
	err := mutate(ctx, s.cache, m, func(cctx context.Context) error {
		if err := s.orgRepo.Create(cctx, org); err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}
		m.OrganizationID = org.ID.Hex()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return org, nil
}

// Get retrieves an organization with access check, reading through the cache
func (s *OrganizationService) Get(ctx context.Context, userID, orgID primitive.ObjectID) (*domain.Organization, error) {
	key := redis.OrganizationKey(orgID.Hex())

	var cached domain.Organization
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("organizations").Inc()
		if err := requireMember(cached.Members, userID); err != nil {
			return nil, err
		}
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("organizations").Inc()

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if err := requireMember(org.Members, userID); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, org, s.cache.EntityTTL())
	return org, nil
}

// ListForUser retrieves every organization the user belongs to
func (s *OrganizationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Organization, error) {
	key := redis.OrganizationListKey(userID.Hex())

	var cached []domain.Organization
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("organizations").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("organizations").Inc()

	orgs, err := s.orgRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	_ = s.cache.Set(ctx, key, orgs, s.cache.ListTTL())
	return orgs, nil
}

// Update updates an organization (admin or owner only)
func (s *OrganizationService) Update(ctx context.Context, userID, orgID primitive.ObjectID, input domain.OrganizationUpdate) (*domain.Organization, error) {
	org, err := s.getChecked(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(org.Members, userID); err != nil {
		return nil, err
	}

	restore := patchCached(ctx, s.cache, redis.OrganizationKey(orgID.Hex()), func(o domain.Organization) domain.Organization {
		if input.Name != nil {
			o.Name = *input.Name
		}
		return o
	})

	err = mutate(ctx, s.cache, &redis.Mutation{
		Kind:           redis.MutationOrganizationUpdated,
		UserID:         userID.Hex(),
		OrganizationID: orgID.Hex(),
	}, func(cctx context.Context) error {
		return s.orgRepo.Update(cctx, orgID, &input)
	}, restore)
	if err != nil {
		return nil, err
	}

	updated, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return updated, nil
}

// Delete deletes an organization (owner only)
func (s *OrganizationService) Delete(ctx context.Context, userID, orgID primitive.ObjectID) error {
	org, err := s.getChecked(ctx, orgID)
	if err != nil {
		return err
	}
	if err := requireOwner(org.Members, userID); err != nil {
		return err
	}

	return mutate(ctx, s.cache, &redis.Mutation{
		Kind:           redis.MutationOrganizationDeleted,
		UserID:         userID.Hex(),
		OrganizationID: orgID.Hex(),
	}, func(cctx context.Context) error {
		return s.orgRepo.Delete(cctx, orgID)
	})
}

// AddMember adds a member (admin or owner only). The denormalized
// memberUserIds set is rewritten together with the member list so the
// invariant holds after the write.
func (s *OrganizationService) AddMember(ctx context.Context, requesterID, orgID, userID primitive.ObjectID, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}

	org, err := s.getChecked(ctx, orgID)
	if err != nil {
		return err
	}
	if err := requireAdmin(org.Members, requesterID); err != nil {
		return err
	}

	members := upsertMember(org.Members, userID, role)

	return mutate(ctx, s.cache, &redis.Mutation{
		Kind:           redis.MutationMembershipChanged,
		UserID:         requesterID.Hex(),
		OrganizationID: orgID.Hex(),
	}, func(cctx context.Context) error {
		return s.orgRepo.ReplaceMembers(cctx, orgID, members)
	})
}

// RemoveMember removes a member (admin or owner only; the owner cannot be
// removed)
func (s *OrganizationService) RemoveMember(ctx context.Context, requesterID, orgID, userID primitive.ObjectID) error {
	org, err := s.getChecked(ctx, orgID)
	if err != nil {
		return err
	}
	if err := requireAdmin(org.Members, requesterID); err != nil {
		return err
	}
	if roleOf(org.Members, userID) == domain.RoleOwner {
		return domain.ErrCannotRemoveOwner
	}

	members := removeMember(org.Members, userID)

	return mutate(ctx, s.cache, &redis.Mutation{
		Kind:           redis.MutationMembershipChanged,
		UserID:         requesterID.Hex(),
		OrganizationID: orgID.Hex(),
	}, func(cctx context.Context) error {
		return s.orgRepo.ReplaceMembers(cctx, orgID, members)
	})
}

// Switch records a tenant switch for the user: caches scoped to the
// previous organization are evicted so memory stays bounded and the next
// read of the new organization's dashboard bypasses stale entries.
func (s *OrganizationService) Switch(ctx context.Context, userID, prevOrgID primitive.ObjectID) error {
	return s.cache.Apply(ctx, redis.PlanFor(redis.Mutation{
		Kind:               redis.MutationOrganizationSwitched,
		UserID:             userID.Hex(),
		PrevOrganizationID: prevOrgID.Hex(),
	}))
}

func (s *OrganizationService) getChecked(ctx context.Context, orgID primitive.ObjectID) (*domain.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}
