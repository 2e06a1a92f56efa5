package service

import (
	"context"
	"fmt"
	"time"

	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/metrics"
	"github.com/monther20/bassita/internal/repository/redis"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dashboard is the aggregate view for one organization: its workspaces and
// every board in them, flattened.
type Dashboard struct {
	Organization *domain.Organization `json:"organization"`
	Workspaces   []domain.Workspace   `json:"workspaces"`
	Boards       []domain.Board       `json:"boards"`
}

// WorkspaceService handles workspace operations
type WorkspaceService struct {
	workspaceRepo WorkspaceRepository
	orgRepo       OrganizationRepository
	boardRepo     BoardRepository
	cache         Cache
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(workspaceRepo WorkspaceRepository, orgRepo OrganizationRepository, boardRepo BoardRepository, cache Cache) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		orgRepo:       orgRepo,
		boardRepo:     boardRepo,
		cache:         cache,
	}
}

// Create creates a workspace under an organization and seeds the creator
// as owner. The organization's denormalized workspace count is adjusted.
func (s *WorkspaceService) Create(ctx context.Context, userID primitive.ObjectID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	orgID, err := parseID(input.OrganizationID)
	if err != nil {
		return nil, err
	}

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

	workspace := &domain.Workspace{
		Name:           input.Name,
		OwnerID:        userID,
		OrganizationID: orgID,
		Members:        []domain.Member{{UserID: userID, Role: domain.RoleOwner, JoinedAt: time.Now().UTC()}},
	}
	workspace.SyncMemberIDs()

	m := &redis.Mutation{
		Kind:           redis.MutationWorkspaceCreated,
		UserID:         userID.Hex(),
		OrganizationID: orgID.Hex(),
	}
	err = mutate(ctx, s.cache, m, func(cctx context.Context) error {
		if err := s.workspaceRepo.Create(cctx, workspace); err != nil {
			return err
		}
		m.WorkspaceID = workspace.ID.Hex()
		return s.orgRepo.IncrementWorkspaceCount(cctx, orgID, 1)
	})
	if err != nil {
		return nil, err
	}

	return workspace, nil
}

// Get retrieves a workspace with access check, reading through the cache
func (s *WorkspaceService) Get(ctx context.Context, userID, workspaceID primitive.ObjectID) (*domain.Workspace, error) {
	key := redis.WorkspaceKey(workspaceID.Hex())

	var cached domain.Workspace
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("workspaces").Inc()
		if err := requireMember(cached.Members, userID); err != nil {
			return nil, err
		}
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("workspaces").Inc()

	workspace, err := s.getChecked(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(workspace.Members, userID); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, workspace, s.cache.EntityTTL())
	return workspace, nil
}

// ListForUser retrieves every workspace the user belongs to
func (s *WorkspaceService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// ListForOrganization retrieves the user's workspaces within one
// organization, reading through the per-user, per-organization list cache
func (s *WorkspaceService) ListForOrganization(ctx context.Context, userID, orgID primitive.ObjectID) ([]domain.Workspace, error) {
	key := redis.WorkspaceListKey(userID.Hex(), orgID.Hex())

	var cached []domain.Workspace
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("workspaces").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("workspaces").Inc()

	workspaces, err := s.workspaceRepo.ListByOrganization(ctx, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	_ = s.cache.Set(ctx, key, workspaces, s.cache.ListTTL())
	return workspaces, nil
}

// GetDashboard builds the organization dashboard: workspaces plus the
// boards of every workspace, merged into one flat list.
func (s *WorkspaceService) GetDashboard(ctx context.Context, userID, orgID primitive.ObjectID) (*Dashboard, error) {
	key := redis.DashboardKey(userID.Hex(), orgID.Hex())

	var cached Dashboard
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("dashboard").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("dashboard").Inc()

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

	workspaces, err := s.workspaceRepo.ListByOrganization(ctx, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	workspaceIDs := make([]primitive.ObjectID, len(workspaces))
	for i, ws := range workspaces {
		workspaceIDs[i] = ws.ID
	}

	boards, err := s.boardRepo.ListByWorkspaces(ctx, workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	dashboard := &Dashboard{Organization: org, Workspaces: workspaces, Boards: boards}
	if err := s.cache.Set(ctx, key, dashboard, s.cache.ListTTL()); err != nil {
		log.Warn().Err(err).Msg("failed to cache dashboard")
	}
	return dashboard, nil
}

// Update updates a workspace (admin or owner only)
func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID primitive.ObjectID, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	workspace, err := s.getChecked(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(workspace.Members, userID); err != nil {
		return nil, err
	}

	restore := patchCached(ctx, s.cache, redis.WorkspaceKey(workspaceID.Hex()), func(w domain.Workspace) domain.Workspace {
		if input.Name != nil {
			w.Name = *input.Name
		}
		return w
	})

	err = mutate(ctx, s.cache, &redis.Mutation{
		Kind:           redis.MutationWorkspaceUpdated,
		UserID:         userID.Hex(),
		OrganizationID: workspace.OrganizationID.Hex(),
		WorkspaceID:    workspaceID.Hex(),
	}, func(cctx context.Context) error {
		return s.workspaceRepo.Update(cctx, workspaceID, &input)
	}, restore)
	if err != nil {
		return nil, err
	}

	return s.getChecked(ctx, workspaceID)
}

// Delete deletes a workspace (owner only) and adjusts the organization's
// workspace count
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID primitive.ObjectID) error {
	workspace, err := s.getChecked(ctx, workspaceID)
	if err != nil {
		return err
	}
	if err := requireOwner(workspace.Members, userID); err != nil {
		return err
	}

	return mutate(ctx, s.cache, &redis.Mutation{
		Kind:           redis.MutationWorkspaceDeleted,
		UserID:         userID.Hex(),
		OrganizationID: workspace.OrganizationID.Hex(),
		WorkspaceID:    workspaceID.Hex(),
	}, func(cctx context.Context) error {
		if err := s.workspaceRepo.Delete(cctx, workspaceID); err != nil {
			return err
		}
		return s.orgRepo.IncrementWorkspaceCount(cctx, workspace.OrganizationID, -1)
	})
}

// AddMember adds a member to a workspace (admin or owner only)
func (s *WorkspaceService) AddMember(ctx context.Context, requesterID, workspaceID, userID primitive.ObjectID, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}

	workspace, err := s.getChecked(ctx, workspaceID)
	if err != nil {
		return err
	}
	if err := requireAdmin(workspace.Members, requesterID); err != nil {
		return err
	}

	members := upsertMember(workspace.Members, userID, role)

	return mutate(ctx, s.cache, &redis.Mutation{
		Kind:           redis.MutationMembershipChanged,
		UserID:         requesterID.Hex(),
		OrganizationID: workspace.OrganizationID.Hex(),
		WorkspaceID:    workspaceID.Hex(),
	}, func(cctx context.Context) error {
		return s.workspaceRepo.ReplaceMembers(cctx, workspaceID, members)
	})
}

// RemoveMember removes a member from a workspace (admin or owner only)
func (s *WorkspaceService) RemoveMember(ctx context.Context, requesterID, workspaceID, userID primitive.ObjectID) error {
	workspace, err := s.getChecked(ctx, workspaceID)
	if err != nil {
		return err
	}
	if err := requireAdmin(workspace.Members, requesterID); err != nil {
		return err
	}
	if roleOf(workspace.Members, userID) == domain.RoleOwner {
		return domain.ErrCannotRemoveOwner
	}

	members := removeMember(workspace.Members, userID)

	return mutate(ctx, s.cache, &redis.Mutation{
		Kind:           redis.MutationMembershipChanged,
		UserID:         requesterID.Hex(),
		OrganizationID: workspace.OrganizationID.Hex(),
		WorkspaceID:    workspaceID.Hex(),
	}, func(cctx context.Context) error {
		return s.workspaceRepo.ReplaceMembers(cctx, workspaceID, members)
	})
}

func (s *WorkspaceService) getChecked(ctx context.Context, workspaceID primitive.ObjectID) (*domain.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}
	return workspace, nil
}
