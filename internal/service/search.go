package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/monther20/bassita/internal/domain"
	"github.com/monther20/bassita/internal/metrics"
	"github.com/monther20/bassita/internal/repository/redis"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchService searches the user's accessible entities within the current
// organization by name. Matching is case-insensitive substring; hits rank
// exact match first, then prefix match, then alphabetically.
type SearchService struct {
	orgRepo       OrganizationRepository
	workspaceRepo WorkspaceRepository
	boardRepo     BoardRepository
	cache         Cache
}

// NewSearchService creates a new search service
func NewSearchService(orgRepo OrganizationRepository, workspaceRepo WorkspaceRepository, boardRepo BoardRepository, cache Cache) *SearchService {
	return &SearchService{
		orgRepo:       orgRepo,
		workspaceRepo: workspaceRepo,
		boardRepo:     boardRepo,
		cache:         cache,
	}
}

// searchIndex is the per-user, per-organization corpus the queries run
// against. It is cached whole; queries filter and rank in memory.
type searchIndex struct {
	Organizations []domain.SearchResult `json:"organizations"`
	Workspaces    []domain.SearchResult `json:"workspaces"`
	Boards        []domain.SearchResult `json:"boards"`
}

// Search runs a query over everything the user can reach in the
// organization
func (s *SearchService) Search(ctx context.Context, userID, orgID primitive.ObjectID, query string) (*domain.SearchResults, error) {
	index, err := s.index(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResults{
		Organizations: rankMatches(index.Organizations, query),
		Workspaces:    rankMatches(index.Workspaces, query),
		Boards:        rankMatches(index.Boards, query),
	}, nil
}

// SearchBoards runs a query over the organization's boards only
func (s *SearchService) SearchBoards(ctx context.Context, userID, orgID primitive.ObjectID, query string) ([]domain.SearchResult, error) {
	index, err := s.index(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	return rankMatches(index.Boards, query), nil
}

// SearchWorkspaces runs a query over the organization's workspaces only
func (s *SearchService) SearchWorkspaces(ctx context.Context, userID, orgID primitive.ObjectID, query string) ([]domain.SearchResult, error) {
	index, err := s.index(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	return rankMatches(index.Workspaces, query), nil
}

// SearchOrganizations runs a query over the user's organizations only
func (s *SearchService) SearchOrganizations(ctx context.Context, userID, orgID primitive.ObjectID, query string) ([]domain.SearchResult, error) {
	index, err := s.index(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	return rankMatches(index.Organizations, query), nil
}

func (s *SearchService) index(ctx context.Context, userID, orgID primitive.ObjectID) (*searchIndex, error) {
	key := redis.SearchKey(userID.Hex(), orgID.Hex())

	var cached searchIndex
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		metrics.CacheHits.WithLabelValues("search").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("search").Inc()

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

	orgs, err := s.orgRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
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

	index := &searchIndex{
		Organizations: make([]domain.SearchResult, 0, len(orgs)),
		Workspaces:    make([]domain.SearchResult, 0, len(workspaces)),
		Boards:        make([]domain.SearchResult, 0, len(boards)),
	}
	for _, o := range orgs {
		index.Organizations = append(index.Organizations, domain.SearchResult{Kind: "organization", ID: o.ID.Hex(), Name: o.Name})
	}
	for _, ws := range workspaces {
		index.Workspaces = append(index.Workspaces, domain.SearchResult{Kind: "workspace", ID: ws.ID.Hex(), Name: ws.Name})
	}
	for _, b := range boards {
		index.Boards = append(index.Boards, domain.SearchResult{Kind: "board", ID: b.ID.Hex(), Name: b.Name, Icon: b.Icon})
	}

	_ = s.cache.Set(ctx, key, index, s.cache.ListTTL())
	return index, nil
}

// rankMatches filters results by case-insensitive substring match and sorts
// them exact first, prefix second, the rest alphabetically.
func rankMatches(results []domain.SearchResult, query string) []domain.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.SearchResult{}
	}

	matches := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Name), q) {
			matches = append(matches, r)
		}
	}

	rank := func(r domain.SearchResult) int {
		name := strings.ToLower(r.Name)
		switch {
		case name == q:
			return 0
		case strings.HasPrefix(name, q):
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := rank(matches[i]), rank(matches[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(matches[i].Name) < strings.ToLower(matches[j].Name)
	})
	return matches
}
