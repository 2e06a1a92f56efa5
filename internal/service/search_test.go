package service

import (
	"context"
	"testing"

	"github.com/monther20/bassita/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRankMatches_ExactThenPrefixThenAlphabetical(t *testing.T) {
	results := []domain.SearchResult{
		{Kind: "board", ID: "1", Name: "Design System"},
		{Kind: "board", ID: "2", Name: "design"},
		{Kind: "board", ID: "3", Name: "Redesign Sprint"},
		{Kind: "board", ID: "4", Name: "Designs Archive"},
		{Kind: "board", ID: "5", Name: "Marketing"},
	}

	ranked := rankMatches(results, "design")

	require.Len(t, ranked, 4)
	assert.Equal(t, "design", ranked[0].Name, "exact match ranks first")
	assert.Equal(t, "Design System", ranked[1].Name, "prefix matches follow")
	assert.Equal(t, "Designs Archive", ranked[2].Name)
	assert.Equal(t, "Redesign Sprint", ranked[3].Name, "substring matches come last")
}

func TestRankMatches_CaseInsensitive(t *testing.T) {
	results := []domain.SearchResult{{Kind: "workspace", ID: "1", Name: "ENGINEERING"}}
	ranked := rankMatches(results, "engineering")
	require.Len(t, ranked, 1)
	assert.Equal(t, "ENGINEERING", ranked[0].Name)
}

func TestRankMatches_BlankQueryReturnsNothing(t *testing.T) {
	results := []domain.SearchResult{{Kind: "board", ID: "1", Name: "Anything"}}
	assert.Empty(t, rankMatches(results, "   "))
}

func TestSearch_ScopedToAccessibleEntities(t *testing.T) {
	userID := primitive.NewObjectID()
	org := testOrg(userID)
	ws := testWorkspace(userID)
	ws.OrganizationID = org.ID

	orgRepo := new(MockOrganizationRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	boardRepo := new(MockBoardRepository)
	svc := NewSearchService(orgRepo, workspaceRepo, boardRepo, newMemCache())

	orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil)
	orgRepo.On("ListByUserID", mock.Anything, userID).Return([]domain.Organization{*org}, nil)
	workspaceRepo.On("ListByOrganization", mock.Anything, org.ID, userID).Return([]domain.Workspace{*ws}, nil)
	boardRepo.On("ListByWorkspaces", mock.Anything, []primitive.ObjectID{ws.ID}).Return([]domain.Board{
		{ID: primitive.NewObjectID(), Name: "Engineering Roadmap", WorkspaceID: ws.ID},
	}, nil)

	results, err := svc.Search(context.Background(), userID, org.ID, "engineering")
	require.NoError(t, err)
	assert.Empty(t, results.Organizations)
	require.Len(t, results.Workspaces, 1)
	require.Len(t, results.Boards, 1)
	assert.Equal(t, "board", results.Boards[0].Kind)
}

func TestSearch_IndexCachedAcrossQueries(t *testing.T) {
	userID := primitive.NewObjectID()
	org := testOrg(userID)

	orgRepo := new(MockOrganizationRepository)
	workspaceRepo := new(MockWorkspaceRepository)
	boardRepo := new(MockBoardRepository)
	svc := NewSearchService(orgRepo, workspaceRepo, boardRepo, newMemCache())

	orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil).Once()
	orgRepo.On("ListByUserID", mock.Anything, userID).Return([]domain.Organization{*org}, nil).Once()
	workspaceRepo.On("ListByOrganization", mock.Anything, org.ID, userID).Return([]domain.Workspace{}, nil).Once()
	boardRepo.On("ListByWorkspaces", mock.Anything, []primitive.ObjectID{}).Return([]domain.Board{}, nil).Once()

	_, err := svc.Search(context.Background(), userID, org.ID, "acme")
	require.NoError(t, err)
	results, err := svc.Search(context.Background(), userID, org.ID, "acme")
	require.NoError(t, err)

	require.Len(t, results.Organizations, 1)
	orgRepo.AssertNumberOfCalls(t, "ListByUserID", 1)
}

func TestSearch_NonMemberDenied(t *testing.T) {
	ownerID := primitive.NewObjectID()
	org := testOrg(ownerID)

	orgRepo := new(MockOrganizationRepository)
	svc := NewSearchService(orgRepo, new(MockWorkspaceRepository), new(MockBoardRepository), newMemCache())

	orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil)

	_, err := svc.Search(context.Background(), primitive.NewObjectID(), org.ID, "anything")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
