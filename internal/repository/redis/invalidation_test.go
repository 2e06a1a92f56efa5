package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planContainsKey(p Plan, key Key) bool {
	for _, k := range p.Keys {
		if k.Equal(key) {
			return true
		}
	}
	return false
}

func planContainsPrefix(p Plan, prefix Key) bool {
	for _, k := range p.Prefixes {
		if k.Equal(prefix) {
			return true
		}
	}
	return false
}

func TestPlanFor_TaskMutationsStayBoardScoped(t *testing.T) {
	for _, kind := range []MutationKind{MutationTaskCreated, MutationTaskUpdated, MutationTaskMoved, MutationTaskDeleted} {
		plan := PlanFor(Mutation{Kind: kind, BoardID: "b1"})
		assert.True(t, planContainsKey(plan, BoardTasksKey("b1")), "%s must evict the task list", kind)
		assert.True(t, planContainsKey(plan, BoardKey("b1")), "%s must evict the board detail", kind)
		assert.Empty(t, plan.Prefixes, "%s needs no prefix sweep", kind)
	}
}

func TestPlanFor_BoardUpdateEvictsListsAndSidebar(t *testing.T) {
	plan := PlanFor(Mutation{
		Kind:           MutationBoardUpdated,
		UserID:         "u1",
		OrganizationID: "o1",
		WorkspaceID:    "w1",
		BoardID:        "b1",
	})

	assert.True(t, planContainsKey(plan, BoardKey("b1")))
	assert.True(t, planContainsKey(plan, BoardTasksKey("b1")))
	assert.True(t, planContainsKey(plan, BoardListByWorkspaceKey("w1")))
	assert.True(t, planContainsKey(plan, BoardListByOrganizationKey("o1")))
	assert.True(t, planContainsPrefix(plan, SidebarPrefix()), "every user's sidebar goes stale on a board change")
}

func TestPlanFor_ColumnChangeMatchesBoardUpdate(t *testing.T) {
	m := Mutation{UserID: "u1", OrganizationID: "o1", WorkspaceID: "w1", BoardID: "b1"}

	mu := m
	mu.Kind = MutationBoardUpdated
	mc := m
	mc.Kind = MutationColumnChanged

	assert.Equal(t, PlanFor(mu), PlanFor(mc), "column edits invalidate the same views as a board update")
}

func TestPlanFor_WorkspaceMutationTouchesDashboard(t *testing.T) {
	plan := PlanFor(Mutation{
		Kind:           MutationWorkspaceCreated,
		UserID:         "u1",
		OrganizationID: "o1",
		WorkspaceID:    "w1",
	})

	assert.True(t, planContainsKey(plan, WorkspaceKey("w1")))
	assert.True(t, planContainsKey(plan, WorkspaceListKey("u1", "o1")))
	assert.True(t, planContainsKey(plan, OrganizationKey("o1")))
	assert.True(t, planContainsKey(plan, DashboardKey("u1", "o1")))
	assert.True(t, planContainsPrefix(plan, Key{"workspaces", "list"}))
}

func TestPlanFor_OrganizationSwitchScopedToPreviousTenant(t *testing.T) {
	plan := PlanFor(Mutation{
		Kind:               MutationOrganizationSwitched,
		UserID:             "u1",
		PrevOrganizationID: "o-old",
	})

	require.Empty(t, plan.Keys, "a switch writes nothing; it only sweeps")
	assert.True(t, planContainsPrefix(plan, DashboardKey("u1", "o-old")))
	assert.True(t, planContainsPrefix(plan, SidebarKey("u1", "o-old")))
	assert.True(t, planContainsPrefix(plan, WorkspaceListKey("u1", "o-old")))
	assert.True(t, planContainsPrefix(plan, SearchKey("u1", "o-old")))
	assert.True(t, planContainsPrefix(plan, BoardListByOrganizationKey("o-old")))

	for _, p := range plan.Prefixes {
		assert.NotContains(t, p.String(), "o-new", "the new tenant's caches must survive")
	}
}

func TestPlanFor_MembershipChangeOmitsAbsentScopes(t *testing.T) {
	orgOnly := PlanFor(Mutation{Kind: MutationMembershipChanged, UserID: "u1", OrganizationID: "o1"})
	assert.True(t, planContainsKey(orgOnly, OrganizationKey("o1")))
	assert.False(t, planContainsKey(orgOnly, WorkspaceKey("")), "no empty-id keys in the plan")

	withWorkspace := PlanFor(Mutation{Kind: MutationMembershipChanged, UserID: "u1", OrganizationID: "o1", WorkspaceID: "w1"})
	assert.True(t, planContainsKey(withWorkspace, WorkspaceKey("w1")))
}

func TestPlanFor_MembershipChangeSweepsPerUserViews(t *testing.T) {
	plan := PlanFor(Mutation{Kind: MutationMembershipChanged, UserID: "u1", OrganizationID: "o1"})

	assert.True(t, planContainsPrefix(plan, DashboardPrefix()), "other members' dashboards go stale too")
	assert.True(t, planContainsPrefix(plan, SidebarPrefix()), "other members' sidebars go stale too")
}

func TestPlanFor_PureFunctionOfMutation(t *testing.T) {
	m := Mutation{Kind: MutationBoardUpdated, UserID: "u1", OrganizationID: "o1", WorkspaceID: "w1", BoardID: "b1"}
	assert.Equal(t, PlanFor(m), PlanFor(m), "same mutation, same plan")
}

func TestPlanFor_UnknownKindIsEmpty(t *testing.T) {
	plan := PlanFor(Mutation{Kind: MutationKind("someday")})
	assert.Empty(t, plan.Keys)
	assert.Empty(t, plan.Prefixes)
}
