package redis

// MutationKind classifies a write by the entities it touches.
type MutationKind string

const (
	MutationTaskCreated MutationKind = "task_created"
	MutationTaskUpdated MutationKind = "task_updated"
	MutationTaskMoved   MutationKind = "task_moved"
	MutationTaskDeleted MutationKind = "task_deleted"

	MutationBoardCreated  MutationKind = "board_created"
	MutationBoardUpdated  MutationKind = "board_updated"
	MutationBoardDeleted  MutationKind = "board_deleted"
	MutationColumnChanged MutationKind = "column_changed"

	MutationWorkspaceCreated MutationKind = "workspace_created"
	MutationWorkspaceUpdated MutationKind = "workspace_updated"
	MutationWorkspaceDeleted MutationKind = "workspace_deleted"

	MutationOrganizationCreated  MutationKind = "organization_created"
	MutationOrganizationUpdated  MutationKind = "organization_updated"
	MutationOrganizationDeleted  MutationKind = "organization_deleted"
	MutationOrganizationSwitched MutationKind = "organization_switched"

	MutationMembershipChanged MutationKind = "membership_changed"
)

// Mutation identifies a write and the ids it affected. Only the ids
// relevant to the kind need to be set.
type Mutation struct {
	Kind           MutationKind
	UserID         string
	OrganizationID string
	WorkspaceID    string
	BoardID        string

	// PrevOrganizationID is set only for organization switches.
	PrevOrganizationID string
}

// Plan is the complete set of cache keys a mutation invalidates. Keys are
// deleted exactly; Prefixes are swept with a pattern scan. Applying a plan
// twice leaves the cache in the same state as applying it once.
type Plan struct {
	Keys     []Key
	Prefixes []Key
}

func (p Plan) merge(other Plan) Plan {
	return Plan{
		Keys:     append(p.Keys, other.Keys...),
		Prefixes: append(p.Prefixes, other.Prefixes...),
	}
}

// PlanFor maps a mutation to its invalidation plan. It is a pure function
// of the mutation: it never inspects cache contents.
func PlanFor(m Mutation) Plan {
	switch m.Kind {
	case MutationTaskCreated, MutationTaskUpdated, MutationTaskMoved, MutationTaskDeleted:
		return Plan{
			Keys: []Key{
				BoardTasksKey(m.BoardID),
				BoardKey(m.BoardID),
			},
		}

	case MutationBoardCreated, MutationBoardDeleted:
		return boardListPlan(m).merge(Plan{
			Keys: []Key{BoardKey(m.BoardID), BoardTasksKey(m.BoardID)},
		})

	case MutationBoardUpdated, MutationColumnChanged:
		return boardListPlan(m).merge(Plan{
			Keys: []Key{BoardKey(m.BoardID), BoardTasksKey(m.BoardID)},
		})

	case MutationWorkspaceCreated, MutationWorkspaceUpdated, MutationWorkspaceDeleted:
		return Plan{
			Keys: []Key{
				WorkspaceKey(m.WorkspaceID),
				WorkspaceListKey(m.UserID, m.OrganizationID),
				OrganizationKey(m.OrganizationID),
				DashboardKey(m.UserID, m.OrganizationID),
			},
			// Other members' workspace lists are stale too; they are
			// scoped under the same namespace.
			Prefixes: []Key{{"workspaces", "list"}},
		}

	case MutationOrganizationCreated, MutationOrganizationUpdated, MutationOrganizationDeleted:
		return Plan{
			Keys: []Key{
				OrganizationKey(m.OrganizationID),
				OrganizationListKey(m.UserID),
			},
		}

	case MutationMembershipChanged:
		// Membership edits change what other users can see, so the
		// per-user aggregate views sweep across all users, not just the
		// acting one.
		plan := Plan{
			Keys: []Key{OrganizationKey(m.OrganizationID)},
			Prefixes: []Key{
				{"organizations", "list"},
				{"workspaces", "list"},
				DashboardPrefix(),
				SidebarPrefix(),
			},
		}
		if m.WorkspaceID != "" {
			plan.Keys = append(plan.Keys, WorkspaceKey(m.WorkspaceID))
		}
		if m.BoardID != "" {
			plan.Keys = append(plan.Keys, BoardKey(m.BoardID))
		}
		return plan

	case MutationOrganizationSwitched:
		// Tenant switch: drop everything scoped to the previous
		// organization for this user to bound memory growth, and clear
		// the acting user's dashboard, sidebar and search namespaces so
		// the next read bypasses stale cache.
		return Plan{
			Prefixes: []Key{
				DashboardKey(m.UserID, m.PrevOrganizationID),
				SidebarKey(m.UserID, m.PrevOrganizationID),
				WorkspaceListKey(m.UserID, m.PrevOrganizationID),
				SearchKey(m.UserID, m.PrevOrganizationID),
				BoardListByOrganizationKey(m.PrevOrganizationID),
			},
		}
	}

	return Plan{}
}

// boardListPlan covers the list views a board change makes stale: the
// parent workspace's board list, the organization board list, and every
// sidebar cache regardless of user.
func boardListPlan(m Mutation) Plan {
	return Plan{
		Keys: []Key{
			BoardListByWorkspaceKey(m.WorkspaceID),
			BoardListByOrganizationKey(m.OrganizationID),
		},
		Prefixes: []Key{SidebarPrefix()},
	}
}
