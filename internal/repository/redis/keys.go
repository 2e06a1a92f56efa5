package redis

import "strings"

// Key is an ordered tuple of string segments forming a hierarchical cache
// key. Two calls to any factory with identical arguments produce equal
// keys; callers rely on this for direct lookup and for prefix-based bulk
// invalidation. A coarser key (e.g. boards:sidebar) is a strict prefix of
// every finer key built from it.
type Key []string

// String renders the key in Redis form, segments joined by ':'.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Pattern renders the key as a SCAN match pattern covering the key itself
// and everything scoped under it.
func (k Key) Pattern() string {
	return k.String() + "*"
}

// Child returns a finer key scoped under k.
func (k Key) Child(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	return append(out, segments...)
}

// Equal reports element-wise equality.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is an element-wise prefix of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Key factories. Segment order goes coarse to fine: entity namespace,
// subscope, then user and organization scoping, so that per-user and
// per-organization cleanup reduces to a prefix match.

func UserKey(userID string) Key {
	return Key{"users", userID}
}

func OrganizationKey(orgID string) Key {
	return Key{"organizations", "detail", orgID}
}

func OrganizationListKey(userID string) Key {
	return Key{"organizations", "list", userID}
}

func WorkspaceKey(workspaceID string) Key {
	return Key{"workspaces", "detail", workspaceID}
}

// WorkspaceListPrefix covers every workspace list cached for a user.
func WorkspaceListPrefix(userID string) Key {
	return Key{"workspaces", "list", userID}
}

func WorkspaceListKey(userID, orgID string) Key {
	return WorkspaceListPrefix(userID).Child("organization", orgID)
}

func BoardKey(boardID string) Key {
	return Key{"boards", "detail", boardID}
}

func BoardTasksKey(boardID string) Key {
	return Key{"boards", "tasks", boardID}
}

func BoardListByWorkspaceKey(workspaceID string) Key {
	return Key{"boards", "list", "workspace", workspaceID}
}

func BoardListByOrganizationKey(orgID string) Key {
	return Key{"boards", "list", "organization", orgID}
}

// SidebarPrefix covers sidebar board caches for every user.
func SidebarPrefix() Key {
	return Key{"boards", "sidebar"}
}

func SidebarKey(userID, orgID string) Key {
	return SidebarPrefix().Child(userID, "organization", orgID)
}

// DashboardPrefix covers dashboard caches for every user.
func DashboardPrefix() Key {
	return Key{"dashboard"}
}

func DashboardKey(userID, orgID string) Key {
	return DashboardPrefix().Child(userID, "organization", orgID)
}

func SearchPrefix(userID string) Key {
	return Key{"search", userID}
}

func SearchKey(userID, orgID string) Key {
	return SearchPrefix(userID).Child("organization", orgID)
}

func TemplateKey(templateID string) Key {
	return Key{"templates", "detail", templateID}
}

func TemplateListKey() Key {
	return Key{"templates", "list"}
}
