package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFactories_Deterministic(t *testing.T) {
	assert.True(t, BoardKey("abc").Equal(BoardKey("abc")))
	assert.True(t, DashboardKey("u1", "o1").Equal(DashboardKey("u1", "o1")))
	assert.False(t, BoardKey("abc").Equal(BoardKey("def")))
	assert.False(t, DashboardKey("u1", "o1").Equal(DashboardKey("u1", "o2")))
}

func TestKeyString_JoinsWithColons(t *testing.T) {
	assert.Equal(t, "boards:detail:abc", BoardKey("abc").String())
	assert.Equal(t, "dashboard:u1:organization:o1", DashboardKey("u1", "o1").String())
	assert.Equal(t, "boards:sidebar*", SidebarPrefix().Pattern())
}

func TestCoarseKeysPrefixFinerKeys(t *testing.T) {
	assert.True(t, SidebarKey("u1", "o1").HasPrefix(SidebarPrefix()))
	assert.True(t, DashboardKey("u1", "o1").HasPrefix(DashboardPrefix()))
	assert.True(t, WorkspaceListKey("u1", "o1").HasPrefix(WorkspaceListPrefix("u1")))
	assert.True(t, SearchKey("u1", "o1").HasPrefix(SearchPrefix("u1")))

	// Different user's keys must not match the prefix.
	assert.False(t, WorkspaceListKey("u2", "o1").HasPrefix(WorkspaceListPrefix("u1")))
}

func TestChild_DoesNotAliasParent(t *testing.T) {
	parent := Key{"a", "b"}
	c1 := parent.Child("c")
	c2 := parent.Child("d")
	assert.Equal(t, "a:b:c", c1.String())
	assert.Equal(t, "a:b:d", c2.String())
	assert.Equal(t, "a:b", parent.String())
}

func TestEntityNamespacesDisjoint(t *testing.T) {
	id := "5f1a2b3c4d5e6f7a8b9c0d1e"
	keys := []Key{
		UserKey(id),
		OrganizationKey(id),
		WorkspaceKey(id),
		BoardKey(id),
		BoardTasksKey(id),
		TemplateKey(id),
	}
	seen := make(map[string]bool)
	for _, k := range keys {
		assert.False(t, seen[k.String()], "key collision: %s", k)
		seen[k.String()] = true
	}
}
