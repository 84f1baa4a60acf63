package roles_test

import (
	"testing"

	"github.com/indiriim/go-notify-admin/roles"
	"github.com/stretchr/testify/require"
)

func TestCapabilityTiers(t *testing.T) {
	tests := []struct {
		role     roles.Tag
		manage   bool
		write    bool
		readOnly bool
	}{
		{roles.Admin, true, true, false},
		{roles.ProjectOwner, true, true, false},
		{roles.MarketingManager, true, true, false},
		{roles.Marketing, true, true, false},
		{roles.MarketingStaff, false, true, false},
		{roles.ReadOnly, false, false, true},
		{roles.User, false, false, true},
		{roles.Tag(""), false, false, false},
		{roles.Tag("SOMETHING_ELSE"), false, false, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			require.Equal(t, tc.manage, roles.CanManage(tc.role))
			require.Equal(t, tc.write, roles.CanWrite(tc.role))
			require.Equal(t, tc.readOnly, roles.IsReadOnly(tc.role))
		})
	}
}

// Manage implies write, and no role may be both manage and read-only.
func TestPredicateConsistency(t *testing.T) {
	for _, role := range roles.All {
		if roles.CanManage(role) {
			require.True(t, roles.CanWrite(role), "manage role %q must also write", role)
			require.False(t, roles.IsReadOnly(role), "manage role %q cannot be read-only", role)
		}
		if roles.IsReadOnly(role) {
			require.False(t, roles.CanWrite(role), "read-only role %q cannot write", role)
		}
	}
}

func TestKnown(t *testing.T) {
	for _, role := range roles.All {
		require.True(t, roles.Known(role))
	}
	require.False(t, roles.Known(""))
	require.False(t, roles.Known("SUPERUSER"))
}
