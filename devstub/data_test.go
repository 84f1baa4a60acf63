package devstub

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDemoAccountsStoreBcryptHashes(t *testing.T) {
	accounts := demoAccounts()
	require.Len(t, accounts, 4)

	for email, acct := range accounts {
		require.True(t, strings.HasPrefix(acct.passwordHash, "$2"),
			"%s should hold a bcrypt hash, got %q", email, acct.passwordHash)
		require.False(t, acct.checkPassword("not-the-password"), email)
	}

	admin := accounts["admin@indiriim.com"]
	require.True(t, admin.checkPassword("admin123"))
	require.NotEqual(t, "admin123", admin.passwordHash)
}
