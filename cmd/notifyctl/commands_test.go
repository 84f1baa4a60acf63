package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubcommandSplit(t *testing.T) {
	cases := []struct {
		name     string
		args     []string
		wantSub  string
		wantRest []string
	}{
		{"empty", nil, "", nil},
		{"bare subcommand", []string{"list"}, "list", []string{}},
		{"subcommand with flags", []string{"create", "-name", "x"}, "create", []string{"-name", "x"}},
		{"leading flag is not a subcommand", []string{"-status", "ACTIVE"}, "", []string{"-status", "ACTIVE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub, rest := subcommand(tc.args)
			require.Equal(t, tc.wantSub, sub)
			require.Equal(t, tc.wantRest, rest)
		})
	}
}
