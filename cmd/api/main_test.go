package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventure/eventure-api/migrations"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"create-admin"},
		{"import-zips"},
		{"version"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestVersionCommand(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Version: dev")
}

func TestCreateAdmin_RequiresFlags(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"create-admin", "--email", "root@eventure.com"})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestImportZips_MissingFile(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"import-zips", "--file", t.TempDir() + "/missing.csv"})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	err := printStatus(&out, []migrations.Status{
		{Version: 1, Name: "00001_create_users.sql", Applied: true, AppliedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Version: 2, Name: "00002_create_password_reset_codes.sql"},
	})

	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "2026-01-02 03:04:05")
	assert.Contains(t, string(lines[2]), "pending")
}
