package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDeadline(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Ho_Chi_Minh")

	out, err := execute(t, "deadline", "--priority", "urgent", "--from", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16T00:00:00+07:00", strings.TrimSpace(out))

	out, err = execute(t, "deadline", "--from", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31T00:00:00+07:00", strings.TrimSpace(out))
}

func TestDeadline_PolicyFromEnv(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("SLA_LOW_DAYS", "90")

	out, err := execute(t, "deadline", "--priority", "low", "--from", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31T00:00:00Z", strings.TrimSpace(out))
}

func TestDeadline_InvalidInput(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")

	_, err := execute(t, "deadline", "--priority", "critical", "--from", "2024-01-01")
	assert.ErrorContains(t, err, "invalid priority")

	_, err = execute(t, "deadline", "--from", "01/01/2024")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestOverdue_MemoryStoreIsEmpty(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOCK_BACKEND", "local")

	out, err := execute(t, "overdue")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Empty(t, rows)
}

func TestOverdue_XLSX(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("STORE_BACKEND", "memory")

	path := filepath.Join(t.TempDir(), "overdue.xlsx")
	_, err := execute(t, "overdue", "--xlsx", path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("PK")))
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("STORE_BACKEND", "memory")

	_, err := execute(t, "migrate")
	assert.ErrorContains(t, err, "STORE_BACKEND=postgres")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "caseflowctl version")
}
