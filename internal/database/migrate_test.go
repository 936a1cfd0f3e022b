package database

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var migrationName = regexp.MustCompile(`^(\d{4})_([a-z0-9_]+)\.(up|down)\.sql$`)

func readMigrationNames(t *testing.T) []string {
	t.Helper()
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestMigrations_WellFormedNames(t *testing.T) {
	t.Parallel()

	for _, name := range readMigrationNames(t) {
		assert.Regexp(t, migrationName, name)
	}
}

func TestMigrations_EveryUpHasDown(t *testing.T) {
	t.Parallel()

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range readMigrationNames(t) {
		m := migrationName.FindStringSubmatch(name)
		require.NotNil(t, m, name)
		key := m[1] + "_" + m[2]
		switch m[3] {
		case "up":
			ups[key] = true
		case "down":
			downs[key] = true
		}
	}

	assert.Equal(t, ups, downs, "every up migration needs a matching down")
}

func TestMigrations_LinearNumbering(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, name := range readMigrationNames(t) {
		m := migrationName.FindStringSubmatch(name)
		require.NotNil(t, m, name)
		seen[m[1]] = true
	}

	for i := 1; i <= len(seen); i++ {
		assert.Contains(t, seen, fmt.Sprintf("%04d", i), "migration versions must be contiguous from 0001")
	}
}

func TestMigrations_OwnershipBackfillShape(t *testing.T) {
	t.Parallel()

	up, err := fs.ReadFile(migrationsFS, "migrations/0005_add_owner_to_cats_and_slideshows.up.sql")
	require.NoError(t, err)
	sql := string(up)

	// The ownership rollout adds the column nullable, backfills a sentinel
	// owner, then tightens to NOT NULL. Order matters for non-empty tables.
	addIdx := strings.Index(sql, "ADD COLUMN user_id")
	backfillIdx := strings.Index(sql, "00000000-0000-0000-0000-000000000001")
	notNullIdx := strings.Index(sql, "SET NOT NULL")

	require.GreaterOrEqual(t, addIdx, 0)
	require.GreaterOrEqual(t, backfillIdx, 0)
	require.GreaterOrEqual(t, notNullIdx, 0)
	assert.Less(t, addIdx, backfillIdx)
	assert.Less(t, backfillIdx, notNullIdx)
}

func TestNewMigrator_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewMigrator("not-a-database-url")
	assert.Error(t, err)
}
