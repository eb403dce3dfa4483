package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	rewards := catalog(time.Now())

	require.Len(t, rewards, 5)
	points := map[string]int{}
	for _, rw := range rewards {
		assert.True(t, rw.Active)
		assert.NotEmpty(t, rw.Description)
		points[rw.Name] = rw.Points
	}
	assert.Equal(t, 350, points["Premium Gin Collection"])
	assert.Equal(t, 50, points["Cocktail Recipe Book"])
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_rewards.sql", "001_init.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0644))
	}

	files, err := migrationFiles(dir)

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "001_init.sql", filepath.Base(files[0]))

	_, err = migrationFiles(t.TempDir())
	assert.Error(t, err)
}

func TestShippedMigrations(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", "migrations"))

	require.NoError(t, err)
	assert.NotEmpty(t, files)
}
