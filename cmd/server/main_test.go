package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func setTestEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "cli_test_secret")
	t.Setenv("DATABASE_DIRECTORY", t.TempDir())
	t.Setenv("DATABASE_FILE", "env.db")
	t.Setenv("SERVER_PORT", "8080")
}

func TestMigrateCommand(t *testing.T) {
	setTestEnv(t)
	dir := t.TempDir()

	err := newRootCommand().Run(context.Background(), []string{"recipe-backend", "migrate", "--db-dir", dir, "--db-file", "cli.db"})
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", filepath.Join(dir, "cli.db"))
	require.NoError(t, err)
	defer db.Close()

	var tables int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'recipes', 'ingredients', 'user_tokens')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 4, tables)
}

func TestMigrateCommandRequiresSecret(t *testing.T) {
	setTestEnv(t)
	t.Setenv("JWT_SECRET", "")

	err := newRootCommand().Run(context.Background(), []string{"recipe-backend", "migrate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigOverrides(t *testing.T) {
	setTestEnv(t)

	testCases := []struct {
		name     string
		args     []string
		wantPort string
		wantFile string
	}{
		{name: "defaults from env", args: []string{"serve"}, wantPort: "8080", wantFile: "env.db"},
		{name: "flags win", args: []string{"serve", "--port", "9090", "--db-file", "flag.db"}, wantPort: "9090", wantFile: "flag.db"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotPort, gotFile string
			cmd := &cli.Command{
				Name:  tc.args[0],
				Flags: append([]cli.Flag{portFlag()}, dbFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					gotPort, gotFile = cfg.ServerPort, cfg.DatabaseFile
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), tc.args))
			assert.Equal(t, tc.wantPort, gotPort)
			assert.Equal(t, tc.wantFile, gotFile)
		})
	}
}
