package catalog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gargrave/gameon-server/pkg/gameon/database"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
	"github.com/gargrave/gameon-server/pkg/gameon/validation"
)

type fixture struct {
	svc   *Service
	store *store.Store
	alice uint
	bob   uint
}

func setup(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	st := store.New(db)
	ctx := context.Background()
	alice, err := st.EnsureUser(ctx, "alice", "alice@example.com", "Alice")
	require.NoError(t, err)
	bob, err := st.EnsureUser(ctx, "bob", "bob@example.com", "Bob")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		svc:   NewService(st, validation.New(), logger),
		store: st,
		alice: alice.ID,
		bob:   bob.ID,
	}
}

func (f *fixture) game(t *testing.T, owner uint, title string, archived bool) *models.Game {
	t.Helper()
	g, err := f.svc.CreateGame(context.Background(), owner, CreateGameInput{Title: title, Archived: archived})
	require.NoError(t, err)
	return g
}

func uintPtr(v uint) *uint { return &v }
func boolPtr(v bool) *bool { return &v }
func strPtr(v string) *string { return &v }
