package association

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gargrave/gameon-server/pkg/gameon/catalog"
	"github.com/gargrave/gameon-server/pkg/gameon/database"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
	"github.com/gargrave/gameon-server/pkg/gameon/store"
	"github.com/gargrave/gameon-server/pkg/gameon/validation"
)

type fixture struct {
	svc     *Service
	catalog *catalog.Service
	store   *store.Store
	alice   uint
	bob     uint
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
	v := validation.New()
	return &fixture{
		svc:     NewService(st, v, logger),
		catalog: catalog.NewService(st, v, logger),
		store:   st,
		alice:   alice.ID,
		bob:     bob.ID,
	}
}

func (f *fixture) game(t *testing.T, owner uint, title string) *models.Game {
	t.Helper()
	g, err := f.catalog.CreateGame(context.Background(), owner, catalog.CreateGameInput{Title: title})
	require.NoError(t, err)
	return g
}

func (f *fixture) tag(t *testing.T, owner uint, title string) *models.Tag {
	t.Helper()
	tag, err := f.catalog.CreateTag(context.Background(), owner, catalog.TagInput{Title: title})
	require.NoError(t, err)
	return tag
}

func (f *fixture) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.store.DB().Model(model).Where(where, args...).Count(&n).Error)
	return n
}
