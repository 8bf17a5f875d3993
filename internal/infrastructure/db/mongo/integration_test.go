//go:build integration

package mongo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/profitum/platform-api/internal/core/domain"
	mongostore "github.com/profitum/platform-api/internal/infrastructure/db/mongo"
)

func TestRecordStore_CRUD(t *testing.T) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database: "platform_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	store := mongostore.NewRecordStore(db)
	require.NoError(t, store.EnsureIndexes(ctx))

	created, err := store.Insert(ctx, domain.TablePreferences, domain.Record{
		"user_id":     "c1",
		"ui_settings": map[string]any{"theme": "dark"},
	})
	require.NoError(t, err)

	found, err := store.Find(ctx, domain.TablePreferences, domain.Eq("user_id", "c1"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, domain.Record{
		domain.FieldID: created.ID(),
		"user_id":      "c1",
		"ui_settings":  map[string]any{"theme": "dark"},
	}, found[0].Without(domain.FieldCreatedAt, domain.FieldUpdatedAt))
	require.True(t, found[0].Time(domain.FieldCreatedAt).Equal(created.Time(domain.FieldCreatedAt)))

	updated, err := store.Update(ctx, domain.TablePreferences, created.ID(), domain.Record{"dashboard_visited": true})
	require.NoError(t, err)
	require.True(t, updated.Bool("dashboard_visited"))

	missing, err := store.Update(ctx, domain.TablePreferences, "nope", domain.Record{"x": 1})
	require.NoError(t, err)
	require.Nil(t, missing)

	_, err = store.Insert(ctx, domain.TablePreferences, domain.Record{"user_id": "c1"})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.NotContains(t, err.Error(), "E11000")

	ok, err := store.Delete(ctx, domain.TablePreferences, created.ID())
	require.NoError(t, err)
	require.True(t, ok)

	rows, err := store.Find(ctx, "Nothing")
	require.NoError(t, err)
	require.Empty(t, rows)
}
