package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"peoplefirst_backend/internal/model"
	"peoplefirst_backend/internal/repository"
)

func newContentFixture(t *testing.T) (*ContentService, *miniredis.Miniredis) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		IgnoreRelationshipsWhenMigrating:         true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Content{}))
	// Author preload reads the users table; the mysql-typed User model
	// does not migrate on sqlite, a minimal stand-in is enough here.
	require.NoError(t, db.Exec("CREATE TABLE users (id integer primary key, name text, email text, deleted_at datetime)").Error)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewContentService(repository.NewContentRepository(db), nil, nil, rdb), mr
}

func TestContentService_CreateInvalidatesBrowseCache(t *testing.T) {
	svc, _ := newContentFixture(t)
	ctx := context.Background()

	_, err := svc.Create(1, ContentInput{Title: "Old guide", Category: "design"})
	require.NoError(t, err)

	// Prime the first-page and category caches.
	page, err := svc.List(ctx, 1, 20, "", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	_, err = svc.Categories(ctx)
	require.NoError(t, err)

	_, err = svc.Create(2, ContentInput{Title: "New guide", Category: "engineering"})
	require.NoError(t, err)

	page, err = svc.List(ctx, 1, 20, "", "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"design", "engineering"}, categories)
}

func TestContentService_ListCachesFirstUnfilteredPage(t *testing.T) {
	svc, mr := newContentFixture(t)
	ctx := context.Background()

	_, err := svc.Create(1, ContentInput{Title: "Guide", Category: "design"})
	require.NoError(t, err)

	_, err = svc.List(ctx, 1, 20, "", "")
	require.NoError(t, err)
	assert.True(t, mr.Exists(listCachePrefix + "s20"))

	// Filtered and later pages bypass the cache.
	mr.FlushAll()
	_, err = svc.List(ctx, 1, 20, "design", "")
	require.NoError(t, err)
	_, err = svc.List(ctx, 2, 20, "", "")
	require.NoError(t, err)
	assert.False(t, mr.Exists(listCachePrefix + "s20"))
}
