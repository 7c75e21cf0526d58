package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/database"
	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/testhelpers"
)

func TestSeedDefaultTermsIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	var count int64
	require.NoError(t, db.Model(&models.Term{}).Count(&count).Error)
	assert.Equal(t, int64(26), count)

	inserted, err := database.SeedDefaultTerms(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	var term models.Term
	require.NoError(t, db.Where("taxonomy = ? AND slug = ?", models.TaxonomyCategory, "main-courses").First(&term).Error)
	assert.Equal(t, "Main Courses", term.Name)
	assert.Equal(t, "Hearty dishes that make up the main part of a meal", term.Description)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "gluten-free", database.Slugify("Gluten-Free"))
	assert.Equal(t, "main-courses", database.Slugify("Main Courses"))
	assert.Equal(t, "creme-brulee", database.Slugify("  Crème Brûlée! "))
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.Default().Database
	cfg.Driver = "sqlite"
	cfg.Path = "file::memory:"

	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	assert.False(t, database.IsPostgres(db))
	assert.NoError(t, database.HealthCheck(context.Background(), db))
	assert.NoError(t, database.RunMigrations(db, "does-not-matter"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default().Database
	cfg.Driver = "oracle"
	_, err := database.Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	_, mr := testhelpers.SetupRedis(t)

	client, err := database.NewRedisClient(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestPostgresMigrations(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	assert.True(t, database.IsPostgres(db))

	var count int64
	require.NoError(t, db.Model(&models.Term{}).Count(&count).Error)
	assert.Equal(t, int64(26), count)
}
