package helper_test

import (
	"hotel/config"
	"hotel/helper"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionString(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Write.Username = "hotel"
	cfg.DB.Postgres.Write.Password = "secret"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "bookings"
	cfg.DB.Postgres.Write.SSLMode = "disable"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"

	assert.Equal(t,
		"postgres://hotel:secret@db:5432/bookings?sslmode=disable&x-migrations-table=schema_migrations",
		helper.ConnectionString(cfg))

	cfg.DB.Postgres.Prefix = "test_"

	assert.Equal(t,
		"postgres://hotel:secret@db:5432/test_bookings?sslmode=disable&x-migrations-table=schema_migrations",
		helper.ConnectionString(cfg))
}
