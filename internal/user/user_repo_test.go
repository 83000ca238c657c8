package user_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/user"
)

func openGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	return gdb, mock
}

// Balance credits happen inside the TOIL approval transaction; the write must
// run on that transaction so a later failure cannot leave the balance credited
// while the entry stays pending.
func TestUserRepository_WithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("toil balance write rolls back with the transaction", func(t *testing.T) {
		gdb, poolMock := openGormDB(t)

		txDB, txMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer txDB.Close()

		txMock.ExpectBegin()
		txMock.ExpectExec(`UPDATE "users" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		txMock.ExpectRollback()

		tx, err := txDB.Begin()
		assert.NoError(t, err)

		repo := user.NewRepository(gdb).WithTx(tx)
		assert.NoError(t, repo.SetToilBalance(ctx, uuid.NewString(), 6))

		assert.NoError(t, tx.Rollback())
		assert.NoError(t, txMock.ExpectationsWereMet())
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("without a transaction statements use the pool", func(t *testing.T) {
		gdb, poolMock := openGormDB(t)

		poolMock.ExpectBegin()
		poolMock.ExpectExec(`UPDATE "users" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		poolMock.ExpectCommit()

		repo := user.NewRepository(gdb)
		assert.NoError(t, repo.SetToilBalance(ctx, uuid.NewString(), 6))

		assert.NoError(t, poolMock.ExpectationsWereMet())
	})
}
