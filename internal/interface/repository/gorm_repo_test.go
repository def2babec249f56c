package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"cpaptracker-service/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockGormDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *gorm.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock, gormDB
}

var partColumns = []string{
	"id", "name", "category", "manufacturer", "compatible_model",
	"recommended_interval_days", "description", "created_at", "updated_at",
}

var replacementColumns = []string{
	"id", "part_id", "last_replaced_date", "next_replacement_date", "is_ordered",
	"order_date", "order_notes", "replacement_notes", "created_at", "updated_at",
}

func TestListParts_Success(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormPartRepository(gormDB)
	now := time.Now()

	rows := sqlmock.NewRows(partColumns).
		AddRow(4, "Air Filter (Disposable)", "AIR_FILTER", "ResMed", "AirCurve 10 VAuto", 30, "Disposable air filter", now, now).
		AddRow(1, "Mask Cushion", "MASK_CUSHION", "ResMed", "AirFit F40", 30, "Silicone cushion", now, now)

	mock.ExpectQuery(`SELECT \* FROM "parts" ORDER BY name ASC`).WillReturnRows(rows)

	parts, err := repo.ListParts(context.Background())

	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, uint(4), parts[0].ID)
	assert.Equal(t, entity.CategoryAirFilter, parts[0].Category)
	assert.Equal(t, 30, parts[0].RecommendedIntervalDays)
	assert.Equal(t, "AirFit F40", parts[1].CompatibleModel)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPart_NotFound(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormPartRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "parts"`).WillReturnRows(sqlmock.NewRows(partColumns))

	part, err := repo.GetPart(context.Background(), 12)

	assert.Nil(t, part)
	assert.True(t, errors.Is(err, entity.ErrUnknownPart))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPart_DatabaseError(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormPartRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "parts"`).WillReturnError(sql.ErrConnDone)

	_, err := repo.GetPart(context.Background(), 12)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.False(t, errors.Is(err, entity.ErrUnknownPart))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePart_SetsGeneratedID(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormPartRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "parts"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectCommit()

	part := &entity.Part{Name: "Chinstrap", Category: entity.CategoryChinstrap, RecommendedIntervalDays: 180}
	err := repo.CreatePart(context.Background(), part)

	require.NoError(t, err)
	assert.Equal(t, uint(8), part.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePart_Unknown(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormPartRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "parts"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdatePart(context.Background(), &entity.Part{ID: 99, Name: "Tubing", RecommendedIntervalDays: 90})

	assert.ErrorIs(t, err, entity.ErrUnknownPart)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePart_CascadesInTransaction(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormPartRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "part_replacements"`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "parts"`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeletePart(context.Background(), 3)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePart_UnknownRollsBack(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormPartRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "part_replacements"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "parts"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeletePart(context.Background(), 3)

	assert.ErrorIs(t, err, entity.ErrUnknownPart)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEventsForPart_Success(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormReplacementRepository(gormDB)

	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	now := time.Now()
	rows := sqlmock.NewRows(replacementColumns).
		AddRow(2, 5, d(20), d(30), true, d(25), "ordered", "", now, now).
		AddRow(1, 5, d(1), d(11), false, nil, "", "Initial setup", now, now)

	mock.ExpectQuery(`SELECT \* FROM "part_replacements" WHERE part_id = \$1 ORDER BY last_replaced_date DESC, id DESC`).
		WithArgs(5).
		WillReturnRows(rows)

	events, err := repo.ListEventsForPart(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint(2), events[0].ID)
	assert.True(t, events[0].IsOrdered)
	require.NotNil(t, events[0].OrderDate)
	assert.Equal(t, d(25), *events[0].OrderDate)
	assert.Nil(t, events[1].OrderDate)
	assert.Equal(t, "Initial setup", events[1].ReplacementNotes)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_ReturnsID(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormReplacementRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "part_replacements"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))
	mock.ExpectCommit()

	event := &entity.ReplacementEvent{
		PartID:              5,
		LastReplacedDate:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		NextReplacementDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	id, err := repo.Append(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, uint(17), id)
	assert.Equal(t, uint(17), event.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEvent_Success(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormReplacementRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "part_replacements" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	orderDate := time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC)
	err := repo.Update(context.Background(), &entity.ReplacementEvent{ID: 17, IsOrdered: true, OrderDate: &orderDate})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEvent_NotFound(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormReplacementRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "part_replacements" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &entity.ReplacementEvent{ID: 17, IsOrdered: true})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEventsForPart(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormReplacementRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "part_replacements" WHERE part_id = \$1`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteEventsForPart(context.Background(), 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshot_ReadsBothTablesInOneTransaction(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormSnapshotRepository(gormDB)
	now := time.Now()
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "parts"`).WillReturnRows(sqlmock.NewRows(partColumns).
		AddRow(1, "Mask Cushion", "MASK_CUSHION", "ResMed", "AirFit F40", 30, "", now, now))
	mock.ExpectQuery(`SELECT \* FROM "part_replacements"`).WillReturnRows(sqlmock.NewRows(replacementColumns).
		AddRow(1, 1, d, d.AddDate(0, 0, 30), false, nil, "", "Initial setup", now, now))
	mock.ExpectCommit()

	snapshot, err := repo.LoadSnapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshot.Parts, 1)
	require.Len(t, snapshot.Events, 1)
	assert.Equal(t, snapshot.Parts[0].ID, snapshot.Events[0].PartID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshot_FailureRollsBack(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormSnapshotRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "parts"`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	snapshot, err := repo.LoadSnapshot(context.Background())

	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEquipment_Success(t *testing.T) {
	db, mock, gormDB := setupMockGormDB(t)
	defer db.Close()
	repo := NewGormEquipmentRepository(gormDB)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "type", "manufacturer", "model", "serial_number", "purchase_date", "notes", "created_at", "updated_at"}).
		AddRow(1, "BIPAP_MACHINE", "ResMed", "AirCurve 10 VAuto", "23233592809", now, "BiPAP machine from VA", now, now)

	mock.ExpectQuery(`SELECT \* FROM "equipment" ORDER BY purchase_date DESC`).WillReturnRows(rows)

	equipment, err := repo.ListEquipment(context.Background())

	require.NoError(t, err)
	require.Len(t, equipment, 1)
	assert.Equal(t, entity.EquipmentBiPAPMachine, equipment[0].Type)
	assert.Equal(t, "AirCurve 10 VAuto", equipment[0].Model)
	require.NoError(t, mock.ExpectationsWereMet())
}
