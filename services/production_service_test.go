package services

import (
	"testing"
	"time"

	"github.com/printworks/printworks-api/models"
	"github.com/stretchr/testify/assert"
)

func TestUpdateStatus_PrintingStampsStartOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	order := seedOrderWithItems(t, db, user.ID, nil)

	svc := NewProductionService(db)

	updated, err := svc.UpdateStatus(user, order.ID, models.ProductionPrinting, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.ProductionPrinting, updated.ProductionStatus)
	assert.NotNil(t, updated.PrintStartedAt)
	firstStart := *updated.PrintStartedAt

	updated, err = svc.UpdateStatus(user, order.ID, models.ProductionPrinting, nil)
	assert.NoError(t, err)
	assert.Equal(t, firstStart, *updated.PrintStartedAt, "Repeating the transition must not move the timestamp")
}

func TestUpdateStatus_PrintedComputesDuration(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	order := seedOrderWithItems(t, db, user.ID, nil)

	// Backdate the start so the computed duration is meaningful
	startedAt := time.Now().UTC().Add(-90 * time.Minute)
	db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"production_status": models.ProductionPrinting,
			"print_started_at":  startedAt,
		})

	updated, err := NewProductionService(db).UpdateStatus(user, order.ID, models.ProductionPrinted, nil)
	assert.NoError(t, err)
	assert.NotNil(t, updated.PrintCompletedAt)
	assert.NotNil(t, updated.ActualPrintMinutes)
	assert.Equal(t, 90, *updated.ActualPrintMinutes)
}

func TestUpdateStatus_PrintedWithoutStartSkipsDuration(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	order := seedOrderWithItems(t, db, user.ID, nil)

	updated, err := NewProductionService(db).UpdateStatus(user, order.ID, models.ProductionPrinted, nil)
	assert.NoError(t, err)
	assert.NotNil(t, updated.PrintCompletedAt)
	assert.Nil(t, updated.ActualPrintMinutes, "No start time means no duration")
}

func TestUpdateStatus_FailedIncrementsCounter(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	order := seedOrderWithItems(t, db, user.ID, nil)

	svc := NewProductionService(db)

	note := "nozzle clog halfway through"
	updated, err := svc.UpdateStatus(user, order.ID, models.ProductionFailed, &note)
	assert.NoError(t, err)
	assert.Equal(t, 1, updated.PrintFailures)
	assert.Equal(t, note, *updated.ProductionNote)

	updated, err = svc.UpdateStatus(user, order.ID, models.ProductionFailed, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, updated.PrintFailures)
	assert.Equal(t, note, *updated.ProductionNote, "A nil note leaves the previous one alone")
}

func TestUpdateStatus_NoteReplaced(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	order := seedOrderWithItems(t, db, user.ID, nil)

	svc := NewProductionService(db)

	first := "first note"
	_, err := svc.UpdateStatus(user, order.ID, models.ProductionQueued, &first)
	assert.NoError(t, err)

	second := "second note"
	updated, err := svc.UpdateStatus(user, order.ID, models.ProductionQueued, &second)
	assert.NoError(t, err)
	assert.Equal(t, second, *updated.ProductionNote)
}

func TestUpdateStatus_Errors(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	svc := NewProductionService(db)

	_, err := svc.UpdateStatus(user, 1, "BROKEN", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(user, 99999, models.ProductionPrinting, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
