package reservation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/database"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// setupTestStore creates an in-memory SQLite database for testing.
func setupTestStore(t *testing.T) reservation.Store {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(func() {
		teardown()
	})
	return reservation.NewStore(db)
}

func sample(id, courtID, date string) *reservation.Reservation {
	period := booking.PeriodOneMonth
	return &reservation.Reservation{
		ID:               id,
		ExternalID:       "ext-" + id,
		UserID:           "user-1",
		CourtID:          courtID,
		CourtName:        "Quadra " + courtID,
		Date:             date,
		Start:            booking.MustParseClock("18:00"),
		End:              booking.MustParseClock("20:00"),
		SlotIDs:          []string{courtID + "-18", courtID + "-19"},
		Sport:            "FUTEVOLEI",
		IsRecurring:      true,
		RecurrencePeriod: period,
		Occurrences:      5,
		BasePrice:        decimal.RequireFromString("160.50"),
		TotalPrice:       decimal.RequireFromString("802.50"),
		Status:           reservation.StatusSubmitted,
		CreatedAt:        time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC).Unix(),
	}
}

func TestSaveAndGet(t *testing.T) {
	store := setupTestStore(t)

	want := sample("r1", "A", "2024-01-15")
	require.NoError(t, store.Save(want))

	got, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, want.SlotIDs, got.SlotIDs)
	assert.Equal(t, want.Start, got.Start)
	assert.Equal(t, want.End, got.End)
	assert.Equal(t, booking.PeriodOneMonth, got.RecurrencePeriod)
	assert.True(t, want.TotalPrice.Equal(got.TotalPrice))
	assert.True(t, want.BasePrice.Equal(got.BasePrice))
	assert.Nil(t, got.NotifiedAt)
	assert.Equal(t, reservation.StatusSubmitted, got.Status)
}

func TestSave_ExistingIDOnlyRefreshesTracking(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Save(sample("r1", "A", "2024-01-15")))

	again := sample("r1", "B", "2024-02-01")
	again.ExternalID = "ext-new"
	again.Status = reservation.StatusNotified
	notified := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC).Unix()
	again.NotifiedAt = &notified
	again.TotalPrice = decimal.NewFromInt(1)
	require.NoError(t, store.Save(again))

	got, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "ext-new", got.ExternalID)
	assert.Equal(t, reservation.StatusNotified, got.Status)
	require.NotNil(t, got.NotifiedAt)
	assert.Equal(t, notified, *got.NotifiedAt)
	assert.Equal(t, "A", got.CourtID)
	assert.Equal(t, "2024-01-15", got.Date)
	assert.True(t, decimal.RequireFromString("802.50").Equal(got.TotalPrice))
}

func TestGet_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestSave_PublicReservation(t *testing.T) {
	store := setupTestStore(t)

	r := sample("r1", "A", "2024-01-15")
	r.IsRecurring = false
	r.RecurrencePeriod = ""
	r.IsPublic = true
	r.NeededPlayers = 3
	require.NoError(t, store.Save(r))

	got, err := store.Get("r1")
	require.NoError(t, err)
	assert.True(t, got.IsPublic)
	assert.Equal(t, 3, got.NeededPlayers)
	assert.Empty(t, got.RecurrencePeriod)
	assert.Equal(t, booking.OneOff, got.Policy())
}

func TestListByCourt(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Save(sample("r1", "A", "2024-01-22")))
	require.NoError(t, store.Save(sample("r2", "B", "2024-01-15")))
	require.NoError(t, store.Save(sample("r3", "A", "2024-01-15")))

	all, err := store.List()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	courtA, err := store.ListByCourt("A")
	require.NoError(t, err)
	require.Len(t, courtA, 2)
	assert.Equal(t, "r3", courtA[0].ID)
	assert.Equal(t, "r1", courtA[1].ID)

	none, err := store.ListByCourt("Z")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateStatus(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Save(sample("r1", "A", "2024-01-15")))

	require.NoError(t, store.UpdateStatus("r1", reservation.StatusNotified))
	got, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusNotified, got.Status)
	assert.NotNil(t, got.NotifiedAt)

	assert.ErrorIs(t, store.UpdateStatus("missing", reservation.StatusNotified), reservation.ErrNotFound)
}
