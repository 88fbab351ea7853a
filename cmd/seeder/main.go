package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/mauv0809/arena-booking/internal/booking"
	"github.com/mauv0809/arena-booking/internal/database"
	"github.com/mauv0809/arena-booking/internal/reservation"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "arena.db",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

var (
	courts = []booking.Court{
		{ID: "1", Name: "Quadra 1", SportTypes: []string{"FUTEVOLEI", "VOLEI"}, ReservationDuration: time.Hour},
		{ID: "2", Name: "Quadra 2", SportTypes: []string{"BEACH_TENNIS"}, ReservationDuration: time.Hour},
		{ID: "3", Name: "Quadra 3", SportTypes: []string{"PADEL"}, ReservationDuration: 30 * time.Minute},
	}
	prices = []decimal.Decimal{decimal.NewFromInt(60), decimal.NewFromInt(80), decimal.RequireFromString("95.50")}
)

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()
	store := reservation.NewStore(db)

	const numReservations = 500
	log.Info("Preparing to insert dummy reservations...", "total", numReservations)
	startTime := time.Now()

	for i := 0; i < numReservations; i++ {
		r := randomReservation(i)
		if err := store.Save(r); err != nil {
			log.Fatalf("Failed to insert reservation %s: %s", r.ID, err)
		}
		if (i+1)%100 == 0 {
			log.Info("Inserted batch", "completed", i+1, "total", numReservations)
		}
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy reservations.", "duration", duration)
}

func randomReservation(i int) *reservation.Reservation {
	court := courts[rand.Intn(len(courts))]
	day := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, rand.Intn(60))
	length := 1 + rand.Intn(3)
	start := booking.Clock((7 + rand.Intn(14)) * 60)

	slotIDs := make([]string, length)
	for n := range slotIDs {
		slotIDs[n] = fmt.Sprintf("%s-%s-%d", court.ID, day.Format("0102"), int(start)+n*int(court.ReservationDuration.Minutes()))
	}
	base := prices[rand.Intn(len(prices))].Mul(decimal.NewFromInt(int64(length)))

	policy := booking.OneOff
	if rand.Intn(3) == 0 {
		policy = booking.Weekly(booking.RecurrencePeriods[rand.Intn(len(booking.RecurrencePeriods))])
	}
	occurrences := len(booking.Occurrences(day, policy))

	r := &reservation.Reservation{
		ID:          uuid.NewString(),
		ExternalID:  fmt.Sprintf("seed-%d", i),
		UserID:      fmt.Sprintf("seed-user-%d", rand.Intn(20)),
		CourtID:     court.ID,
		CourtName:   court.Name,
		Date:        day.Format(booking.DateLayout),
		Start:       start,
		End:         start.Add(time.Duration(length) * court.ReservationDuration),
		SlotIDs:     slotIDs,
		Sport:       court.SportTypes[0],
		IsRecurring: policy.Recurring,
		Occurrences: occurrences,
		BasePrice:   base,
		TotalPrice:  base.Mul(decimal.NewFromInt(int64(occurrences))),
		Status:      reservation.StatusNotified,
		CreatedAt:   time.Now().Add(-time.Duration(rand.Intn(30*24)) * time.Hour).Unix(),
	}
	if policy.Recurring {
		r.RecurrencePeriod = policy.Period
	} else if rand.Intn(4) == 0 {
		r.IsPublic = true
		r.NeededPlayers = 1 + rand.Intn(3)
	}
	return r
}
