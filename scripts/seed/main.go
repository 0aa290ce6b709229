// Command seed fills the configured record store with demo drivers and a few
// days of closed parking sessions.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"
	_ "time/tzdata"

	"findmyspot/config"
	"findmyspot/database"
	recordsRepo "findmyspot/database/repository/records"
	userRepoPkg "findmyspot/database/repository/user"
	"findmyspot/models"
	"findmyspot/utils"

	"go.uber.org/zap"
)

var (
	vehicleTypes  = []string{"Sedan", "Coupes", "Pickup", "Van", "SUV"}
	vehicleColors = []string{"Black", "White", "Blue", "Red", "Grey", "Silver"}
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var store database.RecordStore
	switch config.AppConfig.StoreBackend {
	case "mongo":
		client, err := database.ConnectMongo(config.AppConfig.DatabaseURL)
		if err != nil {
			logger.Fatal("seed: mongo unavailable", zap.Error(err))
		}
		if store, err = database.NewMongoStore(client, config.AppConfig.MongoDBName); err != nil {
			logger.Fatal("seed: mongo store init failed", zap.Error(err))
		}
	case "firebase", "":
		fb, err := utils.NewFirebaseClients(ctx)
		if err != nil || fb.Database == nil {
			logger.Fatal("seed: firebase realtime database unavailable", zap.Error(err))
		}
		store = database.NewRTDBStore(fb.Database)
	default:
		logger.Fatal("seed: unsupported STORE_BACKEND", zap.String("backend", config.AppConfig.StoreBackend))
	}

	clock, err := utils.NewClock(config.AppConfig.Timezone)
	if err != nil {
		logger.Fatal("seed: invalid TIMEZONE", zap.Error(err))
	}

	users := userRepoPkg.NewUserRepo(store)
	events := recordsRepo.NewParkingEventRepo(store)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 1; i <= 5; i++ {
		uid := fmt.Sprintf("demo-driver-%02d", i)
		profile := &models.UserProfile{
			UID:           uid,
			FullName:      fmt.Sprintf("Demo Driver %d", i),
			ContactNumber: fmt.Sprintf("0917%07d", rng.Intn(10000000)),
			Email:         fmt.Sprintf("driver%02d@findmyspot.test", i),
			VehicleType:   vehicleTypes[rng.Intn(len(vehicleTypes))],
			VehicleColor:  vehicleColors[rng.Intn(len(vehicleColors))],
			PlateNumber:   fmt.Sprintf("ABC %04d", 1000+i),
			UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := users.Save(ctx, profile); err != nil {
			logger.Fatal("seed: failed to save user", zap.String("uid", uid), zap.Error(err))
		}

		// One closed session per past day, oldest first so keys stay in creation order.
		for day := 7; day >= 1; day-- {
			in := clock.Now().AddDate(0, 0, -day).Add(-time.Duration(rng.Intn(6)) * time.Hour)
			out := in.Add(time.Duration(30+rng.Intn(240)) * time.Minute)
			event := models.ParkingEvent{
				TimeIn:         clock.FormatTime(in),
				DateIn:         clock.FormatDate(in),
				TimeOut:        clock.FormatTime(out),
				DateOut:        clock.FormatDate(out),
				SlotNo:         config.AppConfig.DefaultSlotNo,
				VehicleType:    profile.VehicleType,
				PlateNumber:    profile.PlateNumber,
				Rating:         1 + rng.Intn(models.MaxRating),
				Feedback:       "Smooth parking.",
				Title:          "Parking Successfully Booked",
				Message:        "Your parking reservation has been confirmed.",
				ReceiptTitle:   "Parking Receipt",
				ReceiptMessage: "Thank you parking with us!",
				Timestamp:      in.Format(time.RFC3339),
				ClosedAt:       out.Format(time.RFC3339),
			}
			if _, err := events.Append(ctx, uid, event); err != nil {
				logger.Fatal("seed: failed to append event", zap.String("uid", uid), zap.Error(err))
			}
		}
		logger.Info("seed: driver ready", zap.String("uid", uid), zap.String("plateNumber", profile.PlateNumber))
	}
	logger.Info("seed: done")
}
