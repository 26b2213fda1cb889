package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/medical-device-tracker/pkg/blob"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/db"
	trackerHttp "liyu1981.xyz/medical-device-tracker/pkg/http"
	"liyu1981.xyz/medical-device-tracker/pkg/store"
	"liyu1981.xyz/medical-device-tracker/pkg/tracker"
)

func openStorage(ctx context.Context) store.Storage {
	snapshotKey := common.GetenvDefault(common.EnvKeySnapshotKey, common.DefaultSnapshotKey)

	storeDriver := os.Getenv(common.EnvKeyStoreDriver)
	switch storeDriver {
	case "file":
		return store.NewGormStore(db.GetInstance(db.UseSqliteDialector()), snapshotKey)
	case "memory":
		return store.NewGormStore(db.GetInstance(db.UseMemorySqliteDialector()), snapshotKey)
	case "postgres":
		return store.NewGormStore(db.GetInstance(db.UsePostgresDialector()), snapshotKey)
	case "dynamodb":
		client, err := store.NewDynamoClientFromEnv(ctx)
		if err != nil {
			log.Fatalf("failed to create dynamodb client: %v", err)
		}
		return store.NewDynamoStore(client, os.Getenv(common.EnvKeyDynamoDBTable), snapshotKey)
	default:
		log.Fatal("Unknown TRACKER_STORE_DRIVER: " + storeDriver)
	}
	return nil
}

func main() {
	var err error
	ctx := context.Background()

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyDefaultRate), 64); err != nil {
		log.Fatal("Invalid TRACKER_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid TRACKER_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	trackerCore := tracker.New(openStorage(ctx), tracker.DefaultEnv())
	trackerCore.Load(ctx)

	// contract statuses are only as fresh as the last write, catch up on start
	if _, err := trackerCore.Dispatch(ctx, tracker.RefreshContractStatuses{}); err != nil {
		logger.Warn("Failed to refresh contract statuses", zap.Error(err))
	}

	blobs, err := blob.OpenFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to open photo storage: %v", err)
	}
	logger.Info("Photo storage ready", zap.String("driver", string(blobs.Driver())))

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &trackerHttp.RestfulServer{
		Server:           gin.Default(),
		Tracker:          trackerCore,
		Blobs:            blobs,
		RateLimiterStore: trackerHttp.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
