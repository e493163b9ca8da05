package main

import (
	"context"

	"github.com/anonto42/social-feed/backend/internal/blob"
	"github.com/anonto42/social-feed/backend/internal/router"
	"github.com/anonto42/social-feed/backend/internal/store"
	"github.com/anonto42/social-feed/backend/pkg/config"
	"github.com/anonto42/social-feed/backend/pkg/firebase"
	"github.com/anonto42/social-feed/backend/validators"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Firebase backs both the default document store and the default
	// blob store; initialize it once if either backend needs it.
	var firebaseApp *firebase.App
	initFirebase := func() *firebase.App {
		if firebaseApp != nil {
			return firebaseApp
		}
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID, cfg.StorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseApp = app
		return firebaseApp
	}

	// Select the document store backend
	var docs store.DocumentStore
	switch cfg.DocumentStoreBackend {
	case "firestore":
		docs = store.NewFirestoreStore(initFirebase().Firestore)
	case "mongo":
		client, err := config.InitMongo(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer config.CloseMongo(client)
		docs = store.NewMongoStore(client.Database(cfg.MongoDatabase))
	case "postgres":
		db, err := config.InitPostgres(cfg.PostgresConnStr)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer config.ClosePostgres(db)
		docs, err = store.NewGormStore(db)
		if err != nil {
			log.Fatalf("Failed to initialize document store: %v", err)
		}
	case "memory":
		docs = store.NewMemoryStore()
	default:
		log.Fatalf("Unknown document store backend: %s", cfg.DocumentStoreBackend)
	}

	// Select the blob store backend
	var blobs blob.Store
	switch cfg.BlobStoreBackend {
	case "firebase":
		blobs = blob.NewFirebaseStore(initFirebase().Bucket)
	case "s3":
		s3Store, err := blob.NewS3Store(blob.S3Config{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Endpoint:        cfg.AWSEndpoint,
			Bucket:          cfg.S3BucketName,
			UseSSL:          cfg.S3UseSSL != "false",
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 blob store: %v", err)
		}
		blobs = s3Store
	case "memory":
		blobs = blob.NewMemoryStore("https://cdn.local")
	default:
		log.Fatalf("Unknown blob store backend: %s", cfg.BlobStoreBackend)
	}

	if firebaseApp != nil {
		defer firebaseApp.Close()
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, docs, blobs, cfg.DemoUserID)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
