package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	FirebaseProjectID       string
	StorageBucket           string
	DocumentStoreBackend    string // firestore, mongo, postgres or memory
	BlobStoreBackend        string // firebase, s3 or memory
	MongoURI                string
	MongoDatabase           string
	PostgresConnStr         string
	AWSRegion               string
	AWSAccessKeyID          string
	AWSSecretAccessKey      string
	AWSEndpoint             string
	S3BucketName            string
	S3UseSSL                string
	DemoUserID              string
}

// Load reads the configuration from the environment.
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:           getEnv("FIREBASE_STORAGE_BUCKET", ""),
		DocumentStoreBackend:    getEnv("DOCUMENT_STORE_BACKEND", "firestore"),
		BlobStoreBackend:        getEnv("BLOB_STORE_BACKEND", "firebase"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socialfeed"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:             getEnv("AWS_ENDPOINT", ""),
		S3BucketName:            getEnv("S3_BUCKET_NAME", "social-feed-media"),
		S3UseSSL:                getEnv("S3_USE_SSL", "true"),
		DemoUserID:              getEnv("DEMO_USER_ID", "user123"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
