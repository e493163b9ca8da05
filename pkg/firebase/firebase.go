package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app together with the Firestore
// client and Storage bucket handle the data layer builds on.
type App struct {
	FirebaseApp *firebase.App
	Firestore   *firestore.Client
	Bucket      *storage.BucketHandle
}

// InitFirebase initializes the Firebase application, the Firestore client
// and the default Storage bucket.
func InitFirebase(ctx context.Context, credentialsPath, projectID, storageBucket string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)
	conf := &firebase.Config{
		ProjectID:     projectID,
		StorageBucket: storageBucket,
	}

	firebaseApp, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default storage bucket: %w", err)
	}

	log.Info("Firebase app, Firestore client and storage bucket initialized successfully!")
	return &App{FirebaseApp: firebaseApp, Firestore: firestoreClient, Bucket: bucket}, nil
}

// Close releases the Firestore client's underlying resources.
func (a *App) Close() {
	if a.Firestore != nil {
		if err := a.Firestore.Close(); err != nil {
			log.Errorf("Error closing Firestore client: %v", err)
		}
	}
}
