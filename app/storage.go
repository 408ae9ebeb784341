package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	storage     *minio.Client
	onceStorage sync.Once
)

// Storage is the blob store. It accepts binaries and hands back durable
// public URLs; size and MIME validation happen in the caller, not here.
func Storage() *minio.Client {
	onceStorage.Do(func() {
		useSSL, err := strconv.ParseBool(os.Getenv("STORAGE_USE_SSL"))
		if err != nil {
			useSSL = true
		}

		client, err := minio.New(os.Getenv("STORAGE_ENDPOINT"), &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("STORAGE_ACCESS_KEY"), os.Getenv("STORAGE_SECRET_KEY"), ""),
			Secure: useSSL,
		})
		if err != nil {
			slog.Error(fmt.Sprintf("Could not create storage client: %v", err))
			os.Exit(1)
		}

		bucket := StorageBucket()

		exists, err := client.BucketExists(context.Background(), bucket)
		if err != nil {
			slog.Error(fmt.Sprintf("Could not check storage bucket: %v", err))
			os.Exit(1)
		}

		if !exists {
			if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
				slog.Error(fmt.Sprintf("Could not create storage bucket: %v", err))
				os.Exit(1)
			}
		}

		storage = client
	})

	return storage
}

func StorageBucket() string {
	bucket := os.Getenv("STORAGE_BUCKET")

	if len(bucket) < 1 {
		bucket = "site-assets"
	}

	return bucket
}

// StoragePublicURL builds the durable public URL for an uploaded object.
func StoragePublicURL(objectName string) string {
	base := os.Getenv("STORAGE_PUBLIC_URL")

	if len(base) < 1 {
		scheme := "https"

		if useSSL, err := strconv.ParseBool(os.Getenv("STORAGE_USE_SSL")); err == nil && !useSSL {
			scheme = "http"
		}

		base = fmt.Sprintf("%s://%s", scheme, os.Getenv("STORAGE_ENDPOINT"))
	}

	return fmt.Sprintf("%s/%s/%s", base, StorageBucket(), objectName)
}
