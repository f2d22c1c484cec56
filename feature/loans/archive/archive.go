package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"loan-sync/core/storage"
	"loan-sync/feature/loans/loan"

	"github.com/minio/minio-go/v7"
)

// Prefix is the object prefix of every export.
const Prefix = "loans/"

// objectName is the file written for each account.
const objectName = "latest.json"

// Export is the document written for an account.
type Export struct {
	AccountID   string         `json:"account_id"`
	AccountName string         `json:"account_name"`
	FetchedAt   time.Time      `json:"fetched_at"`
	Count       int            `json:"count"`
	Loans       []loan.Summary `json:"loans"`
}

// NewExport builds the export of a set of records.
func NewExport(accountID, accountName string, fetchedAt time.Time, records []loan.Record) Export {
	summaries := make([]loan.Summary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, loan.Summarize(rec))
	}
	return Export{
		AccountID:   accountID,
		AccountName: accountName,
		FetchedAt:   fetchedAt.UTC(),
		Count:       len(summaries),
		Loans:       summaries,
	}
}

// Archive writes exports to a bucket.
type Archive struct {
	client storage.Client
	bucket string
}

// New creates an archive writing to bucket.
func New(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// ObjectKey returns the object name of an account export.
func ObjectKey(accountSlug string) string {
	return path.Join(Prefix, accountSlug, objectName)
}

// Save writes the export of an account.
func (a *Archive) Save(ctx context.Context, accountSlug string, export Export) error {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	key := ObjectKey(accountSlug)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Load reads the export of an account. It returns nil when none exists.
func (a *Archive) Load(ctx context.Context, accountSlug string) (*Export, error) {
	key := ObjectKey(accountSlug)
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()

	var export Export
	if err := json.NewDecoder(obj).Decode(&export); err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &export, nil
}

// Accounts lists the slugs of accounts with an export, sorted.
func (a *Archive) Accounts(ctx context.Context) ([]string, error) {
	slugs := []string{}
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: Prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list exports: %w", obj.Err)
		}
		rest := strings.TrimPrefix(obj.Key, Prefix)
		slug, file, ok := strings.Cut(rest, "/")
		if !ok || file != objectName {
			continue
		}
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Delete removes the export of an account.
func (a *Archive) Delete(ctx context.Context, accountSlug string) error {
	key := ObjectKey(accountSlug)
	if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
