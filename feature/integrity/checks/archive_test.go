package checks

import (
	"context"
	"errors"
	"testing"

	"loan-sync/core/storage/mocks"
	"loan-sync/feature/loans/archive"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objects(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestCheckArchive(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "loans", mock.Anything).
		Return(objects("loans/home/latest.json", "loans/old/latest.json", "loans/readme.txt"))

	report, err := CheckArchive(context.Background(), archive.New(client, "loans"), []string{"home", "work"})
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, report.Missing)
	assert.Equal(t, []string{"old"}, report.Orphaned)
}

func TestCheckArchive_Disabled(t *testing.T) {
	_, err := CheckArchive(context.Background(), nil, []string{"home"})
	assert.Error(t, err)
}

func TestCheckArchive_ListError(t *testing.T) {
	client := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("denied")}
	close(ch)
	client.On("ListObjects", mock.Anything, "loans", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	_, err := CheckArchive(context.Background(), archive.New(client, "loans"), nil)
	assert.ErrorContains(t, err, "denied")
}

func TestRemoveOrphans(t *testing.T) {
	client := new(mocks.Client)
	client.On("RemoveObject", mock.Anything, "loans", "loans/old/latest.json", mock.Anything).Return(nil)
	client.On("RemoveObject", mock.Anything, "loans", "loans/gone/latest.json", mock.Anything).Return(errors.New("locked"))

	arch := archive.New(client, "loans")
	assert.NoError(t, RemoveOrphans(context.Background(), arch, zap.NewNop(), []string{"old"}))
	assert.ErrorContains(t, RemoveOrphans(context.Background(), arch, zap.NewNop(), []string{"gone"}), "locked")
}
