package integrity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"loan-sync/core/database"
	"loan-sync/core/registry"
	storagemocks "loan-sync/core/storage/mocks"
	"loan-sync/feature/integrity/checks"
	"loan-sync/feature/loans"
	"loan-sync/feature/loans/account"
	"loan-sync/feature/loans/api"
	"loan-sync/feature/loans/api/mocks"
	"loan-sync/feature/loans/archive"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, storageClient *storagemocks.Client) (*fiber.App, *mocks.Client, *loans.Store) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	reg := registry.New(db)
	require.NoError(t, reg.Migrate())

	client := new(mocks.Client)
	client.On("Login", mock.Anything, "user", "pw").Return(api.Token("tok"), nil)
	client.On("ListLoans", mock.Anything, api.Token("tok")).Return(map[string]any{
		"status": "ok",
		"data": map[string]any{"loans": map[string]any{"loan": []any{
			map[string]any{"loanid": "1", "title": "Njála"},
		}}},
	}, nil).Once()

	var arch *archive.Archive
	if storageClient != nil {
		arch = archive.New(storageClient, "loans")
	}
	store := loans.NewStore(client, reg, arch, 0, zap.NewNop())
	_, err = store.Setup(context.Background(), account.Config{Name: "Home", Username: "user", Password: "pw"})
	require.NoError(t, err)

	app := fiber.New()
	NewHandler(NewService(db, arch, store, zap.NewNop())).RegisterRoutes(app)
	return app, client, store
}

func getJSON(t *testing.T, app *fiber.App, target string, out any) int {
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHandleRegistryCheck(t *testing.T) {
	app, _, _ := setupTestApp(t, nil)

	var report checks.RegistryReport
	assert.Equal(t, 200, getJSON(t, app, "/integrity/registry", &report))
	assert.True(t, report.Matched)
	assert.Equal(t, registry.TableName, report.Table)
}

func TestHandleArchiveCheck(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app, _, _ := setupTestApp(t, nil)
		assert.Equal(t, 404, getJSON(t, app, "/integrity/archive", nil))
	})

	t.Run("Orphans", func(t *testing.T) {
		storageClient := new(storagemocks.Client)
		storageClient.On("PutObject", mock.Anything, "loans", "loans/home/latest.json", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)
		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "loans/home/latest.json"}
		ch <- minio.ObjectInfo{Key: "loans/old/latest.json"}
		close(ch)
		storageClient.On("ListObjects", mock.Anything, "loans", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
		app, _, _ := setupTestApp(t, storageClient)

		var report checks.ArchiveReport
		assert.Equal(t, 200, getJSON(t, app, "/integrity/archive", &report))
		assert.Equal(t, []string{"old"}, report.Orphaned)
		assert.Empty(t, report.Missing)
	})

	t.Run("Fix", func(t *testing.T) {
		storageClient := new(storagemocks.Client)
		storageClient.On("PutObject", mock.Anything, "loans", "loans/home/latest.json", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Key: "loans/old/latest.json"}
		close(ch)
		storageClient.On("ListObjects", mock.Anything, "loans", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
		storageClient.On("RemoveObject", mock.Anything, "loans", "loans/old/latest.json", mock.Anything).Return(nil)
		app, _, _ := setupTestApp(t, storageClient)

		var body map[string]any
		assert.Equal(t, 200, getJSON(t, app, "/integrity/archive?fix=true", &body))
		assert.Equal(t, "fixed", body["status"])
		storageClient.AssertCalled(t, "RemoveObject", mock.Anything, "loans", "loans/old/latest.json", mock.Anything)
	})
}

func TestHandleAccountsCheck(t *testing.T) {
	app, client, store := setupTestApp(t, nil)

	var reports []checks.AccountReport
	assert.Equal(t, 200, getJSON(t, app, "/integrity/accounts", &reports))
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Healthy)
	assert.Equal(t, 1, reports[0].Loans)
	assert.Equal(t, 1, reports[0].Tracked)

	client.On("ListLoans", mock.Anything, api.Token("tok")).Return(nil, errors.New("down"))
	acc, err := store.Get("home")
	require.NoError(t, err)
	_, _ = acc.Coordinator.Refresh(context.Background())

	assert.Equal(t, 200, getJSON(t, app, "/integrity/accounts", &reports))
	assert.False(t, reports[0].Healthy)
	assert.Contains(t, reports[0].LastError, "down")
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, _, _ := setupTestApp(t, nil)

	var body map[string]any
	assert.Equal(t, 200, getJSON(t, app, "/integrity", &body))
	assert.Contains(t, body, "registry")
	assert.Contains(t, body, "accounts")
	assert.Equal(t, map[string]any{"status": "disabled"}, body["archive"])
}

func TestLoader(t *testing.T) {
	feature := NewFeature(nil, nil, loans.NewStore(nil, nil, nil, 0, nil), zap.NewNop())

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}
