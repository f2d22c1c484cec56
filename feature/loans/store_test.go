package loans_test

import (
	"context"
	"errors"
	"testing"

	"loan-sync/core/database"
	"loan-sync/core/registry"
	"loan-sync/core/schedule"
	storagemocks "loan-sync/core/storage/mocks"
	"loan-sync/feature/loans"
	"loan-sync/feature/loans/account"
	"loan-sync/feature/loans/api"
	"loan-sync/feature/loans/api/mocks"
	"loan-sync/feature/loans/archive"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okBody(loans ...map[string]any) map[string]any {
	list := make([]any, 0, len(loans))
	for _, l := range loans {
		list = append(list, l)
	}
	return map[string]any{
		"status": "ok",
		"data":   map[string]any{"loans": map[string]any{"loan": list}},
	}
}

func newRegistry(t *testing.T) *registry.Store {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	reg := registry.New(db)
	require.NoError(t, reg.Migrate())
	return reg
}

// twoAccounts mocks a library where "home" lists loans 1 and 2 and
// "work" lists loan 3.
func twoAccounts() *mocks.Client {
	client := new(mocks.Client)
	client.On("Login", mock.Anything, "home-user", "pw").Return(api.Token("t-home"), nil)
	client.On("Login", mock.Anything, "work-user", "pw").Return(api.Token("t-work"), nil)
	client.On("ListLoans", mock.Anything, api.Token("t-home")).Return(okBody(
		map[string]any{"loanid": "1", "title": "Njála", "duedate": "20261101", "renewable": "Y"},
		map[string]any{"loanid": "2", "title": "Egla", "duedate": "20261105", "renewable": "N"},
	), nil)
	client.On("ListLoans", mock.Anything, api.Token("t-work")).Return(okBody(
		map[string]any{"loanid": "3", "title": "Laxdæla", "duedate": "20261103", "renewable": "Y"},
	), nil)
	return client
}

var (
	homeCfg = account.Config{Name: "Home", Username: "home-user", Password: "pw"}
	workCfg = account.Config{Name: "Work", Username: "work-user", Password: "pw", RefreshTimes: []string{"7:30", "19:00"}}
)

func setupStore(t *testing.T, client *mocks.Client) *loans.Store {
	store := loans.NewStore(client, newRegistry(t), nil, 0, zap.NewNop())
	_, err := store.Setup(context.Background(), homeCfg)
	require.NoError(t, err)
	_, err = store.Setup(context.Background(), workCfg)
	require.NoError(t, err)
	return store
}

func TestStore_Setup(t *testing.T) {
	store := setupStore(t, twoAccounts())

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "home", list[0].Info.ID)
	assert.Equal(t, "work", list[1].Info.ID)
	assert.Equal(t, []string{"1", "2"}, list[0].Reconciler.Observed())
	assert.Equal(t, []schedule.Time{{Hour: 7, Minute: 30}, {Hour: 19}}, list[1].Times)

	t.Run("Duplicate", func(t *testing.T) {
		_, err := store.Setup(context.Background(), homeCfg)
		assert.ErrorIs(t, err, loans.ErrAccountExists)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := store.Setup(context.Background(), account.Config{Name: "Empty"})
		assert.ErrorIs(t, err, account.ErrMissingUsername)
	})
}

func TestStore_SetupFirstRefreshFails(t *testing.T) {
	client := new(mocks.Client)
	client.On("Login", mock.Anything, "home-user", "pw").Return(api.Token(""), errors.New("boom"))

	reg := newRegistry(t)
	_, err := reg.GetOrCreate(context.Background(), registry.Entry{
		UniqueKey: "home_loan_9",
		AccountID: "home",
		Platform:  registry.Platform,
	}, "sensor.home_loan_9")
	require.NoError(t, err)

	store := loans.NewStore(client, reg, nil, 0, zap.NewNop())
	_, err = store.Setup(context.Background(), homeCfg)
	assert.Error(t, err)
	assert.Empty(t, store.List())

	// The stale entry survives until a setup succeeds.
	id, err := reg.EntityIDForUniqueKey(context.Background(), "home_loan_9")
	assert.NoError(t, err)
	assert.Equal(t, "sensor.home_loan_9", id)
}

func TestStore_Teardown(t *testing.T) {
	store := setupStore(t, twoAccounts())

	require.NoError(t, store.Teardown("home"))
	_, err := store.Get("home")
	assert.ErrorIs(t, err, loans.ErrAccountNotFound)
	assert.ErrorIs(t, store.Teardown("home"), loans.ErrAccountNotFound)
	assert.Len(t, store.List(), 1)
}

func TestStore_RenewLoan(t *testing.T) {
	t.Run("OnlyAccountsListingTheLoan", func(t *testing.T) {
		client := twoAccounts()
		client.On("RenewLoan", mock.Anything, api.Token("t-work"), "3").Return(map[string]any{"status": "ok"}, nil)
		store := setupStore(t, client)

		results, err := store.RenewLoan(context.Background(), "3")
		require.NoError(t, err)
		assert.Equal(t, map[string]map[string]any{"work": {"status": "ok"}}, results)
		client.AssertNotCalled(t, "RenewLoan", mock.Anything, api.Token("t-home"), "3")
	})

	t.Run("Unknown", func(t *testing.T) {
		store := setupStore(t, twoAccounts())

		_, err := store.RenewLoan(context.Background(), "42")
		assert.ErrorIs(t, err, loans.ErrLoanNotFound)
	})

	t.Run("Failure", func(t *testing.T) {
		client := twoAccounts()
		client.On("RenewLoan", mock.Anything, api.Token("t-home"), "1").Return(nil, errors.New("denied"))
		store := setupStore(t, client)

		results, err := store.RenewLoan(context.Background(), "1")
		assert.ErrorContains(t, err, "denied")
		assert.Empty(t, results)
	})
}

func TestStore_RenewAll(t *testing.T) {
	client := twoAccounts()
	client.On("RenewLoan", mock.Anything, api.Token("t-home"), "1").Return(map[string]any{"status": "ok"}, nil)
	client.On("RenewLoan", mock.Anything, api.Token("t-work"), "3").Return(nil, errors.New("denied"))
	store := setupStore(t, client)

	results, err := store.RenewAll(context.Background())
	assert.ErrorContains(t, err, "work")
	assert.Len(t, results["home"], 1)
	assert.Empty(t, results["work"])
	client.AssertNotCalled(t, "RenewLoan", mock.Anything, api.Token("t-home"), "2")
}

func TestStore_RefreshAll(t *testing.T) {
	client := twoAccounts()
	store := setupStore(t, client)

	require.NoError(t, store.RefreshAll(context.Background()))
	client.AssertNumberOfCalls(t, "ListLoans", 4)
}

func TestStore_RunSchedulesStopsOnCancel(t *testing.T) {
	store := setupStore(t, twoAccounts())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		store.RunSchedules(ctx, schedule.New(nil, zap.NewNop()))
		close(done)
	}()
	<-done
}

func TestStore_Archive(t *testing.T) {
	storageClient := new(storagemocks.Client)
	storageClient.On("PutObject", mock.Anything, "loans", archive.ObjectKey("home"), mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	store := loans.NewStore(twoAccounts(), newRegistry(t), archive.New(storageClient, "loans"), 0, zap.NewNop())
	acc, err := store.Setup(context.Background(), homeCfg)
	require.NoError(t, err)
	storageClient.AssertNumberOfCalls(t, "PutObject", 1)

	_, err = acc.Coordinator.Refresh(context.Background())
	require.NoError(t, err)
	storageClient.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestValidateAccount(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, loans.ValidateAccount(context.Background(), twoAccounts(), homeCfg))
	})

	t.Run("Rejected", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("Login", mock.Anything, "home-user", "pw").
			Return(api.Token(""), &api.AuthenticationError{Reason: "bad credentials"})

		err := loans.ValidateAccount(context.Background(), client, homeCfg)
		var authErr *loans.AuthFailedError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, err.Error(), "auth_failed")
	})

	t.Run("MissingFields", func(t *testing.T) {
		err := loans.ValidateAccount(context.Background(), new(mocks.Client), account.Config{Name: "x"})
		assert.ErrorIs(t, err, account.ErrMissingPassword)
	})
}
