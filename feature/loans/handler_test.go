package loans_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"loan-sync/core/loader"
	"loan-sync/feature/loans"
	"loan-sync/feature/loans/api"
	"loan-sync/feature/loans/api/mocks"
	"loan-sync/feature/loans/sensor"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(t *testing.T, client *mocks.Client) *fiber.App {
	store := setupStore(t, client)
	manager := loader.NewManager(zap.NewNop())
	manager.Register(loans.NewFeature(store, zap.NewNop()))
	app := fiber.New()
	require.NoError(t, manager.LoadAll(app))
	return app
}

func decode(t *testing.T, app *fiber.App, method, target, body string, out any) int {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHandleListAccounts(t *testing.T) {
	app := newApp(t, twoAccounts())

	var views []loans.AccountView
	status := decode(t, app, "GET", "/loans", "", &views)

	assert.Equal(t, 200, status)
	require.Len(t, views, 2)
	assert.Equal(t, "home", views[0].ID)
	assert.Equal(t, 2, views[0].Count)
	assert.Equal(t, 1, views[0].Renewable)
	assert.True(t, views[0].LastUpdateSuccess)
	assert.Equal(t, "Laxdæla", *views[1].Loans[0].Title)
}

func TestHandleGetAccount(t *testing.T) {
	app := newApp(t, twoAccounts())

	var view loans.AccountView
	assert.Equal(t, 200, decode(t, app, "GET", "/loans/work", "", &view))
	assert.Equal(t, "Work", view.Name)

	var body map[string]string
	assert.Equal(t, 404, decode(t, app, "GET", "/loans/nobody", "", &body))
	assert.Contains(t, body["error"], "account not found")
}

func TestHandleGetSensors(t *testing.T) {
	app := newApp(t, twoAccounts())

	var states []sensor.State
	assert.Equal(t, 200, decode(t, app, "GET", "/loans/home/sensors", "", &states))

	ids := make([]string, 0, len(states))
	for _, s := range states {
		ids = append(ids, s.EntityID)
	}
	assert.Contains(t, ids, "sensor.home_loans")
	assert.Contains(t, ids, "sensor.home_loan_1")
	assert.Contains(t, ids, "sensor.home_loan_2")
	assert.Len(t, states, 5)
}

func TestHandleGetLoan(t *testing.T) {
	app := newApp(t, twoAccounts())

	var state sensor.State
	assert.Equal(t, 200, decode(t, app, "GET", "/loans/home/2", "", &state))
	assert.Equal(t, "home_loan_2", state.UniqueKey)
	assert.Equal(t, "Home Egla", state.Name)
	assert.True(t, state.Available)

	assert.Equal(t, 404, decode(t, app, "GET", "/loans/home/3", "", nil))
}

func TestHandleRefresh(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app := newApp(t, twoAccounts())

		var body map[string]string
		assert.Equal(t, 200, decode(t, app, "POST", "/loans/refresh", "", &body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("Failure", func(t *testing.T) {
		client := twoAccounts()
		app := newApp(t, client)
		// Later listings of the work account fail.
		client.ExpectedCalls = filterCalls(client.ExpectedCalls, api.Token("t-work"))
		client.On("ListLoans", mock.Anything, api.Token("t-work")).Return(nil, errors.New("down"))

		var body map[string]string
		assert.Equal(t, 502, decode(t, app, "POST", "/loans/refresh", "", &body))
		assert.Contains(t, body["error"], "work")
	})
}

func filterCalls(calls []*mock.Call, token api.Token) []*mock.Call {
	out := make([]*mock.Call, 0, len(calls))
	for _, c := range calls {
		if c.Method == "ListLoans" && len(c.Arguments) > 1 && c.Arguments[1] == token {
			continue
		}
		out = append(out, c)
	}
	return out
}

func TestHandleRenewLoan(t *testing.T) {
	client := twoAccounts()
	client.On("RenewLoan", mock.Anything, api.Token("t-home"), "1").Return(map[string]any{"status": "ok"}, nil)
	app := newApp(t, client)

	t.Run("Success", func(t *testing.T) {
		var body map[string]map[string]any
		assert.Equal(t, 200, decode(t, app, "POST", "/loans/renew", `{"loan_id":"1"}`, &body))
		assert.Equal(t, "ok", body["home"]["status"])
	})

	t.Run("MissingLoanID", func(t *testing.T) {
		assert.Equal(t, 400, decode(t, app, "POST", "/loans/renew", `{}`, nil))
	})

	t.Run("UnknownLoan", func(t *testing.T) {
		assert.Equal(t, 404, decode(t, app, "POST", "/loans/renew", `{"loan_id":"99"}`, nil))
	})
}

func TestHandleRenewAll(t *testing.T) {
	client := twoAccounts()
	client.On("RenewLoan", mock.Anything, api.Token("t-home"), "1").Return(map[string]any{"status": "ok"}, nil)
	client.On("RenewLoan", mock.Anything, api.Token("t-work"), "3").Return(map[string]any{"status": "ok"}, nil)
	app := newApp(t, client)

	var result loans.RenewAllResult
	assert.Equal(t, 200, decode(t, app, "POST", "/loans/renew-all", "", &result))
	assert.Equal(t, map[string]int{"home": 1, "work": 1}, result.Renewed)
	assert.Empty(t, result.Errors)
}
