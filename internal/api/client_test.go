package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     5 * time.Millisecond,
	Multiplier:   2,
}

const dashboardBody = `{"user_name":"Анна","items":[{"id":"conversions","title":"Конверсии","columns":["Период"],"data":[{"Период":"Текущий квартал"}]}]}`

func TestAuthenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		var creds model.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Email != "anna@example.com" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Пользователь не найден"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","user_name":"Анна","user_email":"anna@example.com"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/api/")
	session, err := c.Authenticate(context.Background(), model.Credentials{Email: "anna@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, "Анна", session.UserName)
	assert.Equal(t, "tok", c.token)

	_, err = c.Authenticate(context.Background(), model.Credentials{Email: "nobody@example.com"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Пользователь не найден")

	_, err = c.Authenticate(context.Background(), model.Credentials{})
	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
}

func TestFetchDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dashboard/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "previous", r.URL.Query().Get("fiscal_year"))
		assert.Equal(t, "all", r.URL.Query().Get("order_status"))
		_, _ = w.Write([]byte(dashboardBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", WithToken("tok"))
	p, err := c.FetchDashboard(context.Background(), model.Filters{Period: model.PeriodPrevious, OrderStatus: model.OrderStatusAll})
	require.NoError(t, err)
	assert.Equal(t, "Анна", p.UserName)
	require.Len(t, p.Items, 1)
	assert.False(t, p.FetchedAt.IsZero())
}

func TestFetchDashboard_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(dashboardBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithToken("tok"), WithRetryOptions(fastRetry))
	_, err := c.FetchDashboard(context.Background(), model.DefaultFilters())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDashboard_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithToken("tok"), WithRetryOptions(fastRetry))
	_, err := c.FetchDashboard(context.Background(), model.DefaultFilters())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBackendUnavailable))
	assert.True(t, errors.Is(err, common.ErrMaxRetries))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDashboard_UnauthorizedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithToken("expired"), WithRetryOptions(fastRetry))
	_, err := c.FetchDashboard(context.Background(), model.DefaultFilters())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchDashboard_InvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"title":"no id"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithToken("tok"), WithRetryOptions(fastRetry))
	_, err := c.FetchDashboard(context.Background(), model.DefaultFilters())
	assert.True(t, errors.Is(err, common.ErrInvalidPayload))
}

func TestFetchDashboard_Preconditions(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.FetchDashboard(context.Background(), model.DefaultFilters())
	assert.True(t, errors.Is(err, common.ErrNoSession))

	c.SetToken("tok")
	_, err = c.FetchDashboard(context.Background(), model.Filters{Period: "x", OrderStatus: "y"})
	assert.Error(t, err)
	assert.False(t, common.IsRetryable(err))
}

func TestProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"user_name":"Анна","user_email":"anna@example.com"}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL).Profile(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", p.Email)
}
