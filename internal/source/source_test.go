package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payloadJSON = `{"user_name":"Анна","items":[{"id":"conversions","title":"Конверсии","columns":["Период"],"data":[{"Период":"Текущий квартал"}]}]}`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestFileSource_SingleFile(t *testing.T) {
	path := testutil.WritePayload(t, payloadJSON)

	p, err := NewFileSource(path).FetchDashboard(context.Background(), model.DefaultFilters())
	require.NoError(t, err)
	assert.Equal(t, "Анна", p.UserName)
	assert.Len(t, p.Items, 1)
}

func TestFileSource_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dashboard.json"), payloadJSON)
	writeFile(t, filepath.Join(dir, "previous_all.json"), `{"user_name":"Прошлый","items":[]}`)

	src := NewFileSource(dir)
	p, err := src.FetchDashboard(context.Background(), model.Filters{Period: model.PeriodPrevious, OrderStatus: model.OrderStatusAll})
	require.NoError(t, err)
	assert.Equal(t, "Прошлый", p.UserName)

	p, err = src.FetchDashboard(context.Background(), model.DefaultFilters())
	require.NoError(t, err)
	assert.Equal(t, "Анна", p.UserName)
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "missing.json")).FetchDashboard(context.Background(), model.DefaultFilters())
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = NewFileSource(dir).FetchDashboard(context.Background(), model.DefaultFilters())
	assert.True(t, errors.Is(err, common.ErrNotFound))

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, "{")
	_, err = NewFileSource(bad).FetchDashboard(context.Background(), model.DefaultFilters())
	assert.True(t, errors.Is(err, common.ErrInvalidPayload))
}

type stubFetcher struct {
	payload *model.Payload
	err     error
	calls   int
}

func (s *stubFetcher) FetchDashboard(context.Context, model.Filters) (*model.Payload, error) {
	s.calls++
	return s.payload, s.err
}


func TestCachingFetcher(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStorage(t)
	filters := model.DefaultFilters()

	stub := &stubFetcher{payload: &model.Payload{UserName: "Анна", FetchedAt: time.Now()}}
	cf := NewCachingFetcher(stub, store, true)

	p, err := cf.FetchDashboard(ctx, filters)
	require.NoError(t, err)
	assert.False(t, p.Stale)

	stub.payload, stub.err = nil, common.ErrBackendUnavailable
	p, err = cf.FetchDashboard(ctx, filters)
	require.NoError(t, err)
	assert.True(t, p.Stale)
	assert.Equal(t, "Анна", p.UserName)

	_, err = cf.FetchDashboard(ctx, filters.NextPeriod())
	assert.ErrorIs(t, err, common.ErrBackendUnavailable, "no snapshot for other filters")

	stub.err = common.ErrUnauthorized
	_, err = cf.FetchDashboard(ctx, filters)
	assert.ErrorIs(t, err, common.ErrUnauthorized, "auth failures are not masked")
}

func TestCachingFetcher_NoFallback(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStorage(t)
	stub := &stubFetcher{payload: &model.Payload{UserName: "Анна"}}
	cf := NewCachingFetcher(stub, store, false)

	_, err := cf.FetchDashboard(ctx, model.DefaultFilters())
	require.NoError(t, err)

	stub.payload, stub.err = nil, common.ErrBackendUnavailable
	_, err = cf.FetchDashboard(ctx, model.DefaultFilters())
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.json")
	writeFile(t, path, payloadJSON)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := NewWatcher(path, 20*time.Millisecond).Changes(ctx)
	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "other.json"), "{}")
	writeFile(t, path, payloadJSON)
	writeFile(t, path, payloadJSON)

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
