package fixture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evgengiga/dashbord/internal/api"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payloadJSON = `{
  "user_name": "placeholder",
  "items": [{
    "id": "client_orders",
    "title": "Заказы клиентов",
    "columns": ["Клиент", "Сумма"],
    "data": [{"Клиент": "Альфа", "Сумма": 1500.5}],
    "details": [{"task_id": 1, "order_name": "Поставка", "client": "Альфа", "amount": 1500.5}]
  }]
}`

func newTestServer(t *testing.T, users map[string]string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(payloadJSON), 0o600))

	srv := httptest.NewServer(NewServer(source.NewFileSource(path), Config{Users: users, Secret: "test"}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_EndToEnd(t *testing.T) {
	srv := newTestServer(t, map[string]string{"anna@example.com": "Анна Иванова"})
	ctx := context.Background()

	client := api.NewClient(srv.URL + "/api")
	session, err := client.Authenticate(ctx, model.Credentials{Email: "Anna@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Анна Иванова", session.UserName)

	profile, err := client.Profile(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", profile.Email)

	payload, err := client.FetchDashboard(ctx, model.DefaultFilters())
	require.NoError(t, err)
	assert.Equal(t, "Анна Иванова", payload.UserName)
	require.Len(t, payload.Items, 1)
	require.Len(t, payload.Items[0].Details, 1)
	assert.Equal(t, "Поставка", payload.Items[0].Details[0].Name)
}

func TestServer_UnknownUser(t *testing.T) {
	srv := newTestServer(t, map[string]string{"anna@example.com": "Анна"})

	_, err := api.NewClient(srv.URL+"/api").Authenticate(context.Background(), model.Credentials{Email: "bob@example.com"})
	require.Error(t, err)
	assert.Equal(t, "Пользователь с таким email не найден", common.UserMessage(err, ""))
}

func TestServer_RequiresToken(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "garbage", header: "Bearer nope"},
		{name: "wrong scheme", header: "Token abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/dashboard/", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestServer_LoginValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", strings.NewReader(`{"email":"not-an-email"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	health, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer func() { _ = health.Body.Close() }()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue("a@b.c", "Анна")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", claims.Subject)
	assert.Equal(t, "Анна", claims.FullName)

	_, err = NewTokenIssuer("other", time.Hour).Verify(token)
	assert.Error(t, err)

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("a@b.c", "Анна")
	require.NoError(t, err)
	_, err = issuer.Verify(old)
	assert.Error(t, err)
}
