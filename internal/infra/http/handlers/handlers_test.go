package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macracrm/macra-crm/internal/dataserver"
	"github.com/macracrm/macra-crm/internal/entity"
	"github.com/macracrm/macra-crm/internal/infra/http/middleware"
	"github.com/macracrm/macra-crm/internal/remote"
	"github.com/macracrm/macra-crm/internal/store"
)

// testAPI wires the full chain: handlers -> stores -> remote client -> an
// in-memory data service, mirroring the production wiring in cmd/api.
type testAPI struct {
	router  http.Handler
	session *store.SessionStore
	crm     *store.CrmStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	dataSrv := httptest.NewServer(dataserver.NewServer(dataserver.NewMemoryStorage()).Router())
	t.Cleanup(dataSrv.Close)

	crm := store.NewCrmStore(remote.NewClient(dataSrv.URL), nil)
	session := store.NewSessionStore(nil)

	authHandler := NewAuthHandler(session)
	leadHandler := NewLeadHandler(crm)
	interactionHandler := NewInteractionHandler(crm)
	statsHandler := NewStatsHandler(crm)

	r := chi.NewRouter()
	r.Post("/auth/login", authHandler.HandleLogin)
	r.Post("/auth/logout", authHandler.HandleLogout)
	r.Get("/auth/me", authHandler.HandleMe)
	r.Get("/leads", leadHandler.HandleList)
	r.Post("/leads", leadHandler.HandleCreate)
	r.Get("/leads/{id}", leadHandler.HandleGet)
	r.Put("/leads/{id}", leadHandler.HandleUpdate)
	r.With(middleware.RequirePermission(session, "delete_leads")).
		Delete("/leads/{id}", leadHandler.HandleDelete)
	r.Get("/leads/{id}/interactions", interactionHandler.HandleListForLead)
	r.Get("/interactions", interactionHandler.HandleList)
	r.Post("/interactions", interactionHandler.HandleCreate)
	r.With(middleware.RequirePermission(session, "delete_interactions")).
		Delete("/interactions/{id}", interactionHandler.HandleDelete)
	r.Get("/stats", statsHandler.HandleStats)

	return &testAPI{router: r, session: session, crm: crm}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var user entity.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.NotContains(t, rec.Body.String(), "admin123")
}

func TestLoginEndpointRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestMeRequiresSession(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/auth/me", nil).Code)

	api.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "user", "password": "user123"})
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/auth/me", nil).Code)

	api.do(t, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/auth/me", nil).Code)
}

func TestLeadCrudOverAPI(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/leads", entity.NewLead{
		Name: "Ada", Email: "a@x.com", Phone: "123", Company: "Acme",
		Status: entity.StatusProspect, Source: entity.SourceWebsite,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	rec = api.do(t, http.MethodGet, "/leads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var leads []entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	require.Len(t, leads, 1)

	rec = api.do(t, http.MethodPut, "/leads/"+created.ID, map[string]string{"status": "Deal"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, entity.StatusDeal, updated.Status)
	assert.Equal(t, "Ada", updated.Name)

	rec = api.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats entity.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalLeads)
	assert.Equal(t, 1, stats.TotalDeals)
	assert.Equal(t, 0, stats.TotalProspects)
}

func TestUpdateUnknownLeadIs404(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/leads/ghost", map[string]string{"status": "Deal"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lead not found")
}

func TestPipelineStatusFilter(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/leads", entity.NewLead{Name: "Ada", Status: entity.StatusProspect})
	api.do(t, http.MethodPost, "/leads", entity.NewLead{Name: "Grace", Status: entity.StatusDeal})

	rec := api.do(t, http.MethodGet, "/leads?status=Deal", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var leads []entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "Grace", leads[0].Name)
}

func TestDeleteLeadPermissionGate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/leads", entity.NewLead{Name: "Ada"})
	var created entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Anonymous: 401.
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodDelete, "/leads/"+created.ID, nil).Code)

	// Plain user role lacks delete_leads: 403.
	api.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "user", "password": "user123"})
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodDelete, "/leads/"+created.ID, nil).Code)

	// Manager and up may delete.
	api.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "manager", "password": "manager123"})
	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/leads/"+created.ID, nil).Code)

	var leads []entity.Lead
	rec = api.do(t, http.MethodGet, "/leads", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	assert.Empty(t, leads)
}

func TestInteractionEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "manager", "password": "manager123"})

	rec := api.do(t, http.MethodPost, "/interactions", entity.NewInteraction{
		LeadID: "lead-1", Type: entity.InteractionCall, Description: "intro call", Date: "2025-04-01T09:30:00.000Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entity.Interaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = api.do(t, http.MethodGet, "/leads/lead-1/interactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var forLead []entity.Interaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forLead))
	assert.Len(t, forLead, 1)

	rec = api.do(t, http.MethodGet, "/leads/other/interactions", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forLead))
	assert.Empty(t, forLead)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/interactions/"+created.ID, nil).Code)
}

func TestListLeadsWhenDataServiceIsDown(t *testing.T) {
	dataSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := remote.NewClient(dataSrv.URL)
	dataSrv.Close()

	crm := store.NewCrmStore(client, nil)
	leadHandler := NewLeadHandler(crm)

	r := chi.NewRouter()
	r.Get("/leads", leadHandler.HandleList)

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch leads")
}
