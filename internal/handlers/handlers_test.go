package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/handlers"
	"coaching-backend/internal/middleware"
	"coaching-backend/internal/models"
	"coaching-backend/internal/notifier"
	"coaching-backend/internal/repository/memory"
	"coaching-backend/internal/storage"
	"coaching-backend/internal/tenant"
)

const (
	secret = "handler-secret"
	studio = "studio"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

const day = 24 * time.Hour

type env struct {
	t     *testing.T
	h     http.Handler
	store *memory.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New().WithClock(clock)
	files, err := storage.NewLocalStore(t.TempDir(), "/api/files")
	require.NoError(t, err)

	h := handlers.NewRouter(handlers.Deps{
		Backend:   store,
		Notifier:  notifier.New(store, store, notifier.WithClock(clock)),
		Verifier:  middleware.NewJWTVerifier(secret),
		Tenants:   tenant.NewResolver("default"),
		Files:     files,
		JWTSecret: secret,
		Now:       clock,
	})
	return &env{t: t, h: h, store: store}
}

func (e *env) token(userID, role, tenantID string) string {
	e.t.Helper()
	tok, err := middleware.IssueToken(secret, middleware.Identity{UserID: userID, Role: role, TenantID: tenantID}, time.Now())
	require.NoError(e.t, err)
	return tok
}

func (e *env) coach() string { return e.token("coach-1", ctxkeys.RoleCoach, studio) }
func (e *env) admin() string { return e.token("admin-1", ctxkeys.RoleAdmin, studio) }

func (e *env) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *env) seedClient(c models.Client) models.Client {
	e.t.Helper()
	created, err := e.store.CreateClient(context.Background(), studio, c)
	require.NoError(e.t, err)
	return created
}

// ── Auth ─────────────────────────────────────────────────────────

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	body := map[string]string{
		"email":    "Coach@Example.com",
		"password": "secret1",
		"name":     "Coach",
	}

	rec := e.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decodeAs[models.AuthResponse](t, rec)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "coach@example.com", registered.User.Email)
	assert.Equal(t, ctxkeys.RoleCoach, registered.User.Role)
	assert.Equal(t, "default", registered.User.TenantID)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = e.do(http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "coach@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "coach@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decodeAs[models.AuthResponse](t, rec)

	rec = e.do(http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeAs[models.User](t, rec)
	assert.Equal(t, registered.User.ID, me.ID)
	assert.Equal(t, "Coach", me.Name)
}

func TestRegisterCannotJoinOtherTenant(t *testing.T) {
	e := newEnv(t)
	e.seedClient(models.Client{ID: "c-1", Name: "Private Client", Email: "p@x.it"})

	rec := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"tenantId": studio,
		"email":    "stranger@example.com",
		"password": "secret1",
		"name":     "Stranger",
	})
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "token")

	rec = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "stranger@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Explicitly naming the default tenant is fine, and sees nothing of studio.
	rec = e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"tenantId": "default",
		"email":    "coach@example.com",
		"password": "secret1",
		"name":     "Coach",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tok := decodeAs[models.AuthResponse](t, rec).Token

	rec = e.do(http.MethodGet, "/api/clients", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Private Client")
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@b.c", "password": "123"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeAs[map[string]interface{}](t, rec)
	details := resp["details"].(map[string]interface{})
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "name")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	e.h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMeWithoutLocalAccount(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/api/auth/me", e.token("fb-uid", ctxkeys.RoleAdmin, studio), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeAs[models.User](t, rec)
	assert.Equal(t, models.User{ID: "fb-uid", Role: ctxkeys.RoleAdmin, TenantID: studio}, me)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{"/api/clients", "/api/dashboard/stats", "/api/notifications", "/api/auth/me"} {
		assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, path, "", nil).Code, path)
	}
}

// ── Clients ──────────────────────────────────────────────────────

func TestClientLifecycle(t *testing.T) {
	e := newEnv(t)
	coach := e.coach()

	rec := e.do(http.MethodPost, "/api/clients", coach, map[string]interface{}{"name": "A"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(http.MethodPost, "/api/clients", coach, map[string]interface{}{
		"name":      "Anna Rossi",
		"email":     "anna@example.com",
		"startDate": now.Add(-30 * day),
		"scadenza":  now.Add(5 * day),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeAs[models.Client](t, rec)
	require.NotEmpty(t, created.ID)
	base := "/api/clients/" + created.ID

	rec = e.do(http.MethodGet, base, coach, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	row := decodeAs[models.ClientRow](t, rec)
	require.NotNil(t, row.DaysToExpiry)
	assert.Equal(t, 5, *row.DaysToExpiry)
	assert.Equal(t, "amber", row.ExpiryColor)

	rec = e.do(http.MethodPut, base, coach, map[string]interface{}{"phone": "+39 333"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+39 333", decodeAs[models.Client](t, rec).Phone)

	rec = e.do(http.MethodPost, base+"/renew", coach, map[string]int{"months": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(http.MethodPost, base+"/renew", coach, map[string]int{"months": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	renewed := decodeAs[models.Client](t, rec)
	require.NotNil(t, renewed.ExpiresAt)
	assert.True(t, renewed.ExpiresAt.Equal(now.Add(5*day).AddDate(0, 1, 0)))

	rec = e.do(http.MethodPatch, base+"/archive", coach, map[string]bool{"archived": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeAs[models.Client](t, rec).IsArchived)

	page := decodeAs[models.ClientPage](t, e.do(http.MethodGet, "/api/clients", coach, nil))
	assert.Equal(t, 0, page.Total)
	page = decodeAs[models.ClientPage](t, e.do(http.MethodGet, "/api/clients?archived=true", coach, nil))
	assert.Equal(t, 1, page.Total)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, base, coach, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, base, e.admin(), nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, base, coach, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, base, e.admin(), nil).Code)
}

func TestClientsAreTenantScoped(t *testing.T) {
	e := newEnv(t)
	c := e.seedClient(models.Client{Name: "Anna"})

	other := e.token("coach-2", ctxkeys.RoleCoach, "other-studio")
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/clients/"+c.ID, other, nil).Code)
	page := decodeAs[models.ClientPage](t, e.do(http.MethodGet, "/api/clients", other, nil))
	assert.Equal(t, 0, page.Total)
}

func names(rows []models.ClientRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestClientListDecorated(t *testing.T) {
	e := newEnv(t)
	coach := e.coach()

	anna := e.seedClient(models.Client{Name: "Anna", ExpiresAt: at(20 * day)})
	bruno := e.seedClient(models.Client{Name: "Bruno", ExpiresAt: at(5 * day)})
	e.seedClient(models.Client{Name: "Carla", ExpiresAt: at(-2 * day)})

	rec := e.do(http.MethodPost, "/api/clients/"+anna.ID+"/payments", coach, map[string]interface{}{"amount": 50, "method": "cash"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = e.do(http.MethodPost, "/api/clients/"+anna.ID+"/payments", coach, map[string]interface{}{"amount": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(http.MethodPost, "/api/clients/"+bruno.ID+"/anamnesis", coach, map[string]interface{}{"answers": map[string]string{"goal": "strength"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(http.MethodPost, "/api/clients/"+anna.ID+"/checks", coach, map[string]interface{}{"measurements": map[string]float64{"weight": 61.5}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = e.do(http.MethodPost, "/api/clients/missing/checks", coach, map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	page := decodeAs[models.ClientPage](t, e.do(http.MethodGet, "/api/clients?sort=name&order=asc", coach, nil))
	assert.Equal(t, []string{"Anna", "Bruno", "Carla"}, names(page.Data))
	assert.Equal(t, models.ClientListSummary{Total: 3, Expiring: 1, Expired: 1}, page.Stats)
	assert.False(t, page.HasMore)
	assert.Equal(t, 50.0, page.Data[0].PaymentsTotal)
	assert.True(t, page.Data[1].HasAnamnesis)
	assert.Equal(t, "red", page.Data[2].ExpiryColor)

	page = decodeAs[models.ClientPage](t, e.do(http.MethodGet, "/api/clients?filter=expiring", coach, nil))
	assert.Equal(t, []string{"Bruno"}, names(page.Data))

	page = decodeAs[models.ClientPage](t, e.do(http.MethodGet, "/api/clients?filter=no-check&sort=name&order=asc", coach, nil))
	assert.Equal(t, []string{"Anna", "Carla"}, names(page.Data))

	page = decodeAs[models.ClientPage](t, e.do(http.MethodGet, "/api/clients?search=BRU", coach, nil))
	assert.Equal(t, []string{"Bruno"}, names(page.Data))

	checks := decodeAs[[]models.Check](t, e.do(http.MethodGet, "/api/clients/"+anna.ID+"/checks", coach, nil))
	require.Len(t, checks, 1)
	assert.Equal(t, 61.5, checks[0].Measurements["weight"])

	payments := decodeAs[[]models.Payment](t, e.do(http.MethodGet, "/api/clients/"+bruno.ID+"/payments", coach, nil))
	assert.Empty(t, payments)

	forms := decodeAs[[]models.Anamnesis](t, e.do(http.MethodGet, "/api/clients/"+bruno.ID+"/anamnesis", coach, nil))
	require.Len(t, forms, 1)
	assert.Equal(t, "strength", forms[0].Answers["goal"])
}

func TestCalendar(t *testing.T) {
	e := newEnv(t)
	coach := e.coach()

	e.seedClient(models.Client{Name: "March", ExpiresAt: at(10 * day)})
	e.seedClient(models.Client{Name: "April", ExpiresAt: at(23 * day)})
	e.seedClient(models.Client{Name: "Archived", ExpiresAt: at(10 * day), IsArchived: true})

	type calendar struct {
		Month string               `json:"month"`
		Days  []models.CalendarDay `json:"days"`
	}

	rec := e.do(http.MethodGet, "/api/clients/calendar?month=2026-03&type=scadenze", coach, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cal := decodeAs[calendar](t, rec)
	assert.Equal(t, "2026-03", cal.Month)
	require.Len(t, cal.Days, 1)
	assert.Equal(t, "2026-03-20", cal.Days[0].Date)
	assert.Equal(t, []string{"March"}, names(cal.Days[0].Clients))

	// Enrolment view uses createdAt, stamped with the fixed clock.
	cal = decodeAs[calendar](t, e.do(http.MethodGet, "/api/clients/calendar", coach, nil))
	require.Len(t, cal.Days, 1)
	assert.Equal(t, "2026-03-10", cal.Days[0].Date)
	assert.Len(t, cal.Days[0].Clients, 2)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/clients/calendar?month=march", coach, nil).Code)
}

// ── Dashboard and notifications ──────────────────────────────────

func seedDashboard(e *env) {
	e.seedClient(models.Client{ID: "c1", Name: "Critical", ExpiresAt: at(3 * day)})
	e.seedClient(models.Client{ID: "c2", Name: "Lapsed", ExpiresAt: at(-3 * day)})
	e.seedClient(models.Client{ID: "c3", Name: "Regular", ExpiresAt: at(30 * day)})
	_, err := e.store.CreateCheck(context.Background(), studio, models.Check{ClientID: "c3", CreatedAt: at(-day)})
	require.NoError(e.t, err)
}

func TestDashboardStatsAndAlerts(t *testing.T) {
	e := newEnv(t)
	seedDashboard(e)
	coach := e.coach()

	stats := decodeAs[models.ClientStats](t, e.do(http.MethodGet, "/api/dashboard/stats", coach, nil))
	assert.Equal(t, models.ClientStats{
		Expiring:       models.ExpiringBands{Days3: 1, Total: 1},
		Expired:        1,
		MissingCheckIn: 1,
		NeedsAttention: 3,
	}, stats)

	feed := decodeAs[models.AlertFeed](t, e.do(http.MethodGet, "/api/dashboard/alerts", coach, nil))
	ids := make([]string, len(feed.Alerts))
	for i, a := range feed.Alerts {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"exp-c1", "ovr-c2", "chk-c1"}, ids)
	assert.Equal(t, models.Badge{Tone: models.BadgeCritical, Pulse: true, Count: 3}, feed.Badge)
	assert.Equal(t, notifier.ClientsURL, feed.ClientsURL)

	rec := e.do(http.MethodGet, "/api/dashboard/expiring?days=5", coach, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lists := decodeAs[struct {
		Expiring []models.ExpiringClient `json:"expiring"`
		Expired  []models.ExpiredClient  `json:"expired"`
	}](t, rec)
	require.Len(t, lists.Expiring, 1)
	assert.Equal(t, 3, lists.Expiring[0].DaysLeft)
	require.Len(t, lists.Expired, 1)
	assert.Equal(t, 3, lists.Expired[0].DaysOverdue)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/dashboard/expiring?days=0", coach, nil).Code)

	missing := decodeAs[[]models.MissingCheckInClient](t, e.do(http.MethodGet, "/api/dashboard/missing-checkins", coach, nil))
	require.Len(t, missing, 1)
	assert.Equal(t, "c1", missing[0].ID)
	assert.Nil(t, missing[0].DaysSinceCheck)
}

func TestRunDailyAndNotifications(t *testing.T) {
	e := newEnv(t)
	seedDashboard(e)
	admin := e.admin()

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/api/dashboard/run-daily", e.coach(), nil).Code)

	rec := e.do(http.MethodPost, "/api/dashboard/run-daily", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	run := decodeAs[models.DailyRun](t, rec)
	assert.Equal(t, 2, run.Total)
	require.Len(t, run.ExpiryNotifications, 1)
	assert.Equal(t, models.NotificationExpiryCritical, run.ExpiryNotifications[0].Type)
	require.Len(t, run.CheckInReminders, 1)
	assert.Equal(t, "/client/c1/checks", run.CheckInReminders[0].ActionURL)

	// Same day, same admin: nothing new.
	run = decodeAs[models.DailyRun](t, e.do(http.MethodPost, "/api/dashboard/run-daily", admin, nil))
	assert.Equal(t, 0, run.Total)

	count := decodeAs[map[string]int](t, e.do(http.MethodGet, "/api/notifications/count", admin, nil))
	assert.Equal(t, 2, count["count"])

	list := decodeAs[[]models.Notification](t, e.do(http.MethodGet, "/api/notifications?limit=1", admin, nil))
	require.Len(t, list, 1)

	assert.Equal(t, http.StatusOK, e.do(http.MethodPatch, "/api/notifications/"+list[0].ID+"/read", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPatch, "/api/notifications/"+list[0].ID+"/read", e.coach(), nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPatch, "/api/notifications/nope/read", admin, nil).Code)

	count = decodeAs[map[string]int](t, e.do(http.MethodGet, "/api/notifications/count", admin, nil))
	assert.Equal(t, 1, count["count"])

	updated := decodeAs[map[string]int](t, e.do(http.MethodPatch, "/api/notifications/read-all", admin, nil))
	assert.Equal(t, 1, updated["updated"])

	coachList := decodeAs[[]models.Notification](t, e.do(http.MethodGet, "/api/notifications", e.coach(), nil))
	assert.Empty(t, coachList)
	assert.Equal(t, "[]\n", e.do(http.MethodGet, "/api/notifications", e.coach(), nil).Body.String())
}

// ── Uploads ──────────────────────────────────────────────────────

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func (e *env) upload(token, filename string, content []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(e.t, mw.WriteField("clientId", "c-1"))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(e.t, err)
	_, err = part.Write(content)
	require.NoError(e.t, err)
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func TestUploadServeAndDelete(t *testing.T) {
	e := newEnv(t)
	coach := e.coach()

	rec := e.upload(coach, "notes.txt", []byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.upload(coach, "front photo.png", pngHeader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	info := decodeAs[storage.FileInfo](t, rec)
	assert.Equal(t, "studio/checks/c-1/1773144000_front_photo.png", info.Key)
	assert.Equal(t, "/api/files/"+info.Key, info.URL)
	assert.Equal(t, "image/png", info.ContentType)

	served := e.do(http.MethodGet, info.URL, coach, nil)
	require.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, pngHeader, served.Body.Bytes())

	other := e.token("coach-2", ctxkeys.RoleCoach, "other-studio")
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, info.URL, "", nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, info.URL, other, nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, info.URL, other, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, info.URL, coach, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, info.URL, coach, nil).Code)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"up"}`, rec.Body.String())
}

// ── Tenants ──────────────────────────────────────────────────────

func TestTenants(t *testing.T) {
	e := newEnv(t)
	e.store.AddTenant(models.Tenant{ID: studio, Name: "Studio", AdminIDs: []string{"admin-1", "admin-2"}})
	e.store.AddTenant(models.Tenant{ID: "other", Name: "Other", AdminIDs: []string{"admin-9"}})
	e.store.SetRoleMembers(studio, tenant.RoleDocSuperadmins, []string{"root"})

	type tenantList struct {
		Data []models.Tenant `json:"data"`
	}

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/api/tenants", e.coach(), nil).Code)

	list := decodeAs[tenantList](t, e.do(http.MethodGet, "/api/tenants", e.admin(), nil))
	require.Len(t, list.Data, 1)
	assert.Equal(t, []string{"root", "admin-1", "admin-2"}, list.Data[0].AdminIDs)

	root := e.token("root", ctxkeys.RoleSuperadmin, studio)
	list = decodeAs[tenantList](t, e.do(http.MethodGet, "/api/tenants", root, nil))
	assert.Len(t, list.Data, 2)

	admin := e.admin()
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodDelete, "/api/tenants/studio/roles/owners/admin-2", admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodDelete, "/api/tenants/studio/roles/admins/admin-1", admin, nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, "/api/tenants/studio/roles/superadmins/root", admin, nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, "/api/tenants/other/roles/admins/admin-9", admin, nil).Code)

	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/api/tenants/studio/roles/admins/admin-2", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/api/tenants/studio/roles/admins/admin-2", admin, nil).Code)
	assert.Equal(t, []string{"admin-1"}, e.store.RoleMembers(studio, tenant.RoleDocAdmins))

	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/api/tenants/other/roles/admins/admin-9", root, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/api/tenants/ghost/roles/admins/x", root, nil).Code)
}
