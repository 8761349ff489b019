package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-users-console/internal/console"
	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/franciscosanchezn/gin-users-console/internal/services"
	"github.com/franciscosanchezn/gin-users-console/internal/testutil"
	"github.com/franciscosanchezn/gin-users-console/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T, api *testutil.FakeUsersAPI) (*gin.Engine, *console.Console) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := services.NewUserService(services.UserServiceConfig{BaseURL: api.BaseURL(), HealthURL: api.HealthURL()})
	c := console.New(svc, console.Options{APIRoot: "http://api.test/api"})
	t.Cleanup(c.Table.Settle)

	tmpl, err := views.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	RegisterRoutes(router, NewConsoleController(c, svc))
	return router, c
}

func postForm(router http.Handler, path string, form url.Values, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPage(t *testing.T, router http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func decodeAction(t *testing.T, w *httptest.ResponseRecorder) ActionResponse {
	t.Helper()
	var resp ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIndexRendersConsole(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t, models.User{ID: "7", Name: "Ann <admin>", Email: "a@x.com", Role: "admin"})
	router, c := setupTestRouter(t, api)
	c.Table.Reload()

	body := getPage(t, router)

	assert.Contains(t, body, `<code id="api-base">http://api.test/api</code>`)
	assert.Contains(t, body, `<td class="id-cell">7</td>`)
	assert.Contains(t, body, "Ann &lt;admin&gt;")
	assert.Contains(t, body, `id="btn-create" type="submit">`)
}

func TestCreateRedirectsAndClearsForm(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.SetNextID(42)
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/users", url.Values{"name": {"Ann"}, "email": {"a@x.com"}, "role": {"admin"}}, "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	body := getPage(t, router)
	assert.Contains(t, body, `<td class="id-cell">42</td>`)
	assert.Contains(t, body, `id="create-name" name="name" placeholder="name" value=""`)
	assert.Contains(t, body, ">Created</div>")
}

func TestCreateValidationKeepsInput(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/users", url.Values{"name": {"Ann"}, "email": {"  "}}, gin.MIMEJSON)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeAction(t, w)
	assert.True(t, resp.Status.IsError)
	assert.Equal(t, "Name and email are required", resp.Status.Message)
	assert.Empty(t, api.Requests())

	body := getPage(t, router)
	assert.Contains(t, body, `id="create-name" name="name" placeholder="name" value="Ann"`)
	assert.Contains(t, body, `class="status error"`)
}

func TestUpdateByIDJSON(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t, models.User{ID: "42", Name: "Ann", Email: "a@x.com"})
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/users/update", url.Values{"id": {"42"}, "role": {"owner"}}, gin.MIMEJSON)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated", decodeAction(t, w).Status.Message)
	assert.Equal(t, "owner", api.Users()[0].Role)

	w = postForm(router, "/users/update", url.Values{"id": {"43"}, "role": {"owner"}}, gin.MIMEJSON)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Error: Not found", decodeAction(t, w).Status.Message)
}

func TestRowDeleteWithoutConfirmationSendsNothing(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t, models.User{ID: "42", Name: "Ann", Email: "a@x.com"})
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/rows/delete", url.Values{"id": {"42"}}, gin.MIMEJSON)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeAction(t, w).Declined)
	assert.Empty(t, api.RequestsFor(http.MethodDelete))
	assert.Len(t, api.Users(), 1)
}

func TestRowDeleteNotFound(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.Override(http.MethodDelete, "/api/users/42", http.StatusNotFound, `{"error":"not found"}`)
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/rows/delete", url.Values{"id": {"42"}, "confirm": {"yes"}}, gin.MIMEJSON)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeAction(t, w)
	assert.Equal(t, console.StatusView{Message: "Delete error: not found", IsError: true}, resp.Status)
	assert.Equal(t, "not found", resp.Error)
	assert.Empty(t, api.RequestsFor(http.MethodGet))
}

func TestRowSaveSendsRole(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t, models.User{ID: "42", Name: "Ann", Email: "a@x.com", Role: "admin"})
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/rows/save", url.Values{"id": {"42"}, "name": {""}, "email": {""}, "role": {""}}, "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	puts := api.RequestsFor(http.MethodPut)
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"role":""}`, string(puts[0].Body))
}

func TestDeleteByIDConfirmed(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t, models.User{ID: "42", Name: "Ann", Email: "a@x.com"})
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/users/delete", url.Values{"id": {"42"}, "confirm": {"yes"}}, gin.MIMEJSON)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted", decodeAction(t, w).Status.Message)
	assert.Empty(t, api.Users())
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.Override(http.MethodPost, "/api/users", http.StatusInternalServerError, `{"error":"Insert failed"}`)
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/users", url.Values{"name": {"Ann"}, "email": {"a@x.com"}}, gin.MIMEJSON)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Error: Insert failed", decodeAction(t, w).Status.Message)
}

func TestRefreshRedirects(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	router, _ := setupTestRouter(t, api)

	w := postForm(router, "/refresh", url.Values{}, "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, getPage(t, router), "No data")
	assert.Len(t, api.RequestsFor(http.MethodGet), 1)
}

func TestHealth(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	router, _ := setupTestRouter(t, api)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ok", resp.Upstream)
}
