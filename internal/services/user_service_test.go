package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/franciscosanchezn/gin-users-console/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(api *testutil.FakeUsersAPI) UserService {
	return NewUserService(UserServiceConfig{BaseURL: api.BaseURL(), HealthURL: api.HealthURL()})
}

func TestListUsersKeepsServerOrder(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t,
		models.User{ID: "b", Name: "Bob", Email: "b@x.com"},
		models.User{ID: "a", Name: "Ann", Email: "a@x.com", Role: "admin"},
	)
	svc := newTestService(api)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.UserID("b"), users[0].ID)
	assert.Equal(t, models.UserID("a"), users[1].ID)
	assert.Equal(t, "admin", users[1].Role)
}

func TestListUsersNonArrayBody(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.Override(http.MethodGet, "/api/users", http.StatusOK, `{"users":[]}`)
	svc := newTestService(api)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCreateUserSendsPayload(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	svc := newTestService(api)

	created, err := svc.CreateUser(context.Background(), models.UserPayload{
		Name:  models.StringPtr("Ann"),
		Email: models.StringPtr("a@x.com"),
		Role:  models.StringPtr("admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", created.Name)
	assert.NotEmpty(t, created.ID)

	posts := api.RequestsFor(http.MethodPost)
	require.Len(t, posts, 1)
	assert.JSONEq(t, `{"name":"Ann","email":"a@x.com","role":"admin"}`, string(posts[0].Body))
}

func TestUpdateUserEscapesID(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t, models.User{ID: "team/7 a", Name: "Ann", Email: "a@x.com"})
	svc := newTestService(api)

	updated, err := svc.UpdateUser(context.Background(), "team/7 a", models.UserPayload{Role: models.StringPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Role)

	puts := api.RequestsFor(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "/api/users/team/7 a", puts[0].Path)
	assert.JSONEq(t, `{"role":""}`, string(puts[0].Body))
}

func TestDeleteUserNotFound(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.Override(http.MethodDelete, "/api/users/42", http.StatusNotFound, `{"error":"not found"}`)
	svc := newTestService(api)

	err := svc.DeleteUser(context.Background(), "42")
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, "not found", err.Error())
}

func TestErrorWithoutErrorFieldFallsBackToBody(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.Override(http.MethodPost, "/api/users", http.StatusInternalServerError, `{"detail": "db down"}`)
	svc := newTestService(api)

	_, err := svc.CreateUser(context.Background(), models.UserPayload{Name: models.StringPtr("a"), Email: models.StringPtr("b")})
	require.Error(t, err)
	assert.Equal(t, `{"detail":"db down"}`, err.Error())
}

func TestEmptySuccessBodyIsAccepted(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.Override(http.MethodDelete, "/api/users/9", http.StatusNoContent, ``)
	svc := newTestService(api)

	assert.NoError(t, svc.DeleteUser(context.Background(), "9"))
}

func TestNonJSONBodyIsTransportError(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.Override(http.MethodGet, "/api/users", http.StatusBadGateway, `<html>bad gateway</html>`)
	svc := newTestService(api)

	_, err := svc.ListUsers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr))
}

func TestUnreachableAPIIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL + "/api/users"
	server.Close()

	svc := NewUserService(UserServiceConfig{BaseURL: baseURL})
	_, err := svc.ListUsers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.NotEmpty(t, err.Error())
}

func TestGetUserAndHealth(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t, models.User{ID: "42", Name: "Ann", Email: "a@x.com"})
	svc := newTestService(api)

	user, err := svc.GetUser(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = svc.GetUser(context.Background(), "43")
	assert.EqualError(t, err, "Not found")

	assert.NoError(t, svc.Health(context.Background()))
}

func TestRequestErrorFallsBackToStatusText(t *testing.T) {
	err := &RequestError{StatusCode: http.StatusServiceUnavailable}
	assert.Equal(t, "Service Unavailable", err.Error())
}

func TestEmptyErrorBodyIsTransportError(t *testing.T) {
	api := testutil.NewFakeUsersAPI(t)
	api.Override(http.MethodDelete, "/api/users/9", http.StatusNotFound, "")
	svc := newTestService(api)

	err := svc.DeleteUser(context.Background(), "9")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr))
	assert.Equal(t, "unexpected empty response (status 404)", err.Error())
}
