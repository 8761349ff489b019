package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/gin-gonic/gin"
)

// RecordedRequest is one request received by the fake API
type RecordedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// JSON decodes the recorded body into a generic map
func (r RecordedRequest) JSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(r.Body, &out); err != nil {
		t.Fatalf("decode recorded body %q: %v", r.Body, err)
	}
	return out
}

type reply struct {
	status int
	body   string
}

// FakeUsersAPI is an in-memory users REST API served by httptest.
// It keeps insertion order and records every request.
type FakeUsersAPI struct {
	Server *httptest.Server

	mu        sync.Mutex
	users     []models.User
	nextID    int
	requests  []RecordedRequest
	overrides map[string]reply
	gate      chan struct{}
}

// NewFakeUsersAPI starts the fake API seeded with the given users.
// The server is closed via t.Cleanup.
func NewFakeUsersAPI(t *testing.T, seed ...models.User) *FakeUsersAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeUsersAPI{
		users:     append([]models.User(nil), seed...),
		nextID:    100,
		overrides: map[string]reply{},
	}

	router := gin.New()
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(f.record)
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	api := router.Group("/api/users")
	{
		api.GET("", f.list)
		api.POST("", f.create)
		api.GET("/:id", f.get)
		api.PUT("/:id", f.update)
		api.DELETE("/:id", f.delete)
	}

	f.Server = httptest.NewServer(router)
	t.Cleanup(func() {
		f.Release()
		f.Server.Close()
	})
	return f
}

// BaseURL is the users collection endpoint
func (f *FakeUsersAPI) BaseURL() string {
	return f.Server.URL + "/api/users"
}

// HealthURL is the health endpoint
func (f *FakeUsersAPI) HealthURL() string {
	return f.Server.URL + "/health"
}

// Override makes method+path answer with a fixed status and raw body.
// path is the unescaped request path, e.g. "/api/users/42".
func (f *FakeUsersAPI) Override(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[method+" "+path] = reply{status: status, body: body}
}

// SetNextID sets the id assigned to the next user created without one
func (f *FakeUsersAPI) SetNextID(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID = id
}

// Hold blocks every following request until Release is called
func (f *FakeUsersAPI) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

// Release unblocks requests held by Hold
func (f *FakeUsersAPI) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Requests returns a copy of the recorded requests
func (f *FakeUsersAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// RequestsFor returns the recorded requests with the given method
func (f *FakeUsersAPI) RequestsFor(method string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// Users returns a copy of the stored users
func (f *FakeUsersAPI) Users() []models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.users...)
}

func (f *FakeUsersAPI) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{Method: c.Request.Method, Path: c.Request.URL.Path, Body: body})
	override, overridden := f.overrides[c.Request.Method+" "+c.Request.URL.Path]
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if overridden {
		c.Data(override.status, "application/json", []byte(override.body))
		c.Abort()
		return
	}
	c.Set("body", body)
	c.Next()
}

func (f *FakeUsersAPI) list(c *gin.Context) {
	c.JSON(http.StatusOK, f.Users())
}

func (f *FakeUsersAPI) get(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexOf(c.Param("id")); i >= 0 {
		c.JSON(http.StatusOK, f.users[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func (f *FakeUsersAPI) create(c *gin.Context) {
	var payload struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(bodyOf(c), &payload); err != nil || payload.Name == "" || payload.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: name and email"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	id := payload.ID
	if id == "" {
		id = strconv.Itoa(f.nextID)
		f.nextID++
	}
	if f.indexOf(id) >= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID or Email already exists"})
		return
	}
	user := models.User{ID: models.UserID(id), Name: payload.Name, Email: payload.Email, Role: payload.Role}
	f.users = append(f.users, user)
	c.JSON(http.StatusCreated, user)
}

func (f *FakeUsersAPI) update(c *gin.Context) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(bodyOf(c), &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	updated := false
	for key, target := range map[string]*string{"name": &f.users[i].Name, "email": &f.users[i].Email, "role": &f.users[i].Role} {
		if raw, ok := payload[key]; ok {
			if err := json.Unmarshal(raw, target); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
				return
			}
			updated = true
		}
	}
	if !updated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}
	c.JSON(http.StatusOK, f.users[i])
}

func (f *FakeUsersAPI) delete(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := c.Param("id")
	i := f.indexOf(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	f.users = append(f.users[:i], f.users[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (f *FakeUsersAPI) indexOf(id string) int {
	for i, u := range f.users {
		if string(u.ID) == id {
			return i
		}
	}
	return -1
}

func bodyOf(c *gin.Context) []byte {
	value, _ := c.Get("body")
	body, _ := value.([]byte)
	return body
}
