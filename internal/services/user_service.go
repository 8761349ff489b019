package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the client logger level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// UserService talks to the remote users REST resource
type UserService interface {
	// ListUsers retrieves the whole collection in server order
	ListUsers(ctx context.Context) ([]models.User, error)
	// GetUser retrieves a single user by its ID
	GetUser(ctx context.Context, id string) (models.User, error)
	// CreateUser creates a new user from the payload
	CreateUser(ctx context.Context, payload models.UserPayload) (models.User, error)
	// UpdateUser sends a partial update for the user with the given ID
	UpdateUser(ctx context.Context, id string, payload models.UserPayload) (models.User, error)
	// DeleteUser deletes the user with the given ID
	DeleteUser(ctx context.Context, id string) error
	// Health checks that the API is reachable and healthy
	Health(ctx context.Context) error
}

// RequestError is returned when the API answers with a non-2xx status
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

// ErrTransport wraps failures where no usable response was obtained
var ErrTransport = errors.New("transport error")

// transportError keeps the underlying message as the display text
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() []error {
	return []error{ErrTransport, e.err}
}

// UserServiceConfig configures the REST client
type UserServiceConfig struct {
	BaseURL   string
	HealthURL string
	// Timeout of zero leaves requests bounded by the transport only
	Timeout time.Duration
}

type userService struct {
	client    *resty.Client
	healthURL string
}

// NewUserService creates a new instance of UserService backed by resty
func NewUserService(cfg UserServiceConfig) UserService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetLogger(log)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &userService{client: client, healthURL: cfg.HealthURL}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	body, err := s.do(ctx, http.MethodGet, "", nil, nil)
	if err != nil {
		return nil, err
	}
	// Only an array is rendered; any other JSON value means no rows
	if len(body) == 0 || body[0] != '[' {
		log.WithField("body_prefix", prefix(body)).Debug("List response is not an array")
		return []models.User{}, nil
	}
	var users []models.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, &transportError{err: fmt.Errorf("decode users: %w", err)}
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if _, err := s.do(ctx, http.MethodGet, "/{id}", pathID(id), &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, payload models.UserPayload) (models.User, error) {
	var user models.User
	req := s.client.R().SetBody(payload)
	if _, err := s.send(ctx, req, http.MethodPost, "", &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, payload models.UserPayload) (models.User, error) {
	var user models.User
	req := s.client.R().SetBody(payload).SetPathParams(pathID(id))
	if _, err := s.send(ctx, req, http.MethodPut, "/{id}", &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	_, err := s.do(ctx, http.MethodDelete, "/{id}", pathID(id), nil)
	return err
}

func (s *userService) Health(ctx context.Context) error {
	_, err := s.do(ctx, http.MethodGet, s.healthURL, nil, nil)
	return err
}

func (s *userService) do(ctx context.Context, method, url string, params map[string]string, result any) ([]byte, error) {
	req := s.client.R()
	if params != nil {
		req.SetPathParams(params)
	}
	return s.send(ctx, req, method, url, result)
}

// send executes the request and applies the response contract:
// non-2xx is a RequestError, a non-empty body must be JSON.
func (s *userService) send(ctx context.Context, req *resty.Request, method, url string, result any) ([]byte, error) {
	resp, err := req.SetContext(ctx).Execute(method, url)
	if err != nil {
		log.WithFields(logrus.Fields{
			"method": method,
			"url":    url,
			"error":  err.Error(),
		}).Warn("Users API request failed")
		return nil, &transportError{err: err}
	}

	body := bytes.TrimSpace(resp.Body())
	entry := log.WithFields(logrus.Fields{
		"method": method,
		"url":    resp.Request.URL,
		"status": resp.StatusCode(),
	})

	if len(body) > 0 && !json.Valid(body) {
		entry.Warn("Users API returned a non-JSON body")
		return nil, &transportError{err: fmt.Errorf("unexpected non-JSON response (status %d)", resp.StatusCode())}
	}

	if !resp.IsSuccess() && len(body) == 0 {
		entry.Warn("Users API returned an empty error body")
		return nil, &transportError{err: fmt.Errorf("unexpected empty response (status %d)", resp.StatusCode())}
	}

	if !resp.IsSuccess() {
		entry.WithField("body_prefix", prefix(body)).Info("Users API rejected request")
		return nil, &RequestError{StatusCode: resp.StatusCode(), Message: models.ErrorMessage(body)}
	}
	entry.Debug("Users API request succeeded")

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return nil, &transportError{err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return body, nil
}

func pathID(id string) map[string]string {
	return map[string]string{"id": id}
}

func prefix(body []byte) string {
	const limit = 64
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}
