package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-users-console/internal/console"
	"github.com/franciscosanchezn/gin-users-console/internal/services"
	"github.com/franciscosanchezn/gin-users-console/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the controllers logger level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// ConsoleController handles the console page and its form posts
type ConsoleController interface {
	// Index renders the console page
	Index(c *gin.Context)
	// Refresh reloads the users table
	Refresh(c *gin.Context)
	// CreateUser submits the create form
	CreateUser(c *gin.Context)
	// UpdateUser submits the update-by-id form
	UpdateUser(c *gin.Context)
	// DeleteUser submits the delete-by-id form
	DeleteUser(c *gin.Context)
	// SaveRow saves the inline edits of one table row
	SaveRow(c *gin.Context)
	// DeleteRow deletes the record of one table row
	DeleteRow(c *gin.Context)
	// Health reports the console and upstream API health
	Health(c *gin.Context)
}

// ActionResponse is the JSON answer to a form post when JSON is requested
type ActionResponse struct {
	Status   console.StatusView `json:"status"`
	Error    string             `json:"error,omitempty"`
	Declined bool               `json:"declined,omitempty"`
}

// HealthResponse is the JSON answer of the health endpoint
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Upstream  string `json:"upstream"`
}

type controller struct {
	console *console.Console
	users   services.UserService
}

// NewConsoleController creates a new instance of ConsoleController
func NewConsoleController(c *console.Console, users services.UserService) *controller {
	return &controller{console: c, users: users}
}

// RegisterRoutes wires the console routes on router
func RegisterRoutes(router gin.IRoutes, ctl ConsoleController) {
	router.GET("/", ctl.Index)
	router.GET("/health", ctl.Health)
	router.POST("/refresh", ctl.Refresh)
	router.POST("/users", ctl.CreateUser)
	router.POST("/users/update", ctl.UpdateUser)
	router.POST("/users/delete", ctl.DeleteUser)
	router.POST("/rows/save", ctl.SaveRow)
	router.POST("/rows/delete", ctl.DeleteRow)
}

func (ctl *controller) Index(c *gin.Context) {
	c.HTML(http.StatusOK, views.PageTemplate, ctl.console.Page())
}

// Refresh godoc
// @Summary Reload the users table
// @Description Re-fetch the users collection in the background and return to the console
// @Tags console
// @Produce json
// @Success 200 {object} ActionResponse
// @Success 303 "Redirect to the console page"
// @Router /refresh [post]
func (ctl *controller) Refresh(c *gin.Context) {
	ctl.console.Table.Reload()
	ctl.respond(c, ctl.console.ListStatus, nil)
}

// CreateUser godoc
// @Summary Create a user
// @Description Submit the create form. Name and email are required, id and role are optional.
// @Tags console
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string false "Client supplied ID"
// @Param name formData string true "Name"
// @Param email formData string true "Email"
// @Param role formData string false "Role"
// @Success 200 {object} ActionResponse
// @Success 303 "Redirect to the console page"
// @Failure 400 {object} ActionResponse
// @Failure 409 {object} ActionResponse
// @Failure 502 {object} ActionResponse
// @Router /users [post]
func (ctl *controller) CreateUser(c *gin.Context) {
	var fields console.Fields
	if err := c.ShouldBind(&fields); err != nil {
		ctl.respond(c, ctl.console.Create.Status(), err)
		return
	}
	_, err := ctl.console.Create.Submit(c.Request.Context(), fields)
	ctl.respond(c, ctl.console.Create.Status(), err)
}

// UpdateUser godoc
// @Summary Update a user by ID
// @Description Submit the update form. Only non-empty fields are sent.
// @Tags console
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "User ID"
// @Param name formData string false "Name"
// @Param email formData string false "Email"
// @Param role formData string false "Role"
// @Success 200 {object} ActionResponse
// @Success 303 "Redirect to the console page"
// @Failure 400 {object} ActionResponse
// @Failure 404 {object} ActionResponse
// @Failure 409 {object} ActionResponse
// @Failure 502 {object} ActionResponse
// @Router /users/update [post]
func (ctl *controller) UpdateUser(c *gin.Context) {
	var fields console.Fields
	if err := c.ShouldBind(&fields); err != nil {
		ctl.respond(c, ctl.console.Update.Status(), err)
		return
	}
	_, err := ctl.console.Update.Submit(c.Request.Context(), fields)
	ctl.respond(c, ctl.console.Update.Status(), err)
}

// DeleteUser godoc
// @Summary Delete a user by ID
// @Description Submit the delete form. The request must carry confirm=yes, otherwise nothing is deleted.
// @Tags console
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "User ID"
// @Param confirm formData string false "yes when the operator confirmed"
// @Success 200 {object} ActionResponse
// @Success 303 "Redirect to the console page"
// @Failure 400 {object} ActionResponse
// @Failure 404 {object} ActionResponse
// @Failure 409 {object} ActionResponse
// @Failure 502 {object} ActionResponse
// @Router /users/delete [post]
func (ctl *controller) DeleteUser(c *gin.Context) {
	err := ctl.console.Delete.Submit(confirmedContext(c), c.PostForm("id"))
	ctl.respond(c, ctl.console.Delete.Status(), err)
}

// SaveRow godoc
// @Summary Save a table row
// @Description Send the row's edits. Name and email are sent when non-empty, role is always sent.
// @Tags console
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "User ID"
// @Param name formData string false "Name"
// @Param email formData string false "Email"
// @Param role formData string false "Role, empty clears it"
// @Success 200 {object} ActionResponse
// @Success 303 "Redirect to the console page"
// @Failure 400 {object} ActionResponse
// @Failure 404 {object} ActionResponse
// @Failure 502 {object} ActionResponse
// @Router /rows/save [post]
func (ctl *controller) SaveRow(c *gin.Context) {
	var row console.RowInput
	if err := c.ShouldBind(&row); err != nil {
		ctl.respond(c, ctl.console.ListStatus, err)
		return
	}
	err := ctl.console.Rows.Save(c.Request.Context(), row)
	ctl.respond(c, ctl.console.ListStatus, err)
}

// DeleteRow godoc
// @Summary Delete a table row
// @Description Delete the row's record. The request must carry confirm=yes, otherwise nothing is deleted.
// @Tags console
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "User ID"
// @Param confirm formData string false "yes when the operator confirmed"
// @Success 200 {object} ActionResponse
// @Success 303 "Redirect to the console page"
// @Failure 404 {object} ActionResponse
// @Failure 502 {object} ActionResponse
// @Router /rows/delete [post]
func (ctl *controller) DeleteRow(c *gin.Context) {
	err := ctl.console.Rows.Delete(confirmedContext(c), c.PostForm("id"))
	ctl.respond(c, ctl.console.ListStatus, err)
}

// Health godoc
// @Summary Health check
// @Description Check if the console is running and whether the users API answers
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (ctl *controller) Health(c *gin.Context) {
	upstream := "ok"
	if err := ctl.users.Health(c.Request.Context()); err != nil {
		upstream = err.Error()
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "gin-users-console",
		Upstream:  upstream,
	})
}

// confirmedContext carries the browser side confirmation into the request context
func confirmedContext(c *gin.Context) context.Context {
	return console.WithConfirmation(c.Request.Context(), c.PostForm("confirm") == "yes")
}

// statusSource is anything exposing a status view
type statusSource interface {
	View() console.StatusView
}

// respond redirects browsers back to the page (post/redirect/get) and
// answers JSON clients with the resulting status.
func (ctl *controller) respond(c *gin.Context, status statusSource, err error) {
	if err != nil && !errors.Is(err, console.ErrDeclined) {
		log.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Debug("Console action did not succeed")
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) != gin.MIMEJSON {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	resp := ActionResponse{Status: status.View()}
	if errors.Is(err, console.ErrDeclined) {
		resp.Declined = true
		err = nil
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCodeFor(err), resp)
}

func statusCodeFor(err error) int {
	var reqErr *services.RequestError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, console.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, console.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &reqErr):
		if reqErr.StatusCode >= 400 && reqErr.StatusCode < 500 {
			return reqErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, services.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
