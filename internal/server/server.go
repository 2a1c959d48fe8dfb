// Package server exposes panel sizing and the saved panel table over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/alexiusacademia/gopanel/internal/diagram"
	"github.com/alexiusacademia/gopanel/internal/logging"
	"github.com/alexiusacademia/gopanel/internal/panel"
	"github.com/alexiusacademia/gopanel/internal/store"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server wires the HTTP routes to a record store
type Server struct {
	Echo   *echo.Echo
	store  store.Store
	strict bool
	log    *slog.Logger

	// One store operation at a time
	mu sync.Mutex
}

// New builds a server; strict restricts inputs to the listed fp/fd/voltage options
func New(st store.Store, strict bool, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Module("server")
	}
	s := &Server{
		Echo:   echo.New(),
		store:  st,
		strict: strict,
		log:    log,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.Echo.Group("/api")
	api.POST("/panels", s.handleCreate)
	api.GET("/panels", s.handleList)
	api.DELETE("/panels", s.handleClear)
	api.DELETE("/panels/:name", s.handleDelete)
	api.GET("/summary", s.handleSummary)
	api.GET("/export", s.handleExport)
	api.GET("/charts/:kind", s.handleChart)
}

// Start listens on port until the server fails or is shut down
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Info("listening", slog.String("addr", addr))
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		s.log.Debug("request",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Int("status", c.Response().Status))
		return err
	}
}

// errorResponse is the JSON body of a failed request
type errorResponse struct {
	Error      string   `json:"error"`
	Field      string   `json:"field,omitempty"`
	Unresolved []string `json:"unresolved,omitempty"`
}

func (s *Server) handleCreate(c echo.Context) error {
	var in panel.Input
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}

	check := in.Validate
	if s.strict {
		check = in.Strict
	}
	if err := check(); err != nil {
		resp := errorResponse{Error: err.Error()}
		var verr *panel.ValidationError
		if errors.As(err, &verr) {
			resp.Field = verr.Field
		}
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}

	result, err := panel.Compute(in)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	force, _ := strconv.ParseBool(c.QueryParam("force"))
	if !result.Resolved() && !force {
		return c.JSON(http.StatusConflict, errorResponse{
			Error:      "sizing unresolved, not saved",
			Unresolved: result.Unresolved,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Append(result); err != nil {
		s.log.Error("append failed", slog.Any("error", err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, result)
}

func (s *Server) list() ([]panel.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

func (s *Server) handleList(c echo.Context) error {
	records, err := s.list()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	if records == nil {
		records = []panel.Result{}
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleDelete(c echo.Context) error {
	name := c.Param("name")

	s.mu.Lock()
	n, err := s.store.DeleteByName(name)
	s.mu.Unlock()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("no panel named %q", name)})
	}
	return c.JSON(http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) handleClear(c echo.Context) error {
	s.mu.Lock()
	err := s.store.Clear()
	s.mu.Unlock()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSummary(c echo.Context) error {
	records, err := s.list()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, panel.Summarize(records))
}

func (s *Server) handleExport(c echo.Context) error {
	records, err := s.list()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	var buf bytes.Buffer
	if err := store.WriteXLSX(&buf, records); err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="quadros_de_carga.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (s *Server) handleChart(c echo.Context) error {
	records, err := s.list()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	if len(records) == 0 {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no saved panels"})
	}
	var buf bytes.Buffer
	if err := diagram.WriteChart(c.Param("kind"), records, "png", &buf); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
