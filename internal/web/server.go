// Package web serves the coalition site over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coalition_site/internal/countdown"
	"coalition_site/internal/lists"
	"coalition_site/internal/model"
	"coalition_site/internal/site"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages is the interface for building site pages.
type Pages interface {
	List(ctx context.Context, name string, q lists.Query, a lists.Action) (lists.Page, error)
	Detail(ctx context.Context, name, uid string) (*site.DetailPage, error)
	Timeline(ctx context.Context) ([]model.TimelineEntry, error)
	NextEvent(ctx context.Context) (*lists.Detail, error)
}

// Server renders pages and streams countdowns.
type Server struct {
	pages Pages
	log   *slog.Logger
	clock countdown.Clock
}

// New creates a Server backed by pages.
func New(pages Pages, log *slog.Logger) *Server {
	return &Server{pages: pages, log: log, clock: countdown.RealClock}
}

// SetClock overrides the clock countdown streams tick on.
func (s *Server) SetClock(c countdown.Clock) {
	s.clock = c
}

// Router constructs the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(parseTemplates())

	r.GET("/", s.handleHome)
	r.GET("/healthz", handleHealth)
	r.GET("/history", s.handleHistory)
	r.GET("/countdown/stream", s.handleCountdownStream)
	r.GET("/:list", s.handleList)
	r.GET("/:list/:uid", s.handleDetail)
	r.NoRoute(s.notFound)
	return r
}

// NewHTTPServer wraps the router in an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleHome(c *gin.Context) {
	ctx := c.Request.Context()
	view := homeView{Nav: navLinks("")}

	next, err := s.pages.NextEvent(ctx)
	if err == nil {
		view.Next = next
		if next.CountdownTo != nil {
			view.StreamURL = "/countdown/stream?target=" + next.CountdownTo.UTC().Format(time.RFC3339)
		}
	}

	events, err := s.pages.List(ctx, lists.Events.Name(), lists.Query{}, lists.Action{})
	if err == nil {
		view.Events = &events
	}
	c.HTML(http.StatusOK, "home.html", view)
}

func (s *Server) handleList(c *gin.Context) {
	name := c.Param("list")
	q := lists.Query{
		Filter: c.Query("filter"),
		Sort:   c.Query("sort"),
		Index:  pageIndex(c.Query("page")),
	}

	page, err := s.pages.List(c.Request.Context(), name, q, lists.Action{})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "list.html", newListView(page))
}

func (s *Server) handleDetail(c *gin.Context) {
	page, err := s.pages.Detail(c.Request.Context(), c.Param("list"), c.Param("uid"))
	if err != nil {
		s.fail(c, err)
		return
	}

	view := detailView{Nav: navLinks(page.List.Name()), Page: page}
	if page.Detail.CountdownTo != nil && page.Detail.CountdownTo.After(s.clock.Now()) {
		view.StreamURL = "/countdown/stream?target=" + page.Detail.CountdownTo.UTC().Format(time.RFC3339)
	}
	c.HTML(http.StatusOK, "detail.html", view)
}

func (s *Server) handleHistory(c *gin.Context) {
	entries, err := s.pages.Timeline(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "history.html", historyView{Nav: navLinks("history"), Entries: entries})
}

func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, site.ErrNotFound) {
		s.notFound(c)
		return
	}
	s.log.Error("render page", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, "internal error")
}

func (s *Server) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound.html", notFoundView{Nav: navLinks("")})
}

// pageIndex converts the 1-based page query parameter to a window index.
// Missing or invalid values select the first window.
func pageIndex(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n - 1
}
