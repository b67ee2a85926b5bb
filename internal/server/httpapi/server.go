// Package httpapi is the HTTP face of the upload-link server: the public
// upload page and endpoint, the admin JSON API and the ops endpoints.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/linkdrop/internal/logging"
	"github.com/dmitrijs2005/linkdrop/internal/server/models"
	"github.com/dmitrijs2005/linkdrop/internal/server/services"
	"github.com/dmitrijs2005/linkdrop/internal/server/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type LinkService interface {
	Create(ctx context.Context, req services.CreateLinkRequest) (*models.Link, error)
	List(ctx context.Context) ([]*models.Link, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, token string) (*models.Link, error)
	CheckPassword(link *models.Link, password string) error
	IsExpired(link *models.Link) bool
	CleanupCandidates(ctx context.Context) ([]*models.Link, error)
	Cleanup(ctx context.Context) (int, error)
}

type UserService interface {
	Login(ctx context.Context, userName, password string) (string, error)
	Authenticate(token string) (string, error)
}

// Options tune the upload endpoint. Zero values fall back to the field
// names the upload client uses by default.
type Options struct {
	FileField     string
	PasswordField string
	// MaxUploadSize caps the request body, 0 means no cap.
	MaxUploadSize int64
	PublicURL     string
}

type Server struct {
	links         LinkService
	users         UserService
	store         storage.Store
	metrics       *Metrics
	log           logging.Logger
	fileField     string
	passwordField string
	maxUploadSize int64
	publicURL     string
}

func NewServer(links LinkService, users UserService, store storage.Store, metrics *Metrics, log logging.Logger, opts Options) *Server {
	if opts.FileField == "" {
		opts.FileField = "file"
	}
	if opts.PasswordField == "" {
		opts.PasswordField = "link_password"
	}
	return &Server{
		links:         links,
		users:         users,
		store:         store,
		metrics:       metrics,
		log:           log,
		fileField:     opts.FileField,
		passwordField: opts.PasswordField,
		maxUploadSize: opts.MaxUploadSize,
		publicURL:     opts.PublicURL,
	}
}

// Router wires every route with the shared middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withLogging(s.log))
	r.Use(s.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/upload/{token}", s.handleUploadPage)
	r.Post("/upload/{token}", s.handleUpload)

	r.Post("/admin/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/admin/links", s.handleListLinks)
		r.Post("/admin/links", s.handleCreateLink)
		r.Delete("/admin/links/{id}", s.handleDeleteLink)
		r.Get("/admin/cleanup", s.handleCleanupPreview)
		r.Post("/admin/cleanup", s.handleCleanup)
	})

	return r
}
