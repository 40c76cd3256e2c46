package demo

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/pagewire/pkg/controller"
	"github.com/vango-dev/pagewire/pkg/page"
	"github.com/vango-dev/pagewire/pkg/server"
)

// DocsURL is where /docs sends visitors.
const DocsURL = "https://pkg.go.dev/github.com/vango-dev/pagewire"

// AllowedHosts are the external hosts the demo redirects to. Pass them as
// server.Config.AllowedRedirectHosts.
var AllowedHosts = []string{"pkg.go.dev"}

// App is the demo application.
type App struct {
	pages  *server.Pages
	kit    controller.Kit
	users  *userStore
	logger *slog.Logger
}

// New creates the demo on top of pages and shares the user prop.
func New(pages *server.Pages, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "demo")
	a := &App{
		pages:  pages,
		kit:    controller.NewKit(logger),
		users:  newUserStore("Ada Lovelace", "Grace Hopper"),
		logger: logger,
	}
	pages.Share("user", page.Func(func(ctx context.Context) (any, error) {
		return sessionFrom(ctx).Props(), nil
	}))
	return a
}

// Routes returns the demo router. extra runs before the pages middleware,
// for metrics and tracing.
func (a *App) Routes(extra ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(extra...)
	r.Use(withSession)
	r.Use(a.pages.Middleware())

	r.Method(http.MethodGet, "/", a.kit.Handle(a.landing))
	r.Method(http.MethodPost, "/login", a.kit.Handle(a.login))
	r.Method(http.MethodPost, "/logout", a.kit.Handle(a.logout))
	r.Method(http.MethodGet, "/docs", a.kit.Handle(a.docs))

	r.Route("/users", func(r chi.Router) {
		r.Method(http.MethodGet, "/", a.kit.Handle(a.listUsers))
		r.Method(http.MethodPost, "/", a.kit.Handle(a.createUser))
		r.Method(http.MethodGet, "/{id}", a.kit.Handle(a.showUser))
	})
	return r
}

func (a *App) landing(w http.ResponseWriter, r *http.Request) error {
	return a.kit.Render(w, r, "landing", nil)
}

func (a *App) login(w http.ResponseWriter, r *http.Request) error {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return controller.Errorf(http.StatusUnprocessableEntity, "name is required")
	}
	setSession(w, name)
	a.logger.Info("signed in", "name", name)
	return a.kit.Redirect(w, r, "/")
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) error {
	setSession(w, "")
	return a.kit.Redirect(w, r, "/")
}

func (a *App) docs(w http.ResponseWriter, r *http.Request) error {
	return a.pages.Location(w, r, DocsURL)
}

func (a *App) listUsers(w http.ResponseWriter, r *http.Request) error {
	return a.kit.Render(w, r, "users/index", page.Props{
		"users": a.users.list(),
		// Only sent when a partial reload asks for it.
		"stats": page.Lazy(func(context.Context) (any, error) {
			return map[string]int{"total": a.users.len()}, nil
		}),
	})
}

func (a *App) showUser(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return controller.NotFound("user")
	}
	u, ok := a.users.get(id)
	if !ok {
		return controller.NotFound("user")
	}
	return a.kit.Render(w, r, "users/show", page.Props{"profile": u})
}

func (a *App) createUser(w http.ResponseWriter, r *http.Request) error {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return controller.Errorf(http.StatusUnprocessableEntity, "name is required")
	}
	u := a.users.create(name)
	a.logger.Info("user created", "id", u.ID)
	return a.kit.Redirect(w, r, userPath(u.ID))
}
