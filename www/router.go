package www

import (
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"mescore/config"
	"mescore/dashboard"
	"mescore/messaging"
	"mescore/predict"
	"mescore/progress"
	"mescore/quality"
	"mescore/store"
)

// Deps carries everything the web layer needs. Models and Msg may be nil
// when the predictor or the broker is not configured.
type Deps struct {
	DB       *store.DB
	Config   *config.Config
	Progress *progress.Engine
	Quality  *quality.Recorder
	Dash     *dashboard.Service
	Models   *predict.Models
	Msg      *messaging.Client
	Hub      *EventHub
}

type Handlers struct {
	db       *store.DB
	cfg      *config.Config
	progress *progress.Engine
	quality  *quality.Recorder
	dash     *dashboard.Service
	models   *predict.Models
	msg      *messaging.Client
	sessions *sessions.CookieStore
	tmpls    map[string]*template.Template
	eventHub *EventHub
}

func NewRouter(deps Deps) (http.Handler, func()) {
	hub := deps.Hub
	if hub == nil {
		hub = NewEventHub()
	}
	hub.Start()

	sessionStore := newSessionStore(deps.Config.Web.SessionSecret)

	// Parse layout + partials as a base template set. Each page is cloned separately
	// to avoid the "last define wins" problem with {{define "content"}}.
	base := template.New("").Funcs(templateFuncs())
	base = template.Must(base.ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html"))

	pages := []string{
		"templates/dashboard.html",
		"templates/login.html",
		"templates/orders.html",
		"templates/order_detail.html",
		"templates/progress.html",
		"templates/results.html",
		"templates/inspections.html",
		"templates/inspection_detail.html",
		"templates/quality.html",
	}
	tmpls := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		clone := template.Must(base.Clone())
		clone = template.Must(clone.ParseFS(templateFS, p))
		// Key is the filename without path: "dashboard.html"
		name := p[len("templates/"):]
		tmpls[name] = clone
	}

	h := &Handlers{
		db:       deps.DB,
		cfg:      deps.Config,
		progress: deps.Progress,
		quality:  deps.Quality,
		dash:     deps.Dash,
		models:   deps.Models,
		msg:      deps.Msg,
		sessions: sessionStore,
		tmpls:    tmpls,
		eventHub: hub,
	}

	h.ensureDefaultAdmin(deps.DB)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// SSE
	r.Get("/events", hub.SSEHandler)

	// Public routes
	r.Get("/", h.handleDashboard)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)
	r.Get("/orders", h.handleOrders)
	r.Get("/orders/detail", h.handleOrderDetail)
	r.Get("/progress", h.handleProgress)
	r.Get("/results", h.handleResults)
	r.Get("/inspections", h.handleInspections)
	r.Get("/inspections/detail", h.handleInspectionDetail)
	r.Get("/quality", h.handleQualityResults)

	// API routes (no auth required for read)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.apiHealthCheck)
		r.Get("/db-health", h.apiDBHealthCheck)
		r.Get("/products", h.apiListProducts)
		r.Get("/equipment", h.apiListEquipment)
		r.Get("/orders", h.apiListOrders)
		r.Get("/orders/detail", h.apiGetOrder)
		r.Get("/results", h.apiListResults)
		r.Get("/inspections", h.apiListInspections)
		r.Get("/quality-results", h.apiListQualityResults)
		r.Get("/dashboard", h.apiDashboard)
		r.Get("/predict/models", h.apiPredictModels)
		r.Get("/predict/production", h.apiPredictProduction)
		r.Post("/predict/worktime", h.apiPredictWorkTime)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Post("/orders/create", h.handleOrderCreate)
		r.Post("/orders/update", h.handleOrderUpdate)
		r.Post("/orders/delete", h.handleOrderDelete)
		r.Post("/progress/advance", h.handleProgressAdvance)
		r.Post("/inspections/create", h.handleInspectionCreate)
		r.Post("/inspections/update", h.handleInspectionUpdate)
		r.Post("/inspections/delete", h.handleInspectionDelete)
		r.Post("/quality/record", h.handleQualityRecord)
	})

	stopFn := func() {
		hub.Stop()
	}

	return r, stopFn
}

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := h.tmpls[name]
	if !ok {
		log.Printf("render: template %q not found", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Page":          "login",
		"Authenticated": h.isAuthenticated(r),
	}
	h.render(w, "login.html", data)
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.db.GetAdminUser(username)
	if err != nil || !checkPassword(user.PasswordHash, password) {
		data := map[string]any{
			"Page":  "login",
			"Error": "Invalid username or password",
		}
		h.render(w, "login.html", data)
		return
	}

	session, _ := h.sessions.Get(r, sessionName)
	session.Values["authenticated"] = true
	session.Values["username"] = username
	if err := session.Save(r, w); err != nil {
		log.Printf("auth: session save error: %v", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, sessionName)
	session.Values["authenticated"] = false
	session.Values["username"] = ""
	session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
