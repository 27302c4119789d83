package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/kaylahuffman7/Plated-v2/internal/auth"
	"github.com/kaylahuffman7/Plated-v2/internal/blob"
	"github.com/kaylahuffman7/Plated-v2/internal/config"
	"github.com/kaylahuffman7/Plated-v2/internal/events"
	"github.com/kaylahuffman7/Plated-v2/internal/export"
	"github.com/kaylahuffman7/Plated-v2/internal/localstore"
	"github.com/kaylahuffman7/Plated-v2/internal/meals"
	"github.com/kaylahuffman7/Plated-v2/internal/plans"
	"github.com/kaylahuffman7/Plated-v2/internal/settings"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/storage/memory"
	"github.com/kaylahuffman7/Plated-v2/internal/storage/postgres"
	"github.com/kaylahuffman7/Plated-v2/internal/userctx"
)

// demoUserID owns the seeded demo data and is the implicit caller when
// authentication is turned off.
const demoUserID = "dev-user"

// Server wires storage, services and routes together.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	storageMode    string // memory | postgres
	bus            *events.Bus
	authMiddleware *auth.Middleware
}

// New creates the HTTP server with its storage initialized.
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		bus:    events.NewBus(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage picks the adapter once at startup: memory (offline/demo)
// when no database is configured, postgres otherwise with a fallback to
// memory when the connection fails.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("no DATABASE_URL, using in-memory storage (demo mode)")
		s.storage = s.newMemoryStorage()
		s.storageMode = "memory"
		return
	}

	log.Println("connecting to PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("PostgreSQL connection failed: %v", err)
		log.Println("falling back to in-memory storage")
		s.storage = s.newMemoryStorage()
		s.storageMode = "memory"
		return
	}

	log.Println("PostgreSQL connected")
	s.storage = pgStorage
	s.storageMode = "postgres"
}

func (s *Server) newMemoryStorage() *memory.MemoryStorage {
	opts := []memory.Option{memory.WithEventBus(s.bus)}

	local, err := localstore.Open(s.config.DemoDataDir)
	if err != nil {
		log.Printf("WARN localstore: open %s failed: %v, demo data will not persist", s.config.DemoDataDir, err)
	} else {
		opts = append(opts, memory.WithLocalStore(local))
	}

	store := memory.New(opts...)
	if s.config.SeedDemoData {
		store.SeedDemoData(demoUserID)
	}
	return store
}

// EventBus exposes the mutation bus (memory mode publishes to it).
func (s *Server) EventBus() *events.Bus {
	return s.bus
}

// StorageMode reports which adapter was selected at startup.
func (s *Server) StorageMode() string {
	return s.storageMode
}

// routes registers the HTTP surface.
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandler(s.config, authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Settings API
	settingsService := settings.NewService(s.storage)
	settingsHandler := settings.NewHandler(settingsService)
	s.mux.HandleFunc("GET /v1/settings", settingsHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/settings", settingsHandler.HandleSave)
	s.mux.HandleFunc("POST /v1/settings/toggle-slot", settingsHandler.HandleToggleSlot)

	// Meal catalog API
	mealsService := meals.NewService(s.storage)
	mealsHandler := meals.NewHandler(mealsService)
	s.mux.HandleFunc("GET /v1/meals", mealsHandler.HandleList)
	s.mux.HandleFunc("POST /v1/meals", mealsHandler.HandleCreate)
	s.mux.HandleFunc("PATCH /v1/meals/{id}", mealsHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/meals/{id}", mealsHandler.HandleDelete)

	// Weekly plans API
	plansService := plans.NewService(s.storage, s.storage, settingsService)
	plansHandler := plans.NewHandler(plansService)
	s.mux.HandleFunc("GET /v1/plans", plansHandler.HandleList)
	s.mux.HandleFunc("POST /v1/plans/assign", plansHandler.HandleAssign)
	s.mux.HandleFunc("DELETE /v1/plans/{id}", plansHandler.HandleClear)
	s.mux.HandleFunc("GET /v1/plans/day", plansHandler.HandleDaySummary)

	// Weekly export API
	blobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize store: %v", err)
	}
	log.Printf("INFO blob: export blob mode: %s", blobMode)

	exportService := export.NewService(
		s.storage,
		s.storage,
		s.storage,
		settingsService,
		blobStore,
		s.config.Blob.S3.PresignTTLSeconds,
	)
	exportHandler := export.NewHandler(exportService)
	s.mux.HandleFunc("POST /v1/export/week", exportHandler.HandleGenerate)
	s.mux.HandleFunc("GET /v1/export/week/download", exportHandler.HandleDownload)
}

// handleHealthz reports server status.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"storage": s.storageMode,
	})
}

// Handler returns the full middleware chain (outermost first):
// CORS -> Rate Limit -> Auth -> Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.config.AuthMode == "none" {
		// No authentication: every request acts as the demo user, so
		// the seeded catalog stays reachable.
		handler = anonymousUser(handler)
	} else if s.authMiddleware != nil {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

func anonymousUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userctx.GetUserID(r.Context()); !ok {
			r = r.WithContext(userctx.WithUserID(r.Context(), demoUserID))
		}
		next.ServeHTTP(w, r)
	})
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("server listening on http://localhost%s\n", addr)
	log.Printf("health check: http://localhost%s/healthz\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases the storage.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
