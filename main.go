package main

import (
	batch "SFRC/internal/calc/premium/batch"
	importer "SFRC/internal/calc/premium/importer"
	recommend "SFRC/internal/calc/premium/recommend"
	report "SFRC/internal/calc/report"
	sfrc "SFRC/internal/calc/sfrc"
	config "SFRC/internal/config"
	middleware "SFRC/internal/middleware"
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func HandleList(mux *mux.Router, cfg config.Config, engine *sfrc.Engine) {
	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	sfrcH := sfrc.NewHandler(engine, cfg.AllowExtrapolation)
	reportH := &report.Handler{Engine: engine}
	batchH := &batch.Handler{Engine: engine}
	importH := &importer.Handler{Engine: engine}
	recommendH := &recommend.Handler{Engine: engine}

	api.HandleFunc("/tools/sfrc/calc", sfrcH.Calc).Methods("POST")
	api.HandleFunc("/tools/sfrc/model", sfrcH.Model).Methods("GET")
	api.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	api.HandleFunc("/tools/premium/batch/sfrc", batchH.SFRC).Methods("POST")
	api.HandleFunc("/tools/premium/import/sfrc", importH.SFRC).Methods("POST")
	api.HandleFunc("/tools/premium/recommend/dosage", recommendH.Dosage).Methods("POST")

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	mainFileServer := http.FileServer(http.Dir(cfg.StaticDir))
	mux.PathPrefix("/").
		Handler(mainFileServer)
}

func newEngine(cfg config.Config) (*sfrc.Engine, error) {
	params := sfrc.DefaultParams()
	if cfg.ParamsFile != "" {
		p, err := sfrc.LoadParams(cfg.ParamsFile)
		if err != nil {
			return nil, err
		}
		params = p
		log.Printf("Model parameters loaded from %s", cfg.ParamsFile)
	}
	return sfrc.NewEngine(params)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		log.Fatalf("Model parameters error: %v", err)
	}

	mux := mux.NewRouter()
	HandleList(mux, cfg, engine)
	handler := middleware.Logging(middleware.CORS(mux))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Starting server on %s (tls=%v, extrapolation=%v)", cfg.Addr, cfg.TLS(), cfg.AllowExtrapolation)
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutdown signal received!")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")

	wg.Wait()
}
