package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Prabhu6626/Glonix-Website/admin"
	"github.com/Prabhu6626/Glonix-Website/auth"
	"github.com/Prabhu6626/Glonix-Website/cartstore"
	"github.com/Prabhu6626/Glonix-Website/catalog"
	"github.com/Prabhu6626/Glonix-Website/checkout"
	"github.com/Prabhu6626/Glonix-Website/config"
	"github.com/Prabhu6626/Glonix-Website/contact"
	"github.com/Prabhu6626/Glonix-Website/db"
	"github.com/Prabhu6626/Glonix-Website/enquiries"
	"github.com/Prabhu6626/Glonix-Website/funnel"
	"github.com/Prabhu6626/Glonix-Website/gateway"
	"github.com/Prabhu6626/Glonix-Website/ledger"
	"github.com/Prabhu6626/Glonix-Website/middleware"
	"github.com/Prabhu6626/Glonix-Website/notify"
	"github.com/Prabhu6626/Glonix-Website/orders"
	"github.com/Prabhu6626/Glonix-Website/ratelim"
	"github.com/Prabhu6626/Glonix-Website/routes"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}
	cancel()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	// Stores.
	catalogStore := catalog.NewStore(store.Products)
	cartStore := cartstore.New(store.Carts, catalogStore)
	orderStore := orders.NewStore(store.Orders)
	enquiryStore := enquiries.NewStore(store.Enquiries)
	paymentLedger := ledger.New(store.Idempotency)

	// Services.
	funnelTracker := funnel.NewTracker(funnel.NewMongoStates(store.Users), orderStore)
	queue := notify.NewQueue(rdb)
	razorpay := gateway.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)
	orchestrator := checkout.NewOrchestrator(
		cartStore, catalogStore, orderStore, paymentLedger, razorpay, funnelTracker, queue)

	// Background workers.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	sweeper := checkout.NewStaleSweeper(paymentLedger, 10*time.Minute, time.Hour)
	go sweeper.Run(workerCtx)

	sender := &notify.SMTPSender{
		Server:    cfg.SMTPServer,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		From:      cfg.FromEmail,
		AdminAddr: cfg.SMTPUsername,
	}
	worker := notify.NewWorker(rdb, sender, &notify.MongoUserEmails{Users: store.Users})
	go worker.Run(workerCtx)

	// HTTP surface.
	rateLimiter := ratelim.NewRateLimiter()
	mw := middleware.NewAuth(cfg.JWTSecret)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddStaticRoutes(router)
	routes.AddAuthRoutes(router, rateLimiter, mw, auth.NewHandlers(store.Users, cfg.JWTSecret))
	routes.AddCatalogRoutes(router, mw, catalog.NewHandlers(catalogStore))
	routes.AddCartRoutes(router, mw, cartstore.NewHandlers(cartStore, funnelTracker))
	routes.AddCheckoutRoutes(router, rateLimiter, mw, checkout.NewHandlers(orchestrator))
	routes.AddOrderRoutes(router, mw, orders.NewHandlers(orderStore))
	routes.AddEnquiryRoutes(router, mw, enquiries.NewHandlers(enquiryStore, funnelTracker))
	routes.AddContactRoutes(router, rateLimiter, mw, contact.NewHandlers(store.Messages, queue))
	routes.AddAdminRoutes(router, mw, admin.NewHandlers(store))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	stopWorkers()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("mongo close: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
