package main // Entry point package

import (
    "context" // Context for startup deadlines
    "log"     // Logging library
    "time"    // Timeouts

    "github.com/joho/godotenv"    // Loads .env files into the environment
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/venue-reservation/internal/config"
    "github.com/iliyamo/venue-reservation/internal/database"
    "github.com/iliyamo/venue-reservation/internal/handler"
    "github.com/iliyamo/venue-reservation/internal/queue"
    "github.com/iliyamo/venue-reservation/internal/repository"
    "github.com/iliyamo/venue-reservation/internal/router"
    "github.com/iliyamo/venue-reservation/internal/service"

    "github.com/iliyamo/venue-reservation/internal/availability"
)

func main() {
    // Load a local .env if present; real deployments set the environment
    // directly, so a missing file is not an error.
    _ = godotenv.Load()

    cfg := config.Load() // Load environment config

    // Connect to MySQL and make sure the schema exists before serving.
    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    defer db.Close()
    bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()
    if err := database.EnsureSchema(bootCtx, db); err != nil {
        log.Fatalf("schema bootstrap failed: %v", err)
    }

    // Redis is optional: without it the cache and rate limiter are no-ops.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable, running without response cache and rate limiting")
    }

    store := repository.NewStore(db)
    window := availability.Window{OpenHour: cfg.OpenHour, CloseHour: cfg.CloseHour}
    bookings := service.NewBookingService(store, window, queue.PublishReservationEvent)

    h := router.Handlers{
        Venues:       handler.NewVenueHandler(store.Venues, bookings),
        Reservations: handler.NewReservationHandler(store.Reservations, store.Invoices, bookings),
        Invoices:     handler.NewInvoiceHandler(store.Invoices, bookings),
    }

    e := echo.New()          // Create Echo instance
    router.RegisterRoutes(e) // Health check
    router.Register(e, h, rdb, config.LoadCacheConfig(), config.LoadRateLimitConfig())

    // The consumer tails reservation.events into logs/reservations.log.
    // It reconnects on its own, so a dead broker never blocks startup.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
