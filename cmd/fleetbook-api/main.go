// README: Entry point; loads config, restores state from the slot, wires the store and HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fleetbook/internal/bridge"
	"fleetbook/internal/config"
	httptransport "fleetbook/internal/http"
	"fleetbook/internal/http/ws"
	"fleetbook/internal/infra"
	"fleetbook/internal/maps"
	"fleetbook/internal/modules/booking"
	"fleetbook/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment as-is")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	stateBridge := bridge.New(redisClient, cfg.State.Key, cfg.State.Channel)

	initial, err := stateBridge.Load(ctx)
	if err != nil {
		log.Fatalf("load state slot: %v", err)
	}

	st := store.New(initial, stateBridge)
	bookingSvc := booking.NewService(st)

	var geocoder *maps.Geocoder
	if cfg.Maps.APIKey != "" {
		geocoder, err = maps.NewGeocoder(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
	}

	hub := ws.NewHub()
	st.Subscribe(hub.BroadcastState)

	go stateBridge.Run(ctx, st)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewRouter(st, bookingSvc, geocoder, hub)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("fleetbook listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
