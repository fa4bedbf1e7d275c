package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rechenraum/internal/config"
	"rechenraum/internal/registry"
	"rechenraum/internal/service"
	"rechenraum/internal/transport/rest"
	"rechenraum/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	reg := registry.New(cfg.RoomTTL)
	defer reg.Close()

	hub := ws.NewHub()

	authSvc := service.NewAuthService(cfg.JWTSecret)
	roomSvc := service.NewRoomService(reg, authSvc, cfg.AdminGracePeriod)
	roomSvc.SetBroadcaster(hub)
	reportSvc := service.NewReportService(roomSvc)

	wsHandler := ws.NewHandler(hub, roomSvc)

	router := rest.NewRouter(&rest.Container{
		RoomService:   roomSvc,
		ReportService: reportSvc,
		WSHandler:     wsHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s (admin grace %s, room ttl %s)", cfg.Port, cfg.AdminGracePeriod, cfg.RoomTTL)
		log.Println("Endpoints:")
		log.Println("  WS  /v1/ws")
		log.Println("  GET /v1/rooms/{code}/report")
		log.Println("  GET /v1/problems")
		log.Println("  GET /health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
