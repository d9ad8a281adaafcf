// Command mockapi поднимает локальную копию внешнего сервиса бронирования
// для разработки без доступа к настоящему API.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/m04kA/strike-booking/internal/config"
	"github.com/m04kA/strike-booking/internal/integrations/bookingapi/bookingapitest"
	"github.com/m04kA/strike-booking/pkg/logger"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	apiKey := flag.String("api-key", os.Getenv(config.APIKeyEnv), "expected x-api-key value, empty disables the check")
	flag.Parse()

	log, err := logger.New("", "info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	// Долгоживущему процессу история запросов не нужна
	handler := bookingapitest.NewHandler(*apiKey)
	handler.SetRecordLimit(0)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("Mock booking API listening on %s (POST /booking)", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Mock booking API failed: %v", err)
	}
}
