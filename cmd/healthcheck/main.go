package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// Probes the daemon's health endpoint. The port comes from CATAPULT_PORT.
func main() {
	port := os.Getenv("CATAPULT_PORT")
	if port == "" {
		port = "8081"
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/__admin/health", port))
	if err != nil {
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
