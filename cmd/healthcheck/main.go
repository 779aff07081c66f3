// Command healthcheck is the container health probe. It exits 0 only when the
// site answers /api/v1/health with status "ok" and a loaded content snapshot.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

const probeTimeout = 2 * time.Second

func main() {
	addr := normalizeAddr(os.Getenv("IATSITE_LISTEN_ADDR"))

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := probe(ctx, &http.Client{Timeout: probeTimeout}, "http://"+addr+"/api/v1/health"); err != nil {
		fmt.Fprintln(os.Stderr, "unhealthy:", err)
		os.Exit(1)
	}
}

// health mirrors the fields of the health response the probe relies on.
type health struct {
	Status          string `json:"status"`
	ContentLoadedAt string `json:"content_loaded_at"`
}

// probe requests url and checks the health body.
func probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var h health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if h.Status != "ok" {
		return fmt.Errorf("status %q", h.Status)
	}
	if h.ContentLoadedAt == "" {
		return errors.New("content not loaded")
	}
	return nil
}

// normalizeAddr ensures the healthcheck connects to loopback rather than the
// bind-all address. Docker containers bind 0.0.0.0 but the healthcheck runs
// inside the same container, so loopback is reachable and more correct.
func normalizeAddr(raw string) string {
	if raw == "" {
		return "127.0.0.1:8080"
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return "127.0.0.1:8080"
	}

	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
