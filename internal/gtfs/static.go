package gtfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"disruptions.onebusaway.org/internal/logging"
	"github.com/OneBusAway/go-gtfs"
)

const (
	maxFeedBytes      = 200 * 1024 * 1024
	feedReloadTimeout = 5 * time.Minute
)

var feedClient = &http.Client{
	Timeout: feedReloadTimeout,
	Transport: &http.Transport{
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
	},
}

// fetchFeed returns the raw zip named by config.GtfsURL.
func fetchFeed(ctx context.Context, config Config) ([]byte, error) {
	if config.isLocalFile() {
		b, err := os.ReadFile(config.GtfsURL)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}
	return downloadFeed(ctx, config)
}

func downloadFeed(ctx context.Context, config Config) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.GtfsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GTFS request: %w", err)
	}
	if config.StaticAuthHeaderKey != "" && config.StaticAuthHeaderValue != "" {
		req.Header.Set(config.StaticAuthHeaderKey, config.StaticAuthHeaderValue)
	}

	resp, err := feedClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "gtfs_downloader")),
		"http_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download GTFS data: received HTTP status %s", resp.Status)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	if len(b) > maxFeedBytes {
		return nil, fmt.Errorf("static GTFS response exceeds size limit of %d bytes", maxFeedBytes)
	}
	return b, nil
}

func loadGTFSData(ctx context.Context, config Config) (*gtfs.Static, error) {
	b, err := fetchFeed(ctx, config)
	if err != nil {
		return nil, err
	}
	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	return staticData, nil
}

// updateStaticGTFS reloads a remote feed every RefreshInterval until
// Shutdown. A failed reload keeps the old catalog but marks it stale.
func (manager *Manager) updateStaticGTFS() {
	defer manager.wg.Done()

	logger := slog.Default().With(slog.String("component", "gtfs_static_updater"))
	ticker := time.NewTicker(manager.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), feedReloadTimeout)
			if err := manager.ForceUpdate(ctx); err != nil {
				manager.MarkUnhealthy()
			}
			cancel()
		case <-manager.shutdownChan:
			logging.LogOperation(logger, "shutting_down_static_gtfs_updates")
			return
		}
	}
}

// ForceUpdate reloads the feed and swaps the catalog in one step. On failure
// the previous catalog keeps serving.
func (manager *Manager) ForceUpdate(ctx context.Context) error {
	manager.staticUpdateMutex.Lock()
	defer manager.staticUpdateMutex.Unlock()

	logger := slog.Default().With(slog.String("component", "gtfs_updater"),
		slog.String("source", manager.config.GtfsURL))

	staticData, err := loadGTFSData(ctx, manager.config)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logging.LogError(logger, "Error updating GTFS data", err)
		return err
	}

	manager.setStaticGTFS(staticData)

	logging.LogOperation(logger, "gtfs_static_data_updated",
		slog.Int("routes", len(staticData.Routes)),
		slog.Int("stops", len(staticData.Stops)),
		slog.Int("warnings", len(staticData.Warnings)))
	return nil
}
