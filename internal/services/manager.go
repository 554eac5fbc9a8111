// Package services combines the Pi-hole client, the connectivity check and
// the snapshot cache into the data source of the visualizer.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/pihole-sense/internal/config"
	"github.com/j-veylop/pihole-sense/internal/db"
	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/models"
	"github.com/j-veylop/pihole-sense/internal/pihole"
	"github.com/j-veylop/pihole-sense/internal/services/credentials"
	"github.com/j-veylop/pihole-sense/internal/version"
)

// keepSnapshots is how many snapshots survive a prune.
const keepSnapshots = 10

// Fetcher retrieves fresh statistics from the server.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.Snapshot, error)
}

// Manager implements the visualizer data source.
type Manager struct {
	mu       sync.Mutex
	fetcher  Fetcher
	client   *pihole.Client
	database *db.DB
	watcher  *credentials.Watcher
	online   func(ctx context.Context) bool
	notify   func(title, message string) error

	lastOnline  *bool
	usingCache  bool
	lastSuccess time.Time
}

// NewManager creates a manager for the server in cfg. Options are passed to
// the Pi-hole client.
func NewManager(cfg *config.Config, opts ...pihole.Option) (*Manager, error) {
	client, err := pihole.NewClient(cfg.Address, cfg.PasswordHash(), opts...)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		fetcher: client,
		client:  client,
		online:  pihole.Online,
	}
	if cfg.Notify {
		beeep.AppName = version.Name
		m.notify = func(title, message string) error {
			return beeep.Notify(title, message, "")
		}
	}

	if cfg.CacheEnabled() {
		m.database, err = db.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	if config.IsLocalAddress(cfg.Address) && cfg.SetupVarsPath != "" {
		if _, statErr := os.Stat(cfg.SetupVarsPath); statErr == nil {
			m.watcher, err = credentials.Watch(cfg.SetupVarsPath, client.SetAuth)
			if err != nil {
				logger.Warn("failed to watch setupVars.conf", "path", cfg.SetupVarsPath, "error", err)
			}
		}
	}

	return m, nil
}

// Fetch returns fresh statistics, or the cached snapshot when the server
// cannot be reached.
func (m *Manager) Fetch(ctx context.Context) (*models.Snapshot, error) {
	snap, err := m.fetcher.Fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return m.fallback(ctx, err)
	}

	snap.Online = m.online(ctx)
	m.mu.Lock()
	m.lastSuccess = snap.FetchedAt
	m.mu.Unlock()
	m.checkNotifications(snap.Online, false)

	if m.database != nil {
		if err := m.database.SaveSnapshot(ctx, snap); err != nil {
			logger.Error("failed to cache snapshot", "error", err)
		} else {
			m.compact(ctx, snap.FetchedAt)
		}
	}

	logger.Debug("statistics fetched",
		"buckets", snap.Series.Len(),
		"blocked", fmt.Sprintf("%.1f%%", snap.BlockedPercentageToday),
		"online", snap.Online)
	return snap, nil
}

// compact prunes the cache and reclaims the space of removed rows.
func (m *Manager) compact(ctx context.Context, now time.Time) {
	removed, err := m.database.Prune(ctx, now, keepSnapshots)
	if err != nil {
		logger.Error("failed to prune cache", "error", err)
		return
	}
	if removed == 0 {
		return
	}
	if err := m.database.Vacuum(ctx); err != nil {
		logger.Error("failed to compact cache", "error", err)
		return
	}
	logger.Debug("cache compacted", "removed", removed)
}

func (m *Manager) fallback(ctx context.Context, fetchErr error) (*models.Snapshot, error) {
	if m.database == nil {
		return nil, fetchErr
	}

	cached, err := m.database.LatestSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, db.ErrNoSnapshot) {
			logger.Error("failed to read cache", "error", err)
		}
		return nil, fetchErr
	}

	cached.Online = false
	logger.Warn("pi-hole unreachable, showing cached statistics",
		"fetched", humanize.Time(cached.FetchedAt), "error", fetchErr)
	m.checkNotifications(false, true)
	return cached, nil
}

// checkNotifications sends a desktop notification when connectivity or the
// data origin changes. The first observation only sets the baseline. Cached
// snapshots say nothing about connectivity.
func (m *Manager) checkNotifications(online, cached bool) {
	m.mu.Lock()
	prevOnline := m.lastOnline
	prevCached := m.usingCache
	if !cached {
		m.lastOnline = &online
	}
	m.usingCache = cached
	m.mu.Unlock()

	if m.notify == nil {
		return
	}

	if cached && !prevCached {
		m.send("Pi-hole unreachable", "Showing cached statistics.")
	} else if !cached && prevCached {
		m.send("Pi-hole reachable", "Live statistics restored.")
	}

	if prevOnline == nil || cached {
		return
	}
	if *prevOnline && !online {
		m.send("Internet connection lost", "The public DNS resolver is unreachable.")
	} else if !*prevOnline && online {
		m.send("Internet connection restored", "The public DNS resolver is reachable again.")
	}
}

func (m *Manager) send(title, message string) {
	if err := m.notify(title, message); err != nil {
		logger.Debug("notification failed", "title", title, "error", err)
	}
}

// LastSuccess returns when the server last answered.
func (m *Manager) LastSuccess() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSuccess
}

// Close stops the credential watcher and closes the cache.
func (m *Manager) Close() error {
	var errs []error

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
