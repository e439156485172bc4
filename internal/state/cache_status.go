package state

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/notehub/internal/querycache"
)

// RootStatus is the status line shared between background commands and the
// view.
type RootStatus struct {
	mu   sync.Mutex
	line string
}

func (r *RootStatus) Set(line string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.line = line
	r.mu.Unlock()
}

func (r *RootStatus) Value() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.line
}

// CacheStatsSource exposes query cache counters.
type CacheStatsSource interface {
	Stats() querycache.Stats
}

// CacheStatsMsg notifies subscribers that the root status line was refreshed
// from the latest query cache counters.
type CacheStatsMsg struct {
	Line string
}

// CacheHeartbeatCmd reads the cache counters, updates the shared root
// status line, and returns a message consumers can use to rerender.
func (s *State) CacheHeartbeatCmd() tea.Cmd {
	if s == nil {
		return nil
	}

	return func() tea.Msg {
		var src CacheStatsSource
		if s.Cache != nil {
			src = s.Cache
		}
		line := formatCacheStatus(src)
		if s.RootStatus != nil {
			s.RootStatus.Set(line)
		}
		return CacheStatsMsg{Line: line}
	}
}

func formatCacheStatus(src CacheStatsSource) string {
	if src == nil {
		return ""
	}

	stats := src.Stats()
	parts := []string{fmt.Sprintf("Cache: %d keys", stats.Entries)}
	if stats.Fetches > 0 {
		parts = append(parts, fmt.Sprintf("%d fetches", stats.Fetches))
	}
	if stats.Hits > 0 {
		parts = append(parts, fmt.Sprintf("%d hits", stats.Hits))
	}

	return strings.Join(parts, " · ")
}
