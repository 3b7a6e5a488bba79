package client

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nachoupps/chessy/internal/dependencies/clock"
	"github.com/nachoupps/chessy/internal/model"
)

const (
	// GamePollInterval is how often an open game is refreshed from the server
	GamePollInterval = 2 * time.Second
	// LobbyPollInterval is how often the game list is refreshed
	LobbyPollInterval = 5 * time.Second
	// LocalWriteDebounce suppresses polls shortly after a local mutation so
	// a stale read cannot clobber state the session just wrote
	LocalWriteDebounce = 3 * time.Second
)

// GamePoller keeps a local view of one game reconciled with the server.
// Remote updates are surfaced through OnUpdate; the conclusion callback
// fires at most once even if the concluded game keeps being polled.
type GamePoller struct {
	client   *Client
	clock    clock.Clock
	logger   *slog.Logger
	gameID   model.GameID
	interval time.Duration
	debounce time.Duration

	// OnUpdate is called when a poll observes a newer remote state
	OnUpdate func(*model.Game)
	// OnConcluded is called once, the first time a concluded game is seen
	OnConcluded func(*model.Game)

	mu              sync.Mutex
	current         *model.Game
	lastInteraction time.Time
	concludedFired  bool
}

// NewGamePoller creates a poller for one game. The initial state seeds the
// staleness comparison so an older remote read cannot roll the view back.
func NewGamePoller(c *Client, clk clock.Clock, logger *slog.Logger, initial *model.Game) *GamePoller {
	return &GamePoller{
		client:   c,
		clock:    clk,
		logger:   logger,
		gameID:   initial.ID,
		interval: GamePollInterval,
		debounce: LocalWriteDebounce,
		current:  initial,
	}
}

// Current returns the most recently reconciled game state
func (p *GamePoller) Current() *model.Game {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// NoteLocalWrite records a locally written state. Polls inside the
// debounce window are skipped so the server has time to observe the write.
func (p *GamePoller) NoteLocalWrite(game *model.Game) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = game
	p.lastInteraction = p.clock.Now()
}

// Run polls until the context is cancelled or the game concludes; a
// concluded game never changes again, so polling it is pure load. Fetch
// errors are logged and the tick is skipped; the next interval retries.
func (p *GamePoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if p.concluded() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *GamePoller) concluded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.concludedFired
}

// Poll performs a single reconciliation pass
func (p *GamePoller) Poll(ctx context.Context) {
	p.poll(ctx)
}

func (p *GamePoller) poll(ctx context.Context) {
	p.mu.Lock()
	debounced := !p.lastInteraction.IsZero() && p.clock.Now().Sub(p.lastInteraction) < p.debounce
	p.mu.Unlock()

	if debounced {
		return
	}

	remote, err := p.client.GetGame(ctx, p.gameID)
	if err != nil {
		p.logger.Warn("game poll failed",
			slog.String("game_id", string(p.gameID)),
			slog.String("error", err.Error()))
		return
	}

	p.mu.Lock()

	// An out of order response must not roll the view back
	if p.current != nil && remote.LastUpdated.Before(p.current.LastUpdated) {
		p.mu.Unlock()
		return
	}

	changed := p.current == nil ||
		remote.FEN != p.current.FEN ||
		remote.Winner != p.current.Winner ||
		remote.Archived != p.current.Archived ||
		remote.UndoUsed != p.current.UndoUsed ||
		remote.Name != p.current.Name
	p.current = remote

	fireConcluded := remote.Concluded() && !p.concludedFired
	if fireConcluded {
		p.concludedFired = true
	}

	// Callbacks run unlocked: an OnUpdate consumer may itself call back
	// into the poller (NoteLocalWrite) or hold locks of its own
	onUpdate, onConcluded := p.OnUpdate, p.OnConcluded
	p.mu.Unlock()

	if changed && onUpdate != nil {
		onUpdate(remote)
	}
	if fireConcluded && onConcluded != nil {
		onConcluded(remote)
	}
}

// LobbyPoller keeps the game list reconciled with the server
type LobbyPoller struct {
	client   *Client
	logger   *slog.Logger
	interval time.Duration

	// OnChange is called when the listing differs from the last poll
	OnChange func([]*model.Game)

	mu          sync.Mutex
	fingerprint string
}

// NewLobbyPoller creates a poller over the game collection
func NewLobbyPoller(c *Client, logger *slog.Logger) *LobbyPoller {
	return &LobbyPoller{
		client:   c,
		logger:   logger,
		interval: LobbyPollInterval,
	}
}

// Run polls until the context is cancelled
func (p *LobbyPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs a single listing pass
func (p *LobbyPoller) Poll(ctx context.Context) {
	games, err := p.client.ListGames(ctx)
	if err != nil {
		p.logger.Warn("lobby poll failed", slog.String("error", err.Error()))
		return
	}

	// Listing order is not stable across polls, so fingerprint a sorted view
	parts := make([]string, 0, len(games))
	for _, g := range games {
		parts = append(parts, fmt.Sprintf("%s@%d", g.ID, g.LastUpdated.UnixNano()))
	}
	sort.Strings(parts)
	fp := strings.Join(parts, ";")

	p.mu.Lock()
	changed := fp != p.fingerprint
	p.fingerprint = fp
	p.mu.Unlock()

	if changed && p.OnChange != nil {
		p.OnChange(games)
	}
}
