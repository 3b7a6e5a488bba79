package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nachoupps/chessy/internal/api"
	"github.com/nachoupps/chessy/internal/factory"
	"github.com/nachoupps/chessy/internal/model"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "chessy-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/chessy")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// runWithInput feeds stdin to interactive commands like play
func (r *cliRunner) runWithInput(input string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Stdin = strings.NewReader(input)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		PlayerService: app.PlayerService,
		GameService:   app.GameService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type healthResponse struct {
	Status string `json:"status"`
}

type playerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

type gameResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WhitePlayer string `json:"white_player"`
	BlackPlayer string `json:"black_player"`
	FEN         string `json:"fen"`
	Winner      string `json:"winner"`
	Archived    bool   `json:"archived"`
	UndoUsed    bool   `json:"undo_used"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Register with explicit pin
	output, err := cli.run("player", "register", "--name", "Alice", "--pin", "1234")
	require.NoError(t, err, "output: %s", output)

	var alice playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, model.InitialRating, alice.Rating)
	assert.NotEmpty(t, alice.ID)

	// Register without a pin (defaults)
	output, err = cli.run("player", "register", "--name", "Bob")
	require.NoError(t, err, "output: %s", output)

	// Duplicate name rejected
	output, err = cli.run("player", "register", "--name", "alice")
	assert.Error(t, err, "expected duplicate name to fail")
	assert.Contains(t, strings.ToLower(output), "name")

	// Get by id
	output, err = cli.run("player", "get", alice.ID)
	require.NoError(t, err, "output: %s", output)

	var got playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, alice.ID, got.ID)

	// List
	output, err = cli.run("player", "list")
	require.NoError(t, err, "output: %s", output)

	var players []playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &players))
	assert.Len(t, players, 2)
}

func TestCLI_GameCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("player", "register", "--name", "Alice")
	require.NoError(t, err)
	_, err = cli.run("player", "register", "--name", "Bob")
	require.NoError(t, err)

	// Create
	output, err := cli.run("game", "create", "--name", "Friday night", "--white", "Alice", "--black", "Bob")
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "Friday night", game.Name)
	assert.Equal(t, model.StartingFEN, game.FEN)
	gameID := game.ID

	// Get
	output, err = cli.run("game", "get", gameID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, gameID, game.ID)

	// Archiving a live game is rejected
	output, err = cli.run("game", "archive", gameID)
	assert.Error(t, err, "expected archive of live game to fail")
	assert.Contains(t, strings.ToLower(output), "concluded")

	// Delete
	output, err = cli.run("game", "delete", gameID)
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Game deleted", msg.Message)

	_, err = cli.run("game", "get", gameID)
	assert.Error(t, err, "should not find game after delete")
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("player", "register", "--name", "Alice", "--pin", "1234")
	require.NoError(t, err)
	_, err = cli.run("player", "register", "--name", "Bob", "--pin", "5678")
	require.NoError(t, err)

	output, err := cli.run("game", "create", "--name", "Club match", "--white", "Alice", "--black", "Bob")
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	gameID := game.ID
	t.Logf("Created game: %s", gameID)

	// Alice plays a move from an interactive session
	output, err = cli.runWithInput("move e2 e4\nquit\n",
		"play", "--game", gameID, "--as", "white", "--pin", "1234")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("game", "get", gameID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.NotEqual(t, model.StartingFEN, game.FEN)
	assert.Contains(t, game.FEN, " b ", "black to move after white's opening")

	// Wrong pin is rejected before the session opens
	output, err = cli.runWithInput("quit\n",
		"play", "--game", gameID, "--as", "black", "--pin", "0000")
	assert.Error(t, err, "wrong pin should be denied")
	assert.Contains(t, strings.ToLower(output), "denied")

	// Bob resigns
	output, err = cli.runWithInput("resign\n",
		"play", "--game", gameID, "--as", "black", "--pin", "5678")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("game", "get", gameID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, string(model.WinnerWhite), game.Winner)

	// Ratings settled exactly once
	output, err = cli.run("player", "list")
	require.NoError(t, err, "output: %s", output)
	var players []playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &players))
	byName := map[string]playerResponse{}
	for _, p := range players {
		byName[p.Name] = p
	}
	assert.Equal(t, model.InitialRating+model.WinRatingDelta, byName["Alice"].Rating)
	assert.Equal(t, 1, byName["Alice"].Wins)
	assert.Equal(t, model.InitialRating+model.LossRatingDelta, byName["Bob"].Rating)
	assert.Equal(t, 1, byName["Bob"].Losses)

	// Concluded game can be archived
	output, err = cli.run("game", "archive", gameID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.True(t, game.Archived)

	// And stays frozen
	output, err = cli.runWithInput("move e7 e5\nquit\n",
		"play", "--game", gameID, "--as", "black", "--pin", "5678")
	require.NoError(t, err, "the session opens read-only; the move itself fails")
	assert.Contains(t, strings.ToLower(output), "concluded")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Non-existent player
	output, err := cli.run("player", "get", "nope")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Non-existent game
	output, err = cli.run("game", "get", "nope")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Both colours held by the same player
	output, err = cli.run("game", "create", "--name", "Solo", "--white", "Alice", "--black", "alice")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "distinct")

	// Clear requires the admin pin
	output, err = cli.run("player", "clear", "--pin", "9999")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "forbidden")

	_, err = cli.run("player", "register", "--name", "Alice")
	require.NoError(t, err)
	output, err = cli.run("player", "clear", "--pin", model.AdminPin)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("player", "list")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "[]", strings.TrimSpace(output))
}
