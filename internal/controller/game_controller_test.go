package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/legalchess-backend/internal/service"
)

func newTestApp() *fiber.App {
	return NewApp(service.NewGameService(service.NewGameManager(nil, 0), 3), "*")
}

func do(t *testing.T, app *fiber.App, method, path, player, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]interface{}{}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, data, err)
		}
	}
	return resp.StatusCode, out
}

func createGame(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	status, out := do(t, app, http.MethodPost, "/api/game/create", "alice", body)
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d, body %v", status, out)
	}
	id, _ := out["gameId"].(string)
	if id == "" {
		t.Fatalf("create returned no id: %v", out)
	}
	return id
}

func TestHealthz(t *testing.T) {
	status, out := do(t, newTestApp(), http.MethodGet, "/healthz", "", "")
	if status != fiber.StatusOK || out["status"] != "ok" {
		t.Errorf("healthz = %d %v", status, out)
	}
}

func TestPlayerIDRequired(t *testing.T) {
	status, _ := do(t, newTestApp(), http.MethodPost, "/api/game/create", "", "")
	if status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
}

func TestGameFlow(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app, "")

	status, out := do(t, app, http.MethodPost, "/api/game/join/"+id, "alice", "")
	if status != fiber.StatusOK || out["color"] != "white" {
		t.Fatalf("join = %d %v", status, out)
	}

	status, out = do(t, app, http.MethodGet, "/api/game/"+id+"/moves", "alice", "")
	if moves, _ := out["moves"].([]interface{}); status != fiber.StatusOK || len(moves) != 20 {
		t.Fatalf("moves = %d %v", status, out)
	}

	status, out = do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"move":"e2e4"}`)
	if status != fiber.StatusOK || out["lastMove"] != "e2e4" || out["toMove"] != "black" {
		t.Fatalf("move = %d %v", status, out)
	}

	status, out = do(t, app, http.MethodGet, "/api/game/"+id, "bob", "")
	if status != fiber.StatusOK || out["fen"] != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Fatalf("state = %d %v", status, out)
	}

	status, out = do(t, app, http.MethodPost, "/api/game/"+id+"/undo", "alice", "")
	if status != fiber.StatusOK || out["toMove"] != "white" {
		t.Fatalf("undo = %d %v", status, out)
	}
}

func TestMoveErrors(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app, "")
	do(t, app, http.MethodPost, "/api/game/join/"+id, "alice", "")
	do(t, app, http.MethodPost, "/api/game/join/"+id, "bob", "")

	tests := []struct {
		name   string
		path   string
		player string
		body   string
		want   int
	}{
		{"missing move", "/api/game/" + id + "/move", "alice", `{}`, fiber.StatusBadRequest},
		{"illegal move", "/api/game/" + id + "/move", "alice", `{"move":"e2e5"}`, fiber.StatusUnprocessableEntity},
		{"garbled move", "/api/game/" + id + "/move", "alice", `{"move":"castle"}`, fiber.StatusUnprocessableEntity},
		{"wrong side", "/api/game/" + id + "/move", "bob", `{"move":"e2e4"}`, fiber.StatusForbidden},
		{"not seated", "/api/game/" + id + "/move", "carol", `{"move":"e2e4"}`, fiber.StatusForbidden},
		{"unknown game", "/api/game/nope/move", "alice", `{"move":"e2e4"}`, fiber.StatusNotFound},
		{"empty undo", "/api/game/" + id + "/undo", "alice", "", fiber.StatusUnprocessableEntity},
		{"game full", "/api/game/join/" + id, "carol", "", fiber.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := do(t, app, http.MethodPost, tt.path, tt.player, tt.body)
			if status != tt.want {
				t.Errorf("status = %d, want %d (%v)", status, tt.want, out)
			}
			if _, ok := out["error"]; !ok {
				t.Errorf("no error field in %v", out)
			}
		})
	}
}

func TestCreateFromFEN(t *testing.T) {
	app := newTestApp()
	fen := "4k3/8/8/8/8/8/8/R3K3 w Q - 0 1"
	id := createGame(t, app, `{"fen":"`+fen+`"}`)

	_, out := do(t, app, http.MethodGet, "/api/game/"+id, "alice", "")
	if out["fen"] != fen {
		t.Errorf("fen = %v, want %s", out["fen"], fen)
	}

	status, _ := do(t, app, http.MethodPost, "/api/game/create", "alice", `{"fen":"8/8 w - - 0 1"}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("invalid fen status = %d, want 400", status)
	}
}

func TestPerftEndpoint(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app, "")

	status, out := do(t, app, http.MethodGet, "/api/game/"+id+"/perft?depth=2", "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("perft = %d %v", status, out)
	}
	if nodes, _ := out["nodes"].(float64); nodes != 400 {
		t.Errorf("nodes = %v, want 400", out["nodes"])
	}
	if divide, _ := out["divide"].([]interface{}); len(divide) != 20 {
		t.Errorf("%d divide entries, want 20", len(divide))
	}

	status, _ = do(t, app, http.MethodGet, "/api/game/"+id+"/perft?depth=9", "alice", "")
	if status != fiber.StatusBadRequest {
		t.Errorf("deep perft status = %d, want 400", status)
	}
}

func TestMatchmakingEndpoints(t *testing.T) {
	app := newTestApp()
	status, out := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	if status != fiber.StatusOK || out["status"] != "queued" {
		t.Fatalf("join = %d %v", status, out)
	}
	status, _ = do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	if status != fiber.StatusConflict {
		t.Errorf("second join = %d, want 409", status)
	}
	_, out = do(t, app, http.MethodGet, "/api/game/matchmaking/status", "alice", "")
	if out["status"] != "waiting" {
		t.Errorf("status = %v", out)
	}
}

func TestSeatsSurviveLaterRequests(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app, "")
	do(t, app, http.MethodPost, "/api/game/join/"+id, "alice", "")
	do(t, app, http.MethodPost, "/api/game/join/"+id, "bobby", "")

	// other clients reuse the request buffers the seat ids were read from
	for _, player := range []string{"mallory", "zzzzz", "carol"} {
		do(t, app, http.MethodGet, "/api/game/"+id, player, "")
		do(t, app, http.MethodGet, "/api/game/"+id+"/moves?playerId="+player, "", "")
	}

	_, out := do(t, app, http.MethodGet, "/api/game/"+id, "zzzzz", "")
	players, _ := out["players"].(map[string]interface{})
	white, _ := players["white"].(map[string]interface{})
	black, _ := players["black"].(map[string]interface{})
	if white["id"] != "alice" || black["id"] != "bobby" {
		t.Fatalf("seats = %v / %v, want alice / bobby", white["id"], black["id"])
	}

	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/move", "zzzzz", `{"move":"e2e4"}`); status != fiber.StatusForbidden {
		t.Errorf("unseated move status = %d, want 403", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"move":"e2e4"}`); status != fiber.StatusOK {
		t.Errorf("seated move status = %d, want 200", status)
	}
}

func TestLeaveMatchmakingEndpoint(t *testing.T) {
	app := newTestApp()
	do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")

	_, out := do(t, app, http.MethodGet, "/healthz", "", "")
	if out["queued"] != float64(1) {
		t.Errorf("healthz = %v, want one queued player", out)
	}

	status, out := do(t, app, http.MethodDelete, "/api/game/matchmaking", "alice", "")
	if status != fiber.StatusOK || out["status"] != "left" {
		t.Errorf("leave = %d %v", status, out)
	}
	if status, _ := do(t, app, http.MethodDelete, "/api/game/matchmaking", "alice", ""); status != fiber.StatusNotFound {
		t.Errorf("second leave = %d, want 404", status)
	}
}

func TestListAndDeleteGames(t *testing.T) {
	app := newTestApp()
	keep := createGame(t, app, "")
	drop := createGame(t, app, "")

	status, _ := do(t, app, http.MethodDelete, "/api/game/"+drop, "alice", "")
	if status != fiber.StatusNoContent {
		t.Fatalf("delete = %d, want 204", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/game/"+drop, "alice", ""); status != fiber.StatusNotFound {
		t.Errorf("deleted game lookup = %d, want 404", status)
	}

	status, out := do(t, app, http.MethodGet, "/api/games", "alice", "")
	games, _ := out["games"].([]interface{})
	if status != fiber.StatusOK || len(games) != 1 {
		t.Fatalf("list = %d %v", status, out)
	}
	if game, _ := games[0].(map[string]interface{}); game["gameId"] != keep {
		t.Errorf("listed %v, want %s", game, keep)
	}
}
