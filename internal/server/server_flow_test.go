package server

import (
	"net/http"
	"testing"

	"word-imposter/internal/config"
)

func TestFullRoundFlow(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	gameID, inviteCode := createGame(t, ts, "gm")
	if len(inviteCode) != 6 {
		t.Fatalf("unexpected invite code: %q", inviteCode)
	}
	joinPlayer(t, ts, gameID, "p1", "Ada")
	joinPlayer(t, ts, inviteCode, "p2", "Ben")
	joinPlayer(t, ts, gameID, "p3", "Cleo")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/rounds",
		startRoundRequestBody("gm", "apple", "a fruit", []string{"p3"}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start round: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}

	role := fetchRole(t, ts, gameID, "p1")
	if role["role"] != "word_holder" || role["secret_word"] != "apple" {
		t.Fatalf("word holder view wrong: %v", role)
	}
	role = fetchRole(t, ts, gameID, "p3")
	if role["role"] != "imposter" || role["bonus_hint"] != "a fruit" {
		t.Fatalf("imposter view wrong: %v", role)
	}
	if _, leaked := role["secret_word"]; leaked {
		t.Fatalf("secret word leaked to the imposter: %v", role)
	}

	snap := fetchSnapshot(t, ts, gameID)
	if snap["status"] != statusRoleAssignment {
		t.Fatalf("expected status %s, got %v", statusRoleAssignment, snap["status"])
	}
	round := snap["round"].(map[string]any)
	if _, leaked := round["secret_word"]; leaked {
		t.Fatalf("secret word leaked in snapshot: %v", round)
	}
	if _, leaked := round["imposter_ids"]; leaked {
		t.Fatalf("imposter set leaked in snapshot: %v", round)
	}

	advanceStatus(t, ts, gameID, "gm", statusDiscussion)
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/clues", map[string]string{
		"user_id":   "p1",
		"clue_word": "red",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clue: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/spotlight", map[string]string{
		"user_id":   "gm",
		"player_id": "p1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("spotlight: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}

	advanceStatus(t, ts, gameID, "gm", statusVoting)
	for voter, candidate := range map[string]string{"p1": "p3", "p2": "p3", "p3": "p1"} {
		resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/votes", map[string]string{
			"user_id":      voter,
			"voted_for_id": candidate,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("vote %s: expected %d, got %d", voter, http.StatusOK, resp.StatusCode)
		}
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/games/"+gameID+"/tally", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tally: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	tally := decodeBody(t, resp)["tally"].(map[string]any)
	if tally["p3"].(float64) != 2 || tally["p1"].(float64) != 1 {
		t.Fatalf("unexpected tally: %v", tally)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/guesses", map[string]string{
		"user_id":      "p3",
		"guessed_word": "Apple",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("guess: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["is_correct"] != true {
		t.Fatalf("guess not case-folded: %v", body)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/resolve", map[string]string{
		"user_id":             "gm",
		"voted_out_player_id": "p3",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	outcome := decodeBody(t, resp)
	if outcome["winner"] != winnerNonImposters || outcome["eliminated_is_imposter"] != true {
		t.Fatalf("unexpected outcome: %v", outcome)
	}

	snap = fetchSnapshot(t, ts, gameID)
	if snap["status"] != statusRoundEnd {
		t.Fatalf("expected status %s, got %v", statusRoundEnd, snap["status"])
	}
	round = snap["round"].(map[string]any)
	if round["secret_word"] != "apple" || round["winner"] != winnerNonImposters {
		t.Fatalf("resolved round must reveal: %v", round)
	}
	for _, entry := range snap["leaderboard"].([]any) {
		row := entry.(map[string]any)
		points := row["total_points"].(float64)
		switch row["user_id"] {
		case "p1", "p2":
			if points != 1 {
				t.Fatalf("expected 1 point for %v, got %v", row["user_id"], points)
			}
		case "p3":
			if points != 0 {
				t.Fatalf("eliminated imposter must have 0 points, got %v", points)
			}
		}
	}

	advanceStatus(t, ts, gameID, "gm", statusWaiting)
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/rounds",
		startRoundRequestBody("gm", "river", "flows downhill", []string{"p1"}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second round: expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["round_number"].(float64) != 2 {
		t.Fatalf("expected round 2, got %v", body["round_number"])
	}
}

func TestResolveDuplicateReturnsStoredOutcome(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	gameID, _ := createGame(t, ts, "gm")
	for _, p := range []string{"p1", "p2", "p3"} {
		joinPlayer(t, ts, gameID, p, "Player "+p)
	}
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/rounds",
		startRoundRequestBody("gm", "apple", "a fruit", []string{"p3"}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start round: got %d", resp.StatusCode)
	}
	advanceStatus(t, ts, gameID, "gm", statusDiscussion)
	advanceStatus(t, ts, gameID, "gm", statusVoting)

	first := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/resolve", map[string]string{
		"user_id":             "gm",
		"voted_out_player_id": "p3",
	})
	if first.StatusCode != http.StatusOK {
		t.Fatalf("resolve: got %d", first.StatusCode)
	}
	firstBody := decodeBody(t, first)

	// A retried trigger, even with a different elimination, replays the
	// committed outcome and pays nobody again.
	second := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/resolve", map[string]string{
		"user_id":             "gm",
		"voted_out_player_id": "p1",
	})
	if second.StatusCode != http.StatusOK {
		t.Fatalf("duplicate resolve: got %d", second.StatusCode)
	}
	secondBody := decodeBody(t, second)
	if secondBody["winner"] != firstBody["winner"] ||
		secondBody["eliminated_is_imposter"] != firstBody["eliminated_is_imposter"] {
		t.Fatalf("duplicate outcome diverged: %v vs %v", secondBody, firstBody)
	}

	game, _ := srv.store.GetGame(gameID)
	for _, id := range []string{"p1", "p2"} {
		if totalPoints(t, game, id) != 1 {
			t.Fatalf("player %s paid twice: %d", id, totalPoints(t, game, id))
		}
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/games/"+gameID+"/results", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("results: got %d", resp.StatusCode)
	}
	results := decodeBody(t, resp)
	if rounds := results["rounds"].([]any); len(rounds) != 1 {
		t.Fatalf("expected one resolved round, got %d", len(rounds))
	}
}
