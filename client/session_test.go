package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// scriptedServer returns one canned response per analyze call, in order.
func scriptedServer(t *testing.T, responses []func(w http.ResponseWriter, body string)) (*httptest.Server, *[]string) {
	t.Helper()
	var bodies []string
	call := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Dream string `json:"dream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		bodies = append(bodies, req.Dream)
		if call >= len(responses) {
			t.Errorf("unexpected analyze call %d", call+1)
			return
		}
		responses[call](w, req.Dream)
		call++
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fullResult(id, token string) map[string]any {
	return map[string]any{
		"isDiagnosable": true,
		"needsMoreInfo": false,
		"keywords":      []string{"猫"},
		"advice":        "休みましょう",
		"id":            id,
		"shareToken":    token,
	}
}

func needsMoreInfoResult(id, token string) map[string]any {
	return map[string]any{
		"isDiagnosable": true,
		"needsMoreInfo": true,
		"missingInfoQuestions": []map[string]any{
			{"question": "どこにいましたか？", "options": []string{"家", "外"}},
		},
		"id":         id,
		"shareToken": token,
	}
}

func TestSessionSingleRound(t *testing.T) {
	srv, _ := scriptedServer(t, []func(http.ResponseWriter, string){
		func(w http.ResponseWriter, _ string) { writeJSON(w, 200, fullResult("d-1", "t-1")) },
	})

	s := NewSession(New(srv.URL))
	res, err := s.Submit(context.Background(), "猫の夢を見た")
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateTerminal {
		t.Fatalf("state=%v want terminal", s.State())
	}
	if res.ID == nil || *res.ID != "d-1" {
		t.Fatalf("id=%v", res.ID)
	}
	if s.Result() == nil {
		t.Fatal("terminal session must expose its result")
	}
	if _, err := s.Submit(context.Background(), "another"); err != ErrSessionFinished {
		t.Fatalf("resubmit err=%v", err)
	}
}

func TestSessionFollowUpRound(t *testing.T) {
	srv, bodies := scriptedServer(t, []func(http.ResponseWriter, string){
		func(w http.ResponseWriter, _ string) { writeJSON(w, 200, needsMoreInfoResult("d-1", "t-1")) },
		func(w http.ResponseWriter, _ string) { writeJSON(w, 200, fullResult("d-2", "t-2")) },
	})

	s := NewSession(New(srv.URL))
	res, err := s.Submit(context.Background(), "夢を見た")
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateNeedsMoreInfo {
		t.Fatalf("state=%v", s.State())
	}
	if res.ID == nil || *res.ID != "d-1" {
		t.Fatal("provisional record must carry id for the skip path")
	}
	if len(s.Questions()) != 1 {
		t.Fatalf("questions=%v", s.Questions())
	}

	final, err := s.SubmitFollowUp(context.Background(), "家の中にいました")
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateTerminal {
		t.Fatalf("state=%v", s.State())
	}
	if final.ID == nil || *final.ID != "d-2" {
		t.Fatal("follow-up must surface the new record, not the provisional one")
	}

	// The follow-up request concatenates original and additional text with the
	// section marker.
	sent := (*bodies)[1]
	if !strings.HasPrefix(sent, "夢を見た") ||
		!strings.Contains(sent, "--- 追加情報 ---") ||
		!strings.HasSuffix(sent, "家の中にいました") {
		t.Fatalf("follow-up body=%q", sent)
	}
}

func TestSessionNeverAsksTwice(t *testing.T) {
	srv, _ := scriptedServer(t, []func(http.ResponseWriter, string){
		func(w http.ResponseWriter, _ string) { writeJSON(w, 200, needsMoreInfoResult("d-1", "t-1")) },
		// Server asks again; the session must treat this as terminal.
		func(w http.ResponseWriter, _ string) { writeJSON(w, 200, needsMoreInfoResult("d-2", "t-2")) },
	})

	s := NewSession(New(srv.URL))
	if _, err := s.Submit(context.Background(), "夢を見た"); err != nil {
		t.Fatal(err)
	}
	res, err := s.SubmitFollowUp(context.Background(), "追加")
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateTerminal {
		t.Fatalf("state=%v want terminal after one follow-up", s.State())
	}
	if res.NeedsMoreInfo || len(res.MissingInfoQuestions) != 0 {
		t.Fatal("second needs-more-info reply must be presented as terminal")
	}
}

func TestSessionSkipFollowUp(t *testing.T) {
	srv, _ := scriptedServer(t, []func(http.ResponseWriter, string){
		func(w http.ResponseWriter, _ string) { writeJSON(w, 200, needsMoreInfoResult("d-1", "t-1")) },
	})

	s := NewSession(New(srv.URL))
	if _, err := s.Submit(context.Background(), "夢を見た"); err != nil {
		t.Fatal(err)
	}
	res, err := s.SkipFollowUp()
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateTerminal {
		t.Fatalf("state=%v", s.State())
	}
	if res.ShareToken == nil || *res.ShareToken != "t-1" {
		t.Fatal("skip must hand back the provisional record's share token")
	}
}

func TestSessionFollowUpErrorKeepsState(t *testing.T) {
	srv, _ := scriptedServer(t, []func(http.ResponseWriter, string){
		func(w http.ResponseWriter, _ string) { writeJSON(w, 200, needsMoreInfoResult("d-1", "t-1")) },
		func(w http.ResponseWriter, _ string) {
			writeJSON(w, 503, map[string]any{"error": "解析サービスが一時的に利用できません", "code": 503})
		},
	})

	s := NewSession(New(srv.URL))
	if _, err := s.Submit(context.Background(), "夢を見た"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitFollowUp(context.Background(), "追加"); err == nil {
		t.Fatal("expected error")
	}
	if s.State() != StateNeedsMoreInfo {
		t.Fatalf("state=%v want needs-more-info so the user can retry or skip", s.State())
	}
	if _, err := s.SkipFollowUp(); err != nil {
		t.Fatalf("skip after failed follow-up: %v", err)
	}
}

func TestSessionFollowUpOutsideStateFails(t *testing.T) {
	s := NewSession(New("http://localhost:0"))
	if _, err := s.SubmitFollowUp(context.Background(), "x"); err != ErrNotAwaitingFollowUp {
		t.Fatalf("err=%v", err)
	}
	if _, err := s.SkipFollowUp(); err != ErrNotAwaitingFollowUp {
		t.Fatalf("err=%v", err)
	}
}
