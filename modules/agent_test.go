package modules

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"northcheck/pkg/checker"
	"northcheck/pkg/config"
	"northcheck/pkg/fault"
	"northcheck/pkg/health"
)

func newTestAgent(t *testing.T, status int, body string) (*ReputationAgent, *upstream) {
	t.Helper()
	u := newUpstream(t, status, body)
	client := checker.New(checker.Endpoints{Link: u.srv.URL + "/link", File: u.srv.URL + "/file"})
	return NewReputationAgent(client), u
}

func TestReputationAgentProcessTask(t *testing.T) {
	tests := []struct {
		name  string
		task  string
		calls int
		want  string
	}{
		{"link", "link https://example.com", 1, "Risk Level: High (Score: 72)"},
		{"slash prefix", "/link https://example.com", 1, "Category(s): phishing"},
		{"hash", "hash " + validHash + " 1024 setup.exe", 1, "Risk Level: High"},
		{"upper case command", "HASH " + validHash, 1, "Risk Level: High"},
		{"invalid hash", "hash nothex", 0, "Invalid SHA256 hash format"},
		{"invalid size", "hash " + validHash + " -5", 0, "Size must be a positive number"},
		{"link usage", "link", 0, "Usage: link <url>"},
		{"hash usage", "hash a b c d", 0, "Usage: hash <sha256> [size] [name]"},
		{"file refused", "file /etc/passwd", 0, "not available in agent mode"},
		{"help", "help", 0, "Available commands"},
		{"empty", "   ", 0, "No command provided"},
		{"unknown", "scan token", 0, "Unknown command 'scan'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, u := newTestAgent(t, http.StatusOK, `{"data":{"risk":{"score":72,"categories":["phishing"]}}}`)
			reply, err := a.ProcessTask(context.Background(), tt.task)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(reply, tt.want) {
				t.Errorf("reply missing %q:\n%s", tt.want, reply)
			}
			if u.Calls() != tt.calls {
				t.Errorf("calls = %d, expected %d", u.Calls(), tt.calls)
			}
		})
	}
}

func TestReputationAgentHashPayload(t *testing.T) {
	a, u := newTestAgent(t, http.StatusOK, `{}`)
	if _, err := a.ProcessTask(context.Background(), "hash "+validHash+" 2048 setup.exe"); err != nil {
		t.Fatal(err)
	}
	body := u.LastBody(t)
	if body["sha256"] != validHash || body["size"] != float64(2048) || body["name"] != "setup.exe" {
		t.Errorf("unexpected request body %v", body)
	}
}

func TestReputationAgentUpstreamFailure(t *testing.T) {
	a, _ := newTestAgent(t, http.StatusBadGateway, `{"error":"down"}`)
	_, err := a.ProcessTask(context.Background(), "link https://example.com")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !fault.Is(err, fault.API) {
		t.Errorf("expected API failure, got %v", err)
	}
}

func TestReputationAgentStatus(t *testing.T) {
	a, _ := newTestAgent(t, http.StatusOK, `{}`)
	if a.IsReady() {
		t.Error("agent should not be ready before start")
	}
	for i := 0; i < 3; i++ {
		a.ProcessTask(context.Background(), "help")
	}
	if got := a.GetHandledTaskCount(); got != 3 {
		t.Errorf("handled = %d, expected 3", got)
	}
	if got := a.GetActiveTaskCount(); got != 0 {
		t.Errorf("active = %d, expected 0", got)
	}
	if a.GetUptime() <= 0 {
		t.Error("uptime should be positive")
	}
}

func TestApplyReloadSwitchesEndpoints(t *testing.T) {
	before := newUpstream(t, http.StatusOK, `{}`)
	after := newUpstream(t, http.StatusOK, `{"data":{"risk":{"score":91,"categories":["scam"]}}}`)

	cfg := &config.Config{
		LinkEndpoint: before.srv.URL + "/link",
		FileEndpoint: before.srv.URL + "/file",
		Agent:        config.Agent{Name: "nc-agent"},
	}
	app := &App{cfg: cfg, client: checker.New(cfg.Endpoints())}
	info := app.agentInfo()
	hs := health.NewServer(0, &info, NewReputationAgent(app.client))

	app.applyReload(&config.Config{LinkEndpoint: after.srv.URL + "/link"}, hs)

	got := app.client.Endpoints()
	if got.Link != after.srv.URL+"/link" {
		t.Errorf("link endpoint = %s", got.Link)
	}
	if got.File != before.srv.URL+"/file" {
		t.Errorf("empty file endpoint should keep %s, got %s", before.srv.URL+"/file", got.File)
	}

	reply, err := NewReputationAgent(app.client).ProcessTask(context.Background(), "link https://example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "Very High (Score: 91)") {
		t.Errorf("task did not use the reloaded endpoint:\n%s", reply)
	}
	if before.Calls() != 0 || after.Calls() != 1 {
		t.Errorf("calls before = %d, after = %d", before.Calls(), after.Calls())
	}

	rec := httptest.NewRecorder()
	hs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/info", nil))
	var advertised health.AgentInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &advertised); err != nil {
		t.Fatal(err)
	}
	if advertised.LinkEndpoint != after.srv.URL+"/link" || advertised.Name != "nc-agent" {
		t.Errorf("health info not refreshed: %+v", advertised)
	}
}
