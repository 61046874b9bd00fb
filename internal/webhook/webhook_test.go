package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"serverprobe/internal/config"
	"serverprobe/internal/report"
)

func TestSend(t *testing.T) {
	type request struct {
		method, header string
		payload        Payload
	}
	received := make(chan request, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{method: r.Method, header: r.Header.Get("X-Token")}
		if err := json.NewDecoder(r.Body).Decode(&req.payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		received <- req
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(&config.WebhookConfig{
		URL:     server.URL,
		Method:  http.MethodPut,
		Headers: map[string]string{"X-Token": "secret"},
		Timeout: 5,
	})

	entries := []report.Entry{{Rank: 1, Target: "good.example", AvgLatency: 10, MinLatency: 9, LossRate: 0}}
	if err := client.Send(context.Background(), NewPayload(2, entries, 1500*time.Millisecond)); err != nil {
		t.Fatal(err)
	}

	req := <-received
	got := req.payload
	if req.method != http.MethodPut || req.header != "secret" {
		t.Errorf("method=%s header=%s", req.method, req.header)
	}
	if got.Event != EventProbeReport || got.Total != 2 || got.Reachable != 1 || got.ElapsedMs != 1500 {
		t.Errorf("unexpected payload %+v", got)
	}
	if len(got.Ranked) != 1 || got.Ranked[0].Target != "good.example" {
		t.Errorf("ranked = %+v", got.Ranked)
	}
	if !strings.Contains(got.Message, "good.example") {
		t.Errorf("message = %s", got.Message)
	}
}

func TestSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(&config.WebhookConfig{URL: server.URL})
	if err := client.Send(context.Background(), NewPayload(1, nil, 0)); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestSendWithoutURL(t *testing.T) {
	client := NewClient(&config.WebhookConfig{})
	if err := client.Send(context.Background(), NewPayload(0, nil, 0)); err != nil {
		t.Fatalf("missing URL should be a no-op, got %v", err)
	}
}

func TestNewPayloadEmpty(t *testing.T) {
	p := NewPayload(3, nil, time.Second)
	if p.Reachable != 0 || p.Ranked == nil || !strings.Contains(p.Message, "0/3") {
		t.Fatalf("unexpected payload %+v", p)
	}
}
