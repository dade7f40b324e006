package notifier

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"MarketSignal/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Symbol: "AAPL",
		Snapshot: &model.Snapshot{
			Time:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Close:      model.Float(101.5),
			SMA:        model.Float(100),
			EMA:        model.Float(100.25),
			MACDLine:   model.Float(0.5),
			MACDSignal: model.Float(0.25),
			MACDHist:   model.Float(0.25),
			RSI:        model.Saturate(100),
			StochK:     model.Float(80),
			StochD:     model.Float(70),
		},
		Signal: &model.TradeSignal{
			Votes: []model.RuleVote{
				{Name: "MACD vs signal", Vote: 1, Weight: 1, Weighted: 1, Commentary: "line/signal: 0.50 > 0.25"},
				{Name: "RSI 30/70", Vote: -1, Weight: 2, Weighted: -2, Commentary: "RSI=100.0 overbought"},
			},
			Total:   -1,
			Verdict: model.Neutral,
		},
	}
}

func TestFormatReport(t *testing.T) {
	text := FormatReport(sampleReport())
	for _, want := range []string{
		"AAPL | 2024-05-01",
		"Close: 101.50",
		"RSI: 100.00 (saturated)",
		"Bollinger: n/a / n/a / n/a",
		"Williams %R: n/a",
		"MACD vs signal: +1",
		"RSI 30/70: -1 (x2 = -2)",
		"Total: -1",
		"⚪ Verdict: NEUTRAL",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(&buf)
	if err := n.Send(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Send(ctx, "late"); err == nil {
		t.Error("expected error on cancelled context")
	}
}

type fakeTelegram struct {
	mu       sync.Mutex
	failures int
	texts    []string
	chatIDs  []string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if f.failures > 0 {
			f.failures--
			w.Write([]byte(`{"ok":false,"error_code":500,"description":"internal"}`))
			return
		}
		r.ParseForm()
		f.texts = append(f.texts, r.Form.Get("text"))
		f.chatIDs = append(f.chatIDs, r.Form.Get("chat_id"))
		w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	default:
		http.NotFound(w, r)
	}
}

func newFakeNotifier(t *testing.T, fake *fakeTelegram) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	n, err := newTelegramNotifier("token", srv.URL+"/bot%s/%s", 42, srv.Client())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	n.Backoff = time.Millisecond
	return n
}

func TestTelegramNotifier_Send(t *testing.T) {
	fake := &fakeTelegram{}
	n := newFakeNotifier(t, fake)
	if err := n.Send(context.Background(), "signal"); err != nil {
		t.Fatal(err)
	}
	if len(fake.texts) != 1 || fake.texts[0] != "signal" || fake.chatIDs[0] != "42" {
		t.Errorf("unexpected delivery %v %v", fake.texts, fake.chatIDs)
	}
}

func TestTelegramNotifier_RetriesThenSucceeds(t *testing.T) {
	fake := &fakeTelegram{failures: 2}
	n := newFakeNotifier(t, fake)
	if err := n.SendWithRetry(context.Background(), "retry", 3); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(fake.texts) != 1 {
		t.Errorf("expected exactly one delivery, got %d", len(fake.texts))
	}
}

func TestTelegramNotifier_GivesUp(t *testing.T) {
	fake := &fakeTelegram{failures: 10}
	n := newFakeNotifier(t, fake)
	err := n.SendWithRetry(context.Background(), "never", 2)
	if err == nil || !strings.Contains(err.Error(), "3 attempts") {
		t.Errorf("expected exhaustion error, got %v", err)
	}
	if fake.failures != 7 {
		t.Errorf("expected 3 attempts, server saw %d", 10-fake.failures)
	}
}

type failing struct{}

func (failing) Send(context.Context, string) error { return context.DeadlineExceeded }

func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	m := Multi{failing{}, NewConsoleNotifier(&buf)}
	if err := m.Send(context.Background(), "x"); err != context.DeadlineExceeded {
		t.Errorf("expected first error, got %v", err)
	}
	if buf.String() != "x\n" {
		t.Error("later notifiers must still receive the message")
	}
}
