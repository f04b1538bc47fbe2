package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fiado-ledger/internal/ai"
	"fiado-ledger/internal/core"

	"github.com/openai/openai-go/option"
	"github.com/shopspring/decimal"
)

// fakeResponses serves the Responses API with a single output_text message.
func fakeResponses(t *testing.T, status int, text string, calls *int32, lastBody *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/responses") {
			http.NotFound(w, r)
			return
		}
		if lastBody != nil {
			b, _ := io.ReadAll(r.Body)
			*lastBody = string(b)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":         "resp_1",
			"object":     "response",
			"created_at": 1700000000,
			"model":      ai.DefaultModel,
			"status":     "completed",
			"output": []any{map[string]any{
				"type":   "message",
				"id":     "msg_1",
				"role":   "assistant",
				"status": "completed",
				"content": []any{map[string]any{
					"type":        "output_text",
					"text":        text,
					"annotations": []any{},
				}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestParseTone(t *testing.T) {
	tests := []struct {
		in      string
		want    ai.Tone
		wantErr bool
	}{
		{"", ai.TonePolite, false},
		{"FIRM", ai.ToneFirm, false},
		{" funny ", ai.ToneFunny, false},
		{"angry", "", true},
	}
	for _, tt := range tests {
		got, err := ai.ParseTone(tt.in)
		if tt.wantErr {
			if !errors.Is(err, core.ErrInvalidTone) {
				t.Errorf("ParseTone(%q) err = %v, want ErrInvalidTone", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTone(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestAgent_Reminder(t *testing.T) {
	var calls int32
	var body string
	srv := fakeResponses(t, http.StatusOK, "  Oi José, passa aqui pra acertar os R$ 42,00!  ", &calls, &body)
	defer srv.Close()

	agent := ai.NewAgent("test-key", "", option.WithBaseURL(srv.URL))
	got := agent.Reminder(context.Background(), ai.ReminderRequest{
		DebtorName: "José",
		TotalDebt:  decimal.RequireFromString("42"),
		Tone:       ai.ToneFirm,
	})

	if got != "Oi José, passa aqui pra acertar os R$ 42,00!" {
		t.Errorf("Reminder = %q", got)
	}
	if !strings.Contains(body, "José") || !strings.Contains(body, "42,00") {
		t.Errorf("prompt missing debtor data: %s", body)
	}
}

func TestAgent_ReminderFallbackWithoutRetry(t *testing.T) {
	var calls int32
	srv := fakeResponses(t, http.StatusInternalServerError, "", &calls, nil)
	defer srv.Close()

	agent := ai.NewAgent("test-key", "", option.WithBaseURL(srv.URL))
	got := agent.Reminder(context.Background(), ai.ReminderRequest{DebtorName: "José", Tone: ai.TonePolite})

	if got != ai.ReminderFailedText {
		t.Errorf("Reminder = %q, want fallback", got)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}
}

func TestAgent_ReminderEmpty(t *testing.T) {
	var calls int32
	srv := fakeResponses(t, http.StatusOK, "   ", &calls, nil)
	defer srv.Close()

	agent := ai.NewAgent("test-key", "", option.WithBaseURL(srv.URL))
	if got := agent.Reminder(context.Background(), ai.ReminderRequest{DebtorName: "José"}); got != ai.ReminderEmptyText {
		t.Errorf("Reminder = %q, want %q", got, ai.ReminderEmptyText)
	}
}

func TestAgent_Analyze(t *testing.T) {
	var calls int32
	var body string
	srv := fakeResponses(t, http.StatusOK, `{"summary":"Paga sempre no fim do mês.","extend_credit":true}`, &calls, &body)
	defer srv.Close()

	agent := ai.NewAgent("test-key", "", option.WithBaseURL(srv.URL))
	got := agent.Analyze(context.Background(), ai.AnalysisRequest{
		DebtorName: "Maria",
		Debts:      []ai.HistoryEntry{{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("12.5")}},
	})

	if got.Text != "Paga sempre no fim do mês." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.ExtendCredit == nil || !*got.ExtendCredit {
		t.Errorf("ExtendCredit = %v, want true", got.ExtendCredit)
	}
	for _, want := range []string{"debtor_assessment", "05/03/2024", "12,50", "Nenhum pagamento recente"} {
		if !strings.Contains(body, want) {
			t.Errorf("request body missing %q", want)
		}
	}
}

func TestAgent_AnalyzeFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		text   string
		want   string
	}{
		{"transport error", http.StatusBadGateway, "", ai.AnalysisFailedText},
		{"not json", http.StatusOK, "not json", ai.AnalysisFailedText},
		{"empty summary", http.StatusOK, `{"summary":"","extend_credit":false}`, ai.AnalysisEmptyText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := fakeResponses(t, tt.status, tt.text, &calls, nil)
			defer srv.Close()

			agent := ai.NewAgent("test-key", "", option.WithBaseURL(srv.URL))
			got := agent.Analyze(context.Background(), ai.AnalysisRequest{DebtorName: "Maria"})
			if got.Text != tt.want || got.ExtendCredit != nil {
				t.Errorf("Analyze = %+v, want text %q and no recommendation", got, tt.want)
			}
		})
	}
}

func TestAgent_MissingKeyNeverCallsOut(t *testing.T) {
	var calls int32
	srv := fakeResponses(t, http.StatusOK, "hi", &calls, nil)
	defer srv.Close()

	agent := ai.NewAgent("", "", option.WithBaseURL(srv.URL))
	if got := agent.Reminder(context.Background(), ai.ReminderRequest{DebtorName: "José"}); got != ai.ReminderFailedText {
		t.Errorf("Reminder = %q, want fallback", got)
	}
	if calls != 0 {
		t.Errorf("expected no request without API key, got %d", calls)
	}
}
