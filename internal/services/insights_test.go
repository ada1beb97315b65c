package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
)

type insightsFixture struct {
	svc    InsightsService
	charts *fakeChartRepo
	chat   *fakeChatRepo
	llm    *fakeLLM
}

func newInsightsFixture(t *testing.T) (*insightsFixture, uuid.UUID) {
	t.Helper()
	charts := &fakeChartRepo{}
	chat := &fakeChatRepo{}
	llm := &fakeLLM{configured: true, answer: "Ответ астролога."}

	payload, err := json.Marshal(domain.ChartPayload{
		Subject: map[string]domain.PointPlacement{
			"sun": {Name: "Sun", Sign: "Овен", Position: 15.5, House: "First_House"},
		},
		Aspects: []domain.Aspect{{P1: "Sun", P2: "Moon", Aspect: "square", Orbit: 2.0}},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	summary := "Натальная карта\n..."
	chart := &domain.Chart{ProfileID: uuid.New(), Payload: payload, Summary: summary}
	if err := charts.Create(dbctx.Background(), chart); err != nil {
		t.Fatalf("seed chart: %v", err)
	}

	svc := NewInsightsService(testLogger(), charts, chat, llm)
	return &insightsFixture{svc: svc, charts: charts, chat: chat, llm: llm}, chart.ID
}

func TestInsightsGeneratesFromChartContext(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	out, err := f.svc.Insights(context.Background(), chartID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ChartID != chartID || out.Insights != "Ответ астролога." {
		t.Fatalf("unexpected insights: %+v", out)
	}
	if len(f.llm.prompts) != 1 || !strings.Contains(f.llm.prompts[0], "Планеты и точки:") {
		t.Fatal("model prompt must carry the chart context")
	}

	// The generated reading is attached to the chart record.
	chart, err := f.charts.GetByID(dbctx.Background(), chartID)
	if err != nil {
		t.Fatalf("reload chart: %v", err)
	}
	if chart.LLMSummary == nil || *chart.LLMSummary != "Ответ астролога." {
		t.Fatalf("generated insights not attached: %v", chart.LLMSummary)
	}

	if _, err := f.svc.Insights(context.Background(), uuid.New()); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestInsightsRequiresConfiguredModel(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	f.llm.configured = false

	if _, err := f.svc.Insights(context.Background(), chartID); !apperr.IsCode(err, apperr.CodeServerMisconfigured) {
		t.Fatalf("expected server_misconfigured, got %v", err)
	}
	if len(f.llm.prompts) != 0 {
		t.Fatal("unconfigured model must not be asked")
	}
}

func TestInsightsFallsBackToStoredSummary(t *testing.T) {
	t.Parallel()

	charts := &fakeChartRepo{}
	llm := &fakeLLM{configured: true, answer: "Ответ астролога."}
	chart := &domain.Chart{
		ProfileID: uuid.New(),
		Payload:   []byte("{not json"),
		Summary:   "Натальная карта\nДата: 12.03.1990, Время: 08:30",
	}
	if err := charts.Create(dbctx.Background(), chart); err != nil {
		t.Fatalf("seed chart: %v", err)
	}
	svc := NewInsightsService(testLogger(), charts, &fakeChatRepo{}, llm)

	if _, err := svc.Insights(context.Background(), chart.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(llm.prompts) != 1 || !strings.Contains(llm.prompts[0], "Натальная карта\nДата: 12.03.1990") {
		t.Fatal("prompt must fall back to the stored summary")
	}
}

func TestInsightsFailsWhenModelErrors(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	f.llm.err = apperr.New(apperr.CodeInternal, "model down")

	if _, err := f.svc.Insights(context.Background(), chartID); err == nil {
		t.Fatal("model failure must fail insight generation")
	}
}

func TestAskAnswersAndPersists(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	out, err := f.svc.Ask(context.Background(), chartID, "Что меня ждет в карьере?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Answer == nil || *out.Answer != "Ответ астролога." {
		t.Fatalf("unexpected answer: %v", out.Answer)
	}
	if len(f.chat.rows) != 1 || f.chat.rows[0].Answer == nil {
		t.Fatal("exchange not persisted")
	}
	if len(f.llm.prompts) != 1 || !strings.Contains(f.llm.prompts[0], "Планеты и точки:") {
		t.Fatal("prompt must carry the chart context")
	}
	if len(out.History) != 1 || out.History[0].Question != "Что меня ждет в карьере?" {
		t.Fatalf("history must include the new exchange: %+v", out.History)
	}
}

func TestAskReturnsRecentHistoryOldestFirst(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	for i := 1; i <= 3; i++ {
		answer := fmt.Sprintf("ответ %d", i)
		if err := f.chat.Append(dbctx.Background(), &domain.ChatMessage{
			ChartID: chartID, Question: fmt.Sprintf("вопрос %d", i), Answer: &answer,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	out, err := f.svc.Ask(context.Background(), chartID, "новый вопрос")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.History) != 3 {
		t.Fatalf("expected 3 history items, got %d", len(out.History))
	}
	got := []string{out.History[0].Question, out.History[1].Question, out.History[2].Question}
	want := []string{"вопрос 2", "вопрос 3", "новый вопрос"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history order wrong: got %v want %v", got, want)
		}
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	if _, err := f.svc.Ask(context.Background(), chartID, "   "); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Fatalf("expected missing_field, got %v", err)
	}
	if len(f.chat.rows) != 0 {
		t.Fatal("empty question must not be persisted")
	}
}

func TestAskPersistsQuestionOnLLMFailure(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	f.llm.err = apperr.New(apperr.CodeInternal, "model down")

	out, err := f.svc.Ask(context.Background(), chartID, "Вопрос без ответа")
	if err != nil {
		t.Fatalf("llm failure must not fail the request: %v", err)
	}
	if out.Answer != nil {
		t.Fatal("expected nil answer")
	}
	if len(f.chat.rows) != 1 || f.chat.rows[0].Answer != nil {
		t.Fatal("question must be persisted with a nil answer")
	}
}

func TestAskPromptCarriesRecentAnsweredHistory(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	// Seed 5 answered exchanges plus one unanswered.
	for i := 1; i <= 5; i++ {
		answer := fmt.Sprintf("ответ %d", i)
		if err := f.chat.Append(dbctx.Background(), &domain.ChatMessage{
			ChartID: chartID, Question: fmt.Sprintf("вопрос %d", i), Answer: &answer,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := f.chat.Append(dbctx.Background(), &domain.ChatMessage{
		ChartID: chartID, Question: "вопрос без ответа",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := f.svc.Ask(context.Background(), chartID, "новый вопрос"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := f.llm.prompts[0]

	// Only the last three answered exchanges are included, oldest first.
	for _, want := range []string{"вопрос 3", "вопрос 4", "вопрос 5"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	for _, unwanted := range []string{"вопрос 1", "вопрос 2", "вопрос без ответа"} {
		if strings.Contains(prompt, unwanted) {
			t.Fatalf("prompt should not contain %q:\n%s", unwanted, prompt)
		}
	}
	if strings.Index(prompt, "вопрос 3") > strings.Index(prompt, "вопрос 5") {
		t.Fatal("history must be ordered oldest first")
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	f, chartID := newInsightsFixture(t)
	for i := 1; i <= 3; i++ {
		if err := f.chat.Append(dbctx.Background(), &domain.ChatMessage{
			ChartID: chartID, Question: fmt.Sprintf("вопрос %d", i),
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	msgs, err := f.svc.History(context.Background(), chartID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Question != "вопрос 3" || msgs[1].Question != "вопрос 2" {
		t.Fatalf("unexpected history: %+v", msgs)
	}
}
