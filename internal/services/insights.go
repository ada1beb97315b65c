package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitriyshad-AI/astro-bot/internal/astro"
	"github.com/dmitriyshad-AI/astro-bot/internal/clients/openai"
	"github.com/dmitriyshad-AI/astro-bot/internal/data/repos"
	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/apperr"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/dbctx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

const (
	historyFetchLimit = 20
	historyTakeRecent = 3
)

type InsightsOut struct {
	ChartID  uuid.UUID `json:"chart_id"`
	Insights string    `json:"insights"`
}

type AskHistoryItem struct {
	Question  string    `json:"question"`
	Answer    *string   `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type AskOut struct {
	MessageID uuid.UUID        `json:"message_id"`
	Question  string           `json:"question"`
	Answer    *string          `json:"answer"`
	History   []AskHistoryItem `json:"history"`
}

// InsightsService serves chart readings and the per-chart question thread.
type InsightsService interface {
	Insights(ctx context.Context, chartID uuid.UUID) (*InsightsOut, error)
	Ask(ctx context.Context, chartID uuid.UUID, question string) (*AskOut, error)
	History(ctx context.Context, chartID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

type insightsService struct {
	log       *logger.Logger
	chartRepo repos.ChartRepo
	chatRepo  repos.ChatMessageRepo
	llm       openai.Client
}

func NewInsightsService(log *logger.Logger, chartRepo repos.ChartRepo, chatRepo repos.ChatMessageRepo, llm openai.Client) InsightsService {
	return &insightsService{
		log:       log.With("service", "InsightsService"),
		chartRepo: chartRepo,
		chatRepo:  chatRepo,
		llm:       llm,
	}
}

// Insights generates a fresh reading for the chart on demand. The generated
// text is also attached to the chart record so recent-chart listings and plain
// chart reads carry the latest reading.
func (s *insightsService) Insights(ctx context.Context, chartID uuid.UUID) (*InsightsOut, error) {
	if s.llm == nil || !s.llm.Configured() {
		return nil, apperr.New(apperr.CodeServerMisconfigured, "OPENAI_API_KEY not set")
	}
	chart, err := s.loadChart(ctx, chartID)
	if err != nil {
		return nil, err
	}

	text, err := s.llm.Ask(ctx, insightsPrompt(s.chartContext(chart)), "астролог")
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "insight generation failed", err)
	}
	if err := s.chartRepo.SetLLMSummary(dbctx.From(ctx), chart.ID, text); err != nil {
		s.log.Warn("persisting generated insights failed", "chart_id", chart.ID, "error", err)
	}
	return &InsightsOut{ChartID: chart.ID, Insights: text}, nil
}

// chartContext builds the model-facing chart facts, falling back to the stored
// summary when the payload cannot be rendered.
func (s *insightsService) chartContext(chart *domain.Chart) string {
	if chartContext := astro.BuildContext(chart.Payload); chartContext != "" {
		return chartContext
	}
	if chart.Summary != "" {
		return chart.Summary
	}
	return "Натальная карта"
}

func insightsPrompt(contextText string) string {
	return "Ты профессиональный астролог. Дай 5-7 кратких инсайтов на основе натальной карты. " +
		"Не выдумывай позиции; опирайся только на данные ниже. Для каждого инсайта укажи, на чём он основан.\n\n" +
		contextText
}

// Ask answers a free-form question grounded in the chart's stored payload.
// The question is persisted even when the language model fails, so the thread
// keeps a record of what was asked.
func (s *insightsService) Ask(ctx context.Context, chartID uuid.UUID, question string) (*AskOut, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperr.New(apperr.CodeMissingField, "question must not be empty")
	}
	chart, err := s.loadChart(ctx, chartID)
	if err != nil {
		return nil, err
	}

	var answer *string
	if s.llm != nil && s.llm.Configured() {
		prompt := s.buildPrompt(ctx, chart, question)
		text, askErr := s.llm.Ask(ctx, prompt, "астролог")
		if askErr != nil {
			s.log.Warn("chat answer generation failed", "chart_id", chartID, "error", askErr)
		} else {
			answer = &text
		}
	}

	msg := &domain.ChatMessage{
		ChartID:  chart.ID,
		Question: question,
		Answer:   answer,
	}
	if err := s.chatRepo.Append(dbctx.From(ctx), msg); err != nil {
		s.log.Warn("persisting chat message failed", "chart_id", chartID, "error", err)
	}
	return &AskOut{
		MessageID: msg.ID,
		Question:  question,
		Answer:    answer,
		History:   s.recentHistory(ctx, chart.ID),
	}, nil
}

// recentHistory returns the newest exchanges re-ordered oldest-first for
// display, including the one just appended.
func (s *insightsService) recentHistory(ctx context.Context, chartID uuid.UUID) []AskHistoryItem {
	recent, err := s.chatRepo.ListRecent(dbctx.From(ctx), chartID, historyFetchLimit)
	if err != nil {
		s.log.Warn("loading chat history failed", "chart_id", chartID, "error", err)
		return nil
	}
	if len(recent) > historyTakeRecent {
		recent = recent[:historyTakeRecent]
	}
	out := make([]AskHistoryItem, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		out = append(out, AskHistoryItem{
			Question:  recent[i].Question,
			Answer:    recent[i].Answer,
			CreatedAt: recent[i].CreatedAt,
		})
	}
	return out
}

func (s *insightsService) History(ctx context.Context, chartID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if _, err := s.loadChart(ctx, chartID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListRecent(dbctx.From(ctx), chartID, limit)
}

func (s *insightsService) loadChart(ctx context.Context, chartID uuid.UUID) (*domain.Chart, error) {
	chart, err := s.chartRepo.GetByID(dbctx.From(ctx), chartID)
	if err != nil {
		return nil, err
	}
	if chart == nil {
		return nil, apperr.New(apperr.CodeNotFound, "chart not found")
	}
	return chart, nil
}

// buildPrompt assembles the model input: chart facts, then the last few
// answered exchanges oldest-first, then the new question.
func (s *insightsService) buildPrompt(ctx context.Context, chart *domain.Chart, question string) string {
	var b strings.Builder
	b.WriteString(s.chartContext(chart))
	b.WriteString("\n\n")

	recent, err := s.chatRepo.ListRecent(dbctx.From(ctx), chart.ID, historyFetchLimit)
	if err != nil {
		s.log.Warn("loading chat history failed, answering without it", "chart_id", chart.ID, "error", err)
		recent = nil
	}
	answered := make([]*domain.ChatMessage, 0, historyTakeRecent)
	for _, m := range recent {
		if m.Answer == nil {
			continue
		}
		answered = append(answered, m)
		if len(answered) == historyTakeRecent {
			break
		}
	}
	if len(answered) > 0 {
		b.WriteString("Предыдущий диалог:\n")
		for i := len(answered) - 1; i >= 0; i-- {
			fmt.Fprintf(&b, "Вопрос: %s\nОтвет: %s\n", answered[i].Question, *answered[i].Answer)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Вопрос пользователя: %s\n", question)
	b.WriteString("Отвечай кратко и по делу, опираясь только на факты карты выше.")
	return b.String()
}
