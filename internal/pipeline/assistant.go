// Package pipeline orchestrates the session state, the fact-check client,
// and the chat client. Every user action maps to one Handle call: validation
// happens before any network effect, and session state is mutated only after
// the effect succeeds, so a failure leaves prior state unchanged.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkarpov/truthshield/internal/factcheck"
	"github.com/dkarpov/truthshield/internal/llm"
	"github.com/dkarpov/truthshield/internal/model"
	"github.com/dkarpov/truthshield/internal/session"
)

const (
	chatTemperature = 0.7

	// chatSearchPageSize bounds the fact-check context of one chat turn.
	chatSearchPageSize = 5
)

// Event is one user interaction.
type Event interface{ isEvent() }

// SearchSubmitted starts a fresh search for a query.
type SearchSubmitted struct{ Query string }

// NextPageRequested advances the forward pagination walk.
type NextPageRequested struct{}

// PrevPageRequested returns to the previous page using the retained trail.
type PrevPageRequested struct{}

// LanguageSelected switches the result language and restarts pagination.
type LanguageSelected struct{ Code string }

// MessageSubmitted sends one chat message.
type MessageSubmitted struct{ Text string }

// ChatCleared resets the conversation.
type ChatCleared struct{}

func (SearchSubmitted) isEvent()   {}
func (NextPageRequested) isEvent() {}
func (PrevPageRequested) isEvent() {}
func (LanguageSelected) isEvent()  {}
func (MessageSubmitted) isEvent()  {}
func (ChatCleared) isEvent()       {}

// Outcome is the user-visible result of one handled event. An empty result
// set and a failure are never conflated: failures surface as errors from
// Handle, an Outcome always describes a successful pass.
type Outcome struct {
	Records  []model.FactCheckRecord
	HasNext  bool
	HasPrev  bool
	Reply    *model.ChatMessage
	Notice   string
	Warnings []string
}

// Assistant wires the clients to per-session state. The chat provider may be
// nil, which disables the chat feature but not search.
type Assistant struct {
	searcher  factcheck.Searcher
	chat      llm.Provider
	extractor *llm.TopicExtractor
}

// NewAssistant creates the orchestrator. chat may be nil.
func NewAssistant(searcher factcheck.Searcher, chat llm.Provider, extractionModel string) *Assistant {
	a := &Assistant{
		searcher: searcher,
		chat:     chat,
	}
	if chat != nil {
		a.extractor = llm.NewTopicExtractor(chat, extractionModel)
	}
	return a
}

// Handle runs one event against the session.
func (a *Assistant) Handle(ctx context.Context, s *session.Store, ev Event) (*Outcome, error) {
	switch ev := ev.(type) {
	case SearchSubmitted:
		return a.handleSearch(ctx, s, ev.Query)
	case NextPageRequested:
		return a.handleNextPage(ctx, s)
	case PrevPageRequested:
		return a.handlePrevPage(ctx, s)
	case LanguageSelected:
		return a.handleLanguage(ctx, s, ev.Code)
	case MessageSubmitted:
		return a.handleMessage(ctx, s, ev.Text)
	case ChatCleared:
		s.ClearChat()
		return &Outcome{Notice: "conversation cleared"}, nil
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}
}

func (a *Assistant) handleSearch(ctx context.Context, s *session.Store, query string) (*Outcome, error) {
	query = strings.TrimSpace(query)
	state := s.SearchState()

	page, err := a.searcher.Search(ctx, factcheck.SearchRequest{
		Query:    query,
		Language: state.Language,
		PageSize: state.PageSize,
	})
	if err != nil {
		return nil, err
	}

	s.ResetQuery(query)
	s.SetNextToken(page.NextPageToken)

	return &Outcome{
		Records: page.Records,
		HasNext: s.HasNext(),
	}, nil
}

func (a *Assistant) handleNextPage(ctx context.Context, s *session.Store) (*Outcome, error) {
	token, ok := s.NextToken()
	if !ok {
		return &Outcome{Notice: "no more pages"}, nil
	}

	state := s.SearchState()
	page, err := a.searcher.Search(ctx, factcheck.SearchRequest{
		Query:     state.Query,
		Language:  state.Language,
		PageSize:  state.PageSize,
		PageToken: token,
	})
	if err != nil {
		return nil, err
	}

	s.Advance()
	s.SetNextToken(page.NextPageToken)

	return &Outcome{
		Records: page.Records,
		HasNext: s.HasNext(),
		HasPrev: true,
	}, nil
}

func (a *Assistant) handlePrevPage(ctx context.Context, s *session.Store) (*Outcome, error) {
	token, ok := s.PrevToken()
	if !ok {
		return &Outcome{Notice: "already on the first page"}, nil
	}

	state := s.SearchState()
	page, err := a.searcher.Search(ctx, factcheck.SearchRequest{
		Query:     state.Query,
		Language:  state.Language,
		PageSize:  state.PageSize,
		PageToken: token,
	})
	if err != nil {
		return nil, err
	}

	s.Back()
	s.SetNextToken(page.NextPageToken)

	_, hasPrev := s.PrevToken()
	return &Outcome{
		Records: page.Records,
		HasNext: s.HasNext(),
		HasPrev: hasPrev,
	}, nil
}

func (a *Assistant) handleLanguage(ctx context.Context, s *session.Store, code string) (*Outcome, error) {
	state := s.SearchState()

	// No active query: nothing to refetch, just switch.
	if strings.TrimSpace(state.Query) == "" {
		s.SetLanguage(code)
		return &Outcome{Notice: fmt.Sprintf("language set to %s", code)}, nil
	}

	page, err := a.searcher.Search(ctx, factcheck.SearchRequest{
		Query:    state.Query,
		Language: code,
		PageSize: state.PageSize,
	})
	if err != nil {
		return nil, err
	}

	s.SetLanguage(code)
	s.SetNextToken(page.NextPageToken)

	return &Outcome{
		Records: page.Records,
		HasNext: s.HasNext(),
	}, nil
}

// handleMessage runs one chat turn: extract the checkable topic, gather
// fact-check context for it, and complete with the full conversation. The
// user and assistant messages are appended only after the completion
// succeeds.
func (a *Assistant) handleMessage(ctx context.Context, s *session.Store, text string) (*Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &model.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if a.chat == nil {
		return nil, &model.ConfigError{Feature: "chat", Reason: "no chat provider configured"}
	}

	factCheckContext := llm.DefaultContext
	var warnings []string
	var records []model.FactCheckRecord

	topic, found, err := a.extractor.Extract(ctx, text)
	if err != nil {
		// The turn is still useful without a topic; record why.
		warnings = append(warnings, fmt.Sprintf("topic extraction failed: %v", err))
		found = false
	}

	if found {
		page, err := a.searcher.Search(ctx, factcheck.SearchRequest{
			Query:    topic,
			Language: s.SearchState().Language,
			PageSize: chatSearchPageSize,
		})
		switch {
		case err != nil:
			factCheckContext = llm.SearchFailedContext(topic, err)
			warnings = append(warnings, fmt.Sprintf("fact-check lookup failed: %v", err))
		case len(page.Records) == 0:
			factCheckContext = llm.NoResultsContext(topic)
		default:
			records = page.Records
			factCheckContext = llm.FormatRecords(records)
		}
	}

	userMsg := model.NewMessage(model.RoleUser, text)
	messages := s.Conversation()
	if len(messages) > 0 && messages[0].Role == model.RoleSystem {
		// Per-turn snapshot: the session keeps the base system message.
		messages[0].Text = llm.BuildSystemPrompt(text, factCheckContext)
	} else {
		messages = append([]model.ChatMessage{model.NewMessage(model.RoleSystem, llm.BuildSystemPrompt(text, factCheckContext))}, messages...)
	}
	messages = append(messages, userMsg)

	reply, err := a.chat.Complete(ctx, llm.CompletionRequest{
		Messages:    messages,
		Temperature: chatTemperature,
	})
	if err != nil {
		return nil, err
	}

	s.AppendMessage(userMsg)
	s.AppendMessage(*reply)

	return &Outcome{
		Reply:    reply,
		Records:  records,
		Warnings: warnings,
	}, nil
}
