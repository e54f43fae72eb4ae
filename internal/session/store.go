// Package session holds per-session mutable state: the current search, the
// pagination trail, and the conversation. A Store is owned by a single
// goroutine (one event at a time, matching the one-interaction-per-pass
// execution model), so it carries no locks.
package session

import (
	"github.com/dkarpov/truthshield/internal/llm"
	"github.com/dkarpov/truthshield/internal/model"
)

// SearchState is the current search position. It is mutated only by
// search-submit and pagination actions and reset when a new query arrives.
type SearchState struct {
	Query     string
	Language  string
	PageSize  int
	PageToken string // opaque cursor of the page being shown ("" = first page)
}

// Store is the state for one session. SearchState and the conversation are
// independent: a search never mutates the conversation and vice versa.
type Store struct {
	search SearchState

	// trail holds the token of every page visited in order, seeded with the
	// first-page sentinel. The upstream API cannot seek backwards, so
	// previous-page replays a retained token.
	trail []string

	// next is the token for the page after the current one, "" when the
	// forward walk is exhausted.
	next string

	conversation []model.ChatMessage
}

// New creates a session store with the given defaults. The conversation is
// seeded with the base system message.
func New(language string, pageSize int) *Store {
	return &Store{
		search: SearchState{
			Language: language,
			PageSize: pageSize,
		},
		trail:        []string{""},
		conversation: []model.ChatMessage{model.NewMessage(model.RoleSystem, llm.BaseSystemPrompt)},
	}
}

// SearchState returns the current search state.
func (s *Store) SearchState() SearchState {
	return s.search
}

// SetSearchState replaces the search state wholesale.
func (s *Store) SetSearchState(state SearchState) {
	s.search = state
}

// ResetQuery starts a fresh forward walk for a new query.
func (s *Store) ResetQuery(query string) {
	s.search.Query = query
	s.search.PageToken = ""
	s.trail = []string{""}
	s.next = ""
}

// SetNextToken records the continuation token of the page just fetched.
func (s *Store) SetNextToken(token string) {
	s.next = token
}

// HasNext reports whether the forward walk can continue.
func (s *Store) HasNext() bool {
	return s.next != ""
}

// NextToken returns the retained continuation token, false when exhausted.
func (s *Store) NextToken() (string, bool) {
	return s.next, s.next != ""
}

// PrevToken returns the token of the page before the current one, false on
// the first page.
func (s *Store) PrevToken() (string, bool) {
	if len(s.trail) <= 1 {
		return "", false
	}
	return s.trail[len(s.trail)-2], true
}

// Advance moves to the next page using the retained token. Returns false
// when there is no next page.
func (s *Store) Advance() bool {
	if s.next == "" {
		return false
	}
	s.trail = append(s.trail, s.next)
	s.search.PageToken = s.next
	s.next = ""
	return true
}

// Back moves to the previous page. It is a no-op returning false on the
// first page, because the trail is the only way backwards.
func (s *Store) Back() bool {
	if len(s.trail) <= 1 {
		return false
	}
	s.trail = s.trail[:len(s.trail)-1]
	s.search.PageToken = s.trail[len(s.trail)-1]
	s.next = ""
	return true
}

// SetLanguage selects the result language and resets pagination, since page
// tokens are only valid for the parameters that produced them.
func (s *Store) SetLanguage(code string) {
	s.search.Language = code
	s.search.PageToken = ""
	s.trail = []string{""}
	s.next = ""
}

// AppendMessage appends one message to the conversation.
func (s *Store) AppendMessage(msg model.ChatMessage) {
	s.conversation = append(s.conversation, msg)
}

// Conversation returns a snapshot copy of the ordered message sequence.
func (s *Store) Conversation() []model.ChatMessage {
	out := make([]model.ChatMessage, len(s.conversation))
	copy(out, s.conversation)
	return out
}

// ClearChat resets the conversation to the base system message. Search state
// is untouched.
func (s *Store) ClearChat() {
	s.conversation = []model.ChatMessage{model.NewMessage(model.RoleSystem, llm.BaseSystemPrompt)}
}
