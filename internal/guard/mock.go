package guard

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
)

// Responder produces a synthetic response for a matched request.
// Implementations may be static values or functions of the request,
// enabling stateful or parameterized mocks.
type Responder interface {
	// Respond returns the synthetic response for the request.
	Respond(request *Request) *Response
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(request *Request) *Response

// Respond invokes the wrapped function.
func (f ResponderFunc) Respond(request *Request) *Response {
	return f(request)
}

// staticResponder returns the same response for every matched request.
type staticResponder struct {
	response *Response
}

// StaticResponder wraps a fixed response as a Responder.
func StaticResponder(response *Response) Responder {
	return &staticResponder{response: response}
}

// Respond returns the stored response.
func (r *staticResponder) Respond(_ *Request) *Response {
	return r.response
}

// MockRule pairs a request matcher with a responder.
// A rule matches when its URL matcher tests true against the request URL
// and its method filter is absent or equals the request method,
// compared case-insensitively.
type MockRule struct {
	// URL is the substring to look for in the request URL,
	// or a regular expression when Regexp is true.
	URL string
	// Regexp interprets URL as a regular expression.
	Regexp bool
	// Method restricts the rule to one HTTP method. Empty matches any method.
	Method string
	// Responder synthesizes the response for matched requests.
	Responder Responder
}

// mockRuleEntry is a registered rule with its pre-compiled URL pattern.
type mockRuleEntry struct {
	rule    MockRule
	pattern *regexp.Regexp
}

// mockMatcher holds the ordered list of registered mock rules.
type mockMatcher struct {
	mu    sync.RWMutex
	rules []mockRuleEntry
}

// newMockMatcher creates an empty matcher.
func newMockMatcher() *mockMatcher {
	return &mockMatcher{}
}

// add validates and registers a rule at the end of the list.
// Regular expression patterns are compiled once here.
func (m *mockMatcher) add(rule MockRule) error {
	if rule.URL == "" {
		return ErrEmptyMockURL
	}

	if rule.Responder == nil {
		return ErrNilResponder
	}

	entry := mockRuleEntry{rule: rule}

	if rule.Regexp {
		pattern, err := regexp.Compile(rule.URL)
		if err != nil {
			return fmt.Errorf("failed to compile mock rule pattern: %w", err)
		}

		entry.pattern = pattern
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.rules = append(m.rules, entry)

	return nil
}

// clear removes all registered rules.
func (m *mockMatcher) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rules = nil
}

// match checks the rules in registration order and synthesizes a response
// from the first rule that matches. It returns nil when no rule matches.
// No further rules are evaluated after the first match, even when its
// responder declines by returning nil.
func (m *mockMatcher) match(request *Request) *Response {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, entry := range m.rules {
		if !entry.matches(request) {
			continue
		}

		response := entry.rule.Responder.Respond(request)
		if response == nil {
			return nil
		}

		mocked := response.Clone()
		mocked.Source = SourceMock

		if mocked.StatusText == "" {
			mocked.StatusText = http.StatusText(mocked.Status)
		}

		return mocked
	}

	return nil
}

// matches reports whether the entry matches the request.
func (e *mockRuleEntry) matches(request *Request) bool {
	if e.rule.Method != "" && !strings.EqualFold(e.rule.Method, request.Method) {
		return false
	}

	if e.pattern != nil {
		return e.pattern.MatchString(request.URL)
	}

	return strings.Contains(request.URL, e.rule.URL)
}
