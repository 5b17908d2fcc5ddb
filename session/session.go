package session

import (
	"sync"
)

// MaxLogLines caps the per-session log buffer to the most recent lines.
const MaxLogLines = 100

// Session is the state of one interactive user session: sticky API keys,
// the last generated article and a bounded log buffer. Keys live only here,
// in memory, and are never written to durable storage.
type Session struct {
	ID string

	mu          sync.Mutex
	geminiKey   string
	linkedinKey string
	article     string
	logs        []string
}

// SetGeminiKey stores the generation-service key. Empty input keeps the
// previously stored key so a key pasted once survives later actions.
func (s *Session) SetGeminiKey(key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geminiKey = key
}

func (s *Session) GeminiKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geminiKey
}

// SetLinkedInKey stores the platform bearer token, same stickiness rule as
// SetGeminiKey.
func (s *Session) SetLinkedInKey(key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linkedinKey = key
}

func (s *Session) LinkedInKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linkedinKey
}

// SetArticle overwrites the session-held article. Every generate action
// lands here, whatever path produced the text.
func (s *Session) SetArticle(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.article = text
}

func (s *Session) Article() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.article
}

// AppendLog records one human-readable log line, keeping only the most
// recent MaxLogLines.
func (s *Session) AppendLog(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, line)
	if len(s.logs) > MaxLogLines {
		s.logs = s.logs[len(s.logs)-MaxLogLines:]
	}
}

// Logs returns a copy of the retained log lines, oldest first.
func (s *Session) Logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.logs))
	copy(out, s.logs)
	return out
}
