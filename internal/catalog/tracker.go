package catalog

import "sync"

// Tracker discards results for entities the user has navigated away from.
//
// Begin is called when a detail view is requested and returns a token;
// Current reports whether that token still belongs to the latest request.
// A response is applied only if its token is current.
type Tracker struct {
	mu    sync.Mutex
	seq   uint64
	id    int64
	token uint64
}

// Token identifies one request
type Token struct {
	ID  int64
	seq uint64
}

// Begin records a new request for id, superseding any earlier one
func (t *Tracker) Begin(id int64) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.id = id
	t.token = t.seq
	return Token{ID: id, seq: t.seq}
}

// Current reports whether tok is the latest request
func (t *Tracker) Current(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tok.seq == t.token && tok.ID == t.id
}

// Reset forgets the active request, so every outstanding token goes stale
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.token = 0
	t.id = 0
}
