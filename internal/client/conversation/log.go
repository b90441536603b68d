// Package conversation holds the append-only conversation log. The session
// writes to it; views subscribe to appends and may read a snapshot.
package conversation

import (
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

// Listener is called synchronously for each appended entry, in append order.
type Listener func(models.LogEntry)

// Log is safe for concurrent use.
type Log struct {
	// deliver serialises notification so listeners see appends in order.
	deliver sync.Mutex

	mu        sync.Mutex
	entries   []models.LogEntry
	listeners []Listener
}

func NewLog() *Log {
	return &Log{}
}

// Subscribe registers fn for future appends.
func (l *Log) Subscribe(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Append stores e and notifies listeners. Listeners may read the log but
// must not append to it.
func (l *Log) Append(e models.LogEntry) {
	l.deliver.Lock()
	defer l.deliver.Unlock()

	l.mu.Lock()
	l.entries = append(l.entries, e)
	listeners := append([]Listener(nil), l.listeners...)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(e)
	}
}

// Entries returns a copy of everything appended so far.
func (l *Log) Entries() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.LogEntry(nil), l.entries...)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
