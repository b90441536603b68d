// Package session runs conversation turns one at a time.
//
// A Session gates re-entrancy (a submit while a turn is in flight is
// ignored), drives the upload-then-chat sequence of a turn and reports its
// progress through two ports: phase listeners and the conversation log. It
// never talks to a view directly.
//
// Lifecycle of a turn:
//
//	Idle --Submit--> Uploading (file present) --> AwaitingReply --> Idle
//	Idle --Submit--> AwaitingReply (text only) --> Idle
//
// The return to Idle is deferred, so it happens on every path, including
// handled failures. There is no timeout and no cancellation beyond the
// caller's context: a hung request keeps the session busy.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/client/services"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/google/uuid"
)

// ErrBusy is returned, without side effects, when a turn is already in flight.
var ErrBusy = errors.New("a turn is already in flight")

// Sink receives log entries. conversation.Log implements it.
type Sink interface {
	Append(entry models.LogEntry)
}

// Chatter performs the chat round-trip. client.Client implements it.
type Chatter interface {
	Chat(ctx context.Context, prompt string) (*models.ChatReply, error)
}

type Option func(*Session)

// WithUploadFailurePolicy sets what a failed upload does to its turn.
// The default is config.UploadFailureDegrade.
func WithUploadFailurePolicy(p config.UploadFailurePolicy) Option {
	return func(s *Session) { s.policy = p }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = l.With("module", "session") }
}

// WithTurnIDs replaces the turn id generator.
func WithTurnIDs(fn func() string) Option {
	return func(s *Session) { s.newTurnID = fn }
}

type Session struct {
	uploader  services.Uploader
	chat      Chatter
	sink      Sink
	logger    logging.Logger
	policy    config.UploadFailurePolicy
	newTurnID func() string

	mu        sync.Mutex
	phase     models.Phase
	listeners []func(models.Phase)
}

func New(uploader services.Uploader, chat Chatter, sink Sink, opts ...Option) *Session {
	s := &Session{
		uploader:  uploader,
		chat:      chat,
		sink:      sink,
		logger:    logging.Nop{},
		policy:    config.UploadFailureDegrade,
		newTurnID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase returns the current phase.
func (s *Session) Phase() models.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// OnPhaseChanged registers fn to be called after every phase transition.
func (s *Session) OnPhaseChanged(fn func(models.Phase)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Submit runs one turn to completion. It returns services.ErrEmptyTurn or
// ErrBusy without any side effect; otherwise it returns nil once the turn
// has settled. Upload and chat failures are reported through the log only.
func (s *Session) Submit(ctx context.Context, turn models.Turn) error {
	if err := services.ValidateTurn(turn); err != nil {
		return err
	}

	first := models.PhaseAwaitingReply
	if s.uploads(turn) {
		first = models.PhaseUploading
	}
	if !s.acquire(first) {
		return ErrBusy
	}
	defer s.setPhase(models.PhaseIdle)

	log := s.logger.With("turn_id", s.newTurnID())
	log.Info(ctx, "turn started", "has_file", turn.Attachment != nil, "phase", first.String())

	var res *models.UploadResult
	if turn.Attachment != nil {
		var ok bool
		res, ok = s.upload(ctx, log, turn.Attachment)
		if !ok && s.policy == config.UploadFailureAbort {
			log.Info(ctx, "turn aborted after failed upload")
			return nil
		}
		s.setPhase(models.PhaseAwaitingReply)
	}

	prompt := services.ComposePrompt(turn.Prompt, res)
	s.sink.Append(models.LogEntry{Role: models.RoleUser, Content: services.EchoText(prompt, turn.Attachment)})
	if res != nil && res.Markdown != "" {
		s.sink.Append(models.LogEntry{Role: models.RoleAssistant, Content: res.Markdown, IsMarkdown: true})
	}

	reply, err := s.chat.Chat(ctx, prompt)
	if err != nil {
		log.Error(ctx, "chat failed", "error", err)
		s.notice("Request failed: " + err.Error())
		return nil
	}

	s.sink.Append(models.LogEntry{Role: models.RoleAssistant, Content: reply.Text, IsMarkdown: reply.IsMarkdown})
	log.Info(ctx, "turn settled", "markdown", reply.IsMarkdown)
	return nil
}

// upload reports ok=false when the file could not be uploaded. A local note
// never fails.
func (s *Session) upload(ctx context.Context, log logging.Logger, file *models.Attachment) (*models.UploadResult, bool) {
	quiet := !s.uploads(models.Turn{Attachment: file})
	if !quiet {
		s.notice(fmt.Sprintf("Uploading %s...", file.Name))
	}

	res, err := s.uploader.Upload(ctx, file)
	if err != nil {
		log.Warn(ctx, "upload failed", "file", file.Name, "error", err)
		s.notice(fmt.Sprintf("Upload of %s failed: %v", file.Name, err))
		return nil, false
	}

	log.Info(ctx, "upload done", "file", file.Name, "kind", res.Kind.String(), "reference", res.Reference)
	if !quiet {
		s.notice(fmt.Sprintf("Uploaded %s.", file.Name))
	}
	return res, true
}

// uploads reports whether the turn involves a network upload.
func (s *Session) uploads(turn models.Turn) bool {
	return turn.Attachment != nil && s.uploader.Mode() != config.TransferNone
}

func (s *Session) notice(text string) {
	s.sink.Append(models.LogEntry{Role: models.RoleAssistant, Content: text, Notice: true})
}

// acquire moves Idle to p atomically. It fails if a turn is in flight.
func (s *Session) acquire(p models.Phase) bool {
	s.mu.Lock()
	if s.phase.Busy() {
		s.mu.Unlock()
		return false
	}
	s.phase = p
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
	return true
}

func (s *Session) setPhase(p models.Phase) {
	s.mu.Lock()
	if s.phase == p {
		s.mu.Unlock()
		return
	}
	s.phase = p
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
}
