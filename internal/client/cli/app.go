package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/conversation"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/client/render"
	"github.com/dmitrijs2005/gophchat/internal/client/services"
	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/netx"
)

// ErrBusy is returned by Send while a turn is in flight.
var ErrBusy = session.ErrBusy

// submitter is the part of session.Session the App drives.
type submitter interface {
	Submit(ctx context.Context, turn models.Turn) error
	Phase() models.Phase
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	logFile  io.Closer
	history  *conversation.Log
	session  submitter
	renderer render.Renderer
	out      io.Writer
	in       io.Reader

	mu        sync.Mutex
	pending   *models.Attachment
	shownFrom int

	inflight atomic.Bool
	turns    sync.WaitGroup
}

// NewApp builds the client from c. Output goes to stdout, diagnostics to
// stderr or c.LogFile.
func NewApp(c *config.Config) (*App, error) {
	logger, logFile, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	tty := isTerminal(int(os.Stdout.Fd()))
	wrap := c.WordWrap
	if tty && wrap <= 0 {
		if w, _, err := getSize(int(os.Stdout.Fd())); err == nil {
			wrap = w
		}
	}
	renderer, err := render.New(c.MarkdownStyle, wrap, tty)
	if err != nil {
		return nil, err
	}

	api := client.NewHTTPClient(c, netx.NewClient(c.RequestTimeout))
	uploader, err := services.NewUploader(c.TransferMode, api)
	if err != nil {
		return nil, err
	}

	history := conversation.NewLog()
	s := session.New(uploader, api, history,
		session.WithUploadFailurePolicy(c.OnUploadError),
		session.WithLogger(logger),
	)

	a := &App{
		config:   c,
		logger:   logger.With("module", "cli"),
		logFile:  logFile,
		history:  history,
		session:  s,
		renderer: renderer,
		out:      stdout,
		in:       os.Stdin,
	}
	history.Subscribe(a.onEntry)
	s.OnPhaseChanged(a.onPhase)

	a.logger.Info(context.Background(), "client ready",
		"api_base", c.APIBase, "transfer_mode", string(c.TransferMode), "tty", tty)
	return a, nil
}

func newLogger(c *config.Config) (logging.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	l, err := logging.New(w, c.LogFormat, level)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, nil, err
	}
	return l, closer, nil
}

// Run starts the REPL and blocks until the user leaves and the in-flight
// turn, if any, has settled.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Fprintln(a.out, "gophchat (type /help for commands)")
	runREPL(ctx, a, a.Status, bufio.NewScanner(a.in))

	a.Wait()
}

func (a *App) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// Wait blocks until every submitted turn has settled.
func (a *App) Wait() {
	a.turns.Wait()
}

func (a *App) Busy() bool {
	return a.inflight.Load() || a.session.Phase().Busy()
}

// Send submits text together with the selected file, if any. The turn runs
// in the background. Empty turns are ignored; ErrBusy is returned while a
// turn is in flight.
func (a *App) Send(ctx context.Context, text string) error {
	a.mu.Lock()
	turn := models.Turn{Prompt: text, Attachment: a.pending}
	a.mu.Unlock()

	if err := services.ValidateTurn(turn); err != nil {
		return err
	}
	if !a.inflight.CompareAndSwap(false, true) {
		return ErrBusy
	}

	a.mu.Lock()
	a.pending = nil
	a.mu.Unlock()

	a.turns.Add(1)
	go func() {
		defer a.turns.Done()
		defer a.inflight.Store(false)

		if err := a.session.Submit(ctx, turn); err != nil {
			a.logger.Warn(ctx, "turn not submitted", "error", err)
		}
	}()
	return nil
}

// Attach selects the file at path for the next turn, replacing any earlier
// selection.
func (a *App) Attach(path string) error {
	file, err := models.NewFileAttachment(path)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.pending = file
	a.mu.Unlock()

	fmt.Fprintf(a.out, "[Selected file: %s]\n", file.Name)
	return nil
}

// Detach drops the selected file. It reports whether there was one.
func (a *App) Detach() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	had := a.pending != nil
	a.pending = nil
	return had
}

// Clear clears the screen, hides earlier entries from History and drops the
// selected file.
func (a *App) Clear() {
	a.Detach()

	a.mu.Lock()
	a.shownFrom = a.history.Len()
	a.mu.Unlock()

	if isTerminal(int(os.Stdout.Fd())) {
		fmt.Fprint(a.out, "\033[H\033[2J")
	}
}

// History reprints the conversation since the last Clear.
func (a *App) History() {
	a.mu.Lock()
	from := a.shownFrom
	a.mu.Unlock()

	entries := a.history.Entries()
	if from > len(entries) {
		from = len(entries)
	}
	if len(entries[from:]) == 0 {
		fmt.Fprintln(a.out, "(no messages)")
		return
	}
	for _, e := range entries[from:] {
		fmt.Fprintln(a.out, a.renderer.Entry(e))
	}
}

// Status is the prompt decoration: the send control label and the selected
// file.
func (a *App) Status() string {
	label := a.session.Phase().Label()
	if a.inflight.Load() && !a.session.Phase().Busy() {
		label = models.PhaseAwaitingReply.Label()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending != nil {
		return fmt.Sprintf("[%s] +%s", label, a.pending.Name)
	}
	return fmt.Sprintf("[%s]", label)
}

func (a *App) onEntry(e models.LogEntry) {
	fmt.Fprintln(a.out, a.renderer.Entry(e))
}

func (a *App) onPhase(p models.Phase) {
	a.logger.Debug(context.Background(), "phase changed", "phase", p.String())
}

// lockedWriter serialises writes from the REPL and from turn goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
