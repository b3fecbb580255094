package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophsnap/internal/client/client"
	"github.com/dmitrijs2005/gophsnap/internal/client/config"
)

type Mode string

const (
	ModeOffline     Mode = "offline"
	ModeOnline      Mode = "online"
	ModeMaintenance Mode = "maintenance"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	userName string
	mode     Mode
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewSnapshotClientService(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, r *bufio.Reader, w io.Writer) *App {
	return &App{config: c, client: cl, reader: r, out: w}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName != ""
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

// withTimeout bounds a single server call by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// report prints a failed command. A rejected token means the session is gone,
// so the local login state is dropped too.
func (a *App) report(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		a.setUser("")
		fmt.Fprintln(a.out, "Not authorized, please log in")
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	default:
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
	}
	return err
}

// probe asks the server for its info and derives the connectivity mode.
func (a *App) probe(ctx context.Context) Mode {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	info, err := a.client.ServerInfo(ctx)
	switch {
	case err != nil:
		return ModeOffline
	case info.Maintenance:
		return ModeMaintenance
	default:
		return ModeOnline
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.setMode(a.probe(ctx))

		case <-ctx.Done():
			return
		}
	}
}
