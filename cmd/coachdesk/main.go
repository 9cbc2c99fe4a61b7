package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/naveenspark/coachdesk/internal/config"
	"github.com/naveenspark/coachdesk/internal/logging"
	"github.com/naveenspark/coachdesk/internal/router"
	"github.com/naveenspark/coachdesk/internal/session"
	"github.com/naveenspark/coachdesk/internal/tui"
	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
	"github.com/naveenspark/coachdesk/pkg/notice"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// verifyTimeout bounds the startup check of a stored session.
const verifyTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is everything a command needs, built once from the environment.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  *client.Client
	storage session.Storage
	store   *session.Store
	router  *router.Router
}

func setup(notifier notice.Notifier) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logger)
	if err != nil {
		return nil, err
	}

	c := client.New(cfg.API.URL,
		client.WithTimeout(cfg.API.Timeout()),
		client.WithLogger(logger.Named("client")),
		client.WithNotifier(notifier),
	)
	storage := session.NewFileStorage(cfg.Home)
	store := session.NewStore(c, storage,
		session.WithLogger(logger.Named("session")),
		session.WithNotifier(notifier),
		session.WithTokenOverride(cfg.Token),
	)
	c.AttachSession(store)

	r := router.New(router.Table,
		router.WithNotifier(notifier),
		router.WithLogger(logger.Named("router")),
	)
	store.AttachNavigator(r)

	return &app{cfg: cfg, logger: logger, client: c, storage: storage, store: store, router: r}, nil
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("coachdesk " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		}
	}

	// Outside the TUI, notices go straight to stderr.
	var notifier notice.Notifier = notice.Func(func(l notice.Level, text string) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", l, text)
	})
	var feed *notice.Feed
	if len(os.Args) < 2 {
		feed = notice.NewFeed(20)
		notifier = feed
	}

	a, err := setup(notifier)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	if len(os.Args) > 1 {
		in := bufio.NewReader(os.Stdin)
		switch os.Args[1] {
		case "login":
			return a.runLogin(in, os.Stdout, os.Args[2:])
		case "register":
			return a.runRegister(in, os.Stdout, os.Args[2:])
		case "logout":
			return a.runLogout(os.Stdout)
		case "whoami":
			return a.runWhoami(os.Stdout)
		case "passwd":
			return a.runPasswd(in, os.Stdout)
		case "profile":
			return a.runProfile(os.Stdout, os.Args[2:])
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	restored := a.store.RestoreSession(context.Background())
	p := tea.NewProgram(tui.NewApp(tui.Deps{
		Client:   a.client,
		Session:  a.store,
		Router:   a.router,
		Notices:  feed,
		Logger:   a.logger.Named("tui"),
		Restored: restored,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// prompt prints label and reads one trimmed line.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label) //nolint:errcheck
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) runLogin(in *bufio.Reader, out io.Writer, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		if username, err = prompt(in, out, "username: "); err != nil {
			return err
		}
	}
	password, err := prompt(in, out, "password: ")
	if err != nil {
		return err
	}

	res := a.store.Login(context.Background(), domain.LoginForm{Username: strings.TrimSpace(username), Password: password})
	if !res.OK {
		return errors.New(res.Message)
	}
	st := a.store.Snapshot()
	fmt.Fprintf(out, "Signed in as %s (%s)\n", st.User.DisplayName(), st.User.Role.Label()) //nolint:errcheck
	return nil
}

func (a *app) runLogout(out io.Writer) error {
	token, _, err := a.storage.Load()
	a.store.Logout()
	if err == nil && token == "" {
		fmt.Fprintln(out, "Already logged out.") //nolint:errcheck
		return nil
	}
	fmt.Fprintln(out, "Logged out.") //nolint:errcheck
	return nil
}

// waitRestored restores the stored session and waits for the server to accept it.
func (a *app) waitRestored() error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()
	select {
	case err := <-a.store.RestoreSession(ctx):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *app) runWhoami(out io.Writer) error {
	if err := a.waitRestored(); err != nil {
		return fmt.Errorf("stored session is no longer valid: %w", err)
	}
	st := a.store.Snapshot()
	if !st.IsAuthenticated() {
		printSignedOutGreeting(out)
		return nil
	}
	u := st.User
	fmt.Fprintf(out, "%s (@%s)\n", u.DisplayName(), u.Username) //nolint:errcheck
	fmt.Fprintf(out, "  role    %s\n", u.Role.Label())         //nolint:errcheck
	if u.CampusID != nil {
		fmt.Fprintf(out, "  campus  #%d\n", *u.CampusID) //nolint:errcheck
	}
	fmt.Fprintf(out, "  server  %s\n", a.client.BaseURL()) //nolint:errcheck
	return nil
}

func (a *app) runPasswd(in *bufio.Reader, out io.Writer) error {
	if err := a.waitRestored(); err != nil {
		return fmt.Errorf("stored session is no longer valid: %w", err)
	}
	if !a.store.Snapshot().IsAuthenticated() {
		return errors.New("not logged in, run: coachdesk login")
	}
	oldPw, err := prompt(in, out, "current password: ")
	if err != nil {
		return err
	}
	newPw, err := prompt(in, out, "new password: ")
	if err != nil {
		return err
	}
	confirm, err := prompt(in, out, "confirm: ")
	if err != nil {
		return err
	}
	if newPw != confirm {
		return errors.New("passwords do not match")
	}
	res := a.store.ChangePassword(context.Background(), oldPw, newPw)
	if !res.OK {
		return errors.New(res.Message)
	}
	fmt.Fprintln(out, res.Message) //nolint:errcheck
	return nil
}
