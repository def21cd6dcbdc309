package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"notesync-web/internal/diff"
	"notesync-web/internal/domain"
	"notesync-web/internal/remote"
	"notesync-web/internal/service"
)

const usage = `usage: history <command> [flags] [args]

commands:
  login <username>                 sign in and store the token
  list    [-page n] <vault> <path> list saved versions of a note
  show    [-page n] [-changed] <vault> <path> <id>
                                   print the diff of one version
  restore [-page n] <vault> <path> <id>
                                   make a version the current note
  copy    [-page n] <vault> <path> <id>
                                   copy a version's content to the clipboard`

// Replaced in tests.
var (
	clipboardWrite = clipboard.WriteAll
	readPassword   = promptPassword
)

type app struct {
	client    *remote.Client
	tokenPath string
	out       io.Writer
	pageSize  int
	timeout   time.Duration
}

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	tokenPath, err := defaultTokenPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := &app{
		client:    remote.NewClient(strings.TrimRight(envOr("API_BASE_URL", "http://localhost:9000"), "/"), 15*time.Second),
		tokenPath: tokenPath,
		out:       os.Stdout,
		pageSize:  10,
		timeout:   5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "list":
		return a.list(ctx, args)
	case "show", "restore", "copy":
		return a.version(ctx, cmd, args)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: history login <username>")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	result, err := a.client.Login(ctx, &domain.LoginRequest{Credentials: strings.TrimSpace(args[0]), Password: password})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(a.tokenPath), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(a.tokenPath, []byte(result.Token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	fmt.Fprintf(a.out, "signed in as %s\n", result.Username)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: history list [-page n] <vault> <path>")
	}

	session, err := a.open(ctx, fs.Arg(0), fs.Arg(1), *page)
	if remote.Classify(err) == remote.KindEmpty {
		fmt.Fprintln(a.out, diff.DefaultPlaceholder)
		return nil
	}
	if err != nil {
		return err
	}
	defer session.Close()

	v := session.View()
	if len(v.Entries) == 0 {
		fmt.Fprintln(a.out, diff.DefaultPlaceholder)
		return nil
	}
	for _, entry := range v.Entries {
		fmt.Fprintf(a.out, "%6d  v%-5d %-20s %s\n", entry.ID, entry.Version, entry.ClientName, entry.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(a.out, "page %d of %d\n", v.Pager.Page, v.TotalPages)
	return nil
}

func (a *app) version(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	page := fs.Int("page", 1, "page the version is listed on")
	changed := fs.Bool("changed", false, "only print changed lines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("usage: history %s [-page n] <vault> <path> <id>", cmd)
	}
	id, err := strconv.ParseInt(fs.Arg(2), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid version id %q", fs.Arg(2))
	}

	session, err := a.open(ctx, fs.Arg(0), fs.Arg(1), *page)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Select(ctx, id); err != nil {
		if errors.Is(err, service.ErrUnknownVersion) {
			return fmt.Errorf("version %d is not on page %d", id, *page)
		}
		return err
	}

	switch cmd {
	case "show":
		session.SetChangedOnly(*changed)
		v := session.View()
		fmt.Fprint(a.out, diff.RenderTerminal(v.Lines, diff.RenderOptions{
			ChangedOnly: v.ChangedOnly,
			Header:      fmt.Sprintf("%s (v%d)", v.Key.Path, v.Selected.Version),
		}))
		return nil

	case "copy":
		content, err := session.OriginalContent()
		if err != nil {
			return err
		}
		if err := clipboardWrite(content); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(a.out, "copied to clipboard")
		return nil

	default:
		if err := session.Restore(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "restored version %d of %s\n", id, fs.Arg(1))
		return nil
	}
}

func (a *app) open(ctx context.Context, vault, path string, page int) (*service.HistorySession, error) {
	token, err := a.token()
	if err != nil {
		return nil, err
	}

	key := service.HistoryKeyFor(domain.NoteRef{Vault: vault, Path: path}, false)
	if err := domain.NewValidator().Struct(key); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}

	session := service.NewHistorySession(a.client, token, key, service.HistoryOptions{
		PageSize:       a.pageSize,
		RestoreTimeout: a.timeout,
	})
	if err := session.Open(ctx); err != nil {
		session.Close()
		return nil, err
	}
	if page != 1 {
		if err := session.SetPage(ctx, page); err != nil {
			session.Close()
			return nil, err
		}
	}
	return session, nil
}

func (a *app) token() (string, error) {
	if token := os.Getenv("NOTESYNC_TOKEN"); token != "" {
		return token, nil
	}
	b, err := os.ReadFile(a.tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", errors.New("not signed in, run: history login <username>")
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func describe(err error) string {
	switch {
	case remote.IsUnauthorized(err):
		return "session expired, run: history login <username>"
	case errors.Is(err, service.ErrPageOutOfRange):
		return "no such page"
	case remote.Classify(err) != remote.KindNone:
		return remote.Message(err)
	}
	return err.Error()
}

func defaultTokenPath() (string, error) {
	if v := os.Getenv("NOTESYNC_TOKEN_FILE"); v != "" {
		return v, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "notesync", "token"), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(pass)), nil
}
