// Command inkctl is a terminal client for the inkbook API. It keeps the
// sign-in, pending invitation and registration drafts in a local sqlite file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"inkbook/internal/client/api"
	"inkbook/internal/client/kv"
	"inkbook/internal/client/session"
)

type settings struct {
	APIURL    string `envconfig:"INKBOOK_API_URL" default:"http://localhost:8080/api/v1"`
	StatePath string `envconfig:"INKBOOK_STATE"`
}

// app is what every subcommand gets.
type app struct {
	api     *api.Client
	session *session.Session
	store   kv.Store
	apiURL  string
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":    {"login -email E -password P", runLogin},
	"logout":   {"logout", runLogout},
	"whoami":   {"whoami", runWhoami},
	"invite":   {"invite TOKEN", runInvite},
	"register": {"register -flow lover|artist|studio [-step K] [-set k=v]... [-next|-back|-submit|-reset]", runRegister},
	"profile":  {"profile [-set field=value]... [-save]", runProfile},
	"chat":     {"chat -conversation ID | -with USER_ID", runChat},
	"block":    {"block USER_ID", runBlock},
	"unblock":  {"unblock USER_ID", runUnblock},
}

func main() {
	log.SetFlags(0)
	_ = godotenv.Load()

	var s settings
	if err := envconfig.Process("", &s); err != nil {
		log.Fatalf("config: %v", err)
	}

	flag.StringVar(&s.APIURL, "api", s.APIURL, "API base URL")
	flag.StringVar(&s.StatePath, "state", s.StatePath, "local state file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		usage()
		os.Exit(2)
	}

	if s.StatePath == "" {
		s.StatePath = defaultStatePath()
	}
	if err := os.MkdirAll(filepath.Dir(s.StatePath), 0o700); err != nil {
		log.Fatalf("state dir: %v", err)
	}
	store, err := kv.Open(s.StatePath)
	if err != nil {
		log.Fatalf("state: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess := session.New(store)
	if err := sess.Restore(ctx); err != nil {
		log.Fatalf("restore session: %v", err)
	}

	a := &app{
		api:     api.New(s.APIURL, sess),
		session: sess,
		store:   store,
		apiURL:  s.APIURL,
	}
	if err := cmd.run(ctx, a, flag.Args()[1:]); err != nil {
		var fields api.FieldErrors
		if errors.As(err, &fields) {
			for k, msg := range fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", k, msg)
			}
		}
		stop()
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: inkctl [-api URL] [-state FILE] <command>")
	for _, name := range []string{"login", "logout", "whoami", "invite", "register", "profile", "chat", "block", "unblock"} {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "inkbook", "state.db")
}

func (a *app) requireAuth() error {
	if !a.session.Authenticated() {
		return errors.New("not signed in, run inkctl login first")
	}
	return nil
}

// signedIn stores the issued session and accepts an invitation opened before
// sign-in, if there is one.
func (a *app) signedIn(ctx context.Context, issued *api.Session) error {
	if err := a.session.SetAuth(ctx, issued); err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", issued.User.Username, issued.User.Role)

	m, err := a.session.ResolvePendingInvitation(ctx, a.api)
	switch {
	case errors.Is(err, session.ErrNoPendingInvite):
		return nil
	case api.IsRefused(err):
		fmt.Printf("pending invitation was not accepted: %v\n", err)
		return nil
	case err != nil:
		return fmt.Errorf("pending invitation kept for later: %w", err)
	}
	fmt.Printf("joined studio %d\n", m.StudioID)
	return nil
}
