// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Command portal is the DanaTelecom portal client: catalog browsing, news
// and comments, account management, and the admin panel, all against the
// portal backend API.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danatelecom/portal-go/internal/admin"
	"github.com/danatelecom/portal-go/internal/api"
	"github.com/danatelecom/portal-go/internal/catalog"
	"github.com/danatelecom/portal-go/internal/config"
	"github.com/danatelecom/portal-go/internal/guard"
	"github.com/danatelecom/portal-go/internal/logging"
	"github.com/danatelecom/portal-go/internal/model"
	"github.com/danatelecom/portal-go/internal/news"
	"github.com/danatelecom/portal-go/internal/render"
	"github.com/danatelecom/portal-go/internal/session"
	"github.com/danatelecom/portal-go/internal/state"
	"github.com/danatelecom/portal-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// errUsage marks command-line mistakes; they exit with code 2.
var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "portal - DanaTelecom portal client\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Commands:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  login -email E -password P          Sign in\n")
		_, _ = fmt.Fprintf(os.Stderr, "  logout                              Sign out and clear stored tokens\n")
		_, _ = fmt.Fprintf(os.Stderr, "  register -first F -last L -email E -password P\n")
		_, _ = fmt.Fprintf(os.Stderr, "  whoami                              Show the signed-in account\n")
		_, _ = fmt.Fprintf(os.Stderr, "  profile [show|update]               View or update the account profile\n")
		_, _ = fmt.Fprintf(os.Stderr, "  catalog <cctv|nanobeam|internet> [-type T]\n")
		_, _ = fmt.Fprintf(os.Stderr, "  news <list|show|like|comment|reply|delete-comment|delete-reply>\n")
		_, _ = fmt.Fprintf(os.Stderr, "  admin <list|create|update|delete> <category> ...\n")
		_, _ = fmt.Fprintf(os.Stderr, "  events [-n N]                       Show the local event log\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_API_URL        Backend origin (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_STATE_SECRET   Token sealing key (required, min %d bytes)\n", config.MinStateSecretLength)
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_STATE_PATH     Local state database path (default: ./data/portal.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_LOG_LEVEL      debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_HTTP_TIMEOUT   Request timeout in seconds (default: 30)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("portal %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		var verr *admin.ValidationError
		if errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				_, _ = fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
			}
			os.Exit(1)
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// termNav receives the client's forced navigation. In the terminal a
// redirect is a message telling the operator where they ended up.
type termNav struct {
	out io.Writer
}

func (n *termNav) ToLogin() {
	_, _ = fmt.Fprintln(n.out, "session expired, sign in again with 'portal login'")
}

func (n *termNav) ToHome() {
	_, _ = fmt.Fprintln(n.out, "admin access required, staying on the public view")
}

// app wires the shared client stack for all subcommands.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	queries  *state.Queries
	sessions *session.Store
	client   *api.Client
	nav      *termNav
	out      io.Writer
}

func run(args []string) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	db, err := state.NewDB(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("closing state database", "error", err)
		}
	}(db)

	if err := state.Migrate(db); err != nil {
		return fmt.Errorf("migrating state database: %w", err)
	}
	queries := state.New(db)

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logging.NewEventLogHandler(textHandler, queries))
	slog.SetDefault(logger)

	sessions, err := session.NewStore(queries, cfg.StateSecret, logger)
	if err != nil {
		return fmt.Errorf("opening token store: %w", err)
	}

	nav := &termNav{out: os.Stderr}
	client, err := api.NewClient(cfg.APIURL, sessions, nav, logger,
		api.WithTimeout(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second),
		api.WithVersion(version.Info{
			Version:   appVersion,
			GitCommit: appGitCommit,
			BuildTime: appBuildTime,
		}),
	)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      logger,
		queries:  queries,
		sessions: sessions,
		client:   client,
		nav:      nav,
		out:      os.Stdout,
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.cmdLogout(ctx)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "profile":
		return a.cmdProfile(ctx, rest)
	case "catalog":
		return a.cmdCatalog(ctx, rest)
	case "news":
		return a.cmdNews(ctx, rest)
	case "admin":
		return a.cmdAdmin(ctx, rest)
	case "events":
		return a.cmdEvents(ctx, rest)
	default:
		return usageError("unknown command %q", cmd)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	if err := fs.Parse(args); err != nil {
		return usageError("login: %v", err)
	}
	if *email == "" || *password == "" {
		return usageError("login requires -email and -password")
	}

	user, err := a.client.Login(ctx, model.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", user.DisplayName(), user.Role)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	if err := fs.Parse(args); err != nil {
		return usageError("register: %v", err)
	}
	if *first == "" || *email == "" || *password == "" {
		return usageError("register requires -first, -email and -password")
	}

	user, err := a.client.Register(ctx, model.Registration{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Password:  *password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered and signed in as %s\n", user.DisplayName())
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	render.Profile(a.out, user)
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "show":
		return a.cmdWhoami(ctx)
	case "update":
		fs := flag.NewFlagSet("profile update", flag.ContinueOnError)
		first := fs.String("first", "", "First name")
		last := fs.String("last", "", "Last name")
		email := fs.String("email", "", "Email")
		phone := fs.String("phone", "", "Phone number")
		address := fs.String("address", "", "Address")
		password := fs.String("password", "", "New password")
		if err := fs.Parse(args); err != nil {
			return usageError("profile update: %v", err)
		}

		user, err := a.client.UpdateProfile(ctx, model.ProfileUpdate{
			FirstName: *first,
			LastName:  *last,
			Email:     *email,
			Phone:     *phone,
			Address:   *address,
			Password:  *password,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "profile updated")
		render.Profile(a.out, user)
		return nil
	default:
		return usageError("profile: unknown subcommand %q", sub)
	}
}

func (a *app) cmdCatalog(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("catalog requires a category: cctv, nanobeam or internet")
	}
	category := model.Category(args[0])

	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	facet := fs.String("type", model.TypeAll, "Type filter")
	if err := fs.Parse(args[1:]); err != nil {
		return usageError("catalog: %v", err)
	}

	view, err := catalog.NewView(category, a.client, a.log)
	if err != nil {
		return usageError("catalog: %v", err)
	}
	if err := view.SetType(*facet); err != nil {
		return usageError("catalog: %v", err)
	}
	if err := view.Load(ctx); err != nil {
		return err
	}
	render.ProductTable(a.out, view.Filtered())
	return nil
}

func (a *app) cmdNews(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		feed := news.NewFeed(a.client, a.log)
		if err := feed.Load(ctx); err != nil {
			return err
		}
		render.NewsList(a.out, feed.Posts())
		return nil

	case "show":
		detail, err := a.loadDetail(ctx, args, 1)
		if err != nil {
			return err
		}
		render.NewsPost(a.out, detail.Post(), detail.RenderedContent())
		return nil

	case "like":
		detail, err := a.loadDetail(ctx, args, 1)
		if err != nil {
			return err
		}
		if err := detail.ToggleLike(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "likes: %d\n", detail.Post().LikeCount())
		return nil

	case "comment":
		fs := flag.NewFlagSet("news comment", flag.ContinueOnError)
		message := fs.String("m", "", "Comment text")
		if len(args) == 0 {
			return usageError("news comment requires a post id")
		}
		if err := fs.Parse(args[1:]); err != nil {
			return usageError("news comment: %v", err)
		}
		detail, err := a.loadDetail(ctx, args, 1)
		if err != nil {
			return err
		}
		if err := detail.AddComment(ctx, *message); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "comment added")
		return nil

	case "reply":
		fs := flag.NewFlagSet("news reply", flag.ContinueOnError)
		message := fs.String("m", "", "Reply text")
		if len(args) < 2 {
			return usageError("news reply requires a post id and a comment id")
		}
		if err := fs.Parse(args[2:]); err != nil {
			return usageError("news reply: %v", err)
		}
		detail, err := a.loadDetail(ctx, args, 2)
		if err != nil {
			return err
		}
		if err := detail.StartReply(args[1]); err != nil {
			return err
		}
		if err := detail.SubmitReply(ctx, *message); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "reply added")
		return nil

	case "delete-comment":
		if len(args) < 2 {
			return usageError("news delete-comment requires a post id and a comment id")
		}
		user, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		detail, err := a.loadDetail(ctx, args, 2)
		if err != nil {
			return err
		}
		if err := detail.DeleteComment(ctx, user, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "comment deleted")
		return nil

	case "delete-reply":
		if len(args) < 3 {
			return usageError("news delete-reply requires a post id, a comment id and a reply id")
		}
		user, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		detail, err := a.loadDetail(ctx, args, 3)
		if err != nil {
			return err
		}
		if err := detail.DeleteReply(ctx, user, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "reply deleted")
		return nil

	default:
		return usageError("news: unknown subcommand %q", sub)
	}
}

// loadDetail fetches the post named by args[0]; minArgs guards the
// positional count for the caller.
func (a *app) loadDetail(ctx context.Context, args []string, minArgs int) (*news.Detail, error) {
	if len(args) < minArgs {
		return nil, usageError("news: missing post id")
	}
	detail := news.NewDetail(a.client, a.log)
	if err := detail.Load(ctx, args[0]); err != nil {
		return nil, err
	}
	return detail, nil
}

// stringsFlag collects a repeatable -feature flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// specsFlag collects repeatable -spec key=value pairs.
type specsFlag map[string]string

func (s specsFlag) String() string { return fmt.Sprintf("%v", map[string]string(s)) }

func (s specsFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	s[key] = value
	return nil
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("admin requires a subcommand and a category")
	}
	sub := args[0]
	category := model.Category(args[1])
	if category.APIPath() == "" {
		return usageError("admin: unknown category %q", args[1])
	}
	rest := args[2:]

	g := guard.New(a.client, a.nav, a.log)
	res := g.Check(ctx, true)
	if res.State != guard.StateAuthorized {
		return fmt.Errorf("admin access denied")
	}

	confirm := func(prompt string) bool {
		fmt.Fprintf(a.out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
	panel := admin.New(a.client, confirm, a.log)

	if err := panel.Select(ctx, category); err != nil {
		return err
	}

	switch sub {
	case "list":
		if category == model.CategoryNews {
			render.NewsList(a.out, panel.Posts())
		} else {
			render.ProductTable(a.out, panel.Products())
		}
		return nil

	case "create":
		draft := panel.NewDraft()
		if err := fillDraft(draft, rest); err != nil {
			return err
		}
		if err := panel.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s item created\n", category)
		return nil

	case "update":
		if len(rest) == 0 {
			return usageError("admin update requires an item id")
		}
		draft, err := panel.EditDraft(rest[0])
		if err != nil {
			return err
		}
		if err := fillDraft(draft, rest[1:]); err != nil {
			return err
		}
		if err := panel.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s item updated\n", category)
		return nil

	case "delete":
		if len(rest) == 0 {
			return usageError("admin delete requires an item id")
		}
		before := len(panel.Products()) + len(panel.Posts())
		if err := panel.Delete(ctx, rest[0]); err != nil {
			return err
		}
		if len(panel.Products())+len(panel.Posts()) == before {
			fmt.Fprintln(a.out, "delete cancelled")
		} else {
			fmt.Fprintln(a.out, "deleted")
		}
		return nil

	default:
		return usageError("admin: unknown subcommand %q", sub)
	}
}

// fillDraft applies the admin form flags to a draft. Only flags the
// operator passed override the draft's prefilled values.
func fillDraft(draft *admin.Draft, args []string) error {
	fs := flag.NewFlagSet("admin form", flag.ContinueOnError)
	title := fs.String("title", draft.Title, "Title")
	image := fs.String("image", "", "Path to an image file to upload")

	desc := fs.String("desc", draft.Description, "Description")
	price := fs.Float64("price", draft.Price, "Price")
	typeDetail := fs.String("type", draft.TypeDetail, "Type facet")
	active := fs.Bool("active", draft.IsActive, "Product visible to visitors")
	var features stringsFlag
	fs.Var(&features, "feature", "Product feature (repeatable)")
	specs := specsFlag{}
	fs.Var(specs, "spec", "Specification key=value (repeatable)")

	content := fs.String("content", draft.ContentMarkdown, "News body in Markdown")
	contentFile := fs.String("content-file", "", "Read the news body from a Markdown file")
	published := fs.Bool("published", draft.IsPublished, "News post visible to visitors")

	if err := fs.Parse(args); err != nil {
		return usageError("admin form: %v", err)
	}

	draft.Title = *title
	draft.ImagePath = *image
	draft.Description = *desc
	draft.Price = *price
	draft.TypeDetail = *typeDetail
	draft.IsActive = *active
	if len(features) > 0 {
		draft.Features = features
	}
	if len(specs) > 0 {
		if draft.Specifications == nil {
			draft.Specifications = map[string]string{}
		}
		for k, v := range specs {
			draft.Specifications[k] = v
		}
	}
	draft.ContentMarkdown = *content
	draft.IsPublished = *published
	if *contentFile != "" {
		data, err := os.ReadFile(*contentFile)
		if err != nil {
			return fmt.Errorf("reading content file: %w", err)
		}
		draft.ContentMarkdown = string(data)
	}
	return nil
}

func (a *app) cmdEvents(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	limit := fs.Int("n", 20, "Number of events to show")
	if err := fs.Parse(args); err != nil {
		return usageError("events: %v", err)
	}

	events, err := a.queries.ListRecentEvents(ctx, *limit)
	if err != nil {
		return err
	}
	render.Events(a.out, events)
	return nil
}
