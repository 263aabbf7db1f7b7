package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go-debate-client/internal/api"
	"go-debate-client/internal/config"
	"go-debate-client/internal/guard"
	"go-debate-client/internal/model"
	"go-debate-client/internal/session"
	"go-debate-client/internal/transport"
	"go-debate-client/internal/view"
)

// App owns the wiring: config, transport, session, resource clients, guards
// and the renderer. Run drives a plain read-eval loop; every command handler
// goes through the same guards and pages a routed UI would.
type App struct {
	cfg      *config.Config
	store    *session.Store
	guards   *guard.Guard
	renderer *view.Renderer

	auth        *api.AuthClient
	debates     *api.DebatesClient
	matches     *api.MatchesClient
	submissions *api.SubmissionsClient
	votes       *api.VotesClient
	moderation  *api.ModerationClient

	in  io.Reader
	out io.Writer

	// location bounced to after a guard redirect, then replayed post-login
	pendingReturn string
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store := session.NewStore(session.NewTokenFile(cfg.TokenFile))

	httpClient := transport.New(transport.Config{
		BaseURL:      cfg.APIBaseURL,
		Timeout:      cfg.HTTPTimeout,
		RequestRate:  cfg.RequestRate,
		RequestBurst: cfg.RequestBurst,
	}, store.Token)
	httpClient.SetUnauthorizedHook(store.Expire)

	app := &App{
		cfg:         cfg,
		store:       store,
		guards:      guard.New(store),
		renderer:    view.NewRenderer(os.Stdout),
		auth:        api.NewAuthClient(httpClient),
		debates:     api.NewDebatesClient(httpClient),
		matches:     api.NewMatchesClient(httpClient),
		submissions: api.NewSubmissionsClient(httpClient),
		votes:       api.NewVotesClient(httpClient),
		moderation:  api.NewModerationClient(httpClient),
		in:          os.Stdin,
		out:         os.Stdout,
	}
	store.BindAuth(app.auth)

	return app, nil
}

func (a *App) Run() error {
	a.store.Initialize()

	changes, unsubscribe := a.store.Subscribe()
	defer unsubscribe()
	go func() {
		for change := range changes {
			if change.Kind == session.ChangeExpired {
				fmt.Fprintln(a.out, "Your session expired. Please log in again.")
			}
		}
	}()

	fmt.Fprintln(a.out, "debate-client - type 'help' for commands")

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}

		a.dispatch(context.Background(), fields[0], fields[1:])
	}
}

func (a *App) dispatch(ctx context.Context, command string, args []string) {
	var err error

	switch command {
	case "help":
		a.help()
	case "login":
		err = a.login(ctx, args)
	case "register":
		err = a.register(ctx, args)
	case "logout":
		a.store.Logout()
		a.renderer.Message("Logged out.")
	case "debates":
		err = a.listDebates(ctx)
	case "debate":
		err = a.showDebate(ctx, args)
	case "create":
		err = a.withAuth(invocation(command, args), func() error { return a.createDebate(ctx, args) })
	case "join":
		err = a.withAuth(invocation(command, args), func() error { return a.joinDebate(ctx, args) })
	case "dashboard":
		err = a.withAuth(invocation(command, args), func() error { return a.dashboard(ctx) })
	case "match":
		err = a.showMatch(ctx, args)
	case "results":
		err = a.results(ctx)
	case "mod":
		err = a.withModerator(ctx, invocation(command, args), func() error { return a.moderationQueue(ctx) })
	case "status":
		err = a.withModerator(ctx, invocation(command, args), func() error { return a.changeStatus(ctx, args) })
	default:
		a.renderer.Message("Unknown command. Type 'help'.")
	}

	if err != nil {
		a.renderer.Error(err)
		slog.Debug("command failed", "command", command, "error", err)
	}
}

// invocation is the full requested command line, args included, so a replay
// after login re-runs exactly what the guest asked for.
func invocation(command string, args []string) string {
	return strings.Join(append([]string{command}, args...), " ")
}

// withAuth applies the authenticated-only guard: a guest is bounced to the
// login prompt and the requested invocation is replayed after a successful
// login.
func (a *App) withAuth(requested string, run func() error) error {
	decision := a.guards.RequireAuth(requested)
	if decision.Action == guard.ActionRedirectLogin {
		a.pendingReturn = decision.ReturnTo
		a.renderer.Message("Please log in first: login <email> <password>")
		return nil
	}

	return run()
}

// withModerator applies the role-restricted guard. A logged-in non-moderator
// is silently sent back to the debate list, no error shown.
func (a *App) withModerator(ctx context.Context, requested string, run func() error) error {
	decision := a.guards.RequireModerator(requested)
	switch decision.Action {
	case guard.ActionRedirectLogin:
		a.pendingReturn = decision.ReturnTo
		a.renderer.Message("Please log in first: login <email> <password>")
		return nil
	case guard.ActionRedirectHome:
		return a.listDebates(ctx)
	default:
		return run()
	}
}

func (a *App) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		a.renderer.Message("Usage: login <email> <password>")
		return nil
	}

	if err := a.store.Login(ctx, args[0], args[1]); err != nil {
		return err
	}

	a.renderer.Message("Logged in.")

	if a.pendingReturn != "" {
		fields := strings.Fields(a.pendingReturn)
		a.pendingReturn = ""
		a.renderer.Message("Returning to '" + strings.Join(fields, " ") + "'.")
		a.dispatch(ctx, fields[0], fields[1:])
	}

	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		a.renderer.Message("Usage: register <username> <email> <password>")
		return nil
	}

	if err := a.store.Register(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}

	a.renderer.Message("Account created. You can log in now.")
	return nil
}

func (a *App) listDebates(ctx context.Context) error {
	debates, err := a.debates.List(ctx)
	if err != nil {
		return err
	}

	a.renderer.DebateList(debates)
	return nil
}

func (a *App) showDebate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.renderer.Message("Usage: debate <id>")
		return nil
	}

	page := view.NewDebatePage(a.debates, a.store, a.renderer)
	if err := page.Load(ctx, args[0]); err != nil {
		return err
	}

	page.Render()
	return nil
}

func (a *App) createDebate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.renderer.Message("Usage: create <title> <body...>")
		return nil
	}

	debate, err := a.debates.Create(ctx, api.CreateDebateRequest{
		Title: args[0],
		Body:  strings.Join(args[1:], " "),
	})
	if err != nil {
		return err
	}

	a.renderer.Message("Debate '" + debate.Title + "' submitted for moderation.")
	return nil
}

func (a *App) joinDebate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		a.renderer.Message("Usage: join <debate-id> <1|2>  (1 = Pro, 2 = Contro)")
		return nil
	}

	side := model.SidePro
	if args[1] == "2" {
		side = model.SideContro
	} else if args[1] != "1" {
		a.renderer.Message("Side must be 1 (Pro) or 2 (Contro).")
		return nil
	}

	page := view.NewDebatePage(a.debates, a.store, a.renderer)
	if err := page.Load(ctx, args[0]); err != nil {
		return err
	}

	return page.Join(ctx, side)
}

func (a *App) dashboard(ctx context.Context) error {
	page := view.NewDashboardPage(a.matches, a.debates, a.renderer)
	if err := page.Load(ctx); err != nil {
		return err
	}

	page.Render()
	return nil
}

func (a *App) showMatch(ctx context.Context, args []string) error {
	if len(args) < 1 {
		a.renderer.Message("Usage: match <id> [vote <1|2> | draft <text...> | submit <text...>]")
		return nil
	}

	page := view.NewMatchPage(a.matches, a.debates, a.submissions, a.votes, a.store, a.renderer)
	if err := page.Load(ctx, args[0]); err != nil {
		return err
	}

	if len(args) < 2 {
		page.Render()
		return nil
	}

	switch args[1] {
	case "vote":
		if len(args) != 3 || (args[2] != "1" && args[2] != "2") {
			a.renderer.Message("Usage: match <id> vote <1|2>")
			return nil
		}
		value := model.SidePro
		if args[2] == "2" {
			value = model.SideContro
		}
		return page.Vote(ctx, value)
	case "draft":
		return page.SaveDraft(ctx, strings.Join(args[2:], " "))
	case "submit":
		return page.SubmitFinal(ctx, strings.Join(args[2:], " "))
	default:
		page.Render()
		return nil
	}
}

func (a *App) results(ctx context.Context) error {
	matches, err := a.matches.Results(ctx)
	if err != nil {
		return err
	}

	a.renderer.Results(matches)
	return nil
}

func (a *App) moderationQueue(ctx context.Context) error {
	debates, err := a.moderation.Pending(ctx)
	if err != nil {
		return err
	}

	a.renderer.Moderation(debates)
	return nil
}

func (a *App) changeStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.renderer.Message("Usage: status <debate-id> <approve|reject|review|close> [reason...]")
		return nil
	}

	var status model.DebateStatus
	switch args[1] {
	case "review":
		status = model.DebateInReview
	case "approve":
		status = model.DebateApproved
	case "reject":
		status = model.DebateRejected
	case "close":
		status = model.DebateClosed
	default:
		a.renderer.Message("Unknown status action: " + args[1])
		return nil
	}

	reason := strings.Join(args[2:], " ")
	if err := a.moderation.ChangeStatus(ctx, args[0], status, reason); err != nil {
		return err
	}

	a.renderer.Message("Status changed to " + status.Label() + ".")
	return nil
}

func (a *App) help() {
	fmt.Fprintln(a.out, `Commands:
  debates                              list debates
  debate <id>                          debate detail with queue state
  create <title> <body...>             propose a debate (moderated)
  join <debate-id> <1|2>               queue as Pro (1) or Contro (2)
  dashboard                            your matches and queue entries
  match <id>                           match detail
  match <id> vote <1|2>                vote Pro or Contro
  match <id> draft <text...>           save a draft for the open round
  match <id> submit <text...>          finalize the open round
  results                              closed matches
  mod                                  moderation queue (moderators)
  status <id> <approve|reject|review|close> [reason]
  login <email> <password> / register <username> <email> <password> / logout
  quit`)
}
