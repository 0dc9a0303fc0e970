package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gameplays/internal/domain/entity"
	"gameplays/internal/routes"
	"gameplays/internal/usecase"
)

// execute dispatches one command line. It returns true when the session
// should end.
func (r *REPL) execute(ctx context.Context, args []string) bool {
	switch args[0] {
	case "help":
		r.printHelp()
	case "home":
		r.navigate(routes.Home)
	case "login":
		r.handleLogin(ctx, args[1:])
	case "register":
		r.handleRegister(ctx, args[1:])
	case "logout":
		r.handleLogout(ctx)
	case "profile":
		r.navigate(routes.Profile)
	case "update":
		r.handleUpdate(ctx, args[1:])
	case "delete-account":
		r.handleDeleteAccount(ctx, args[1:])
	case "open":
		r.handleOpen(args[1:])
	case "search":
		r.navigate(routes.Search(strings.Join(args[1:], " ")))
	case "type":
		r.search.OnInputChange(strings.Join(args[1:], " "))
	case "enter":
		r.search.OnEnter()
	case "pick":
		r.handlePick(args[1:])
	case "shelves":
		r.navigate(routes.Shelves)
	case "shelf":
		r.handleShelf(ctx, args[1:])
	case "exit", "quit":
		fmt.Fprintln(r.out, "Bye.")

		return true
	default:
		fmt.Fprintf(r.out, "Unknown command %q, try 'help'.\n", args[0])
	}

	return false
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, `Commands:
  home                                 go to the start page
  login <email> <password>             sign in
  register <username> <email> <pass>   create an account and sign in
  logout                               sign out
  profile                              show the signed-in user
  update <field>=<value> ...           change username, email or password
  delete-account confirm               remove the account permanently
  open <gameID>                        open a game page
  search <text>                        open the search results page
  type <text>                          type into the search box
  enter                                press enter in the search box
  pick <n>                             choose a search suggestion
  shelves                              show your shelves
  shelf <playing|played|wishlist|backlog>  toggle the open game's shelf
  exit                                 leave
`)
}

func (r *REPL) handleLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "Usage: login <email> <password>")

		return
	}

	session, err := r.auth.Login(ctx, &usecase.LoginInput{Email: args[0], Password: args[1]})
	if err != nil {
		return // the notifier already surfaced the failure
	}

	fmt.Fprintf(r.out, "Welcome back, %s.\n", session.Username)
	r.navigate(routes.Home)
}

func (r *REPL) handleRegister(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Fprintln(r.out, "Usage: register <username> <email> <password>")

		return
	}

	session, err := r.auth.Register(ctx, &usecase.RegisterInput{
		Username: args[0],
		Email:    args[1],
		Password: args[2],
	})
	if err != nil {
		return
	}

	fmt.Fprintf(r.out, "Welcome, %s.\n", session.Username)
	r.navigate(routes.Home)
}

func (r *REPL) handleLogout(ctx context.Context) {
	if err := r.auth.Logout(ctx); err != nil {
		fmt.Fprintln(r.out, "Could not clear the stored session.")

		return
	}

	r.navigate(routes.Login)
}

func (r *REPL) handleUpdate(ctx context.Context, args []string) {
	session := r.auth.CurrentSession()
	if session == nil {
		fmt.Fprintln(r.out, "Sign in first.")

		return
	}

	input := &usecase.UpdateProfileInput{UserID: session.UserID}
	for _, arg := range args {
		field, value, found := strings.Cut(arg, "=")
		if !found {
			fmt.Fprintln(r.out, "Usage: update username=<v> email=<v> password=<v>")

			return
		}

		switch field {
		case "username":
			input.Username = value
		case "email":
			input.Email = value
		case "password":
			input.Password = value
		default:
			fmt.Fprintf(r.out, "Unknown field %q.\n", field)

			return
		}
	}

	if _, err := r.auth.UpdateProfile(ctx, input); err != nil {
		return
	}

	r.renderCurrent(ctx)
}

func (r *REPL) handleDeleteAccount(ctx context.Context, args []string) {
	if len(args) != 1 || args[0] != "confirm" {
		fmt.Fprintln(r.out, "This is permanent. Run 'delete-account confirm' to proceed.")

		return
	}

	if err := r.auth.DeleteAccount(ctx); err != nil {
		return
	}

	r.navigate(routes.Home)
}

func (r *REPL) handleOpen(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: open <gameID>")

		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(r.out, "Not a game id: %q.\n", args[0])

		return
	}

	r.navigate(routes.Game(id))
}

func (r *REPL) handlePick(args []string) {
	options := r.search.Options()
	if len(options) == 0 {
		fmt.Fprintln(r.out, "No suggestions to pick from.")

		return
	}

	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: pick <n>")

		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(options) {
		fmt.Fprintf(r.out, "Pick a number between 1 and %d.\n", len(options))

		return
	}

	if err := r.search.OnSelect(options[n-1]); err != nil {
		r.logger.Debug("Option selection failed", slog.Any("error", err))
	}
}

func (r *REPL) handleShelf(ctx context.Context, args []string) {
	route := r.router.Current()
	if route.Name != RouteGame {
		fmt.Fprintln(r.out, "Open a game first.")

		return
	}

	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: shelf <playing|played|wishlist|backlog>")

		return
	}

	status, ok := entity.ParseStatus(args[0])
	if !ok {
		fmt.Fprintf(r.out, "Not a shelf: %q.\n", args[0])

		return
	}

	game, err := r.views.games.GetGame(ctx, route.GameID)
	if err != nil {
		return
	}

	if err := r.plays.TogglePlay(ctx, game, status); err != nil {
		return
	}

	r.renderCurrent(ctx)
}
