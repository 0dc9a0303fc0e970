package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gameplays/internal/domain/entity"
	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/routes"
	"gameplays/internal/usecase"

	"go.uber.org/fx"
)

// Views renders the app's routes as terminal output. Each render method
// corresponds to one page of the original single-page layout.
type Views struct {
	out    io.Writer
	auth   usecase.AuthUsecase
	games  usecase.GameUsecase
	plays  usecase.PlayUsecase
	search usecase.SearchUsecase
}

// ViewsParams holds dependencies for Views, injected by Fx.
type ViewsParams struct {
	fx.In

	Auth   usecase.AuthUsecase
	Games  usecase.GameUsecase
	Plays  usecase.PlayUsecase
	Search usecase.SearchUsecase
}

// NewViews is the constructor for Views, writing to out.
func NewViews(out io.Writer, params ViewsParams) *Views {
	return &Views{
		out:    out,
		auth:   params.Auth,
		games:  params.Games,
		plays:  params.Plays,
		search: params.Search,
	}
}

// Render draws the view for a route.
func (v *Views) Render(ctx context.Context, route Route) error {
	switch route.Name {
	case RouteHome:
		return v.renderHome()
	case RouteLogin:
		return v.renderLogin()
	case RouteProfile:
		return v.renderProfile()
	case RouteShelves:
		return v.renderShelves(ctx)
	case RouteGame:
		return v.renderGame(ctx, route.GameID)
	case RouteSearch:
		return v.renderSearch(ctx, route.Query)
	default:
		return apperrors.ErrRouteNotFound
	}
}

func (v *Views) renderHome() error {
	fmt.Fprintln(v.out, "Gameplays")
	fmt.Fprintln(v.out, "Track the games you play. Type 'help' for commands.")

	if session := v.auth.CurrentSession(); session != nil {
		fmt.Fprintf(v.out, "Signed in as %s.\n", session.Username)
	} else {
		fmt.Fprintln(v.out, "You are browsing as a guest. Use 'login' or 'register' to keep shelves.")
	}

	return nil
}

func (v *Views) renderLogin() error {
	fmt.Fprintln(v.out, "Sign in")
	fmt.Fprintln(v.out, "  login <email> <password>")
	fmt.Fprintln(v.out, "  register <username> <email> <password>")

	return nil
}

func (v *Views) renderProfile() error {
	session := v.auth.CurrentSession()
	if session == nil {
		fmt.Fprintln(v.out, "Not signed in.")

		return nil
	}

	fmt.Fprintf(v.out, "Profile: %s\n", session.Username)
	fmt.Fprintf(v.out, "  email: %s\n", session.Email)

	switch {
	case session.IsExpired():
		fmt.Fprintln(v.out, "  session: expired, next request will re-authenticate")
	case session.ExpiresAt.IsZero():
		fmt.Fprintln(v.out, "  session: active")
	default:
		fmt.Fprintf(v.out, "  session: expires in %s\n", session.TimeRemaining().Round(time.Second))
	}

	return nil
}

func (v *Views) renderShelves(ctx context.Context) error {
	plays, err := v.plays.Plays(ctx)
	if err != nil {
		return err
	}

	if v.auth.CurrentSession() == nil {
		fmt.Fprintln(v.out, "Sign in to see your shelves.")

		return nil
	}

	byStatus := make(map[entity.Status][]entity.Play, len(entity.AllStatuses))
	for _, play := range plays {
		byStatus[play.Status] = append(byStatus[play.Status], play)
	}

	for _, status := range entity.AllStatuses {
		shelf := byStatus[status]
		fmt.Fprintf(v.out, "%s (%d)\n", status, len(shelf))

		writer := tabwriter.NewWriter(v.out, 2, 4, 2, ' ', 0)
		for _, play := range shelf {
			name := play.Name
			if name == "" {
				name = fmt.Sprintf("game #%d", play.APIGameID)
			}
			fmt.Fprintf(writer, "  %s\t%s\n", name, developerNames(play.Developers))
		}
		writer.Flush()
	}

	return nil
}

func (v *Views) renderGame(ctx context.Context, id int64) error {
	game, err := v.games.GetGame(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(v.out, game.Name)
	if game.Deck != "" {
		fmt.Fprintln(v.out, game.Deck)
	}
	if game.OriginalReleaseDate != "" {
		fmt.Fprintf(v.out, "  released: %s\n", game.OriginalReleaseDate)
	}
	if len(game.Developers) > 0 {
		fmt.Fprintf(v.out, "  developers: %s\n", developerNames(game.Developers))
	}
	if len(game.Genres) > 0 {
		fmt.Fprintf(v.out, "  genres: %s\n", developerNames(game.Genres))
	}
	if len(game.Platforms) > 0 {
		fmt.Fprintf(v.out, "  platforms: %s\n", developerNames(game.Platforms))
	}

	if v.auth.CurrentSession() == nil {
		return nil
	}

	play, ok, err := v.plays.PlayForGame(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprint(v.out, "  shelves:")
	for _, status := range entity.AllStatuses {
		marker := " "
		if ok && play.Status == status {
			marker = "*"
		}
		fmt.Fprintf(v.out, " [%s]%s", marker, status)
	}
	fmt.Fprintln(v.out)
	fmt.Fprintln(v.out, "  toggle with: shelf <playing|played|wishlist|backlog>")

	return nil
}

func (v *Views) renderSearch(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		fmt.Fprintln(v.out, "Nothing to search for.")

		return nil
	}

	results, err := v.games.Search(ctx, query, 1)
	if err != nil {
		return err
	}

	fmt.Fprintf(v.out, "%d results for %q\n", results.NumberOfTotalResults, query)

	writer := tabwriter.NewWriter(v.out, 2, 4, 2, ' ', 0)
	for _, game := range results.Results {
		fmt.Fprintf(writer, "  %s\t%s\t%s\n", routes.Game(game.ID), game.Name, game.OriginalReleaseDate)
	}
	writer.Flush()

	if results.NumberOfTotalResults > results.NumberOfPageResults {
		fmt.Fprintln(v.out, "  more results available, open a game with 'open <id>'")
	}

	return nil
}

// renderOptions draws the type-ahead menu under the search prompt.
func (v *Views) renderOptions(options []entity.SearchOption) {
	if len(options) == 0 {
		return
	}

	for i, option := range options {
		fmt.Fprintf(v.out, "  %d. %s\n", i+1, option.Label)
		if option.IsDivider {
			fmt.Fprintln(v.out, "  ----")
		}
	}
	fmt.Fprintln(v.out, "  pick one with 'pick <n>'")
}

func developerNames(refs []entity.NamedRef) string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}

	return strings.Join(names, ", ")
}
