package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/pairs"
	"github.com/aretw0/pairs/internal/presentation/tui"
	"github.com/aretw0/pairs/pkg/domain"
	"github.com/muesli/termenv"
)

// PlayOptions configures a terminal game.
type PlayOptions struct {
	SessionID   string
	Environment string

	// Resume continues the session's stored game instead of dealing a new one.
	Resume bool

	In      io.Reader
	Out     io.Writer
	Profile termenv.Profile

	// Plain prints markdown as-is instead of styling it.
	Plain  bool
	Banner bool
}

const helpText = `Commands:
  <n>        flip card n
  score      show moves, time and pairs
  restart    deal a new deck
  quit       leave (the game stays in the session store)
`

type player struct {
	ctx      context.Context
	engine   *pairs.Engine
	opts     PlayOptions
	markdown func(string) (string, error)
	env      domain.Environment
}

// Play runs an interactive game on opts.In / opts.Out until the deck is cleared,
// the player quits or the input ends.
func Play(ctx context.Context, engine *pairs.Engine, opts PlayOptions) error {
	if opts.SessionID == "" {
		opts.SessionID = "terminal"
	}
	p := &player{
		ctx:      ctx,
		engine:   engine,
		opts:     opts,
		markdown: tui.NewRenderer(opts.Plain),
	}

	if opts.Banner {
		tui.PrintBanner(opts.Out, opts.Profile, pairs.Version)
	}

	if err := p.begin(); err != nil {
		return err
	}

	reader := bufio.NewReader(opts.In)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(opts.Out, "> ")
		raw, err := readLine(reader, maxInputSize())
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(opts.Out)
			return nil
		case errors.Is(err, ErrInputTooLarge):
			fmt.Fprintf(opts.Out, "Input rejected: %v\n", err)
			continue
		case err != nil:
			return err
		}

		line, err := SanitizeInput(raw)
		if err != nil {
			fmt.Fprintf(opts.Out, "Input rejected: %v\n", err)
			continue
		}
		cmd := strings.ToLower(strings.TrimSpace(line))
		switch cmd {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Fprintln(opts.Out, "Bye!")
			return nil
		case "h", "help", "?":
			fmt.Fprint(opts.Out, helpText)
		case "s", "score":
			if err := p.printScore(); err != nil {
				return err
			}
		case "r", "restart":
			if err := p.deal(); err != nil {
				return err
			}
		default:
			index, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintf(opts.Out, "Unknown command %q. Type help for the list.\n", cmd)
				continue
			}
			done, err := p.flip(index)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (p *player) begin() error {
	if p.opts.Resume {
		game, err := p.engine.Game(p.ctx, p.opts.SessionID)
		switch {
		case err == nil:
			env, err := p.engine.Catalog().Lookup(game.Environment)
			if err != nil {
				return err
			}
			p.env = env
			fmt.Fprintf(p.opts.Out, "Resuming %s (%d moves so far).\n\n", env.Name, game.Moves)
			return p.printBoard(game, nil)
		case !errors.Is(err, domain.ErrSessionNotFound):
			return err
		}
	}
	return p.deal()
}

func (p *player) deal() error {
	res, err := p.engine.Start(p.ctx, p.opts.SessionID, p.opts.Environment)
	if err != nil {
		if msg, ok := domain.PlayerMessage(err); ok {
			return errors.New(msg)
		}
		return err
	}
	env, err := p.engine.Catalog().Lookup(res.Environment)
	if err != nil {
		return err
	}
	p.env = env

	intro := fmt.Sprintf("## %s\n\n", titleCase(env.Name))
	if env.Description != "" {
		intro += env.Description + "\n\n"
	}
	intro += fmt.Sprintf("Find the **%d pairs**. Type a card number to flip it, `help` for commands.\n", res.DeckSize/2)
	p.printMarkdown(intro)

	game, err := p.engine.Game(p.ctx, p.opts.SessionID)
	if err != nil {
		return err
	}
	return p.printBoard(game, nil)
}

// flip reports true once the deck is cleared.
func (p *player) flip(index int) (bool, error) {
	res, err := p.engine.Flip(p.ctx, p.opts.SessionID, index)
	if err != nil {
		if msg, ok := domain.PlayerMessage(err); ok {
			fmt.Fprintln(p.opts.Out, msg)
			return false, nil
		}
		return false, err
	}

	game, err := p.engine.Game(p.ctx, p.opts.SessionID)
	if err != nil {
		return false, err
	}

	var revealed []int
	if len(res.Pair) == 2 && !res.MatchedNow {
		revealed = res.Pair
	}
	if err := p.printBoard(game, revealed); err != nil {
		return false, err
	}

	switch {
	case res.MatchedNow:
		fmt.Fprintln(p.opts.Out, "Match!")
	case len(res.Pair) == 2:
		fmt.Fprintln(p.opts.Out, "No match.")
	}

	if !game.Complete() {
		return false, nil
	}

	score := game.Score(p.engine.Clock().Now())
	p.printMarkdown(fmt.Sprintf("## All pairs found!\n\n- Moves: **%d**\n- Time: **%s**\n",
		score.Moves, formatElapsed(score.Elapsed)))
	return true, nil
}

func (p *player) printBoard(game *domain.Game, revealed []int) error {
	view := tui.BoardView{
		Deck:     game.Deck,
		Matched:  game.Matched,
		Revealed: append(append([]int{}, game.Flipped...), revealed...),
		Colors:   p.env.Colors,
		Moves:    game.Moves,
	}
	_, err := fmt.Fprintln(p.opts.Out, tui.RenderBoard(view, p.opts.Profile))
	return err
}

func (p *player) printScore() error {
	score, err := p.engine.Score(p.ctx, p.opts.SessionID)
	if err != nil {
		if msg, ok := domain.PlayerMessage(err); ok {
			fmt.Fprintln(p.opts.Out, msg)
			return nil
		}
		return err
	}
	fmt.Fprintf(p.opts.Out, "Moves: %d  Time: %s  Pairs: %d/%d\n",
		score.Moves, formatElapsed(score.Elapsed), score.MatchedPairs, score.TotalPairs)
	return nil
}

func (p *player) printMarkdown(md string) {
	out, err := p.markdown(md)
	if err != nil {
		out = md
	}
	fmt.Fprintln(p.opts.Out, out)
}

// formatElapsed renders mm:ss like the browser timer.
func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// titleCase upper-cases the first character of s.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
