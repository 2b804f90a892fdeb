// Package console drives a game session from line-oriented text commands
// and renders the table as plain text.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/podtracker/lifetracker-go/internal/game"
	"github.com/podtracker/lifetracker-go/internal/identity"
	"go.uber.org/zap"
)

var (
	// ErrQuit is returned by Execute when the user asks to leave.
	ErrQuit = errors.New("quit")
	// ErrUnknownCommand is returned for commands the console does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command's arguments cannot be parsed.
	ErrUsage = errors.New("usage")
)

// Console translates commands into engine operations.
type Console struct {
	engine *game.Engine
	roller *game.DiceRoller
	out    io.Writer
	logger *zap.Logger
	now    func() time.Time
}

// New creates a console writing to out.
func New(engine *game.Engine, roller *game.DiceRoller, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	if roller == nil {
		roller = game.NewDiceRoller(engine, nil)
	}
	return &Console{
		engine: engine,
		roller: roller,
		out:    out,
		logger: logger,
		now:    time.Now,
	}
}

// Run reads commands from in until EOF, "quit" or ctx is cancelled.
// Command errors are reported to the user and do not stop the loop.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			err := c.Execute(line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				c.logger.Debug("command rejected", zap.String("line", line), zap.Error(err))
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
			c.prompt()
		}
	}
}

func (c *Console) prompt() {
	fmt.Fprint(c.out, "> ")
}

type command struct {
	usage string
	help  string
	run   func(c *Console, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"life":       {"life <seat> <delta>", "change life", seatDelta((*game.Engine).AdjustLife)},
		"setlife":    {"setlife <seat> <value>", "set life", seatDelta((*game.Engine).SetLife)},
		"poison":     {"poison <seat> <delta>", "change poison counters", seatDelta((*game.Engine).AdjustPoison)},
		"exp":        {"exp <seat> <delta>", "change experience counters", seatDelta((*game.Engine).AdjustExperience)},
		"energy":     {"energy <seat> <delta>", "change energy counters", seatDelta((*game.Engine).AdjustEnergy)},
		"cmdr":       {"cmdr <target> <source> <delta>", "commander damage from source to target", runCommanderDamage},
		"land":       {"land <seat>", "toggle land drop", seatOnly((*game.Engine).ToggleLandPlayed)},
		"draw":       {"draw <seat> [n]", "count cards drawn this turn", runDraw},
		"stack":      {"stack <delta>", "change the spell stack", runStack},
		"clear":      {"clear", "resolve the whole stack", noArgs((*game.Engine).ClearSpellStack)},
		"next":       {"next", "pass the turn", noArgs((*game.Engine).NextTurn)},
		"active":     {"active <seat>", "set the active player", runActive},
		"day":        {"day", "toggle day and night", noArgs((*game.Engine).ToggleDayNight)},
		"monarch":    {"monarch <seat|none>", "set the monarch", holder((*game.Engine).SetMonarch)},
		"initiative": {"initiative <seat|none>", "set the initiative", holder((*game.Engine).SetInitiative)},
		"elim":       {"elim <seat>", "toggle elimination", seatOnly((*game.Engine).ToggleEliminated)},
		"undo":       {"undo", "undo the last change", noArgs((*game.Engine).UndoLastAction)},
		"reset":      {"reset", "start a new game", noArgs((*game.Engine).ResetGame)},
		"name":       {"name <seat> <name>", "rename a player", runName},
		"color":      {"color <seat> <#rrggbb>", "recolor a player", runColor},
		"startlife":  {"startlife <life>", "starting life for the next game", runStartingLife},
		"roll":       {"roll <sides>", "roll a die", runRoll},
		"coin":       {"coin", "flip a coin", runCoin},
		"log":        {"log [n]", "show the action log", runLog},
		"show":       {"show", "show the table", runShow},
		"help":       {"help", "list commands", runHelp},
		"quit":       {"quit", "leave", func(*Console, []string) error { return ErrQuit }},
	}
}

// Execute runs a single command line.
func (c *Console) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w %q, try help", ErrUnknownCommand, name)
	}
	if err := cmd.run(c, fields[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
		}
		return err
	}
	return nil
}

// seat parses a 1-based seat number into a player id.
func seat(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > game.SeatCount {
		return "", ErrUsage
	}
	return identity.SeatID(n - 1), nil
}

func number(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "+"))
	if err != nil {
		return 0, ErrUsage
	}
	return n, nil
}

func noArgs(op func(*game.Engine)) func(*Console, []string) error {
	return func(c *Console, args []string) error {
		if len(args) != 0 {
			return ErrUsage
		}
		op(c.engine)
		return nil
	}
}

func seatOnly(op func(*game.Engine, string)) func(*Console, []string) error {
	return func(c *Console, args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		id, err := seat(args[0])
		if err != nil {
			return err
		}
		op(c.engine, id)
		return nil
	}
}

func seatDelta(op func(*game.Engine, string, int)) func(*Console, []string) error {
	return func(c *Console, args []string) error {
		if len(args) != 2 {
			return ErrUsage
		}
		id, err := seat(args[0])
		if err != nil {
			return err
		}
		n, err := number(args[1])
		if err != nil {
			return err
		}
		op(c.engine, id, n)
		return nil
	}
}

func holder(op func(*game.Engine, string)) func(*Console, []string) error {
	return func(c *Console, args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		if strings.EqualFold(args[0], "none") {
			op(c.engine, "")
			return nil
		}
		id, err := seat(args[0])
		if err != nil {
			return err
		}
		op(c.engine, id)
		return nil
	}
}

func runCommanderDamage(c *Console, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	target, err := seat(args[0])
	if err != nil {
		return err
	}
	source, err := seat(args[1])
	if err != nil {
		return err
	}
	n, err := number(args[2])
	if err != nil {
		return err
	}
	c.engine.AdjustCommanderDamage(target, source, n)
	return nil
}

func runDraw(c *Console, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	id, err := seat(args[0])
	if err != nil {
		return err
	}
	n := 1
	if len(args) == 2 {
		if n, err = number(args[1]); err != nil {
			return err
		}
	}
	c.engine.AdjustCardsDrawn(id, n)
	return nil
}

func runStack(c *Console, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	n, err := number(args[0])
	if err != nil {
		return err
	}
	c.engine.AdjustSpellStack(n)
	return nil
}

func runActive(c *Console, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	n, err := number(args[0])
	if err != nil {
		return err
	}
	c.engine.SetActivePlayer(n - 1)
	return nil
}

func runName(c *Console, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := seat(args[0])
	if err != nil {
		return err
	}
	c.engine.UpdatePlayerName(id, strings.Join(args[1:], " "))
	return nil
}

func runColor(c *Console, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	id, err := seat(args[0])
	if err != nil {
		return err
	}
	c.engine.UpdatePlayerColor(id, args[1])
	return nil
}

func runStartingLife(c *Console, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	n, err := number(args[0])
	if err != nil || n <= 0 {
		return ErrUsage
	}
	c.engine.UpdateStartingLife(n)
	return nil
}

func runRoll(c *Console, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	sides, err := number(strings.TrimPrefix(strings.ToLower(args[0]), "d"))
	if err != nil {
		return err
	}
	result, err := c.roller.Roll(sides)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "d%d: %d\n", sides, result)
	return nil
}

func runCoin(c *Console, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if c.roller.FlipCoin() {
		fmt.Fprintln(c.out, "heads")
	} else {
		fmt.Fprintln(c.out, "tails")
	}
	return nil
}

func runLog(c *Console, args []string) error {
	limit := 10
	if len(args) > 1 {
		return ErrUsage
	}
	if len(args) == 1 {
		n, err := number(args[0])
		if err != nil || n < 1 {
			return ErrUsage
		}
		limit = n
	}
	return RenderLog(c.out, c.engine.Log(), limit)
}

func runShow(c *Console, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return RenderView(c.out, c.engine.View(c.now()))
}

func runHelp(c *Console, args []string) error {
	return RenderHelp(c.out)
}
