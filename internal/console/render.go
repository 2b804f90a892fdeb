package console

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/podtracker/lifetracker-go/internal/game"
)

// RenderView writes the table: one row per seat, then turn and stack status.
func RenderView(w io.Writer, v game.SessionView) error {
	phase := "day"
	if !v.IsDay {
		phase = "night"
	}
	fmt.Fprintf(w, "Turn %d  %s  stack %d  elapsed %s\n",
		v.TurnNumber, phase, v.SpellStackCount, v.Elapsed.Truncate(time.Second))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tSEAT\tNAME\tLIFE\tPOISON\tEXP\tENERGY\tLAND\tDRAWN\tSTATUS")
	for i, p := range v.Players {
		marker := " "
		if p.Active {
			marker = "*"
		}
		land := "-"
		if p.LandPlayedThisTurn {
			land = "used"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%d\t%d\t%s\t%d\t%s\n",
			marker, i+1, p.Name, p.Life, p.Poison, p.Experience, p.Energy,
			land, p.CardsDrawnThisTurn, status(p))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	for _, p := range v.Players {
		for _, warn := range p.Warnings {
			fmt.Fprintf(w, "! %s: %s\n", p.Name, warn.Message)
		}
	}
	return nil
}

func status(p game.PlayerView) string {
	var tags []string
	if p.IsEliminated {
		tags = append(tags, "eliminated")
	}
	if p.Monarch {
		tags = append(tags, "monarch")
	}
	if p.Initiative {
		tags = append(tags, "initiative")
	}
	return strings.Join(tags, ",")
}

// RenderLog writes up to limit entries, newest first.
func RenderLog(w io.Writer, entries []game.LogEntry, limit int) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "(no actions yet)")
		return err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("15:04:05"), e.Category, e.PlayerName, e.Action)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render log: %w", err)
	}
	return nil
}

// RenderHelp lists every command.
func RenderHelp(w io.Writer) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(tw, "%s\t%s\n", cmd.usage, cmd.help)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render help: %w", err)
	}
	return nil
}
