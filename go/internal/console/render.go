package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mcdev12/turnclock/go/internal/turn"
)

// Render prints the table. While editing players are listed by number;
// during a session the current player comes first.
func Render(w io.Writer, s turn.State) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "-- %s --\n", s.Phase())
	if !s.IsRunning {
		for i, p := range s.Players {
			fmt.Fprintf(tw, "%d.\t%s\t%s\n", i+1, displayName(p.Name), turn.FormatTime(p.Time))
		}
		return
	}
	for i, p := range s.TurnOrder() {
		label := "Current Player"
		if i > 0 {
			label = fmt.Sprintf("Next Player %d", i)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", label, displayName(p.Name), turn.FormatTime(p.Time))
	}
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
