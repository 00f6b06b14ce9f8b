package game

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

const emptySlot = "-"

// RenderBoards draws both boards of a snapshot as a text table, the viewer's
// own board last.
func RenderBoards(s MatchSnapshot, viewer string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Turn %d, %s to play (%s)\n", s.Turn, s.ActivePlayer, s.Phase)

	ordered := make([]BoardSnapshot, 0, len(s.Boards))
	var own *BoardSnapshot
	for i := range s.Boards {
		if s.Boards[i].Player == viewer {
			own = &s.Boards[i]
			continue
		}
		ordered = append(ordered, s.Boards[i])
	}
	if own != nil {
		ordered = append(ordered, *own)
	}

	for _, b := range ordered {
		renderBoard(&sb, b)
	}
	return sb.String()
}

func renderBoard(sb *strings.Builder, b BoardSnapshot) {
	fmt.Fprintf(sb, "\n%s  LP:%d  energy:%d/%d  hand:%d  deck:%d\n",
		b.Player, b.LifePoints, b.UntappedEnergy, b.TotalEnergy, b.HandSize, b.DeckSize)

	w := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tMonsters\tSpells")
	rows := len(b.Monsters)
	if len(b.Spells) > rows {
		rows = len(b.Spells)
	}
	for i := 0; i < rows; i++ {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, slot(b.Monsters[:], i), slot(b.Spells[:], i))
	}
	w.Flush()
}

func slot(views []string, i int) string {
	if i >= len(views) || views[i] == "" {
		return emptySlot
	}
	return views[i]
}

// RenderHand lists a hand with the positions players answer with.
func RenderHand(h HandSnapshot) string {
	var sb strings.Builder
	sb.WriteString("Here is your hand:\n")
	for i, c := range h.Cards {
		fmt.Fprintf(&sb, "%d__%s\n", i, c)
	}
	return sb.String()
}
