// Package report prints multi generations as console tables.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

// Console writes generations to out
type Console struct {
	out io.Writer
}

// NewConsole creates a console reporter
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// PrintGeneration prints a summary line and one table per multi
func (c *Console) PrintGeneration(resp models.MultiResponse) {
	fmt.Fprintf(c.out, "\n[%s] generation %s: %d outcomes at p >= %.2f\n",
		resp.GeneratedAt.UTC().Format("2006-01-02 15:04:05"), resp.ID,
		resp.TotalOutcomesAvailable, resp.MinProbability)

	for _, t := range models.AllMultiTypes {
		m, _ := resp.Multis.ByType(t)
		c.PrintMulti(m)
	}
}

// PrintMulti prints one multi's legs and totals
func (c *Console) PrintMulti(m models.GeneratedMulti) {
	fmt.Fprintf(c.out, "\n%s (%d legs) @ %s\n", m.Type, len(m.Legs), m.Bookmaker)
	if m.Warning != "" {
		fmt.Fprintf(c.out, "  ! %s\n", m.Warning)
	}
	if len(m.Legs) == 0 {
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Sport", "Match", "Selection", "P", "Edge", "Odds", "Kickoff")

	for i, leg := range m.Legs {
		odds := fmt.Sprintf("%.2f", leg.Odds)
		if american, err := oddsmath.DecimalToAmerican(leg.Odds); err == nil {
			odds += fmt.Sprintf(" (%+d)", american)
		}
		if leg.AverageUsed {
			odds += "*"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			leg.Sport,
			fmt.Sprintf("%s v %s", leg.HomeTeam, leg.AwayTeam),
			leg.SelectionLabel,
			fmt.Sprintf("%.1f%%", leg.TrueProbability*100),
			fmt.Sprintf("%+.2f%%", leg.Edge*100),
			odds,
			leg.CommenceTime.UTC().Format("Jan 2 15:04"),
		)
	}

	table.Render()

	verdict := "-EV"
	if oddsmath.IsPositiveEV(m.SuccessProbability, m.TotalOdds) {
		verdict = "+EV"
	}
	fmt.Fprintf(c.out, "  Total odds %.2f | P(win) %.2f%% | EV %+.2f%% (%s) | Kelly %.2f%%\n",
		m.TotalOdds, m.SuccessProbability*100, m.ExpectedValue*100, verdict, m.KellyFraction*100)
	if m.Degraded {
		fmt.Fprintln(c.out, "  * average odds, leg not priced by this bookmaker")
	}
}
