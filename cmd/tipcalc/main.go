// Command tipcalc computes tips and per-person splits from the terminal.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitzytip/internal/calculator"
	"github.com/mmynk/splitzytip/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tipcalc",
		Short: "Tip calculator and bill splitter",
		Long: `tipcalc works out the tip on a bill and splits the total between people.

Run without arguments to start the interactive calculator.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	root.AddCommand(newCalcCmd(), newTUICmd())
	return root
}

func newCalcCmd() *cobra.Command {
	var bill, people, tip, custom string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print the breakdown for one bill",
		Example: `  tipcalc calc --bill 100 --people 4 --tip 20
  tipcalc calc --bill 64.50 --tip custom --custom 12.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := calculator.ParseTipSelection(tip)
			if err != nil {
				return fmt.Errorf("--tip: %w (want one of 15, 18, 20, 25 or custom)", err)
			}
			if sel.IsCustom() && !cmd.Flags().Changed("custom") {
				return fmt.Errorf("--custom is required with --tip custom")
			}

			result := calculator.Compute(calculator.TipInput{
				BillAmount:  bill,
				PeopleCount: people,
				Tip:         sel,
				CustomTip:   custom,
			})
			printBreakdown(cmd, result)

			if !result.Valid {
				return fmt.Errorf("enter a bill amount greater than 0 and at least 1 person")
			}
			return nil
		},
	}

	reset := calculator.Reset()
	cmd.Flags().StringVar(&bill, "bill", reset.BillAmount, "bill amount in dollars")
	cmd.Flags().StringVar(&people, "people", reset.PeopleCount, "number of people splitting the bill")
	cmd.Flags().StringVar(&tip, "tip", reset.Tip.String(), "tip percentage: 15, 18, 20, 25 or custom")
	cmd.Flags().StringVar(&custom, "custom", reset.CustomTip, "custom tip percentage, used with --tip custom")
	_ = cmd.MarkFlagRequired("bill")
	return cmd
}

func printBreakdown(cmd *cobra.Command, r calculator.TipResult) {
	d := r.Display()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)

	pct := "?"
	if p := calculator.Finite(r.TipPercent); p == r.TipPercent {
		pct = fmt.Sprintf("%v%%", p)
	}
	fmt.Fprintf(w, "Tip (%s):\t%s\n", pct, d.TipAmount)
	fmt.Fprintf(w, "Total:\t%s\n", d.TotalAmount)
	fmt.Fprintf(w, "Tip per person:\t%s\n", d.TipPerPerson)
	fmt.Fprintf(w, "Total per person:\t%s\n", d.TotalPerPerson)
	_ = w.Flush()
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive calculator (ctrl+r resets)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
}

func runTUI() error {
	_, err := tea.NewProgram(tui.New(), tea.WithAltScreen()).Run()
	return err
}
