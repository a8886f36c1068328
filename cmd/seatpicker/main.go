package main

import (
	"fmt"
	"os"

	"busticket/internal/catalog"
	"busticket/internal/pricing"
	"busticket/internal/seating"
	"busticket/internal/tui"
	"busticket/internal/utils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		agencyID string
		from     string
		to       string
		busType  string
		sold     string
		fee      int64
	)

	root := &cobra.Command{
		Use:   "seatpicker",
		Short: "Pick bus seats from the terminal",
		Long:  "Browse an agency's seat map, select up to five seats and see the fare.",
		RunE: func(cmd *cobra.Command, args []string) error {
			agency, ok := catalog.FindAgency(agencyID)
			if !ok {
				return fmt.Errorf("unknown agency %q", agencyID)
			}
			m, err := tui.New(tui.Options{
				Agency:     agency,
				From:       from,
				To:         to,
				BusTypeID:  busType,
				Sold:       utils.SplitSeatList(sold),
				ServiceFee: fee,
			})
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(tui.Model); ok && len(fm.Selected()) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), tui.SummaryTable(fm.Session()))
			}
			return nil
		},
	}
	root.Flags().StringVar(&agencyID, "agency", "agency1", "agency id")
	root.Flags().StringVar(&from, "from", "", "departure city")
	root.Flags().StringVar(&to, "to", "", "destination city")
	root.Flags().StringVar(&busType, "bus-type", "", "bus type id (default: the agency's first)")
	root.Flags().StringVar(&sold, "sold", "", "comma separated seats already sold")
	root.Flags().Int64Var(&fee, "service-fee", pricing.DefaultServiceFee, "service fee in FCFA")

	root.AddCommand(layoutCmd(), agenciesCmd())
	return root
}

func layoutCmd() *cobra.Command {
	var (
		seats int
		sold  string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the seat layout for a capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := seating.Generate(seats)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.LayoutTable(m.WithSold(utils.SplitSeatList(sold))))
			return nil
		},
	}
	cmd.Flags().IntVar(&seats, "seats", 30, "passenger capacity")
	cmd.Flags().StringVar(&sold, "sold", "", "comma separated seats already sold")
	return cmd
}

func agenciesCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "agencies",
		Short: "List agencies, optionally serving a route",
		Run: func(cmd *cobra.Command, args []string) {
			for _, a := range catalog.FilterAgencies(from, to) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-22s %s\n", a.ID, a.Name, a.Location)
			}
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "departure city")
	cmd.Flags().StringVar(&to, "to", "", "destination city")
	return cmd
}
