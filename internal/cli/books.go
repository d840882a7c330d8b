package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"option-payoff/internal/store"
)

// addBookCommands adds book management and analysis history.
func addBookCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBooksCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
}

func newBooksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List saved books",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			s, err := app.Store()
			if err != nil {
				return fail(output, err)
			}
			books, err := s.ListBooks(cmd.Context())
			if err != nil {
				return fail(output, err)
			}

			if output.IsJSON() {
				if books == nil {
					books = []store.BookInfo{}
				}
				return output.JSON(books)
			}

			if len(books) == 0 {
				output.Info("No books saved yet")
				return nil
			}

			current := app.bookName(cmd)
			table := NewTable(output, "", "BOOK", "LEGS", "UPDATED")
			for _, b := range books {
				marker := ""
				if b.Name == current {
					marker = "*"
				}
				table.AddRow(marker, b.Name, fmt.Sprintf("%d", b.Legs), FormatDateTime(b.UpdatedAt))
			}
			table.Render()
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a book and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			s, err := app.Store()
			if err != nil {
				return fail(output, err)
			}
			if err := s.DeleteBook(cmd.Context(), args[0]); err != nil {
				return fail(output, err)
			}
			app.Logger.Info().Str("book", args[0]).Msg("Book deleted")
			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Deleted book %s", args[0])
			return nil
		},
	})

	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limit    int
		strategy string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved analyses of the book",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			s, err := app.Store()
			if err != nil {
				return fail(output, err)
			}

			filter := store.HistoryFilter{Strategy: strategy, Limit: limit}
			if !all {
				filter.Book = app.bookName(cmd)
			}
			records, err := s.History(cmd.Context(), filter)
			if err != nil {
				return fail(output, err)
			}

			if output.IsJSON() {
				if records == nil {
					records = []store.AnalysisRecord{}
				}
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Info("No saved analyses")
				output.Dim("Save one with 'payoff analyze --save'")
				return nil
			}

			table := NewTable(output, "TIME", "BOOK", "STRATEGY", "BREAK-EVEN", "LEGS", "MAX", "MIN")
			for _, r := range records {
				table.AddRow(
					FormatDateTime(r.Timestamp),
					r.Book,
					r.Strategy.String(),
					TruncateString(FormatPrices(r.BreakEvens), 24),
					fmt.Sprintf("%d", r.Legs),
					output.FormatPnL(r.MaxPnL),
					output.FormatPnL(r.MinPnL),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	cmd.Flags().StringVar(&strategy, "strategy", "", "only show this strategy, e.g. \"Straddle\"")
	cmd.Flags().BoolVar(&all, "all", false, "show every book")

	return cmd
}

