package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/logging"
	"option-payoff/internal/models"
	"option-payoff/internal/payoff"
	"option-payoff/internal/store"
)

// addLegCommands adds the commands that edit a book.
func addLegCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "leg",
		Short: "Edit the legs of a book",
		Long: `Add, undo, swap and reset legs of the selected book.

Categories are call, put and underlying. Every change is saved immediately.`,
	}

	cmd.AddCommand(newLegAddCmd(app))
	cmd.AddCommand(newLegUndoCmd(app))
	cmd.AddCommand(newLegSwapCmd(app))
	cmd.AddCommand(newLegResetCmd(app))
	cmd.AddCommand(newLegListCmd(app))
	cmd.AddCommand(newLegImportCmd(app))
	cmd.AddCommand(newLegExportCmd(app))

	rootCmd.AddCommand(cmd)
}

func parseCategoryArg(arg string) (models.Category, error) {
	c, ok := models.ParseCategory(arg)
	if !ok {
		return "", apperrors.Wrap(apperrors.ErrInputValidation, fmt.Sprintf("unknown category %q (want call, put or underlying)", arg))
	}
	return c, nil
}

// mutateBook loads the selected book, applies fn, saves and logs the change.
func (a *App) mutateBook(cmd *cobra.Command, action string, category models.Category, fn func(payoff.Book) (payoff.Book, error)) (payoff.Book, error) {
	ctx := cmd.Context()
	name, book, err := a.loadBook(ctx, cmd)
	if err != nil {
		return book, err
	}

	book, err = fn(book)
	if err != nil {
		return book, err
	}

	if err := a.saveBook(ctx, name, book); err != nil {
		return book, err
	}

	logger := logging.WithOperation(logging.WithBook(a.Logger, name), "leg_"+action)
	logging.LogLegChange(logger, action, string(category), book.Len(category))
	return book, nil
}

func newLegAddCmd(app *App) *cobra.Command {
	var (
		strike float64
		qty    int
		side   string
		price  float64
	)

	cmd := &cobra.Command{
		Use:   "add <call|put|underlying>",
		Short: "Add a leg",
		Long: `Add a leg to the book.

For options --price is the premium per contract and --strike is required.
For underlyings --price is the entry price and --strike is ignored.`,
		Example: `  payoff leg add call --strike 95 --qty 1 --side buy --price 6.25
  payoff leg add put --strike 105 --qty 2 --side sell --price 7.75
  payoff leg add underlying --qty 2 --side sell --price 98`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			category, err := parseCategoryArg(args[0])
			if err != nil {
				return fail(output, err)
			}

			book, err := app.mutateBook(cmd, "add", category, func(b payoff.Book) (payoff.Book, error) {
				if kind, ok := category.Kind(); ok {
					return b.AddOption(models.OptionLeg{
						Kind:     kind,
						Strike:   strike,
						Quantity: qty,
						Side:     models.ParseSide(side),
						Premium:  price,
					})
				}
				return b.AddUnderlying(models.UnderlyingLeg{
					Quantity: qty,
					Side:     models.ParseSide(side),
					Price:    price,
				})
			})
			if err != nil {
				return fail(output, err)
			}

			if output.IsJSON() {
				return output.JSON(legsView(book))
			}
			output.Success("✓ Added %s leg (%d in %s)", strings.ToLower(category.Label()), book.Len(category), app.bookName(cmd))
			return nil
		},
	}

	cmd.Flags().Float64Var(&strike, "strike", 0, "strike price (options)")
	cmd.Flags().IntVar(&qty, "qty", 1, "number of contracts")
	cmd.Flags().StringVar(&side, "side", "buy", "buy or sell")
	cmd.Flags().Float64Var(&price, "price", 0, "premium (options) or entry price (underlying)")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newLegUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <category>",
		Short: "Remove the last leg of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			category, err := parseCategoryArg(args[0])
			if err != nil {
				return fail(output, err)
			}
			book, err := app.mutateBook(cmd, "undo", category, func(b payoff.Book) (payoff.Book, error) {
				return b.RemoveLast(category)
			})
			if err != nil {
				return fail(output, err)
			}
			if output.IsJSON() {
				return output.JSON(legsView(book))
			}
			output.Success("✓ %s legs: %d", category.Label(), book.Len(category))
			return nil
		},
	}
}

func newLegSwapCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "swap <category>",
		Short: "Flip buy and sell on every leg of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			category, err := parseCategoryArg(args[0])
			if err != nil {
				return fail(output, err)
			}
			book, err := app.mutateBook(cmd, "swap", category, func(b payoff.Book) (payoff.Book, error) {
				return b.SwapSides(category)
			})
			if err != nil {
				return fail(output, err)
			}
			if output.IsJSON() {
				return output.JSON(legsView(book))
			}
			output.Success("✓ Swapped sides of %d %s legs", book.Len(category), strings.ToLower(category.Label()))
			return nil
		},
	}
}

func newLegResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [category]",
		Short: "Remove all legs of a category, or of the whole book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			categories := models.Categories
			if len(args) == 1 {
				category, err := parseCategoryArg(args[0])
				if err != nil {
					return fail(output, err)
				}
				categories = []models.Category{category}
			}

			var book payoff.Book
			for _, category := range categories {
				var err error
				book, err = app.mutateBook(cmd, "reset", category, func(b payoff.Book) (payoff.Book, error) {
					return b.Reset(category)
				})
				if err != nil {
					return fail(output, err)
				}
			}

			if output.IsJSON() {
				return output.JSON(legsView(book))
			}
			if len(categories) == 1 {
				output.Success("✓ Reset %s legs", strings.ToLower(categories[0].Label()))
			} else {
				output.Success("✓ Reset book %s", app.bookName(cmd))
			}
			return nil
		},
	}
}

// bookLegs is the JSON shape of a book listing.
type bookLegs struct {
	Calls       []models.OptionLeg     `json:"calls"`
	Puts        []models.OptionLeg     `json:"puts"`
	Underlyings []models.UnderlyingLeg `json:"underlyings"`
}

func legsView(b payoff.Book) bookLegs {
	return bookLegs{
		Calls:       nonNil(b.Calls.Legs()),
		Puts:        nonNil(b.Puts.Legs()),
		Underlyings: nonNil(b.Underlyings.Legs()),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func newLegListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the legs of the book",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			name, book, err := app.loadBook(cmd.Context(), cmd)
			if err != nil {
				return fail(output, err)
			}

			if output.IsJSON() {
				return output.JSON(legsView(book))
			}

			if book.IsEmpty() {
				output.Info("Book %s is empty", name)
				output.Dim("Add legs with 'payoff leg add'")
				return nil
			}

			output.Bold("Book: %s", name)
			output.Println()
			table := NewTable(output, "#", "CATEGORY", "SIDE", "QTY", "STRIKE", "PRICE")
			n := 0
			for _, leg := range book.Options() {
				n++
				table.AddRow(
					fmt.Sprintf("%d", n),
					leg.Kind.Label(),
					sideText(output, leg.Side),
					fmt.Sprintf("%d", leg.Quantity),
					FormatPrice(leg.Strike),
					output.Money(leg.Premium),
				)
			}
			for _, leg := range book.Underlyings.Legs() {
				n++
				table.AddRow(
					fmt.Sprintf("%d", n),
					"Underlying",
					sideText(output, leg.Side),
					fmt.Sprintf("%d", leg.Quantity),
					"-",
					output.Money(leg.Price),
				)
			}
			table.Render()
			return nil
		},
	}
}

func sideText(output *Output, side models.Side) string {
	if side == models.SideBuy {
		return output.Green(string(side))
	}
	return output.Red(string(side))
}

func newLegImportCmd(app *App) *cobra.Command {
	var appendLegs bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import legs from a CSV file",
		Long: `Import legs from a CSV file with the header
category,strike,quantity,side,price

By default the book is replaced; use --append to add to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			imported, err := store.ImportCSV(args[0])
			if err != nil {
				return fail(output, err)
			}

			ctx := cmd.Context()
			name, book, err := app.loadBook(ctx, cmd)
			if err != nil {
				return fail(output, err)
			}
			if appendLegs {
				book, err = payoff.NewBook(
					append(book.Options(), imported.Options()...),
					append(book.Underlyings.Legs(), imported.Underlyings.Legs()...),
				)
				if err != nil {
					return fail(output, err)
				}
			} else {
				book = imported
			}
			if err := app.saveBook(ctx, name, book); err != nil {
				return fail(output, err)
			}

			logger := logging.WithOperation(logging.WithBook(app.Logger, name), "leg_import")
			for _, category := range models.Categories {
				logging.LogLegChange(logger, "import", string(category), book.Len(category))
			}

			if output.IsJSON() {
				return output.JSON(legsView(book))
			}
			output.Success("✓ Imported %d legs from %s", len(imported.Options())+imported.Underlyings.Len(), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&appendLegs, "append", false, "append to the book instead of replacing it")
	return cmd
}

func newLegExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Export the book to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			name, book, err := app.loadBook(cmd.Context(), cmd)
			if err != nil {
				return fail(output, err)
			}
			if err := store.ExportCSV(args[0], book); err != nil {
				return fail(output, err)
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"book": name, "path": args[0]})
			}
			output.Success("✓ Exported %s to %s", name, args[0])
			return nil
		},
	}
}
