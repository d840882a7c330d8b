package store

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/models"
	"option-payoff/internal/payoff"
)

// LegRecord is the flat row form of a leg, shared by the legs table and the
// CSV import/export format. Strike is ignored for underlying rows; Price is
// the premium for options and the entry price for underlyings.
type LegRecord struct {
	Category string  `csv:"category"`
	Strike   float64 `csv:"strike"`
	Quantity int     `csv:"quantity"`
	Side     string  `csv:"side"`
	Price    float64 `csv:"price"`
}

// RecordsFromBook flattens a book: calls, then puts, then underlyings, each
// in entry order.
func RecordsFromBook(b payoff.Book) []LegRecord {
	var out []LegRecord
	for _, leg := range b.Options() {
		out = append(out, LegRecord{
			Category: string(categoryOf(leg.Kind)),
			Strike:   leg.Strike,
			Quantity: leg.Quantity,
			Side:     string(leg.Side),
			Price:    leg.Premium,
		})
	}
	for _, leg := range b.Underlyings.Legs() {
		out = append(out, LegRecord{
			Category: string(models.CategoryUnderlying),
			Quantity: leg.Quantity,
			Side:     string(leg.Side),
			Price:    leg.Price,
		})
	}
	return out
}

func categoryOf(kind models.OptionKind) models.Category {
	if kind == models.Put {
		return models.CategoryPut
	}
	return models.CategoryCall
}

// applyTo validates the record and appends it to the matching portfolio.
func (r LegRecord) applyTo(b payoff.Book) (payoff.Book, error) {
	category, ok := models.ParseCategory(r.Category)
	if !ok {
		return b, apperrors.NewInvalidLegError("category", r.Category, "must be CALL, PUT or UNDERLYING")
	}
	side := models.ParseSide(r.Side)
	if kind, isOption := category.Kind(); isOption {
		return b.AddOption(models.OptionLeg{
			Kind:     kind,
			Strike:   r.Strike,
			Quantity: r.Quantity,
			Side:     side,
			Premium:  r.Price,
		})
	}
	return b.AddUnderlying(models.UnderlyingLeg{
		Quantity: r.Quantity,
		Side:     side,
		Price:    r.Price,
	})
}

// BookFromRecords rebuilds a book, reporting the first invalid row by its
// 1-based data row number.
func BookFromRecords(records []LegRecord) (payoff.Book, error) {
	var b payoff.Book
	for i, r := range records {
		next, err := r.applyTo(b)
		if err != nil {
			return payoff.Book{}, apperrors.NewRowError(i+1, err)
		}
		b = next
	}
	return b, nil
}

// ReadCSV parses legs from CSV with a category,strike,quantity,side,price header.
func ReadCSV(r io.Reader) (payoff.Book, error) {
	var records []LegRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return payoff.Book{}, apperrors.Wrap(apperrors.ErrInputValidation, fmt.Sprintf("parsing csv: %v", err))
	}
	return BookFromRecords(records)
}

// WriteCSV writes the legs of a book as CSV.
func WriteCSV(w io.Writer, b payoff.Book) error {
	records := RecordsFromBook(b)
	if records == nil {
		records = []LegRecord{}
	}
	return gocsv.Marshal(&records, w)
}

// ImportCSV reads a leg file from disk.
func ImportCSV(path string) (payoff.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return payoff.Book{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ExportCSV writes the legs of a book to disk, replacing the file.
func ExportCSV(path string, b payoff.Book) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, b); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
