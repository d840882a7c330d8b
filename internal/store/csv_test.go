package store

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/models"
)

func TestReadCSV(t *testing.T) {
	input := `category,strike,quantity,side,price
call,95,1,buy,6.25
PUT,105,2,sell,7.75
underlying,0,2,sell,98
`
	book, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 1, book.Len(models.CategoryCall))
	assert.Equal(t, models.OptionLeg{Kind: models.Call, Strike: 95, Quantity: 1, Side: models.SideBuy, Premium: 6.25}, book.Calls.Legs()[0])
	assert.Equal(t, models.SideSell, book.Puts.Legs()[0].Side)
	assert.Equal(t, models.UnderlyingLeg{Quantity: 2, Side: models.SideSell, Price: 98}, book.Underlyings.Legs()[0])
}

func TestReadCSV_ReportsRow(t *testing.T) {
	input := `category,strike,quantity,side,price
call,95,1,buy,6.25
put,105,2,hold,7.75
`
	_, err := ReadCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidLeg)

	var rowErr *apperrors.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
}

func TestReadCSV_UnknownCategory(t *testing.T) {
	input := "category,strike,quantity,side,price\nfuture,100,1,buy,5\n"
	_, err := ReadCSV(strings.NewReader(input))
	assert.ErrorIs(t, err, apperrors.ErrInvalidLeg)
}

func TestCSV_ExportImport(t *testing.T) {
	book := sampleBook(t)
	path := filepath.Join(t.TempDir(), "legs.csv")

	require.NoError(t, ExportCSV(path, book))
	loaded, err := ImportCSV(path)
	require.NoError(t, err)

	assert.Equal(t, RecordsFromBook(book), RecordsFromBook(loaded))
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleBook(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "category,strike,quantity,side,price", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "CALL,95,1,BUY,"))
	assert.Len(t, lines, 5)
}

func TestImportCSV_MissingFile(t *testing.T) {
	_, err := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
