// Package store provides persistence for named leg books and saved analyses.
package store

import (
	"context"
	"time"

	"option-payoff/internal/payoff"
)

// BookStore defines the interface for book persistence.
type BookStore interface {
	// Books
	LoadBook(ctx context.Context, name string) (payoff.Book, error)
	SaveBook(ctx context.Context, name string, book payoff.Book) error
	ListBooks(ctx context.Context) ([]BookInfo, error)
	DeleteBook(ctx context.Context, name string) error

	// Analysis history
	RecordAnalysis(ctx context.Context, book string, analysis *payoff.Analysis) (*AnalysisRecord, error)
	History(ctx context.Context, filter HistoryFilter) ([]AnalysisRecord, error)

	Close() error
}

// BookInfo summarizes a stored book.
type BookInfo struct {
	Name      string    `json:"name"`
	Legs      int       `json:"legs"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnalysisRecord is one saved analysis.
type AnalysisRecord struct {
	ID         string             `json:"id"`
	Book       string             `json:"book"`
	Timestamp  time.Time          `json:"timestamp"`
	Strategy   payoff.Strategy    `json:"strategy"`
	BreakEvens []float64          `json:"break_even_points"`
	Risk       payoff.RiskSummary `json:"risk"`
	Legs       int                `json:"legs"`
	MaxPnL     float64            `json:"max_pnl_on_ladder"`
	MinPnL     float64            `json:"min_pnl_on_ladder"`
}

// HistoryFilter holds filter options for querying saved analyses.
type HistoryFilter struct {
	Book     string
	Strategy string
	Limit    int
}
