package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

type QuoteRepository struct {
	db *sql.DB
}

func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Upsert keeps one row per symbol holding the latest snapshot.
func (r *QuoteRepository) Upsert(ctx context.Context, q *model.Quote) error {
	query, args, err := psql.Insert("stock_quotes").
		Columns("symbol", "price", "previous_close", "change", "change_percent", "volume", "currency", "exchange", "fetched_at").
		Values(q.Symbol, q.Price, q.PreviousClose, q.Change, q.ChangePercent, q.Volume, q.Currency, q.Exchange, q.FetchedAt).
		Suffix(`ON CONFLICT (symbol) DO UPDATE SET
			price = EXCLUDED.price,
			previous_close = EXCLUDED.previous_close,
			change = EXCLUDED.change,
			change_percent = EXCLUDED.change_percent,
			volume = EXCLUDED.volume,
			currency = EXCLUDED.currency,
			exchange = EXCLUDED.exchange,
			fetched_at = EXCLUDED.fetched_at,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert quote %s: %w", q.Symbol, err)
	}
	return nil
}
