package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

var predictionColumns = []string{
	"id", "symbol", "news_headline", "sentiment", "current_price", "predicted_price",
	"change_percent", "direction", "confidence", "sma_short", "sma_long", "rsi",
	"volatility", "method", "created_at",
}

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	query, args, err := psql.Insert("predictions").
		Columns(predictionColumns[1:14]...).
		Values(p.Symbol, p.NewsHeadline, string(p.Sentiment), p.CurrentPrice, p.PredictedPrice,
			p.ChangePercent, p.Direction, p.Confidence, p.SMAShort, p.SMALong, p.RSI,
			p.Volatility, p.Method).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt)
}

// List returns predictions newest first. An empty symbol lists all symbols.
func (r *PredictionRepository) List(ctx context.Context, symbol string, limit, offset int) ([]model.Prediction, error) {
	q := psql.Select(predictionColumns...).
		From("predictions").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if symbol != "" {
		q = q.Where(sq.Eq{"symbol": strings.ToUpper(symbol)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := []model.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return predictions, nil
}

func (r *PredictionRepository) Latest(ctx context.Context, symbol string) (*model.Prediction, error) {
	q := psql.Select(predictionColumns...).
		From("predictions").
		OrderBy("created_at DESC", "id DESC").
		Limit(1)
	if symbol != "" {
		q = q.Where(sq.Eq{"symbol": strings.ToUpper(symbol)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanPrediction(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *PredictionRepository) Total(ctx context.Context, symbol string) (int, error) {
	q := psql.Select("COUNT(*)").From("predictions")
	if symbol != "" {
		q = q.Where(sq.Eq{"symbol": strings.ToUpper(symbol)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

func scanPrediction(row rowScanner) (*model.Prediction, error) {
	var p model.Prediction
	var sentiment string
	err := row.Scan(
		&p.ID, &p.Symbol, &p.NewsHeadline, &sentiment, &p.CurrentPrice, &p.PredictedPrice,
		&p.ChangePercent, &p.Direction, &p.Confidence, &p.SMAShort, &p.SMALong, &p.RSI,
		&p.Volatility, &p.Method, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Sentiment = model.Sentiment(sentiment)
	return &p, nil
}
