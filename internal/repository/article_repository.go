package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/model"
)

const (
	DefaultSearchLimit = 30
	MaxSearchLimit     = 100
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id", "headline", "content", "source", "url", "published_at",
	"sentiment", "ticker", "created_at", "updated_at",
}

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ExistingURLs reports which of urls are already stored.
func (r *ArticleRepository) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(urls) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT url FROM news_articles WHERE url = ANY($1)
	`, pq.StringArray(urls))
	if err != nil {
		return nil, fmt.Errorf("query existing urls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[u] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// InsertBatch stores all articles in one transaction. Either every row lands
// or none does. The returned slice carries generated IDs and timestamps.
func (r *ArticleRepository) InsertBatch(ctx context.Context, articles []model.NewsArticle) ([]model.NewsArticle, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	inserted := make([]model.NewsArticle, 0, len(articles))
	for _, a := range articles {
		query, args, err := buildInsertQuery(a)
		if err != nil {
			return nil, fmt.Errorf("build insert: %w", err)
		}

		if err := tx.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("insert %q: %w", a.Headline, err)
		}
		inserted = append(inserted, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return inserted, nil
}

func buildInsertQuery(a model.NewsArticle) (string, []interface{}, error) {
	var sentiment *string
	if a.Sentiment != nil {
		s := string(*a.Sentiment)
		sentiment = &s
	}

	return psql.Insert("news_articles").
		Columns("headline", "content", "source", "url", "published_at", "sentiment", "ticker").
		Values(a.Headline, a.Content, a.Source, a.URL, a.PublishedAt, sentiment, a.Ticker).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
}

// Search is the dashboard read contract: newest first, capped.
func (r *ArticleRepository) Search(ctx context.Context, f model.ArticleFilter) ([]model.NewsArticle, error) {
	query, args, err := buildSearchQuery(f)
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	defer rows.Close()

	articles := []model.NewsArticle{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

func buildSearchQuery(f model.ArticleFilter) (string, []interface{}, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	q := psql.Select(articleColumns...).
		From("news_articles").
		OrderBy("published_at DESC", "id DESC").
		Limit(uint64(limit))

	if !f.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"published_at": f.Since})
	}

	if text := strings.TrimSpace(f.Query); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"headline": pattern},
			sq.ILike{"content": pattern},
			sq.ILike{"ticker": pattern},
		})
	}

	if f.Sentiment != nil {
		q = q.Where(sq.Eq{"sentiment": string(*f.Sentiment)})
	}

	if ticker := strings.TrimSpace(f.Ticker); ticker != "" {
		q = q.Where(sq.ILike{"ticker": "%" + escapeLike(ticker) + "%"})
	}

	return q.ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*model.NewsArticle, error) {
	query, args, err := psql.Select(articleColumns...).
		From("news_articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	a, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}

// UpdateClassification rewrites sentiment and ticker in place and returns the
// updated row.
func (r *ArticleRepository) UpdateClassification(ctx context.Context, id int64, sentiment model.Sentiment, ticker *string) (*model.NewsArticle, error) {
	query, args, err := psql.Update("news_articles").
		Set("sentiment", string(sentiment)).
		Set("ticker", ticker).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(articleColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	a, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update classification: %w", err)
	}

	return a, nil
}

func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM news_articles
	`).Scan(&total)
	return total, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*model.NewsArticle, error) {
	var a model.NewsArticle
	var sentiment sql.NullString
	err := row.Scan(
		&a.ID, &a.Headline, &a.Content, &a.Source, &a.URL, &a.PublishedAt,
		&sentiment, &a.Ticker, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sentiment.Valid {
		if s, ok := model.ParseSentiment(sentiment.String); ok {
			a.Sentiment = &s
		}
	}

	return &a, nil
}
