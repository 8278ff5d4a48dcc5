package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"

	"feedherald/internal/domain"
)

// CreateSource persists a new followed source. A second insert for the same
// subdomain is reported as domain.ErrDuplicateSource, never as a raw
// constraint fault.
func (d *Database) CreateSource(ctx context.Context, src domain.Source) error {
	subdomain := strings.TrimSpace(src.Subdomain)
	if subdomain == "" {
		return errors.New("source subdomain is empty")
	}

	query := "insert into sources (subdomain, name, thumbnail) values (?, ?, ?)"

	if _, err := d.db.ExecContext(ctx, query, subdomain, src.Name, src.Thumbnail); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSource
		}

		return fmt.Errorf("insert source: %w", err)
	}

	return nil
}

// DeleteSource removes a followed source and, through the FK cascade, its
// articles. The removed source is returned for the caller's reply.
func (d *Database) DeleteSource(ctx context.Context, subdomain string) (*domain.Source, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			d.log.ErrorContext(ctx, "Failed to roll back tx",
				"error", err,
				"operation", "DeleteSource")
		}
	}()

	var src domain.Source
	err = tx.QueryRowContext(ctx,
		"select subdomain, name, thumbnail from sources where subdomain = ?", subdomain).
		Scan(&src.Subdomain, &src.Name, &src.Thumbnail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnknownSource
	}
	if err != nil {
		return nil, fmt.Errorf("select source: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "delete from sources where subdomain = ?", subdomain); err != nil {
		return nil, fmt.Errorf("delete source: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &src, nil
}

func (d *Database) GetSource(ctx context.Context, subdomain string) (*domain.Source, error) {
	query := "select subdomain, name, thumbnail from sources where subdomain = ?"

	var src domain.Source
	err := d.db.QueryRowContext(ctx, query, subdomain).
		Scan(&src.Subdomain, &src.Name, &src.Thumbnail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnknownSource
	}
	if err != nil {
		return nil, fmt.Errorf("select source: %w", err)
	}

	return &src, nil
}

func (d *Database) ListSources(ctx context.Context) ([]domain.Source, error) {
	query := "select subdomain, name, thumbnail from sources order by subdomain"

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "ListSources")
		}
	}()

	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		if err = rows.Scan(&src.Subdomain, &src.Name, &src.Thumbnail); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		sources = append(sources, src)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return sources, nil
}

// InsertArticle persists an article unless one with the same
// (source, title) pair already exists. The insert and the duplicate check
// are a single statement, so concurrent cycles cannot double-insert.
// Reports whether a row was actually written.
func (d *Database) InsertArticle(ctx context.Context, a domain.Article) (bool, error) {
	query := `insert into articles (source_subdomain, title, url, published, posted)
	values (?, ?, ?, ?, 0)
	on conflict (source_subdomain, title) do nothing`

	res, err := d.db.ExecContext(ctx, query, a.SourceSubdomain, a.Title, a.URL, a.Published)
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return inserted > 0, nil
}

// UnpostedArticles returns every article not yet announced, oldest first,
// ties broken by title so the order is stable across cycles.
func (d *Database) UnpostedArticles(ctx context.Context) ([]domain.Article, error) {
	query := `select id, source_subdomain, title, url, published
	from articles
	where posted = 0
	order by published asc, title asc`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "UnpostedArticles")
		}
	}()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err = rows.Scan(&a.ID, &a.SourceSubdomain, &a.Title, &a.URL, &a.Published); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		articles = append(articles, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return articles, nil
}

func (d *Database) MarkPosted(ctx context.Context, articleID int64) error {
	query := "update articles set posted = 1 where id = ?"

	res, err := d.db.ExecContext(ctx, query, articleID)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("article %d does not exist", articleID)
	}

	return nil
}

func (d *Database) BanUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user ID is empty")
	}

	query := "insert into banned_users (user_id) values (?)"

	if _, err := d.db.ExecContext(ctx, query, userID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyBanned
		}

		return fmt.Errorf("insert banned user: %w", err)
	}

	return nil
}

func (d *Database) UnbanUser(ctx context.Context, userID string) error {
	query := "delete from banned_users where user_id = ?"

	res, err := d.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete banned user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotBanned
	}

	return nil
}

func (d *Database) IsBanned(ctx context.Context, userID string) (bool, error) {
	query := "select count(1) from banned_users where user_id = ?"

	var count int
	if err := d.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("select banned user: %w", err)
	}

	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
