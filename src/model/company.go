package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/models"
)

// DefaultSearchLimit caps name searches.
const DefaultSearchLimit = 30

const companyColumns = `corp_code, corp_name, corp_eng_name, stock_code, modify_date`

// ImportRun records one full replace of the companies table.
type ImportRun struct {
	ID           int64     `json:"id"`
	Source       string    `json:"source"`
	CompanyCount int       `json:"company_count"`
	ImportedAt   time.Time `json:"imported_at"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchCompaniesByName returns companies whose name contains name. Exact
// matches come first, then prefix matches, then shorter names.
func SearchCompaniesByName(ctx context.Context, db *sql.DB, name string, limit int) ([]models.Company, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	escaped := likeEscaper.Replace(name)

	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE corp_name LIKE ? ESCAPE '\'
		ORDER BY
			CASE WHEN corp_name = ? THEN 0
			     WHEN corp_name LIKE ? ESCAPE '\' THEN 1
			     ELSE 2
			END,
			LENGTH(corp_name),
			corp_name
		LIMIT ?`

	rows, err := db.QueryContext(ctx, query, "%"+escaped+"%", name, escaped+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search companies by name: %w", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.CorpCode, &c.CorpName, &c.CorpEngName, &c.StockCode, &c.ModifyDate); err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// GetCompanyByStockCode returns (nil, nil) when no company has the stock code.
func GetCompanyByStockCode(ctx context.Context, db *sql.DB, stockCode string) (*models.Company, error) {
	return getCompany(ctx, db, `SELECT `+companyColumns+` FROM companies WHERE stock_code = ? LIMIT 1`, stockCode)
}

// GetCompanyByCorpCode returns (nil, nil) when the corp code is unknown.
func GetCompanyByCorpCode(ctx context.Context, db *sql.DB, corpCode string) (*models.Company, error) {
	return getCompany(ctx, db, `SELECT `+companyColumns+` FROM companies WHERE corp_code = ? LIMIT 1`, corpCode)
}

func getCompany(ctx context.Context, db *sql.DB, query string, arg string) (*models.Company, error) {
	var c models.Company
	err := db.QueryRowContext(ctx, query, arg).Scan(&c.CorpCode, &c.CorpName, &c.CorpEngName, &c.StockCode, &c.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// CountCompanies returns the number of rows in the lookup table.
func CountCompanies(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

// ReplaceCompanies deletes every row and inserts companies in a single
// transaction, so readers see either the old table or the new one.
// onProgress, when set, is called after each inserted row.
func ReplaceCompanies(ctx context.Context, db *sql.DB, companies []models.Company, source string, onProgress func(done int)) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM companies`); err != nil {
		return 0, fmt.Errorf("clear companies: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO companies (`+companyColumns+`) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare company insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, c := range companies {
		if _, err := stmt.ExecContext(ctx, c.CorpCode, c.CorpName, c.CorpEngName, c.StockCode, c.ModifyDate); err != nil {
			return 0, fmt.Errorf("insert company %s: %w", c.CorpCode, err)
		}
		count++
		if onProgress != nil {
			onProgress(count)
		}
		if count%10000 == 0 {
			logger.L.Debug("Importing companies", "count", count)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO import_runs (source, company_count, imported_at) VALUES (?, ?, ?)`, source, count, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("record import run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import transaction: %w", err)
	}
	return count, nil
}

// GetLatestImportRun returns (nil, nil) before the first import.
func GetLatestImportRun(ctx context.Context, db *sql.DB) (*ImportRun, error) {
	var run ImportRun
	err := db.QueryRowContext(ctx,
		`SELECT id, source, company_count, imported_at FROM import_runs ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &run.Source, &run.CompanyCount, &run.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest import run: %w", err)
	}
	return &run, nil
}
