package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/policylens"
	"github.com/google/uuid"
)

var _ policylens.ReportService = (*ReportService)(nil)

// ReportService implements policylens.ReportService using SQLite.
type ReportService struct {
	db *DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReport assigns an ID and creation time and stores the report with
// its category scores.
func (s *ReportService) CreateReport(ctx context.Context, report *policylens.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	report.ID = uuid.New().String()
	report.CreatedAt = time.Now().UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var overall sql.NullInt64
	if report.Score != nil {
		overall = sql.NullInt64{Int64: int64(report.Score.Overall), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reports (id, page_url, policy_url, title, summary, content_hash, strategy, overall, tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.PageURL, report.PolicyURL, report.Title, report.Summary, report.ContentHash,
		string(report.Strategy), overall, report.Tokens, report.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	if report.Score != nil {
		for i, c := range report.Score.Categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO report_scores (report_id, position, category, score)
				VALUES (?, ?, ?, ?)
			`, report.ID, i, c.Name, c.Score); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// FindReportByID retrieves a report by ID.
func (s *ReportService) FindReportByID(ctx context.Context, id string) (*policylens.Report, error) {
	reports, err := s.FindReports(ctx, policylens.ReportFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, policylens.Errorf(policylens.ENOTFOUND, "report not found")
	}
	return reports[0], nil
}

// FindReports retrieves reports matching the filter, newest first.
func (s *ReportService) FindReports(ctx context.Context, filter policylens.ReportFilter) ([]*policylens.Report, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, page_url, policy_url, title, summary, content_hash, strategy, overall, tokens, created_at
		FROM reports WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.PageURL != nil {
		query.WriteString(" AND page_url = ?")
		args = append(args, *filter.PageURL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*policylens.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, report := range reports {
		if err := s.attachScores(ctx, report); err != nil {
			return nil, err
		}
	}

	return reports, nil
}

// DeleteReport removes a report and its scores.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return policylens.Errorf(policylens.ENOTFOUND, "report not found")
	}
	return nil
}

func scanReport(rows *sql.Rows) (*policylens.Report, error) {
	var report policylens.Report
	var strategy, createdAt string
	var overall sql.NullInt64

	if err := rows.Scan(&report.ID, &report.PageURL, &report.PolicyURL, &report.Title, &report.Summary,
		&report.ContentHash, &strategy, &overall, &report.Tokens, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if report.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	report.Strategy = policylens.Strategy(strategy)
	if overall.Valid {
		report.Score = &policylens.AggregatedScore{
			Categories: []policylens.CategoryScore{},
			Overall:    int(overall.Int64),
		}
	}
	return &report, nil
}

// attachScores loads category scores for a report that has an overall score.
func (s *ReportService) attachScores(ctx context.Context, report *policylens.Report) error {
	if report.Score == nil {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, score FROM report_scores
		WHERE report_id = ?
		ORDER BY position ASC
	`, report.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c policylens.CategoryScore
		if err := rows.Scan(&c.Name, &c.Score); err != nil {
			return err
		}
		report.Score.Categories = append(report.Score.Categories, c)
	}
	return rows.Err()
}
