package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/statreport/pkg/models/store"
	"github.com/de-tools/statreport/pkg/store/sqlutil"
)

var ErrNotFound = errors.New("stat record not found")

// Store reads and writes rows of the stat_records table. Queries only use portable SQL so the same
// store runs on DuckDB and SQLite.
type Store interface {
	List(ctx context.Context, query store.StatQuery) ([]store.StatRecord, error)
	Search(ctx context.Context, text string) ([]store.StatRecord, error)
	Get(ctx context.Context, id string) (*store.StatRecord, error)
	GetMany(ctx context.Context, ids []string) ([]store.StatRecord, error)
	ByCode(ctx context.Context, code string) ([]store.StatRecord, error)
	Codes(ctx context.Context) ([]store.StatCode, error)
	Totals(ctx context.Context) (store.StatTotals, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Add(ctx context.Context, records []store.StatRecord) error
}

const selectColumns = `id, code, label, taxpayer_count, headcount, pay_fund, avg_salary,
			tax_amount, weight_percent, created_at, updated_at`

type statsStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &statsStore{
		db:  db,
		now: time.Now,
	}, nil
}

func (s *statsStore) List(ctx context.Context, q store.StatQuery) ([]store.StatRecord, error) {
	conditions, args := whereClause(q)

	query := `SELECT ` + selectColumns + ` FROM stat_records`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY code, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stat records: %w", err)
	}
	defer rows.Close()
	return scanStatRows(rows)
}

// whereClause turns the set fields of q into AND-ed conditions with their arguments.
func whereClause(q store.StatQuery) ([]string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if q.Text != "" {
		conditions = append(conditions, "(LOWER(code) LIKE LOWER(?) OR LOWER(label) LIKE LOWER(?))")
		args = append(args, contains(q.Text), contains(q.Text))
	}
	if q.Code != "" {
		conditions = append(conditions, "LOWER(code) LIKE LOWER(?)")
		args = append(args, contains(q.Code))
	}
	if q.Label != "" {
		conditions = append(conditions, "LOWER(label) LIKE LOWER(?)")
		args = append(args, contains(q.Label))
	}
	bounds := []struct {
		clause string
		value  *float64
	}{
		{"headcount >= ?", q.HeadcountMin},
		{"headcount <= ?", q.HeadcountMax},
		{"tax_amount >= ?", q.TaxMin},
		{"tax_amount <= ?", q.TaxMax},
		{"weight_percent >= ?", q.WeightMin},
		{"weight_percent <= ?", q.WeightMax},
		{"pay_fund >= ?", q.PayFundMin},
		{"pay_fund <= ?", q.PayFundMax},
		{"avg_salary >= ?", q.AvgSalaryMin},
		{"avg_salary <= ?", q.AvgSalaryMax},
	}
	for _, b := range bounds {
		if b.value != nil {
			conditions = append(conditions, b.clause)
			args = append(args, *b.value)
		}
	}
	return conditions, args
}

// Search matches text against code or label.
func (s *statsStore) Search(ctx context.Context, text string) ([]store.StatRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM stat_records
		WHERE LOWER(code) LIKE LOWER(?) OR LOWER(label) LIKE LOWER(?)
		ORDER BY code, id`

	pattern := contains(text)
	rows, err := s.db.QueryContext(ctx, query, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search stat records: %w", err)
	}
	defer rows.Close()
	return scanStatRows(rows)
}

func (s *statsStore) Get(ctx context.Context, id string) (*store.StatRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM stat_records WHERE id = ?`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get stat record: %w", err)
	}
	defer rows.Close()

	records, err := scanStatRows(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &records[0], nil
}

// GetMany returns the records in the order of ids. Unknown ids are reported as ErrNotFound.
func (s *statsStore) GetMany(ctx context.Context, ids []string) ([]store.StatRecord, error) {
	if len(ids) == 0 {
		return []store.StatRecord{}, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := fmt.Sprintf(`SELECT `+selectColumns+` FROM stat_records WHERE id IN (%s)`, strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get stat records: %w", err)
	}
	defer rows.Close()

	found, err := scanStatRows(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]store.StatRecord, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}

	records := make([]store.StatRecord, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		records = append(records, r)
	}
	return records, nil
}

// ByCode returns every record stored under exactly code.
func (s *statsStore) ByCode(ctx context.Context, code string) ([]store.StatRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM stat_records WHERE code = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("get stat records by code: %w", err)
	}
	defer rows.Close()

	records, err := scanStatRows(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: code %s", ErrNotFound, code)
	}
	return records, nil
}

func (s *statsStore) Codes(ctx context.Context) ([]store.StatCode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT code, label FROM stat_records ORDER BY code, label`)
	if err != nil {
		return nil, fmt.Errorf("query stat codes: %w", err)
	}
	defer rows.Close()

	codes := make([]store.StatCode, 0)
	for rows.Next() {
		var c store.StatCode
		if err := rows.Scan(&c.Code, &c.Label); err != nil {
			return nil, fmt.Errorf("scan stat code: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stat codes: %w", err)
	}
	return codes, nil
}

// Totals aggregates the whole table. DuckDB sums BIGINT into HUGEINT, so the taxpayer sum is cast
// back to BIGINT.
func (s *statsStore) Totals(ctx context.Context) (store.StatTotals, error) {
	var t store.StatTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), CAST(SUM(taxpayer_count) AS BIGINT), SUM(tax_amount), AVG(weight_percent)
		FROM stat_records`).Scan(&t.Records, &t.Taxpayers, &t.TaxAmount, &t.AvgWeight)
	if err != nil {
		return store.StatTotals{}, fmt.Errorf("query stat totals: %w", err)
	}
	return t, nil
}

func (s *statsStore) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stat_records WHERE code = ?`, code).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check stat record code: %w", err)
	}
	return count > 0, nil
}

// Add inserts records in one transaction. Zero timestamps are set to the current time.
func (s *statsStore) Add(ctx context.Context, records []store.StatRecord) error {
	if len(records) == 0 {
		return nil
	}

	return sqlutil.InTransaction(ctx, s.db, func(ctx context.Context) error {
		tx := sqlutil.GetTransaction(ctx)
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO stat_records (
				id, code, label, taxpayer_count, headcount, pay_fund,
				avg_salary, tax_amount, weight_percent, created_at, updated_at
			) VALUES (
				?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
			)`)
		if err != nil {
			return fmt.Errorf("prepare statement: %w", err)
		}
		defer stmt.Close()

		now := s.now().UTC()
		for _, r := range records {
			if r.ID == "" {
				return fmt.Errorf("record %q has no id", r.Code)
			}
			created, updated := r.CreatedAt, r.UpdatedAt
			if created.IsZero() {
				created = now
			}
			if updated.IsZero() {
				updated = created
			}

			_, err = stmt.ExecContext(ctx,
				r.ID,
				r.Code,
				r.Label,
				r.Count,
				r.Headcount,
				r.PayFund,
				r.AvgSalary,
				r.TaxAmount,
				r.WeightPercent,
				created,
				updated,
			)
			if err != nil {
				return fmt.Errorf("insert record %s: %w", r.Code, err)
			}
		}
		return nil
	})
}

func contains(text string) string {
	return "%" + text + "%"
}

func scanStatRows(rows *sql.Rows) ([]store.StatRecord, error) {
	records := make([]store.StatRecord, 0)
	for rows.Next() {
		var r store.StatRecord
		if err := rows.Scan(
			&r.ID,
			&r.Code,
			&r.Label,
			&r.Count,
			&r.Headcount,
			&r.PayFund,
			&r.AvgSalary,
			&r.TaxAmount,
			&r.WeightPercent,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stat record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stat records: %w", err)
	}
	return records, nil
}
