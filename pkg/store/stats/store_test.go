package stats

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/statreport/pkg/models/store"
	"github.com/de-tools/statreport/pkg/store/duckdb"
	"github.com/de-tools/statreport/pkg/store/sqlite"
)

var statColumns = []string{
	"id", "code", "label", "taxpayer_count", "headcount", "pay_fund",
	"avg_salary", "tax_amount", "weight_percent", "created_at", "updated_at",
}

func ptr(v float64) *float64 {
	return &v
}

func newMockStore(t *testing.T) (*statsStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return &statsStore{db: db, now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }}, mock
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(nil)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestStatsStore_List_Query(t *testing.T) {
	// Given
	s, mock := newMockStore(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM stat_records WHERE LOWER\(label\) LIKE LOWER\(\?\) AND headcount >= \? AND tax_amount <= \? ORDER BY code, id`).
		WithArgs("%farm%", 10.0, 5000.0).
		WillReturnRows(sqlmock.NewRows(statColumns).
			AddRow("a", "01.11", "Crop farming", 3, 12.0, nil, 250.5, 100.0, 1.5, created, created))

	// When
	records, err := s.List(context.Background(), store.StatQuery{
		Label:        "farm",
		HeadcountMin: ptr(10),
		TaxMax:       ptr(5000),
	})

	// Then
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "01.11", records[0].Code)
	assert.Equal(t, sql.NullInt64{Int64: 3, Valid: true}, records[0].Count)
	assert.False(t, records[0].PayFund.Valid)
	assert.Equal(t, sql.NullFloat64{Float64: 250.5, Valid: true}, records[0].AvgSalary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsStore_List_Ranges(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`WHERE \(LOWER\(code\) LIKE LOWER\(\?\) OR LOWER\(label\) LIKE LOWER\(\?\)\) AND weight_percent >= \? AND pay_fund <= \? AND avg_salary >= \? AND avg_salary <= \? ORDER BY code, id`).
		WithArgs("%01.1%", "%01.1%", 0.5, 1e6, 100.0, 900.0).
		WillReturnRows(sqlmock.NewRows(statColumns))

	records, err := s.List(context.Background(), store.StatQuery{
		Text:         "01.1",
		WeightMin:    ptr(0.5),
		PayFundMax:   ptr(1e6),
		AvgSalaryMin: ptr(100),
		AvgSalaryMax: ptr(900),
	})

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsStore_ByCode(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM stat_records WHERE code = \? ORDER BY id`).
		WithArgs("01.11").
		WillReturnRows(sqlmock.NewRows(statColumns).
			AddRow("a", "01.11", "Crop farming", 3, 12.0, nil, 250.5, 100.0, 1.5, created, created))
	mock.ExpectQuery(`SELECT .+ FROM stat_records WHERE code = \? ORDER BY id`).
		WithArgs("99.99").
		WillReturnRows(sqlmock.NewRows(statColumns))

	records, err := s.ByCode(context.Background(), "01.11")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)

	_, err = s.ByCode(context.Background(), "99.99")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsStore_Codes(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT DISTINCT code, label FROM stat_records ORDER BY code, label`).
		WillReturnRows(sqlmock.NewRows([]string{"code", "label"}).
			AddRow("01.11", "Crop farming").
			AddRow("47.11", "Retail"))

	codes, err := s.Codes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []store.StatCode{{Code: "01.11", Label: "Crop farming"}, {Code: "47.11", Label: "Retail"}}, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsStore_Totals_QueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\), CAST\(SUM\(taxpayer_count\) AS BIGINT\)`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.Totals(context.Background())

	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsStore_List_NoFilter(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .+ FROM stat_records ORDER BY code, id`).
		WillReturnRows(sqlmock.NewRows(statColumns))

	records, err := s.List(context.Background(), store.StatQuery{})

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsStore_List_QueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .+ FROM stat_records`).WillReturnError(errors.New("connection reset"))

	_, err := s.List(context.Background(), store.StatQuery{})

	assert.ErrorContains(t, err, "connection reset")
}

func TestStatsStore_Get_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .+ FROM stat_records WHERE id = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(statColumns))

	_, err := s.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsStore_Add_RollsBack(t *testing.T) {
	// Given
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO stat_records`)
	mock.ExpectExec(`INSERT INTO stat_records`).
		WithArgs("a", "01.11", "Crop farming", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO stat_records`).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	// When
	err := s.Add(context.Background(), []store.StatRecord{
		{ID: "a", Code: "01.11", Label: "Crop farming"},
		{ID: "a", Code: "01.12", Label: "Rice"},
	})

	// Then
	assert.ErrorContains(t, err, "constraint violation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsStore_Add_Empty(t *testing.T) {
	s, mock := newMockStore(t)

	require.NoError(t, s.Add(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixtures(t *testing.T) map[string]*fixture {
	duck, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	lite, err := sqlite.NewDB(sqlite.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	fixtures := map[string]*fixture{"duckdb": {db: duck}, "sqlite": {db: lite}}
	for _, f := range fixtures {
		f.store, err = NewStore(f.db)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		duck.Close()
		lite.Close()
	})
	return fixtures
}

func seedRecords() []store.StatRecord {
	valid := func(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }
	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	return []store.StatRecord{
		{ID: "r3", Code: "47.11", Label: "Retail sale in stores", Count: sql.NullInt64{Int64: 40, Valid: true},
			Headcount: valid(900), PayFund: valid(2.5e6), TaxAmount: valid(12000), CreatedAt: created},
		{ID: "r1", Code: "01.11", Label: "Growing of cereals", Count: sql.NullInt64{Int64: 5, Valid: true},
			Headcount: valid(30), PayFund: valid(90000), TaxAmount: valid(800), CreatedAt: created},
		{ID: "r2", Code: "01.13", Label: "Growing of vegetables", Headcount: valid(12), TaxAmount: valid(150)},
	}
}

func TestStatsStore_Integration(t *testing.T) {
	for name, f := range setupFixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, f.store.Add(ctx, seedRecords()))

			t.Run("list ordered by code", func(t *testing.T) {
				records, err := f.store.List(ctx, store.StatQuery{})
				require.NoError(t, err)
				require.Len(t, records, 3)
				assert.Equal(t, []string{"01.11", "01.13", "47.11"}, []string{records[0].Code, records[1].Code, records[2].Code})
				assert.False(t, records[1].Count.Valid)
				assert.False(t, records[1].PayFund.Valid)
				assert.False(t, records[1].CreatedAt.IsZero())
			})

			t.Run("list with filter", func(t *testing.T) {
				records, err := f.store.List(ctx, store.StatQuery{Label: "GROWING", HeadcountMin: ptr(20)})
				require.NoError(t, err)
				require.Len(t, records, 1)
				assert.Equal(t, "r1", records[0].ID)
			})

			t.Run("search code or label", func(t *testing.T) {
				records, err := f.store.Search(ctx, "retail")
				require.NoError(t, err)
				require.Len(t, records, 1)
				assert.Equal(t, "47.11", records[0].Code)

				records, err = f.store.Search(ctx, "01.1")
				require.NoError(t, err)
				assert.Len(t, records, 2)
			})

			t.Run("get", func(t *testing.T) {
				record, err := f.store.Get(ctx, "r3")
				require.NoError(t, err)
				assert.Equal(t, 2.5e6, record.PayFund.Float64)
				assert.True(t, record.CreatedAt.Equal(time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)))

				_, err = f.store.Get(ctx, "nope")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("get many keeps order", func(t *testing.T) {
				records, err := f.store.GetMany(ctx, []string{"r2", "r3"})
				require.NoError(t, err)
				require.Len(t, records, 2)
				assert.Equal(t, "r2", records[0].ID)
				assert.Equal(t, "r3", records[1].ID)

				_, err = f.store.GetMany(ctx, []string{"r1", "nope"})
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("list with ranges", func(t *testing.T) {
				records, err := f.store.List(ctx, store.StatQuery{PayFundMin: ptr(100000)})
				require.NoError(t, err)
				require.Len(t, records, 1)
				assert.Equal(t, "r3", records[0].ID)

				records, err = f.store.List(ctx, store.StatQuery{Text: "01.1", TaxMin: ptr(500)})
				require.NoError(t, err)
				require.Len(t, records, 1)
				assert.Equal(t, "r1", records[0].ID)

				records, err = f.store.List(ctx, store.StatQuery{WeightMin: ptr(0)})
				require.NoError(t, err)
				assert.Empty(t, records, "null weights never match a bound")
			})

			t.Run("by code", func(t *testing.T) {
				records, err := f.store.ByCode(ctx, "01.13")
				require.NoError(t, err)
				require.Len(t, records, 1)
				assert.Equal(t, "r2", records[0].ID)

				_, err = f.store.ByCode(ctx, "01.1")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("codes", func(t *testing.T) {
				codes, err := f.store.Codes(ctx)
				require.NoError(t, err)
				assert.Equal(t, []store.StatCode{
					{Code: "01.11", Label: "Growing of cereals"},
					{Code: "01.13", Label: "Growing of vegetables"},
					{Code: "47.11", Label: "Retail sale in stores"},
				}, codes)
			})

			t.Run("totals", func(t *testing.T) {
				totals, err := f.store.Totals(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(3), totals.Records)
				assert.Equal(t, sql.NullInt64{Int64: 45, Valid: true}, totals.Taxpayers)
				assert.Equal(t, sql.NullFloat64{Float64: 12950, Valid: true}, totals.TaxAmount)
				assert.False(t, totals.AvgWeight.Valid)
			})

			t.Run("exists by code", func(t *testing.T) {
				exists, err := f.store.ExistsByCode(ctx, "01.13")
				require.NoError(t, err)
				assert.True(t, exists)

				exists, err = f.store.ExistsByCode(ctx, "99.99")
				require.NoError(t, err)
				assert.False(t, exists)
			})
		})
	}
}

func TestStatsStore_Totals_Empty(t *testing.T) {
	for name, f := range setupFixtures(t) {
		t.Run(name, func(t *testing.T) {
			totals, err := f.store.Totals(context.Background())

			require.NoError(t, err)
			assert.Equal(t, store.StatTotals{}, totals)
		})
	}
}
