package stats

import (
	"context"
	"strings"

	"github.com/de-tools/statreport/pkg/adapters"
	"github.com/de-tools/statreport/pkg/models/domain"
	statsstore "github.com/de-tools/statreport/pkg/store/stats"
)

var ErrNotFound = statsstore.ErrNotFound

type Service interface {
	List(ctx context.Context, filter domain.StatFilter) ([]domain.ReportRow, error)
	// Search matches text against code or label; empty text lists everything.
	Search(ctx context.Context, text string) ([]domain.ReportRow, error)
	Get(ctx context.Context, id string) (domain.ReportRow, error)
	GetMany(ctx context.Context, ids []string) ([]domain.ReportRow, error)
	// ByCode returns the rows stored under exactly code, or ErrNotFound.
	ByCode(ctx context.Context, code string) ([]domain.ReportRow, error)
	Codes(ctx context.Context) ([]domain.StatCode, error)
	Totals(ctx context.Context) (domain.StatTotals, error)
}

type service struct {
	store statsstore.Store
}

func NewService(store statsstore.Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, filter domain.StatFilter) ([]domain.ReportRow, error) {
	records, err := s.store.List(ctx, adapters.MapStatFilterDomainToStore(filter))
	if err != nil {
		return nil, err
	}
	return adapters.MapStatRecordsStoreToDomain(records), nil
}

func (s *service) Search(ctx context.Context, text string) ([]domain.ReportRow, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.List(ctx, domain.StatFilter{})
	}
	records, err := s.store.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	return adapters.MapStatRecordsStoreToDomain(records), nil
}

func (s *service) Get(ctx context.Context, id string) (domain.ReportRow, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.ReportRow{}, err
	}
	return adapters.MapStatRecordStoreToDomain(*record), nil
}

func (s *service) GetMany(ctx context.Context, ids []string) ([]domain.ReportRow, error) {
	records, err := s.store.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return adapters.MapStatRecordsStoreToDomain(records), nil
}

func (s *service) ByCode(ctx context.Context, code string) ([]domain.ReportRow, error) {
	records, err := s.store.ByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	return adapters.MapStatRecordsStoreToDomain(records), nil
}

func (s *service) Codes(ctx context.Context) ([]domain.StatCode, error) {
	codes, err := s.store.Codes(ctx)
	if err != nil {
		return nil, err
	}
	return adapters.MapStatCodesStoreToDomain(codes), nil
}

func (s *service) Totals(ctx context.Context) (domain.StatTotals, error) {
	totals, err := s.store.Totals(ctx)
	if err != nil {
		return domain.StatTotals{}, err
	}
	return adapters.MapStatTotalsStoreToDomain(totals), nil
}
