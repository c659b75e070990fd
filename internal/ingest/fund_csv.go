package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/encoding/charmap"

	"fundpanel/internal/domain"
)

// CVM daily-report column headers. Some report vintages carry extra columns
// (fund type, inflow/outflow); parsing resolves positions from the header
// instead of assuming a fixed layout.
const (
	colFundID       = "CNPJ_FUNDO"
	colQuoteDate    = "DT_COMPTC"
	colQuota        = "VL_QUOTA"
	colNetAssets    = "VL_PATRIM_LIQ"
	colShareholders = "NR_COTST"
)

// CVMFundSource fetches daily fund quota reports from the CVM open-data
// portal: one semicolon-separated Latin-1 CSV per month, and one ZIP archive
// per year before the monthly cutover. A pre-cutover period is served from
// its year's archive, downloaded on the first period of that year requested
// and cached for the remaining ones, so a window ending mid-year still
// covers the year.
type CVMFundSource struct {
	client *Client

	// MonthURL is a fmt pattern receiving year and month, e.g.
	// "https://dados.cvm.gov.br/.../inf_diario_fi_%04d%02d.csv".
	MonthURL string
	// ArchiveURL is a fmt pattern receiving the year of a ZIP archive.
	ArchiveURL string
	// ArchiveCutoverYear is the first year published monthly.
	ArchiveCutoverYear int

	// cache holds the last parsed yearly archive; the published archives
	// are immutable, so it never expires.
	mu        sync.Mutex
	cacheYear int
	cache     []*domain.FundQuote
}

// NewCVMFundSource creates a fund source over the given client.
func NewCVMFundSource(client *Client, monthURL, archiveURL string, cutoverYear int) *CVMFundSource {
	return &CVMFundSource{
		client:             client,
		MonthURL:           monthURL,
		ArchiveURL:         archiveURL,
		ArchiveCutoverYear: cutoverYear,
	}
}

var _ FundSource = (*CVMFundSource)(nil)

// Fetch returns the quote rows published for one monthly period, filtered to
// the requested funds when the filter is non-empty.
func (s *CVMFundSource) Fetch(ctx context.Context, period Period, fundFilter []string) ([]*domain.FundQuote, error) {
	if period.Year < s.ArchiveCutoverYear {
		return s.fetchFromArchive(ctx, period, fundFilter)
	}

	url := fmt.Sprintf(s.MonthURL, period.Year, int(period.Month))
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	quotes, err := parseFundCSV(resp.Body, fundFilter)
	if err != nil {
		return nil, fmt.Errorf("parse report %s: %w", period, err)
	}
	return quotes, nil
}

// fetchFromArchive serves one monthly period from the year's ZIP archive,
// downloading and parsing the archive only when the cache holds a different
// year.
func (s *CVMFundSource) fetchFromArchive(ctx context.Context, period Period, fundFilter []string) ([]*domain.FundQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheYear != period.Year {
		rows, err := s.fetchArchive(ctx, period.Year)
		if err != nil {
			return nil, err
		}
		s.cacheYear = period.Year
		s.cache = rows
	}

	var keep map[string]struct{}
	if len(fundFilter) > 0 {
		keep = make(map[string]struct{}, len(fundFilter))
		for _, f := range fundFilter {
			keep[f] = struct{}{}
		}
	}

	var quotes []*domain.FundQuote
	for _, q := range s.cache {
		if PeriodOf(q.Date) != period {
			continue
		}
		if keep != nil {
			if _, ok := keep[q.FundID]; !ok {
				continue
			}
		}
		quoteCopy := *q
		quotes = append(quotes, &quoteCopy)
	}
	return quotes, nil
}

func (s *CVMFundSource) fetchArchive(ctx context.Context, year int) ([]*domain.FundQuote, error) {
	url := fmt.Sprintf(s.ArchiveURL, year)
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read archive %d: %v", ErrUnavailable, year, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("open archive %d: %w", year, err)
	}

	var all []*domain.FundQuote
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in archive %d: %w", f.Name, year, err)
		}
		quotes, err := parseFundCSV(rc, nil)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s in archive %d: %w", f.Name, year, err)
		}
		all = append(all, quotes...)
	}
	return all, nil
}

// parseFundCSV decodes one semicolon-separated Latin-1 daily report.
func parseFundCSV(r io.Reader, fundFilter []string) ([]*domain.FundQuote, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colFundID, colQuoteDate, colQuota} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %s", required)
		}
	}

	var keep map[string]struct{}
	if len(fundFilter) > 0 {
		keep = make(map[string]struct{}, len(fundFilter))
		for _, f := range fundFilter {
			keep[f] = struct{}{}
		}
	}

	var quotes []*domain.FundQuote
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		fundID := field(record, idx, colFundID)
		if fundID == "" {
			continue
		}
		if keep != nil {
			if _, ok := keep[fundID]; !ok {
				continue
			}
		}

		date, err := time.Parse("2006-01-02", field(record, idx, colQuoteDate))
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", field(record, idx, colQuoteDate), err)
		}

		quotes = append(quotes, &domain.FundQuote{
			FundID:       fundID,
			Date:         domain.DayOf(date),
			Quota:        parseFloat(field(record, idx, colQuota)),
			NetAssets:    parseFloat(field(record, idx, colNetAssets)),
			Shareholders: parseInt(field(record, idx, colShareholders)),
		})
	}
	return quotes, nil
}

func field(record []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseFloat maps absent or malformed numerics to NaN, the panel's missing
// marker, rather than dropping the row.
func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
