package stats

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/orderbot/internal/chat"
	"github.com/Skotchmaster/orderbot/internal/domain"
	"github.com/Skotchmaster/orderbot/internal/orders"
)

const ContentType = "text/csv; charset=utf-8"

var header = []string{"Product Name", "Total Quantity", "Total Revenue", "Total Cost", "Profit"}

type Source interface {
	AggregateStatistics(ctx context.Context) ([]orders.ProductStat, error)
}

type Totals struct {
	Quantity int64
	Revenue  decimal.Decimal
	Cost     decimal.Decimal
	Profit   decimal.Decimal
}

type Report struct {
	Rows   []orders.ProductStat
	Totals Totals
}

type Aggregator struct {
	Store Source
}

// Report ranks products by profit, highest first, with ties broken by name.
// It returns domain.ErrNoData when no order has ever been recorded.
func (a *Aggregator) Report(ctx context.Context) (*Report, error) {
	rows, err := a.Store.AggregateStatistics(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("statistics: %w", domain.ErrNoData)
	}

	slices.SortStableFunc(rows, func(x, y orders.ProductStat) int {
		if c := y.Profit.Cmp(x.Profit); c != 0 {
			return c
		}
		return strings.Compare(x.ProductName, y.ProductName)
	})

	totals := Totals{Revenue: decimal.Zero, Cost: decimal.Zero}
	for _, r := range rows {
		totals.Quantity += r.Quantity
		totals.Revenue = totals.Revenue.Add(r.Revenue)
		totals.Cost = totals.Cost.Add(r.Cost)
	}
	totals.Profit = totals.Revenue.Sub(totals.Cost)

	return &Report{Rows: rows, Totals: totals}, nil
}

// WriteCSV writes the header, one row per product, a blank separator row and
// the TOTAL row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	records := make([][]string, 0, len(r.Rows)+3)
	records = append(records, header)
	for _, row := range r.Rows {
		records = append(records, []string{
			row.ProductName,
			strconv.FormatInt(row.Quantity, 10),
			row.Revenue.StringFixed(2),
			row.Cost.StringFixed(2),
			row.Profit.StringFixed(2),
		})
	}
	records = append(records, []string{""}, []string{
		"TOTAL",
		strconv.FormatInt(r.Totals.Quantity, 10),
		r.Totals.Revenue.StringFixed(2),
		r.Totals.Cost.StringFixed(2),
		r.Totals.Profit.StringFixed(2),
	})
	return cw.WriteAll(records)
}

func (r *Report) Caption() string {
	return fmt.Sprintf("Statistics Summary:\nTotal Revenue: %s\nTotal Cost: %s\nTotal Profit: %s",
		r.Totals.Revenue.StringFixed(2),
		r.Totals.Cost.StringFixed(2),
		r.Totals.Profit.StringFixed(2),
	)
}

func FileName(now time.Time) string {
	return fmt.Sprintf("orders_statistics_%d.csv", now.Unix())
}

// Export renders the report as a downloadable CSV document.
func (a *Aggregator) Export(ctx context.Context, now time.Time) (*chat.Document, error) {
	report, err := a.Report(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	return &chat.Document{
		FileName:    FileName(now),
		ContentType: ContentType,
		Data:        buf.Bytes(),
		Caption:     report.Caption(),
	}, nil
}
