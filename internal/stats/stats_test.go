package stats

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/orderbot/internal/domain"
	"github.com/Skotchmaster/orderbot/internal/orders"
)

type fakeSource struct {
	rows []orders.ProductStat
	err  error
}

func (f *fakeSource) AggregateStatistics(ctx context.Context) ([]orders.ProductStat, error) {
	return f.rows, f.err
}

func stat(name string, qty int64, revenue, cost string) orders.ProductStat {
	r := decimal.RequireFromString(revenue)
	c := decimal.RequireFromString(cost)
	return orders.ProductStat{ProductName: name, Quantity: qty, Revenue: r, Cost: c, Profit: r.Sub(c)}
}

func TestAggregator_NoData(t *testing.T) {
	t.Parallel()

	a := &Aggregator{Store: &fakeSource{}}
	report, err := a.Report(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrNoData)

	doc, err := a.Export(context.Background(), time.Now())
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestAggregator_StoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.Join(domain.ErrPersistence, errors.New("down"))
	a := &Aggregator{Store: &fakeSource{err: storeErr}}
	_, err := a.Report(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrNoData)
}

func TestAggregator_OrdersByProfitThenName(t *testing.T) {
	t.Parallel()

	a := &Aggregator{Store: &fakeSource{rows: []orders.ProductStat{
		stat("Zeta", 1, "5.00", "1.00"),
		stat("Widget", 3, "30.00", "18.00"),
		stat("Alpha", 2, "8.00", "4.00"),
		stat("Loss", 1, "1.00", "3.00"),
	}}}

	report, err := a.Report(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		names = append(names, r.ProductName)
	}
	assert.Equal(t, []string{"Widget", "Alpha", "Zeta", "Loss"}, names)

	assert.EqualValues(t, 7, report.Totals.Quantity)
	assert.Equal(t, "44.00", report.Totals.Revenue.StringFixed(2))
	assert.Equal(t, "26.00", report.Totals.Cost.StringFixed(2))
	assert.Equal(t, "18.00", report.Totals.Profit.StringFixed(2))
}

func TestAggregator_RowsSumToTotals(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		var rows []orders.ProductStat
		for i := 0; i < 1+rng.Intn(10); i++ {
			revenue := decimal.New(rng.Int63n(100000), -2)
			cost := decimal.New(rng.Int63n(100000), -2)
			rows = append(rows, orders.ProductStat{
				ProductName: string(rune('A' + i)),
				Quantity:    1 + rng.Int63n(50),
				Revenue:     revenue,
				Cost:        cost,
				Profit:      revenue.Sub(cost),
			})
		}

		report, err := (&Aggregator{Store: &fakeSource{rows: rows}}).Report(context.Background())
		require.NoError(t, err)

		revenue, cost, profit := decimal.Zero, decimal.Zero, decimal.Zero
		for _, r := range report.Rows {
			revenue = revenue.Add(r.Revenue)
			cost = cost.Add(r.Cost)
			profit = profit.Add(r.Profit)
		}
		require.True(t, revenue.Equal(report.Totals.Revenue))
		require.True(t, cost.Equal(report.Totals.Cost))
		require.True(t, profit.Equal(report.Totals.Revenue.Sub(report.Totals.Cost)))
		require.True(t, profit.Equal(report.Totals.Profit))
	}
}

func TestReport_WriteCSV(t *testing.T) {
	t.Parallel()

	a := &Aggregator{Store: &fakeSource{rows: []orders.ProductStat{
		stat("Widget", 3, "30", "18"),
		stat("Gadget, large", 1, "2.5", "1"),
	}}}
	report, err := a.Report(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf))

	want := strings.Join([]string{
		"Product Name,Total Quantity,Total Revenue,Total Cost,Profit",
		"Widget,3,30.00,18.00,12.00",
		`"Gadget, large",1,2.50,1.00,1.50`,
		"",
		"TOTAL,4,32.50,19.00,13.50",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestAggregator_Export(t *testing.T) {
	t.Parallel()

	a := &Aggregator{Store: &fakeSource{rows: []orders.ProductStat{stat("Widget", 3, "30", "18")}}}
	now := time.Unix(1700000000, 0)

	doc, err := a.Export(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, "orders_statistics_1700000000.csv", doc.FileName)
	assert.Equal(t, ContentType, doc.ContentType)
	assert.Contains(t, string(doc.Data), "TOTAL,3,30.00,18.00,12.00")
	assert.Contains(t, doc.Caption, "Total Profit: 12.00")
}
