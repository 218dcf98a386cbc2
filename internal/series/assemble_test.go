package series

import (
	"testing"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
)

func testDoc() *model.CacheDocument {
	doc := model.NewCacheDocument()
	doc.Stocks["9988"] = model.PriceSeries{
		dates.MustParse("2021-01-04"): 228.2,
		dates.MustParse("2021-01-05"): 231.0,
		dates.MustParse("2021-01-06"): 229.5,
	}
	doc.Stocks["0388"] = model.PriceSeries{
		dates.MustParse("2021-01-04"): 425.8,
		// 01-05 missing for 0388: suspended, not a data error
		dates.MustParse("2021-01-06"): 430.2,
		dates.MustParse("2021-02-01"): 455.0, // outside the assembled range
	}
	return doc
}

func TestAssembleUnionSortedAscending(t *testing.T) {
	rng := dates.NewRange(dates.MustParse("2021-01-01"), dates.MustParse("2021-01-31"))
	tbl := Assemble(testDoc(), []string{"9988", "0388"}, rng)

	want := []string{"2021-01-04", "2021-01-05", "2021-01-06"}
	if len(tbl.Dates) != len(want) {
		t.Fatalf("rows = %v, want %v", tbl.Dates, want)
	}
	for i, d := range tbl.Dates {
		if d.String() != want[i] {
			t.Errorf("row %d = %s, want %s", i, d, want[i])
		}
	}
}

func TestAssembleExplicitNoDataMarker(t *testing.T) {
	rng := dates.NewRange(dates.MustParse("2021-01-01"), dates.MustParse("2021-01-31"))
	tbl := Assemble(testDoc(), []string{"9988", "0388"}, rng)

	// 2021-01-05 exists for 9988 but not 0388.
	row := 1
	if tbl.Dates[row].String() != "2021-01-05" {
		t.Fatalf("row 1 = %s", tbl.Dates[row])
	}
	if c := tbl.At(row, "9988"); !c.Valid || c.Price != 231.0 {
		t.Errorf("9988 cell = %+v", c)
	}
	if c := tbl.At(row, "0388"); c.Valid {
		t.Errorf("0388 must show no-data on 2021-01-05, got %+v", c)
	}
}

func TestAssembleRespectsRange(t *testing.T) {
	rng := dates.NewRange(dates.MustParse("2021-01-05"), dates.MustParse("2021-01-06"))
	tbl := Assemble(testDoc(), []string{"9988", "0388"}, rng)
	if len(tbl.Dates) != 2 {
		t.Fatalf("expected 2 in-range rows, got %v", tbl.Dates)
	}
	for _, d := range tbl.Dates {
		if !rng.Contains(d) {
			t.Errorf("date %s outside requested range", d)
		}
	}
}

func TestLast(t *testing.T) {
	rng := dates.NewRange(dates.MustParse("2021-01-01"), dates.MustParse("2021-01-31"))
	tbl := Assemble(testDoc(), []string{"9988", "0388"}, rng)

	d, p, ok := tbl.Last("0388")
	if !ok || d.String() != "2021-01-06" || p != 430.2 {
		t.Errorf("Last(0388) = %s %v %v", d, p, ok)
	}
	if _, _, ok := tbl.Last("0728"); ok {
		t.Error("unknown ticker must report no data")
	}
}

func TestAssembleEmptyDocument(t *testing.T) {
	rng := dates.NewRange(dates.MustParse("2021-01-01"), dates.MustParse("2021-01-31"))
	tbl := Assemble(model.NewCacheDocument(), []string{"9988"}, rng)
	if len(tbl.Dates) != 0 {
		t.Errorf("empty cache should produce an empty table, got %v", tbl.Dates)
	}
}
