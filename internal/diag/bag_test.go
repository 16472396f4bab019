package diag

import (
	"testing"

	"pyfix/internal/source"
)

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	sp := func(start, end uint32) source.Span { return source.Span{File: 1, Start: start, End: end} }

	bag.Add(NewWarning(DrvIterationLimit, sp(10, 12), "late"))
	bag.Add(NewError(RwTransformFailed, sp(0, 4), "first"))
	bag.Add(NewError(RwTransformFailed, sp(0, 4), "first"))
	bag.Add(NewError(PatSyntax, sp(10, 12), "pattern"))

	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics after dedup, got %d", len(items))
	}
	if items[0].Message != "first" {
		t.Fatalf("expected earliest span first, got %q", items[0].Message)
	}
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Fatalf("expected error before warning at the same span, got %v then %v", items[1].Severity, items[2].Severity)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected errors and warnings to be reported")
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(NewError(PatSyntax, source.Span{}, "a")) {
		t.Fatalf("first add must succeed")
	}
	if bag.Add(NewError(PatSyntax, source.Span{}, "b")) {
		t.Fatalf("second add must be rejected by the limit")
	}

	other := NewBag(5)
	other.Add(NewWarning(DrvIterationLimit, source.Span{}, "c"))
	bag.Merge(other)
	if bag.Len() != 2 {
		t.Fatalf("merge should grow the limit, got %d items", bag.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:    "LEX1001",
		SynExpectColon:    "SYN2006",
		PatSyntax:         "PAT3001",
		FixDuplicateName:  "FIX3101",
		RwTransformFailed: "RW4001",
		DrvIterationLimit: "DRV5001",
		IOLoadFileError:   "IO6001",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d: got %s want %s", code, got, want)
		}
	}
}

func TestDedupReporterAndBuilder(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(&BagReporter{Bag: bag})
	sp := source.Span{File: 2, Start: 3, End: 5}

	for range 3 {
		ReportError(r, RwTransformFailed, sp, "fixer \"boom\" failed").
			WithNote(sp, "treated as no match").
			Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("expected note to survive")
	}

	b := ReportWarning(r, DrvIterationLimit, sp, "cap")
	b.Emit()
	b.Emit()
	if bag.Len() != 2 {
		t.Fatalf("builder must emit exactly once, got %d", bag.Len())
	}
	if n := r.Suppressed(); n != 2 {
		t.Errorf("suppressed = %d, want 2", n)
	}

	other := source.Span{File: 3, Start: 3, End: 5}
	ReportError(r, RwTransformFailed, other, "fixer \"boom\" failed").Emit()
	if bag.Len() != 3 || r.Suppressed() != 2 {
		t.Errorf("same failure in another file must be kept: len=%d suppressed=%d", bag.Len(), r.Suppressed())
	}
	var none *DedupReporter
	if none.Suppressed() != 0 {
		t.Error("nil reporter suppresses nothing")
	}
}
