package records

import (
	"reflect"
	"testing"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	rows := []AnomalyRecord{
		{TypeName: "LargeTx"},
		{TypeName: "HighFee", Severity: "Weak", HasSeverity: true, FeeEth: 0.5, HasFeeEth: true},
	}
	Normalize(rows)
	for i, r := range rows {
		if !r.HasSeverity || !r.HasCount || !r.HasFeeEth {
			t.Fatalf("row %d still has absent cells after normalize: %+v", i, r)
		}
	}
	if rows[0].Severity != SeverityUnknown {
		t.Fatalf("absent severity should become %q, got %q", SeverityUnknown, rows[0].Severity)
	}
	if rows[0].Count != 0 || rows[0].FeeEth != 0 {
		t.Fatalf("absent numerics should become 0: %+v", rows[0])
	}
	// present values untouched
	if rows[1].Severity != "Weak" || rows[1].FeeEth != 0.5 {
		t.Fatalf("present cells must not change: %+v", rows[1])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	rows := []AnomalyRecord{{TypeName: "LargeTx"}, {TypeName: "Structuring", Count: 7, HasCount: true}}
	Normalize(rows)
	once := make([]AnomalyRecord, len(rows))
	copy(once, rows)
	Normalize(rows)
	if !reflect.DeepEqual(once, rows) {
		t.Fatalf("normalize not idempotent:\nonce:  %+v\ntwice: %+v", once, rows)
	}
}

func TestNormalizePatterns(t *testing.T) {
	rows := []PatternRecord{
		{},
		{TypeName: "Whales", HasTypeName: true, Count: 2, HasCount: true},
	}
	NormalizePatterns(rows)
	if rows[0].TypeName != TypeUnknown || !rows[0].HasTypeName {
		t.Fatalf("absent type_name should become %q: %+v", TypeUnknown, rows[0])
	}
	if rows[0].Count != 0 || !rows[0].HasCount {
		t.Fatalf("absent count should become 0: %+v", rows[0])
	}
	if rows[1].TypeName != "Whales" || rows[1].Count != 2 {
		t.Fatalf("present cells must not change: %+v", rows[1])
	}

	once := make([]PatternRecord, len(rows))
	copy(once, rows)
	NormalizePatterns(rows)
	if !reflect.DeepEqual(once, rows) {
		t.Fatalf("pattern normalize not idempotent")
	}
}
