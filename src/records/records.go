package records

import "time"

// SeverityUnknown is substituted for anomaly rows that carry no severity.
const SeverityUnknown = "Unknown"

// TypeUnknown is substituted for pattern rows that carry no type_name.
const TypeUnknown = "Unknown"

// AnomalyRecord is one row of an anomalies CSV export. The scanner emits one
// row per detected anomaly; which optional columns are populated depends on
// the anomaly kind (a LargeTx has a tx_hash and timestamp, a HighFrequency
// has a sender and count, and so on). Absent cells are tracked with Has*
// flags rather than sentinel values so that normalization stays idempotent.
type AnomalyRecord struct {
	TypeName string

	Timestamp    time.Time
	HasTimestamp bool

	Severity    string
	HasSeverity bool

	Count    float64
	HasCount bool

	FeeEth    float64
	HasFeeEth bool

	// Pass-through columns, kept for the table view. The receivers_json /
	// sender pair feeds a relationship graph that is not rendered here.
	TxHash        string
	Sender        string
	Address       string
	Reasons       string
	ReceiversJSON string
}

// PatternRecord is one row of a business-patterns CSV export.
type PatternRecord struct {
	TypeName    string
	HasTypeName bool

	Count    float64
	HasCount bool

	Sender  string
	TxHash  string
	Message string
}

// Normalize fills the documented defaults into anomaly rows: absent severity
// becomes "Unknown", absent count and fee_eth become 0. Rows are never
// removed. Applying it twice is the same as applying it once.
func Normalize(rows []AnomalyRecord) {
	for i := range rows {
		r := &rows[i]
		if !r.HasSeverity {
			r.Severity = SeverityUnknown
			r.HasSeverity = true
		}
		if !r.HasCount {
			r.Count = 0
			r.HasCount = true
		}
		if !r.HasFeeEth {
			r.FeeEth = 0
			r.HasFeeEth = true
		}
	}
}

// NormalizePatterns fills defaults into pattern rows: absent type_name
// becomes "Unknown", absent count becomes 0. Idempotent, removes nothing.
func NormalizePatterns(rows []PatternRecord) {
	for i := range rows {
		r := &rows[i]
		if !r.HasTypeName {
			r.TypeName = TypeUnknown
			r.HasTypeName = true
		}
		if !r.HasCount {
			r.Count = 0
			r.HasCount = true
		}
	}
}
