// Package discovery holds the results side of a scan: the DiscoveredName
// store that accumulates answer records as they are parsed off the wire,
// and the WildcardCache used to suppress names that only resolve because a
// root domain answers every query with the same wildcard record.
package discovery

import "time"

// RecordType is the subset of DNS resource record types this engine
// surfaces to callers. Only these five are ever produced by Receive &
// Dispatch; anything else observed on the wire is ignored.
type RecordType string

const (
	TypeA     RecordType = "A"
	TypeCNAME RecordType = "CNAME"
	TypeNS    RecordType = "NS"
	TypeMX    RecordType = "MX"
	TypeTXT   RecordType = "TXT"
)

// Name is one answer record observed for a queried name. Duplicates are
// permitted — the store appends every answer it is given; de-duplication,
// if wanted, is a downstream concern.
type Name struct {
	QueriedName string     `json:"queried_name"`
	RDataText   string     `json:"rdata_text"`
	RecordType  RecordType `json:"record_type"`
	ObservedAt  time.Time  `json:"observed_at"`
}

// Summary tallies a frozen discovery set the way the scan's result contract
// names: total record count, unique RDATA values, and a breakdown by
// record type.
type Summary struct {
	Total        int                `json:"total"`
	UniqueRDATA  int                `json:"unique_rdata"`
	ByRecordType map[RecordType]int `json:"by_record_type"`
}
