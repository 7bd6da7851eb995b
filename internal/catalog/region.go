package catalog

// Region identifies the release region of a catalog record.
type Region string

const (
	RegionUSA     Region = "USA"
	RegionEUR     Region = "EUR"
	RegionJPN     Region = "JPN"
	RegionASIA    Region = "ASIA"
	RegionUnknown Region = "UNKNOWN"
)

// String returns the canonical region code.
func (r Region) String() string {
	switch r {
	case RegionUSA, RegionEUR, RegionJPN, RegionASIA:
		return string(r)
	default:
		return string(RegionUnknown)
	}
}
