package sms

import "strings"

// Quality is the Skebby message type. Each quality has its own credit pool.
type Quality string

const (
	QualityClassicPlus Quality = "GP"
	QualityClassic     Quality = "TI"
	QualityBasic       Quality = "SI"
	QualityExport      Quality = "EE"
	QualityAdvertising Quality = "AD"
)

// DefaultQuality is used when no quality is configured.
const DefaultQuality = QualityClassic

// Qualities lists every recognised quality in provider order.
var Qualities = []Quality{
	QualityClassicPlus,
	QualityClassic,
	QualityBasic,
	QualityExport,
	QualityAdvertising,
}

// creditIndex is the position of each quality inside the "sms" array of the
// status response. The order is fixed by the provider.
var creditIndex = map[Quality]int{
	QualityClassicPlus: 0,
	QualityClassic:     1,
	QualityBasic:       2,
	QualityExport:      3,
	QualityAdvertising: 4,
}

// Valid reports whether q is one of the recognised qualities.
func (q Quality) Valid() bool {
	_, ok := creditIndex[q]
	return ok
}

// CreditIndex returns the index of q in the provider's credit array.
func (q Quality) CreditIndex() (int, bool) {
	i, ok := creditIndex[q]
	return i, ok
}

func (q Quality) String() string { return string(q) }

// ParseQuality returns the Quality named by s. Matching is exact.
func ParseQuality(s string) (Quality, error) {
	q := Quality(s)
	if !q.Valid() {
		return "", validationFailed("invalid SMS quality %q, must be one of: %s", s, qualityList())
	}
	return q, nil
}

func qualityList() string {
	names := make([]string, len(Qualities))
	for i, q := range Qualities {
		names[i] = string(q)
	}
	return strings.Join(names, ", ")
}
