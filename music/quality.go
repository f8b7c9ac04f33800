package music

import "fmt"

// Quality is an audio fidelity tier accepted by the upstream streaming service.
// Tiers are ordered from lossiest to best.
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityExHigh   Quality = "exhigh"
	QualityLossless Quality = "lossless"
	QualityHiRes    Quality = "hires"
	QualitySky      Quality = "sky"
	QualityJYEffect Quality = "jyeffect"
	QualityJYMaster Quality = "jymaster"
)

// qualityOrder lists all valid tiers from lowest to highest.
var qualityOrder = []Quality{
	QualityStandard,
	QualityExHigh,
	QualityLossless,
	QualityHiRes,
	QualitySky,
	QualityJYEffect,
	QualityJYMaster,
}

var qualityNames = map[Quality]string{
	QualityStandard: "Standard",
	QualityExHigh:   "Extra High",
	QualityLossless: "Lossless",
	QualityHiRes:    "Hi-Res",
	QualitySky:      "Immersive Surround",
	QualityJYEffect: "HD Surround",
	QualityJYMaster: "Ultra-Clear Master",
}

// ParseQuality validates a quality string and returns the matching tier.
func ParseQuality(s string) (Quality, error) {
	q := Quality(s)
	if !q.Valid() {
		return "", fmt.Errorf("invalid quality %q, supported: %v", s, qualityOrder)
	}
	return q, nil
}

// Valid reports whether q is one of the fixed quality tiers.
func (q Quality) Valid() bool {
	for _, known := range qualityOrder {
		if q == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable name for logs and reports.
func (q Quality) DisplayName() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%s)", string(q))
}

func (q Quality) String() string {
	return string(q)
}
