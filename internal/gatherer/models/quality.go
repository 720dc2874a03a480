package models

// Quality is the analysis tier requested for a match. Higher tiers can
// trigger re-processing of a match that was already gathered at a lower one.
type Quality int16

const (
	QualityLow    Quality = 1
	QualityMedium Quality = 2
	QualityHigh   Quality = 3
)

func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return "unknown"
	}
}
