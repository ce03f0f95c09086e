package srs

// Quality is the recall-performance rating for a single review.
type Quality int

const (
	QualityAgain Quality = 0
	QualityHard  Quality = 1
	QualityGood  Quality = 2
	QualityEasy  Quality = 3
)

const (
	// Answers faster than this promote GOOD to EASY.
	fastAnswerSeconds = 5
	// Answers slower than this demote EASY to GOOD and GOOD to HARD.
	slowAnswerSeconds = 15
)

// String returns the quality name used in logs and learning history records.
func (q Quality) String() string {
	switch q {
	case QualityAgain:
		return "again"
	case QualityHard:
		return "hard"
	case QualityGood:
		return "good"
	case QualityEasy:
		return "easy"
	}
	return "unknown"
}

// clampQuality coerces out-of-range ratings instead of rejecting them.
// Scheduling must never fail on a malformed input.
func clampQuality(q Quality) Quality {
	if q < QualityAgain {
		return QualityAgain
	}
	if q > QualityEasy {
		return QualityEasy
	}
	return q
}

// adjustForSpeed applies the response-time bonus/penalty to a correct answer.
// Wrong answers and unknown elapsed times pass through unchanged.
func adjustForSpeed(q Quality, elapsedSeconds float64) Quality {
	if q < QualityGood || elapsedSeconds <= 0 {
		return q
	}
	if elapsedSeconds < fastAnswerSeconds && q == QualityGood {
		return QualityEasy
	}
	if elapsedSeconds > slowAnswerSeconds {
		switch q {
		case QualityEasy:
			return QualityGood
		case QualityGood:
			return QualityHard
		}
	}
	return q
}

// QualityFromResult derives a quality rating from correctness and response time.
// This is the uniform mapping used when a session folds answers back into the
// scheduler: wrong answers are always AGAIN no matter how fast they came in,
// and a missing elapsed time counts as zero, so it lands in the fast band.
func QualityFromResult(isCorrect bool, elapsedSeconds float64) Quality {
	if !isCorrect {
		return QualityAgain
	}
	switch {
	case elapsedSeconds < fastAnswerSeconds:
		return QualityEasy
	case elapsedSeconds > slowAnswerSeconds:
		return QualityHard
	}
	return QualityGood
}
