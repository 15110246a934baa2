package flashcard

// Progress tracks which cards were graded during the current session.
// It is not safe for concurrent use.
type Progress struct {
	total    int
	answered map[string]struct{}
}

type ProgressSnapshot struct {
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
}

func NewProgress(total int) *Progress {
	return &Progress{
		total:    max(total, 0),
		answered: make(map[string]struct{}),
	}
}

// Reset starts tracking a freshly selected session.
func (p *Progress) Reset(total int) {
	p.total = max(total, 0)
	p.answered = make(map[string]struct{})
}

// MarkAnswered records cardID as graded. Grading the same card twice counts once.
func (p *Progress) MarkAnswered(cardID string) {
	p.answered[cardID] = struct{}{}
}

func (p *Progress) IsAnswered(cardID string) bool {
	_, ok := p.answered[cardID]
	return ok
}

func (p *Progress) Answered() int { return len(p.answered) }

func (p *Progress) Total() int { return p.total }

// Percent is answered/total*100, capped at 100. An empty session reports 0.
func (p *Progress) Percent() float64 {
	if p.total == 0 {
		return 0
	}
	return min(100, float64(len(p.answered))/float64(p.total)*100)
}

func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		Answered: p.Answered(),
		Total:    p.total,
		Percent:  p.Percent(),
	}
}
