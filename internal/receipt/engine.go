package receipt

// Evaluation is the full outcome of running a receipt through the engine.
type Evaluation struct {
	Normalized  NormalizedText
	Verdict     Verdict
	Analysis    Analysis
	Points      int
	Fingerprint string
}

// Engine runs the detection pipeline: normalize, classify, detect, score,
// award and fingerprint. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	policy   Policy
	detector *Detector
	scorer   *Scorer
}

// NewEngine builds an engine for the given policy.
func NewEngine(policy Policy) *Engine {
	return &Engine{
		policy:   policy,
		detector: NewDetector(policy),
		scorer:   NewScorer(policy),
	}
}

// Policy returns the policy the engine scores with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Analyze runs the pipeline without rejecting anything. The returned
// evaluation is populated as far as the text allows; unusable text yields an
// empty analysis.
func (e *Engine) Analyze(raw string) Evaluation {
	ev := Evaluation{Normalized: Normalize(raw)}
	ev.Verdict = Classify(ev.Normalized.Text)
	if !ev.Verdict.Usable {
		ev.Analysis = Analysis{Products: []DetectedProduct{}}
		return ev
	}

	products := e.detector.Detect(ev.Normalized.Lines)
	ev.Analysis = e.scorer.Score(ev.Normalized.Lines, products)
	ev.Points = Award(ev.Analysis)
	ev.Fingerprint = Fingerprint(ev.Normalized.Text, ev.Analysis.TotalAmount)
	return ev
}

// Evaluate runs the pipeline over extracted text and rejects receipts that
// are corrupted or do not qualify. Rejections are *SubmissionError.
func (e *Engine) Evaluate(in ExtractedText) (Evaluation, error) {
	ev := e.Analyze(in.Text)
	if !ev.Verdict.Usable {
		return ev, CorruptionDetected(ev.Verdict)
	}
	if !ev.Analysis.IsValid {
		return ev, ValidationFailed(&ev.Analysis)
	}
	return ev, nil
}
