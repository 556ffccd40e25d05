package types

// ResumeRecord is the candidate-side input to an evaluation. It is produced
// by an external parser and never constructed or mutated by the pipeline.
type ResumeRecord struct {
	Skills         []string `json:"skills"`
	Education      []string `json:"education"`
	Experience     []string `json:"experience"`
	Projects       []string `json:"projects"`
	Certifications []string `json:"certifications"`
	FullText       string   `json:"fullText"`
}

// JobRecord is the requirement-side input to an evaluation.
type JobRecord struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	MustHaveSkills   []string `json:"mustHaveSkills"`
	GoodToHaveSkills []string `json:"goodToHaveSkills"`
	Qualifications   []string `json:"qualifications"`
}

// Verdict is the three-level categorical judgment derived from the final score.
type Verdict string

const (
	VerdictHigh   Verdict = "High"
	VerdictMedium Verdict = "Medium"
	VerdictLow    Verdict = "Low"
)

// Evidence carries the supporting detail attached to a sub-score.
type Evidence struct {
	Matched []string `json:"matched,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Method  string   `json:"method,omitempty"`
	Notes   []string `json:"notes,omitempty"`
}

// SubScore is one matcher's independent [0,100] contribution prior to
// aggregation.
type SubScore struct {
	Name     string   `json:"name"`
	Value    float64  `json:"value"`
	Evidence Evidence `json:"evidence"`
}

// EvaluationResult is the pipeline's sole output for one
// (ResumeRecord, JobRecord) pair. All fields are always populated, even when
// a sub-component degraded; collections are empty rather than nil so the
// JSON surface never renders null.
type EvaluationResult struct {
	LexicalScore          float64  `json:"lexicalScore"`
	SimilarityScore       float64  `json:"similarityScore"`
	CompatibilityScore    float64  `json:"compatibilityScore"`
	SimilarityMethod      string   `json:"similarityMethod"`
	FinalScore            float64  `json:"finalScore"`
	Verdict               Verdict  `json:"verdict"`
	MissingSkills         []string `json:"missingSkills"`
	MissingQualifications []string `json:"missingQualifications"`
	Strengths             []string `json:"strengths"`
	Feedback              string   `json:"feedback"`
	CompatibilityNotes    []string `json:"compatibilityNotes"`
}
