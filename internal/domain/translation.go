package domain

// FilteredParagraph is a paragraph that survived the Filter and is
// eligible for translation. RawText preserves all whitespace, including
// leading/trailing spaces, exactly as it appeared in the source paragraph.
type FilteredParagraph struct {
	Index   int
	Para    *Paragraph
	RawText string
}

// ParagraphComplexity is a transient score the Planner derives from a
// Paragraph to decide section analysis and per-batch adaptivity.
type ParagraphComplexity struct {
	Score                int
	IsComplex             bool
	HasInlineFormatting   bool
	RunCount              int
}

// RunFormatting is a full snapshot of one Run's attributes plus its
// original text, captured only on the robust path for the duration of
// one batch's prompt/response round trip.
type RunFormatting struct {
	RunIndex int
	Text     string

	Bold        *bool
	Italic      *bool
	Underline   *bool
	Strike      *bool
	Subscript   *bool
	Superscript *bool
	AllCaps     *bool
	SmallCaps   *bool

	FontName  *string
	FontSize  *int
	Color     *string
	Highlight *string
}

// Batch is a contiguous group of filtered paragraphs translated in one
// LLM call. Members are contiguous in filtered order; this invariant is
// enforced by the Planner and never violated downstream.
type Batch struct {
	ID              int
	Members         []FilteredParagraph
	UseRobust       bool
	EstimatedTokens int
}

// BatchResult is what the Executor hands back to the Applier for one
// Batch. len(Translations) always equals len(Members) after Executor/Applier
// padding or trimming — see Translations field doc.
type BatchResult struct {
	BatchID int

	// Translations has one entry per batch member, in member order.
	// Under-count from the LLM response is padded with a placeholder;
	// over-count is trimmed. See internal/translate/respparse.
	Translations []string

	// RunTranslations holds, for the robust path only, the decoded
	// run-index -> translated-text table per member (same order as
	// Translations). Empty for the standard path.
	RunTranslations []map[int]string

	InputTokens  int
	OutputTokens int
	TotalTokens  int

	Failed bool
	Logs   []string
}

// ProgressRecord is the process-wide state an external status endpoint
// reads for a single translation request. Counters are monotonic.
type ProgressRecord struct {
	TotalBatches     int
	CompletedBatches int
	Error            bool
}

// UsageTotals accumulates token counters across every batch of a request.
type UsageTotals struct {
	Input int
	Output int
	Total int
}

// Add folds one batch's usage into the running totals.
func (u *UsageTotals) Add(input, output, total int) {
	u.Input += input
	u.Output += output
	u.Total += total
}
