package taxonomy

import "github.com/cognicore/evasao/pkg/evasao/dataset"

// Dropout categories.
const (
	Completed         = "Completed"
	Dropout           = "Dropout"
	CurrentlyEnrolled = "Currently Enrolled"
)

// Dropout reasons written to dropout_reason.
const (
	ReasonCompleted        = "Course Completed"
	ReasonAbandonment      = "Abandonment"
	ReasonCancellation     = "Cancellation"
	ReasonSISUWithdrawal   = "SISU Withdrawal"
	ReasonDismissal        = "Administrative Dismissal"
	ReasonTimeLimit        = "Expulsion for Time Limit"
	ReasonInternalTransfer = "Internal Transfer"
	ReasonNoDropout        = "No Dropout"
	ReasonUnidentified     = "Unidentified"
	ReasonDeceased         = "Deceased"
)

var dropoutRules = []Rule{
	rule(Completed, ReasonCompleted, `\bcon\b`, `curso\s+concluido`),
	rule(Dropout, ReasonAbandonment, `\baba\b`, `abandono\s+do\s+curso`),
	rule(Dropout, ReasonCancellation, `\bcan\b`, `cancelamento\s+geral\s+do\s+curso`),
	rule(Dropout, ReasonSISUWithdrawal, `desistencia\s*sisu`),
	rule(Dropout, ReasonDismissal, `\bdes\b`, `desligamento`),
	rule(Dropout, ReasonTimeLimit, `\bjub\b`, `jubilamento`),
	rule(Dropout, ReasonInternalTransfer, `\btic\b`, `transferencia\s+interna`),
	rule(CurrentlyEnrolled, ReasonNoDropout, `sem\s+evasao`),
	rule(Other, ReasonUnidentified, `nao\s+identificada`),
	rule(Other, ReasonDeceased, `\bfal\b`, `falecimento`),
}

// DropoutClassifier classifies dropout methods.
type DropoutClassifier struct {
	*Classifier
}

// NewDropout creates the dropout classifier.
func NewDropout() *DropoutClassifier {
	return &DropoutClassifier{Classifier: NewClassifier("dropout", dropoutRules, "")}
}

// Apply writes dropout_method_category and dropout_reason from
// dropout_method_raw. Unmatched rows get Other and a null reason.
func (d *DropoutClassifier) Apply(ds *dataset.Dataset) {
	if !ds.Has(dataset.ColDropoutRaw) {
		return
	}
	ds.Ensure(dataset.ColDropoutCategory)
	ds.Ensure(dataset.ColDropoutReason)
	for _, row := range ds.Rows() {
		res := d.Classify(row[dataset.ColDropoutRaw])
		row[dataset.ColDropoutCategory] = res.Category
		if res.Detail == "" {
			row[dataset.ColDropoutReason] = nil
			continue
		}
		row[dataset.ColDropoutReason] = res.Detail
	}
}
