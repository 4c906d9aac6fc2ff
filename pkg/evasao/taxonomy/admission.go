package taxonomy

import (
	"math"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
)

// Admission categories.
const (
	PublicIncomeIndependentEthnic = "Public School, Income-Independent + Ethnic-Racial"
	PublicLowIncomeEthnic         = "Public School, Low Income + Ethnic-Racial"
	PublicIncomeIndependent       = "Public School, Income-Independent"
	PublicLowIncome               = "Public School, Low Income"
	Disability                    = "People with Disabilities"
	BroadCompetition              = "Broad Competition"
	BroadCompetitionPreQuota      = "Broad Competition – Pre-Quota-Policy"

	ExternalTransfer  = "External Transfer"
	InternalTransfer  = "Internal Transfer"
	DiplomaHolder     = "Diploma Holder"
	ExOfficioTransfer = "Ex-Officio Transfer"
	AcademicMobility  = "Academic Mobility"
	PECG              = "PEC-G Program"
	SpecialStudent    = "Special Student / Isolated Course"
	JudicialOrder     = "Judicial Order"
)

// DefaultPolicyChangeYear is the first admission year under the quota law.
const DefaultPolicyChangeYear = 2014

// Quota rules come before broad competition: quota descriptions often
// mention broad competition as well.
var admissionRules = []Rule{
	rule(PublicIncomeIndependentEthnic, "",
		`indep.*renda.*pret[oa]s?.*pard[oa]s?`,
		`indep.*renda.*(indigen[ao]|indio)`),
	rule(PublicLowIncomeEthnic, "",
		`baixa.*renda.*pret[oa]s?.*pard[oa]s?`,
		`ate.*1.*5.*s\.?m.*pret[oa]s?.*pard[oa]s?`,
		`ate.*1.*5.*s\.?m.*(indigen[ao]|indio)`),
	rule(PublicIncomeIndependent, "",
		`sisu.*escola.*publica.*indep.*renda`,
		`indep.*renda.*escola.*publica`,
		`independente.*renda.*escola.*publica`),
	rule(PublicLowIncome, "",
		`sisu.*escola.*publica.*ate.*1.*5.*s\.?m`,
		`baixa.*renda.*escola.*publica`,
		`baixa.*renda.*-.*escola.*publica`),
	rule(Disability, "",
		`pessoa com deficiencia`,
		`\bpcd\b`,
		`deficiencia`,
		`\bcota.*deficiencia\b`,
		`\bcota.*pcd\b`),
	rule(BroadCompetition, "",
		`\bampla\s*concorrencia\b`,
		`sisu\s*ampla\s*concorrencia`,
		`\bve\s*[-:]?\s*vestibular\b`,
		`\ben\s*[-:]?\s*enem\b`),
	rule(ExternalTransfer, ExternalTransfer, `transferencia\s*externa`),
	rule(InternalTransfer, InternalTransfer, `transferencia\s*interna`),
	rule(DiplomaHolder, DiplomaHolder, `portador\s*de\s*diploma`),
	rule(ExOfficioTransfer, ExOfficioTransfer, `ex\s*-?\s*oficio`),
	rule(AcademicMobility, AcademicMobility, `mobilidade\s*academica`),
	rule(PECG, PECG, `pec\s*-?\s*g\b`),
	rule(SpecialStudent, SpecialStudent, `aluno\s*especial`, `disciplina\s*isolada`),
	rule(JudicialOrder, JudicialOrder, `judicial`, `mandado\s*de\s*seguranca`),
}

// collapsedAdmission lists categories reported as Other.
var collapsedAdmission = map[string]bool{
	ExternalTransfer:  true,
	InternalTransfer:  true,
	DiplomaHolder:     true,
	ExOfficioTransfer: true,
	AcademicMobility:  true,
	PECG:              true,
	SpecialStudent:    true,
	JudicialOrder:     true,
}

// Admission classifies admission methods.
type Admission struct {
	*Classifier
	policyChangeYear int
}

// NewAdmission creates the admission classifier. Broad competition entries
// admitted before policyChangeYear are relabeled as pre-quota.
func NewAdmission(policyChangeYear int) *Admission {
	if policyChangeYear <= 0 {
		policyChangeYear = DefaultPolicyChangeYear
	}
	return &Admission{
		Classifier:       NewClassifier("admission", admissionRules, ""),
		policyChangeYear: policyChangeYear,
	}
}

// Category classifies text and collapses minor categories into Other.
func (a *Admission) Category(text any) string {
	return Collapse(a.Classify(text).Category)
}

// Collapse maps minor admission categories to Other.
func Collapse(category string) string {
	if collapsedAdmission[category] {
		return Other
	}
	return category
}

// RelabelPreQuota relabels broad competition admitted before the policy
// change year. NaN years leave the category unchanged.
func (a *Admission) RelabelPreQuota(category string, year float64) string {
	if category != BroadCompetition || math.IsNaN(year) {
		return category
	}
	if int(year) < a.policyChangeYear {
		return BroadCompetitionPreQuota
	}
	return category
}

// Apply writes admission_method_category from admission_method_raw, then
// applies the pre-quota relabel when admission_year is present. Datasets
// without the raw column are left unchanged.
func (a *Admission) Apply(ds *dataset.Dataset) {
	if !ds.Has(dataset.ColAdmissionRaw) {
		return
	}
	ds.Ensure(dataset.ColAdmissionCategory)
	for _, row := range ds.Rows() {
		row[dataset.ColAdmissionCategory] = a.Category(row[dataset.ColAdmissionRaw])
	}
	if !ds.Has(dataset.ColAdmissionYear) {
		return
	}
	for _, row := range ds.Rows() {
		cat, _ := row.Str(dataset.ColAdmissionCategory)
		row[dataset.ColAdmissionCategory] = a.RelabelPreQuota(cat, row.Float(dataset.ColAdmissionYear))
	}
}
