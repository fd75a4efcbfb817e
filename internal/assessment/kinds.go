// Package assessment holds the domain types shared by the server and the
// client: the assessment kinds with their backend names, the opaque answers
// payload, and recommendation records.
package assessment

import "sort"

// Kind identifies one of the account-type specific questionnaires.
type Kind string

const (
	KindSME          Kind = "sme"
	KindDonor        Kind = "donor"
	KindInvestor     Kind = "investor"
	KindProfessional Kind = "professional"
)

// Question is one field of a kind's questionnaire. Options, when present,
// list the accepted values; Multi questions accept a comma separated list.
type Question struct {
	Key     string
	Prompt  string
	Options []string
	Multi   bool
}

// Spec parameterises the generic assessment flow and the backend for one kind.
type Spec struct {
	Kind              Kind
	Title             string
	Table             string
	RecommendFunction string
	ExitRoute         string
	ResultsRoute      string
	Questions         []Question
}

var sectors = []string{"agriculture", "fintech", "health", "education", "retail", "manufacturing", "energy", "logistics"}

var specs = map[Kind]Spec{
	KindSME: {
		Kind:              KindSME,
		Title:             "SME readiness assessment",
		Table:             "sme_assessments",
		RecommendFunction: "sme-recommendations",
		ExitRoute:         "/dashboard/sme",
		ResultsRoute:      "/assessment/sme?view=results",
		Questions: []Question{
			{Key: "sector", Prompt: "Which sector does your business operate in?", Options: sectors},
			{Key: "stage", Prompt: "Business stage", Options: []string{"idea", "startup", "growth", "established"}},
			{Key: "funding_need", Prompt: "Funding needed (USD)"},
			{Key: "skills_needed", Prompt: "Skills you are looking for", Multi: true,
				Options: []string{"finance", "marketing", "legal", "software", "operations", "compliance"}},
		},
	},
	KindDonor: {
		Kind:              KindDonor,
		Title:             "Donor impact assessment",
		Table:             "donor_assessments",
		RecommendFunction: "donor-recommendations",
		ExitRoute:         "/dashboard/donor",
		ResultsRoute:      "/assessment/donor?view=results",
		Questions: []Question{
			{Key: "focus_sectors", Prompt: "Sectors you fund", Multi: true, Options: sectors},
			{Key: "ticket_size", Prompt: "Typical grant size (USD)"},
			{Key: "stage", Prompt: "Preferred business stage", Options: []string{"idea", "startup", "growth", "established"}},
		},
	},
	KindInvestor: {
		Kind:              KindInvestor,
		Title:             "Investor mandate assessment",
		Table:             "investor_assessments",
		RecommendFunction: "investor-recommendations",
		ExitRoute:         "/dashboard/investor",
		ResultsRoute:      "/assessment/investor?view=results",
		Questions: []Question{
			{Key: "focus_sectors", Prompt: "Sectors you invest in", Multi: true, Options: sectors},
			{Key: "ticket_size", Prompt: "Typical ticket size (USD)"},
			{Key: "stage", Prompt: "Preferred business stage", Options: []string{"startup", "growth", "established"}},
			{Key: "instrument", Prompt: "Instrument", Options: []string{"equity", "debt", "convertible"}},
		},
	},
	KindProfessional: {
		Kind:              KindProfessional,
		Title:             "Professional skills assessment",
		Table:             "professional_assessments",
		RecommendFunction: "professional-recommendations",
		ExitRoute:         "/dashboard/professional",
		ResultsRoute:      "/assessment/professional?view=results",
		Questions: []Question{
			{Key: "skills", Prompt: "Your skills", Multi: true,
				Options: []string{"finance", "marketing", "legal", "software", "operations", "compliance"}},
			{Key: "sectors", Prompt: "Sectors you have worked in", Multi: true, Options: sectors},
			{Key: "hourly_rate", Prompt: "Hourly rate (USD)"},
		},
	},
}

// Lookup returns the spec registered for kind.
func Lookup(kind Kind) (Spec, bool) {
	s, ok := specs[kind]
	return s, ok
}

// All returns every registered spec ordered by kind.
func All() []Spec {
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
