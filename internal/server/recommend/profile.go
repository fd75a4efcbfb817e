package recommend

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/smehub/internal/assessment"
)

// Summarize derives the short profile and strategy texts stored with a
// completed assessment.
func Summarize(kind assessment.Kind, answers assessment.Answers) (profile, strategy string) {
	switch kind {
	case assessment.KindSME:
		stage := orDefault(answers.Text("stage"), "unspecified")
		profile = fmt.Sprintf("%s-stage business in %s", stage, orDefault(answers.Text("sector"), "an unspecified sector"))
		need, ok := answers.Number("funding_need")
		switch {
		case !ok || need <= 0:
			strategy = "Focus on capability building before raising capital."
		case need < 50000:
			strategy = "Target grants and programme funding."
		default:
			strategy = "Prepare an investor pitch and data room."
		}
		if skills := answers.Strings("skills_needed"); len(skills) > 0 {
			strategy += " Engage professionals for " + strings.Join(skills, ", ") + "."
		}
	case assessment.KindDonor:
		profile = "donor focused on " + listOrAny(answers.Strings("focus_sectors"))
		strategy = fmt.Sprintf("Source %s-stage SMEs for grants around %s USD.",
			orDefault(answers.Text("stage"), "any"), orDefault(answers.Text("ticket_size"), "flexible"))
	case assessment.KindInvestor:
		profile = fmt.Sprintf("%s investor focused on %s",
			orDefault(answers.Text("instrument"), "multi-instrument"), listOrAny(answers.Strings("focus_sectors")))
		strategy = fmt.Sprintf("Build a %s-stage pipeline with tickets around %s USD.",
			orDefault(answers.Text("stage"), "mixed"), orDefault(answers.Text("ticket_size"), "flexible"))
	case assessment.KindProfessional:
		profile = "professional offering " + listOrAny(answers.Strings("skills"))
		strategy = "Pitch to SMEs in " + listOrAny(answers.Strings("sectors")) + "."
	}
	return profile, strategy
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func listOrAny(xs []string) string {
	if len(xs) == 0 {
		return "any sector"
	}
	return strings.Join(xs, ", ")
}
