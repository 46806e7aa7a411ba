// Package scoring builds match prompts, calls the generative scoring
// service, and parses its output into scoring records.
package scoring

import (
	"github.com/hireflow/hireflow/internal/prompts"
)

// BuildMatchPrompt renders the scoring request for one candidate. It is a
// pure function of its inputs: the same inputs always produce the same
// prompt. The rendered text instructs the model to respond with only a JSON
// object carrying exactly the keys the parser expects, which is what makes
// the outermost-braces extraction in ParseRecord workable.
func BuildMatchPrompt(resumeText, profileText, jobTitle, jobDescription string) string {
	template := prompts.MustGet("scoring.json", "match_assessment")
	return prompts.Format(template, map[string]string{
		"Resume":         resumeText,
		"Profile":        profileText,
		"JobTitle":       jobTitle,
		"JobDescription": jobDescription,
	})
}
