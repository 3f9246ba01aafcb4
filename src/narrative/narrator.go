package narrative

import (
	"context"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"
)

// Narrator runs the section tasks in order against one generator.
type Narrator struct {
	Generator interfaces.INarrativeGenerator
	Logger    *logger.Logger
}

func NewNarrator(gen interfaces.INarrativeGenerator, log *logger.Logger) *Narrator {
	return &Narrator{Generator: gen, Logger: log}
}

// -----------------------------------------------------------------------------

// Compose generates every section. Each section sees the ones before it.
// It stops at the first failed section and reports it as ReportIncomplete.
func (n *Narrator) Compose(ctx context.Context, c PromptContext) (models.MNarrative, error) {
	var out models.MNarrative
	c.Previous = models.MNarrative{}
	c.WebSearch = n.searchEnabled()

	for _, section := range models.NarrativeSections {
		if err := ctx.Err(); err != nil {
			return out, helpers.NewReportIncomplete([]string{section}, err, "narrative generation aborted before %s", section)
		}

		prompt, err := BuildPrompt(section, c)
		if err != nil {
			return out, err
		}

		text, err := n.Generator.Generate(ctx, prompt)
		if err != nil {
			n.Logger.Error("Narrative section %s failed: %v", section, err)
			return out, helpers.NewReportIncomplete([]string{section}, err, "narrative generation failed for %s", section)
		}

		out.SetSection(section, text)
		c.Previous.SetSection(section, text)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func (n *Narrator) searchEnabled() bool {
	gp, ok := n.Generator.(interfaces.IGroundingProvider)
	return ok && gp.IsGoogleSearchEnabled()
}
