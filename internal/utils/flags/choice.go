package flags

import (
	"fmt"
	"strings"
)

const (
	choiceUsageTemplateConstant = "`<%s>` %s"
	choiceSeparatorConstant     = "|"
)

// FormatChoiceUsage lists the accepted values of a flag, upper-casing the default one.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	renderedChoices := make([]string, 0, len(choices))
	for _, choice := range choices {
		if strings.EqualFold(choice, defaultChoice) {
			renderedChoices = append(renderedChoices, strings.ToUpper(choice))
			continue
		}
		renderedChoices = append(renderedChoices, strings.ToLower(choice))
	}
	return strings.TrimSpace(fmt.Sprintf(choiceUsageTemplateConstant, strings.Join(renderedChoices, choiceSeparatorConstant), strings.TrimSpace(description)))
}
