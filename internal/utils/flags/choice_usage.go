package flags

import (
	"fmt"
	"strings"
)

const (
	choiceSeparatorConstant         = "|"
	choicePlaceholderTemplate       = "<%s>"
	choiceUsageTemplateConstant     = "`%s` %s"
	choiceUsageBareTemplateConstant = "`%s`"
)

// FormatChoiceUsage renders a flag usage string listing choices with the default in upper case,
// for example "`<TEXT|csv|yaml>` Report format.".
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	seenChoices := make(map[string]struct{}, len(choices))
	displayedChoices := make([]string, 0, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, seen := seenChoices[normalizedChoice]; seen {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		displayedChoices = append(displayedChoices, trimmedChoice)
	}

	placeholder := fmt.Sprintf(choicePlaceholderTemplate, strings.Join(displayedChoices, choiceSeparatorConstant))
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageBareTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageTemplateConstant, placeholder, description)
}
