package question

import (
	"fmt"
	"math/rand"

	"github.com/t-yamaguchi/revoca/internal/word"
)

// optionCount is the fixed option-set size for every MCQ variant.
const optionCount = 4

// prepositionConfusionGroups maps a preposition to the ones learners most
// often mistake it for. Curated pairs make harder, pedagogically meaningful
// distractors than random sampling.
var prepositionConfusionGroups = map[string][]string{
	"at":    {"in", "on", "to"},
	"in":    {"at", "on", "into"},
	"on":    {"at", "in", "onto"},
	"for":   {"since", "from", "to"},
	"since": {"for", "from"},
	"to":    {"for", "at", "into"},
}

// confusionGroup returns the confusion-group tag for a word, or "".
func confusionGroup(text string) string {
	if _, ok := prepositionConfusionGroups[text]; ok {
		return "preposition_" + text
	}
	return ""
}

// buildWordOptions assembles exactly optionCount shuffled options around the
// correct word. Confusion pairs are preferred; remaining slots are sampled
// from the owner's other words and padded with synthetic placeholders when
// the pool is too small.
func buildWordOptions(rng *rand.Rand, w *word.Word, distractors []word.Word) []string {
	options := []string{w.Text}

	if confusions, ok := prepositionConfusionGroups[w.Text]; ok {
		for _, c := range confusions {
			if len(options) == optionCount {
				break
			}
			options = appendUnique(options, c)
		}
	}

	for _, i := range rng.Perm(len(distractors)) {
		if len(options) == optionCount {
			break
		}
		d := distractors[i]
		if d.ID == w.ID {
			continue
		}
		options = appendUnique(options, d.Text)
	}

	options = padOptions(options, func(n int) string {
		return fmt.Sprintf("word %d", n)
	})

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// buildDefinitionOptions assembles exactly optionCount shuffled definitions
// around the correct one, sampling the distractors' definitions.
func buildDefinitionOptions(rng *rand.Rand, w *word.Word, correct string, distractors []word.Word) []string {
	options := []string{correct}

	for _, i := range rng.Perm(len(distractors)) {
		if len(options) == optionCount {
			break
		}
		d := distractors[i]
		if d.ID == w.ID {
			continue
		}
		if def := d.FirstDefinition(); def != "" {
			options = appendUnique(options, def)
		}
	}

	options = padOptions(options, func(n int) string {
		return fmt.Sprintf("a different meaning (%d)", n)
	})

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func appendUnique(options []string, candidate string) []string {
	if candidate == "" {
		return options
	}
	for _, o := range options {
		if o == candidate {
			return options
		}
	}
	return append(options, candidate)
}

func padOptions(options []string, placeholder func(int) string) []string {
	for n := 1; len(options) < optionCount; n++ {
		options = appendUnique(options, placeholder(n))
	}
	return options
}
