package question

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/t-yamaguchi/revoca/internal/word"
)

// Strategy-selection weights for function words. Multiple choice is easier
// and favored on first exposure; open recall is reserved for consolidation.
const (
	newFunctionWordMCQChance     = 0.7
	learnedFunctionWordMCQChance = 0.4
	blankMarker                  = "___"
)

// contentWordTypes is the random set for content words.
var contentWordTypes = []Type{
	TypeMeaningRecall,
	TypeDictation,
	TypeFillBlank,
	TypeSynonymMCQ,
	TypeUsageMCQ,
}

// varietyTypes is the order used when pre-generating a batch of questions
// for one word, cycling through every applicable variant.
var varietyTypes = []Type{
	TypeMeaningRecall,
	TypeDefinitionMCQ,
	TypeFillBlank,
	TypeSynonymMCQ,
	TypeUsageMCQ,
	TypeDictation,
	TypeMeaningFromWord,
	TypeMultipleChoice,
}

// StrategyGenerator is the local, pure implementation of Generator. All
// randomness flows through the injected source so tests can pin it down.
type StrategyGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStrategyGenerator creates a generator driven by the given random source.
func NewStrategyGenerator(rng *rand.Rand) *StrategyGenerator {
	return &StrategyGenerator{rng: rng}
}

// Synthesize picks a strategy for the word's classification and produces one
// snapshot. It satisfies the Generator contract and never fails for local
// strategies: missing structural prerequisites degrade to definition recall.
func (g *StrategyGenerator) Synthesize(
	_ context.Context,
	w *word.Word,
	difficulty Difficulty,
	distractors []word.Word,
) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.generate(g.selectType(w), w, difficulty, distractors), nil
}

// SynthesizeVariety produces count snapshots cycling through every question
// variant applicable to the word. Used when pre-filling the question pool.
func (g *StrategyGenerator) SynthesizeVariety(
	_ context.Context,
	w *word.Word,
	difficulty Difficulty,
	distractors []word.Word,
	count int,
) ([]Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	snapshots := make([]Snapshot, 0, count)
	for i := 0; i < count; i++ {
		questionType := varietyTypes[i%len(varietyTypes)]
		snapshots = append(snapshots, g.generate(questionType, w, difficulty, distractors))
	}
	return snapshots, nil
}

// selectType implements the strategy-selection policy keyed on the word's
// classification and repetition count.
func (g *StrategyGenerator) selectType(w *word.Word) Type {
	if w.WordType == word.TypeFunction {
		mcqChance := learnedFunctionWordMCQChance
		if w.Repetitions == 0 {
			mcqChance = newFunctionWordMCQChance
		}
		if g.rng.Float64() < mcqChance {
			return TypeMultipleChoice
		}
		return TypeFillBlank
	}
	return contentWordTypes[g.rng.Intn(len(contentWordTypes))]
}

func (g *StrategyGenerator) generate(questionType Type, w *word.Word, difficulty Difficulty, distractors []word.Word) Snapshot {
	switch questionType {
	case TypeMeaningFromWord:
		return g.meaningFromWord(w, difficulty)
	case TypeFillBlank:
		return g.fillBlank(w, difficulty)
	case TypeMultipleChoice:
		return g.multipleChoice(w, difficulty, distractors)
	case TypeDictation:
		return g.dictation(w, difficulty)
	case TypeSynonymMCQ:
		return g.synonymMCQ(w, difficulty, distractors)
	case TypeDefinitionMCQ:
		return g.definitionMCQ(w, difficulty, distractors)
	case TypeUsageMCQ:
		return g.usageMCQ(w, difficulty, distractors)
	}
	return g.meaningRecall(w, difficulty)
}

// meaningRecall shows the definition and asks for the word. It is the
// fallback for every strategy whose structural prerequisite is missing.
func (g *StrategyGenerator) meaningRecall(w *word.Word, difficulty Difficulty) Snapshot {
	definition := strings.TrimSpace(w.FirstDefinition())
	if definition == "" {
		// A blank prompt would be unusable; reference the raw word instead.
		definition = fmt.Sprintf("Recall the word %q", w.Text)
	}

	return Snapshot{
		Type:       TypeMeaningRecall,
		Difficulty: difficulty,
		Content: Content{
			ContentQuestionText:  definition,
			ContentCorrectAnswer: w.Text,
			ContentExplanation:   fmt.Sprintf("The word is %q.", w.Text),
		},
	}
}

func (g *StrategyGenerator) meaningFromWord(w *word.Word, difficulty Difficulty) Snapshot {
	definition := strings.TrimSpace(w.FirstDefinition())
	if definition == "" {
		return g.meaningRecall(w, difficulty)
	}

	return Snapshot{
		Type:       TypeMeaningFromWord,
		Difficulty: difficulty,
		Content: Content{
			ContentQuestionText:  fmt.Sprintf("What does %q mean?", w.Text),
			ContentCorrectAnswer: definition,
			ContentWord:          w.Text,
			ContentExplanation:   fmt.Sprintf("%q means: %s", w.Text, definition),
		},
	}
}

func (g *StrategyGenerator) dictation(w *word.Word, difficulty Difficulty) Snapshot {
	audioURL := w.FirstAudioURL()
	if audioURL == "" {
		return g.meaningRecall(w, difficulty)
	}

	return Snapshot{
		Type:       TypeDictation,
		Difficulty: difficulty,
		Content: Content{
			ContentQuestionText:  "Listen and type the word you hear",
			ContentCorrectAnswer: w.Text,
			ContentAudioURL:      audioURL,
			ContentExplanation:   fmt.Sprintf("The word is %q.", w.Text),
		},
	}
}

func (g *StrategyGenerator) fillBlank(w *word.Word, difficulty Difficulty) Snapshot {
	sentence := g.pickContext(w)
	if sentence == "" {
		return g.meaningRecall(w, difficulty)
	}
	blanked := replaceWholeWord(sentence, w.Text, blankMarker)

	content := Content{
		ContentQuestionText:    "Fill in the blank",
		ContentCorrectAnswer:   w.Text,
		ContentContextSentence: blanked,
		ContentExplanation:     fmt.Sprintf("The missing word is %q. %s", w.Text, sentence),
	}
	if group := confusionGroup(w.Text); group != "" {
		content[ContentConfusionGroup] = group
	}

	return Snapshot{Type: TypeFillBlank, Difficulty: difficulty, Content: content}
}

func (g *StrategyGenerator) multipleChoice(w *word.Word, difficulty Difficulty, distractors []word.Word) Snapshot {
	sentence := g.pickContext(w)
	if sentence == "" {
		return g.meaningRecall(w, difficulty)
	}
	blanked := replaceWholeWord(sentence, w.Text, blankMarker)

	content := Content{
		ContentQuestionText:    blanked,
		ContentCorrectAnswer:   w.Text,
		ContentOptions:         buildWordOptions(g.rng, w, distractors),
		ContentContextSentence: blanked,
		ContentExplanation:     fmt.Sprintf("The missing word is %q. %s", w.Text, sentence),
	}
	if group := confusionGroup(w.Text); group != "" {
		content[ContentConfusionGroup] = group
	}

	return Snapshot{Type: TypeMultipleChoice, Difficulty: difficulty, Content: content}
}

func (g *StrategyGenerator) synonymMCQ(w *word.Word, difficulty Difficulty, distractors []word.Word) Snapshot {
	return Snapshot{
		Type:       TypeSynonymMCQ,
		Difficulty: difficulty,
		Content: Content{
			ContentQuestionText:  fmt.Sprintf("Which word is closest in meaning to %q?", w.Text),
			ContentCorrectAnswer: w.Text,
			ContentWord:          w.Text,
			ContentOptions:       buildWordOptions(g.rng, w, distractors),
			ContentExplanation:   fmt.Sprintf("%q is the correct answer.", w.Text),
		},
	}
}

func (g *StrategyGenerator) definitionMCQ(w *word.Word, difficulty Difficulty, distractors []word.Word) Snapshot {
	correct := strings.TrimSpace(w.FirstDefinition())
	if correct == "" {
		return g.meaningRecall(w, difficulty)
	}

	return Snapshot{
		Type:       TypeDefinitionMCQ,
		Difficulty: difficulty,
		Content: Content{
			ContentQuestionText:  fmt.Sprintf("What is the meaning of %q?", w.Text),
			ContentCorrectAnswer: correct,
			ContentWord:          w.Text,
			ContentOptions:       buildDefinitionOptions(g.rng, w, correct, distractors),
			ContentExplanation:   fmt.Sprintf("%q means: %s", w.Text, correct),
		},
	}
}

func (g *StrategyGenerator) usageMCQ(w *word.Word, difficulty Difficulty, distractors []word.Word) Snapshot {
	correct := g.pickContext(w)
	if correct == "" {
		return g.meaningRecall(w, difficulty)
	}

	// Wrong options reuse distractor sentences with this word substituted in,
	// producing grammatical but semantically wrong usages.
	options := []string{correct}
	for _, i := range g.rng.Perm(len(distractors)) {
		if len(options) == optionCount {
			break
		}
		d := distractors[i]
		if d.ID == w.ID || len(d.Contexts) == 0 {
			continue
		}
		fake := replaceWholeWord(d.Contexts[0].Sentence, d.Text, w.Text)
		options = appendUnique(options, fake)
	}
	fakeTemplates := []string{
		fmt.Sprintf("The %s is very important.", w.Text),
		fmt.Sprintf("I like to %s every day.", w.Text),
		fmt.Sprintf("She has a beautiful %s.", w.Text),
	}
	for _, fake := range fakeTemplates {
		if len(options) == optionCount {
			break
		}
		options = appendUnique(options, fake)
	}
	options = padOptions(options, func(n int) string {
		return fmt.Sprintf("Nobody says %q like that (%d).", w.Text, n)
	})
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Snapshot{
		Type:       TypeUsageMCQ,
		Difficulty: difficulty,
		Content: Content{
			ContentQuestionText:  fmt.Sprintf("Which sentence uses %q correctly?", w.Text),
			ContentCorrectAnswer: correct,
			ContentWord:          w.Text,
			ContentOptions:       options,
			ContentExplanation:   fmt.Sprintf("The correct sentence is: %s", correct),
		},
	}
}

// replaceWholeWord substitutes only whole-word occurrences, so that blanking
// short function words like "at" or "in" leaves the rest of the sentence
// intact ("station" must not become "st___ion").
func replaceWholeWord(sentence, old, replacement string) string {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(old) + `\b`)
	return pattern.ReplaceAllLiteralString(sentence, replacement)
}

// pickContext returns a random stored example sentence containing the word,
// or "" when none exists.
func (g *StrategyGenerator) pickContext(w *word.Word) string {
	if len(w.Contexts) == 0 {
		return ""
	}
	return w.Contexts[g.rng.Intn(len(w.Contexts))].Sentence
}
