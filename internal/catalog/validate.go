package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"surveyflow/internal/model"
)

// ErrInvalidCatalog is wrapped by every validation failure
var ErrInvalidCatalog = errors.New("invalid catalog")

// catalogValidate checks struct tags on model types. Cross-reference rules
// live in Validate.
var catalogValidate *validator.Validate

func init() {
	catalogValidate = validator.New()
	_ = catalogValidate.RegisterValidation("idtoken", validateIDToken)
}

// validateIDToken rejects identifiers containing whitespace or control runes.
func validateIDToken(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// Validate checks a catalog for structural and referential problems and
// returns a single error listing all of them.
func Validate(c *model.Catalog) error {
	if c == nil {
		return fmt.Errorf("%w: nil catalog", ErrInvalidCatalog)
	}

	var problems []string

	if err := catalogValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	themes := make(map[string]bool, len(c.Themes))
	for _, t := range c.Themes {
		if themes[t.ID] {
			problems = append(problems, fmt.Sprintf("duplicate theme id %q", t.ID))
		}
		themes[t.ID] = true
	}

	seen := make(map[string]bool)
	byTheme := make(map[string][]string)
	for _, q := range c.Questions {
		byTheme[q.ThemeID] = append(byTheme[q.ThemeID], q.ID)
	}

	for i := range c.Questions {
		q := &c.Questions[i]
		if !themes[q.ThemeID] {
			problems = append(problems, fmt.Sprintf("question %q references unknown theme %q", q.ID, q.ThemeID))
		}
		if q.IsConditional() {
			problems = append(problems, fmt.Sprintf("base question %q must not declare dependsOn", q.ID))
		}
		problems = checkQuestion(q, seen, problems)
		problems = checkConditionals(q, byTheme[q.ThemeID], []string{q.ID}, seen, problems)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}

// checkQuestion applies the rules shared by base and conditional questions.
func checkQuestion(q *model.Question, seen map[string]bool, problems []string) []string {
	if seen[q.ID] {
		problems = append(problems, fmt.Sprintf("duplicate question id %q", q.ID))
	}
	seen[q.ID] = true

	if q.Kind == model.KindMultipleChoice && len(q.Options) == 0 {
		problems = append(problems, fmt.Sprintf("multiple-choice question %q has no options", q.ID))
	}
	return problems
}

// checkConditionals walks the children of parent. siblings holds the ids of
// parent's own siblings (parent included); ancestors the chain down to parent.
func checkConditionals(parent *model.Question, siblings, ancestors []string, seen map[string]bool, problems []string) []string {
	children := make([]string, 0, len(parent.ConditionalQuestions))
	for _, cq := range parent.ConditionalQuestions {
		children = append(children, cq.ID)
	}

	// Everything reachable as sibling-or-ancestor from this level.
	allowed := make(map[string]bool)
	for _, id := range siblings {
		allowed[id] = true
	}
	for _, id := range ancestors {
		allowed[id] = true
	}
	for _, id := range children {
		allowed[id] = true
	}

	for i := range parent.ConditionalQuestions {
		cq := &parent.ConditionalQuestions[i]
		problems = checkQuestion(cq, seen, problems)

		if cq.ThemeID != parent.ThemeID {
			problems = append(problems, fmt.Sprintf("conditional question %q is in theme %q but its parent %q is in %q", cq.ID, cq.ThemeID, parent.ID, parent.ThemeID))
		}
		switch {
		case !cq.IsConditional():
			problems = append(problems, fmt.Sprintf("conditional question %q has no dependsOn", cq.ID))
		case cq.DependsOn.QuestionID == cq.ID:
			problems = append(problems, fmt.Sprintf("conditional question %q depends on itself", cq.ID))
		case !allowed[cq.DependsOn.QuestionID]:
			problems = append(problems, fmt.Sprintf("conditional question %q depends on %q which is not a sibling or ancestor", cq.ID, cq.DependsOn.QuestionID))
		}

		next := make([]string, 0, len(siblings)+len(children))
		next = append(next, siblings...)
		next = append(next, children...)
		problems = checkConditionals(cq, next, append(append([]string{}, ancestors...), cq.ID), seen, problems)
	}
	return problems
}
