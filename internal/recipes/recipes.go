// Package recipes turns a list of fridge item names into structured
// recipe suggestions via a hosted text-generation model. The model emits
// free text; all structure is recovered here, and every failure mode
// degrades to a placeholder recipe rather than an error, so callers
// always get a list.
package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

// Generator is the text-generation capability: one prompt in, one
// free-text completion out.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// blockDelimiter separates recipe blocks in the model's output. The
// prompt instructs the model to use it; the parser splits on it.
const blockDelimiter = "---"

var (
	titleRe       = regexp.MustCompile(`(?im)^\s*title:\s*(.+)$`)
	descriptionRe = regexp.MustCompile(`(?im)^\s*description:\s*(.+)$`)
	enumPrefixRe  = regexp.MustCompile(`^\s*\d+[.)]\s*`)
)

// Requester builds prompts, calls the Generator, and parses the result.
type Requester struct {
	gen Generator
	log *slog.Logger
}

// NewRequester wires a Requester to a Generator.
func NewRequester(gen Generator, log *slog.Logger) *Requester {
	if log == nil {
		log = slog.Default()
	}
	return &Requester{gen: gen, log: log}
}

// RequestRecipes asks the model for suggestions using the given item
// names. An empty name list returns an empty slice without calling the
// service. Service failures are recovered into a single placeholder
// recipe; this method never returns an error.
func (r *Requester) RequestRecipes(ctx context.Context, itemNames []string) []models.Recipe {
	if len(itemNames) == 0 {
		return []models.Recipe{}
	}

	raw, err := r.gen.GenerateText(ctx, buildPrompt(itemNames))
	if err != nil {
		r.log.Error("recipe generation failed", "error", err, "items", itemNames)
		return []models.Recipe{{
			Title:       "Recipe generation failed",
			Description: "The recipe service could not be reached. Please try again later.",
		}}
	}
	return parseRecipes(raw)
}

// buildPrompt asks for exactly 3 recipes in a shape parseRecipes can
// recover. The delimiter and labels here must stay in sync with the
// parser.
func buildPrompt(itemNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I have the following ingredients in my fridge: %s.\n\n", strings.Join(itemNames, ", "))
	b.WriteString("Suggest exactly 3 recipe ideas that use them. Format each recipe as:\n")
	b.WriteString("Title: <short recipe name>\n")
	b.WriteString("Description: <one or two sentences describing the dish>\n\n")
	fmt.Fprintf(&b, "Separate the recipes with a line containing only \"%s\". Do not add anything else.\n", blockDelimiter)
	return b.String()
}

// parseRecipes recovers Recipe entries from the model's free text.
//
// Per block: labeled Title:/Description: lines win; otherwise a block
// with more than a token's worth of content and at least two lines is
// read as title-then-description, stripping a leading "1." style
// enumeration marker. If nothing parses but the response is non-empty,
// the whole raw text is salvaged as a single recipe. These heuristics
// match the output the generation model typically produces; keep them
// as-is rather than tightening them.
func parseRecipes(raw string) []models.Recipe {
	var out []models.Recipe

	for _, block := range strings.Split(raw, blockDelimiter) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		titleMatch := titleRe.FindStringSubmatch(block)
		descMatch := descriptionRe.FindStringSubmatch(block)
		if titleMatch != nil && descMatch != nil {
			out = append(out, models.Recipe{
				Title:       strings.TrimSpace(titleMatch[1]),
				Description: strings.TrimSpace(descMatch[1]),
			})
			continue
		}

		lines := nonEmptyLines(block)
		if len(block) > 10 && len(lines) >= 2 {
			out = append(out, models.Recipe{
				Title:       strings.TrimSpace(enumPrefixRe.ReplaceAllString(lines[0], "")),
				Description: strings.TrimSpace(lines[1]),
			})
		}
	}

	if len(out) == 0 && strings.TrimSpace(raw) != "" {
		out = append(out, models.Recipe{
			Title:       "Recipe ideas (unformatted)",
			Description: strings.TrimSpace(raw),
		})
	}
	if out == nil {
		out = []models.Recipe{}
	}
	return out
}

func nonEmptyLines(block string) []string {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
