package worksheet

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an experienced teacher preparing practice worksheets.
Generate questions strictly grounded in the provided source material; do not
invent topics the material does not cover. Question types: "mcq" (with 3-5
options), "short" (free response), "diagram" (asks the student to draw or
label).
Difficulty levels: "easy" tests recall of facts stated directly in the
material; "balanced" or "medium" mixes recall with application of the
material's ideas to new examples; "hard" requires analysis: multi-step
reasoning, comparing, or combining ideas from different parts of the
material. Match vocabulary and complexity to the requested grade bands, and
write in the requested language.
Output ONLY valid JSON in this exact shape, with no prose, no markdown
fences, and no keys beyond these:
{"items": [{"type": "mcq", "q": "...", "options": ["..."], "answer": "...", "rubric": "..."}]}
"options" only for mcq. "rubric" is a one-line grading guide for free
response. Every item must have a non-empty "q".`

// userPrompt assembles the per-set generation prompt.
func userPrompt(grades []string, difficulty string, count int, mix map[string]int, language, contextText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create exactly %d questions at %q difficulty", count, difficulty)
	if len(grades) > 0 {
		fmt.Fprintf(&b, " for grades %s", strings.Join(grades, ", "))
	}
	b.WriteString(".\n")
	if len(mix) > 0 {
		b.WriteString("Question type mix: ")
		first := true
		for _, t := range []string{"mcq", "short", "diagram"} {
			if n, ok := mix[t]; ok {
				if !first {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%d %s", n, t)
				first = false
			}
		}
		b.WriteString(".\n")
	}
	if language != "" && language != "en" {
		fmt.Fprintf(&b, "Write all questions and answers in language %q.\n", language)
	}
	b.WriteString("\nSource material:\n")
	b.WriteString(contextText)
	return b.String()
}
