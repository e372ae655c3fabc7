package interpret

import (
	"fmt"
	"strings"
)

// systemPrompt is rendered once; the vocabulary is fixed at build time.
var systemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	var b strings.Builder

	b.WriteString(`You convert a recruiter's free-text search for yacht crew into a structured query.
Only extract what the query states. Never guess. Any field the query does not mention stays unset:
use "unset" for tri-state and enumerated fields, -1 for experience bounds, "" for text and [] for lists.

`)

	b.WriteString("POSITIONS (canonical name: accepted phrasings). Set position to the canonical name and\n")
	b.WriteString("position_synonyms to the other canonical names in the same row that are equivalent titles.\n")
	for _, dept := range positions {
		fmt.Fprintf(&b, "[%s]\n", dept.Department)
		for _, r := range dept.Roles {
			writeTerm(&b, r)
		}
	}

	b.WriteString("\nCERTIFICATES AND VISAS. Set the field to \"yes\" when the query requires it, \"no\" when the\n")
	b.WriteString("query explicitly excludes it, otherwise \"unset\".\n")
	for _, c := range certificates {
		fmt.Fprintf(&b, "- %s: %s\n", c.Field, strings.Join(c.Keywords, ", "))
	}

	b.WriteString("\nEXPERIENCE (years, integers):\n")
	for _, p := range experiencePhrases {
		fmt.Fprintf(&b, "- %s -> %s\n", p[0], p[1])
	}

	b.WriteString("\nREGIONS (soft preference, canonical name: keywords)\n")
	for _, r := range regions {
		writeTerm(&b, r)
	}

	b.WriteString("\nCONTRACT TYPES (soft preference)\n")
	for _, c := range contractTypes {
		writeTerm(&b, c)
	}

	b.WriteString("\nVESSEL TYPES (soft preference)\n")
	for _, v := range vesselTypes {
		writeTerm(&b, v)
	}

	b.WriteString(`
SEARCH INTENT
- role-based: the query is mainly about a position.
- skill-based: the query is mainly about skills, certificates or experience.
- availability-based: the query is mainly about when someone can start.
- general: anything else, or when unsure.

Regions, contract types and vessel types must use the canonical names above; anything outside
the vocabulary stays unset.`)

	return b.String()
}

func writeTerm(b *strings.Builder, t term) {
	fmt.Fprintf(b, "- %s: %s\n", t.Canonical, strings.Join(t.Aliases, ", "))
}
