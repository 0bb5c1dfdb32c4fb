package rdf

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/deiu/rdf2go"
	"golang.org/x/exp/slices"
)

// matchSteps bounds the backtracking search so hostile graphs with many
// interchangeable blank nodes cannot stall a request.
const matchSteps = 1 << 16

// Isomorphic reports whether two graphs contain the same triples up to a
// consistent renaming of blank nodes. Duplicate triples are ignored, both
// graphs are compared as sets.
func Isomorphic(g1, g2 *rdf2go.Graph) bool {
	a := newGraphIndex(g1)
	b := newGraphIndex(g2)
	if !slices.Equal(a.ground, b.ground) {
		return false
	}
	if len(a.triples) != len(b.triples) || len(a.blanks) != len(b.blanks) {
		return false
	}
	if len(a.blanks) == 0 {
		return true
	}
	return matchBlanks(a, b)
}

type tripleRecord struct {
	s, p, o        string
	sBlank, oBlank string
}

type graphIndex struct {
	ground  []string
	triples []tripleRecord
	blanks  []string
}

func newGraphIndex(g *rdf2go.Graph) *graphIndex {
	idx := &graphIndex{}
	seen := make(map[string]bool)
	blankSet := make(map[string]bool)
	for triple := range g.IterTriples() {
		rec := tripleRecord{
			s: canonicalTerm(triple.Subject),
			p: canonicalTerm(triple.Predicate),
			o: canonicalTerm(triple.Object),
		}
		if blank, ok := triple.Subject.(*rdf2go.BlankNode); ok {
			rec.sBlank = blank.ID
		}
		if blank, ok := triple.Object.(*rdf2go.BlankNode); ok {
			rec.oBlank = blank.ID
		}
		key := rec.s + " " + rec.p + " " + rec.o
		if seen[key] {
			continue
		}
		seen[key] = true
		if rec.sBlank == "" && rec.oBlank == "" {
			idx.ground = append(idx.ground, key)
			continue
		}
		idx.triples = append(idx.triples, rec)
		if rec.sBlank != "" {
			blankSet[rec.sBlank] = true
		}
		if rec.oBlank != "" {
			blankSet[rec.oBlank] = true
		}
	}
	for id := range blankSet {
		idx.blanks = append(idx.blanks, id)
	}
	slices.Sort(idx.ground)
	slices.Sort(idx.blanks)
	return idx
}

// canonicalTerm encodes a term for comparison. xsd:string is the implied
// datatype of a plain literal, so both spellings collapse to one encoding.
func canonicalTerm(term rdf2go.Term) string {
	if literal, ok := term.(*rdf2go.Literal); ok {
		if literal.Language == "" && literal.Datatype != nil && literal.Datatype.RawValue() == xsdString {
			return rdf2go.NewLiteral(literal.Value).String()
		}
	}
	return term.String()
}

// refineColors assigns each blank node a color derived from its neighborhood,
// iterated until stable. Blank nodes that can correspond under isomorphism
// end up with equal colors.
func (idx *graphIndex) refineColors() map[string]string {
	colors := make(map[string]string, len(idx.blanks))
	for _, id := range idx.blanks {
		colors[id] = ""
	}
	for round := 0; round <= len(idx.blanks); round++ {
		next := make(map[string]string, len(colors))
		changed := false
		for _, id := range idx.blanks {
			var signature []string
			for _, rec := range idx.triples {
				if rec.sBlank == id {
					signature = append(signature, "s "+rec.p+" "+colorOrTerm(rec.o, rec.oBlank, colors))
				}
				if rec.oBlank == id {
					signature = append(signature, "o "+rec.p+" "+colorOrTerm(rec.s, rec.sBlank, colors))
				}
			}
			slices.Sort(signature)
			next[id] = hashStrings(colors[id], signature)
			if next[id] != colors[id] {
				changed = true
			}
		}
		colors = next
		if !changed {
			break
		}
	}
	return colors
}

func colorOrTerm(term string, blankID string, colors map[string]string) string {
	if blankID != "" {
		return "~" + colors[blankID]
	}
	return term
}

func hashStrings(prefix string, parts []string) string {
	h := fnv.New64a()
	h.Write([]byte(prefix))
	for _, part := range parts {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// lineSet encodes the blank-involving triples with blank ids substituted
// through the mapping. Ids missing from the mapping keep a raw marker, those
// lines are skipped by consistency checks until the mapping covers them.
func (idx *graphIndex) lineSet(mapping func(string) (string, bool)) map[string]bool {
	lines := make(map[string]bool, len(idx.triples))
	for _, rec := range idx.triples {
		line, ok := encodeLine(rec, mapping)
		if ok {
			lines[line] = true
		}
	}
	return lines
}

func encodeLine(rec tripleRecord, mapping func(string) (string, bool)) (string, bool) {
	s, p, o := rec.s, rec.p, rec.o
	if rec.sBlank != "" {
		id, ok := mapping(rec.sBlank)
		if !ok {
			return "", false
		}
		s = "~" + id
	}
	if rec.oBlank != "" {
		id, ok := mapping(rec.oBlank)
		if !ok {
			return "", false
		}
		o = "~" + id
	}
	return s + " " + p + " " + o, true
}

func matchBlanks(a, b *graphIndex) bool {
	colorsA := a.refineColors()
	colorsB := b.refineColors()

	candidates := make(map[string][]string)
	for _, id := range b.blanks {
		candidates[colorsB[id]] = append(candidates[colorsB[id]], id)
	}
	for _, id := range a.blanks {
		if len(candidates[colorsA[id]]) == 0 {
			return false
		}
	}

	order := slices.Clone(a.blanks)
	slices.SortFunc(order, func(x, y string) int {
		if c := strings.Compare(colorsA[x], colorsA[y]); c != 0 {
			return c
		}
		return strings.Compare(x, y)
	})

	identity := func(id string) (string, bool) { return id, true }
	targetLines := b.lineSet(identity)

	mapping := make(map[string]string, len(order))
	used := make(map[string]bool, len(order))
	lookup := func(id string) (string, bool) {
		mapped, ok := mapping[id]
		return mapped, ok
	}

	steps := 0
	var try func(i int) bool
	try = func(i int) bool {
		steps++
		if steps > matchSteps {
			return false
		}
		if i == len(order) {
			lines := a.lineSet(lookup)
			if len(lines) != len(targetLines) {
				return false
			}
			for line := range lines {
				if !targetLines[line] {
					return false
				}
			}
			return true
		}
		id := order[i]
		for _, candidate := range candidates[colorsA[id]] {
			if used[candidate] {
				continue
			}
			mapping[id] = candidate
			used[candidate] = true
			if a.consistent(lookup, targetLines) && try(i+1) {
				return true
			}
			delete(mapping, id)
			used[candidate] = false
		}
		return false
	}
	return try(0)
}

// consistent verifies that every fully mapped triple exists in the target.
func (idx *graphIndex) consistent(mapping func(string) (string, bool), target map[string]bool) bool {
	for _, rec := range idx.triples {
		line, ok := encodeLine(rec, mapping)
		if ok && !target[line] {
			return false
		}
	}
	return true
}
