package shacl

import (
	"fmt"
	"unicode/utf8"

	"github.com/deiu/rdf2go"
)

// Validate checks a data graph against a shapes graph and builds a SHACL
// validation report. The report is returned for conformant and
// non-conformant data alike, an error means the shapes graph itself is
// unusable.
func Validate(data *rdf2go.Graph, shapes *rdf2go.Graph) (*ValidationReport, error) {
	doc, err := ParseShapesGraph(shapes)
	if err != nil {
		return nil, err
	}
	return doc.Validate(data)
}

// Validate runs the parsed shapes against a data graph.
func (doc *ShapesGraph) Validate(data *rdf2go.Graph) (*ValidationReport, error) {
	engine := &engine{data: data, doc: doc, visiting: make(map[string]bool)}
	for _, shape := range doc.Shapes {
		if shape.Deactivated {
			continue
		}
		for _, focus := range engine.focusNodes(shape) {
			if err := engine.validateShape(shape, focus); err != nil {
				return nil, err
			}
		}
	}
	return buildReport(engine.results, doc.Graph), nil
}

type engine struct {
	data     *rdf2go.Graph
	doc      *ShapesGraph
	results  []*result
	visiting map[string]bool
}

type result struct {
	focus     rdf2go.Term
	path      *Path
	value     rdf2go.Term
	severity  rdf2go.Term
	message   string
	component rdf2go.Term
	source    rdf2go.Term
}

// focusNodes resolves the target declarations of a shape against the data
// graph. A shape that is also typed rdfs:Class targets its own instances.
func (e *engine) focusNodes(shape *NodeShape) []rdf2go.Term {
	var focus []rdf2go.Term
	seen := make(map[string]bool)
	add := func(term rdf2go.Term) {
		if !seen[term.String()] {
			seen[term.String()] = true
			focus = append(focus, term)
		}
	}
	for _, class := range shape.TargetClasses {
		for _, instance := range e.instancesOf(class) {
			add(instance)
		}
	}
	if e.doc.Graph.One(shape.Id, RDF_TYPE, RDFS_CLASS) != nil {
		for _, instance := range e.instancesOf(shape.Id) {
			add(instance)
		}
	}
	for _, node := range shape.TargetNodes {
		add(node)
	}
	for _, predicate := range shape.TargetSubjectsOf {
		for _, triple := range e.data.All(nil, predicate, nil) {
			add(triple.Subject)
		}
	}
	for _, predicate := range shape.TargetObjectsOf {
		for _, triple := range e.data.All(nil, predicate, nil) {
			add(triple.Object)
		}
	}
	return focus
}

// instancesOf returns the subjects typed with the class or with any subclass
// the data graph declares for it.
func (e *engine) instancesOf(class rdf2go.Term) []rdf2go.Term {
	classes := map[string]bool{class.String(): true}
	for queue := []rdf2go.Term{class}; len(queue) > 0; {
		current := queue[0]
		queue = queue[1:]
		for _, triple := range e.data.All(nil, RDFS_SUBCLASS_OF, current) {
			if !classes[triple.Subject.String()] {
				classes[triple.Subject.String()] = true
				queue = append(queue, triple.Subject)
			}
		}
	}
	var instances []rdf2go.Term
	seen := make(map[string]bool)
	for _, triple := range e.data.All(nil, RDF_TYPE, nil) {
		if classes[triple.Object.String()] && !seen[triple.Subject.String()] {
			seen[triple.Subject.String()] = true
			instances = append(instances, triple.Subject)
		}
	}
	return instances
}

// valueNodes resolves a path from a focus node. Value nodes form a set, so a
// triple asserted twice still yields one value.
func (e *engine) valueNodes(focus rdf2go.Term, path *Path) []rdf2go.Term {
	var values []rdf2go.Term
	seen := make(map[string]bool)
	add := func(term rdf2go.Term) {
		if !seen[term.String()] {
			seen[term.String()] = true
			values = append(values, term)
		}
	}
	if path.Inverse {
		for _, triple := range e.data.All(nil, path.Predicate, focus) {
			add(triple.Subject)
		}
		return values
	}
	for _, triple := range e.data.All(focus, path.Predicate, nil) {
		add(triple.Object)
	}
	return values
}

func (e *engine) validateShape(shape *NodeShape, focus rdf2go.Term) error {
	for _, property := range shape.Properties {
		if err := e.validateProperty(property, focus); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) validateProperty(property *Property, focus rdf2go.Term) error {
	values := e.valueNodes(focus, property.Path)
	if property.MinCount != nil && len(values) < *property.MinCount {
		e.report(property, focus, nil, SHACL_MIN_COUNT_COMPONENT,
			fmt.Sprintf("Less than %d values on %s->%s", *property.MinCount, focus.String(), property.Path.Display()))
	}
	if property.MaxCount != nil && len(values) > *property.MaxCount {
		e.report(property, focus, nil, SHACL_MAX_COUNT_COMPONENT,
			fmt.Sprintf("More than %d values on %s->%s", *property.MaxCount, focus.String(), property.Path.Display()))
	}
	if property.HasValue != nil {
		found := false
		for _, value := range values {
			if sameTerm(value, property.HasValue) {
				found = true
				break
			}
		}
		if !found {
			e.report(property, focus, nil, SHACL_HAS_VALUE_COMPONENT,
				fmt.Sprintf("Node %s->%s does not contain required value %s", focus.String(), property.Path.Display(), property.HasValue.String()))
		}
	}
	for _, value := range values {
		if err := e.checkValue(property, focus, value); err != nil {
			return err
		}
	}
	return nil
}

// checkValue runs the per-value constraints of a property shape. The same
// checks back sh:or alternatives, where focus and value coincide.
func (e *engine) checkValue(property *Property, focus rdf2go.Term, value rdf2go.Term) error {
	if property.Class != nil && !e.hasClass(value, property.Class) {
		e.report(property, focus, value, SHACL_CLASS_COMPONENT,
			fmt.Sprintf("Value does not have class %s", compactIRI(property.Class.URI)))
	}
	if property.Datatype != nil && !hasDatatype(value, property.Datatype) {
		e.report(property, focus, value, SHACL_DATATYPE_COMPONENT,
			fmt.Sprintf("Value is not Literal with datatype %s", compactIRI(property.Datatype.URI)))
	}
	if property.NodeKind != nil && !matchesNodeKind(value, property.NodeKind) {
		e.report(property, focus, value, SHACL_NODE_KIND_COMPONENT,
			fmt.Sprintf("Value is not of Node Kind %s", compactIRI(property.NodeKind.URI)))
	}
	if len(property.In) > 0 && !termInList(value, property.In) {
		e.report(property, focus, value, SHACL_IN_COMPONENT,
			fmt.Sprintf("Value %s not in list of allowed values", value.String()))
	}
	if property.Pattern != nil {
		lexical, ok := stringValue(value)
		if !ok || !property.Pattern.MatchString(lexical) {
			e.report(property, focus, value, SHACL_PATTERN_COMPONENT,
				fmt.Sprintf("Value does not match pattern %q", property.PatternSource))
		}
	}
	if property.MinLength != nil {
		lexical, ok := stringValue(value)
		if !ok || utf8.RuneCountInString(lexical) < *property.MinLength {
			e.report(property, focus, value, SHACL_MIN_LENGTH_COMPONENT,
				fmt.Sprintf("String length not >= %d", *property.MinLength))
		}
	}
	if property.MaxLength != nil {
		lexical, ok := stringValue(value)
		if !ok || utf8.RuneCountInString(lexical) > *property.MaxLength {
			e.report(property, focus, value, SHACL_MAX_LENGTH_COMPONENT,
				fmt.Sprintf("String length not <= %d", *property.MaxLength))
		}
	}
	for _, ref := range property.Node {
		conforms, err := e.conformsToShape(value, ref)
		if err != nil {
			return err
		}
		if !conforms {
			e.report(property, focus, value, SHACL_NODE_COMPONENT,
				fmt.Sprintf("Value does not conform to Shape %s", compactIRI(ref.RawValue())))
		}
	}
	for _, alternatives := range property.Or {
		matched := false
		for _, alternative := range alternatives {
			ok, err := e.matchesAlternative(value, alternative)
			if err != nil {
				return err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			e.report(property, focus, value, SHACL_OR_COMPONENT,
				fmt.Sprintf("Value %s does not conform to any shape in the sh:or enumeration", value.String()))
		}
	}
	return nil
}

// conformsToShape checks a value node against a referenced node shape. The
// referenced shape's own targets are ignored, the value is the focus. A pair
// seen again while still being checked counts as conformant, otherwise
// mutually referencing shapes would never terminate.
func (e *engine) conformsToShape(value rdf2go.Term, ref rdf2go.Term) (bool, error) {
	key := ref.String() + " " + value.String()
	if e.visiting[key] {
		return true, nil
	}
	e.visiting[key] = true
	defer delete(e.visiting, key)
	shape, err := e.doc.shape(ref)
	if err != nil {
		return false, err
	}
	scratch := &engine{data: e.data, doc: e.doc, visiting: e.visiting}
	if err := scratch.validateShape(shape, value); err != nil {
		return false, err
	}
	return len(scratch.results) == 0, nil
}

func (e *engine) matchesAlternative(value rdf2go.Term, alternative *Property) (bool, error) {
	scratch := &engine{data: e.data, doc: e.doc, visiting: e.visiting}
	if alternative.Path != nil {
		if err := scratch.validateProperty(alternative, value); err != nil {
			return false, err
		}
	} else {
		if err := scratch.checkValue(alternative, value, value); err != nil {
			return false, err
		}
	}
	return len(scratch.results) == 0, nil
}

// hasClass checks that a value node is an instance of the class, walking
// rdfs:subClassOf declarations in the data graph upwards.
func (e *engine) hasClass(value rdf2go.Term, class *rdf2go.Resource) bool {
	if _, ok := value.(*rdf2go.Literal); ok {
		return false
	}
	target := class.String()
	seen := make(map[string]bool)
	var queue []rdf2go.Term
	for _, triple := range e.data.All(value, RDF_TYPE, nil) {
		queue = append(queue, triple.Object)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current.String()] {
			continue
		}
		seen[current.String()] = true
		if current.String() == target {
			return true
		}
		for _, triple := range e.data.All(current, RDFS_SUBCLASS_OF, nil) {
			queue = append(queue, triple.Object)
		}
	}
	return false
}

func hasDatatype(value rdf2go.Term, datatype *rdf2go.Resource) bool {
	literal, ok := value.(*rdf2go.Literal)
	if !ok {
		return false
	}
	return literalDatatype(literal) == datatype.URI
}

// literalDatatype resolves the effective datatype of a literal under RDF 1.1,
// where plain literals are xsd:string and tagged ones rdf:langString.
func literalDatatype(literal *rdf2go.Literal) string {
	if literal.Language != "" {
		return rdfLangStringURI
	}
	if literal.Datatype != nil {
		return literal.Datatype.RawValue()
	}
	return xsdStringURI
}

func matchesNodeKind(value rdf2go.Term, kind *rdf2go.Resource) bool {
	_, isIRI := value.(*rdf2go.Resource)
	_, isBlank := value.(*rdf2go.BlankNode)
	_, isLiteral := value.(*rdf2go.Literal)
	switch {
	case kind.Equal(SHACL_IRI):
		return isIRI
	case kind.Equal(SHACL_LITERAL):
		return isLiteral
	case kind.Equal(SHACL_BLANK_NODE):
		return isBlank
	case kind.Equal(SHACL_BLANK_NODE_OR_IRI):
		return isBlank || isIRI
	case kind.Equal(SHACL_BLANK_NODE_OR_LITERAL):
		return isBlank || isLiteral
	case kind.Equal(SHACL_IRI_OR_LITERAL):
		return isIRI || isLiteral
	}
	return false
}

func termInList(value rdf2go.Term, list []rdf2go.Term) bool {
	for _, allowed := range list {
		if sameTerm(value, allowed) {
			return true
		}
	}
	return false
}

// sameTerm compares terms for constraint purposes. A plain literal and one
// explicitly typed xsd:string are the same literal under RDF 1.1, even though
// the parsers produce distinct representations for them.
func sameTerm(a, b rdf2go.Term) bool {
	if a.Equal(b) {
		return true
	}
	la, aok := a.(*rdf2go.Literal)
	lb, bok := b.(*rdf2go.Literal)
	if !aok || !bok {
		return false
	}
	return la.Value == lb.Value && la.Language == lb.Language && literalDatatype(la) == literalDatatype(lb)
}

// stringValue returns the lexical form string constraints operate on. Blank
// nodes have none and fail those constraints.
func stringValue(term rdf2go.Term) (string, bool) {
	switch t := term.(type) {
	case *rdf2go.Literal:
		return t.Value, true
	case *rdf2go.Resource:
		return t.URI, true
	}
	return "", false
}

func (e *engine) report(property *Property, focus, value rdf2go.Term, component rdf2go.Term, fallback string) {
	message := fallback
	if len(property.Messages) > 0 {
		message = property.Messages[0]
	}
	var severity rdf2go.Term = SHACL_VIOLATION
	if property.Severity != nil {
		severity = property.Severity
	}
	e.results = append(e.results, &result{
		focus:     focus,
		path:      property.Path,
		value:     value,
		severity:  severity,
		message:   message,
		component: component,
		source:    property.Id,
	})
}
