package shacl

import (
	"fmt"

	"github.com/deiu/rdf2go"
)

var prefixRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#%s"
var prefixRDFS = "http://www.w3.org/2000/01/rdf-schema#%s"
var prefixSHACL = "http://www.w3.org/ns/shacl#%s"
var prefixXSD = "http://www.w3.org/2001/XMLSchema#%s"

var RDF_TYPE = rdf2go.NewResource(fmt.Sprintf(prefixRDF, "type"))
var RDF_LIST_FIRST = rdf2go.NewResource(fmt.Sprintf(prefixRDF, "first"))
var RDF_LIST_REST = rdf2go.NewResource(fmt.Sprintf(prefixRDF, "rest"))
var RDF_NIL = rdf2go.NewResource(fmt.Sprintf(prefixRDF, "nil"))

var RDFS_CLASS = rdf2go.NewResource(fmt.Sprintf(prefixRDFS, "Class"))
var RDFS_SUBCLASS_OF = rdf2go.NewResource(fmt.Sprintf(prefixRDFS, "subClassOf"))

var rdfLangStringURI = fmt.Sprintf(prefixRDF, "langString")
var xsdStringURI = fmt.Sprintf(prefixXSD, "string")
var xsdBooleanURI = fmt.Sprintf(prefixXSD, "boolean")

var SHACL_NODE_SHAPE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "NodeShape"))
var SHACL_PROPERTY = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "property"))
var SHACL_PATH = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "path"))
var SHACL_INVERSE_PATH = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "inversePath"))
var SHACL_DEACTIVATED = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "deactivated"))
var SHACL_SEVERITY = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "severity"))
var SHACL_MESSAGE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "message"))

var SHACL_TARGET_CLASS = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "targetClass"))
var SHACL_TARGET_NODE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "targetNode"))
var SHACL_TARGET_SUBJECTS_OF = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "targetSubjectsOf"))
var SHACL_TARGET_OBJECTS_OF = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "targetObjectsOf"))

var SHACL_MIN_COUNT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "minCount"))
var SHACL_MAX_COUNT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "maxCount"))
var SHACL_CLASS = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "class"))
var SHACL_DATATYPE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "datatype"))
var SHACL_NODE_KIND = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "nodeKind"))
var SHACL_HAS_VALUE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "hasValue"))
var SHACL_IN = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "in"))
var SHACL_PATTERN = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "pattern"))
var SHACL_FLAGS = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "flags"))
var SHACL_MIN_LENGTH = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "minLength"))
var SHACL_MAX_LENGTH = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "maxLength"))
var SHACL_NODE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "node"))
var SHACL_OR = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "or"))

var SHACL_IRI = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "IRI"))
var SHACL_LITERAL = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "Literal"))
var SHACL_BLANK_NODE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "BlankNode"))
var SHACL_BLANK_NODE_OR_IRI = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "BlankNodeOrIRI"))
var SHACL_BLANK_NODE_OR_LITERAL = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "BlankNodeOrLiteral"))
var SHACL_IRI_OR_LITERAL = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "IRIOrLiteral"))

var SHACL_VIOLATION = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "Violation"))
var SHACL_WARNING = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "Warning"))
var SHACL_INFO = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "Info"))

var SHACL_VALIDATION_REPORT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "ValidationReport"))
var SHACL_VALIDATION_RESULT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "ValidationResult"))
var SHACL_CONFORMS = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "conforms"))
var SHACL_RESULT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "result"))
var SHACL_FOCUS_NODE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "focusNode"))
var SHACL_RESULT_PATH = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "resultPath"))
var SHACL_RESULT_SEVERITY = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "resultSeverity"))
var SHACL_RESULT_MESSAGE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "resultMessage"))
var SHACL_SOURCE_CONSTRAINT_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "sourceConstraintComponent"))
var SHACL_SOURCE_SHAPE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "sourceShape"))
var SHACL_VALUE = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "value"))

var SHACL_MIN_COUNT_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "MinCountConstraintComponent"))
var SHACL_MAX_COUNT_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "MaxCountConstraintComponent"))
var SHACL_CLASS_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "ClassConstraintComponent"))
var SHACL_DATATYPE_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "DatatypeConstraintComponent"))
var SHACL_NODE_KIND_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "NodeKindConstraintComponent"))
var SHACL_HAS_VALUE_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "HasValueConstraintComponent"))
var SHACL_IN_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "InConstraintComponent"))
var SHACL_PATTERN_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "PatternConstraintComponent"))
var SHACL_MIN_LENGTH_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "MinLengthConstraintComponent"))
var SHACL_MAX_LENGTH_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "MaxLengthConstraintComponent"))
var SHACL_NODE_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "NodeConstraintComponent"))
var SHACL_OR_COMPONENT = rdf2go.NewResource(fmt.Sprintf(prefixSHACL, "OrConstraintComponent"))
