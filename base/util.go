package base

import (
	"hash/fnv"
	"regexp"
)

var fixBooleanRegex = regexp.MustCompile(`(true|false)(\s*)]`)

// dirty fix for buggy boolean parsing in rdf2go
func FixBooleansInRDF(doc []byte) []byte {
	return fixBooleanRegex.ReplaceAll(doc, []byte("${1} ; ]"))
}

func Hash(data []byte) uint32 {
	h := fnv.New32a()
	h.Write(data)
	return h.Sum32()
}
