package parsers

import (
	"encoding/xml"
	"strings"
)

// xmlNode mirrors an arbitrary XML tree without a schema. The directory
// API still returns XML from a few legacy endpoints; the classifier needs
// a generic mapping, not typed structs.
type xmlNode struct {
	XMLName  xml.Name
	Content  string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

// XmlToMap parses an XML document into a nested mapping:
// an element with no children becomes its text content, an element with
// children becomes a map from child tag to the recursively-converted
// child. Later siblings with the same tag overwrite earlier ones.
// The root element's own tag is not part of the result.
func XmlToMap(body []byte) (any, error) {
	var root xmlNode
	if err := xml.Unmarshal(body, &root); err != nil {
		return nil, err
	}
	return nodeToValue(root), nil
}

func nodeToValue(n xmlNode) any {
	if len(n.Children) == 0 {
		return strings.TrimSpace(n.Content)
	}
	m := make(map[string]any, len(n.Children))
	for _, c := range n.Children {
		m[c.XMLName.Local] = nodeToValue(c)
	}
	return m
}
