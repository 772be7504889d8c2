package operators

// Attribute types (AttributeProto.AttributeType).
const (
	AttrUndefined = 0
	AttrFloat     = 1
	AttrInt       = 2
	AttrString    = 3
	AttrFloats    = 6
	AttrInts      = 7
	AttrStrings   = 8
)

// Node represents one operation node of a host graph.
type Node struct {
	Name       string      // Node name (optional)
	OpType     string      // Operation type (e.g., "BiasChannel")
	Inputs     []string    // Input tensor names
	Outputs    []string    // Output tensor names
	Attributes []Attribute // Operation attributes
	Domain     string      // Custom domain (empty for default)
}

// Attribute represents a node attribute.
type Attribute struct {
	Name    string    // Attribute name
	Type    int32     // Attribute type
	F       float32   // FLOAT value
	I       int64     // INT value
	S       []byte    // STRING value
	Floats  []float32 // FLOATS array
	Ints    []int64   // INTS array
	Strings [][]byte  // STRINGS array
}

// FloatAttr builds a FLOAT attribute.
func FloatAttr(name string, v float32) Attribute {
	return Attribute{Name: name, Type: AttrFloat, F: v}
}

// IntAttr builds an INT attribute.
func IntAttr(name string, v int64) Attribute {
	return Attribute{Name: name, Type: AttrInt, I: v}
}

// StringAttr builds a STRING attribute.
func StringAttr(name, v string) Attribute {
	return Attribute{Name: name, Type: AttrString, S: []byte(v)}
}

// IntsAttr builds an INTS attribute.
func IntsAttr(name string, v ...int64) Attribute {
	return Attribute{Name: name, Type: AttrInts, Ints: v}
}

// GetAttr returns the named attribute, or nil.
func GetAttr(node *Node, name string) *Attribute {
	for i := range node.Attributes {
		if node.Attributes[i].Name == name {
			return &node.Attributes[i]
		}
	}
	return nil
}
