package aml

import "github.com/elliotchance/orderedmap/v3"

// The ObjectType value that External uses to declare a method.
const externalMethodObj = 8

// The max number of arguments a method can receive.
const maxMethodArgs = 7

// namespace tracks the objects declared while parsing a definition block,
// keyed by absolute path in declaration order.
type namespace struct {
	entries *orderedmap.OrderedMap[string, *ObjectNode]
}

func newNamespace() *namespace {
	return &namespace{
		entries: orderedmap.NewOrderedMap[string, *ObjectNode](),
	}
}

// scopeOf returns the absolute path of the innermost scope containing n.
func scopeOf(n Node) string {
	for ; n != nil; n = n.Parent() {
		if obj, ok := n.(*ObjectNode); ok && obj.enc.opensScope() && obj.path != "" {
			return obj.path
		}
	}
	return rootPath
}

// register computes the absolute path for a name-declaring object and adds
// it to the namespace. The first declaration of a path is kept unless it is
// an External and obj is not a Scope.
func (ns *namespace) register(obj *ObjectNode) {
	name := obj.name()
	if name == nil {
		return
	}

	np, err := decodeNameString(name.data)
	if err != nil {
		return
	}

	path, ok := np.resolve(scopeOf(obj.Parent()))
	if !ok {
		return
	}
	obj.path = path

	if existing, found := ns.entries.Get(path); found {
		if existing.enc.op != OpExternal || obj.enc.op == OpScope {
			return
		}
	}
	if obj.enc.op == OpScope {
		return
	}

	ns.entries.Set(path, obj)
}

// lookup returns the object declared at the absolute path or nil.
func (ns *namespace) lookup(path string) *ObjectNode {
	obj, _ := ns.entries.Get(path)
	return obj
}

// resolve finds the declaration that an encoded NameString refers to when
// used inside scope. Single segment names are searched for in scope and
// then in each enclosing scope up to the root.
func (ns *namespace) resolve(scope string, name []byte) *ObjectNode {
	np, err := decodeNameString(name)
	if err != nil {
		return nil
	}

	if !np.isSimpleName() {
		path, ok := np.resolve(scope)
		if !ok {
			return nil
		}
		return ns.lookup(path)
	}

	for {
		path, _ := np.resolve(scope)
		if obj := ns.lookup(path); obj != nil {
			return obj
		}

		var ok bool
		if scope, ok = parentPath(scope); !ok {
			return nil
		}
	}
}

// resolveInvocation returns the callable declaration that name refers to
// together with its argument count. It returns nil if name does not resolve
// to a Method or to an External declaring a method.
func (ns *namespace) resolveInvocation(scope string, name []byte) (*ObjectNode, uint8) {
	decl := ns.resolve(scope, name)
	if decl == nil {
		return nil, 0
	}

	argCount, ok := invocationArgCount(decl)
	if !ok {
		return nil, 0
	}
	return decl, argCount
}

// invocationArgCount returns the number of arguments a callable declaration
// expects.
func invocationArgCount(decl *ObjectNode) (uint8, bool) {
	switch decl.enc.op {
	case OpMethod:
		flags, ok := fixedArgUint(decl, 1)
		if !ok {
			return 0, false
		}
		return uint8(flags & 0x7), true
	case OpExternal:
		if objType, ok := fixedArgUint(decl, 1); !ok || objType != externalMethodObj {
			return 0, false
		}
		argCount, ok := fixedArgUint(decl, 2)
		if !ok {
			return 0, false
		}
		if argCount > maxMethodArgs {
			argCount = maxMethodArgs
		}
		return uint8(argCount), true
	}
	return 0, false
}

func fixedArgUint(obj *ObjectNode, i int) (uint64, bool) {
	dn, ok := obj.FixedArg(i).(*DataNode)
	if !ok {
		return 0, false
	}
	return dn.Uint()
}

// Len returns the number of registered declarations.
func (ns *namespace) Len() int {
	return ns.entries.Len()
}

// paths returns the registered paths in declaration order.
func (ns *namespace) paths() []string {
	paths := make([]string, 0, ns.entries.Len())
	for el := ns.entries.Front(); el != nil; el = el.Next() {
		paths = append(paths, el.Key)
	}
	return paths
}
