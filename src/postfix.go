package noodles

// Accessor is one postfix property access
type Accessor interface {
	accessor()
}

// DotAccessor reads a named property: `.name`
type DotAccessor struct {
	Name string
}

// IndexAccessor reads a computed property: `[expr]`
type IndexAccessor struct {
	Index Expr
}

func (*DotAccessor) accessor()   {}
func (*IndexAccessor) accessor() {}

// parsePostfix reads accessors written directly after an atom
func parsePostfix(c Cursor) (Cursor, []Accessor, error) {
	var accessors []Accessor
	for {
		if next, ok := c.Consume("."); ok {
			after, name, err := Identifier(next, nameTerminator)
			if err != nil {
				return c, accessors, nil
			}
			accessors = append(accessors, &DotAccessor{Name: name})
			c = after
			continue
		}
		if next, ok := c.Consume("["); ok {
			after, index, err := ParseExpression(SkipWhitespace(next), prefixTerminator("]"))
			if err != nil {
				if isParseError(err) {
					return c, accessors, nil
				}
				return c, nil, err
			}
			after, ok = SkipWhitespace(after).Consume("]")
			if !ok {
				return c, accessors, nil
			}
			accessors = append(accessors, &IndexAccessor{Index: index})
			c = after
			continue
		}
		return c, accessors, nil
	}
}

// readProperty reads key from base. Objects follow their prototype chain,
// null fails, and every other value reads as undefined.
func readProperty(base Value, key string, pos *SourcePosition) (Value, error) {
	switch b := base.(type) {
	case *Object:
		return b.Lookup(key), nil
	case Null:
		return nil, &RuntimeError{
			Kind:     KindTypeError,
			Message:  "CannotReadProperty: cannot read property " + key + " of null",
			Position: pos,
		}
	}
	return Undefined{}, nil
}
