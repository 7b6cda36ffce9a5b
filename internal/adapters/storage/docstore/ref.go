package docstore

import "strings"

// CollectionRef names a collection, optionally scoped under a parent document.
// An unscoped reference to a collection name reaches every document in that
// collection, including those stored under a parent.
type CollectionRef struct {
	name   string
	parent string
}

// Collection returns a top-level collection reference.
func Collection(name string) CollectionRef {
	return CollectionRef{name: name}
}

// Name returns the collection name.
func (c CollectionRef) Name() string { return c.name }

// Parent returns the owning document path, or "" when unscoped.
func (c CollectionRef) Parent() string { return c.parent }

// Path returns "name" or "parent/name".
func (c CollectionRef) Path() string {
	if c.parent == "" {
		return c.name
	}
	return c.parent + "/" + c.name
}

// Doc returns a reference to the document id in this collection.
func (c CollectionRef) Doc(id string) DocRef {
	return DocRef{coll: c, id: id}
}

// Query starts a query over this collection.
func (c CollectionRef) Query() Query {
	return Query{coll: c}
}

// Where starts a query with one filter.
func (c CollectionRef) Where(field string, op Op, value any) Query {
	return c.Query().Where(field, op, value)
}

// DocRef names one document.
type DocRef struct {
	coll CollectionRef
	id   string
}

// ID returns the document id.
func (d DocRef) ID() string { return d.id }

// Parent returns the collection holding the document.
func (d DocRef) Parent() CollectionRef { return d.coll }

// Path returns the slash-separated document path, e.g. "members/abc".
func (d DocRef) Path() string {
	return d.coll.Path() + "/" + d.id
}

// Collection returns a sub-collection scoped under this document.
func (d DocRef) Collection(name string) CollectionRef {
	return CollectionRef{name: name, parent: d.Path()}
}

// ParsePath turns "members/abc/payments/p1" into a DocRef.
// Returns false for paths with an odd number of segments.
func ParsePath(path string) (DocRef, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts)%2 != 0 {
		return DocRef{}, false
	}
	for _, p := range parts {
		if p == "" {
			return DocRef{}, false
		}
	}
	coll := Collection(parts[0])
	ref := coll.Doc(parts[1])
	for i := 2; i < len(parts); i += 2 {
		ref = ref.Collection(parts[i]).Doc(parts[i+1])
	}
	return ref, true
}
