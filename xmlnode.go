package deckgen

import (
	"github.com/beevik/etree"
)

// Namespace-aware helpers over etree. Prefixes in OOXML parts are only a
// convention, so elements are matched by namespace URI and local name.

func isElem(e *etree.Element, ns, local string) bool {
	return e != nil && e.Tag == local && e.NamespaceURI() == ns
}

func childElem(e *etree.Element, ns, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if isElem(c, ns, local) {
			return c
		}
	}
	return nil
}

func childElems(e *etree.Element, ns, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if isElem(c, ns, local) {
			out = append(out, c)
		}
	}
	return out
}

// descendants returns every element below e matching ns/local, in document
// order.
func descendants(e *etree.Element, ns, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if isElem(c, ns, local) {
			out = append(out, c)
		}
		out = append(out, descendants(c, ns, local)...)
	}
	return out
}

// pathElem follows a chain of same-namespace children.
func pathElem(e *etree.Element, ns string, locals ...string) *etree.Element {
	for _, local := range locals {
		e = childElem(e, ns, local)
		if e == nil {
			return nil
		}
	}
	return e
}

// attr returns the value of an unprefixed attribute. etree's SelectAttr
// matches any prefix for an unprefixed key, which confuses id with r:id.
func attr(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value
		}
	}
	return ""
}

// removeAttrNS removes a namespaced attribute such as r:id.
func removeAttrNS(e *etree.Element, ns, key string) {
	for _, a := range e.Attr {
		if a.Key == key && a.Space != "" && a.Space != "xmlns" && lookupNamespace(e, a.Space) == ns {
			e.RemoveAttr(a.FullKey())
			return
		}
	}
}

// attrNS returns the value of a namespaced attribute such as r:id.
func attrNS(e *etree.Element, ns, key string) string {
	for i := range e.Attr {
		a := &e.Attr[i]
		if a.Key != key || a.Space == "" || a.Space == "xmlns" {
			continue
		}
		if lookupNamespace(e, a.Space) == ns {
			return a.Value
		}
	}
	return ""
}

// lookupNamespace resolves a prefix by walking xmlns declarations upwards.
func lookupNamespace(e *etree.Element, prefix string) string {
	for cur := e; cur != nil; cur = cur.Parent() {
		for _, a := range cur.Attr {
			if prefix == "" && a.Space == "" && a.Key == "xmlns" {
				return a.Value
			}
			if prefix != "" && a.Space == "xmlns" && a.Key == prefix {
				return a.Value
			}
		}
	}
	return ""
}

// prefixFor returns the prefix bound to ns in scope of e, falling back to the
// conventional one.
func prefixFor(e *etree.Element, ns string) string {
	for cur := e; cur != nil; cur = cur.Parent() {
		for _, a := range cur.Attr {
			if a.Value != ns {
				continue
			}
			if a.Space == "xmlns" {
				return a.Key
			}
			if a.Space == "" && a.Key == "xmlns" {
				return ""
			}
		}
	}
	return conventionalPrefix[ns]
}

// newElem creates a detached element in namespace ns, using the prefix bound
// in scope of context.
func newElem(context *etree.Element, ns, local string) *etree.Element {
	if prefix := prefixFor(context, ns); prefix != "" {
		return etree.NewElement(prefix + ":" + local)
	}
	return etree.NewElement(local)
}

// setAttrNS sets a namespaced attribute, reusing the prefix in scope.
func setAttrNS(e *etree.Element, ns, key, value string) {
	prefix := prefixFor(e, ns)
	if prefix == "" {
		e.CreateAttr(key, value)
		return
	}
	e.CreateAttr(prefix+":"+key, value)
}

// insertBefore places child before the first direct child of parent matching
// ns/local, or appends it when there is none.
func insertBefore(parent, child *etree.Element, ns, local string) {
	if anchor := childElem(parent, ns, local); anchor != nil {
		parent.InsertChildAt(anchor.Index(), child)
		return
	}
	parent.AddChild(child)
}

// insertAfter places child directly after sibling inside parent.
func insertAfter(parent, sibling, child *etree.Element) {
	parent.InsertChildAt(sibling.Index()+1, child)
}

// removeChildren removes every direct child element of parent for which drop
// returns true.
func removeChildren(parent *etree.Element, drop func(*etree.Element) bool) {
	for _, c := range parent.ChildElements() {
		if drop(c) {
			parent.RemoveChild(c)
		}
	}
}

// textOf concatenates the text of every a:t below e.
func textOf(e *etree.Element) string {
	if isElem(e, nsDrawingML, "t") {
		return e.Text()
	}
	var s string
	for _, c := range e.ChildElements() {
		s += textOf(c)
	}
	return s
}
