package deckgen

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Save writes the package to a file, creating the directory if needed.
// The package is written to a temporary file in the same directory and
// renamed over path, so a failed write leaves an existing file untouched.
func (p *Package) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmp := f.Name()

	_, writeErr := p.WriteTo(f)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tmp, 0644)
	}
	if writeErr == nil {
		writeErr = os.Rename(tmp, path)
	}
	if writeErr != nil {
		os.Remove(tmp)
		return writeErr
	}
	return nil
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// WriteTo writes the package in zip form and returns the number of bytes
// written. Parts that are no longer reachable through relationships from the
// package root are left out, together with their content-type overrides.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	if err := p.flush(); err != nil {
		return 0, err
	}
	reachable, err := p.reachableParts()
	if err != nil {
		return 0, err
	}
	p.types.retain(func(name string) bool { return reachable[name] })
	ct, err := p.types.marshal()
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", contentTypesPart, err)
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	if err := writePart(zw, contentTypesPart, ct); err != nil {
		return cw.n, err
	}
	for _, name := range p.PartNames() {
		if name == contentTypesPart || !reachable[name] {
			continue
		}
		if err := writePart(zw, name, p.parts[name]); err != nil {
			return cw.n, err
		}
	}
	err = zw.Close()
	return cw.n, err
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s in zip: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// flush serializes cached DOMs and relationship lists back into part data.
func (p *Package) flush() error {
	for name, doc := range p.docs {
		if _, ok := p.parts[name]; !ok {
			continue
		}
		data, err := doc.WriteToBytes()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		p.parts[name] = data
	}
	for source, rels := range p.rels {
		if source != "" && !p.Has(source) {
			continue
		}
		name := relsPartName(source)
		if len(rels.items) == 0 && !p.Has(name) {
			continue
		}
		data, err := rels.marshal()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		if !p.Has(name) {
			p.order = append(p.order, name)
		}
		p.parts[name] = data
	}
	return nil
}

// reachableParts walks relationships from the package root. A part is kept
// when it is the target of an internal relationship of a kept part; the
// .rels part of every kept source is kept as well.
func (p *Package) reachableParts() (map[string]bool, error) {
	reachable := map[string]bool{contentTypesPart: true}
	queue := []string{""}
	for len(queue) > 0 {
		source := queue[0]
		queue = queue[1:]
		if name := relsPartName(source); p.Has(name) {
			reachable[name] = true
		}
		rels, err := p.Rels(source)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels.All() {
			target, ok := p.lookupPart(source, rel)
			if !ok || reachable[target] {
				continue
			}
			reachable[target] = true
			if !strings.HasSuffix(target, ".rels") {
				queue = append(queue, target)
			}
		}
	}
	return reachable, nil
}
