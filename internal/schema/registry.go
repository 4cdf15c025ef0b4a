package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"

	"github.com/google/jsonschema-go/jsonschema"
)

// DefaultBaseURI is the base against which relative schema references are
// resolved when a Registry is built without one.
const DefaultBaseURI = "https://trace-mapper.local/schemas/"

// Registry stores shared schema definitions documents keyed by their $id.
type Registry struct {
	baseURI string
	docs    map[string]*jsonschema.Schema
}

// Document is a named definitions document.
type Document struct {
	// Name is used as the document id when the schema has no $id.
	Name string
	Data []byte
}

// NewRegistry builds a registry from definitions documents. Each document
// is reachable by its $id (or Name), both as given and resolved against
// baseURI, and by the last path segment of that id.
func NewRegistry(baseURI string, docs ...Document) (*Registry, error) {
	if baseURI == "" {
		baseURI = DefaultBaseURI
	}

	base, err := url.Parse(baseURI)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("schema base URI %q must be absolute", baseURI)
	}

	r := &Registry{
		baseURI: baseURI,
		docs:    make(map[string]*jsonschema.Schema),
	}

	for _, doc := range docs {
		var s jsonschema.Schema
		if err := json.Unmarshal(doc.Data, &s); err != nil {
			return nil, fmt.Errorf("parsing schema definitions %s: %w", doc.Name, err)
		}

		id := s.ID
		if id == "" {
			id = doc.Name
		}

		if id == "" {
			return nil, fmt.Errorf("schema definitions document has neither $id nor name")
		}

		ref, err := url.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("schema definitions %s: invalid $id %q: %w", doc.Name, id, err)
		}

		abs := base.ResolveReference(ref)
		abs.Fragment = ""

		r.docs[id] = &s
		r.docs[abs.String()] = &s
		r.docs[path.Base(abs.Path)] = &s
	}

	return r, nil
}

// LoadRegistry reads definitions documents from files.
func LoadRegistry(baseURI string, files ...string) (*Registry, error) {
	docs := make([]Document, 0, len(files))

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema definitions %s: %w", f, err)
		}

		docs = append(docs, Document{Name: path.Base(f), Data: data})
	}

	return NewRegistry(baseURI, docs...)
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	seen := make(map[*jsonschema.Schema]struct{}, len(r.docs))
	for _, s := range r.docs {
		seen[s] = struct{}{}
	}

	return len(seen)
}

// load resolves remote references for jsonschema-go.
func (r *Registry) load(uri *url.URL) (*jsonschema.Schema, error) {
	u := *uri
	u.Fragment = ""

	if s, ok := r.docs[u.String()]; ok {
		return s, nil
	}

	if s, ok := r.docs[path.Base(u.Path)]; ok {
		return s, nil
	}

	return nil, fmt.Errorf("schema %q is not registered", u.String())
}

// Schema is a compiled schema ready for validation.
type Schema struct {
	raw      json.RawMessage
	resolved *jsonschema.Resolved
}

// Compile parses and resolves a schema document, including references to
// registered definitions.
func (r *Registry) Compile(raw []byte) (*Schema, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	resolved, err := s.Resolve(&jsonschema.ResolveOptions{
		BaseURI: r.baseURI,
		Loader:  r.load,
	})
	if err != nil {
		return nil, fmt.Errorf("resolving schema: %w", err)
	}

	return &Schema{raw: append(json.RawMessage(nil), raw...), resolved: resolved}, nil
}
