package gltf

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Handler decodes one extension's JSON payload into a typed value.
type Handler func(data []byte) (interface{}, error)

// Validator is implemented by decoded extension payloads that need
// cross-checks against the rest of the document. Resolve calls it after
// all index bounds have been verified.
type Validator interface {
	Validate(doc *Document) error
}

var (
	extMu      sync.RWMutex
	extHandler = map[string]Handler{}
)

// RegisterExtension installs a decoder for the named extension. Documents
// carrying an unregistered extension still parse; the payload is kept as
// raw bytes and has no semantic effect.
func RegisterExtension(name string, h Handler) {
	extMu.Lock()
	defer extMu.Unlock()
	extHandler[name] = h
}

// Supported reports whether a handler is registered for name.
func Supported(name string) bool {
	extMu.RLock()
	defer extMu.RUnlock()
	_, ok := extHandler[name]
	return ok
}

func lookupExtension(name string) (Handler, bool) {
	extMu.RLock()
	defer extMu.RUnlock()
	h, ok := extHandler[name]
	return h, ok
}

// CheckRequiredExtensions fails when the document declares an extension as
// required and no handler is registered for it. Must pass before any scene
// construction starts.
func CheckRequiredExtensions(doc *Document) error {
	for i, name := range doc.ExtensionsRequired {
		if !Supported(name) {
			return newError(ErrUnsupportedExtension, "extensionsRequired", i, "", "%s", name)
		}
	}
	return nil
}

// Extensions maps an extension name to its decoded payload when a handler
// is registered, or to the verbatim json.RawMessage when it is not.
type Extensions map[string]interface{}

func (e *Extensions) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m := make(Extensions, len(raw))
	for name, payload := range raw {
		if h, ok := lookupExtension(name); ok {
			v, err := h(payload)
			if err != nil {
				return fmt.Errorf("extension %s: %w", name, err)
			}
			m[name] = v
		} else {
			m[name] = payload
		}
	}
	*e = m
	return nil
}

func (e Extensions) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(e))
}
