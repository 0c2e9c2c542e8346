package gltf

import (
	"encoding/json"
	"errors"
	"testing"
)

type stubExt struct {
	Mode string `json:"mode"`
	fail bool
}

func (s *stubExt) Validate(doc *Document) error {
	if s.fail {
		return newError(ErrSchemaViolation, "nodes", -1, "extensions", "stub validation failed")
	}
	return nil
}

func init() {
	RegisterExtension("TEST_stub", func(data []byte) (interface{}, error) {
		var s stubExt
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		s.fail = s.Mode == "fail"
		return &s, nil
	})
}

func TestRequiredExtensionUnsupported(t *testing.T) {
	doc := &Document{ExtensionsRequired: []string{"VENDOR_does_not_exist"}}
	err := CheckRequiredExtensions(doc)
	if !errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("err = %v, want ErrUnsupportedExtension", err)
	}
}

func TestRequiredExtensionSupported(t *testing.T) {
	doc := &Document{ExtensionsRequired: []string{"TEST_stub"}}
	if err := CheckRequiredExtensions(doc); err != nil {
		t.Fatal(err)
	}
}

func TestExtensionsUnmarshal(t *testing.T) {
	var exts Extensions
	payload := []byte(`{"TEST_stub":{"mode":"ok"},"VENDOR_unknown":{"x":1}}`)
	if err := json.Unmarshal(payload, &exts); err != nil {
		t.Fatal(err)
	}
	if _, ok := exts["TEST_stub"].(*stubExt); !ok {
		t.Errorf("TEST_stub decoded to %T", exts["TEST_stub"])
	}
	if _, ok := exts["VENDOR_unknown"].(json.RawMessage); !ok {
		t.Errorf("unknown extension kept as %T, want raw bytes", exts["VENDOR_unknown"])
	}
}

func TestResolveRunsExtensionValidators(t *testing.T) {
	data := []byte(`{"asset":{"version":"2.0"},"nodes":[{"extensions":{"TEST_stub":{"mode":"fail"}}}]}`)
	doc, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(doc); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("err = %v, want ErrSchemaViolation", err)
	}
}
