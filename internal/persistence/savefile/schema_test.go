package savefile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Every file Write produces must pass the published save schema.
func TestWrite_OutputMatchesSchema(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "..", "schemas", "save.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, sample(1000)); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := schema.Validate(v); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
