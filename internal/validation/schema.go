// Package validation checks project configuration and descriptor tables
// against embedded JSON Schemas.
package validation

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Kind selects the schema a document is checked against.
type Kind string

const (
	KindConfig Kind = "config"
	KindTable  Kind = "table"
)

var (
	//go:embed config.schema.json
	configSchemaJSON string

	//go:embed table.schema.json
	tableSchemaJSON string
)

var printer = message.NewPrinter(language.English)

var schemas = map[Kind]*jsonschema.Schema{
	KindConfig: mustCompile("config.schema.json", configSchemaJSON),
	KindTable:  mustCompile("table.schema.json", tableSchemaJSON),
}

func mustCompile(name, raw string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parsing embedded %s: %v", name, err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("adding %s: %v", name, err))
	}
	sch, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compiling %s: %v", name, err))
	}
	return sch
}

// ValidateFile reads a YAML (or JSON) file and validates it. The returned
// issues are "location: message" strings sorted by location; a read error
// is returned separately.
func ValidateFile(kind Kind, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", kind, err)
	}
	return Validate(kind, data), nil
}

// Validate validates a YAML (or JSON) document. An empty document is an
// empty object.
func Validate(kind Kind, data []byte) []string {
	sch, ok := schemas[kind]
	if !ok {
		return []string{fmt.Sprintf("no schema for %q", kind)}
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	if doc == nil {
		doc = map[string]any{}
	}

	err := sch.Validate(normalize(doc))
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}

	var issues []string
	collect(ve, &issues)
	slices.Sort(issues)
	return slices.Compact(issues)
}

// ValidateConfigFile validates a .lingnexus.yaml file.
func ValidateConfigFile(path string) ([]string, error) { return ValidateFile(KindConfig, path) }

// ValidateConfigBytes validates raw config YAML.
func ValidateConfigBytes(data []byte) []string { return Validate(KindConfig, data) }

// ValidateTableFile validates a descriptor table file.
func ValidateTableFile(path string) ([]string, error) { return ValidateFile(KindTable, path) }

// ValidateTableBytes validates a raw descriptor table.
func ValidateTableBytes(data []byte) []string { return Validate(KindTable, data) }

// collect flattens the leaf causes of ve.
func collect(ve *jsonschema.ValidationError, issues *[]string) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			collect(c, issues)
		}
		return
	}
	*issues = append(*issues, "/"+strings.Join(ve.InstanceLocation, "/")+": "+ve.ErrorKind.LocalizedString(printer))
}

// normalize gives YAML-decoded maps string keys; table rows may use numeric
// identifiers as keys.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}
