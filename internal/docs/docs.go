// Package docs renders the gateway's API documentation bundle: an OpenAPI 3.0
// descriptor plus a static browsable page. It runs at build time, never at
// request time.
package docs

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the operation registry consumed by the generator.
type Document struct {
	Title       string      `yaml:"title"`
	Version     string      `yaml:"version"`
	Description string      `yaml:"description"`
	BaseURL     string      `yaml:"baseUrl"`
	Operations  []Operation `yaml:"operations"`
}

// Operation describes one gateway route.
type Operation struct {
	Name       string      `yaml:"name"`
	Method     string      `yaml:"method"`
	Path       string      `yaml:"path"`
	Summary    string      `yaml:"summary"`
	Tag        string      `yaml:"tag"`
	Parameters []Parameter `yaml:"parameters"`
	Body       []Parameter `yaml:"body"`
}

// Parameter describes a path parameter or a request body field.
type Parameter struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description"`
}

// Load reads the operation registry from a YAML file.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read operations file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse operations file: %w", err)
	}

	if doc.Title == "" || doc.Version == "" {
		return nil, fmt.Errorf("operations file must set title and version")
	}
	if len(doc.Operations) == 0 {
		return nil, fmt.Errorf("operations file lists no operations")
	}
	for i, op := range doc.Operations {
		if op.Name == "" || op.Method == "" || op.Path == "" {
			return nil, fmt.Errorf("operation %d: name, method and path are required", i)
		}
	}
	return &doc, nil
}

// =============================================================================
// OpenAPI Descriptor
// =============================================================================

// BuildOpenAPI renders the registry as an OpenAPI 3.0 document.
func BuildOpenAPI(doc *Document) ([]byte, error) {
	paths := map[string]interface{}{}
	for _, op := range doc.Operations {
		item, ok := paths[op.Path].(map[string]interface{})
		if !ok {
			item = map[string]interface{}{}
			paths[op.Path] = item
		}
		item[strings.ToLower(op.Method)] = buildOperation(op)
	}

	spec := map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       doc.Title,
			"version":     doc.Version,
			"description": doc.Description,
		},
		"servers": []interface{}{
			map[string]interface{}{"url": doc.BaseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"SuccessEnvelope": successEnvelopeSchema(),
				"ErrorEnvelope":   errorEnvelopeSchema(),
			},
		},
	}

	return json.MarshalIndent(spec, "", "  ")
}

func buildOperation(op Operation) map[string]interface{} {
	entry := map[string]interface{}{
		"summary":     op.Summary,
		"operationId": op.Name,
		"tags":        []interface{}{op.Tag},
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "Success envelope",
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"schema": map[string]interface{}{"$ref": "#/components/schemas/SuccessEnvelope"},
					},
				},
			},
			"500": map[string]interface{}{
				"description": "Error envelope",
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"schema": map[string]interface{}{"$ref": "#/components/schemas/ErrorEnvelope"},
					},
				},
			},
		},
	}

	if len(op.Parameters) > 0 {
		params := make([]interface{}, 0, len(op.Parameters))
		for _, p := range op.Parameters {
			params = append(params, map[string]interface{}{
				"name":        p.Name,
				"in":          "path",
				"required":    p.Required,
				"description": p.Description,
				"schema":      map[string]interface{}{"type": p.Type},
			})
		}
		entry["parameters"] = params
	}

	if len(op.Body) > 0 {
		properties := map[string]interface{}{}
		required := make([]interface{}, 0, len(op.Body))
		for _, field := range op.Body {
			properties[field.Name] = map[string]interface{}{
				"type":        field.Type,
				"description": field.Description,
			}
			if field.Required {
				required = append(required, field.Name)
			}
		}
		entry["requestBody"] = map[string]interface{}{
			"required": true,
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": map[string]interface{}{
						"type":       "object",
						"properties": properties,
						"required":   required,
					},
				},
			},
		}
	}

	return entry
}

func successEnvelopeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"success":   map[string]interface{}{"type": "boolean", "enum": []interface{}{true}},
			"data":      map[string]interface{}{"type": "object"},
			"message":   map[string]interface{}{"type": "string"},
			"timestamp": map[string]interface{}{"type": "string", "format": "date-time"},
		},
	}
}

func errorEnvelopeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"success": map[string]interface{}{"type": "boolean", "enum": []interface{}{false}},
			"error": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"code":      map[string]interface{}{"type": "string"},
					"message":   map[string]interface{}{"type": "string"},
					"details":   map[string]interface{}{"type": "string"},
					"timestamp": map[string]interface{}{"type": "string", "format": "date-time"},
					"endpoint":  map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}

// Validate checks an emitted descriptor the way the build pipeline does:
// it must parse, declare an openapi version, and carry a non-empty paths map.
func Validate(descriptor []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(descriptor, &m); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}
	if m["openapi"] == nil {
		return fmt.Errorf("descriptor must set openapi version")
	}
	paths, _ := m["paths"].(map[string]interface{})
	if len(paths) == 0 {
		return fmt.Errorf("descriptor must have a paths object")
	}
	return nil
}

// =============================================================================
// Static Page
// =============================================================================

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"lower": strings.ToLower,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, sans-serif; margin: 2rem auto; max-width: 60rem; color: #1d2733; }
h1 { border-bottom: 2px solid #2a7ae2; padding-bottom: .4rem; }
.op { border: 1px solid #d7dde4; border-radius: 6px; margin: 1rem 0; padding: 1rem; }
.method { display: inline-block; font-weight: 700; color: #fff; border-radius: 4px; padding: .1rem .5rem; margin-right: .5rem; }
.get { background: #2a7ae2; }
.post { background: #2ea44f; }
code { background: #f2f5f8; padding: .1rem .3rem; border-radius: 3px; }
table { border-collapse: collapse; width: 100%; margin-top: .5rem; }
th, td { text-align: left; border-bottom: 1px solid #e4e9ee; padding: .3rem .5rem; }
</style>
</head>
<body>
<h1>{{.Title}} <small>v{{.Version}}</small></h1>
<p>{{.Description}}</p>
<p>Base URL: <code>{{.BaseURL}}</code></p>
{{range .Operations}}
<div class="op">
<p><span class="method {{.Method | lower}}">{{.Method}}</span><code>{{.Path}}</code></p>
<p>{{.Summary}}</p>
{{if .Parameters}}
<table>
<tr><th>Parameter</th><th>Type</th><th>Required</th><th>Description</th></tr>
{{range .Parameters}}<tr><td><code>{{.Name}}</code></td><td>{{.Type}}</td><td>{{.Required}}</td><td>{{.Description}}</td></tr>
{{end}}</table>
{{end}}
{{if .Body}}
<table>
<tr><th>Body field</th><th>Type</th><th>Required</th><th>Description</th></tr>
{{range .Body}}<tr><td><code>{{.Name}}</code></td><td>{{.Type}}</td><td>{{.Required}}</td><td>{{.Description}}</td></tr>
{{end}}</table>
{{end}}
</div>
{{end}}
</body>
</html>
`))

// RenderHTML renders the static documentation page.
func RenderHTML(doc *Document, w io.Writer) error {
	return pageTemplate.Execute(w, doc)
}
