package backend

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

func str() *jsonschema.Schema     { return &jsonschema.Schema{Type: "string"} }
func boolean() *jsonschema.Schema { return &jsonschema.Schema{Type: "boolean"} }

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

// nullableArray accepts null for list fields a Go backend encodes from nil slices.
func nullableArray(items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{"array", "null"}, Items: items}
}

func historyEntry() *jsonschema.Schema {
	return object([]string{"Text", "IsUser"}, map[string]*jsonschema.Schema{
		"Text":   str(),
		"IsUser": boolean(),
	})
}

var (
	askSchema = mustResolve("ask", object([]string{"answer"}, map[string]*jsonschema.Schema{
		"answer":       str(),
		"chat_uuid":    {Types: []string{"string", "null"}},
		"input_token":  {Type: "integer"},
		"output_token": {Type: "integer"},
	}))

	historySchema = mustResolve("chat", object([]string{"messages"}, map[string]*jsonschema.Schema{
		"messages": nullableArray(historyEntry()),
	}))

	chatsSchema = mustResolve("chats", object([]string{"chats"}, map[string]*jsonschema.Schema{
		"chats": nullableArray(object([]string{"uuid"}, map[string]*jsonschema.Schema{
			"uuid":       str(),
			"created_at": str(),
			"messages":   nullableArray(historyEntry()),
		})),
	}))

	toolsSchema = mustResolve("tools", nullableArray(object([]string{"name"}, map[string]*jsonschema.Schema{
		"name":        str(),
		"description": str(),
	})))

	providersSchema = mustResolve("providers", object([]string{"providers"}, map[string]*jsonschema.Schema{
		"providers": nullableArray(object([]string{"name", "models"}, map[string]*jsonschema.Schema{
			"name": str(),
			"models": nullableArray(object([]string{"modelId", "name"}, map[string]*jsonschema.Schema{
				"modelId":     str(),
				"name":        str(),
				"description": str(),
			})),
		})),
	}))
)

func mustResolve(name string, s *jsonschema.Schema) *jsonschema.Resolved {
	r, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("backend: invalid %s schema: %v", name, err))
	}
	return r
}
