package config

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the config file, for editor completion
// and validation of ghostmaze.yaml.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.ReflectFromType(reflect.TypeOf(GhostMazeConfig{}))
	schema.Version = jsonschema.Version
	schema.Title = "Ghost Maze configuration"
	schema.Description = "World geometry, timed events, scoring and difficulty for a Ghost Maze round."
	return schema
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
