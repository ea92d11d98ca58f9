package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

var schemaFiles = []string{
	"report.schema.json",
	"input.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			assert.Equal(t, "object", schemaObj["type"])
			assert.Contains(t, schemaObj, "$schema")
			assert.Contains(t, schemaObj, "required")
		})
	}
}

func TestSchemaFiles_Compile(t *testing.T) {
	for _, content := range []string{Report, Input} {
		_, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
		assert.NoError(t, err)
	}
}

func TestEmbeddedMatchesFiles(t *testing.T) {
	embedded := map[string]string{
		"report.schema.json": Report,
		"input.schema.json":  Input,
	}
	for _, schemaFile := range schemaFiles {
		data, err := os.ReadFile(schemaFile)
		require.NoError(t, err)
		assert.Equal(t, string(data), embedded[schemaFile])
	}
}
