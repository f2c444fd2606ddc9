package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareModel(t *testing.T) {
	t.Run("Existing model directory is returned without download", func(t *testing.T) {
		modelPath := filepath.Join("./models", "matchmaker_cached-embedder")
		require.NoError(t, os.MkdirAll(modelPath, 0750))
		defer os.RemoveAll(modelPath)

		path, err := PrepareModel("matchmaker/cached-embedder", "")
		assert.NoError(t, err)
		assert.Equal(t, modelPath, path)
	})

	t.Run("Slashes in model names map to underscores", func(t *testing.T) {
		names := map[string]string{
			"dslim/bert-base-NER":                    "dslim_bert-base-NER",
			"sentence-transformers/all-MiniLM-L6-v2": "sentence-transformers_all-MiniLM-L6-v2",
			"plain-model":                            "plain-model",
		}
		for name, dir := range names {
			expected := filepath.Join("./models", dir)
			require.NoError(t, os.MkdirAll(expected, 0750))

			path, err := PrepareModel(name, "model.onnx")
			os.RemoveAll(expected)

			assert.NoError(t, err, name)
			assert.Equal(t, expected, path, name)
		}
	})

	t.Run("Missing model is downloaded", func(t *testing.T) {
		if testing.Short() {
			t.Skip("model download needs network access")
		}
		os.RemoveAll(filepath.Join("./models", "sentence-transformers_all-MiniLM-L6-v2"))

		path, err := PrepareModel("sentence-transformers/all-MiniLM-L6-v2")
		if err != nil {
			assert.Contains(t, err.Error(), "failed to")
			return
		}
		assert.DirExists(t, path)
	})
}
