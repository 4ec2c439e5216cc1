package devcontainer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpurify/shpurify/internal/devcontainer"
)

func mustParse(t *testing.T, jsonc string) map[string]any {
	t.Helper()
	tree, err := devcontainer.Parse(jsonc)
	require.NoError(t, err)
	return tree
}

func TestStripComments_LineComment(t *testing.T) {
	out := devcontainer.StripComments("{\n  // comment\n  \"name\": \"Test\"\n}")
	assert.NotContains(t, out, "comment")
	assert.Contains(t, out, `"name": "Test"`)
}

func TestStripComments_BlockComment(t *testing.T) {
	out := devcontainer.StripComments("{\n/* multi\nline */\n\"name\": \"Test\"\n}")
	assert.NotContains(t, out, "multi")
	assert.Contains(t, out, `"name": "Test"`)
}

func TestStripComments_LeavesSlashesInStringsAlone(t *testing.T) {
	out := devcontainer.StripComments(`{"name": "// not a comment"}`)
	assert.Equal(t, `{"name": "// not a comment"}`, out)
}

func TestParse_DecodesAfterStrippingComments(t *testing.T) {
	tree := mustParse(t, "{\n  // dev container\n  \"name\": \"Dev\"\n}")
	assert.Equal(t, "Dev", tree["name"])
}

func TestParse_ReturnsParseErrorOnInvalidJSON(t *testing.T) {
	_, err := devcontainer.Parse("{not json")
	require.Error(t, err)
	var parseErr *devcontainer.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestValidate001_MissingImageSource(t *testing.T) {
	tree := mustParse(t, `{"name": "Invalid"}`)
	diags := devcontainer.Validate(tree)
	require.NotEmpty(t, diags)
	assert.Equal(t, "DEVCONTAINER001", diags[0].Code)
}

func TestValidate001_HasImageSource(t *testing.T) {
	tree := mustParse(t, `{"image": "mcr.microsoft.com/devcontainers/base:ubuntu-22.04"}`)
	for _, d := range devcontainer.Validate(tree) {
		assert.NotEqual(t, "DEVCONTAINER001", d.Code)
	}
}

func TestValidate002_LatestTag(t *testing.T) {
	tree := mustParse(t, `{"image": "mcr.microsoft.com/devcontainers/base:latest"}`)
	diags := devcontainer.Validate(tree)
	assert.Condition(t, func() bool {
		for _, d := range diags {
			if d.Code == "DEVCONTAINER002" {
				return true
			}
		}
		return false
	})
}

func TestValidate003_AbsoluteDockerfilePath(t *testing.T) {
	tree := mustParse(t, `{"build": {"dockerfile": "/absolute/Dockerfile"}}`)
	diags := devcontainer.Validate(tree)
	found := false
	for _, d := range diags {
		if d.Code == "DEVCONTAINER003" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate004_ComposeWithoutService(t *testing.T) {
	tree := mustParse(t, `{"dockerComposeFile": "docker-compose.yml"}`)
	diags := devcontainer.Validate(tree)
	found := false
	for _, d := range diags {
		if d.Code == "DEVCONTAINER004" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate004_ComposeWithService(t *testing.T) {
	tree := mustParse(t, `{"dockerComposeFile": "docker-compose.yml", "service": "app"}`)
	diags := devcontainer.Validate(tree)
	for _, d := range diags {
		assert.NotEqual(t, "DEVCONTAINER004", d.Code)
	}
}

func TestValidate005_UnknownFeatureOption(t *testing.T) {
	tree := mustParse(t, `{"image": "x", "features": {"ghcr.io/x:1": {"unknownOption": "value"}}}`)
	diags := devcontainer.Validate(tree)
	found := false
	for _, d := range diags {
		if d.Code == "DEVCONTAINER005" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate007_InvalidWaitFor(t *testing.T) {
	tree := mustParse(t, `{"image": "x", "waitFor": "bogusStage"}`)
	diags := devcontainer.Validate(tree)
	found := false
	for _, d := range diags {
		if d.Code == "DEVCONTAINER007" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate008_UpdateRemoteUserUIDFalse(t *testing.T) {
	tree := mustParse(t, `{"image": "x", "updateRemoteUserUID": false}`)
	diags := devcontainer.Validate(tree)
	found := false
	for _, d := range diags {
		if d.Code == "DEVCONTAINER008" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate009_RelativeWorkspaceFolder(t *testing.T) {
	tree := mustParse(t, `{"image": "x", "workspaceFolder": "relative/path"}`)
	diags := devcontainer.Validate(tree)
	found := false
	for _, d := range diags {
		if d.Code == "DEVCONTAINER009" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate010_NonStringContainerEnvValue(t *testing.T) {
	tree := mustParse(t, `{"image": "x", "containerEnv": {"DEBUG": true}}`)
	diags := devcontainer.Validate(tree)
	found := false
	for _, d := range diags {
		if d.Code == "DEVCONTAINER010" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate011_InvalidExtensionID(t *testing.T) {
	tree := mustParse(t, `{"image": "x", "customizations": {"vscode": {"extensions": ["invalid-extension-id"]}}}`)
	diags := devcontainer.Validate(tree)
	found := false
	for _, d := range diags {
		if d.Code == "DEVCONTAINER011" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate011_ValidExtensionID(t *testing.T) {
	tree := mustParse(t, `{"image": "x", "customizations": {"vscode": {"extensions": ["ms-python.python"]}}}`)
	diags := devcontainer.Validate(tree)
	for _, d := range diags {
		assert.NotEqual(t, "DEVCONTAINER011", d.Code)
	}
}

func TestValidate_ValidConfigHasNoDiagnostics(t *testing.T) {
	tree := mustParse(t, `{
		"name": "Valid Container",
		"image": "mcr.microsoft.com/devcontainers/base:ubuntu-22.04",
		"forwardPorts": [3000],
		"workspaceFolder": "/workspace"
	}`)
	assert.Empty(t, devcontainer.Validate(tree))
}

func TestValidateSource_ParsesAndValidatesJSONC(t *testing.T) {
	jsonc := "{\n  // Development container\n  \"name\": \"Dev Container\",\n  \"image\": \"mcr.microsoft.com/devcontainers/base:ubuntu-22.04\"\n}"
	diags, err := devcontainer.ValidateSource(jsonc)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestValidateSource_SurfacesParseError(t *testing.T) {
	_, err := devcontainer.ValidateSource("{ broken")
	assert.Error(t, err)
}
