package devcontainer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shpurify/shpurify/internal/diag"
)

func diagnostic(code string, sev diag.Severity, msg string) diag.Diagnostic {
	return diag.Diagnostic{Code: code, Severity: sev, Message: msg, Span: zeroSpan}
}

// checkDevcontainer001 requires one of image/build/dockerComposeFile.
func checkDevcontainer001(tree map[string]any) []diag.Diagnostic {
	if tree["image"] != nil || tree["build"] != nil || tree["dockerComposeFile"] != nil {
		return nil
	}
	return []diag.Diagnostic{diagnostic("DEVCONTAINER001", diag.Error,
		"missing image source: devcontainer.json must specify 'image', 'build', or 'dockerComposeFile'")}
}

// checkDevcontainer002 warns when image pins the :latest tag.
func checkDevcontainer002(tree map[string]any) []diag.Diagnostic {
	image, ok := tree["image"].(string)
	if !ok || !strings.HasSuffix(image, ":latest") {
		return nil
	}
	return []diag.Diagnostic{diagnostic("DEVCONTAINER002", diag.Warning,
		"using ':latest' tag reduces reproducibility; pin a specific version")}
}

// checkDevcontainer003 rejects an absolute build.dockerfile path.
func checkDevcontainer003(tree map[string]any) []diag.Diagnostic {
	build, ok := tree["build"].(map[string]any)
	if !ok {
		return nil
	}
	dockerfile, ok := build["dockerfile"].(string)
	if !ok || !strings.HasPrefix(dockerfile, "/") {
		return nil
	}
	return []diag.Diagnostic{diagnostic("DEVCONTAINER003", diag.Error,
		"absolute path in build.dockerfile; use a relative path for portability")}
}

// checkDevcontainer004 requires 'service' alongside dockerComposeFile.
func checkDevcontainer004(tree map[string]any) []diag.Diagnostic {
	if tree["dockerComposeFile"] == nil || tree["service"] != nil {
		return nil
	}
	return []diag.Diagnostic{diagnostic("DEVCONTAINER004", diag.Error,
		"dockerComposeFile requires a 'service' property to specify which service to use")}
}

// checkDevcontainer005 flags feature options whose key looks like a
// placeholder ("unknown..."), the same heuristic the original linter used
// since the feature schema is open-ended and new options appear often.
func checkDevcontainer005(tree map[string]any) []diag.Diagnostic {
	features, ok := tree["features"].(map[string]any)
	if !ok {
		return nil
	}
	var diags []diag.Diagnostic
	for _, name := range sortedKeys(features) {
		config, ok := features[name].(map[string]any)
		if !ok {
			continue
		}
		for _, key := range sortedKeys(config) {
			if strings.HasPrefix(key, "unknown") {
				diags = append(diags, diagnostic("DEVCONTAINER005", diag.Warning,
					fmt.Sprintf("unknown option %q in feature %q; check the feature's documentation for valid options", key, name)))
			}
		}
	}
	return diags
}

// checkDevcontainer006 is a no-op: encoding/json, like serde_json, resolves
// duplicate object keys by keeping the last value, so there is nothing left
// to detect once the tree is decoded.
func checkDevcontainer006(_ map[string]any) []diag.Diagnostic { return nil }

var validWaitFor = map[string]bool{
	"onCreateCommand":      true,
	"updateContentCommand": true,
	"postCreateCommand":    true,
}

// checkDevcontainer007 validates waitFor against the three lifecycle hooks
// the spec allows it to name.
func checkDevcontainer007(tree map[string]any) []diag.Diagnostic {
	waitFor, ok := tree["waitFor"].(string)
	if !ok || validWaitFor[waitFor] {
		return nil
	}
	return []diag.Diagnostic{diagnostic("DEVCONTAINER007", diag.Error,
		fmt.Sprintf("invalid waitFor value %q; must be onCreateCommand, updateContentCommand, or postCreateCommand", waitFor))}
}

// checkDevcontainer008 warns that updateRemoteUserUID=false can break bind
// mount permissions on Linux hosts.
func checkDevcontainer008(tree map[string]any) []diag.Diagnostic {
	updateUID, ok := tree["updateRemoteUserUID"].(bool)
	if !ok || updateUID {
		return nil
	}
	return []diag.Diagnostic{diagnostic("DEVCONTAINER008", diag.Info,
		"updateRemoteUserUID=false may cause permission issues with bind mounts on Linux")}
}

// checkDevcontainer009 requires workspaceFolder to be an absolute path.
func checkDevcontainer009(tree map[string]any) []diag.Diagnostic {
	folder, ok := tree["workspaceFolder"].(string)
	if !ok || strings.HasPrefix(folder, "/") {
		return nil
	}
	return []diag.Diagnostic{diagnostic("DEVCONTAINER009", diag.Error,
		"workspaceFolder must be an absolute path")}
}

// checkDevcontainer010 requires every containerEnv value to be a string.
func checkDevcontainer010(tree map[string]any) []diag.Diagnostic {
	env, ok := tree["containerEnv"].(map[string]any)
	if !ok {
		return nil
	}
	var diags []diag.Diagnostic
	for _, key := range sortedKeys(env) {
		if _, isString := env[key].(string); !isString {
			diags = append(diags, diagnostic("DEVCONTAINER010", diag.Error,
				fmt.Sprintf("containerEnv value for %q must be a string, got %s", key, jsonTypeName(env[key]))))
		}
	}
	return diags
}

// checkDevcontainer011 validates customizations.vscode.extensions entries
// against the publisher.extension-name format.
func checkDevcontainer011(tree map[string]any) []diag.Diagnostic {
	customizations, ok := tree["customizations"].(map[string]any)
	if !ok {
		return nil
	}
	vscode, ok := customizations["vscode"].(map[string]any)
	if !ok {
		return nil
	}
	extensions, ok := vscode["extensions"].([]any)
	if !ok {
		return nil
	}
	var diags []diag.Diagnostic
	for _, e := range extensions {
		id, ok := e.(string)
		if !ok {
			continue
		}
		if !strings.Contains(id, ".") || strings.HasPrefix(id, ".") || strings.HasSuffix(id, ".") {
			diags = append(diags, diagnostic("DEVCONTAINER011", diag.Warning,
				fmt.Sprintf("invalid extension ID %q; expected format publisher.extension-name", id)))
		}
	}
	return diags
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
