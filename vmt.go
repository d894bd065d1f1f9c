package bite

import (
	"fmt"
	"strings"
)

// Material is the shared view over parsed material descriptors: a shader
// name plus texture paths keyed by role.
type Material struct {
	Shader      string
	Transparent bool
	Textures    map[string]string
}

// vmtTextureRoles maps known VMT shader parameters to texture roles.
// The Valve wiki has no complete list; these cover the common ones.
var vmtTextureRoles = map[string]string{
	"$basetexture":          "colour",
	"$basetexture2":         "colour2",
	"$blendmodulatetexture": "blend_modulate",
	"$bumpmap":              "normal",
	"$bumpmap2":             "normal2",
	"$envmap":               "cubemap",
	"$envmapmask":           "specular",
	"$detail":               "detail",
	"$lightmap":             "lightmap",
	"$lightwarptexture":     "light_warp",
	"$phongexponenttexture": "phong_exponent",
	"$specmap_texture":      "specular_pbr",
	"$texture2":             "multiply",
	"%tooltexture":          "editor",
}

// VMTNode is one block of a Valve key-values document.
type VMTNode struct {
	Name       string
	Parameters map[string]string
	Children   []*VMTNode
}

// VMT is a parsed Valve material.
type VMT struct {
	Material
	Root *VMTNode
}

// vmtFields splits a line into words, honoring single and double quotes.
func vmtFields(line string) []string {
	var out []string
	var word strings.Builder
	var quote byte
	inWord := false
	flush := func() {
		if inWord {
			out = append(out, word.String())
			word.Reset()
			inWord = false
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				out = append(out, word.String())
				word.Reset()
				inWord = false
				quote = 0
			} else {
				word.WriteByte(c)
			}
		case c == '"' || c == '\'':
			flush()
			quote = c
			inWord = true
		case c == ' ' || c == '\t':
			flush()
		default:
			word.WriteByte(c)
			inWord = true
		}
	}
	flush()
	return out
}

// parseVMTNode consumes lines until the node closes, recursing into child
// blocks. Returns the node and the number of lines consumed.
func parseVMTNode(lines []string, name string) (*VMTNode, int, error) {
	node := &VMTNode{Name: name, Parameters: map[string]string{}}
	pending := ""
	i := 0
	for i < len(lines) {
		line := lines[i]
		if cut := strings.Index(line, "//"); cut >= 0 {
			line = line[:cut]
		}
		line = strings.TrimSpace(line)
		i++
		switch line {
		case "":
			continue
		case "{":
			if node.Name == "" && pending != "" && len(node.Parameters) == 0 && len(node.Children) == 0 {
				node.Name = pending
				pending = ""
				continue
			}
			child, consumed, err := parseVMTNode(lines[i:], pending)
			if err != nil {
				return nil, 0, err
			}
			node.Children = append(node.Children, child)
			pending = ""
			i += consumed
		case "}":
			return node, i, nil
		default:
			words := vmtFields(line)
			switch len(words) {
			case 1:
				pending = words[0]
			case 2:
				node.Parameters[strings.ToLower(words[0])] = words[1]
			default:
				return nil, 0, fmt.Errorf("%w: vmt: %q", ErrMaterialSyntax, line)
			}
		}
	}
	return node, i, nil
}

// ParseVMT decodes a Valve material: a single root block naming the
// shader, holding parameters and optional child blocks (proxies, fallback
// shaders). Well-known texture parameters are exposed as roles.
func ParseVMT(data []byte) (*VMT, error) {
	lines := strings.Split(string(data), "\n")
	root, _, err := parseVMTNode(lines, "")
	if err != nil {
		return nil, err
	}
	// a VMT document is one top-level block; unwrap it
	if root.Name == "" && len(root.Parameters) == 0 && len(root.Children) == 1 {
		root = root.Children[0]
	}
	if root.Name == "" {
		return nil, fmt.Errorf("%w: vmt: no shader block", ErrMaterialSyntax)
	}

	out := &VMT{Root: root}
	out.Shader = root.Name
	out.Textures = map[string]string{}
	for parameter, role := range vmtTextureRoles {
		if path, found := root.Parameters[parameter]; found {
			out.Textures[role] = strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
		}
	}
	out.Transparent = root.Parameters["$translucent"] == "1" || root.Parameters["$alphatest"] == "1"
	return out, nil
}
