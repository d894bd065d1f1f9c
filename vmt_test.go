package bite

import (
	"errors"
	"testing"
)

func TestParseVMTBasic(t *testing.T) {
	doc := `"LightmappedGeneric"
{
	"$basetexture" "Brick\brickwall003a"
	"$bumpmap" "brick/brickwall003a_normal"
	"$surfaceprop" "brick"
}
`
	vmt, err := ParseVMT([]byte(doc))
	if err != nil {
		t.Fatalf("ParseVMT: %v", err)
	}
	if vmt.Shader != "LightmappedGeneric" {
		t.Fatalf("Shader: %q", vmt.Shader)
	}
	if vmt.Transparent {
		t.Fatalf("Transparent: true")
	}
	if vmt.Textures["colour"] != "brick/brickwall003a" {
		t.Fatalf("colour: %q", vmt.Textures["colour"])
	}
	if vmt.Textures["normal"] != "brick/brickwall003a_normal" {
		t.Fatalf("normal: %q", vmt.Textures["normal"])
	}
	if vmt.Root.Parameters["$surfaceprop"] != "brick" {
		t.Fatalf("$surfaceprop: %q", vmt.Root.Parameters["$surfaceprop"])
	}
}

func TestParseVMTUnquotedAndComments(t *testing.T) {
	doc := `// water material
UnlitGeneric
{
	$basetexture dev/dev_water2 // inline comment
	$translucent 1

	Proxies
	{
		AnimatedTexture
		{
			animatedTextureVar $basetexture
		}
	}
}`
	vmt, err := ParseVMT([]byte(doc))
	if err != nil {
		t.Fatalf("ParseVMT: %v", err)
	}
	if vmt.Shader != "UnlitGeneric" {
		t.Fatalf("Shader: %q", vmt.Shader)
	}
	if !vmt.Transparent {
		t.Fatalf("Transparent: false")
	}
	if vmt.Textures["colour"] != "dev/dev_water2" {
		t.Fatalf("colour: %q", vmt.Textures["colour"])
	}
	if len(vmt.Root.Children) != 1 || vmt.Root.Children[0].Name != "Proxies" {
		t.Fatalf("child blocks: %+v", vmt.Root.Children)
	}
	proxies := vmt.Root.Children[0]
	if len(proxies.Children) != 1 || proxies.Children[0].Name != "AnimatedTexture" {
		t.Fatalf("proxy blocks: %+v", proxies.Children)
	}
}

func TestParseVMTAlphaTest(t *testing.T) {
	doc := "VertexLitGeneric\n{\n\t$alphatest 1\n}\n"
	vmt, err := ParseVMT([]byte(doc))
	if err != nil {
		t.Fatalf("ParseVMT: %v", err)
	}
	if !vmt.Transparent {
		t.Fatalf("Transparent: false")
	}
}

func TestParseVMTErrors(t *testing.T) {
	if _, err := ParseVMT([]byte("// nothing but a comment\n")); !errors.Is(err, ErrMaterialSyntax) {
		t.Fatalf("empty document: %v", err)
	}
	if _, err := ParseVMT([]byte("Shader\n{\n$a b c\n}\n")); !errors.Is(err, ErrMaterialSyntax) {
		t.Fatalf("three-word line: %v", err)
	}
}

func TestVMTFields(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{`"$basetexture" "some path/with spaces"`, []string{"$basetexture", "some path/with spaces"}},
		{"$detail	detail/noise", []string{"$detail", "detail/noise"}},
		{`'$envmap' env_cubemap`, []string{"$envmap", "env_cubemap"}},
		{"  lone  ", []string{"lone"}},
	}
	for _, tc := range cases {
		got := vmtFields(tc.line)
		if len(got) != len(tc.want) {
			t.Fatalf("vmtFields(%q): %q", tc.line, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("vmtFields(%q)[%d]: %q, want %q", tc.line, i, got[i], tc.want[i])
			}
		}
	}
}
