package bite

import (
	"errors"
	"testing"
)

func TestParseMatlKnownSlots(t *testing.T) {
	doc := `{
		"$shaderSet": "uber_static",
		"$textures": {
			"0": "texture/models/weapons/r101/r101_col",
			"1": "texture/models/weapons/r101/r101_nml",
			"2": "texture/models/weapons/r101/r101_gls",
			"11": "texture/models/weapons/r101/r101_ao"
		}
	}`
	matl, err := ParseMatl([]byte(doc))
	if err != nil {
		t.Fatalf("ParseMatl: %v", err)
	}
	if matl.Shader != "uber_static" {
		t.Fatalf("Shader: %q", matl.Shader)
	}
	if len(matl.Slots) != 4 {
		t.Fatalf("Slots: %d", len(matl.Slots))
	}
	if matl.Slots[MatlSlotAlbedo] != "texture/models/weapons/r101/r101_col" {
		t.Fatalf("albedo slot: %q", matl.Slots[MatlSlotAlbedo])
	}
	if matl.Textures["normal"] != "texture/models/weapons/r101/r101_nml" {
		t.Fatalf("normal role: %q", matl.Textures["normal"])
	}
	if matl.Textures["ambient_occlusion"] != "texture/models/weapons/r101/r101_ao" {
		t.Fatalf("ambient_occlusion role: %q", matl.Textures["ambient_occlusion"])
	}
}

func TestParseMatlTextureTypes(t *testing.T) {
	doc := `{
		"$shaderSet": "uber_skinned",
		"$textures": {
			"0": "texture/pilot_col",
			"30": "texture/pilot_custom"
		},
		"$textureTypes": {
			"30": "camo_mask"
		}
	}`
	matl, err := ParseMatl([]byte(doc))
	if err != nil {
		t.Fatalf("ParseMatl: %v", err)
	}
	// unknown slot named by the file's own label
	if matl.Textures["camo_mask"] != "texture/pilot_custom" {
		t.Fatalf("camo_mask role: %q", matl.Textures["camo_mask"])
	}
	if matl.Slots[MatlSlot(30)] != "texture/pilot_custom" {
		t.Fatalf("slot 30: %q", matl.Slots[MatlSlot(30)])
	}
}

func TestParseMatlUnknownSlotFallbackName(t *testing.T) {
	doc := `{"$shaderSet": "s", "$textures": {"40": "texture/x"}}`
	matl, err := ParseMatl([]byte(doc))
	if err != nil {
		t.Fatalf("ParseMatl: %v", err)
	}
	if matl.Textures["slot_40"] != "texture/x" {
		t.Fatalf("slot_40 role: %q", matl.Textures["slot_40"])
	}
}

func TestParseMatlErrors(t *testing.T) {
	if _, err := ParseMatl([]byte("{not json")); !errors.Is(err, ErrMaterialSyntax) {
		t.Fatalf("malformed JSON: %v", err)
	}
	doc := `{"$shaderSet": "s", "$textures": {"albedo": "texture/x"}}`
	if _, err := ParseMatl([]byte(doc)); !errors.Is(err, ErrMaterialSyntax) {
		t.Fatalf("non-numeric slot key: %v", err)
	}
}

func TestMatlSlotString(t *testing.T) {
	if MatlSlotGloss.String() != "gloss" {
		t.Fatalf("gloss: %q", MatlSlotGloss)
	}
	if MatlSlot(40).String() != "slot_40" {
		t.Fatalf("unknown slot: %q", MatlSlot(40))
	}
}
