package bite

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MatlSlot indexes a texture role in a Matl material descriptor.
type MatlSlot int

const (
	MatlSlotAlbedo           MatlSlot = 0
	MatlSlotNormal           MatlSlot = 1
	MatlSlotGloss            MatlSlot = 2
	MatlSlotSpecular         MatlSlot = 3
	MatlSlotIllumination     MatlSlot = 4
	MatlSlotAmbientOcclusion MatlSlot = 11
	MatlSlotCavity           MatlSlot = 12
	MatlSlotOpacity          MatlSlot = 13
	MatlSlotDetailAlbedo     MatlSlot = 14
	MatlSlotDetailNormal     MatlSlot = 15
	MatlSlotUVDistortion     MatlSlot = 18
	MatlSlotUVDistortion2    MatlSlot = 19
	MatlSlotBlend            MatlSlot = 22
	MatlSlotAlbedo2          MatlSlot = 23
	MatlSlotNormal2          MatlSlot = 24
	MatlSlotGloss2           MatlSlot = 25
	MatlSlotSpecular2        MatlSlot = 26
)

func (s MatlSlot) String() string {
	switch s {
	case MatlSlotAlbedo:
		return "albedo"
	case MatlSlotNormal:
		return "normal"
	case MatlSlotGloss:
		return "gloss"
	case MatlSlotSpecular:
		return "specular"
	case MatlSlotIllumination:
		return "illumination"
	case MatlSlotAmbientOcclusion:
		return "ambient_occlusion"
	case MatlSlotCavity:
		return "cavity"
	case MatlSlotOpacity:
		return "opacity"
	case MatlSlotDetailAlbedo:
		return "detail_albedo"
	case MatlSlotDetailNormal:
		return "detail_normal"
	case MatlSlotUVDistortion:
		return "uv_distortion"
	case MatlSlotUVDistortion2:
		return "uv_distortion_2"
	case MatlSlotBlend:
		return "blend"
	case MatlSlotAlbedo2:
		return "albedo_2"
	case MatlSlotNormal2:
		return "normal_2"
	case MatlSlotGloss2:
		return "gloss_2"
	case MatlSlotSpecular2:
		return "specular_2"
	}
	return fmt.Sprintf("slot_%d", int(s))
}

// Matl is a parsed JSON material descriptor. Slots holds the raw slot
// index to asset path (or GUID) mapping; Material.Textures names the same
// entries by role, preferring the file's own $textureTypes labels for
// slots outside the known set.
type Matl struct {
	Material
	Slots map[MatlSlot]string
}

var matlSlotNames = map[MatlSlot]bool{
	MatlSlotAlbedo: true, MatlSlotNormal: true, MatlSlotGloss: true,
	MatlSlotSpecular: true, MatlSlotIllumination: true,
	MatlSlotAmbientOcclusion: true, MatlSlotCavity: true,
	MatlSlotOpacity: true, MatlSlotDetailAlbedo: true,
	MatlSlotDetailNormal: true, MatlSlotUVDistortion: true,
	MatlSlotUVDistortion2: true, MatlSlotBlend: true,
	MatlSlotAlbedo2: true, MatlSlotNormal2: true,
	MatlSlotGloss2: true, MatlSlotSpecular2: true,
}

// ParseMatl decodes a JSON material descriptor.
func ParseMatl(data []byte) (*Matl, error) {
	var doc struct {
		ShaderSet    string            `json:"$shaderSet"`
		Textures     map[string]string `json:"$textures"`
		TextureTypes map[string]string `json:"$textureTypes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: matl: %v", ErrMaterialSyntax, err)
	}

	out := &Matl{Slots: map[MatlSlot]string{}}
	out.Shader = doc.ShaderSet
	out.Textures = map[string]string{}
	for key, assetPath := range doc.Textures {
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("%w: matl: texture slot %q", ErrMaterialSyntax, key)
		}
		slot := MatlSlot(index)
		out.Slots[slot] = assetPath
		role := slot.String()
		if !matlSlotNames[slot] {
			if name, found := doc.TextureTypes[key]; found {
				role = name
			}
		}
		out.Textures[role] = assetPath
	}
	return out, nil
}
