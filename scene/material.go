package scene

import "skyline/core"

// Material describes the Cook-Torrance parameters of a surface.
type Material struct {
	Name      string
	Albedo    core.Color
	Metallic  float32 // 0 = dielectric, 1 = fully metallic
	Roughness float32 // 0 = perfectly smooth, 1 = fully rough

	// Facade, if set, modulates albedo, roughness and metallic per band.
	// Upload via opengl.UploadTexture before rendering.
	Facade *Texture
}

// NewPBRMaterial creates a PBR material with the given albedo, metallic, and roughness.
func NewPBRMaterial(name string, albedo core.Color, metallic, roughness float32) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Metallic:  metallic,
		Roughness: roughness,
	}
}
