package render

import "strings"

// Options select the materials and lighting applied to a render.
type Options struct {
	Floor    string `json:"floor,omitempty"`
	Walls    string `json:"walls,omitempty"`
	Style    string `json:"style,omitempty"`
	Lighting string `json:"lighting,omitempty"`
}

const basePrompt = "Photorealistic top-down 3D architectural render of this residential floor plan. " +
	"Accurate room layout, furnished interior, realistic materials and soft global illumination. " +
	"Camera directly overhead, orthographic feel, no people, no text overlays."

var lightingDescriptions = map[string]string{
	"morning": "Soft, warm morning light, low angle shadows, inviting atmosphere",
	"noon":    "Bright, neutral daylight, high contrast, clear visibility",
	"sunset":  "Golden hour, dramatic long shadows, warm orange and purple hues",
	"night":   "Artificial interior lighting, dark exterior, cozy and intimate ambiance",
}

// BuildPrompt composes the generation prompt from the selected
// materials and lighting.
func BuildPrompt(opts Options) string {
	parts := []string{basePrompt}
	if opts.Floor != "" {
		parts = append(parts, "Flooring: "+opts.Floor+".")
	}
	if opts.Walls != "" {
		parts = append(parts, "Wall finish: "+opts.Walls+".")
	}
	if opts.Style != "" {
		parts = append(parts, "Furniture style: "+opts.Style+".")
	}
	if desc, ok := lightingDescriptions[strings.ToLower(opts.Lighting)]; ok {
		parts = append(parts, "Lighting: "+desc+".")
	}
	return strings.Join(parts, " ")
}
