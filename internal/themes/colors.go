package themes

import (
	"fmt"
	"math"
	"strconv"
)

// Gradient factors applied to the base container color.
const (
	backgroundShadeFactor = 0.3
	linkTintFactor        = 0.9
	textShadeFactor       = 0.8
	gradientShadeFactor   = 0.05
	gradientTintFactor    = 0.01
)

// Palette holds the CSS colors derived from the base container color.
type Palette struct {
	ContainerGradient  string `json:"container_gradient"`
	BackgroundGradient string `json:"background_gradient"`
	TextColor          string `json:"text_color"`
	LinkColor          string `json:"link_color"`
	LinkTextColor      string `json:"link_text_color"`
}

// DerivePalette computes the page palette from a base #RRGGBB color.
func DerivePalette(baseColor string) Palette {
	containerShade := CreateShade(baseColor, gradientShadeFactor)
	containerTint := CreateTint(baseColor, gradientTintFactor)

	backgroundBase := CreateShade(baseColor, backgroundShadeFactor)
	backgroundShade := CreateShade(backgroundBase, gradientShadeFactor)
	backgroundTint := CreateTint(backgroundBase, gradientTintFactor)

	textColor := CreateShade(baseColor, textShadeFactor)

	return Palette{
		ContainerGradient:  fmt.Sprintf("linear-gradient(to bottom, %s, %s, %s)", containerShade, baseColor, containerTint),
		BackgroundGradient: fmt.Sprintf("linear-gradient(to bottom, %s, %s, %s)", backgroundShade, backgroundBase, backgroundTint),
		TextColor:          textColor,
		LinkColor:          CreateTint(baseColor, linkTintFactor),
		LinkTextColor:      textColor,
	}
}

// ContrastingTextColor returns black or white for a given background color
// using the YIQ brightness formula over sRGB components.
func ContrastingTextColor(hexColor string) string {
	r, g, b, ok := parseHex(hexColor)
	if !ok {
		return "#000000"
	}
	yiq := (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
	if yiq >= 128 {
		return "#000000"
	}
	return "#ffffff"
}

// CreateShade darkens a color by the given factor (0 none, 1 black). The
// scaling happens in linear RGB so perceived steps stay even.
func CreateShade(hexColor string, factor float64) string {
	linear, ok := hexToLinear(hexColor)
	if !ok {
		return "#000000"
	}
	for i := range linear {
		linear[i] *= 1 - factor
	}
	return linearToHex(linear)
}

// CreateTint brightens a color by the given factor (0 none, 1 white).
func CreateTint(hexColor string, factor float64) string {
	linear, ok := hexToLinear(hexColor)
	if !ok {
		return "#ffffff"
	}
	for i := range linear {
		linear[i] += (1 - linear[i]) * factor
	}
	return linearToHex(linear)
}

func srgbToLinear(srgb int64) float64 {
	return math.Pow(float64(srgb)/255, 2.2)
}

func linearToSrgb(linear float64) int64 {
	return int64(math.Round(math.Pow(linear, 1/2.2) * 255))
}

func parseHex(hexColor string) (r, g, b int64, ok bool) {
	if len(hexColor) != 7 || hexColor[0] != '#' {
		return 0, 0, 0, false
	}
	var err error
	if r, err = strconv.ParseInt(hexColor[1:3], 16, 0); err != nil {
		return 0, 0, 0, false
	}
	if g, err = strconv.ParseInt(hexColor[3:5], 16, 0); err != nil {
		return 0, 0, 0, false
	}
	if b, err = strconv.ParseInt(hexColor[5:7], 16, 0); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

func hexToLinear(hexColor string) ([3]float64, bool) {
	r, g, b, ok := parseHex(hexColor)
	if !ok {
		return [3]float64{}, false
	}
	return [3]float64{srgbToLinear(r), srgbToLinear(g), srgbToLinear(b)}, true
}

func linearToHex(linear [3]float64) string {
	return fmt.Sprintf("#%02x%02x%02x",
		clampByte(linearToSrgb(linear[0])),
		clampByte(linearToSrgb(linear[1])),
		clampByte(linearToSrgb(linear[2])))
}

func clampByte(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
