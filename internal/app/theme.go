package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ViewerTheme darkens the defaults so photos read well against the backdrop.
type ViewerTheme struct{}

var _ fyne.Theme = (*ViewerTheme)(nil)

// BackdropColor is the full-opacity colour behind zoomable content.
var BackdropColor = color.NRGBA{R: 0x10, G: 0x10, B: 0x12, A: 0xFF}

func (t *ViewerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return BackdropColor
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x42, G: 0xA5, B: 0xF5, A: 0xFF}
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *ViewerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ViewerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ViewerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 0 // Content never scrolls; the zoom view pans instead
	default:
		return theme.DefaultTheme().Size(name)
	}
}
