// Package inspector draws a debug panel listing the fields of tagged structs.
// Fields are discovered by reflection and rendered according to their
// `inspect` struct tag.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel dimensions
const (
	PanelWidth    = 320
	PanelPadding  = 10
	HeaderHeight  = 30
	SectionHeight = 24
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Section is a titled group of fields taken from one struct value.
type Section struct {
	Title string
	Value any
}

// Inspector is a toggleable panel anchored to the top-right corner.
type Inspector struct {
	title        string
	visible      bool
	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a hidden panel for a screen of the given size.
func NewInspector(title string, screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{title: title, panelY: 10}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	if ins.panelX < 0 {
		ins.panelX = 0
	}
}

// Toggle flips visibility and returns the new state.
func (ins *Inspector) Toggle() bool {
	ins.visible = !ins.visible
	return ins.visible
}

// Visible reports whether the panel is shown.
func (ins *Inspector) Visible() bool { return ins.visible }

// Bounds returns the panel rectangle for the given sections.
func (ins *Inspector) Bounds(sections []Section) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(ins.panelX),
		Y:      float32(ins.panelY),
		Width:  PanelWidth,
		Height: float32(PanelHeight(sections)),
	}
}

// PanelHeight computes the height needed to draw sections.
func PanelHeight(sections []Section) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		h += SectionHeight
		for _, f := range ExtractFields(s.Value) {
			h += RowHeight(f)
		}
		h += 4
	}
	return h + PanelPadding
}

// Draw renders the panel if visible and returns the y coordinate below it,
// where callers may place extra controls.
func (ins *Inspector) Draw(sections ...Section) int32 {
	if !ins.visible {
		return ins.panelY
	}
	b := ins.Bounds(sections)
	rl.DrawRectangleRec(b, ColorPanelBg)
	rl.DrawRectangleLinesEx(b, 1, ColorPanelBorder)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(ins.title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, s := range sections {
		ins.drawSectionHeader(x, y, s.Title)
		y += SectionHeight
		for _, f := range ExtractFields(s.Value) {
			y += DrawField(x, y, f)
		}
		y += 4
	}
	return ins.panelY + int32(b.Height)
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}
