package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Carousel steps through a fixed list of titled items with previous and
// next arrows and a play/stop toggle for the current item.
type Carousel struct {
	widget.BaseWidget

	OnPrevious func()
	OnNext     func()
	OnPreview  func()

	title    *widget.Label
	position *widget.Label
	prev     *widget.Button
	next     *widget.Button
	preview  *widget.Button
}

// NewCarousel creates an empty carousel
func NewCarousel() *Carousel {
	c := &Carousel{
		title:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		position: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
	}
	c.prev = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		if c.OnPrevious != nil {
			c.OnPrevious()
		}
	})
	c.next = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		if c.OnNext != nil {
			c.OnNext()
		}
	})
	c.preview = widget.NewButtonWithIcon("Preview", theme.MediaPlayIcon(), func() {
		if c.OnPreview != nil {
			c.OnPreview()
		}
	})
	c.ExtendBaseWidget(c)
	return c
}

// SetItem shows the item at index of count. playing switches the preview
// button to its stop state.
func (c *Carousel) SetItem(title string, index, count int, playing bool) {
	c.title.SetText(title)
	c.position.SetText(fmt.Sprintf("%d / %d", index+1, count))
	if playing {
		c.preview.SetText("Stop")
		c.preview.SetIcon(theme.MediaStopIcon())
	} else {
		c.preview.SetText("Preview")
		c.preview.SetIcon(theme.MediaPlayIcon())
	}
}

// Title returns the displayed item title.
func (c *Carousel) Title() string {
	return c.title.Text
}

// CreateRenderer implements fyne.Widget
func (c *Carousel) CreateRenderer() fyne.WidgetRenderer {
	center := container.NewVBox(c.title, c.position, container.NewCenter(c.preview))
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, c.prev, c.next, center))
}
