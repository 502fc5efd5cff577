package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// GoRegular returns the bundled Go Regular font.
func GoRegular() (*TrueType, error) {
	return LoadTrueType("GoRegular", goregular.TTF)
}

// GoBold returns the bundled Go Bold font.
func GoBold() (*TrueType, error) {
	return LoadTrueType("GoBold", gobold.TTF)
}
