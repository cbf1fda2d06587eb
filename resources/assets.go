package resources

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"sync"

	"fyne.io/fyne/v2"
)

const iconDir = "icon/"

//go:embed icon/*.png
var iconFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	path := iconDir + fileName
	if cached, ok := iconCache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := iconFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(fileName, data)
	iconCache.Store(path, resource)
	return resource, nil
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// AppIcon is the window and tray icon.
func AppIcon() fyne.Resource {
	return MustIcon("beamer.png")
}

// DecodeIcon decodes an embedded icon, for use as a stand-in logo.
func DecodeIcon(fileName string) (image.Image, error) {
	resource, err := Icon(fileName)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(resource.Content()))
	if err != nil {
		return nil, fmt.Errorf("decode resource %s: %w", fileName, err)
	}
	return img, nil
}
