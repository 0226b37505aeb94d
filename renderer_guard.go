package pivot

import (
	"fmt"
)

// RendererTag marks that a renderer has been installed into the App.
type RendererTag struct {
	Name string
}

// ensureSingleRenderer panics when any renderer is already installed,
// whether under a different name or the same one.
func ensureSingleRenderer(app *App, name string) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag, ok := Resource[RendererTag](app); ok {
		if tag.Name != name {
			app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
		}
		panic(fmt.Sprintf("Renderer %s installed twice", name))
	}
	app.addResources(&RendererTag{Name: name})
}
