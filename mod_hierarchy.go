package pivot

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate),
	)
}

// TransformHierarchySystem recomputes every world matrix, parents first.
// The scene validated its links at load, so a failure here means a parent
// name was changed at runtime; the frame keeps the previous matrices for
// objects not yet reached.
func TransformHierarchySystem(state *SceneState, log Logger) {
	if err := state.Scene.Resolve(); err != nil {
		log.Errorf("resolve world matrices: %v", err)
	}
}
