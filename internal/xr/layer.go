package xr

// CompositionLayer is one layer submitted with EndFrame. Layers are
// composited in slice order, back to front.
type CompositionLayer interface {
	layerType() string
}

// LayerTypeName returns a stable short name for l.
func LayerTypeName(l CompositionLayer) string {
	return l.layerType()
}

// CompositionLayerProjectionView is one eye's contribution to a projection layer.
type CompositionLayerProjectionView struct {
	Pose     Pose
	Fov      Fovf
	SubImage SwapchainSubImage
}

// CompositionLayerProjection is the stereo projection layer.
type CompositionLayerProjection struct {
	Flags CompositionLayerFlags
	Space Space
	Views []CompositionLayerProjectionView
}

// CompositionLayerPassthrough submits a passthrough reconstruction layer.
type CompositionLayerPassthrough struct {
	Flags CompositionLayerFlags
	Layer PassthroughLayer
}

func (*CompositionLayerProjection) layerType() string  { return "projection" }
func (*CompositionLayerPassthrough) layerType() string { return "passthrough" }

// FrameEndInfo is passed to EndFrame.
type FrameEndInfo struct {
	DisplayTime          Time
	EnvironmentBlendMode EnvironmentBlendMode
	Layers               []CompositionLayer
}
