package session

import (
	"time"

	"github.com/rs/zerolog"

	"oxrsession/internal/gfx"
	"oxrsession/internal/xr"
)

// ViewSurface is one view's swapchain plus a render target per runtime-owned
// image. At most one image is outstanding at a time.
type ViewSurface struct {
	rt    xr.Runtime
	alloc gfx.Allocator
	chk   *checker

	view      int
	swapchain xr.Swapchain
	width     int32
	height    int32
	images    []xr.SwapchainImage
	targets   []gfx.RenderTarget

	// pending is set between a successful acquire and a successful wait; a
	// timed-out wait leaves it set so the next Acquire resumes the wait.
	pending bool
	held    bool
	index   uint32
}

// createViewSurfaces creates a swapchain per view configuration entry and
// wraps every image in a render target. An incomplete framebuffer is fatal.
// Surfaces created before a failure are returned for teardown.
func createViewSurfaces(rt xr.Runtime, alloc gfx.Allocator, chk *checker, log zerolog.Logger, s xr.Session, views []xr.ViewConfigurationView, format int64) ([]*ViewSurface, error) {
	surfaces := make([]*ViewSurface, 0, len(views))
	for i, v := range views {
		info := xr.SwapchainCreateInfo{
			UsageFlags:  xr.SwapchainUsageSampled | xr.SwapchainUsageColorAttachment,
			Format:      format,
			SampleCount: 1,
			Width:       v.RecommendedImageRectWidth,
			Height:      v.RecommendedImageRectHeight,
			FaceCount:   1,
			ArraySize:   1,
			MipCount:    1,
		}
		sc, res := rt.CreateSwapchain(s, info)
		if err := chk.check(res, "xrCreateSwapchain"); err != nil {
			return surfaces, ErrFatalSetup("create swapchain", err)
		}
		vs := &ViewSurface{
			rt:        rt,
			alloc:     alloc,
			chk:       chk,
			view:      i,
			swapchain: sc,
			width:     int32(info.Width),
			height:    int32(info.Height),
		}
		surfaces = append(surfaces, vs)

		images, res := rt.EnumerateSwapchainImages(sc)
		if err := chk.check(res, "xrEnumerateSwapchainImages"); err != nil {
			return surfaces, ErrFatalSetup("enumerate swapchain images", err)
		}
		vs.images = images
		for j, img := range images {
			target, err := alloc.NewRenderTarget(img.Image, vs.width, vs.height)
			if err != nil {
				log.Error().Err(err).Int("view", i).Int("image", j).Msg("render target allocation failed")
				return surfaces, ErrFatalSetup("create render target", err)
			}
			vs.targets = append(vs.targets, target)
			log.Info().
				Int("view", i).
				Int("image", j).
				Uint32("fbo", target.Framebuffer).
				Uint32("color", target.ColorTexture).
				Uint32("depth", target.DepthBuffer).
				Int32("width", target.Width).
				Int32("height", target.Height).
				Msg("render target")
		}
	}
	return surfaces, nil
}

// Acquire obtains the next image and blocks until it is writable, at most
// timeout (zero waits forever). On timeout the acquisition stays pending and
// the next call resumes the wait instead of acquiring again.
func (v *ViewSurface) Acquire(timeout time.Duration) (gfx.RenderTarget, xr.SwapchainSubImage, error) {
	if !v.pending {
		idx, res := v.rt.AcquireSwapchainImage(v.swapchain)
		if err := v.chk.check(res, "xrAcquireSwapchainImage"); err != nil {
			return gfx.RenderTarget{}, xr.SwapchainSubImage{}, err
		}
		v.index = idx
		v.pending = true
	}

	start := time.Now()
	res := v.rt.WaitSwapchainImage(v.swapchain, xr.DurationOf(timeout))
	imageWaitSeconds.Observe(time.Since(start).Seconds())
	if res == xr.TimeoutExpired {
		return gfx.RenderTarget{}, xr.SwapchainSubImage{}, imageWaitTimeoutError{view: v.view}
	}
	if err := v.chk.check(res, "xrWaitSwapchainImage"); err != nil {
		return gfx.RenderTarget{}, xr.SwapchainSubImage{}, err
	}
	v.pending = false
	v.held = true

	if int(v.index) >= len(v.targets) {
		v.Release()
		return gfx.RenderTarget{}, xr.SwapchainSubImage{}, xr.ErrorIndexOutOfRange.Err("xrAcquireSwapchainImage")
	}
	target := v.targets[v.index]
	return target, xr.SwapchainSubImage{
		Swapchain: v.swapchain,
		ImageRect: target.Viewport(),
	}, nil
}

// Release hands the current image back to the runtime once drawing has been
// recorded. Call exactly once per successful Acquire.
func (v *ViewSurface) Release() {
	v.held = false
	_ = v.chk.check(v.rt.ReleaseSwapchainImage(v.swapchain), "xrReleaseSwapchainImage")
}

// Outstanding is 1 while an image is acquired and not yet released.
func (v *ViewSurface) Outstanding() int {
	if v.pending || v.held {
		return 1
	}
	return 0
}

func (v *ViewSurface) Swapchain() xr.Swapchain { return v.swapchain }

func (v *ViewSurface) ImageCount() int { return len(v.images) }

// Size returns the swapchain image extent.
func (v *ViewSurface) Size() (width, height int32) { return v.width, v.height }

// Destroy frees the owned render targets and the swapchain.
func (v *ViewSurface) Destroy() {
	for _, t := range v.targets {
		v.alloc.DeleteRenderTarget(t)
	}
	v.targets = nil
	if v.swapchain != 0 {
		_ = v.chk.check(v.rt.DestroySwapchain(v.swapchain), "xrDestroySwapchain")
		v.swapchain = 0
	}
}
