package simrt

import "oxrsession/internal/xr"

// colorFormatSRGBA8 is GL_SRGB8_ALPHA8.
const colorFormatSRGBA8 int64 = 0x8C43

type swapchain struct {
	session xr.Session
	info    xr.SwapchainCreateInfo
	images  []uint32
	next    int

	// index of the acquired image, -1 when none is outstanding
	acquired int
	waited   bool

	acquires int
	releases int
}

func (r *Runtime) CreateSwapchain(h xr.Session, info xr.SwapchainCreateInfo) (xr.Swapchain, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.liveSession(h); res.Failed() {
		return 0, res
	}
	if info.Format != xr.ColorFormatRGBA8 && info.Format != colorFormatSRGBA8 {
		return 0, xr.ErrorSwapchainFormatUnsupported
	}
	if info.Width == 0 || info.Height == 0 || info.FaceCount != 1 || info.ArraySize == 0 || info.MipCount == 0 {
		return 0, xr.ErrorValidationFailure
	}
	sc := &swapchain{session: h, info: info, acquired: -1}
	for i := 0; i < r.opts.ImageCount; i++ {
		sc.images = append(sc.images, r.nextTexture)
		r.nextTexture++
	}
	handle := xr.Swapchain(r.handle())
	r.swapchains[handle] = sc
	return handle, xr.Success
}

func (r *Runtime) DestroySwapchain(h xr.Swapchain) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.swapchains[h]
	if !ok {
		return xr.ErrorHandleInvalid
	}
	if sc.acquired >= 0 {
		r.violate("swapchain destroyed with an acquired image")
	}
	delete(r.swapchains, h)
	return xr.Success
}

func (r *Runtime) EnumerateSwapchainImages(h xr.Swapchain) ([]xr.SwapchainImage, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.swapchains[h]
	if !ok {
		return nil, xr.ErrorHandleInvalid
	}
	out := make([]xr.SwapchainImage, len(sc.images))
	for i, img := range sc.images {
		out[i] = xr.SwapchainImage{Image: img}
	}
	return out, xr.Success
}

func (r *Runtime) AcquireSwapchainImage(h xr.Swapchain) (uint32, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.swapchains[h]
	if !ok {
		return 0, xr.ErrorHandleInvalid
	}
	if sc.acquired >= 0 {
		r.stats.DoubleAcquires++
		r.violate("acquire with an image already outstanding")
		return 0, xr.ErrorCallOrderInvalid
	}
	idx := sc.next
	sc.next = (sc.next + 1) % len(sc.images)
	sc.acquired = idx
	sc.waited = false
	sc.acquires++
	r.stats.Acquires++

	outstanding := 0
	for _, other := range r.swapchains {
		if other.acquired >= 0 {
			outstanding++
		}
	}
	if outstanding > r.stats.MaxOutstanding {
		r.stats.MaxOutstanding = outstanding
	}
	return uint32(idx), xr.Success
}

func (r *Runtime) WaitSwapchainImage(h xr.Swapchain, timeout xr.Duration) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.swapchains[h]
	if !ok {
		return xr.ErrorHandleInvalid
	}
	if sc.acquired < 0 {
		r.violate("wait without an acquired image")
		return xr.ErrorCallOrderInvalid
	}
	if sc.waited {
		return xr.Success
	}
	if r.stalledWaits > 0 && timeout != xr.InfiniteDuration {
		r.stalledWaits--
		r.stats.ImageWaitTimeouts++
		return xr.TimeoutExpired
	}
	sc.waited = true
	return xr.Success
}

func (r *Runtime) ReleaseSwapchainImage(h xr.Swapchain) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.swapchains[h]
	if !ok {
		return xr.ErrorHandleInvalid
	}
	if sc.acquired < 0 {
		r.violate("release without an acquired image")
		return xr.ErrorCallOrderInvalid
	}
	if !sc.waited {
		r.violate("release before wait")
		return xr.ErrorCallOrderInvalid
	}
	sc.acquired = -1
	sc.waited = false
	sc.releases++
	r.stats.Releases++
	return xr.Success
}

// StallImageWaits makes the next n bounded image waits expire.
func (r *Runtime) StallImageWaits(n int) {
	r.mu.Lock()
	r.stalledWaits = n
	r.mu.Unlock()
}

// SwapchainCounts returns the acquire and release counts of one swapchain.
func (r *Runtime) SwapchainCounts(h xr.Swapchain) (acquires, releases int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sc, ok := r.swapchains[h]; ok {
		return sc.acquires, sc.releases
	}
	return 0, 0
}
