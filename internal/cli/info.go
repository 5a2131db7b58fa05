package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"oxrsession/internal/config"
	"oxrsession/internal/session"
)

// runInfo brings the runtime up to graphics confirmation, prints what it
// reports and tears down again. No session is created.
func runInfo(cfg config.Config, log zerolog.Logger, out io.Writer) error {
	b, err := newBackend(cfg)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	scfg, err := sessionConfig(cfg, b, reg, log)
	if err != nil {
		return err
	}
	m := session.NewWithConfig(scfg)
	defer m.Close()

	for _, step := range []func() error{m.InitializeLoader, m.CreateInstance, m.GetSystem} {
		if err := step(); err != nil {
			return err
		}
	}
	gerr := m.ConfirmGraphics()

	st := m.Status()
	req := m.GraphicsRequirements()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "backend:\t%s\n", b.name)
	fmt.Fprintf(tw, "runtime:\t%s %s\n", st.Runtime, st.RuntimeVersion)
	fmt.Fprintf(tw, "system:\t%s\n", st.System)
	fmt.Fprintf(tw, "extensions:\t%s\n", strings.Join(st.Extensions, ", "))
	fmt.Fprintf(tw, "gles:\t%s (runtime accepts %s .. %s)\n", st.GraphicsVersion,
		req.MinAPIVersionSupported, req.MaxAPIVersionSupported)
	for i, v := range m.ViewConfiguration() {
		fmt.Fprintf(tw, "view %d:\t%dx%d recommended, %dx%d max, samples %d/%d\n", i,
			v.RecommendedImageRectWidth, v.RecommendedImageRectHeight,
			v.MaxImageRectWidth, v.MaxImageRectHeight,
			v.RecommendedSwapchainSampleCount, v.MaxSwapchainSampleCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return gerr
}
