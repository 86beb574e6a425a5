//go:build !darwin

package hook

type unsupportedTap struct{}

// NewTap returns the platform tap. Outside macOS it always fails to install.
func NewTap() Tap {
	return unsupportedTap{}
}

func (unsupportedTap) Install(Handler, func()) error { return ErrUnsupported }
func (unsupportedTap) Enabled() bool                 { return false }
func (unsupportedTap) Enable()                       {}
func (unsupportedTap) Remove()                       {}
