//go:build !darwin

package permissions

type none struct{}

// System returns a Provider that never grants, since no capture backend
// exists on this platform.
func System() Provider { return none{} }

func (none) Granted() bool { return false }

func (none) Request() bool { return false }
