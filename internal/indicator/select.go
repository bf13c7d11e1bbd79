package indicator

import (
	"github.com/sirupsen/logrus"
)

// Backend names accepted by Select.
const (
	BackendAuto      = "auto"
	BackendNative    = "native"
	BackendReference = "reference"
)

// Select returns the backend to use for the process. "reference" is taken as
// is; "native" and "auto" probe the native backend and fall back to the
// reference with one informational notice when the probe fails.
func Select(name string, logger *logrus.Logger) Backend {
	if name == BackendReference {
		return ReferenceBackend{}
	}

	native := NativeBackend{}
	if err := Probe(native); err != nil {
		logger.WithFields(logrus.Fields{
			"requested": name,
			"reason":    err.Error(),
		}).Info("native indicator backend not available, using reference implementation")
		return ReferenceBackend{}
	}
	logger.WithField("backend", native.Name()).Debug("indicator backend selected")
	return native
}
