// SPDX-License-Identifier: EPL-2.0

package acoustics

import (
	"github.com/sirupsen/logrus"
)

// ContextSettings configures a Context.
type ContextSettings struct {
	// Validation makes every effect check its output for NaN and Inf and
	// fail with ErrNonFinite instead of passing them on.
	Validation bool
	// Logger receives construction and failure logs. Nil uses the logrus
	// standard logger.
	Logger *logrus.Entry
}

// Context is the root object every HRTF, simulator and effect is created
// from. It is immutable after NewContext and safe for concurrent use.
type Context struct {
	validation bool
	log        *logrus.Entry
}

func NewContext(settings ContextSettings) (*Context, error) {
	log := settings.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "acoustics")

	log.WithFields(logrus.Fields{
		"function":   "NewContext",
		"validation": settings.Validation,
	}).Debug("acoustics context created")

	return &Context{
		validation: settings.Validation,
		log:        log,
	}, nil
}

func (c *Context) Validation() bool { return c.validation }

// Logger returns the context's log entry.
func (c *Context) Logger() *logrus.Entry { return c.log }
