// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

func (l Log) logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetLevel(level)

	switch l.Format {
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", l.Format)
	}

	return log, nil
}

// NewLogger builds a logger writing to out with the configured level and
// format.
func (l Log) NewLogger(out io.Writer) (*logrus.Logger, error) {
	log, err := l.logger()
	if err != nil {
		return nil, fmt.Errorf("%w: log: %w", ErrInvalid, err)
	}
	log.SetOutput(out)
	return log, nil
}
