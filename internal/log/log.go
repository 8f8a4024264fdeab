package log

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logger = newLogger(os.Stdout)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "action",
		},
	})
	return l
}

// SetOutput redirects every entry, e.g. to stdout plus a log file.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

// Writer returns the current sink so callers can restore it.
func Writer() io.Writer { return logger.Out }

func entry(c *fiber.Ctx, err error, fields map[string]any) *logrus.Entry {
	e := logrus.NewEntry(logger)
	if c != nil {
		e = e.WithFields(logrus.Fields{
			"ip":     c.IP(),
			"method": c.Method(),
			"path":   c.Path(),
			"status": c.Response().StatusCode(),
		})
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.WithField("req_id", rid)
		}
	}
	if err != nil {
		e = e.WithField("err", err.Error())
	}
	if len(fields) > 0 {
		e = e.WithField("fields", fields)
	}
	return e
}

// c may be nil for work that is not tied to a request.
func Info(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, nil, fields).Info(action)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, nil, fields).WithField("audit", true).Info(action)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, nil, fields).Warn(action)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	entry(c, err, fields).Error(action)
}
