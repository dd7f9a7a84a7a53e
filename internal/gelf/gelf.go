package gelf

import (
	"encoding/json"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Hook sends every logrus entry as one GELF message over UDP.
type Hook struct {
	conn     net.Conn
	hostname string
	service  string
	levels   []logrus.Level
}

// New creates a GELF UDP hook connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Hook, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}

	return &Hook{conn: conn, hostname: hostname, service: service, levels: logrus.AllLevels}, nil
}

func (h *Hook) Levels() []logrus.Level {
	return h.levels
}

// Fire is fire-and-forget: a failed send never fails the log call.
func (h *Hook) Fire(e *logrus.Entry) error {
	payload, err := json.Marshal(Message(h.hostname, h.service, e))
	if err != nil {
		return nil
	}
	h.conn.Write(payload)
	return nil
}

func (h *Hook) Close() error {
	return h.conn.Close()
}

// Message builds the GELF 1.1 document for an entry. Entry fields become
// additional "_" fields.
func Message(host, service string, e *logrus.Entry) map[string]any {
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := map[string]any{
		"version":       "1.1",
		"host":          host,
		"short_message": e.Message,
		"timestamp":     float64(ts.UnixNano()) / 1e9,
		"level":         syslogLevel(e.Level),
		"_service":      service,
	}
	for k, v := range e.Data {
		if k == "id" {
			k = "field_id" // "_id" is reserved by GELF
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		msg["_"+k] = v
	}
	return msg
}

func syslogLevel(l logrus.Level) int {
	switch l {
	case logrus.PanicLevel:
		return 0
	case logrus.FatalLevel:
		return 2
	case logrus.ErrorLevel:
		return 3
	case logrus.WarnLevel:
		return 4
	case logrus.InfoLevel:
		return 6
	default:
		return 7
	}
}
