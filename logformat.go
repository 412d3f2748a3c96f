package main

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

type logFormatter struct {
	color bool
}

var levelColors = map[logrus.Level]int{
	logrus.PanicLevel: 31,
	logrus.FatalLevel: 31,
	logrus.ErrorLevel: 31,
	logrus.WarnLevel:  33,
	logrus.InfoLevel:  36,
	logrus.DebugLevel: 90,
	logrus.TraceLevel: 90,
}

func (f *logFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteString("[iconfont] ")
	level := strings.ToUpper(entry.Level.String())
	if entry.Level == logrus.WarnLevel {
		level = "WARN"
	}
	if f.color {
		fmt.Fprintf(&buf, "\x1b[%dm%-5s\x1b[0m", levelColors[entry.Level], level)
	} else {
		fmt.Fprintf(&buf, "%-5s", level)
	}
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, entry.Data[k])
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
