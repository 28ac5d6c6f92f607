package logger

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func Test_Noop(t *testing.T) {
	l := &Noop{}

	l.Debugf("debug")
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error")
}

func Test_StdOut(t *testing.T) {
	var result []string
	l := &stdOut{func(msg string) {
		result = append(result, msg)
	}}

	err := io.ErrClosedPipe

	l.Debugf("%s, %d, %v", "Hello World!", 10, err)
	l.Infof("%s, %d, %v", "Привет Мир!", 20, err)
	l.Warnf("%s, %d, %v", "こんにちは世界!", 30, err)
	l.Errorf("%s, %d, %v", "¡Hola Mundo!", 40, err)
	l.Errorf("empty args")
	l.Errorf("less args: %s", "one", "two")

	assert.Equal(t, 6, len(result))
	assert.Equal(t, "[DEBUG] Hello World!, 10, io: read/write on closed pipe", result[0])
	assert.Equal(t, "[INFO] Привет Мир!, 20, io: read/write on closed pipe", result[1])
	assert.Equal(t, "[WARN] こんにちは世界!, 30, io: read/write on closed pipe", result[2])
	assert.Equal(t, "[ERROR] ¡Hola Mundo!, 40, io: read/write on closed pipe", result[3])
	assert.Equal(t, "[ERROR] empty args", result[4])
	assert.Equal(t, "[ERROR] less args: one%!(EXTRA string=two)", result[5])
}

func Test_Zap(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	l := NewZap(zap.New(core))

	l.Debugf("debug %d", 1)
	l.Infof("info %s", "x")
	l.Warnf("warn")
	l.Errorf("error: %v", io.ErrClosedPipe)

	logs := observed.All()
	assert.Equal(t, 4, len(logs))
	assert.Equal(t, "debug 1", logs[0].Message)
	assert.Equal(t, "info x", logs[1].Message)
	assert.Equal(t, "warn", logs[2].Message)
	assert.Equal(t, "error: io: read/write on closed pipe", logs[3].Message)
}

func Test_ZapProduction_never_nil(t *testing.T) {
	assert.NotNil(t, NewZapProduction())
}
