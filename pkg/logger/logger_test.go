package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("Info records carry fields and the caller", func() {
			Get().Info(ctx, "hello", String("k", "v"), Int("n", 3))

			var rec map[string]any
			So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
			So(rec["msg"], ShouldEqual, "hello")
			So(rec["k"], ShouldEqual, "v")
			So(rec["n"], ShouldEqual, float64(3))
			So(rec["source"], ShouldContainSubstring, "logger_test.go")
		})

		Convey("Named and With add attributes", func() {
			Named("worker").With(String("task", "t1")).Warn(ctx, "slow", Error(errors.New("boom")))

			var rec map[string]any
			So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
			So(rec["component"], ShouldEqual, "worker")
			So(rec["task"], ShouldEqual, "t1")
			So(rec["error"], ShouldEqual, "boom")
		})

		Convey("Debug is filtered at info level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)

			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(ctx, "shown")
			So(buf.String(), ShouldContainSubstring, "shown")
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, name := range []string{"debug", "INFO", "", " warn ", "warning", "error"} {
			So(SetLevelString(name), ShouldBeNil)
		}
		So(SetLevelString("error"), ShouldBeNil)
		So(levelVar.Level(), ShouldEqual, slog.LevelError)

		err := SetLevelString("loud")
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "loud"), ShouldBeTrue)
	})
}

func TestGetWithoutInit(t *testing.T) {
	mu.Lock()
	global = nil
	mu.Unlock()

	if Get() == nil {
		t.Fatal("Get returned nil without Init")
	}
	if err := Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
}
