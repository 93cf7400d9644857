package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("Init installs a text logger", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("InitWithFormat accepts json", func() {
			So(InitWithFormat(FormatJSON), ShouldBeNil)
			So(Named("test"), ShouldNotBeNil)
		})

		Convey("InitWithFormat rejects unknown formats", func() {
			So(InitWithFormat("xml"), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a json logger writing to a buffer", t, func() {
		SetLevel(slog.LevelInfo)
		var buf bytes.Buffer
		l, err := New(&buf, FormatJSON)
		So(err, ShouldBeNil)

		ctx := context.Background()

		Convey("fields and the caller source are written", func() {
			l.Info(ctx, "scored",
				String("judge", "j1"),
				Int("round", 2),
				Int64("total", 30),
				Float64("mean", 28.5),
				Bool("replaced", true),
				Duration("took", time.Millisecond),
				Error(errors.New("boom")),
			)

			var line map[string]any
			So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
			So(line["msg"], ShouldEqual, "scored")
			So(line["judge"], ShouldEqual, "j1")
			So(line["round"], ShouldEqual, float64(2))
			So(line["replaced"], ShouldEqual, true)
			So(line["source"], ShouldContainSubstring, "logger_test.go:")
		})

		Convey("named loggers group their attributes", func() {
			l.Named("api").Warn(ctx, "slow", String("path", "/x"))
			So(buf.String(), ShouldContainSubstring, `"api":{`)
		})

		Convey("debug lines are dropped at info level", func() {
			l.Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)
		})

		Convey("raising the level to debug lets them through", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			l.Debug(ctx, "visible")
			So(strings.Contains(buf.String(), "visible"), ShouldBeTrue)
			SetLevel(slog.LevelInfo)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("SetLevelString", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " Error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		SetLevel(slog.LevelInfo)
	})
}
