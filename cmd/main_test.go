package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/ayushkatiyar1508/brain-guard/internal/app"
)

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithWorkerCount(1))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop(ctx)

		mux, err := newMux(ctx, svc)
		convey.So(err, convey.ShouldBeNil)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		convey.Convey("Then the landing page, docs and API are all routed", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz", "/stats", "/exercises", "/calls/contacts"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})
	})

	convey.Convey("Given a service that was never started", t, func() {
		_, err := newMux(context.Background(), app.New())

		convey.Convey("Then no mux is built", func() {
			convey.So(err, convey.ShouldEqual, app.ErrNotStarted)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a valid environment", t, func() {
		t.Setenv("BRAINGUARD_ADDR", "127.0.0.1:0")
		t.Setenv("BRAINGUARD_WORKER_COUNT", "2")
		t.Setenv("BRAINGUARD_BACKEND__SQLITE_PATH", filepath.Join(t.TempDir(), "bg.db"))

		convey.Convey("When the context is cancelled, run shuts down cleanly", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			convey.So(run(ctx), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given an invalid environment", t, func() {
		t.Setenv("BRAINGUARD_QUEUE_SIZE", "-1")

		convey.Convey("Then run fails before serving", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(strings.Contains(err.Error(), "queue"), convey.ShouldBeTrue)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given short-lived contexts", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		svc := app.New()

		convey.Convey("Then both updaters return when the context ends", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})
	})
}
