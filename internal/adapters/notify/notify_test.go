package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/notify"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

type recorder struct {
	mu     sync.Mutex
	bodies []map[string]any
	status int
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	raw, _ := io.ReadAll(req.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	r.mu.Lock()
	r.bodies = append(r.bodies, body)
	r.mu.Unlock()
	if r.status != 0 {
		w.WriteHeader(r.status)
	}
}

type collect struct{ got []model.Alert }

func (c *collect) Publish(_ context.Context, a model.Alert) { c.got = append(c.got, a) }

func TestWebhooks(t *testing.T) {
	Convey("Given an http and a slack target", t, func() {
		httpRec, slackRec := &recorder{}, &recorder{}
		httpSrv := httptest.NewServer(httpRec)
		defer httpSrv.Close()
		slackSrv := httptest.NewServer(slackRec)
		defer slackSrv.Close()

		w := notify.NewWebhooks([]notify.Webhook{
			{Type: notify.KindHTTP, URL: httpSrv.URL},
			{Type: notify.KindSlack, URL: slackSrv.URL},
			{Type: notify.KindHTTP},
		})
		So(w.Len(), ShouldEqual, 2)

		desc := "Average score 45"
		alert := model.Alert{ID: "a1", UserID: "u1", Severity: model.SeverityHigh, Title: "Decline", Description: &desc}

		Convey("When an alert is published", func() {
			w.Publish(context.Background(), alert)
			w.Wait()

			Convey("Then the http target gets the alert object", func() {
				So(httpRec.bodies, ShouldHaveLength, 1)
				inner, ok := httpRec.bodies[0]["alert"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(inner["id"], ShouldEqual, "a1")
			})

			Convey("Then the slack target gets a text line", func() {
				So(slackRec.bodies, ShouldHaveLength, 1)
				So(slackRec.bodies[0]["text"], ShouldEqual, "*[high]* Decline\nAverage score 45")
			})
		})

		Convey("When a target fails", func() {
			httpRec.status = http.StatusInternalServerError
			w.Publish(context.Background(), alert)
			w.Wait()

			Convey("Then the other target still receives it", func() {
				So(slackRec.bodies, ShouldHaveLength, 1)
			})
		})
	})
}

func TestFanout(t *testing.T) {
	Convey("Given a fanout with a nil entry", t, func() {
		a, b := &collect{}, &collect{}
		f := notify.Fanout{a, nil, b}

		Convey("Then every publisher receives the alert", func() {
			f.Publish(context.Background(), model.Alert{ID: "x"})
			So(a.got, ShouldHaveLength, 1)
			So(b.got, ShouldHaveLength, 1)
		})
	})
}
