package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/ws"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

func dial(url, userID string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url+"?user_id="+userID, nil)
	return conn, err
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestHub(t *testing.T) {
	Convey("Given a hub behind a test server", t, func() {
		hub := ws.New()
		srv := httptest.NewServer(hub)
		defer srv.Close()
		defer hub.Close()
		url := "ws" + strings.TrimPrefix(srv.URL, "http")

		Convey("When a client omits user_id", func() {
			resp, err := http.Get(srv.URL)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When two users are connected", func() {
			alice, err := dial(url, "alice")
			So(err, ShouldBeNil)
			defer alice.Close()
			bob, err := dial(url, "bob")
			So(err, ShouldBeNil)
			defer bob.Close()
			So(waitFor(func() bool { return hub.Count() == 2 }), ShouldBeTrue)

			hub.Publish(context.Background(), model.Alert{ID: "a1", UserID: "alice", Title: "Decline"})

			Convey("Then only the owner receives the alert", func() {
				_ = alice.SetReadDeadline(time.Now().Add(2 * time.Second))
				_, raw, err := alice.ReadMessage()
				So(err, ShouldBeNil)

				var msg ws.Message
				So(json.Unmarshal(raw, &msg), ShouldBeNil)
				So(msg.Event, ShouldEqual, "alert")
				So(msg.Data.ID, ShouldEqual, "a1")

				_ = bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
				_, _, err = bob.ReadMessage()
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a client disconnects", func() {
			c, err := dial(url, "carol")
			So(err, ShouldBeNil)
			So(waitFor(func() bool { return hub.Count() == 1 }), ShouldBeTrue)
			_ = c.Close()

			Convey("Then it is unregistered", func() {
				So(waitFor(func() bool { return hub.Count() == 0 }), ShouldBeTrue)
			})
		})

		Convey("When alerts are published while clients come and go", func() {
			stop := make(chan struct{})
			var publishers sync.WaitGroup
			for i := 0; i < 4; i++ {
				publishers.Add(1)
				go func() {
					defer publishers.Done()
					for {
						select {
						case <-stop:
							return
						default:
							hub.Publish(context.Background(), model.Alert{ID: "churn", UserID: "dave"})
						}
					}
				}()
			}

			var dialErr error
			for i := 0; i < 20; i++ {
				c, err := dial(url, "dave")
				if err != nil {
					dialErr = err
					break
				}
				_ = c.Close()
			}
			close(stop)
			publishers.Wait()

			Convey("Then publishing never races a closed client channel", func() {
				So(dialErr, ShouldBeNil)
				So(waitFor(func() bool { return hub.Count() == 0 }), ShouldBeTrue)
			})
		})

		Convey("When the hub closes during publishing", func() {
			for i := 0; i < 3; i++ {
				c, err := dial(url, "erin")
				So(err, ShouldBeNil)
				defer c.Close()
			}
			So(waitFor(func() bool { return hub.Count() == 3 }), ShouldBeTrue)

			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < 1000; i++ {
					hub.Publish(context.Background(), model.Alert{ID: "late", UserID: "erin"})
				}
			}()
			hub.Close()
			<-done

			Convey("Then every client is dropped", func() {
				So(hub.Count(), ShouldEqual, 0)
			})
		})
	})
}
