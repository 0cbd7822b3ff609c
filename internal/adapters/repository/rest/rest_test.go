package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository"
	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/repository/rest"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type captured struct {
	method string
	path   string
	query  map[string][]string
	header http.Header
	body   string
}

func newServer(status int, reply string, got *captured) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*got = captured{method: r.Method, path: r.URL.Path, query: r.URL.Query(), header: r.Header.Clone(), body: string(body)}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
}

func TestBackend_Select(t *testing.T) {
	Convey("Given a table service returning two alerts", t, func() {
		var got captured
		srv := newServer(http.StatusOK, `[{"id":"a1","title":"one"},{"id":"a2","title":"two"}]`, &got)
		defer srv.Close()
		b := rest.New(srv.URL+"/", "anon-key")

		Convey("When selecting with filters, order and limit", func() {
			since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			q := repository.From(model.TableAlerts).
				Eq("user_id", "u1").
				Eq("is_read", false).
				Gte("created_at", since).
				OrderBy("created_at", false).
				WithLimit(5)
			var rows []model.Alert
			err := b.Select(context.Background(), q, &rows)

			Convey("Then the request uses the PostgREST dialect", func() {
				So(err, ShouldBeNil)
				So(got.method, ShouldEqual, http.MethodGet)
				So(got.path, ShouldEqual, "/rest/v1/alerts")
				So(got.query["select"], ShouldResemble, []string{"*"})
				So(got.query["user_id"], ShouldResemble, []string{"eq.u1"})
				So(got.query["is_read"], ShouldResemble, []string{"eq.false"})
				So(got.query["created_at"], ShouldResemble, []string{"gte.2026-03-01T00:00:00.000000000Z"})
				So(got.query["order"], ShouldResemble, []string{"created_at.desc"})
				So(got.query["limit"], ShouldResemble, []string{"5"})
			})

			Convey("And it authenticates with the api key", func() {
				So(got.header.Get("apikey"), ShouldEqual, "anon-key")
				So(got.header.Get("Authorization"), ShouldEqual, "Bearer anon-key")
			})

			Convey("And the rows are decoded", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[1].Title, ShouldEqual, "two")
			})
		})

		Convey("When projecting columns", func() {
			var rows []map[string]any
			err := b.Select(context.Background(), repository.From(model.TableMonitoring).Select("score", "recorded_at"), &rows)
			So(err, ShouldBeNil)
			So(got.query["select"], ShouldResemble, []string{"score,recorded_at"})
		})

		Convey("When the query is invalid", func() {
			var rows []map[string]any
			err := b.Select(context.Background(), repository.From("alerts; drop"), &rows)
			So(errors.Is(err, repository.ErrInvalidQuery), ShouldBeTrue)
		})
	})
}

func TestBackend_Mutations(t *testing.T) {
	Convey("Given a table service echoing representations", t, func() {
		var got captured

		Convey("When inserting a row", func() {
			srv := newServer(http.StatusCreated, `[{"id":"r1","title":"Pills","routine_type":"medication"}]`, &got)
			defer srv.Close()
			b := rest.New(srv.URL, "k")

			var out model.DailyRoutine
			err := b.Insert(context.Background(), model.TableRoutines, map[string]any{"title": "Pills"}, &out)

			Convey("Then it posts the row and asks for the representation", func() {
				So(err, ShouldBeNil)
				So(got.method, ShouldEqual, http.MethodPost)
				So(got.header.Get("Prefer"), ShouldEqual, "return=representation")
				So(got.header.Get("Content-Type"), ShouldEqual, "application/json")
				var sent map[string]any
				So(json.Unmarshal([]byte(got.body), &sent), ShouldBeNil)
				So(sent["title"], ShouldEqual, "Pills")
				So(out.ID, ShouldEqual, "r1")
			})
		})

		Convey("When updating a missing row", func() {
			srv := newServer(http.StatusOK, `[]`, &got)
			defer srv.Close()
			b := rest.New(srv.URL, "k")

			var out model.Alert
			err := b.Update(context.Background(), repository.From(model.TableAlerts).Eq("id", "nope"), map[string]any{"is_read": true}, &out)

			Convey("Then it reports not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(got.method, ShouldEqual, http.MethodPatch)
				So(got.query["id"], ShouldResemble, []string{"eq.nope"})
				So(got.body, ShouldEqual, `{"is_read":true}`)
			})
		})

		Convey("When deleting", func() {
			srv := newServer(http.StatusNoContent, ``, &got)
			defer srv.Close()
			b := rest.New(srv.URL, "k")

			err := b.Delete(context.Background(), repository.From(model.TableAlerts).Eq("id", "a1"))

			Convey("Then it sends the filter", func() {
				So(err, ShouldBeNil)
				So(got.method, ShouldEqual, http.MethodDelete)
				So(got.query["id"], ShouldResemble, []string{"eq.a1"})
			})
		})
	})
}

func TestBackend_Errors(t *testing.T) {
	Convey("Given a table service that rejects the request", t, func() {
		long := make([]byte, 2000)
		for i := range long {
			long[i] = 'x'
		}
		var got captured
		srv := newServer(http.StatusBadRequest, string(long), &got)
		defer srv.Close()
		b := rest.New(srv.URL, "k")

		var rows []map[string]any
		err := b.Select(context.Background(), repository.From(model.TableProfiles), &rows)

		Convey("Then the error is a truncated backend APIError", func() {
			So(errors.Is(err, repository.ErrBackend), ShouldBeTrue)
			var apiErr *rest.APIError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(len(apiErr.Body), ShouldEqual, 512)
		})
	})

	Convey("Given a table service failing twice with 503", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[{"id":"p1"}]`))
		}))
		defer srv.Close()
		b := rest.New(srv.URL, "k", rest.WithBackoffBase(time.Millisecond))

		var rows []model.Profile
		err := b.Select(context.Background(), repository.From(model.TableProfiles), &rows)

		Convey("Then it retries and succeeds", func() {
			So(err, ShouldBeNil)
			So(calls.Load(), ShouldEqual, 3)
			So(rows, ShouldHaveLength, 1)
		})
	})

	Convey("Given a table service that keeps failing", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		b := rest.New(srv.URL, "k", rest.WithBackoffBase(time.Millisecond))

		err := b.Delete(context.Background(), repository.From(model.TableProfiles).Eq("id", "x"))

		Convey("Then it gives up after three retries", func() {
			So(errors.Is(err, repository.ErrBackend), ShouldBeTrue)
			So(calls.Load(), ShouldEqual, 4)
		})
	})

	Convey("Given a cancelled context during backoff", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		b := rest.New(srv.URL, "k", rest.WithBackoffBase(time.Hour))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		var rows []model.Profile
		err := b.Select(ctx, repository.From(model.TableProfiles), &rows)

		Convey("Then it stops waiting", func() {
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
		})
	})
	Convey("Given a table service that fails an insert with 500", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		b := rest.New(srv.URL, "k", rest.WithBackoffBase(time.Millisecond))

		var out model.Alert
		err := b.Insert(context.Background(), model.TableAlerts, map[string]any{"title": "t"}, &out)

		Convey("Then the insert is not repeated", func() {
			So(errors.Is(err, repository.ErrBackend), ShouldBeTrue)
			So(calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a table service that rate limits an insert once", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`[{"id":"a1"}]`))
		}))
		defer srv.Close()
		b := rest.New(srv.URL, "k", rest.WithBackoffBase(time.Millisecond))

		var out model.Alert
		err := b.Insert(context.Background(), model.TableAlerts, map[string]any{"title": "t"}, &out)

		Convey("Then the insert is retried", func() {
			So(err, ShouldBeNil)
			So(calls.Load(), ShouldEqual, 2)
			So(out.ID, ShouldEqual, "a1")
		})
	})

	Convey("Given a table service asking to retry after an hour", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.Header().Set("Retry-After", "3600")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()
		b := rest.New(srv.URL, "k", rest.WithMaxRetryDelay(20*time.Millisecond))

		start := time.Now()
		var rows []model.Profile
		err := b.Select(context.Background(), repository.From(model.TableProfiles), &rows)

		Convey("Then the wait is capped", func() {
			So(err, ShouldBeNil)
			So(calls.Load(), ShouldEqual, 2)
			So(time.Since(start) < 5*time.Second, ShouldBeTrue)
		})
	})

	Convey("Given a table service reporting a duplicate key", t, func() {
		var got captured
		srv := newServer(http.StatusConflict, `{"code":"23505","message":"duplicate key value"}`, &got)
		defer srv.Close()
		b := rest.New(srv.URL, "k")

		err := b.Insert(context.Background(), model.TableProfiles, map[string]any{"id": "p1"}, nil)

		Convey("Then the error is a conflict", func() {
			So(errors.Is(err, repository.ErrConflict), ShouldBeTrue)
			So(errors.Is(err, repository.ErrBackend), ShouldBeFalse)
		})
	})
}
