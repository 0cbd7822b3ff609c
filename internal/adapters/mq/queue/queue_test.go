package queue_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	"github.com/ayushkatiyar1508/brain-guard/internal/adapters/mq/queue"
	"github.com/ayushkatiyar1508/brain-guard/internal/domain/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sub(id string) model.Submission {
	return model.Submission{SubmissionID: id, UserID: "u1", DataType: model.SpeechPattern, RecordedAt: time.Now()}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue of capacity two", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		Convey("Then it starts empty", func() {
			So(q.Len(ctx), ShouldEqual, 0)
			So(q.Cap(), ShouldEqual, 2)
		})

		Convey("When it is filled", func() {
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, sub("b")), ShouldBeTrue)

			Convey("Then further submissions are refused without blocking", func() {
				So(q.Enqueue(ctx, sub("c")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And dequeue preserves order", func() {
				ch := q.Dequeue(ctx)
				So((<-ch).SubmissionID, ShouldEqual, "a")
				So((<-ch).SubmissionID, ShouldEqual, "b")
			})
		})

		Convey("When it is closed", func() {
			So(q.Enqueue(ctx, sub("a")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue fails but queued items drain", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, sub("b")), ShouldBeFalse)
				ch := q.Dequeue(ctx)
				So((<-ch).SubmissionID, ShouldEqual, "a")
				_, open := <-ch
				So(open, ShouldBeFalse)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, ccancel := context.WithCancel(ctx)
			ch := q.Dequeue(cctx)
			ccancel()

			Convey("Then the dequeue channel closes", func() {
				_, open := <-ch
				So(open, ShouldBeFalse)
				So(q.Enqueue(cctx, sub("x")), ShouldBeFalse)
			})
		})
	})
}
